package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "NOTIFY_VERIFIED_DONORS_ONLY", "MAIL_SEND_ENABLED", "TRUST_PROXY_HEADERS", "JWT_ACCESS_TTL"} {
		t.Setenv(k, "")
	}
	c := Load()
	assert.Equal(t, "8080", c.Port)
	assert.False(t, c.NotifyVerifiedDonorsOnly)
	assert.False(t, c.MailSendEnabled)
	assert.False(t, c.TrustProxyHeaders)
	assert.Equal(t, time.Hour, c.AccessTTL)
	assert.Equal(t, 5, c.RecentRequestsLimit)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("NOTIFY_VERIFIED_DONORS_ONLY", "true")
	t.Setenv("RECENT_REQUESTS_LIMIT", "12")
	t.Setenv("JWT_ACCESS_TTL", "15m")
	t.Setenv("MAIL_SEND_ENABLED", "not-a-bool")
	t.Setenv("DB_MAX_CONNS", "x")

	c := Load()
	assert.True(t, c.NotifyVerifiedDonorsOnly)
	assert.Equal(t, 12, c.RecentRequestsLimit)
	assert.Equal(t, 15*time.Minute, c.AccessTTL)
	assert.False(t, c.MailSendEnabled, "invalid values fall back to the default")
	assert.EqualValues(t, 10, c.DBMaxConns)
}

func TestPostgresDSN(t *testing.T) {
	c := &Config{DBUser: "app", DBPassword: "p@ss:w/rd", DBHost: "db", DBPort: "5432", DBName: "blood", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/blood?sslmode=disable", c.PostgresDSN())
}

func TestListHelpers(t *testing.T) {
	c := &Config{CORSAllowedOrigins: " http://a.test , ,http://b.test", ElasticsearchAddrs: "http://es1:9200,http://es2:9200"}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.CORSOrigins())
	assert.Equal(t, []string{"http://es1:9200", "http://es2:9200"}, c.ESAddrs())
	assert.Empty(t, (&Config{}).CORSOrigins())
}
