package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-blood-donation/internal/application"
)

type recorded struct {
	method string
	path   string
	body   map[string]any
}

func newFakeES(t *testing.T, status int, reply string) (*DonorIndex, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		rec := recorded{method: r.Method, path: r.URL.Path}
		_ = json.Unmarshal(raw, &rec.body)
		calls = append(calls, rec)
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewDonorIndex(es, "donors"), &calls
}

func TestIndexDonor(t *testing.T) {
	idx, calls := newFakeES(t, http.StatusCreated, `{"result":"created"}`)

	err := idx.IndexDonor(context.Background(), application.DonorDocument{
		UserID: 12, DonorID: 3, Name: "Budi Santoso", BloodGroup: "O-", Address: "Bandung", IsAvailable: true,
	})
	require.NoError(t, err)
	require.Len(t, *calls, 1)
	c := (*calls)[0]
	assert.Equal(t, http.MethodPut, c.method)
	assert.Equal(t, "/donors/_doc/12", c.path)
	assert.Equal(t, "Budi Santoso", c.body["name"])
	assert.Equal(t, "O-", c.body["blood_group"])
}

func TestIndexDonor_ErrorStatus(t *testing.T) {
	idx, _ := newFakeES(t, http.StatusBadRequest, `{"error":"bad"}`)
	assert.Error(t, idx.IndexDonor(context.Background(), application.DonorDocument{UserID: 1}))
}

func TestSearchDonors(t *testing.T) {
	idx, calls := newFakeES(t, http.StatusOK, `{"hits":{"hits":[
		{"_source":{"user_id":7}},
		{"_source":{"user_id":3}}
	]}}`)

	ids, err := idx.SearchDonors(context.Background(), "bandung", []int64{3, 7, 9})
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 3}, ids)

	require.Len(t, *calls, 1)
	c := (*calls)[0]
	assert.Equal(t, "/donors/_search", c.path)
	assert.EqualValues(t, 3, c.body["size"])
	boolQ := c.body["query"].(map[string]any)["bool"].(map[string]any)
	mm := boolQ["must"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "bandung", mm["query"])
	terms := boolQ["filter"].(map[string]any)["terms"].(map[string]any)
	assert.Equal(t, []any{3.0, 7.0, 9.0}, terms["user_id"])
}

func TestSearchDonors_NoCandidates(t *testing.T) {
	idx, calls := newFakeES(t, http.StatusOK, `{}`)
	ids, err := idx.SearchDonors(context.Background(), "bandung", nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Empty(t, *calls)
}

func TestSearchQuery_SizeCappedAtResultWindow(t *testing.T) {
	within := make([]int64, maxWindow+5)
	assert.Equal(t, maxWindow, searchQuery("x", within)["size"])
}

func TestSearchDonors_ErrorStatus(t *testing.T) {
	idx, _ := newFakeES(t, http.StatusServiceUnavailable, `{}`)
	_, err := idx.SearchDonors(context.Background(), "x", []int64{5})
	assert.Error(t, err)
}
