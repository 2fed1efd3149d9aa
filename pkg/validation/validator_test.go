package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type signup struct {
	Email string `json:"email" validate:"required,email"`
	Pwd   string `json:"password" validate:"required,pwd"`
	Role  string `json:"role" validate:"required,signuprole"`
	Phone string `json:"phone_number" validate:"omitempty,phone"`
}

type bloodForm struct {
	Group    string `json:"blood_group" validate:"required,bloodgroup"`
	Urgency  string `json:"urgency_level" validate:"required,urgency"`
	Status   string `json:"status" validate:"omitempty,reqstatus"`
	Quantity int    `json:"quantity_required" validate:"gt=0,max=50"`
	Skip     string `json:"-" validate:"omitempty"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	Register(v)
	return v
}

func TestDomainTags(t *testing.T) {
	v := newValidator()
	assert.NoError(t, v.Struct(bloodForm{Group: "ab-", Urgency: "critical", Status: "Fulfilled", Quantity: 1}))

	details := ToDetails(v.Struct(bloodForm{Group: "C", Urgency: "soon", Status: "Paused", Quantity: 99}))
	assert.Equal(t, map[string]string{
		"blood_group":       "must be one of: A+, A-, B+, B-, AB+, AB-, O+, O-",
		"urgency_level":     "must be one of: Critical, High, Normal",
		"status":            "must be one of: Active, Fulfilled, Cancelled",
		"quantity_required": "must be at most 50",
	}, details)
}

func TestSignupRole(t *testing.T) {
	v := newValidator()
	assert.NoError(t, v.Struct(signup{Email: "a@example.com", Pwd: "12345678", Role: "donor", Phone: "+628123456789"}))

	details := ToDetails(v.Struct(signup{Email: "nope", Pwd: "short", Role: "admin", Phone: "0812"}))
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be one of: donor, requester", details["role"])
	assert.Equal(t, "must be a valid phone number", details["phone_number"])
	assert.Contains(t, details, "password")
}

func TestToDetails_NonValidationErrors(t *testing.T) {
	assert.Nil(t, ToDetails(nil))

	var x struct{ N int }
	err := json.Unmarshal([]byte(`{"N":"str"}`), &x)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))

	err = json.Unmarshal([]byte(`{`), &x)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))

	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(errors.New("EOF")))
}
