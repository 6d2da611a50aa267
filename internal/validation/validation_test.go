package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type policyInput struct {
	Recipient   string   `json:"recipient_email" validate:"max=10"`
	BlindFields []string `json:"blind_fields" validate:"omitempty,dive,blind_field"`
}

func TestBlindFieldValidator(t *testing.T) {
	v := New()

	assert.NoError(t, v.Struct(policyInput{BlindFields: []string{"email", "Phone"}}))
	assert.NoError(t, v.Struct(policyInput{}))

	err := v.Struct(policyInput{BlindFields: []string{"email", "name"}})
	require.Error(t, err)
	assert.Equal(t, map[string]string{"blind_fields[1]": "blind_field"}, FieldErrors(err))
}

func TestFieldErrorsUsesJSONNames(t *testing.T) {
	err := New().Struct(policyInput{Recipient: "far-too-long@example.com"})
	assert.Equal(t, map[string]string{"recipient_email": "max"}, FieldErrors(err))
}

func TestFieldErrorsIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, FieldErrors(errors.New("boom")))
}
