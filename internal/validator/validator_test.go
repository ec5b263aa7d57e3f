package validator_test

import (
	"testing"

	"visacenter_backend/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleInput struct {
	Email    string `json:"email" validate:"required,email"`
	VisaType string `json:"visa_type" validate:"required,visa_type"`
	Status   string `json:"status" validate:"omitempty,app_status"`
}

func TestValidate_OK(t *testing.T) {
	t.Parallel()
	v := validator.New()

	err := v.Validate(&sampleInput{
		Email:    "bat@test.mn",
		VisaType: "tourist",
		Status:   "submitted",
	})
	assert.NoError(t, err)
}

func TestValidate_FieldNamesFromJSONTags(t *testing.T) {
	t.Parallel()
	v := validator.New()

	err := v.Validate(&sampleInput{
		Email:    "not-an-email",
		VisaType: "diplomatic",
	})
	require.Error(t, err)

	var vErr *validator.ValidationError
	require.ErrorAs(t, err, &vErr)

	// Клиент видит имена полей из json-тегов
	assert.Contains(t, vErr.Errors, "email")
	assert.Contains(t, vErr.Errors, "visa_type")
	assert.Equal(t, "Must be a supported visa type", vErr.Errors["visa_type"])
}

func TestValidate_CustomRules(t *testing.T) {
	t.Parallel()
	v := validator.New()

	cases := []struct {
		visaType string
		status   string
		valid    bool
	}{
		{"tourist", "draft", true},
		{"business", "approved", true},
		{"diplomatic", "draft", false},
		{"tourist", "pending", false},
	}

	for _, tc := range cases {
		err := v.Validate(&sampleInput{
			Email:    "bat@test.mn",
			VisaType: tc.visaType,
			Status:   tc.status,
		})
		if tc.valid {
			assert.NoError(t, err, "visa_type=%s status=%s", tc.visaType, tc.status)
		} else {
			assert.Error(t, err, "visa_type=%s status=%s", tc.visaType, tc.status)
		}
	}
}
