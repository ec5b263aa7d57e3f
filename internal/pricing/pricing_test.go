package pricing_test

import (
	"testing"

	"visacenter_backend/internal/models"
	"visacenter_backend/internal/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFee(t *testing.T) {
	t.Parallel()

	cases := []struct {
		visaType models.VisaType
		urgent   bool
		want     int64
	}{
		{models.VisaTypeTourist, false, 160000},
		{models.VisaTypeStudent, false, 185000},
		{models.VisaTypeWork, false, 190000},
		{models.VisaTypeFamily, false, 160000},
		{models.VisaTypeBusiness, false, 205000},
		{models.VisaTypeTourist, true, 220000},
		{models.VisaTypeBusiness, true, 265000},
	}

	for _, tc := range cases {
		got, err := pricing.Fee(tc.visaType, tc.urgent)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s urgent=%v", tc.visaType, tc.urgent)
	}
}

func TestFee_UnknownType(t *testing.T) {
	t.Parallel()

	_, err := pricing.Fee(models.VisaType("diplomatic"), false)
	assert.ErrorIs(t, err, pricing.ErrUnknownVisaType)
}
