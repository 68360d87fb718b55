package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vidalink/telemed/pkg/types"
)

func TestNormalize_LegacyAliases(t *testing.T) {
	cases := map[string]types.NormalizedStatus{
		"pending":         types.StatusSubmitted,
		"analyzing":       types.StatusInReview,
		"pending_payment": types.StatusApprovedPendingPayment,
		"approved":        types.StatusPaid,
		"completed":       types.StatusDelivered,
	}

	for raw, expected := range cases {
		assert.Equal(t, expected, Normalize(raw), "alias %q", raw)
	}
}

func TestNormalize_CanonicalPassthrough(t *testing.T) {
	for status := range canonicalStatuses {
		assert.Equal(t, status, Normalize(string(status)))
	}
}

func TestNormalize_UnknownFallsBackToSubmitted(t *testing.T) {
	garbage := []string{
		"",
		"unknown_future_status",
		"PAID_BUT_NOT_REALLY",
		"42",
		"null",
		"🩺",
		"submitted ", // trailing space is tolerated, still canonical
	}

	for _, raw := range garbage {
		normalized := Normalize(raw)
		_, canonical := canonicalStatuses[normalized]
		assert.True(t, canonical, "Normalize(%q) must return a canonical value", raw)
	}

	assert.Equal(t, types.StatusSubmitted, Normalize("unknown_future_status"))
	assert.Equal(t, types.StatusSubmitted, Normalize(""))
}

func TestNormalize_IsCaseAndSpaceInsensitive(t *testing.T) {
	assert.Equal(t, types.StatusPaid, Normalize("  PAID "))
	assert.Equal(t, types.StatusInReview, Normalize("Analyzing"))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(types.StatusRejected))
	assert.True(t, IsTerminal(types.StatusCancelled))
	assert.False(t, IsTerminal(types.StatusSubmitted))
	assert.False(t, IsTerminal(types.StatusDelivered))
	assert.False(t, IsTerminal(types.StatusConsultationFinished))
}
