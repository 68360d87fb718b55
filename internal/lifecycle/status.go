// Package lifecycle derives everything the UI needs about a request —
// phase, titles, permitted actions, progress timeline, badge color and
// dashboard bucket — from the raw backend status, the viewer role and
// the request kind. Every function is pure and total: unknown input
// degrades to a safe default instead of failing.
package lifecycle

import (
	"strings"

	"github.com/vidalink/telemed/pkg/types"
)

// legacyAliases maps deprecated backend status strings to their
// canonical replacement. Kept as a single flat table so the whole
// normalization surface is auditable in one place.
var legacyAliases = map[string]types.NormalizedStatus{
	"pending":         types.StatusSubmitted,
	"analyzing":       types.StatusInReview,
	"pending_payment": types.StatusApprovedPendingPayment,
	"approved":        types.StatusPaid,
	"completed":       types.StatusDelivered,
}

// canonicalStatuses is the closed set of normalized status values.
var canonicalStatuses = map[types.NormalizedStatus]struct{}{
	types.StatusSubmitted:              {},
	types.StatusInReview:               {},
	types.StatusApprovedPendingPayment: {},
	types.StatusPaid:                   {},
	types.StatusSigned:                 {},
	types.StatusDelivered:              {},
	types.StatusRejected:               {},
	types.StatusCancelled:              {},
	types.StatusSearchingDoctor:        {},
	types.StatusConsultationReady:      {},
	types.StatusInConsultation:         {},
	types.StatusConsultationFinished:   {},
}

// Normalize maps any raw backend status string to one of the twelve
// canonical values. Legacy aliases are collapsed first; anything
// unrecognized falls back to StatusSubmitted, the least-privileged and
// most-visible state, so a new backend status never breaks the UI.
func Normalize(raw string) types.NormalizedStatus {
	status := strings.ToLower(strings.TrimSpace(raw))

	if normalized, ok := legacyAliases[status]; ok {
		return normalized
	}

	if _, ok := canonicalStatuses[types.NormalizedStatus(status)]; ok {
		return types.NormalizedStatus(status)
	}

	return types.StatusSubmitted
}

// IsTerminal reports whether a normalized status admits no further
// transitions for either role.
func IsTerminal(status types.NormalizedStatus) bool {
	return status == types.StatusRejected || status == types.StatusCancelled
}
