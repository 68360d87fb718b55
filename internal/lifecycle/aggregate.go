package lifecycle

import "github.com/vidalink/telemed/pkg/types"

// DoctorCounters folds a doctor's request list into the dashboard badge
// counts. Each request runs through the same derivation pipeline as the
// detail view, so the counters can never disagree with what the list
// rows show. PendentesTotal counts everything still demanding doctor
// attention: non-historical and not yet finished or delivered.
func DoctorCounters(requests []*types.Request) types.DoctorCounterSet {
	var counters types.DoctorCounterSet

	for _, req := range requests {
		cfg := ResolveRequest(types.RoleDoctor, req)

		switch cfg.Bucket {
		case types.BucketQueue:
			counters.NaFila++
		case types.BucketConsultReady:
			counters.ConsultaPronta++
		case types.BucketInConsultation:
			counters.EmConsulta++
		}

		if cfg.Bucket != types.BucketHistorical {
			counters.PendentesTotal++
		}
	}

	return counters
}

// PatientCounters folds a patient's request list into the dashboard
// badge counts: requests under analysis, requests waiting for payment
// and documents ready to use.
func PatientCounters(requests []*types.Request) types.PatientCounterSet {
	var counters types.PatientCounterSet

	for _, req := range requests {
		cfg := ResolveRequest(types.RolePatient, req)

		if cfg.Phase == types.PhaseReview || cfg.Phase == types.PhaseAI {
			counters.Pendentes++
		}
		if cfg.Actions.CanPay {
			counters.APagar++
		}
		if cfg.Phase == types.PhaseSigned || cfg.Phase == types.PhaseDelivered {
			counters.Prontas++
		}
	}

	return counters
}

// PendingForPanel returns the requests still in flight for the dashboard
// "needs attention" panel, truncated to limit. Input order is preserved:
// the ordering guarantee belongs to the caller's fetch, not this layer.
func PendingForPanel(role types.Role, requests []*types.Request, limit int) []*types.Request {
	if limit <= 0 {
		return nil
	}

	pending := make([]*types.Request, 0, limit)
	for _, req := range requests {
		cfg := ResolveRequest(role, req)
		if cfg.Bucket == types.BucketHistorical {
			continue
		}
		switch cfg.Phase {
		case types.PhaseFinished, types.PhaseDelivered,
			types.PhaseCancelled, types.PhaseRejected, types.PhaseError:
			continue
		}

		pending = append(pending, req)
		if len(pending) == limit {
			break
		}
	}

	return pending
}
