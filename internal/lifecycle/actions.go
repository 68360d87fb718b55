package lifecycle

import "github.com/vidalink/telemed/pkg/types"

// genericBlockedMessage is returned when no more specific reason exists
// for a blocked action.
const genericBlockedMessage = "Esta ação não está disponível no momento"

// IsActionAllowed reports whether the given role may perform the given
// lifecycle action on the request right now. It delegates entirely to
// the resolved phase's action flags, so it is pure and safe to call on
// every render.
func IsActionAllowed(req *types.Request, role types.Role, action types.TransitionAction) bool {
	actions := ResolveRequest(role, req).Actions

	switch action {
	case types.ActionPay:
		return actions.CanPay
	case types.ActionApprove:
		return actions.CanApprove
	case types.ActionReject:
		return actions.CanReject
	case types.ActionSign:
		return actions.CanSign
	case types.ActionDeliver:
		return actions.CanDeliver
	case types.ActionAccept:
		return actions.CanAcceptConsultation
	case types.ActionStart, types.ActionFinish:
		return actions.CanJoinCall
	case types.ActionCancel:
		return actions.CanCancel
	default:
		return false
	}
}

// BlockedActionMessage explains why an action is not available. When the
// lifecycle has already moved past the step the action belongs to, the
// message says so specifically; otherwise it falls back to the phase's
// disabled reason, then to a generic message. Returns "" when the action
// is actually allowed.
func BlockedActionMessage(req *types.Request, role types.Role, action types.TransitionAction) string {
	if IsActionAllowed(req, role, action) {
		return ""
	}

	if req != nil {
		if msg := alreadyDoneMessage(Normalize(req.Status), action); msg != "" {
			return msg
		}
	}

	if reason := ResolveRequest(role, req).DisabledReason; reason != "" {
		return reason
	}

	return genericBlockedMessage
}

// alreadyDoneMessage returns the "this step already happened" message
// when the normalized status sits past the step the action belongs to.
func alreadyDoneMessage(status types.NormalizedStatus, action types.TransitionAction) string {
	switch action {
	case types.ActionPay:
		switch status {
		case types.StatusPaid, types.StatusSigned, types.StatusDelivered,
			types.StatusConsultationReady, types.StatusInConsultation,
			types.StatusConsultationFinished:
			return "O pagamento desta solicitação já foi realizado"
		}
	case types.ActionSign:
		switch status {
		case types.StatusSigned, types.StatusDelivered:
			return "Este documento já foi assinado"
		}
	case types.ActionDeliver:
		if status == types.StatusDelivered {
			return "Este documento já foi entregue"
		}
	case types.ActionApprove, types.ActionReject:
		switch status {
		case types.StatusApprovedPendingPayment, types.StatusPaid,
			types.StatusSigned, types.StatusDelivered:
			return "Esta solicitação já foi analisada"
		}
	case types.ActionAccept:
		switch status {
		case types.StatusApprovedPendingPayment, types.StatusPaid,
			types.StatusConsultationReady, types.StatusInConsultation,
			types.StatusConsultationFinished:
			return "Esta consulta já foi aceita"
		}
	case types.ActionStart:
		if status == types.StatusInConsultation {
			return "Esta consulta já está em andamento"
		}
		if status == types.StatusConsultationFinished {
			return "Esta consulta já foi finalizada"
		}
	case types.ActionFinish:
		if status == types.StatusConsultationFinished {
			return "Esta consulta já foi finalizada"
		}
	}
	return ""
}
