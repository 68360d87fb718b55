package lifecycle

import "github.com/vidalink/telemed/pkg/types"

// ColorForPhase maps a phase to its badge color semantic. The mapping is
// a function of the phase alone — never of role or kind — which is what
// keeps the visual vocabulary consistent across the whole app.
func ColorForPhase(phase types.UiPhase) types.UiColorKey {
	switch phase {
	case types.PhaseAwaitingPayment, types.PhaseWaitingDoctor:
		return types.ColorWaiting
	case types.PhaseSigned, types.PhaseDelivered, types.PhaseFinished:
		return types.ColorSuccess
	case types.PhaseCancelled, types.PhaseRejected, types.PhaseError:
		return types.ColorHistorical
	case types.PhaseSent, types.PhaseAI, types.PhaseReview,
		types.PhaseReadyToSign, types.PhaseConsultReady, types.PhaseInConsultation:
		return types.ColorAction
	default:
		return types.ColorAction
	}
}

// BadgeLabel maps a phase to the short badge text shown on cards. Like
// the color, it depends on the phase alone; role-specific wording lives
// in the PhaseConfig title instead.
func BadgeLabel(phase types.UiPhase) string {
	switch phase {
	case types.PhaseSent:
		return "Enviada"
	case types.PhaseAI:
		return "Análise IA"
	case types.PhaseReview:
		return "Em análise"
	case types.PhaseAwaitingPayment:
		return "Aguardando pagamento"
	case types.PhaseWaitingDoctor:
		return "Aguardando médico"
	case types.PhaseReadyToSign:
		return "Pronta para assinar"
	case types.PhaseSigned:
		return "Assinada"
	case types.PhaseDelivered:
		return "Entregue"
	case types.PhaseConsultReady:
		return "Consulta pronta"
	case types.PhaseInConsultation:
		return "Em consulta"
	case types.PhaseFinished:
		return "Finalizada"
	case types.PhaseCancelled:
		return "Cancelada"
	case types.PhaseRejected:
		return "Recusada"
	case types.PhaseError:
		return "Erro"
	default:
		return "Enviada"
	}
}
