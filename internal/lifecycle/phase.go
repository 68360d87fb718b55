package lifecycle

import (
	"strings"

	"github.com/vidalink/telemed/pkg/types"
)

// PhaseConfig is the resolved lifecycle configuration for one
// (role, kind, status) combination: the UI phase, the wording shown to
// that role, the actions that role may take, the dashboard bucket and,
// when the phase blocks common actions, the reason shown to the user.
type PhaseConfig struct {
	Phase          types.UiPhase
	Title          string
	Subtitle       string
	Actions        types.UiActions
	Bucket         types.CounterBucket
	DisabledReason string
}

// ResolvePhase maps (role, kind, normalized status) to a PhaseConfig.
// It is total: terminal statuses short-circuit to a shared config,
// consultations use their own table, prescriptions and exams share the
// document table, and any unhandled combination lands on the kind's
// initial phase with no actions enabled.
//
// rawStatus is consulted for exactly one thing: a document request whose
// raw status is still the legacy "analyzing" surfaces the automated
// pre-screening step to the patient as the ai phase. The doctor never
// sees that phase, and consultations ignore the raw status entirely.
//
// The central invariant here is role asymmetry: the same backend status
// never grants the same gated capability (pay, approve, reject, sign,
// deliver, accept) to both roles at once.
func ResolvePhase(role types.Role, kind types.RequestKind, status types.NormalizedStatus, rawStatus string) PhaseConfig {
	if IsTerminal(status) {
		return terminalConfig(status)
	}

	if kind == types.KindConsultation {
		return resolveConsultation(role, status)
	}

	return resolveDocument(role, status, rawStatus)
}

// terminalConfig is shared by both roles and all kinds: terminal
// requests expose no actions and live in the historical bucket.
func terminalConfig(status types.NormalizedStatus) PhaseConfig {
	if status == types.StatusRejected {
		return PhaseConfig{
			Phase:          types.PhaseRejected,
			Title:          "Solicitação recusada",
			Subtitle:       "O médico recusou esta solicitação",
			Bucket:         types.BucketHistorical,
			DisabledReason: "Esta solicitação foi encerrada",
		}
	}
	return PhaseConfig{
		Phase:          types.PhaseCancelled,
		Title:          "Solicitação cancelada",
		Bucket:         types.BucketHistorical,
		DisabledReason: "Esta solicitação foi encerrada",
	}
}

// resolveDocument covers prescriptions and exams, which share one
// workflow: submitted → review → payment → doctor signs → delivered.
func resolveDocument(role types.Role, status types.NormalizedStatus, rawStatus string) PhaseConfig {
	if role == types.RoleDoctor {
		return resolveDocumentDoctor(status)
	}
	return resolveDocumentPatient(status, rawStatus)
}

func resolveDocumentPatient(status types.NormalizedStatus, rawStatus string) PhaseConfig {
	switch status {
	case types.StatusSubmitted:
		// Unknown raw statuses normalize to submitted, so this config
		// doubles as the fail-open landing spot: visible, no actions.
		return PhaseConfig{
			Phase:    types.PhaseSent,
			Title:    "Solicitação enviada",
			Subtitle: "Aguardando início da análise",
			Bucket:   types.BucketPending,
		}
	case types.StatusInReview:
		// The legacy "analyzing" raw status marks the automated
		// pre-screening stage, surfaced only to the patient.
		if strings.EqualFold(strings.TrimSpace(rawStatus), "analyzing") {
			return PhaseConfig{
				Phase:          types.PhaseAI,
				Title:          "Análise IA em andamento",
				Subtitle:       "Sua solicitação está em triagem automática",
				Actions:        types.UiActions{CanCancel: true},
				Bucket:         types.BucketPending,
				DisabledReason: "Sua solicitação ainda está em análise",
			}
		}
		return PhaseConfig{
			Phase:          types.PhaseReview,
			Title:          "Em análise médica",
			Subtitle:       "Um médico está revisando sua solicitação",
			Actions:        types.UiActions{CanCancel: true},
			Bucket:         types.BucketPending,
			DisabledReason: "Sua solicitação ainda está em análise",
		}
	case types.StatusApprovedPendingPayment:
		return PhaseConfig{
			Phase:    types.PhaseAwaitingPayment,
			Title:    "Pagamento pendente",
			Subtitle: "Realize o pagamento para prosseguir",
			Actions:  types.UiActions{CanPay: true, CanCancel: true},
			Bucket:   types.BucketToPay,
		}
	case types.StatusPaid:
		return PhaseConfig{
			Phase:          types.PhaseWaitingDoctor,
			Title:          "Aguardando médico",
			Subtitle:       "O médico irá assinar seu documento",
			Bucket:         types.BucketPending,
			DisabledReason: "Aguardando a assinatura do médico",
		}
	case types.StatusSigned:
		return PhaseConfig{
			Phase:    types.PhaseSigned,
			Title:    "Documento assinado",
			Subtitle: "Seu documento foi assinado digitalmente",
			Actions:  types.UiActions{CanDownload: true},
			Bucket:   types.BucketReady,
		}
	case types.StatusDelivered:
		return PhaseConfig{
			Phase:   types.PhaseDelivered,
			Title:   "Documento disponível",
			Actions: types.UiActions{CanDownload: true},
			Bucket:  types.BucketReady,
		}
	case types.StatusSearchingDoctor, types.StatusConsultationReady,
		types.StatusInConsultation, types.StatusConsultationFinished,
		types.StatusRejected, types.StatusCancelled:
		// Consultation statuses on a document request and terminal
		// statuses (handled earlier) fall through to the safe default.
		return documentDefault(types.RolePatient)
	default:
		return documentDefault(types.RolePatient)
	}
}

func resolveDocumentDoctor(status types.NormalizedStatus) PhaseConfig {
	switch status {
	case types.StatusSubmitted:
		// Submitted requests are already in the doctor queue but the
		// review actions only unlock once the backend moves the
		// request to in_review. Fail-open for unknown statuses.
		return PhaseConfig{
			Phase:    types.PhaseSent,
			Title:    "Nova solicitação",
			Subtitle: "Aguardando início da análise",
			Bucket:   types.BucketQueue,
		}
	case types.StatusInReview:
		return PhaseConfig{
			Phase:   types.PhaseReview,
			Title:   "Analisar solicitação",
			Actions: types.UiActions{CanApprove: true, CanReject: true},
			Bucket:  types.BucketQueue,
		}
	case types.StatusApprovedPendingPayment:
		return PhaseConfig{
			Phase:          types.PhaseAwaitingPayment,
			Title:          "Aguardando pagamento",
			Subtitle:       "O paciente ainda não realizou o pagamento",
			Bucket:         types.BucketPending,
			DisabledReason: "Aguardando o pagamento do paciente",
		}
	case types.StatusPaid:
		return PhaseConfig{
			Phase:    types.PhaseReadyToSign,
			Title:    "Pronto para assinar",
			Subtitle: "Pagamento confirmado",
			Actions:  types.UiActions{CanSign: true},
			Bucket:   types.BucketQueue,
		}
	case types.StatusSigned:
		return PhaseConfig{
			Phase:   types.PhaseSigned,
			Title:   "Documento assinado",
			Actions: types.UiActions{CanDeliver: true},
			Bucket:  types.BucketReady,
		}
	case types.StatusDelivered:
		return PhaseConfig{
			Phase:  types.PhaseDelivered,
			Title:  "Documento entregue",
			Bucket: types.BucketHistorical,
		}
	case types.StatusSearchingDoctor, types.StatusConsultationReady,
		types.StatusInConsultation, types.StatusConsultationFinished,
		types.StatusRejected, types.StatusCancelled:
		return documentDefault(types.RoleDoctor)
	default:
		return documentDefault(types.RoleDoctor)
	}
}

// documentDefault is the fail-safe config for document requests: the
// kind's initial phase with no actions enabled.
func documentDefault(role types.Role) PhaseConfig {
	title := "Solicitação enviada"
	if role == types.RoleDoctor {
		title = "Solicitação recebida"
	}
	return PhaseConfig{
		Phase:  types.PhaseSent,
		Title:  title,
		Bucket: types.BucketPending,
	}
}

// resolveConsultation covers the consultation workflow, which has a
// doctor-accept step with no analog in document requests:
// searching → payment → ready → in consultation → finished.
// The raw status is deliberately not consulted: the ai override is only
// defined for document requests.
func resolveConsultation(role types.Role, status types.NormalizedStatus) PhaseConfig {
	if role == types.RoleDoctor {
		return resolveConsultationDoctor(status)
	}
	return resolveConsultationPatient(status)
}

func resolveConsultationPatient(status types.NormalizedStatus) PhaseConfig {
	switch status {
	case types.StatusSubmitted:
		return PhaseConfig{
			Phase:          types.PhaseSent,
			Title:          "Consulta solicitada",
			Subtitle:       "Estamos processando sua solicitação",
			Bucket:         types.BucketPending,
			DisabledReason: "Ainda estamos buscando um médico",
		}
	case types.StatusSearchingDoctor:
		return PhaseConfig{
			Phase:          types.PhaseSent,
			Title:          "Buscando médico",
			Subtitle:       "Procurando um médico disponível para você",
			Actions:        types.UiActions{CanCancel: true},
			Bucket:         types.BucketPending,
			DisabledReason: "Ainda estamos buscando um médico",
		}
	case types.StatusApprovedPendingPayment:
		return PhaseConfig{
			Phase:    types.PhaseAwaitingPayment,
			Title:    "Pagamento pendente",
			Subtitle: "Realize o pagamento para confirmar a consulta",
			Actions:  types.UiActions{CanPay: true, CanCancel: true},
			Bucket:   types.BucketToPay,
		}
	case types.StatusPaid:
		return PhaseConfig{
			Phase:    types.PhaseConsultReady,
			Title:    "Consulta confirmada",
			Subtitle: "Aguarde o início da chamada",
			Actions:  types.UiActions{CanJoinCall: true},
			Bucket:   types.BucketConsultReady,
		}
	case types.StatusConsultationReady:
		return PhaseConfig{
			Phase:    types.PhaseConsultReady,
			Title:    "Consulta pronta",
			Subtitle: "O médico está aguardando você",
			Actions:  types.UiActions{CanJoinCall: true},
			Bucket:   types.BucketConsultReady,
		}
	case types.StatusInConsultation:
		return PhaseConfig{
			Phase:   types.PhaseInConsultation,
			Title:   "Em consulta",
			Actions: types.UiActions{CanJoinCall: true},
			Bucket:  types.BucketInConsultation,
		}
	case types.StatusConsultationFinished:
		return PhaseConfig{
			Phase:  types.PhaseFinished,
			Title:  "Consulta finalizada",
			Bucket: types.BucketHistorical,
		}
	case types.StatusInReview, types.StatusSigned, types.StatusDelivered,
		types.StatusRejected, types.StatusCancelled:
		// Document statuses never occur on consultations; resolve to
		// the consultation initial config rather than guessing.
		return consultationDefault(types.RolePatient)
	default:
		return consultationDefault(types.RolePatient)
	}
}

func resolveConsultationDoctor(status types.NormalizedStatus) PhaseConfig {
	switch status {
	case types.StatusSubmitted:
		return PhaseConfig{
			Phase:  types.PhaseSent,
			Title:  "Nova solicitação de consulta",
			Bucket: types.BucketQueue,
		}
	case types.StatusSearchingDoctor:
		return PhaseConfig{
			Phase:    types.PhaseSent,
			Title:    "Nova solicitação de consulta",
			Subtitle: "Um paciente aguarda atendimento",
			Actions:  types.UiActions{CanAcceptConsultation: true},
			Bucket:   types.BucketQueue,
		}
	case types.StatusApprovedPendingPayment:
		return PhaseConfig{
			Phase:          types.PhaseAwaitingPayment,
			Title:          "Aguardando pagamento",
			Subtitle:       "O paciente ainda não confirmou a consulta",
			Bucket:         types.BucketPending,
			DisabledReason: "Aguardando o pagamento do paciente",
		}
	case types.StatusPaid:
		return PhaseConfig{
			Phase:    types.PhaseConsultReady,
			Title:    "Pronto para iniciar",
			Subtitle: "Pagamento confirmado",
			Actions:  types.UiActions{CanJoinCall: true},
			Bucket:   types.BucketConsultReady,
		}
	case types.StatusConsultationReady:
		return PhaseConfig{
			Phase:   types.PhaseConsultReady,
			Title:   "Consulta pronta",
			Actions: types.UiActions{CanJoinCall: true},
			Bucket:  types.BucketConsultReady,
		}
	case types.StatusInConsultation:
		return PhaseConfig{
			Phase:   types.PhaseInConsultation,
			Title:   "Em consulta",
			Actions: types.UiActions{CanJoinCall: true},
			Bucket:  types.BucketInConsultation,
		}
	case types.StatusConsultationFinished:
		return PhaseConfig{
			Phase:  types.PhaseFinished,
			Title:  "Consulta finalizada",
			Bucket: types.BucketHistorical,
		}
	case types.StatusInReview, types.StatusSigned, types.StatusDelivered,
		types.StatusRejected, types.StatusCancelled:
		return consultationDefault(types.RoleDoctor)
	default:
		return consultationDefault(types.RoleDoctor)
	}
}

// consultationDefault is the fail-safe config for consultations.
func consultationDefault(role types.Role) PhaseConfig {
	title := "Buscando médico"
	if role == types.RoleDoctor {
		title = "Solicitação de consulta"
	}
	return PhaseConfig{
		Phase:  types.PhaseSent,
		Title:  title,
		Bucket: types.BucketPending,
	}
}

// ResolveRequest normalizes the raw status of a request and resolves its
// PhaseConfig for the given role in one step.
func ResolveRequest(role types.Role, req *types.Request) PhaseConfig {
	if req == nil {
		return documentDefault(role)
	}
	return ResolvePhase(role, req.RequestType, Normalize(req.Status), req.Status)
}
