package lifecycle

import "github.com/vidalink/telemed/pkg/types"

// timelineStep pairs a rendered step with the set of phases that make it
// the current one.
type timelineStep struct {
	id     string
	label  string
	phases []types.UiPhase
}

// aiStep is inserted into the patient document timeline only while the
// automated pre-screening is actually running; the doctor never sees it.
var aiStep = timelineStep{
	id:     "ai",
	label:  "Análise IA",
	phases: []types.UiPhase{types.PhaseAI},
}

var patientDocumentSteps = []timelineStep{
	{id: "sent", label: "Enviada", phases: []types.UiPhase{types.PhaseSent}},
	{id: "review", label: "Análise médica", phases: []types.UiPhase{types.PhaseReview}},
	{id: "payment", label: "Pagamento", phases: []types.UiPhase{types.PhaseAwaitingPayment}},
	{id: "signature", label: "Assinatura", phases: []types.UiPhase{types.PhaseWaitingDoctor, types.PhaseReadyToSign}},
	{id: "delivery", label: "Entrega", phases: []types.UiPhase{types.PhaseSigned, types.PhaseDelivered}},
}

var doctorDocumentSteps = []timelineStep{
	{id: "received", label: "Recebida", phases: []types.UiPhase{types.PhaseSent}},
	{id: "review", label: "Análise", phases: []types.UiPhase{types.PhaseReview}},
	{id: "payment", label: "Pagamento", phases: []types.UiPhase{types.PhaseAwaitingPayment}},
	{id: "signature", label: "Assinatura", phases: []types.UiPhase{types.PhaseReadyToSign, types.PhaseWaitingDoctor}},
	{id: "delivery", label: "Entrega", phases: []types.UiPhase{types.PhaseSigned, types.PhaseDelivered}},
}

var patientConsultationSteps = []timelineStep{
	{id: "requested", label: "Solicitação", phases: []types.UiPhase{types.PhaseSent}},
	{id: "payment", label: "Pagamento", phases: []types.UiPhase{types.PhaseAwaitingPayment}},
	{id: "ready", label: "Confirmação", phases: []types.UiPhase{types.PhaseConsultReady}},
	{id: "consultation", label: "Consulta", phases: []types.UiPhase{types.PhaseInConsultation}},
	{id: "finished", label: "Finalizada", phases: []types.UiPhase{types.PhaseFinished}},
}

var doctorConsultationSteps = []timelineStep{
	{id: "requested", label: "Solicitação", phases: []types.UiPhase{types.PhaseSent}},
	{id: "payment", label: "Pagamento", phases: []types.UiPhase{types.PhaseAwaitingPayment}},
	{id: "ready", label: "Pronta", phases: []types.UiPhase{types.PhaseConsultReady}},
	{id: "consultation", label: "Consulta", phases: []types.UiPhase{types.PhaseInConsultation}},
	{id: "finished", label: "Finalizada", phases: []types.UiPhase{types.PhaseFinished}},
}

// BuildTimeline builds the ordered progress timeline for a resolved
// phase. The first step whose phase set contains the current phase is
// marked current, everything before it done and everything after it
// todo. When no step matches — terminal phases, unexpected input — the
// whole list is conservatively marked todo so no step is misleadingly
// shown as completed.
func BuildTimeline(role types.Role, kind types.RequestKind, phase types.UiPhase) []types.UiTimelineStep {
	steps := stepsFor(role, kind, phase)

	currentIdx := -1
	for i, step := range steps {
		if stepMatches(step, phase) {
			currentIdx = i
			break
		}
	}

	timeline := make([]types.UiTimelineStep, 0, len(steps))
	for i, step := range steps {
		state := types.StepTodo
		if currentIdx >= 0 {
			if i < currentIdx {
				state = types.StepDone
			} else if i == currentIdx {
				state = types.StepCurrent
			}
		}
		timeline = append(timeline, types.UiTimelineStep{
			ID:    step.id,
			Label: step.label,
			State: state,
		})
	}

	return timeline
}

func stepsFor(role types.Role, kind types.RequestKind, phase types.UiPhase) []timelineStep {
	if kind == types.KindConsultation {
		if role == types.RoleDoctor {
			return doctorConsultationSteps
		}
		return patientConsultationSteps
	}

	if role == types.RoleDoctor {
		return doctorDocumentSteps
	}

	if phase == types.PhaseAI {
		withAI := make([]timelineStep, 0, len(patientDocumentSteps)+1)
		withAI = append(withAI, patientDocumentSteps[0], aiStep)
		withAI = append(withAI, patientDocumentSteps[1:]...)
		return withAI
	}
	return patientDocumentSteps
}

func stepMatches(step timelineStep, phase types.UiPhase) bool {
	for _, p := range step.phases {
		if p == phase {
			return true
		}
	}
	return false
}
