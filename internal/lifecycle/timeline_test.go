package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vidalink/telemed/pkg/types"
)

var allPhases = []types.UiPhase{
	types.PhaseSent, types.PhaseAI, types.PhaseReview,
	types.PhaseAwaitingPayment, types.PhaseWaitingDoctor,
	types.PhaseReadyToSign, types.PhaseSigned, types.PhaseDelivered,
	types.PhaseConsultReady, types.PhaseInConsultation, types.PhaseFinished,
	types.PhaseCancelled, types.PhaseRejected, types.PhaseError,
}

// assertMonotonic checks the structural timeline invariant: at most one
// current step, every done step before it and every todo step after it.
func assertMonotonic(t *testing.T, steps []types.UiTimelineStep, context string) {
	t.Helper()

	currentCount := 0
	sawCurrent := false
	sawTodo := false
	for _, step := range steps {
		switch step.State {
		case types.StepCurrent:
			currentCount++
			sawCurrent = true
		case types.StepDone:
			assert.False(t, sawCurrent, "%s: done step after current", context)
			assert.False(t, sawTodo, "%s: done step after todo", context)
		case types.StepTodo:
			sawTodo = true
		}
	}
	assert.LessOrEqual(t, currentCount, 1, "%s: more than one current step", context)
}

func TestBuildTimeline_MonotonicForAllInputs(t *testing.T) {
	for _, role := range allRoles {
		for _, kind := range allKinds {
			for _, phase := range allPhases {
				steps := BuildTimeline(role, kind, phase)
				assert.NotEmpty(t, steps)
				assertMonotonic(t, steps, string(role)+"/"+string(kind)+"/"+string(phase))
			}
		}
	}
}

func TestBuildTimeline_MarksProgressAroundCurrent(t *testing.T) {
	steps := BuildTimeline(types.RolePatient, types.KindPrescription, types.PhaseAwaitingPayment)

	assert.Equal(t, []types.UiTimelineStep{
		{ID: "sent", Label: "Enviada", State: types.StepDone},
		{ID: "review", Label: "Análise médica", State: types.StepDone},
		{ID: "payment", Label: "Pagamento", State: types.StepCurrent},
		{ID: "signature", Label: "Assinatura", State: types.StepTodo},
		{ID: "delivery", Label: "Entrega", State: types.StepTodo},
	}, steps)
}

func TestBuildTimeline_AIStepOnlyWhilePreScreening(t *testing.T) {
	aiSteps := BuildTimeline(types.RolePatient, types.KindExam, types.PhaseAI)
	assert.Len(t, aiSteps, 6)
	assert.Equal(t, "ai", aiSteps[1].ID)
	assert.Equal(t, "Análise IA", aiSteps[1].Label)
	assert.Equal(t, types.StepCurrent, aiSteps[1].State)
	assert.Equal(t, types.StepDone, aiSteps[0].State)

	reviewSteps := BuildTimeline(types.RolePatient, types.KindExam, types.PhaseReview)
	for _, step := range reviewSteps {
		assert.NotEqual(t, "ai", step.ID)
	}
}

func TestBuildTimeline_DoctorNeverSeesAIStep(t *testing.T) {
	steps := BuildTimeline(types.RoleDoctor, types.KindExam, types.PhaseAI)
	for _, step := range steps {
		assert.NotEqual(t, "ai", step.ID)
	}
}

func TestBuildTimeline_NoMatchYieldsAllTodo(t *testing.T) {
	for _, phase := range []types.UiPhase{types.PhaseCancelled, types.PhaseRejected, types.PhaseError} {
		steps := BuildTimeline(types.RolePatient, types.KindPrescription, phase)
		for _, step := range steps {
			assert.Equal(t, types.StepTodo, step.State, "phase %s", phase)
		}
	}
}

func TestBuildTimeline_ConsultationLists(t *testing.T) {
	steps := BuildTimeline(types.RolePatient, types.KindConsultation, types.PhaseInConsultation)
	assert.Len(t, steps, 5)
	assert.Equal(t, types.StepCurrent, steps[3].State)
	assert.Equal(t, types.StepDone, steps[0].State)
	assert.Equal(t, types.StepTodo, steps[4].State)

	finished := BuildTimeline(types.RoleDoctor, types.KindConsultation, types.PhaseFinished)
	assert.Equal(t, types.StepCurrent, finished[4].State)
	for _, step := range finished[:4] {
		assert.Equal(t, types.StepDone, step.State)
	}
}
