package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vidalink/telemed/pkg/types"
)

func documentRequest(status string) *types.Request {
	return &types.Request{ID: "req-1", Status: status, RequestType: types.KindPrescription}
}

func consultationRequest(status string) *types.Request {
	return &types.Request{ID: "req-2", Status: status, RequestType: types.KindConsultation}
}

func TestIsActionAllowed_DelegatesToPhaseFlags(t *testing.T) {
	req := documentRequest("approved_pending_payment")
	assert.True(t, IsActionAllowed(req, types.RolePatient, types.ActionPay))
	assert.False(t, IsActionAllowed(req, types.RoleDoctor, types.ActionPay))
	assert.False(t, IsActionAllowed(req, types.RoleDoctor, types.ActionSign))

	paid := documentRequest("paid")
	assert.True(t, IsActionAllowed(paid, types.RoleDoctor, types.ActionSign))
	assert.False(t, IsActionAllowed(paid, types.RolePatient, types.ActionSign))
	assert.False(t, IsActionAllowed(paid, types.RolePatient, types.ActionPay))

	searching := consultationRequest("searching_doctor")
	assert.True(t, IsActionAllowed(searching, types.RoleDoctor, types.ActionAccept))
	assert.True(t, IsActionAllowed(searching, types.RolePatient, types.ActionCancel))
}

func TestIsActionAllowed_LegacyAliasStatus(t *testing.T) {
	// "pending_payment" is a legacy alias of approved_pending_payment.
	req := consultationRequest("pending_payment")
	assert.True(t, IsActionAllowed(req, types.RolePatient, types.ActionPay))
}

func TestIsActionAllowed_UnknownActionIsDenied(t *testing.T) {
	req := documentRequest("paid")
	assert.False(t, IsActionAllowed(req, types.RoleDoctor, types.TransitionAction("explode")))
}

func TestBlockedActionMessage_AlreadyDone(t *testing.T) {
	signed := documentRequest("signed")
	assert.Equal(t, "Este documento já foi assinado",
		BlockedActionMessage(signed, types.RolePatient, types.ActionSign))
	assert.Equal(t, "O pagamento desta solicitação já foi realizado",
		BlockedActionMessage(signed, types.RolePatient, types.ActionPay))

	delivered := documentRequest("delivered")
	assert.Equal(t, "Este documento já foi entregue",
		BlockedActionMessage(delivered, types.RoleDoctor, types.ActionDeliver))

	finished := consultationRequest("consultation_finished")
	assert.Equal(t, "Esta consulta já foi finalizada",
		BlockedActionMessage(finished, types.RoleDoctor, types.ActionFinish))
}

func TestBlockedActionMessage_UsesPhaseDisabledReason(t *testing.T) {
	paid := documentRequest("paid")
	assert.Equal(t, "Aguardando a assinatura do médico",
		BlockedActionMessage(paid, types.RolePatient, types.ActionDeliver))

	awaiting := documentRequest("approved_pending_payment")
	assert.Equal(t, "Aguardando o pagamento do paciente",
		BlockedActionMessage(awaiting, types.RoleDoctor, types.ActionSign))
}

func TestBlockedActionMessage_GenericFallback(t *testing.T) {
	submitted := documentRequest("submitted")
	assert.Equal(t, genericBlockedMessage,
		BlockedActionMessage(submitted, types.RolePatient, types.ActionDeliver))
}

func TestBlockedActionMessage_EmptyWhenAllowed(t *testing.T) {
	req := documentRequest("approved_pending_payment")
	assert.Empty(t, BlockedActionMessage(req, types.RolePatient, types.ActionPay))
}

func TestActionGate_IsPureAndRepeatable(t *testing.T) {
	req := documentRequest("paid")
	for i := 0; i < 3; i++ {
		assert.True(t, IsActionAllowed(req, types.RoleDoctor, types.ActionSign))
		assert.Equal(t, "Aguardando a assinatura do médico",
			BlockedActionMessage(req, types.RolePatient, types.ActionSign))
	}
}
