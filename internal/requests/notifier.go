package requests

import (
	"context"

	"github.com/vidalink/telemed/internal/lifecycle"
	"github.com/vidalink/telemed/pkg/interfaces"
	"github.com/vidalink/telemed/pkg/logger"
	"github.com/vidalink/telemed/pkg/types"
)

// LogNotifier implements the Notifier interface by logging the push
// payload that would be delivered
type LogNotifier struct {
	logger *logger.Logger
}

// NewLogNotifier creates a new log-backed notifier
func NewLogNotifier(log *logger.Logger) interfaces.Notifier {
	return &LogNotifier{
		logger: log,
	}
}

// NotifyStatusChange notifies the affected parties of a status change.
// Each party gets the message their own view of the request would show.
func (n *LogNotifier) NotifyStatusChange(ctx context.Context, req *types.Request, action types.TransitionAction) error {
	// TODO: Integrate with the push notification gateway once it exposes
	// a per-user topic API; until then the payload is logged.
	n.notifyParty(req, types.RolePatient, req.PatientID, action)
	if req.DoctorID != "" {
		n.notifyParty(req, types.RoleDoctor, req.DoctorID, action)
	}
	return nil
}

func (n *LogNotifier) notifyParty(req *types.Request, role types.Role, userID string, action types.TransitionAction) {
	cfg := lifecycle.ResolveRequest(role, req)
	n.logger.WithFields(map[string]interface{}{
		"notification": true,
		"user_id":      userID,
		"role":         role,
		"request_id":   req.ID,
		"action":       action,
		"title":        cfg.Title,
		"body":         lifecycle.BadgeLabel(cfg.Phase),
	}).Info("Status change notification")
}
