package requests

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vidalink/telemed/internal/lifecycle"
	"github.com/vidalink/telemed/pkg/cache"
	"github.com/vidalink/telemed/pkg/config"
	"github.com/vidalink/telemed/pkg/interfaces"
	"github.com/vidalink/telemed/pkg/logger"
	"github.com/vidalink/telemed/pkg/monitoring"
	"github.com/vidalink/telemed/pkg/types"
)

// Service implements the RequestService interface
type Service struct {
	repo     interfaces.RequestRepository
	cache    *cache.RedisClient
	notifier interfaces.Notifier
	logger   *logger.Logger
	metrics  *monitoring.MetricsCollector
	cfg      config.DashboardConfig
}

// NewService creates a new request service
func NewService(repo interfaces.RequestRepository, redis *cache.RedisClient, notifier interfaces.Notifier, log *logger.Logger, metrics *monitoring.MetricsCollector, cfg config.DashboardConfig) interfaces.RequestService {
	return &Service{
		repo:     repo,
		cache:    redis,
		notifier: notifier,
		logger:   log,
		metrics:  metrics,
		cfg:      cfg,
	}
}

// SubmitRequest creates a new request for the authenticated patient.
// Consultations start searching for a doctor immediately; document
// requests wait for the automated pre-screening to pick them up.
func (s *Service) SubmitRequest(ctx context.Context, req *types.Request, actor *types.UserClaims) (*types.Request, error) {
	if actor.Role != types.RolePatient {
		return nil, types.NewAuthorizationError("SUBMIT_FORBIDDEN", "only patients can submit requests")
	}
	if err := validateSubmission(req); err != nil {
		return nil, err
	}

	now := time.Now()
	req.ID = uuid.New().String()
	req.PatientID = actor.UserID
	req.CreatedAt = now
	req.UpdatedAt = now
	req.SignedAt = nil

	switch req.RequestType {
	case types.KindConsultation:
		req.Status = string(types.StatusSearchingDoctor)
	default:
		req.Status = string(types.StatusSubmitted)
	}

	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.invalidateDashboards(ctx, req)
	s.logger.Audit(actor.UserID, "submit_request", req.ID, true, map[string]interface{}{
		"request_type": req.RequestType,
	})

	return req, nil
}

func validateSubmission(req *types.Request) error {
	switch req.RequestType {
	case types.KindPrescription:
		if len(req.Medications) == 0 {
			return types.NewValidationError("MISSING_MEDICATIONS", "prescription requests need at least one medication", nil)
		}
	case types.KindExam:
		if len(req.Exams) == 0 {
			return types.NewValidationError("MISSING_EXAMS", "exam requests need at least one exam", nil)
		}
	case types.KindConsultation:
		if req.Symptoms == "" {
			return types.NewValidationError("MISSING_SYMPTOMS", "consultation requests need a symptoms description", nil)
		}
	default:
		return types.NewValidationError("INVALID_REQUEST_TYPE", fmt.Sprintf("unknown request type: %s", req.RequestType), nil)
	}
	return nil
}

// GetRequest retrieves a single request, enforcing ownership
func (s *Service) GetRequest(ctx context.Context, requestID string, actor *types.UserClaims) (*types.Request, error) {
	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeAccess(req, actor); err != nil {
		return nil, err
	}
	return req, nil
}

// ListRequests retrieves the actor's requests, oldest first
func (s *Service) ListRequests(ctx context.Context, filters *types.RequestFilters, actor *types.UserClaims) (*types.RequestPage, error) {
	if filters == nil {
		filters = &types.RequestFilters{}
	}

	// Scope the query to the caller regardless of what was asked for.
	switch actor.Role {
	case types.RolePatient:
		filters.PatientID = actor.UserID
		filters.DoctorID = ""
	case types.RoleDoctor:
		filters.PatientID = ""
		filters.DoctorID = actor.UserID
		filters.IncludeUnassigned = true
	default:
		return nil, types.NewAuthorizationError("UNKNOWN_ROLE", fmt.Sprintf("unknown role: %s", actor.Role))
	}

	return s.repo.List(ctx, filters)
}

// transitionTarget describes the outcome of an allowed lifecycle action
type transitionTarget struct {
	toStatus   types.NormalizedStatus
	assignsDoc bool
	signs      bool
}

var transitionTargets = map[types.TransitionAction]transitionTarget{
	types.ActionApprove: {toStatus: types.StatusApprovedPendingPayment},
	types.ActionReject:  {toStatus: types.StatusRejected},
	types.ActionAccept:  {toStatus: types.StatusApprovedPendingPayment, assignsDoc: true},
	types.ActionPay:     {toStatus: types.StatusPaid},
	types.ActionSign:    {toStatus: types.StatusSigned, signs: true},
	types.ActionDeliver: {toStatus: types.StatusDelivered},
	types.ActionStart:   {toStatus: types.StatusInConsultation},
	types.ActionFinish:  {toStatus: types.StatusConsultationFinished},
	types.ActionCancel:  {toStatus: types.StatusCancelled},
}

// TransitionStatus applies a lifecycle action on behalf of the actor.
// The action gate decides eligibility; a blocked action surfaces the
// same disabled-reason message the UI shows on the grayed-out button.
func (s *Service) TransitionStatus(ctx context.Context, requestID string, action types.TransitionAction, actor *types.UserClaims) (*types.Request, error) {
	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeAccess(req, actor); err != nil {
		return nil, err
	}

	if !lifecycle.IsActionAllowed(req, actor.Role, action) {
		msg := lifecycle.BlockedActionMessage(req, actor.Role, action)
		s.logger.WithFields(map[string]interface{}{
			"request_id": requestID,
			"action":     action,
			"role":       actor.Role,
		}).Warn("Blocked lifecycle action")
		if s.metrics != nil {
			s.metrics.RecordBlockedAction(string(action), string(actor.Role))
		}
		return nil, types.NewConflictError("ACTION_NOT_ALLOWED", msg)
	}

	target, ok := transitionTargets[action]
	if !ok {
		return nil, types.NewValidationError("UNKNOWN_ACTION", fmt.Sprintf("unknown action: %s", action), nil)
	}

	fromStatus := req.Status
	toStatus := string(target.toStatus)
	updates := &types.RequestUpdates{Status: &toStatus}
	if target.assignsDoc {
		doctorID := actor.UserID
		updates.DoctorID = &doctorID
	}
	if target.signs {
		now := time.Now()
		updates.SignedAt = &now
	}

	if err := s.repo.UpdateStatus(ctx, requestID, updates); err != nil {
		return nil, err
	}

	req.Status = toStatus
	req.UpdatedAt = time.Now()
	if updates.DoctorID != nil {
		req.DoctorID = *updates.DoctorID
	}
	if updates.SignedAt != nil {
		req.SignedAt = updates.SignedAt
	}

	s.logger.Transition(requestID, string(action), fromStatus, toStatus, actor.UserID)
	if s.metrics != nil {
		s.metrics.RecordStatusTransition(string(action), fromStatus, toStatus)
	}
	s.invalidateDashboards(ctx, req)

	if err := s.notifier.NotifyStatusChange(ctx, req, action); err != nil {
		// Notification failures never fail the transition.
		s.logger.WithError(err).WithField("request_id", requestID).Warn("Failed to notify status change")
	}

	return req, nil
}

// GetRequestView builds the role-specific view model for one request
func (s *Service) GetRequestView(ctx context.Context, requestID string, actor *types.UserClaims) (*types.RequestUiModel, error) {
	req, err := s.GetRequest(ctx, requestID, actor)
	if err != nil {
		return nil, err
	}
	view := lifecycle.BuildUiModel(actor.Role, req)
	return &view, nil
}

// PatientDashboard builds the patient home screen payload
func (s *Service) PatientDashboard(ctx context.Context, actor *types.UserClaims) (*types.PatientDashboard, error) {
	if actor.Role != types.RolePatient {
		return nil, types.NewAuthorizationError("DASHBOARD_FORBIDDEN", "patient dashboard requires the patient role")
	}

	page, err := s.repo.List(ctx, &types.RequestFilters{
		PatientID: actor.UserID,
		Limit:     s.cfg.ListFetchPageSize,
	})
	if err != nil {
		return nil, err
	}

	dashboard := &types.PatientDashboard{
		Pending: s.panelItems(types.RolePatient, page.Items),
	}

	cacheKey := fmt.Sprintf("dashboard:patient:%s", actor.UserID)
	if !s.countersFromCache(ctx, cacheKey, &dashboard.Counters) {
		dashboard.Counters = lifecycle.PatientCounters(page.Items)
		s.countersToCache(ctx, cacheKey, dashboard.Counters)
	}

	return dashboard, nil
}

// DoctorDashboard builds the doctor home screen payload
func (s *Service) DoctorDashboard(ctx context.Context, actor *types.UserClaims) (*types.DoctorDashboard, error) {
	if actor.Role != types.RoleDoctor {
		return nil, types.NewAuthorizationError("DASHBOARD_FORBIDDEN", "doctor dashboard requires the doctor role")
	}

	page, err := s.repo.List(ctx, &types.RequestFilters{
		DoctorID:          actor.UserID,
		IncludeUnassigned: true,
		Limit:             s.cfg.ListFetchPageSize,
	})
	if err != nil {
		return nil, err
	}

	dashboard := &types.DoctorDashboard{
		Pending: s.panelItems(types.RoleDoctor, page.Items),
	}

	cacheKey := fmt.Sprintf("dashboard:doctor:%s", actor.UserID)
	if !s.countersFromCache(ctx, cacheKey, &dashboard.Counters) {
		dashboard.Counters = lifecycle.DoctorCounters(page.Items)
		s.countersToCache(ctx, cacheKey, dashboard.Counters)
	}

	return dashboard, nil
}

func (s *Service) panelItems(role types.Role, items []*types.Request) []types.DashboardItem {
	panel := lifecycle.PendingForPanel(role, items, s.cfg.PanelLimit)
	out := make([]types.DashboardItem, 0, len(panel))
	for _, req := range panel {
		view := lifecycle.BuildUiModel(role, req)
		out = append(out, types.DashboardItem{Request: req, View: &view})
	}
	return out
}

// authorizeAccess enforces request ownership. Doctors additionally see
// unassigned requests, which is what the review queue is made of.
func (s *Service) authorizeAccess(req *types.Request, actor *types.UserClaims) error {
	switch actor.Role {
	case types.RolePatient:
		if req.PatientID == actor.UserID {
			return nil
		}
	case types.RoleDoctor:
		if req.DoctorID == actor.UserID || req.DoctorID == "" {
			return nil
		}
	}
	return types.NewAuthorizationError("ACCESS_DENIED", "request does not belong to the caller")
}

// countersFromCache loads counters into dest, reporting a hit
func (s *Service) countersFromCache(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !cache.IsNil(err) {
			s.logger.WithError(err).WithField("key", key).Warn("Failed to read cached counters")
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Discarding malformed cached counters")
		return false
	}
	return true
}

func (s *Service) countersToCache(ctx context.Context, key string, counters interface{}) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(counters)
	if err != nil {
		return
	}
	ttl := time.Duration(s.cfg.CountersTTLSecs) * time.Second
	if err := s.cache.Set(ctx, key, string(raw), ttl); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Failed to cache counters")
	}
}

// invalidateDashboards drops cached counters for both parties of a request
func (s *Service) invalidateDashboards(ctx context.Context, req *types.Request) {
	if s.cache == nil {
		return
	}
	keys := []string{fmt.Sprintf("dashboard:patient:%s", req.PatientID)}
	if req.DoctorID != "" {
		keys = append(keys, fmt.Sprintf("dashboard:doctor:%s", req.DoctorID))
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate dashboard cache")
	}
}
