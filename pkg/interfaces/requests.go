package interfaces

import (
	"context"

	"github.com/vidalink/telemed/pkg/types"
)

// RequestService defines the interface for request lifecycle management
type RequestService interface {
	// Request operations
	SubmitRequest(ctx context.Context, req *types.Request, actor *types.UserClaims) (*types.Request, error)
	GetRequest(ctx context.Context, requestID string, actor *types.UserClaims) (*types.Request, error)
	ListRequests(ctx context.Context, filters *types.RequestFilters, actor *types.UserClaims) (*types.RequestPage, error)
	TransitionStatus(ctx context.Context, requestID string, action types.TransitionAction, actor *types.UserClaims) (*types.Request, error)

	// Derived views
	GetRequestView(ctx context.Context, requestID string, actor *types.UserClaims) (*types.RequestUiModel, error)
	PatientDashboard(ctx context.Context, actor *types.UserClaims) (*types.PatientDashboard, error)
	DoctorDashboard(ctx context.Context, actor *types.UserClaims) (*types.DoctorDashboard, error)
}

// RequestRepository defines the interface for request persistence
type RequestRepository interface {
	Create(ctx context.Context, req *types.Request) error
	GetByID(ctx context.Context, id string) (*types.Request, error)
	List(ctx context.Context, filters *types.RequestFilters) (*types.RequestPage, error)
	UpdateStatus(ctx context.Context, id string, updates *types.RequestUpdates) error
}

// Notifier delivers status-change notifications to the affected parties
type Notifier interface {
	NotifyStatusChange(ctx context.Context, req *types.Request, action types.TransitionAction) error
}
