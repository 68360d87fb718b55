package requests

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/vidalink/telemed/pkg/interfaces"
	"github.com/vidalink/telemed/pkg/logger"
	"github.com/vidalink/telemed/pkg/monitoring"
	"github.com/vidalink/telemed/pkg/types"
)

// Server exposes the request service over HTTP
type Server struct {
	service   interfaces.RequestService
	validator *TokenValidator
	logger    *logger.Logger
	health    *monitoring.HealthManager
	monitor   *monitoring.MonitoringMiddleware
	metrics   *monitoring.MetricsCollector
	server    *http.Server
}

// NewServer creates a new request service HTTP server
func NewServer(service interfaces.RequestService, validator *TokenValidator, log *logger.Logger, health *monitoring.HealthManager, monitor *monitoring.MonitoringMiddleware, metrics *monitoring.MetricsCollector) *Server {
	return &Server{
		service:   service,
		validator: validator,
		logger:    log,
		health:    health,
		monitor:   monitor,
		metrics:   metrics,
	}
}

// setupRoutes configures HTTP routes for the request service
func (s *Server) setupRoutes(router *mux.Router) {
	router.Use(s.corsMiddleware)
	router.Use(s.securityHeadersMiddleware)
	if s.monitor != nil {
		router.Use(s.monitor.HTTPMiddleware)
	}

	// Health and metrics stay outside authentication
	router.HandleFunc("/health", s.health.HTTPHandler()).Methods("GET")
	if s.metrics != nil {
		router.Handle("/metrics", s.metrics.Handler()).Methods("GET")
	}

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(s.authMiddleware)

	// Request routes
	api.HandleFunc("/requests", s.submitRequestHandler).Methods("POST")
	api.HandleFunc("/requests", s.listRequestsHandler).Methods("GET")
	api.HandleFunc("/requests/{id}", s.getRequestHandler).Methods("GET")
	api.HandleFunc("/requests/{id}/view", s.getRequestViewHandler).Methods("GET")
	api.HandleFunc("/requests/{id}/actions/{action}", s.transitionHandler).Methods("POST")

	// Dashboard routes
	api.HandleFunc("/dashboard/patient", s.patientDashboardHandler).Methods("GET")
	api.HandleFunc("/dashboard/doctor", s.doctorDashboardHandler).Methods("GET")

	s.logger.Info("Request service routes configured")
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	router := mux.NewRouter()
	s.setupRoutes(router)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	s.logger.WithField("addr", addr).Info("Starting request service")
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server
func (s *Server) Stop() error {
	if s.server != nil {
		s.logger.Info("Stopping request service")
		return s.server.Close()
	}
	return nil
}

// submitRequestHandler handles request submission
func (s *Server) submitRequestHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		s.writeErrorResponse(w, http.StatusUnauthorized, "user claims not found", nil)
		return
	}

	var req types.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	created, err := s.service.SubmitRequest(r.Context(), &req, claims)
	if err != nil {
		s.writeServiceError(w, "Failed to submit request", err)
		return
	}

	s.writeJSONResponse(w, http.StatusCreated, created)
}

// listRequestsHandler handles request listing with filters
func (s *Server) listRequestsHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		s.writeErrorResponse(w, http.StatusUnauthorized, "user claims not found", nil)
		return
	}

	filters := parseRequestFilters(r)
	page, err := s.service.ListRequests(r.Context(), filters, claims)
	if err != nil {
		s.writeServiceError(w, "Failed to list requests", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, page)
}

// getRequestHandler handles single request retrieval
func (s *Server) getRequestHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		s.writeErrorResponse(w, http.StatusUnauthorized, "user claims not found", nil)
		return
	}

	requestID := mux.Vars(r)["id"]
	req, err := s.service.GetRequest(r.Context(), requestID, claims)
	if err != nil {
		s.writeServiceError(w, "Failed to get request", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, req)
}

// getRequestViewHandler returns the role-specific view model
func (s *Server) getRequestViewHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		s.writeErrorResponse(w, http.StatusUnauthorized, "user claims not found", nil)
		return
	}

	requestID := mux.Vars(r)["id"]
	view, err := s.service.GetRequestView(r.Context(), requestID, claims)
	if err != nil {
		s.writeServiceError(w, "Failed to build request view", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, view)
}

// transitionHandler applies a lifecycle action to a request
func (s *Server) transitionHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		s.writeErrorResponse(w, http.StatusUnauthorized, "user claims not found", nil)
		return
	}

	vars := mux.Vars(r)
	requestID := vars["id"]
	action := types.TransitionAction(vars["action"])

	req, err := s.service.TransitionStatus(r.Context(), requestID, action, claims)
	if err != nil {
		s.writeServiceError(w, "Failed to apply action", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, req)
}

// patientDashboardHandler returns the patient home screen payload
func (s *Server) patientDashboardHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		s.writeErrorResponse(w, http.StatusUnauthorized, "user claims not found", nil)
		return
	}

	dashboard, err := s.service.PatientDashboard(r.Context(), claims)
	if err != nil {
		s.writeServiceError(w, "Failed to build patient dashboard", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, dashboard)
}

// doctorDashboardHandler returns the doctor home screen payload
func (s *Server) doctorDashboardHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		s.writeErrorResponse(w, http.StatusUnauthorized, "user claims not found", nil)
		return
	}

	dashboard, err := s.service.DoctorDashboard(r.Context(), claims)
	if err != nil {
		s.writeServiceError(w, "Failed to build doctor dashboard", err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, dashboard)
}

// Helper methods

// parseRequestFilters parses query parameters into request filters
func parseRequestFilters(r *http.Request) *types.RequestFilters {
	filters := &types.RequestFilters{}

	if requestType := r.URL.Query().Get("type"); requestType != "" {
		filters.RequestType = types.RequestKind(requestType)
	}

	if status := r.URL.Query().Get("status"); status != "" {
		filters.Status = status
	}

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if parsed, err := strconv.Atoi(limit); err == nil {
			filters.Limit = parsed
		}
	}

	if offset := r.URL.Query().Get("offset"); offset != "" {
		if parsed, err := strconv.Atoi(offset); err == nil {
			filters.Offset = parsed
		}
	}

	return filters
}

// writeServiceError maps service errors to HTTP status codes
func (s *Server) writeServiceError(w http.ResponseWriter, message string, err error) {
	statusCode := http.StatusInternalServerError

	var terr *types.TelemedError
	if errors.As(err, &terr) {
		switch terr.Type {
		case types.ErrorTypeValidation:
			statusCode = http.StatusBadRequest
		case types.ErrorTypeAuthorization:
			statusCode = http.StatusForbidden
		case types.ErrorTypeNotFound:
			statusCode = http.StatusNotFound
		case types.ErrorTypeConflict:
			statusCode = http.StatusConflict
		}
	}

	s.writeErrorResponse(w, statusCode, message, err)
}

// writeJSONResponse writes a JSON response
func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Error("Failed to encode JSON response")
	}
}

// writeErrorResponse writes an error response
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, message string, err error) {
	if err != nil {
		s.logger.WithError(err).Warn(message)
	}

	response := map[string]interface{}{
		"error":  message,
		"status": statusCode,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	s.writeJSONResponse(w, statusCode, response)
}
