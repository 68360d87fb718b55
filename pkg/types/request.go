package types

import "time"

// Role identifies which side of the platform is looking at a request.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

// RequestKind represents the kind of request a patient can submit
type RequestKind string

const (
	KindPrescription RequestKind = "prescription"
	KindExam         RequestKind = "exam"
	KindConsultation RequestKind = "consultation"
)

// NormalizedStatus is the canonical backend status after collapsing
// legacy aliases. It is a closed set; the normalizer in
// internal/lifecycle maps every raw string into it.
type NormalizedStatus string

const (
	StatusSubmitted              NormalizedStatus = "submitted"
	StatusInReview               NormalizedStatus = "in_review"
	StatusApprovedPendingPayment NormalizedStatus = "approved_pending_payment"
	StatusPaid                   NormalizedStatus = "paid"
	StatusSigned                 NormalizedStatus = "signed"
	StatusDelivered              NormalizedStatus = "delivered"
	StatusRejected               NormalizedStatus = "rejected"
	StatusCancelled              NormalizedStatus = "cancelled"
	StatusSearchingDoctor        NormalizedStatus = "searching_doctor"
	StatusConsultationReady      NormalizedStatus = "consultation_ready"
	StatusInConsultation         NormalizedStatus = "in_consultation"
	StatusConsultationFinished   NormalizedStatus = "consultation_finished"
)

// RiskLevel represents the automated pre-screening risk classification
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Request represents a patient-submitted prescription, exam or
// consultation request. The record is owned by the backend; this service
// only mutates Status through backend-driven transitions and never
// deletes a request (terminal requests are kept as historical).
type Request struct {
	ID          string      `json:"id" db:"id"`
	Status      string      `json:"status" db:"status"`
	RequestType RequestKind `json:"request_type" db:"request_type"`
	PatientID   string      `json:"patient_id" db:"patient_id"`
	DoctorID    string      `json:"doctor_id,omitempty" db:"doctor_id"`
	PatientName string      `json:"patient_name,omitempty" db:"patient_name"`
	DoctorName  string      `json:"doctor_name,omitempty" db:"doctor_name"`
	Medications []string    `json:"medications,omitempty" db:"medications"`
	Exams       []string    `json:"exams,omitempty" db:"exams"`
	Symptoms    string      `json:"symptoms,omitempty" db:"symptoms"`
	Price       float64     `json:"price,omitempty" db:"price"`
	AIRiskLevel RiskLevel   `json:"ai_risk_level,omitempty" db:"ai_risk_level"`
	SignedAt    *time.Time  `json:"signed_at,omitempty" db:"signed_at"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

// RequestPage is the paginated fetch contract exposed to clients.
type RequestPage struct {
	Items      []*Request `json:"items"`
	TotalCount int        `json:"total_count"`
}

// RequestFilters represents filters for request list queries.
// IncludeUnassigned widens a doctor-scoped query to requests not yet
// claimed by any doctor, which is what the review queue is made of.
type RequestFilters struct {
	PatientID         string      `json:"patient_id,omitempty"`
	DoctorID          string      `json:"doctor_id,omitempty"`
	IncludeUnassigned bool        `json:"include_unassigned,omitempty"`
	RequestType       RequestKind `json:"request_type,omitempty"`
	Status            string      `json:"status,omitempty"`
	Limit             int         `json:"limit,omitempty"`
	Offset            int         `json:"offset,omitempty"`
}

// RequestUpdates represents a backend-driven mutation of a request.
// Only status and the signature timestamp ever change after submission.
type RequestUpdates struct {
	Status   *string    `json:"status,omitempty"`
	DoctorID *string    `json:"doctor_id,omitempty"`
	Price    *float64   `json:"price,omitempty"`
	SignedAt *time.Time `json:"signed_at,omitempty"`
}

// TransitionAction is a lifecycle action an actor can attempt on a request
type TransitionAction string

const (
	ActionApprove TransitionAction = "approve"
	ActionReject  TransitionAction = "reject"
	ActionAccept  TransitionAction = "accept"
	ActionPay     TransitionAction = "pay"
	ActionSign    TransitionAction = "sign"
	ActionDeliver TransitionAction = "deliver"
	ActionStart   TransitionAction = "start"
	ActionFinish  TransitionAction = "finish"
	ActionCancel  TransitionAction = "cancel"
)
