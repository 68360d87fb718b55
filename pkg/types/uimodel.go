package types

// UiPhase is the canonical UI-facing lifecycle stage of a request,
// derived from backend status + role + kind. It is a closed set; every
// switch over it in internal/lifecycle enumerates all values so a new
// phase forces every consumer to be revisited.
type UiPhase string

const (
	PhaseSent            UiPhase = "sent"
	PhaseAI              UiPhase = "ai"
	PhaseReview          UiPhase = "review"
	PhaseAwaitingPayment UiPhase = "awaiting_payment"
	PhaseWaitingDoctor   UiPhase = "waiting_doctor"
	PhaseReadyToSign     UiPhase = "ready_to_sign"
	PhaseSigned          UiPhase = "signed"
	PhaseDelivered       UiPhase = "delivered"
	PhaseConsultReady    UiPhase = "consult_ready"
	PhaseInConsultation  UiPhase = "in_consultation"
	PhaseFinished        UiPhase = "finished"
	PhaseCancelled       UiPhase = "cancelled"
	PhaseRejected        UiPhase = "rejected"
	PhaseError           UiPhase = "error"
)

// UiColorKey is the badge color semantic for a phase. It is derived
// purely from the phase, never from role or kind, so the same phase is
// rendered with the same color everywhere in the app.
type UiColorKey string

const (
	ColorAction     UiColorKey = "action"
	ColorSuccess    UiColorKey = "success"
	ColorWaiting    UiColorKey = "waiting"
	ColorHistorical UiColorKey = "historical"
)

// CounterBucket is the coarse dashboard category a request is counted
// under for badge counts.
type CounterBucket string

const (
	BucketPending        CounterBucket = "pending"
	BucketToPay          CounterBucket = "to_pay"
	BucketReady          CounterBucket = "ready"
	BucketQueue          CounterBucket = "queue"
	BucketConsultReady   CounterBucket = "consult_ready"
	BucketInConsultation CounterBucket = "in_consultation"
	BucketHistorical     CounterBucket = "historical"
)

// UiActions is the complete action-permission record for one role
// looking at one request. All flags default to false; the resolver only
// ever turns flags on.
type UiActions struct {
	CanPay                bool `json:"can_pay"`
	CanApprove            bool `json:"can_approve"`
	CanReject             bool `json:"can_reject"`
	CanSign               bool `json:"can_sign"`
	CanDeliver            bool `json:"can_deliver"`
	CanJoinCall           bool `json:"can_join_call"`
	CanDownload           bool `json:"can_download"`
	CanCancel             bool `json:"can_cancel"`
	CanAcceptConsultation bool `json:"can_accept_consultation"`
}

// StepState marks a timeline step as already passed, active or upcoming
type StepState string

const (
	StepDone    StepState = "done"
	StepCurrent StepState = "current"
	StepTodo    StepState = "todo"
)

// UiTimelineStep is one entry of a request progress timeline
type UiTimelineStep struct {
	ID    string    `json:"id"`
	Label string    `json:"label"`
	State StepState `json:"state"`
}

// UiBadge is the short status badge rendered on request cards
type UiBadge struct {
	Label    string     `json:"label"`
	ColorKey UiColorKey `json:"color_key"`
}

// RequestUiModel is everything the rendering layer needs for one request
// as seen by one role. It is a pure derivation of the request snapshot;
// rebuilding it from an unchanged request yields an identical value.
type RequestUiModel struct {
	Phase          UiPhase          `json:"phase"`
	Title          string           `json:"title"`
	Subtitle       string           `json:"subtitle,omitempty"`
	Badge          UiBadge          `json:"badge"`
	TimelineSteps  []UiTimelineStep `json:"timeline_steps"`
	Actions        UiActions        `json:"actions"`
	CountersBucket CounterBucket    `json:"counters_bucket"`
	DisabledReason string           `json:"disabled_reason,omitempty"`
}

// DoctorCounterSet holds the doctor dashboard badge counts
type DoctorCounterSet struct {
	NaFila         int `json:"na_fila"`
	ConsultaPronta int `json:"consulta_pronta"`
	EmConsulta     int `json:"em_consulta"`
	PendentesTotal int `json:"pendentes_total"`
}

// PatientCounterSet holds the patient dashboard badge counts
type PatientCounterSet struct {
	Pendentes int `json:"pendentes"`
	APagar    int `json:"a_pagar"`
	Prontas   int `json:"prontas"`
}

// DashboardItem pairs a request with its resolved view model for panel
// rendering.
type DashboardItem struct {
	Request *Request        `json:"request"`
	View    *RequestUiModel `json:"view"`
}

// DoctorDashboard is the doctor home screen payload
type DoctorDashboard struct {
	Counters DoctorCounterSet `json:"counters"`
	Pending  []DashboardItem  `json:"pending"`
}

// PatientDashboard is the patient home screen payload
type PatientDashboard struct {
	Counters PatientCounterSet `json:"counters"`
	Pending  []DashboardItem   `json:"pending"`
}
