package orchestrate

import "time"

// Status is the outcome of a batch.
type Status string

const (
	StatusSuccess           Status = "SUCCESS"
	StatusPartialSuccess    Status = "PARTIAL_SUCCESS"
	StatusValidationFailure Status = "VALIDATION_FAILURE"
	StatusNoLeadsProvided   Status = "NO_LEADS_PROVIDED"
	StatusSystemFailure     Status = "SYSTEM_FAILURE"
)

// OK reports whether the batch finished without a validation or system
// failure.
func (s Status) OK() bool {
	switch s {
	case StatusSuccess, StatusPartialSuccess, StatusNoLeadsProvided:
		return true
	default:
		return false
	}
}

// Phase is a step of the batch state machine.
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseValidating Phase = "validating"
	PhaseExporting  Phase = "exporting"
	PhaseSkipped    Phase = "skipped"
	PhaseDone       Phase = "done"
)

// Summary describes one processed batch.
type Summary struct {
	RunID      string `json:"run_id"`
	CampaignID string `json:"campaign_id,omitempty"`
	Status     Status `json:"status"`
	TotalInput int    `json:"total_leads_processed"`
	ValidCount int    `json:"leads_exported_count"`
	OutputPath string `json:"output_file_path,omitempty"`
	// RecordErrors maps a record identifier to its validation errors.
	RecordErrors map[string][]string `json:"validation_errors,omitempty"`
	FatalError   string              `json:"system_error,omitempty"`
	StartedAt    time.Time           `json:"started_at"`
	FinishedAt   time.Time           `json:"finished_at"`
	// Phases lists the states the batch went through, in order.
	Phases []Phase `json:"-"`
}

// InvalidCount returns the number of records that failed validation.
func (s *Summary) InvalidCount() int {
	return len(s.RecordErrors)
}

// Duration returns how long the batch took.
func (s *Summary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}
