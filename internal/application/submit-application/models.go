// internal/application/submit-application/models.go
package submitapplication

import "internship-portal/internal/models"

type Output struct {
	ApplicationID string             `json:"applicationId"`
	Application   models.Application `json:"application"`
}

// Stage names the step a submission reached. Logged on every exit.
type Stage string

const (
	StageReceived         Stage = "received"
	StageDuplicateChecked Stage = "duplicate_checked"
	StageIdentified       Stage = "identifier_assigned"
	StagePersisted        Stage = "persisted"
	StageDispatched       Stage = "notifications_dispatched"
	StageCompleted        Stage = "completed"
	StageRejectedInvalid  Stage = "rejected_invalid"
	StageRejectedDup      Stage = "rejected_duplicate"
	StageFailed           Stage = "failed"
)

// Outcomes, used as metric labels
const (
	OutcomeAccepted  = "accepted"
	OutcomeInvalid   = "invalid"
	OutcomeDuplicate = "duplicate"
	OutcomeFailed    = "failed"
)
