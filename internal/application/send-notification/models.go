// internal/application/send-notification/models.go
package sendnotification

type Output struct {
	NotificationID string `json:"notificationId"`
	Kind           string `json:"kind"`
	Recipient      string `json:"recipient"`
	Status         string `json:"status"` // "sent", "failed", "disabled"
	SentAt         string `json:"sentAt"` // ISO 8601
}

// Notification kinds
const (
	KindApplicant = "applicant"
	KindAdmin     = "admin"
)

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

// Channels, used as metric labels
const (
	ChannelEmail = "email"
	ChannelSNS   = "sns"
)

const (
	applicantSubject     = "Application Received - Internship Portal"
	adminSubjectTemplate = "New Internship Application - %s"
)
