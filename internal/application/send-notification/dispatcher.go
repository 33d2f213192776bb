// internal/application/send-notification/dispatcher.go
package sendnotification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	awsclient "internship-portal/internal/common/aws"
	"internship-portal/internal/common/logger"
	"internship-portal/internal/common/metrics"
	"internship-portal/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"
)

const TaskType = "send-notification"

var ErrNotificationSendFailed = errors.New("NOTIFICATION_SEND_FAILED")

// Dispatcher sends the applicant confirmation and the admin notice for a
// committed application. Failures are logged and counted, never retried.
type Dispatcher struct {
	config    *Config
	logger    logger.Logger
	sesClient awsclient.SESService
	snsClient awsclient.SNSService

	mu       sync.Mutex
	draining bool
	inflight sync.WaitGroup
}

// NewDispatcher builds a dispatcher. snsClient may be nil when no admin topic is configured.
func NewDispatcher(config *Config, sesClient awsclient.SESService, snsClient awsclient.SNSService, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		config:    config,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
		sesClient: sesClient,
		snsClient: snsClient,
	}
}

// Dispatch sends both notifications concurrently in the background and
// returns immediately. Once Wait has been called new dispatches are dropped.
func (d *Dispatcher) Dispatch(app models.Application) {
	d.mu.Lock()
	if d.draining {
		d.mu.Unlock()
		metrics.NotificationsFailed.WithLabelValues(KindApplicant, ChannelEmail).Inc()
		metrics.NotificationsFailed.WithLabelValues(KindAdmin, ChannelEmail).Inc()
		d.logger.Warn("dispatcher is draining, notifications dropped", map[string]interface{}{
			"applicationId": app.ApplicationID,
			"email":         app.Email,
		})
		return
	}
	d.inflight.Add(1)
	d.mu.Unlock()
	metrics.NotificationsInFlight.Inc()

	go func() {
		defer d.inflight.Done()
		defer metrics.NotificationsInFlight.Dec()

		ctx := context.Background()
		if d.config.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d.config.Timeout)
			defer cancel()
		}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = d.NotifyApplicant(ctx, app)
		}()
		go func() {
			defer wg.Done()
			_, _ = d.NotifyAdmin(ctx, app)
		}()
		wg.Wait()
	}()
}

// Wait stops accepting dispatches and blocks until every background dispatch
// has finished or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	d.mu.Lock()
	d.draining = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NotifyApplicant emails the confirmation to the applicant.
func (d *Dispatcher) NotifyApplicant(ctx context.Context, app models.Application) (*Output, error) {
	if !d.config.EmailEnabled {
		return d.disabled(KindApplicant, app), nil
	}

	html, err := render("applicant.html", app)
	if err != nil {
		return d.failed(KindApplicant, ChannelEmail, app.Email, applicantSubject, app, err)
	}

	messageID, err := d.sendEmail(ctx, app.Email, applicantSubject, html, applicantText(app))
	if err != nil {
		return d.failed(KindApplicant, ChannelEmail, app.Email, applicantSubject, app, err)
	}
	return d.sent(KindApplicant, ChannelEmail, app.Email, applicantSubject, messageID, app), nil
}

// NotifyAdmin emails the full application to the admin and, when configured,
// publishes a one-line summary to the admin topic. The email outcome decides
// the returned status.
func (d *Dispatcher) NotifyAdmin(ctx context.Context, app models.Application) (*Output, error) {
	if d.config.SNSEnabled && d.snsClient != nil && d.config.AdminTopicARN != "" {
		d.publishAdminAlert(ctx, app)
	}

	if !d.config.EmailEnabled {
		return d.disabled(KindAdmin, app), nil
	}

	subject := subjectLine(fmt.Sprintf(adminSubjectTemplate, app.FullName))

	html, err := render("admin.html", app)
	if err != nil {
		return d.failed(KindAdmin, ChannelEmail, d.config.AdminEmail, subject, app, err)
	}

	messageID, err := d.sendEmail(ctx, d.config.AdminEmail, subject, html, adminText(app))
	if err != nil {
		return d.failed(KindAdmin, ChannelEmail, d.config.AdminEmail, subject, app, err)
	}
	return d.sent(KindAdmin, ChannelEmail, d.config.AdminEmail, subject, messageID, app), nil
}

func (d *Dispatcher) publishAdminAlert(ctx context.Context, app models.Application) {
	message := fmt.Sprintf("New application %s from %s (%s, %s)",
		app.ApplicationID, subjectLine(app.FullName), app.University, app.PreferredDomain)

	_, err := d.snsClient.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(d.config.AdminTopicARN),
		Message:  aws.String(message),
	})
	if err != nil {
		metrics.NotificationsFailed.WithLabelValues(KindAdmin, ChannelSNS).Inc()
		d.logger.Error("admin alert publish failed", map[string]interface{}{
			"error":         err,
			"recipient":     d.config.AdminTopicARN,
			"applicationId": app.ApplicationID,
		})
		return
	}
	metrics.NotificationsSent.WithLabelValues(KindAdmin, ChannelSNS).Inc()
}

func (d *Dispatcher) sendEmail(ctx context.Context, to, subject, html, text string) (string, error) {
	source := d.config.FromEmail
	if d.config.FromName != "" {
		source = fmt.Sprintf("%s <%s>", d.config.FromName, d.config.FromEmail)
	}

	out, err := d.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(text), Charset: aws.String("UTF-8")},
				Html: &types.Content{Data: aws.String(html), Charset: aws.String("UTF-8")},
			},
		},
		Source: aws.String(source),
	})
	if err != nil {
		return "", err
	}
	if out != nil && out.MessageId != nil {
		return *out.MessageId, nil
	}
	return uuid.New().String(), nil
}

func (d *Dispatcher) sent(kind, channel, recipient, subject, messageID string, app models.Application) *Output {
	metrics.NotificationsSent.WithLabelValues(kind, channel).Inc()
	d.logger.Info("notification sent", map[string]interface{}{
		"kind":          kind,
		"recipient":     recipient,
		"subject":       subject,
		"applicationId": app.ApplicationID,
		"messageId":     messageID,
	})
	return &Output{
		NotificationID: messageID,
		Kind:           kind,
		Recipient:      recipient,
		Status:         StatusSent,
		SentAt:         time.Now().UTC().Format(time.RFC3339),
	}
}

func (d *Dispatcher) failed(kind, channel, recipient, subject string, app models.Application, cause error) (*Output, error) {
	metrics.NotificationsFailed.WithLabelValues(kind, channel).Inc()
	d.logger.Error("notification send failed", map[string]interface{}{
		"error":         cause,
		"kind":          kind,
		"recipient":     recipient,
		"subject":       subject,
		"applicationId": app.ApplicationID,
	})
	return &Output{
		NotificationID: uuid.New().String(),
		Kind:           kind,
		Recipient:      recipient,
		Status:         StatusFailed,
		SentAt:         time.Now().UTC().Format(time.RFC3339),
	}, fmt.Errorf("%w: %s to %s: %v", ErrNotificationSendFailed, kind, recipient, cause)
}

func (d *Dispatcher) disabled(kind string, app models.Application) *Output {
	d.logger.Debug("email notifications disabled", map[string]interface{}{
		"kind":          kind,
		"applicationId": app.ApplicationID,
	})
	return &Output{
		NotificationID: uuid.New().String(),
		Kind:           kind,
		Status:         StatusDisabled,
		SentAt:         time.Now().UTC().Format(time.RFC3339),
	}
}
