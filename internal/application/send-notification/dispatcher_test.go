// internal/application/send-notification/dispatcher_test.go
package sendnotification

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"internship-portal/internal/common/logger"
	"internship-portal/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Implementations
// ==========================

type MockSESService struct {
	mu            sync.Mutex
	calls         []*ses.SendEmailInput
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.mu.Lock()
	m.calls = append(m.calls, params)
	m.mu.Unlock()
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(ctx, params, optFns...)
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-123")}, nil
}

func (m *MockSESService) recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, c := range m.calls {
		out = append(out, c.Destination.ToAddresses...)
	}
	return out
}

type MockSNSService struct {
	mu          sync.Mutex
	calls       []*sns.PublishInput
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.mu.Lock()
	m.calls = append(m.calls, params)
	m.mu.Unlock()
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, params, optFns...)
	}
	return &sns.PublishOutput{MessageId: aws.String("sns-123")}, nil
}

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		EmailEnabled: true,
		FromEmail:    "noreply@portal.example.com",
		FromName:     "Internship Portal",
		AdminEmail:   "admin@portal.example.com",
		Timeout:      5 * time.Second,
	}
}

func createTestApplication() models.Application {
	return models.NewApplication("INT-2026-0007", models.Submission{
		FullName:        "Asha Rao",
		Email:           "asha@example.com",
		Phone:           "9876543210",
		University:      "IIT Madras",
		Degree:          "B.Tech",
		Major:           "Computer Science",
		GraduationYear:  2026,
		CGPA:            8.7,
		PreferredDomain: "Web Development",
		Skills:          []string{"Go", "React"},
		GithubProfile:   "github.com/asharao",
		CoverLetter:     "<script>alert(1)</script>",
	}, time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestDispatcher_NotifyApplicant_Success(t *testing.T) {
	mockSES := &MockSESService{}
	d := NewDispatcher(createTestConfig(), mockSES, nil, logger.NewTestLogger(t))

	out, err := d.NotifyApplicant(context.Background(), createTestApplication())

	require.NoError(t, err)
	assert.Equal(t, StatusSent, out.Status)
	assert.Equal(t, "msg-123", out.NotificationID)
	require.Len(t, mockSES.calls, 1)

	input := mockSES.calls[0]
	assert.Equal(t, []string{"asha@example.com"}, input.Destination.ToAddresses)
	assert.Equal(t, "Internship Portal <noreply@portal.example.com>", *input.Source)
	assert.Equal(t, applicantSubject, *input.Message.Subject.Data)
	assert.Contains(t, *input.Message.Body.Html.Data, "INT-2026-0007")
	assert.Contains(t, *input.Message.Body.Html.Data, "Under Review")
	assert.Contains(t, *input.Message.Body.Text.Data, "INT-2026-0007")
}

func TestDispatcher_NotifyAdmin_EscapesApplicantInput(t *testing.T) {
	mockSES := &MockSESService{}
	d := NewDispatcher(createTestConfig(), mockSES, nil, logger.NewTestLogger(t))

	out, err := d.NotifyAdmin(context.Background(), createTestApplication())

	require.NoError(t, err)
	assert.Equal(t, StatusSent, out.Status)
	require.Len(t, mockSES.calls, 1)

	input := mockSES.calls[0]
	html := *input.Message.Body.Html.Data
	assert.Equal(t, []string{"admin@portal.example.com"}, input.Destination.ToAddresses)
	assert.Equal(t, "New Internship Application - Asha Rao", *input.Message.Subject.Data)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, `href="https://github.com/asharao"`)
	assert.Contains(t, html, `<span class="skills">React</span>`)
	assert.NotContains(t, html, "View Resume")
}

func TestDispatcher_NotifyApplicant_SendFailure(t *testing.T) {
	mockSES := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return nil, errors.New("MessageRejected: Email address is not verified")
		},
	}
	d := NewDispatcher(createTestConfig(), mockSES, nil, logger.NewTestLogger(t))

	out, err := d.NotifyApplicant(context.Background(), createTestApplication())

	assert.True(t, errors.Is(err, ErrNotificationSendFailed))
	assert.Equal(t, StatusFailed, out.Status)
	assert.Equal(t, "asha@example.com", out.Recipient)
}

func TestDispatcher_EmailDisabled(t *testing.T) {
	cfg := createTestConfig()
	cfg.EmailEnabled = false
	mockSES := &MockSESService{}
	d := NewDispatcher(cfg, mockSES, nil, logger.NewTestLogger(t))

	out, err := d.NotifyApplicant(context.Background(), createTestApplication())

	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, out.Status)
	assert.Empty(t, mockSES.calls)
}

func TestDispatcher_NotifyAdmin_PublishesToTopicWhenConfigured(t *testing.T) {
	cfg := createTestConfig()
	cfg.SNSEnabled = true
	cfg.AdminTopicARN = "arn:aws:sns:ap-south-1:123456789012:internship-admin"
	mockSNS := &MockSNSService{}
	d := NewDispatcher(cfg, &MockSESService{}, mockSNS, logger.NewTestLogger(t))

	_, err := d.NotifyAdmin(context.Background(), createTestApplication())

	require.NoError(t, err)
	require.Len(t, mockSNS.calls, 1)
	assert.Equal(t, cfg.AdminTopicARN, *mockSNS.calls[0].TopicArn)
	assert.True(t, strings.Contains(*mockSNS.calls[0].Message, "INT-2026-0007"))
}

func TestDispatcher_NotifyAdmin_TopicFailureDoesNotFailEmail(t *testing.T) {
	cfg := createTestConfig()
	cfg.SNSEnabled = true
	cfg.AdminTopicARN = "arn:aws:sns:ap-south-1:123456789012:internship-admin"
	mockSNS := &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			return nil, errors.New("throttled")
		},
	}
	mockSES := &MockSESService{}
	d := NewDispatcher(cfg, mockSES, mockSNS, logger.NewTestLogger(t))

	out, err := d.NotifyAdmin(context.Background(), createTestApplication())

	require.NoError(t, err)
	assert.Equal(t, StatusSent, out.Status)
	assert.Len(t, mockSES.calls, 1)
}

func TestDispatcher_NotifyAdmin_NoTopicNoPublish(t *testing.T) {
	mockSNS := &MockSNSService{}
	d := NewDispatcher(createTestConfig(), &MockSESService{}, mockSNS, logger.NewTestLogger(t))

	_, err := d.NotifyAdmin(context.Background(), createTestApplication())

	require.NoError(t, err)
	assert.Empty(t, mockSNS.calls)
}

func TestDispatcher_Dispatch_SendsBoth(t *testing.T) {
	mockSES := &MockSESService{}
	d := NewDispatcher(createTestConfig(), mockSES, nil, logger.NewTestLogger(t))

	d.Dispatch(createTestApplication())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Wait(ctx))
	assert.ElementsMatch(t, []string{"asha@example.com", "admin@portal.example.com"}, mockSES.recipients())
}

func TestDispatcher_Dispatch_OneFailureDoesNotStopTheOther(t *testing.T) {
	mockSES := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			if params.Destination.ToAddresses[0] == "asha@example.com" {
				return nil, errors.New("mailbox unavailable")
			}
			return &ses.SendEmailOutput{MessageId: aws.String("msg-456")}, nil
		},
	}
	d := NewDispatcher(createTestConfig(), mockSES, nil, logger.NewTestLogger(t))

	d.Dispatch(createTestApplication())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Wait(ctx))
	assert.Len(t, mockSES.recipients(), 2)
}

func TestDispatcher_Dispatch_DoesNotBlockCaller(t *testing.T) {
	release := make(chan struct{})
	mockSES := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			<-release
			return &ses.SendEmailOutput{MessageId: aws.String("msg-789")}, nil
		},
	}
	d := NewDispatcher(createTestConfig(), mockSES, nil, logger.NewTestLogger(t))

	returned := make(chan struct{})
	go func() {
		d.Dispatch(createTestApplication())
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on email delivery")
	}

	close(release)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Wait(ctx))
}

func TestDispatcher_Dispatch_AfterWaitIsDropped(t *testing.T) {
	mockSES := &MockSESService{}
	d := NewDispatcher(createTestConfig(), mockSES, nil, logger.NewTestLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Wait(ctx))

	d.Dispatch(createTestApplication())

	require.NoError(t, d.Wait(ctx))
	assert.Empty(t, mockSES.recipients())
}

func TestDispatcher_Dispatch_ConcurrentWithWait(t *testing.T) {
	mockSES := &MockSESService{}
	d := NewDispatcher(createTestConfig(), mockSES, nil, logger.NewTestLogger(t))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Dispatch(createTestApplication())
		}()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Wait(ctx))
	wg.Wait()
	require.NoError(t, d.Wait(ctx))

	// every accepted dispatch sends exactly two emails
	assert.Equal(t, 0, len(mockSES.recipients())%2)
}

func TestSubjectLine(t *testing.T) {
	assert.Equal(t, "New Internship Application - Asha Rao", subjectLine("New Internship Application - Asha\r\n  Rao"))
}
