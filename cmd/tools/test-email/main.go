// cmd/tools/test-email/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	sn "internship-portal/internal/application/send-notification"
	"internship-portal/internal/common/aws"
	"internship-portal/internal/common/config"
	"internship-portal/internal/common/logger"
	"internship-portal/internal/models"
)

// Sends both notification emails for a sample application so SES setup can be
// checked without submitting through the form.
func main() {
	to := flag.String("to", "", "Recipient for the applicant email (defaults to the admin address)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if !cfg.Notifications.Email.Enabled {
		fmt.Println("notifications.email.enabled is false, nothing to test")
		os.Exit(1)
	}

	recipient := *to
	if recipient == "" {
		recipient = cfg.Notifications.Email.AdminEmail
	}

	fmt.Println("Configuration:")
	fmt.Printf("  Region:    %s\n", cfg.Notifications.AWS.Region)
	fmt.Printf("  From:      %s <%s>\n", cfg.Notifications.Email.FromName, cfg.Notifications.Email.FromEmail)
	fmt.Printf("  Admin:     %s\n", cfg.Notifications.Email.AdminEmail)
	fmt.Printf("  Applicant: %s\n\n", recipient)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	awsCfg, err := aws.LoadConfig(ctx, cfg.Notifications.AWS.Region)
	if err != nil {
		fmt.Printf("Error loading AWS config: %v\n", err)
		os.Exit(1)
	}

	var snsClient aws.SNSService
	if cfg.Notifications.SNS.Enabled {
		snsClient = aws.NewSNSClientFromConfig(awsCfg)
	}
	dispatcher := sn.NewDispatcher(sn.LoadConfig(cfg.Notifications), aws.NewSESClientFromConfig(awsCfg), snsClient,
		logger.NewStructured("debug", "console", ""))

	app := models.Application{
		ApplicationID:   "INT-TEST-0000",
		FullName:        "Test Applicant",
		Email:           recipient,
		Phone:           "9999999999",
		University:      "Test University",
		Degree:          "B.Tech",
		Major:           "Computer Science",
		GraduationYear:  time.Now().Year() + 1,
		CGPA:            8.5,
		PreferredDomain: "Web Development",
		Skills:          []string{"Go", "PostgreSQL"},
		Status:          models.StatusPending,
		SubmittedAt:     time.Now().UTC(),
	}

	failed := false
	for _, send := range []func(context.Context, models.Application) (*sn.Output, error){
		dispatcher.NotifyApplicant,
		dispatcher.NotifyAdmin,
	} {
		out, err := send(ctx, app)
		if err != nil {
			fmt.Printf("FAILED %s email to %s: %v\n", out.Kind, out.Recipient, err)
			failed = true
			continue
		}
		fmt.Printf("Sent %s email to %s (message id %s)\n", out.Kind, out.Recipient, out.NotificationID)
	}

	if failed {
		os.Exit(1)
	}
	fmt.Println("\nCheck the inboxes, including spam folders.")
}
