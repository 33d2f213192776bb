// cmd/tools/view-applications/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	car "internship-portal/internal/application/create-application-record"
	"internship-portal/internal/common/config"
	"internship-portal/internal/common/database"
	"internship-portal/internal/common/logger"
	"internship-portal/internal/models"
)

func main() {
	format := flag.String("format", "text", "Output format: text or json")
	output := flag.String("out", "", "Write to this file instead of stdout (json backups)")
	flag.Parse()

	if *format != "text" && *format != "json" {
		fmt.Printf("Unknown format %q, expected text or json\n", *format)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		fmt.Printf("Error connecting to postgres: %v\n", err)
		os.Exit(1)
	}
	defer pg.Close()

	repo := car.NewRepository(car.LoadConfig(), pg.GetDB(), logger.NewNoOpLogger())
	apps, err := repo.ListAll(ctx)
	if err != nil {
		fmt.Printf("Error loading applications: %v\n", err)
		os.Exit(1)
	}

	var w io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fmt.Printf("Error creating %s: %v\n", *output, err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	if *format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(apps); err != nil {
			fmt.Printf("Error writing json: %v\n", err)
			os.Exit(1)
		}
		if *output != "" {
			fmt.Printf("Exported %d applications to %s\n", len(apps), *output)
		}
		return
	}

	printApplications(w, apps)
}

func printApplications(w io.Writer, apps []models.Application) {
	rule := strings.Repeat("=", 80)

	fmt.Fprintf(w, "Total Applications: %d\n\n", len(apps))
	fmt.Fprintln(w, rule)

	for i, app := range apps {
		fmt.Fprintf(w, "\n%d. %s\n", i+1, app.ApplicationID)
		fmt.Fprintln(w, strings.Repeat("-", 80))
		fmt.Fprintf(w, "Name:       %s\n", app.FullName)
		fmt.Fprintf(w, "Email:      %s\n", app.Email)
		fmt.Fprintf(w, "Phone:      %s\n", app.Phone)
		fmt.Fprintf(w, "University: %s\n", app.University)
		fmt.Fprintf(w, "Degree:     %s in %s\n", app.Degree, app.Major)
		fmt.Fprintf(w, "CGPA:       %.2f/10\n", app.CGPA)
		fmt.Fprintf(w, "Grad Year:  %d\n", app.GraduationYear)
		fmt.Fprintf(w, "Domain:     %s\n", app.PreferredDomain)
		fmt.Fprintf(w, "Skills:     %s\n", strings.Join(app.Skills, ", "))
		fmt.Fprintf(w, "Status:     %s\n", app.Status)
		fmt.Fprintf(w, "Submitted:  %s\n", app.SubmittedAt.Format(time.RFC1123))
		if app.ResumeLink != "" {
			fmt.Fprintf(w, "Resume:     %s\n", app.ResumeLink)
		}
		if app.GithubProfile != "" {
			fmt.Fprintf(w, "GitHub:     %s\n", app.GithubProfile)
		}
		if app.LinkedinProfile != "" {
			fmt.Fprintf(w, "LinkedIn:   %s\n", app.LinkedinProfile)
		}
		if app.CoverLetter != "" {
			fmt.Fprintf(w, "Cover:      %s\n", truncate(app.CoverLetter, 100))
		}
		fmt.Fprintln(w, rule)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
