// internal/application/send-notification/templates.go
package sendnotification

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"internship-portal/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var emailTemplates = template.Must(
	template.New("email").Funcs(template.FuncMap{
		"when": formatTime,
		"link": absoluteLink,
	}).ParseFS(templateFS, "templates/*.html"),
)

func formatTime(t time.Time) string {
	return t.UTC().Format("Jan 2, 2006 3:04 PM MST")
}

// absoluteLink adds a scheme to links submitted without one so mail clients
// do not resolve them relative to nothing.
func absoluteLink(link string) string {
	if strings.Contains(link, "://") {
		return link
	}
	return "https://" + link
}

func render(name string, app models.Application) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, name, app); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func applicantText(app models.Application) string {
	return fmt.Sprintf(
		"Dear %s,\n\nThank you for applying to our internship program! We've successfully received your application.\n\n"+
			"Application ID: %s\nSubmission Time: %s\nStatus: Under Review\n\n"+
			"Our team will review your application and get back to you within 5-7 business days.\n\n"+
			"Best regards,\nInternship Team\n",
		app.FullName, app.ApplicationID, formatTime(app.SubmittedAt),
	)
}

func adminText(app models.Application) string {
	return fmt.Sprintf(
		"New internship application %s\n\nName: %s\nEmail: %s\nPhone: %s\nUniversity: %s\nDegree: %s\nMajor: %s\n"+
			"CGPA: %g/10\nGraduation Year: %d\nPreferred Domain: %s\nSkills: %s\nSubmitted: %s\n",
		app.ApplicationID, app.FullName, app.Email, app.Phone, app.University, app.Degree, app.Major,
		app.CGPA, app.GraduationYear, app.PreferredDomain, strings.Join(app.Skills, ", "), formatTime(app.SubmittedAt),
	)
}

// subjectLine collapses whitespace so user input cannot break the header.
func subjectLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
