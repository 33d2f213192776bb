package models

import "time"

// Application is one submitted internship application.
//
// ID is the store key; ApplicationID is the public INT-<year>-<seq> identifier,
// set once before the record is first written and never changed afterwards.
type Application struct {
	ID            int64  `json:"id"`
	ApplicationID string `json:"applicationId"`

	// Personal Information
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`

	// Educational Information
	University     string  `json:"university"`
	Degree         string  `json:"degree"`
	Major          string  `json:"major"`
	GraduationYear int     `json:"graduationYear"`
	CGPA           float64 `json:"cgpa"`

	// Internship Preferences
	PreferredDomain string   `json:"preferredDomain"`
	Skills          []string `json:"skills"`

	// Optional Links
	ResumeLink      string `json:"resumeLink"`
	GithubProfile   string `json:"githubProfile"`
	LinkedinProfile string `json:"linkedinProfile"`

	CoverLetter string `json:"coverLetter"`

	Status      Status    `json:"status"`
	SubmittedAt time.Time `json:"submittedAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Status is the review state of an application.
type Status string

const (
	StatusPending  Status = "pending"
	StatusReviewed Status = "reviewed"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPending, StatusReviewed, StatusAccepted, StatusRejected}

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Domains is the fixed set of internship domains an applicant can choose.
var Domains = []string{
	"Web Development",
	"Mobile Development",
	"Data Science",
	"Machine Learning",
	"DevOps",
	"Cloud Computing",
	"Cybersecurity",
	"UI/UX Design",
	"Other",
}

// Stats holds application counts by status.
type Stats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Reviewed int64 `json:"reviewed"`
	Accepted int64 `json:"accepted"`
	Rejected int64 `json:"rejected"`
}

// Add counts n applications with status s.
func (st *Stats) Add(s Status, n int64) {
	st.Total += n
	switch s {
	case StatusPending:
		st.Pending += n
	case StatusReviewed:
		st.Reviewed += n
	case StatusAccepted:
		st.Accepted += n
	case StatusRejected:
		st.Rejected += n
	}
}

// ListFilter selects a page of applications, newest first.
type ListFilter struct {
	Status Status
	Page   int
	Limit  int
}

// Offset returns the number of rows to skip for the filter's page.
func (f ListFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// Page is one page of applications plus the total matching count.
type Page struct {
	Applications []Application `json:"applications"`
	Total        int64         `json:"total"`
	CurrentPage  int           `json:"currentPage"`
	TotalPages   int           `json:"totalPages"`
}

// NewPage computes TotalPages from total and limit.
func NewPage(apps []Application, total int64, filter ListFilter) Page {
	totalPages := 0
	if filter.Limit > 0 {
		totalPages = int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	}
	if apps == nil {
		apps = []Application{}
	}
	return Page{
		Applications: apps,
		Total:        total,
		CurrentPage:  filter.Page,
		TotalPages:   totalPages,
	}
}
