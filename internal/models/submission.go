package models

import "time"

// Submission is the applicant-supplied part of an application, after
// normalization and validation.
type Submission struct {
	FullName        string   `json:"fullName"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	University      string   `json:"university"`
	Degree          string   `json:"degree"`
	Major           string   `json:"major"`
	GraduationYear  int      `json:"graduationYear"`
	CGPA            float64  `json:"cgpa"`
	PreferredDomain string   `json:"preferredDomain"`
	Skills          []string `json:"skills"`
	ResumeLink      string   `json:"resumeLink"`
	GithubProfile   string   `json:"githubProfile"`
	LinkedinProfile string   `json:"linkedinProfile"`
	CoverLetter     string   `json:"coverLetter"`
}

// NewApplication builds the record to persist. The identifier must already be
// allocated; there is no way to attach one afterwards.
func NewApplication(applicationID string, s Submission, submittedAt time.Time) Application {
	skills := make([]string, len(s.Skills))
	copy(skills, s.Skills)

	return Application{
		ApplicationID:   applicationID,
		FullName:        s.FullName,
		Email:           s.Email,
		Phone:           s.Phone,
		University:      s.University,
		Degree:          s.Degree,
		Major:           s.Major,
		GraduationYear:  s.GraduationYear,
		CGPA:            s.CGPA,
		PreferredDomain: s.PreferredDomain,
		Skills:          skills,
		ResumeLink:      s.ResumeLink,
		GithubProfile:   s.GithubProfile,
		LinkedinProfile: s.LinkedinProfile,
		CoverLetter:     s.CoverLetter,
		Status:          StatusPending,
		SubmittedAt:     submittedAt,
		CreatedAt:       submittedAt,
		UpdatedAt:       submittedAt,
	}
}
