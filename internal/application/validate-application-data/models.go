// internal/application/validate-application-data/models.go
package validateapplicationdata

import (
	"regexp"

	"internship-portal/internal/common/errors"
	"internship-portal/internal/models"
)

type Output struct {
	IsValid          bool                    `json:"isValid"`
	Submission       models.Submission       `json:"submission"`
	ValidationErrors []errors.FieldViolation `json:"validationErrors"`
}

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = `^[0-9]{10}$`
)

// fieldOrder fixes the order violations are reported in.
var fieldOrder = []string{
	"fullName",
	"email",
	"phone",
	"university",
	"degree",
	"major",
	"graduationYear",
	"cgpa",
	"preferredDomain",
	"skills",
	"resumeLink",
	"githubProfile",
	"linkedinProfile",
	"coverLetter",
}

var requiredFields = fieldOrder[:10]
