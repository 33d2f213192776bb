// internal/application/validate-application-data/config.go
package validateapplicationdata

import "internship-portal/internal/common/config"

const (
	nameMinLength = 2
	nameMaxLength = 100
)

type Config struct {
	MinGraduationYear int
	MaxGraduationYear int
	MinCGPA           float64
	MaxCGPA           float64
	CoverLetterMaxLen int
}

func LoadConfig(cfg config.ValidationConfig) *Config {
	return &Config{
		MinGraduationYear: cfg.MinGraduationYear,
		MaxGraduationYear: cfg.MaxGraduationYear,
		MinCGPA:           cfg.MinCGPA,
		MaxCGPA:           cfg.MaxCGPA,
		CoverLetterMaxLen: cfg.CoverLetterMaxLen,
	}
}
