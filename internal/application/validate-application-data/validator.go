// internal/application/validate-application-data/validator.go
package validateapplicationdata

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"internship-portal/internal/common/errors"
	"internship-portal/internal/common/logger"
	"internship-portal/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

const TaskType = "validate-application-data"

type Validator struct {
	config   *Config
	schema   *gojsonschema.Schema
	messages map[string]string
	logger   logger.Logger
}

func NewValidator(config *Config, log logger.Logger) (*Validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(buildSchema(config)))
	if err != nil {
		return nil, fmt.Errorf("compile application schema: %w", err)
	}
	return &Validator{
		config:   config,
		schema:   schema,
		messages: buildMessages(config),
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}, nil
}

// Validate normalizes a decoded request body and checks it against the
// application schema. Every violated field is reported, once, in form order.
// The returned error is reserved for failures of the validator itself.
func (v *Validator) Validate(_ context.Context, input map[string]interface{}) (*Output, error) {
	normalized := normalize(input)

	result, err := v.schema.Validate(gojsonschema.NewGoLoader(normalized))
	if err != nil {
		return nil, fmt.Errorf("validate application: %w", err)
	}

	if !result.Valid() {
		violations := v.collect(result.Errors())
		v.logger.Info("validation completed", map[string]interface{}{
			"isValid":    false,
			"errorCount": len(violations),
		})
		return &Output{IsValid: false, ValidationErrors: violations}, nil
	}

	var submission models.Submission
	raw, err := json.Marshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("encode normalized application: %w", err)
	}
	if err := json.Unmarshal(raw, &submission); err != nil {
		return nil, fmt.Errorf("decode normalized application: %w", err)
	}

	v.logger.Debug("validation completed", map[string]interface{}{
		"isValid": true,
		"email":   submission.Email,
	})

	return &Output{
		IsValid:          true,
		Submission:       submission,
		ValidationErrors: []errors.FieldViolation{},
	}, nil
}

func (v *Validator) collect(results []gojsonschema.ResultError) []errors.FieldViolation {
	seen := make(map[string]bool)
	violations := make([]errors.FieldViolation, 0, len(results))

	for _, desc := range results {
		field := desc.Field()
		if desc.Type() == "required" {
			if prop, ok := desc.Details()["property"]; ok {
				field = fmt.Sprint(prop)
			}
		}
		// skills.0 -> skills
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[:i]
		}
		if seen[field] {
			continue
		}
		seen[field] = true

		msg, ok := v.messages[field]
		if !ok {
			msg = desc.Description()
		}
		violations = append(violations, errors.FieldViolation{Field: field, Message: msg})
	}

	sort.SliceStable(violations, func(i, j int) bool {
		return fieldRank(violations[i].Field) < fieldRank(violations[j].Field)
	})
	return violations
}

func fieldRank(field string) int {
	for i, f := range fieldOrder {
		if f == field {
			return i
		}
	}
	return len(fieldOrder)
}

// normalize trims strings, lowercases the email, drops nulls and blank skills,
// and accepts numeric strings for the two numeric fields.
func normalize(input map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(input))
	for key, value := range input {
		switch val := value.(type) {
		case nil:
			continue
		case string:
			out[key] = strings.TrimSpace(val)
		default:
			out[key] = value
		}
	}

	if email, ok := out["email"].(string); ok {
		out["email"] = strings.ToLower(email)
	}

	if skills, ok := out["skills"].([]interface{}); ok {
		cleaned := make([]interface{}, 0, len(skills))
		for _, s := range skills {
			if str, ok := s.(string); ok {
				str = strings.TrimSpace(str)
				if str == "" {
					continue
				}
				cleaned = append(cleaned, str)
				continue
			}
			cleaned = append(cleaned, s)
		}
		out["skills"] = cleaned
	}

	for _, key := range []string{"graduationYear", "cgpa"} {
		if s, ok := out[key].(string); ok {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				out[key] = f
			}
		}
	}

	return out
}

func buildSchema(c *Config) map[string]interface{} {
	nonEmpty := map[string]interface{}{"type": "string", "minLength": 1}
	optionalURL := map[string]interface{}{"type": "string", "format": formatOptionalURL}

	return map[string]interface{}{
		"type":     "object",
		"required": requiredFields,
		"properties": map[string]interface{}{
			"fullName": map[string]interface{}{
				"type":      "string",
				"minLength": nameMinLength,
				"maxLength": nameMaxLength,
			},
			"email": map[string]interface{}{
				"type":   "string",
				"format": formatApplicantEmail,
			},
			"phone": map[string]interface{}{
				"type":    "string",
				"pattern": phoneRegex,
			},
			"university": nonEmpty,
			"degree":     nonEmpty,
			"major":      nonEmpty,
			"graduationYear": map[string]interface{}{
				"type":    "integer",
				"minimum": c.MinGraduationYear,
				"maximum": c.MaxGraduationYear,
			},
			"cgpa": map[string]interface{}{
				"type":    "number",
				"minimum": c.MinCGPA,
				"maximum": c.MaxCGPA,
			},
			"preferredDomain": map[string]interface{}{
				"type": "string",
				"enum": models.Domains,
			},
			"skills": map[string]interface{}{
				"type":     "array",
				"minItems": 1,
				"items":    nonEmpty,
			},
			"resumeLink":      optionalURL,
			"githubProfile":   optionalURL,
			"linkedinProfile": optionalURL,
			"coverLetter": map[string]interface{}{
				"type":      "string",
				"maxLength": c.CoverLetterMaxLen,
			},
		},
	}
}

func buildMessages(c *Config) map[string]string {
	return map[string]string{
		"fullName":        fmt.Sprintf("Name must be between %d-%d characters", nameMinLength, nameMaxLength),
		"email":           "Invalid email address",
		"phone":           "Phone must be 10 digits",
		"university":      "University is required",
		"degree":          "Degree is required",
		"major":           "Major is required",
		"graduationYear":  fmt.Sprintf("Graduation year must be between %d-%d", c.MinGraduationYear, c.MaxGraduationYear),
		"cgpa":            fmt.Sprintf("CGPA must be between %g-%g", c.MinCGPA, c.MaxCGPA),
		"preferredDomain": "Invalid domain",
		"skills":          "At least one skill is required",
		"resumeLink":      "Invalid resume URL",
		"githubProfile":   "Invalid GitHub URL",
		"linkedinProfile": "Invalid LinkedIn URL",
		"coverLetter":     fmt.Sprintf("Cover letter must be at most %d characters", c.CoverLetterMaxLen),
	}
}
