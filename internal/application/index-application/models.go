// internal/application/index-application/models.go
package indexapplication

import "internship-portal/internal/models"

type SearchInput struct {
	Query string `json:"q"`
	From  int    `json:"from"`
	Size  int    `json:"size"`
}

type SearchOutput struct {
	Applications []models.Application `json:"applications"`
	Total        int64                `json:"total"`
	Took         int64                `json:"took"`
}

var searchFields = []string{
	"fullName^3",
	"email^2",
	"applicationId^2",
	"university",
	"major",
	"degree",
	"preferredDomain",
	"skills",
}

var indexMapping = map[string]interface{}{
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"applicationId":   map[string]interface{}{"type": "keyword"},
			"fullName":        map[string]interface{}{"type": "text"},
			"email":           map[string]interface{}{"type": "keyword"},
			"phone":           map[string]interface{}{"type": "keyword"},
			"university":      map[string]interface{}{"type": "text"},
			"degree":          map[string]interface{}{"type": "text"},
			"major":           map[string]interface{}{"type": "text"},
			"graduationYear":  map[string]interface{}{"type": "integer"},
			"cgpa":            map[string]interface{}{"type": "float"},
			"preferredDomain": map[string]interface{}{"type": "keyword"},
			"skills":          map[string]interface{}{"type": "text"},
			"status":          map[string]interface{}{"type": "keyword"},
			"coverLetter":     map[string]interface{}{"type": "text"},
			"submittedAt":     map[string]interface{}{"type": "date"},
		},
	},
}
