// internal/workers/poster/select-template/models.go
package selecttemplate

import "poster-workers/internal/models"

type Input struct {
	TemplateID string `json:"templateId"`
	Occasion   string `json:"occasion,omitempty"`
}

type Output struct {
	Template models.Template `json:"template"`
}
