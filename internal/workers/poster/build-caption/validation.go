// internal/workers/poster/build-caption/validation.go
package buildcaption

import (
	"fmt"
	"strings"

	"poster-workers/internal/common/validation"
)

var inputSchema = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"vendorId": {
			Type:      "string",
			MinLength: validation.IntPtr(1),
		},
		"template": {
			Type: "object",
			Properties: map[string]validation.Property{
				"id":    {Type: "string"},
				"title": {Type: "string"},
			},
			Required: []string{"id"},
		},
		"selection": {
			Type: "object",
			Properties: map[string]validation.Property{
				"customText": {
					Type:      "string",
					MaxLength: validation.IntPtr(280),
				},
				"layout": {
					Type: "string",
					Enum: []string{"modern", "classic", "minimal", ""},
				},
				"selectedProductIds": {
					Type:  "array",
					Items: &validation.Property{Type: "string"},
				},
				"selectedServiceIds": {
					Type:  "array",
					Items: &validation.Property{Type: "string"},
				},
				"selectedOfferIds": {
					Type:  "array",
					Items: &validation.Property{Type: "string"},
				},
			},
		},
	},
	Required:             []string{"vendorId", "template"},
	AdditionalProperties: true,
}

func validateInput(raw map[string]interface{}) error {
	result, err := validation.ValidateInput(raw, inputSchema)
	if err != nil {
		return err
	}
	if !result.Valid {
		msgs := make([]string, 0, len(result.Errors))
		for _, e := range result.Errors {
			msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field, e.Message))
		}
		return fmt.Errorf("invalid input: %s", strings.Join(msgs, "; "))
	}
	return nil
}
