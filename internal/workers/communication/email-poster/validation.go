// internal/workers/communication/email-poster/validation.go
package emailposter

import (
	"fmt"
	"strings"

	"poster-workers/internal/common/validation"
)

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"vendorId", "recipients", "artifactPath"},
		Properties: map[string]validation.Property{
			"vendorId": {
				Type:      "string",
				MinLength: validation.IntPtr(1),
			},
			"templateId": {
				Type: "string",
			},
			"recipients": {
				Type: "array",
				Items: &validation.Property{
					Type:      "string",
					MinLength: validation.IntPtr(5),
					MaxLength: validation.IntPtr(255),
				},
			},
			"subject": {
				Type:      "string",
				MaxLength: validation.IntPtr(500),
			},
			"caption": {
				Type:      "string",
				MaxLength: validation.IntPtr(10000),
			},
			"artifactPath": {
				Type:      "string",
				MinLength: validation.IntPtr(1),
			},
			"filename": {
				Type:      "string",
				MaxLength: validation.IntPtr(255),
			},
		},
		AdditionalProperties: true,
	}
}

// isValidEmail does rough shape validation; SES enforces the rest.
func isValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	if len(parts[0]) == 0 || len(parts[1]) == 0 {
		return false
	}
	return strings.Contains(parts[1], ".")
}

func validateRecipients(recipients []string) error {
	if len(recipients) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}
	for _, addr := range recipients {
		if !isValidEmail(addr) {
			return fmt.Errorf("invalid recipient email address: %s", addr)
		}
	}
	return nil
}
