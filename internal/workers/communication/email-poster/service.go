// internal/workers/communication/email-poster/service.go
package emailposter

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"strings"
	"time"

	stderrors "poster-workers/internal/common/errors"
	"poster-workers/internal/common/logger"
	"poster-workers/internal/models"
	"poster-workers/internal/share"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/google/uuid"
)

const defaultMaxRecipients = 50

// SESService is the slice of the SES client the service needs; satisfied by
// internal/common/aws.SESClient and by mocks.
type SESService interface {
	SendRawEmail(ctx context.Context, input *ses.SendRawEmailInput) (*ses.SendRawEmailOutput, error)
}

// Service sends the composited poster to a vendor's customer list as a raw
// MIME message with the JPEG attached. Each recipient gets an individual
// message; one bad address fails the batch before anything is sent.
type Service struct {
	config   *Config
	ses      SESService
	recorder share.UsageRecorder
	logger   logger.Logger
}

func NewService(config *Config, sesClient SESService, recorder share.UsageRecorder, log logger.Logger) *Service {
	return &Service{
		config:   config,
		ses:      sesClient,
		recorder: recorder,
		logger:   log,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := validateRecipients(input.Recipients); err != nil {
		return nil, &stderrors.StandardError{
			Code:      "VALIDATION_FAILED",
			Message:   "Recipient validation failed",
			Details:   err.Error(),
			Retryable: false,
			Timestamp: time.Now().UTC(),
		}
	}

	maxRecipients := s.config.MaxRecipients
	if maxRecipients <= 0 {
		maxRecipients = defaultMaxRecipients
	}
	if len(input.Recipients) > maxRecipients {
		return nil, &stderrors.StandardError{
			Code:      "VALIDATION_FAILED",
			Message:   fmt.Sprintf("Recipient list exceeds the limit of %d", maxRecipients),
			Retryable: false,
			Timestamp: time.Now().UTC(),
		}
	}

	poster, err := os.ReadFile(input.ArtifactPath)
	if err != nil {
		return nil, stderrors.NewImageLoadError(input.ArtifactPath, err)
	}

	subject := input.Subject
	if subject == "" {
		subject = "A poster for you"
	}
	filename := input.Filename
	if filename == "" {
		filename = "poster.jpg"
	}

	messageIDs := make([]string, 0, len(input.Recipients))
	for _, recipient := range input.Recipients {
		raw := buildRawMessage(s.config.SenderEmail, recipient, subject, input.Caption, filename, poster)

		out, err := s.ses.SendRawEmail(ctx, &ses.SendRawEmailInput{
			Source:       awssdk.String(s.config.SenderEmail),
			Destinations: []string{recipient},
			RawMessage:   &sestypes.RawMessage{Data: raw},
		})
		if err != nil {
			return nil, &stderrors.StandardError{
				Code:      stderrors.ErrCodeNotificationSendFailed,
				Message:   fmt.Sprintf("Failed to send poster email to %s", recipient),
				Details:   err.Error(),
				Retryable: true,
				Timestamp: time.Now().UTC(),
				Metadata: map[string]interface{}{
					"sent":  len(messageIDs),
					"total": len(input.Recipients),
				},
			}
		}
		messageIDs = append(messageIDs, awssdk.ToString(out.MessageId))
	}

	if s.recorder != nil {
		s.recorder.Record(models.UsageRecord{
			ID:         uuid.New().String(),
			Event:      models.UsageEventEmail,
			VendorID:   input.VendorID,
			TemplateID: input.TemplateID,
			OccurredAt: time.Now().UTC(),
		})
	}

	s.logger.Info("poster emails sent", map[string]interface{}{
		"vendorId":   input.VendorID,
		"templateId": input.TemplateID,
		"recipients": len(messageIDs),
	})

	return &Output{
		MessageIDs: messageIDs,
		SentCount:  len(messageIDs),
		Status:     "sent",
		SentAt:     time.Now().UTC(),
	}, nil
}

// buildRawMessage assembles a multipart/mixed MIME message with the caption as
// the text body and the poster JPEG attached.
func buildRawMessage(from, to, subject, body, filename string, attachment []byte) []byte {
	boundary := "poster-" + uuid.New().String()

	var b strings.Builder
	b.WriteString(fmt.Sprintf("From: %s\r\n", from))
	b.WriteString(fmt.Sprintf("To: %s\r\n", to))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject)))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=%q\r\n", boundary))
	b.WriteString("\r\n")

	b.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")

	b.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	b.WriteString("Content-Type: image/jpeg\r\n")
	b.WriteString("Content-Transfer-Encoding: base64\r\n")
	b.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=%q\r\n", filename))
	b.WriteString("\r\n")
	b.WriteString(wrapBase64(base64.StdEncoding.EncodeToString(attachment), 76))
	b.WriteString("\r\n")
	b.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	return []byte(b.String())
}

func wrapBase64(s string, width int) string {
	var b strings.Builder
	for len(s) > width {
		b.WriteString(s[:width])
		b.WriteString("\r\n")
		s = s[width:]
	}
	b.WriteString(s)
	return b.String()
}
