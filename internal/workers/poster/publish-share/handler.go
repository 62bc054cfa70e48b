// internal/workers/poster/publish-share/handler.go
package publishshare

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	stderrors "poster-workers/internal/common/errors"
	"poster-workers/internal/common/logger"
	"poster-workers/internal/common/metrics"
	"poster-workers/internal/common/observability"
	"poster-workers/internal/poster"
	"poster-workers/internal/share"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "publish-share"
)

const defaultQRSize = 256

// Handler executes share and download actions against the publisher. Both
// actions are repeatable; nothing is deduplicated across jobs.
type Handler struct {
	config       *Config
	publisher    *share.Publisher
	errorHandler *stderrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, publisher *share.Publisher, log logger.Logger) *Handler {
	return &Handler{
		config:       config,
		publisher:    publisher,
		errorHandler: stderrors.NewErrorHandler(log),
		logger:       log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	ctx, span := observability.StartJobSpan(context.Background(), TaskType, job.Key)
	defer span.End()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, fmt.Errorf("parse input: %w", err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	h.logger.Info("publish action completed", map[string]interface{}{
		"jobKey":   job.Key,
		"action":   input.Action,
		"platform": input.Platform,
		"result":   string(output.Result),
		"method":   output.Method,
	})

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	image, err := h.loadArtifact(input)
	if err != nil {
		return nil, err
	}

	switch input.Action {
	case ActionDownload:
		path, err := h.publisher.Download(*image, filepath.Join(h.config.OutputDir, "downloads"), input.VendorID, input.TemplateID)
		if err != nil {
			return nil, err
		}
		return &Output{DownloadPath: path}, nil

	case ActionShare:
		outcome, err := h.publisher.Share(ctx, share.Request{
			Platform:      share.Platform(input.Platform),
			Image:         image,
			Caption:       input.Caption,
			CanonicalLink: input.CanonicalLink,
			VendorID:      input.VendorID,
			TemplateID:    input.TemplateID,
		})
		if err != nil {
			return nil, err
		}

		output := &Output{
			Result:      outcome.Result,
			Method:      outcome.Method,
			ShareURL:    outcome.URL,
			Instruction: outcome.Instruction,
		}
		if outcome.Method == share.MethodManual && input.CanonicalLink != "" {
			// Manual save-then-share gets a QR for the canonical link so the
			// vendor can reopen the poster on the phone that has the app.
			qrPath, err := h.writeQR(input)
			if err != nil {
				h.logger.Warn("qr generation failed", map[string]interface{}{
					"vendorId": input.VendorID,
					"error":    err.Error(),
				})
			} else {
				output.QRPath = qrPath
			}
		}
		return output, nil

	default:
		return nil, &stderrors.StandardError{
			Code:    stderrors.ErrCodeShareDispatchFailed,
			Message: fmt.Sprintf("Unknown publish action %q", input.Action),
		}
	}
}

func (h *Handler) loadArtifact(input *Input) (*share.NamedFile, error) {
	data, err := os.ReadFile(input.ArtifactPath)
	if err != nil {
		return nil, stderrors.NewImageLoadError(input.ArtifactPath, err)
	}
	name := input.Filename
	if name == "" {
		name = filepath.Base(input.ArtifactPath)
	}
	return &share.NamedFile{
		Name:     name,
		MIMEType: "image/jpeg",
		Data:     data,
	}, nil
}

func (h *Handler) writeQR(input *Input) (string, error) {
	size := h.config.QRSize
	if size <= 0 {
		size = defaultQRSize
	}
	png, err := poster.GenerateShareQRPNG(input.CanonicalLink, size)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(h.config.OutputDir, "qr")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	base := strings.TrimSuffix(filepath.Base(input.Filename), filepath.Ext(input.Filename))
	if base == "" {
		base = input.TemplateID
	}
	path := filepath.Join(dir, base+"_qr.png")
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// Execute runs the publish action directly; used by tests and the preview tool.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
