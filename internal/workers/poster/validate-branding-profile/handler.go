// internal/workers/poster/validate-branding-profile/handler.go
package validatebrandingprofile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"poster-workers/internal/branding"
	"poster-workers/internal/common/logger"
	"poster-workers/internal/common/metrics"
	"poster-workers/internal/common/observability"
	"poster-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "validate-branding-profile"
)

var (
	ErrProfileIncomplete  = errors.New("PROFILE_INCOMPLETE")
	ErrProfileStoreFailed = errors.New("PROFILE_STORE_FAILED")
)

// Handler gates the customize flow: a vendor without a usable branding
// profile never reaches the compositor.
type Handler struct {
	config   *Config
	profiles branding.ProfileRepository
	logger   logger.Logger
}

func NewHandler(config *Config, profiles branding.ProfileRepository, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		profiles: profiles,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
		span.RecordError(err)
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "UNKNOWN_ERROR"
		if errors.Is(err, ErrProfileIncomplete) {
			errorCode = "PROFILE_INCOMPLETE"
		} else if errors.Is(err, ErrProfileStoreFailed) {
			errorCode = "PROFILE_STORE_FAILED"
		}
		span.RecordError(err)
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.VendorID == "" {
		return nil, fmt.Errorf("%w: vendorId is required", ErrProfileIncomplete)
	}

	profile, err := h.profiles.Get(ctx, input.VendorID)
	if err != nil {
		if errors.Is(err, branding.ErrProfileNotFound) {
			return nil, fmt.Errorf("%w: vendor %s has no branding profile", ErrProfileIncomplete, input.VendorID)
		}
		return nil, fmt.Errorf("%w: %v", ErrProfileStoreFailed, err)
	}

	if !profile.Usable() {
		return nil, fmt.Errorf("%w: business name is empty", ErrProfileIncomplete)
	}

	layout := profile.DefaultLayout
	if !layout.Valid() {
		layout = models.LayoutClassic
	}

	return &Output{
		Usable:        true,
		BusinessName:  profile.BusinessName,
		DefaultLayout: layout,
	}, nil
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

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// Execute runs the gating logic directly; used by tests and the preview tool.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
