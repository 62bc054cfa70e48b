// internal/workers/poster/record-usage/handler.go
package recordusage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"poster-workers/internal/common/logger"
	"poster-workers/internal/common/metrics"
	"poster-workers/internal/common/observability"
	"poster-workers/internal/models"
	"poster-workers/internal/share"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "record-usage"
)

var knownEvents = map[string]bool{
	models.UsageEventCustomize: true,
	models.UsageEventShare:     true,
	models.UsageEventDownload:  true,
	models.UsageEventEmail:     true,
}

// Handler enqueues a usage record onto the fire-and-forget analytics queue.
// Delivery is best effort; the job completes as soon as the event is queued.
type Handler struct {
	config   *Config
	recorder share.UsageRecorder
	logger   logger.Logger
}

func NewHandler(config *Config, recorder share.UsageRecorder, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		recorder: recorder,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	_, span := observability.StartJobSpan(context.Background(), TaskType, job.Key)
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

	output, err := h.execute(&input)
	if err != nil {
		span.RecordError(err)
		h.failJob(client, job, "INVALID_USAGE_EVENT", err.Error())
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

func (h *Handler) execute(input *Input) (*Output, error) {
	if input.VendorID == "" {
		return nil, fmt.Errorf("vendorId is required")
	}
	if !knownEvents[input.Event] {
		return nil, fmt.Errorf("unknown usage event %q", input.Event)
	}

	record := models.UsageRecord{
		ID:         uuid.New().String(),
		Event:      input.Event,
		VendorID:   input.VendorID,
		TemplateID: input.TemplateID,
		Platform:   input.Platform,
		Selection:  input.Selection,
		OccurredAt: time.Now().UTC(),
	}
	h.recorder.Record(record)

	return &Output{UsageID: record.ID, Queued: true}, nil
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

// Execute enqueues directly; used by tests.
func (h *Handler) Execute(input *Input) (*Output, error) {
	return h.execute(input)
}
