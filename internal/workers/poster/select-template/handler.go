// internal/workers/poster/select-template/handler.go
package selecttemplate

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"poster-workers/internal/common/logger"
	"poster-workers/internal/common/metrics"
	"poster-workers/internal/common/observability"
	"poster-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/lib/pq"
)

const (
	TaskType = "select-template"
)

var (
	ErrTemplateNotFound    = errors.New("TEMPLATE_NOT_FOUND")
	ErrTemplateQueryFailed = errors.New("QUERY_EXECUTION_FAILED")
)

type Handler struct {
	config *Config
	db     *sql.DB
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
		if errors.Is(err, ErrTemplateNotFound) {
			errorCode = "TEMPLATE_NOT_FOUND"
		} else if errors.Is(err, ErrTemplateQueryFailed) {
			errorCode = "QUERY_EXECUTION_FAILED"
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
	var (
		row *sql.Row
	)

	const columns = `SELECT id, title, image_url, occasions,
		supports_logo, supports_products, supports_services, supports_offers
		FROM poster_templates`

	switch {
	case input.TemplateID != "":
		row = h.db.QueryRowContext(ctx, columns+` WHERE id = $1`, input.TemplateID)
	case input.Occasion != "":
		// Newest template for the occasion when no explicit id was chosen.
		row = h.db.QueryRowContext(ctx,
			columns+` WHERE $1 = ANY(occasions) ORDER BY created_at DESC LIMIT 1`,
			input.Occasion)
	default:
		return nil, fmt.Errorf("%w: neither templateId nor occasion given", ErrTemplateNotFound)
	}

	var tmpl models.Template
	var occasions pq.StringArray
	err := row.Scan(
		&tmpl.ID, &tmpl.Title, &tmpl.ImageURL, &occasions,
		&tmpl.SupportsLogo, &tmpl.SupportsProducts, &tmpl.SupportsServices, &tmpl.SupportsOffers,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s%s", ErrTemplateNotFound, input.TemplateID, input.Occasion)
		}
		return nil, fmt.Errorf("%w: %v", ErrTemplateQueryFailed, err)
	}
	tmpl.Occasions = occasions

	return &Output{Template: tmpl}, nil
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

// Execute runs the template lookup directly; used by tests.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
