// internal/common/errors/handler_test.go
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"poster-workers/internal/common/logger"
	"poster-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// fakeJobClient records which engine command the handler dispatched.
type fakeJobClient struct {
	completeCount int
	completedKey  int64

	failCount     int
	failedKey     int64
	failedRetries int32
	failedMessage string

	throwCount    int
	thrownKey     int64
	thrownCode    string
	thrownMessage string
}

func (f *fakeJobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return &fakeCompleteCommand{client: f}
}

func (f *fakeJobClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	return &fakeFailCommand{client: f}
}

func (f *fakeJobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return &fakeThrowCommand{client: f}
}

type fakeCompleteCommand struct {
	client *fakeJobClient
	jobKey int64
}

func (c *fakeCompleteCommand) JobKey(key int64) commands.CompleteJobCommandStep2 {
	c.jobKey = key
	return c
}

func (c *fakeCompleteCommand) VariablesFromString(string) (commands.DispatchCompleteJobCommand, error) {
	return c, nil
}

func (c *fakeCompleteCommand) VariablesFromStringer(fmt.Stringer) (commands.DispatchCompleteJobCommand, error) {
	return c, nil
}

func (c *fakeCompleteCommand) VariablesFromMap(map[string]interface{}) (commands.DispatchCompleteJobCommand, error) {
	return c, nil
}

func (c *fakeCompleteCommand) VariablesFromObject(interface{}) (commands.DispatchCompleteJobCommand, error) {
	return c, nil
}

func (c *fakeCompleteCommand) VariablesFromObjectIgnoreOmitempty(interface{}) (commands.DispatchCompleteJobCommand, error) {
	return c, nil
}

func (c *fakeCompleteCommand) Send(context.Context) (*pb.CompleteJobResponse, error) {
	c.client.completeCount++
	c.client.completedKey = c.jobKey
	return &pb.CompleteJobResponse{}, nil
}

type fakeFailCommand struct {
	client  *fakeJobClient
	jobKey  int64
	retries int32
	message string
}

func (c *fakeFailCommand) JobKey(key int64) commands.FailJobCommandStep2 {
	c.jobKey = key
	return c
}

func (c *fakeFailCommand) Retries(retries int32) commands.FailJobCommandStep3 {
	c.retries = retries
	return c
}

func (c *fakeFailCommand) RetryBackoff(time.Duration) commands.FailJobCommandStep3 {
	return c
}

func (c *fakeFailCommand) ErrorMessage(message string) commands.FailJobCommandStep3 {
	c.message = message
	return c
}

func (c *fakeFailCommand) VariablesFromString(string) (commands.DispatchFailJobCommand, error) {
	return c, nil
}

func (c *fakeFailCommand) VariablesFromStringer(fmt.Stringer) (commands.DispatchFailJobCommand, error) {
	return c, nil
}

func (c *fakeFailCommand) VariablesFromMap(map[string]interface{}) (commands.DispatchFailJobCommand, error) {
	return c, nil
}

func (c *fakeFailCommand) VariablesFromObject(interface{}) (commands.DispatchFailJobCommand, error) {
	return c, nil
}

func (c *fakeFailCommand) VariablesFromObjectIgnoreOmitempty(interface{}) (commands.DispatchFailJobCommand, error) {
	return c, nil
}

func (c *fakeFailCommand) Send(context.Context) (*pb.FailJobResponse, error) {
	c.client.failCount++
	c.client.failedKey = c.jobKey
	c.client.failedRetries = c.retries
	c.client.failedMessage = c.message
	return &pb.FailJobResponse{}, nil
}

type fakeThrowCommand struct {
	client  *fakeJobClient
	jobKey  int64
	code    string
	message string
}

func (c *fakeThrowCommand) JobKey(key int64) commands.ThrowErrorCommandStep2 {
	c.jobKey = key
	return c
}

func (c *fakeThrowCommand) ErrorCode(code string) commands.DispatchThrowErrorCommand {
	c.code = code
	return c
}

func (c *fakeThrowCommand) ErrorMessage(message string) commands.DispatchThrowErrorCommand {
	c.message = message
	return c
}

func (c *fakeThrowCommand) VariablesFromString(string) (commands.DispatchThrowErrorCommand, error) {
	return c, nil
}

func (c *fakeThrowCommand) VariablesFromStringer(fmt.Stringer) (commands.DispatchThrowErrorCommand, error) {
	return c, nil
}

func (c *fakeThrowCommand) VariablesFromMap(map[string]interface{}) (commands.DispatchThrowErrorCommand, error) {
	return c, nil
}

func (c *fakeThrowCommand) VariablesFromObject(interface{}) (commands.DispatchThrowErrorCommand, error) {
	return c, nil
}

func (c *fakeThrowCommand) VariablesFromObjectIgnoreOmitempty(interface{}) (commands.DispatchThrowErrorCommand, error) {
	return c, nil
}

func (c *fakeThrowCommand) Send(context.Context) (*pb.ThrowErrorResponse, error) {
	c.client.throwCount++
	c.client.thrownKey = c.jobKey
	c.client.thrownCode = c.code
	c.client.thrownMessage = c.message
	return &pb.ThrowErrorResponse{}, nil
}

func testJob(taskType string, retries int32) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:     1001,
		Type:    taskType,
		Retries: retries,
	}}
}

func failedMetricValue(taskType, code string) float64 {
	return testutil.ToFloat64(metrics.WorkerJobsFailed.WithLabelValues(taskType, code))
}

func TestHandleJobError_RetryableFailsJobWithDecrementedRetries(t *testing.T) {
	client := &fakeJobClient{}
	handler := NewErrorHandler(logger.NewTestLogger(t))
	job := testJob("compose-poster", 3)

	before := failedMetricValue("compose-poster", string(ErrCodeImageLoadFailed))
	handler.HandleJobError(context.Background(), client, job,
		NewImageLoadError("https://cdn.example.com/t.png", stderrors.New("timeout")))

	require.Equal(t, 1, client.failCount)
	assert.Equal(t, int64(1001), client.failedKey)
	assert.Equal(t, int32(2), client.failedRetries)
	assert.Equal(t, "Failed to load template image", client.failedMessage)
	assert.Equal(t, 0, client.throwCount)
	assert.Equal(t, before+1, failedMetricValue("compose-poster", string(ErrCodeImageLoadFailed)))
}

func TestHandleJobError_NonRetryableThrowsBPMNError(t *testing.T) {
	client := &fakeJobClient{}
	handler := NewErrorHandler(logger.NewTestLogger(t))
	job := testJob("validate-branding-profile", 3)

	before := failedMetricValue("validate-branding-profile", string(ErrCodeProfileIncomplete))
	handler.HandleJobError(context.Background(), client, job, NewProfileIncompleteError("vendor-1"))

	require.Equal(t, 1, client.throwCount)
	assert.Equal(t, int64(1001), client.thrownKey)
	assert.Equal(t, string(ErrCodeProfileIncomplete), client.thrownCode)
	assert.Equal(t, 0, client.failCount)
	assert.Equal(t, before+1, failedMetricValue("validate-branding-profile", string(ErrCodeProfileIncomplete)))
}

func TestHandleJobError_ExhaustedRetriesThrowsBPMNError(t *testing.T) {
	client := &fakeJobClient{}
	handler := NewErrorHandler(logger.NewTestLogger(t))
	job := testJob("compose-poster", 0)

	handler.HandleJobError(context.Background(), client, job,
		NewImageLoadError("https://cdn.example.com/t.png", stderrors.New("timeout")))

	assert.Equal(t, 0, client.failCount)
	require.Equal(t, 1, client.throwCount)
	assert.Equal(t, string(ErrCodeImageLoadFailed), client.thrownCode)
}

func TestHandleJobError_PlainErrorNormalizedToInternal(t *testing.T) {
	client := &fakeJobClient{}
	handler := NewErrorHandler(logger.NewTestLogger(t))
	job := testJob("build-caption", 3)

	handler.HandleJobError(context.Background(), client, job, stderrors.New("boom"))

	require.Equal(t, 1, client.throwCount)
	assert.Equal(t, "INTERNAL_ERROR", client.thrownCode)
	assert.Equal(t, "Unexpected error", client.thrownMessage)
}

func TestHandleJobError_RecordsErrorOnContextSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(trace.WithSyncer(exporter))
	ctx, span := provider.Tracer("test").Start(context.Background(), "publish-share")

	client := &fakeJobClient{}
	handler := NewErrorHandler(logger.NewTestLogger(t))
	handler.HandleJobError(ctx, client, testJob("publish-share", 3), NewUnsupportedPlatformError("myspace"))
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "exception", spans[0].Events[0].Name)
	assert.Equal(t, string(ErrCodeUnsupportedPlatform), spans[0].Status.Description)
}
