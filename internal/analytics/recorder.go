// Package analytics delivers best-effort usage events (customize, share,
// download) to the analytics backends. Delivery is fire-and-forget: enqueueing
// never blocks the share/download path and failures are logged only.
package analytics

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"poster-workers/internal/common/database"
	stderrors "poster-workers/internal/common/errors"
	"poster-workers/internal/common/logger"
	"poster-workers/internal/common/metrics"
	"poster-workers/internal/models"
)

const deliverTimeout = 5 * time.Second

// Sink delivers a single usage record to one backend.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, record models.UsageRecord) error
}

// Recorder drains a bounded queue into its sinks from a single goroutine.
// The queue channel is never closed, so Record stays safe during and after
// shutdown; Close signals through done and drains what is already queued.
type Recorder struct {
	ch     chan models.UsageRecord
	done   chan struct{}
	sinks  []Sink
	logger logger.Logger

	wg        sync.WaitGroup
	closeOnce sync.Once
}

func NewRecorder(queueSize int, log logger.Logger, sinks ...Sink) *Recorder {
	if queueSize <= 0 {
		queueSize = 256
	}
	r := &Recorder{
		ch:     make(chan models.UsageRecord, queueSize),
		done:   make(chan struct{}),
		sinks:  sinks,
		logger: log.WithFields(map[string]interface{}{"component": "usage-recorder"}),
	}
	r.wg.Add(1)
	go r.drain()
	return r
}

// Record enqueues without blocking. A full queue drops the event; the
// user-visible action already succeeded and must stay that way. Events
// recorded after Close are dropped the same way.
func (r *Recorder) Record(record models.UsageRecord) {
	select {
	case <-r.done:
		r.drop(record, "recorder closed")
		return
	default:
	}
	select {
	case r.ch <- record:
	default:
		r.drop(record, "queue full")
	}
}

// Close stops accepting events and waits for the queue to drain.
func (r *Recorder) Close() {
	r.closeOnce.Do(func() {
		close(r.done)
	})
	r.wg.Wait()
}

func (r *Recorder) drop(record models.UsageRecord, reason string) {
	metrics.AnalyticsEventsDropped.Inc()
	r.logger.Warn("usage event dropped", map[string]interface{}{
		"reason":     reason,
		"event":      record.Event,
		"templateId": record.TemplateID,
	})
}

func (r *Recorder) drain() {
	defer r.wg.Done()
	for {
		select {
		case record := <-r.ch:
			r.deliver(record)
		case <-r.done:
			for {
				select {
				case record := <-r.ch:
					r.deliver(record)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) deliver(record models.UsageRecord) {
	for _, sink := range r.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
		if err := sink.Deliver(ctx, record); err != nil {
			stdErr := stderrors.NewAnalyticsRecordingFailedError(err)
			r.logger.Warn("usage event delivery failed", map[string]interface{}{
				"sink":  sink.Name(),
				"event": record.Event,
				"error": stdErr.Details,
			})
		}
		cancel()
	}
}

// --- Sinks ---

// ESSink indexes usage records into the analytics index.
type ESSink struct {
	es    *database.ElasticsearchClient
	index string
}

func NewESSink(es *database.ElasticsearchClient, index string) *ESSink {
	return &ESSink{es: es, index: index}
}

func (s *ESSink) Name() string { return "elasticsearch" }

func (s *ESSink) Deliver(ctx context.Context, record models.UsageRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.es.IndexDocument(ctx, s.index, record.ID, body)
}

// SNSPublisher is the slice of the SNS client the sink needs; satisfied by
// internal/common/aws.SNSClient and by mocks.
type SNSPublisher interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

// SNSSink fans usage records out to downstream consumers (CRM sync,
// engagement scoring) via an SNS topic.
type SNSSink struct {
	client   SNSPublisher
	topicARN string
}

func NewSNSSink(client SNSPublisher, topicARN string) *SNSSink {
	return &SNSSink{client: client, topicARN: topicARN}
}

func (s *SNSSink) Name() string { return "sns" }

func (s *SNSSink) Deliver(ctx context.Context, record models.UsageRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return err
	}
	_, err = s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: awssdk.String(s.topicARN),
		Message:  awssdk.String(string(body)),
	})
	return err
}
