package analytics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"poster-workers/internal/common/logger"
	"poster-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySink struct {
	mu       sync.Mutex
	records  []models.UsageRecord
	err      error
	deliverC chan struct{} // when set, Deliver blocks until a receive
}

func (m *memorySink) Name() string { return "memory" }

func (m *memorySink) Deliver(ctx context.Context, record models.UsageRecord) error {
	if m.deliverC != nil {
		<-m.deliverC
	}
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	return nil
}

func (m *memorySink) delivered() []models.UsageRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.UsageRecord, len(m.records))
	copy(out, m.records)
	return out
}

func sampleRecord(id string) models.UsageRecord {
	return models.UsageRecord{
		ID:         id,
		Event:      models.UsageEventShare,
		VendorID:   "vendor-1",
		TemplateID: "tpl-1",
		Platform:   "whatsapp",
		OccurredAt: time.Now().UTC(),
	}
}

func TestRecorder_DeliversToAllSinks(t *testing.T) {
	first := &memorySink{}
	second := &memorySink{}
	r := NewRecorder(8, logger.NewTestLogger(t), first, second)

	r.Record(sampleRecord("rec-1"))
	r.Record(sampleRecord("rec-2"))
	r.Close()

	require.Len(t, first.delivered(), 2)
	require.Len(t, second.delivered(), 2)
	assert.Equal(t, "rec-1", first.delivered()[0].ID)
	assert.Equal(t, "rec-2", first.delivered()[1].ID)
}

func TestRecorder_SinkFailureIsSwallowed(t *testing.T) {
	failing := &memorySink{err: errors.New("index unavailable")}
	healthy := &memorySink{}
	r := NewRecorder(8, logger.NewTestLogger(t), failing, healthy)

	// Record never returns an error; a broken sink must not stop the others.
	r.Record(sampleRecord("rec-1"))
	r.Close()

	assert.Len(t, healthy.delivered(), 1)
}

func TestRecorder_FullQueueDropsWithoutBlocking(t *testing.T) {
	blocked := &memorySink{deliverC: make(chan struct{})}
	r := NewRecorder(1, logger.NewTestLogger(t), blocked)

	// First record is picked up by the drain goroutine and parks in Deliver;
	// the second fills the queue; the third must be dropped immediately.
	r.Record(sampleRecord("rec-1"))
	time.Sleep(20 * time.Millisecond)
	r.Record(sampleRecord("rec-2"))

	done := make(chan struct{})
	go func() {
		r.Record(sampleRecord("rec-3"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a full queue")
	}

	close(blocked.deliverC)
	r.Close()
	assert.LessOrEqual(t, len(blocked.delivered()), 2)
}

func TestRecorder_CloseDrainsPendingRecords(t *testing.T) {
	sink := &memorySink{}
	r := NewRecorder(64, logger.NewTestLogger(t), sink)

	for i := 0; i < 20; i++ {
		r.Record(sampleRecord("rec"))
	}
	r.Close()

	assert.Len(t, sink.delivered(), 20)
}

func TestRecorder_CloseIsIdempotent(t *testing.T) {
	r := NewRecorder(4, logger.NewTestLogger(t), &memorySink{})
	r.Close()
	r.Close()
}

func TestRecorder_RecordAfterCloseDropsWithoutPanic(t *testing.T) {
	sink := &memorySink{}
	r := NewRecorder(4, logger.NewTestLogger(t), sink)

	r.Record(sampleRecord("rec-1"))
	r.Close()

	require.NotPanics(t, func() {
		r.Record(sampleRecord("late"))
	})
	assert.Len(t, sink.delivered(), 1)
}
