package share

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	stderrors "poster-workers/internal/common/errors"
	"poster-workers/internal/common/logger"
	"poster-workers/internal/common/metrics"
	"poster-workers/internal/models"

	"github.com/google/uuid"
)

// ShareResult is the outcome of a native share-sheet dispatch.
type ShareResult string

const (
	ResultShared      ShareResult = "shared"
	ResultCancelled   ShareResult = "cancelled"
	ResultUnsupported ShareResult = "unsupported"
)

// Delivery methods reported in outcomes and metrics.
const (
	MethodNative = "native"
	MethodURL    = "url"
	MethodManual = "manual"
)

// ManualShareInstruction is surfaced for platforms without a web share target.
const ManualShareInstruction = "Save the poster to your device, then share it from the app directly."

// NamedFile is a composited poster artifact with its download name.
type NamedFile struct {
	Name     string
	MIMEType string
	Data     []byte
}

// ShareSheet models a runtime capable of attaching a binary file to a native
// share action. The server default has no such capability; embedders and
// tests plug their own in.
type ShareSheet interface {
	CanShare(mimeType string) bool
	Share(ctx context.Context, file NamedFile, text string) (ShareResult, error)
}

// UsageRecorder accepts best-effort analytics events. Implementations must
// return immediately; delivery failures are theirs to swallow.
type UsageRecorder interface {
	Record(record models.UsageRecord)
}

// Request carries one share action.
type Request struct {
	Platform      Platform
	Image         *NamedFile
	Caption       string
	CanonicalLink string
	VendorID      string
	TemplateID    string
}

// Outcome reports what the publisher did. Exactly one of URL / Instruction is
// set for the fallback methods.
type Outcome struct {
	Result      ShareResult `json:"result"`
	Method      string      `json:"method"`
	URL         string      `json:"url,omitempty"`
	Instruction string      `json:"instruction,omitempty"`
}

// Publisher executes share and download actions. Share and download are
// independent, repeatable, and never deduplicated.
type Publisher struct {
	sheet    ShareSheet
	targets  *Targets
	recorder UsageRecorder
	logger   logger.Logger
}

func NewPublisher(sheet ShareSheet, targets *Targets, recorder UsageRecorder, log logger.Logger) *Publisher {
	return &Publisher{
		sheet:    sheet,
		targets:  targets,
		recorder: recorder,
		logger:   log.WithFields(map[string]interface{}{"component": "publisher"}),
	}
}

// Share dispatches via the native share sheet when the runtime can attach the
// image, falling back to the platform URL template (text only) otherwise.
func (p *Publisher) Share(ctx context.Context, req Request) (*Outcome, error) {
	if p.sheet != nil && req.Image != nil && p.sheet.CanShare(req.Image.MIMEType) {
		result, err := p.sheet.Share(ctx, *req.Image, req.Caption)
		if err != nil {
			return nil, stderrors.NewShareDispatchFailedError(string(req.Platform), err)
		}
		switch result {
		case ResultShared:
			p.recordShare(req, MethodNative)
			return &Outcome{Result: ResultShared, Method: MethodNative}, nil
		case ResultCancelled:
			return &Outcome{Result: ResultCancelled, Method: MethodNative}, nil
		}
		// ResultUnsupported falls through to the URL path.
	}

	url, err := p.targets.BuildURL(req.Platform, req.Caption, req.CanonicalLink)
	switch {
	case errors.Is(err, ErrManualShareRequired):
		p.recordShare(req, MethodManual)
		return &Outcome{Result: ResultShared, Method: MethodManual, Instruction: ManualShareInstruction}, nil
	case errors.Is(err, ErrUnsupportedPlatform):
		return nil, stderrors.NewUnsupportedPlatformError(string(req.Platform))
	case err != nil:
		return nil, stderrors.NewShareDispatchFailedError(string(req.Platform), err)
	}

	p.recordShare(req, MethodURL)
	return &Outcome{Result: ResultShared, Method: MethodURL, URL: url}, nil
}

// Download writes the artifact into dir atomically: the file either appears
// complete under its suggested name or not at all.
func (p *Publisher) Download(image NamedFile, dir, vendorID, templateID string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", stderrors.NewPosterWriteFailedError(dir, err)
	}

	finalPath := filepath.Join(dir, image.Name)

	tmp, err := os.CreateTemp(dir, ".poster-*")
	if err != nil {
		return "", stderrors.NewPosterWriteFailedError(finalPath, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(image.Data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", stderrors.NewPosterWriteFailedError(finalPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", stderrors.NewPosterWriteFailedError(finalPath, err)
	}
	if err := os.Rename(tmpName, finalPath); err != nil {
		os.Remove(tmpName)
		return "", stderrors.NewPosterWriteFailedError(finalPath, err)
	}

	p.record(models.UsageRecord{
		ID:         uuid.New().String(),
		Event:      models.UsageEventDownload,
		VendorID:   vendorID,
		TemplateID: templateID,
		OccurredAt: time.Now().UTC(),
	})

	return finalPath, nil
}

func (p *Publisher) recordShare(req Request, method string) {
	metrics.SharesDispatched.WithLabelValues(string(req.Platform), method).Inc()
	p.record(models.UsageRecord{
		ID:         uuid.New().String(),
		Event:      models.UsageEventShare,
		VendorID:   req.VendorID,
		TemplateID: req.TemplateID,
		Platform:   string(req.Platform),
		OccurredAt: time.Now().UTC(),
	})
}

// record hands the event to the fire-and-forget recorder. A nil recorder
// means analytics is disabled; the share itself is unaffected either way.
func (p *Publisher) record(rec models.UsageRecord) {
	if p.recorder == nil {
		return
	}
	p.recorder.Record(rec)
	p.logger.Debug("usage event queued", map[string]interface{}{
		"event":    rec.Event,
		"platform": rec.Platform,
		"id":       rec.ID,
	})
}
