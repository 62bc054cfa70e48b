// internal/workers/poster/compose-poster/service.go
package composeposter

import (
	"bytes"
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"

	"poster-workers/internal/branding"
	stderrors "poster-workers/internal/common/errors"
	"poster-workers/internal/common/httpclient"
	"poster-workers/internal/common/logger"
	"poster-workers/internal/common/metrics"
	"poster-workers/internal/models"
	"poster-workers/internal/poster"

	"github.com/google/uuid"
)

// Service runs the one-shot composite: fetch template image, resolve the
// branding overlay, rasterize, and write the artifact. Nothing is cached;
// each invocation re-fetches and re-draws.
type Service struct {
	config     *Config
	compositor *poster.Compositor
	fetcher    *httpclient.Client
	profiles   branding.ProfileRepository
	logger     logger.Logger
}

func NewService(config *Config, compositor *poster.Compositor, fetcher *httpclient.Client,
	profiles branding.ProfileRepository, log logger.Logger) *Service {
	return &Service{
		config:     config,
		compositor: compositor,
		fetcher:    fetcher,
		profiles:   profiles,
		logger:     log,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	profile, err := s.profiles.Get(ctx, input.VendorID)
	if err != nil {
		if errors.Is(err, branding.ErrProfileNotFound) {
			return nil, stderrors.NewProfileIncompleteError(input.VendorID)
		}
		return nil, stderrors.NewProfileStoreFailedError(err)
	}
	if !profile.Usable() {
		return nil, stderrors.NewProfileIncompleteError(input.VendorID)
	}

	templateImg, err := poster.FetchImage(ctx, s.fetcher, input.Template.ImageURL)
	if err != nil {
		return nil, stderrors.NewImageLoadError(input.Template.ImageURL, err)
	}

	var logo image.Image
	if input.Template.SupportsLogo && profile.LogoRef != "" {
		logo, err = poster.LoadLogo(ctx, s.fetcher, profile.LogoRef)
		if err != nil {
			// A broken logo must not kill the poster; render without it.
			s.logger.Warn("logo load failed, compositing without logo", map[string]interface{}{
				"vendorId": input.VendorID,
				"error":    err.Error(),
			})
			logo = nil
		}
	}

	layout := input.Layout
	if !layout.Valid() {
		layout = profile.DefaultLayout
	}
	if !layout.Valid() {
		layout = models.LayoutClassic
	}

	composed, err := s.compositor.Compose(templateImg, profile, logo, layout)
	if err != nil {
		return nil, stderrors.NewRenderingUnsupportedError(err)
	}

	var buf bytes.Buffer
	if err := s.compositor.EncodeJPEG(&buf, composed); err != nil {
		return nil, stderrors.NewRenderingUnsupportedError(err)
	}

	artifactPath := filepath.Join(s.config.OutputDir, "artifacts", uuid.New().String()+".jpg")
	if err := writeAtomic(artifactPath, buf.Bytes()); err != nil {
		return nil, stderrors.NewPosterWriteFailedError(artifactPath, err)
	}

	metrics.PostersRendered.WithLabelValues(string(layout)).Inc()

	return &Output{
		ArtifactPath: artifactPath,
		Filename:     poster.ArtifactFilename(profile.BusinessName, input.Template.Title),
		Layout:       layout,
		Width:        composed.Bounds().Dx(),
		Height:       composed.Bounds().Dy(),
	}, nil
}

// writeAtomic makes the artifact appear complete or not at all.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".artifact-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
