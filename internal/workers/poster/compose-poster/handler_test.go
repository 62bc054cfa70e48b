// internal/workers/poster/compose-poster/handler_test.go
package composeposter

import (
	"context"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	stderrors "poster-workers/internal/common/errors"
	"poster-workers/internal/common/httpclient"
	"poster-workers/internal/common/logger"
	"poster-workers/internal/models"
	"poster-workers/internal/poster"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProfiles struct {
	profile *models.BrandingProfile
	err     error
}

func (s *stubProfiles) Get(ctx context.Context, vendorID string) (*models.BrandingProfile, error) {
	return s.profile, s.err
}

func (s *stubProfiles) Put(ctx context.Context, vendorID string, profile *models.BrandingProfile) error {
	return nil
}

func testProfile() *models.BrandingProfile {
	return &models.BrandingProfile{
		VendorID:      "vendor-1",
		BusinessName:  "Joe's Pizza",
		Phone:         "+91 9876543210",
		PrimaryColor:  "#7c3aed",
		LogoZoom:      1.0,
		DefaultLayout: models.LayoutModern,
	}
}

func newImageServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		img := imaging.New(400, 500, color.NRGBA{R: 200, G: 180, B: 40, A: 255})
		w.Header().Set("Content-Type", "image/jpeg")
		if err := imaging.Encode(w, img, imaging.JPEG); err != nil {
			t.Errorf("encode template image: %v", err)
		}
	}))
}

func newTestService(t *testing.T, profiles *stubProfiles) *Service {
	t.Helper()
	compositor, err := poster.NewCompositor("Powered by Postermint", 90)
	require.NoError(t, err)

	cfg := &Config{
		Timeout:   10 * time.Second,
		OutputDir: t.TempDir(),
	}
	return NewService(cfg, compositor, httpclient.NewClient(5*time.Second), profiles, logger.NewTestLogger(t))
}

func TestExecute_ComposesAndWritesArtifact(t *testing.T) {
	server := newImageServer(t)
	defer server.Close()

	svc := newTestService(t, &stubProfiles{profile: testProfile()})

	output, err := svc.Execute(context.Background(), &Input{
		VendorID: "vendor-1",
		Template: models.Template{
			ID:       "tpl-1",
			Title:    "Diwali Sale",
			ImageURL: server.URL + "/templates/tpl-1.jpg",
		},
		Layout: models.LayoutModern,
	})
	require.NoError(t, err)

	assert.Equal(t, models.LayoutModern, output.Layout)
	assert.Equal(t, 400, output.Width)
	assert.Equal(t, 500, output.Height)
	assert.Equal(t, "Joe_s_Pizza_Diwali_Sale.jpg", output.Filename)

	info, err := os.Stat(output.ArtifactPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
	assert.Equal(t, ".jpg", filepath.Ext(output.ArtifactPath))
}

func TestExecute_FallsBackToProfileDefaultLayout(t *testing.T) {
	server := newImageServer(t)
	defer server.Close()

	profile := testProfile()
	profile.DefaultLayout = models.LayoutMinimal
	svc := newTestService(t, &stubProfiles{profile: profile})

	output, err := svc.Execute(context.Background(), &Input{
		VendorID: "vendor-1",
		Template: models.Template{ID: "tpl-1", Title: "Sale", ImageURL: server.URL + "/t.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.LayoutMinimal, output.Layout)
}

func TestExecute_ImageLoadFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	svc := newTestService(t, &stubProfiles{profile: testProfile()})

	_, err := svc.Execute(context.Background(), &Input{
		VendorID: "vendor-1",
		Template: models.Template{ID: "tpl-1", Title: "Sale", ImageURL: server.URL + "/missing.jpg"},
	})
	require.Error(t, err)

	stdErr, ok := err.(*stderrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, stderrors.ErrCodeImageLoadFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestExecute_IncompleteProfile(t *testing.T) {
	profile := testProfile()
	profile.BusinessName = ""
	svc := newTestService(t, &stubProfiles{profile: profile})

	_, err := svc.Execute(context.Background(), &Input{
		VendorID: "vendor-1",
		Template: models.Template{ID: "tpl-1", Title: "Sale", ImageURL: "http://unused/t.jpg"},
	})
	require.Error(t, err)

	stdErr, ok := err.(*stderrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, stderrors.ErrCodeProfileIncomplete, stdErr.Code)
}

func TestExecute_BrokenLogoDoesNotFailRender(t *testing.T) {
	server := newImageServer(t)
	defer server.Close()

	profile := testProfile()
	profile.LogoRef = "data:image/png;base64,not-valid-base64!!!"
	svc := newTestService(t, &stubProfiles{profile: profile})

	output, err := svc.Execute(context.Background(), &Input{
		VendorID: "vendor-1",
		Template: models.Template{ID: "tpl-1", Title: "Sale", ImageURL: server.URL + "/t.jpg", SupportsLogo: true},
		Layout:   models.LayoutClassic,
	})
	require.NoError(t, err)
	assert.Equal(t, models.LayoutClassic, output.Layout)
}
