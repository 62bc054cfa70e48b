package poster

import (
	"bytes"
	"context"
	"encoding/base64"
	"image/color"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"poster-workers/internal/common/httpclient"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := imaging.New(w, h, color.NRGBA{R: 120, G: 40, B: 40, A: 255})
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func TestFetchImage(t *testing.T) {
	png := encodePNG(t, 64, 48)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write(png)
		case "/not-an-image":
			w.Write([]byte("<html>nope</html>"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := httpclient.NewClient(5 * time.Second)

	t.Run("decodes a valid image", func(t *testing.T) {
		img, err := FetchImage(context.Background(), client, server.URL+"/ok.png")
		require.NoError(t, err)
		assert.Equal(t, 64, img.Bounds().Dx())
		assert.Equal(t, 48, img.Bounds().Dy())
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		_, err := FetchImage(context.Background(), client, server.URL+"/missing.png")
		assert.ErrorContains(t, err, "unexpected status 404")
	})

	t.Run("undecodable body is an error", func(t *testing.T) {
		_, err := FetchImage(context.Background(), client, server.URL+"/not-an-image")
		assert.ErrorContains(t, err, "decode image")
	})

	t.Run("cancelled context is an error", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := FetchImage(ctx, client, server.URL+"/ok.png")
		assert.Error(t, err)
	})
}

func TestLoadLogo(t *testing.T) {
	client := httpclient.NewClient(5 * time.Second)

	t.Run("empty ref yields no logo and no error", func(t *testing.T) {
		img, err := LoadLogo(context.Background(), client, "")
		require.NoError(t, err)
		assert.Nil(t, img)
	})

	t.Run("data URL", func(t *testing.T) {
		ref := "data:image/png;base64," + base64.StdEncoding.EncodeToString(encodePNG(t, 32, 32))
		img, err := LoadLogo(context.Background(), client, ref)
		require.NoError(t, err)
		assert.Equal(t, 32, img.Bounds().Dx())
	})

	t.Run("data URL without comma is malformed", func(t *testing.T) {
		_, err := LoadLogo(context.Background(), client, "data:image/png;base64")
		assert.ErrorContains(t, err, "malformed data URL")
	})

	t.Run("data URL with bad base64", func(t *testing.T) {
		_, err := LoadLogo(context.Background(), client, "data:image/png;base64,!!notbase64!!")
		assert.Error(t, err)
	})

	t.Run("remote ref goes over HTTP", func(t *testing.T) {
		png := encodePNG(t, 16, 16)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write(png)
		}))
		defer server.Close()

		img, err := LoadLogo(context.Background(), client, server.URL+"/logo.png")
		require.NoError(t, err)
		assert.Equal(t, 16, img.Bounds().Dx())
	})
}
