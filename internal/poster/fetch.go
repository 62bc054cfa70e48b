// Package poster turns a template image plus a branding profile into a single
// flat, shareable raster image.
package poster

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"

	"poster-workers/internal/common/httpclient"

	"github.com/disintegration/imaging"
)

// FetchImage downloads and decodes a remote raster image. Every composite
// re-fetches; there is no cache.
func FetchImage(ctx context.Context, client *httpclient.Client, url string) (image.Image, error) {
	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read image body: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// LoadLogo resolves a logo reference, which is either a data URL (uploaded
// through the editor) or a plain remote URL.
func LoadLogo(ctx context.Context, client *httpclient.Client, logoRef string) (image.Image, error) {
	if logoRef == "" {
		return nil, nil
	}
	if strings.HasPrefix(logoRef, "data:") {
		return decodeDataURL(logoRef)
	}
	return FetchImage(ctx, client, logoRef)
}

func decodeDataURL(ref string) (image.Image, error) {
	idx := strings.Index(ref, ",")
	if idx < 0 {
		return nil, fmt.Errorf("malformed data URL")
	}
	raw, err := base64.StdEncoding.DecodeString(ref[idx+1:])
	if err != nil {
		return nil, fmt.Errorf("decode data URL: %w", err)
	}
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode logo image: %w", err)
	}
	return img, nil
}
