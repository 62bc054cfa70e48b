// cmd/tools/poster-preview/main.go
//
// poster-preview renders a branded poster and its share caption locally,
// without a broker or database. Useful for eyeballing layout changes:
//
//	go run ./cmd/tools/poster-preview \
//	  -template https://cdn.example/diwali.jpg \
//	  -business "Joe's Pizza" -phone "+91 9876543210" \
//	  -layout modern -out preview
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"poster-workers/internal/caption"
	"poster-workers/internal/common/httpclient"
	"poster-workers/internal/models"
	"poster-workers/internal/poster"

	"github.com/disintegration/imaging"
)

func main() {
	var (
		templateURL = flag.String("template", "", "template image URL or local file path (required)")
		title       = flag.String("title", "Preview Poster", "template title")
		business    = flag.String("business", "Sample Business", "business name")
		phone       = flag.String("phone", "", "business phone")
		website     = flag.String("website", "", "business website")
		primary     = flag.String("color", "#7c3aed", "primary brand color")
		logoRef     = flag.String("logo", "", "logo URL or data URL")
		layoutName  = flag.String("layout", "modern", "layout: modern, classic or minimal")
		watermark   = flag.String("watermark", "Powered by Postermint", "watermark text")
		quality     = flag.Int("quality", 90, "JPEG quality")
		outDir      = flag.String("out", "preview", "output directory")
	)
	flag.Parse()

	if *templateURL == "" {
		flag.Usage()
		os.Exit(2)
	}

	layout := models.Layout(*layoutName)
	if !layout.Valid() {
		fatalf("unknown layout %q", *layoutName)
	}

	profile := &models.BrandingProfile{
		BusinessName: *business,
		Phone:        *phone,
		Website:      *website,
		PrimaryColor: *primary,
		LogoRef:      *logoRef,
		LogoZoom:     1.0,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	client := httpclient.NewClient(15 * time.Second)

	templateImg, err := loadTemplate(ctx, client, *templateURL)
	if err != nil {
		fatalf("load template: %v", err)
	}

	logo := loadLogoOrWarn(ctx, client, *logoRef)

	compositor, err := poster.NewCompositor(*watermark, *quality)
	if err != nil {
		fatalf("init compositor: %v", err)
	}

	composed, err := compositor.Compose(templateImg, profile, logo, layout)
	if err != nil {
		fatalf("compose: %v", err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fatalf("create output dir: %v", err)
	}
	outPath := filepath.Join(*outDir, poster.ArtifactFilename(*business, *title))
	f, err := os.Create(outPath)
	if err != nil {
		fatalf("create output file: %v", err)
	}
	if err := compositor.EncodeJPEG(f, composed); err != nil {
		f.Close()
		fatalf("encode: %v", err)
	}
	f.Close()

	text := caption.Build(caption.Input{
		Branding: profile,
		Template: &models.Template{Title: *title},
	})

	fmt.Printf("poster written to %s (%dx%d, %s layout)\n",
		outPath, composed.Bounds().Dx(), composed.Bounds().Dy(), layout)
	fmt.Println("--- caption ---")
	fmt.Println(text)
}

func loadTemplate(ctx context.Context, client *httpclient.Client, ref string) (image.Image, error) {
	if _, err := os.Stat(ref); err == nil {
		return imaging.Open(ref)
	}
	return poster.FetchImage(ctx, client, ref)
}

func loadLogoOrWarn(ctx context.Context, client *httpclient.Client, ref string) image.Image {
	if ref == "" {
		return nil
	}
	logo, err := poster.LoadLogo(ctx, client, ref)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: logo skipped: %v\n", err)
		return nil
	}
	return logo
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
