package poster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"poster-workers/internal/models"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Overlay geometry. Pixel values are fixed regardless of template size, per
// the publishing contract.
const (
	footerBarHeight   = 80
	classicBadgeR     = 35
	minimalBadgeR     = 24
	overlayMargin     = 24
	watermarkMarginX  = 16
	watermarkMarginY  = 12
	editorMaskRange   = 50.0 // editor pan bound at zoom 1, in editor pixels
)

// Compositor rasterizes template + branding overlay + watermark into one
// image. Construction parses the embedded fonts; a failure there means the
// host cannot render at all and the feature is dead on this host.
type Compositor struct {
	watermarkText string
	jpegQuality   int

	nameFace  font.Face
	smallFace font.Face
	markFace  font.Face
}

func NewCompositor(watermarkText string, jpegQuality int) (*Compositor, error) {
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}

	nameFace, err := opentype.NewFace(bold, &opentype.FaceOptions{Size: 28, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("create name face: %w", err)
	}
	smallFace, err := opentype.NewFace(regular, &opentype.FaceOptions{Size: 18, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("create small face: %w", err)
	}
	markFace, err := opentype.NewFace(regular, &opentype.FaceOptions{Size: 14, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("create watermark face: %w", err)
	}

	return &Compositor{
		watermarkText: watermarkText,
		jpegQuality:   jpegQuality,
		nameFace:      nameFace,
		smallFace:     smallFace,
		markFace:      markFace,
	}, nil
}

// Compose draws the branding overlay for the chosen layout over the template
// and stamps the platform watermark. The output keeps the template's pixel
// dimensions. logo may be nil; logo badges are skipped then.
func (c *Compositor) Compose(template image.Image, profile *models.BrandingProfile, logo image.Image, layout models.Layout) (*image.NRGBA, error) {
	if !layout.Valid() {
		return nil, fmt.Errorf("unknown layout %q", layout)
	}

	canvas := imaging.Clone(template)
	w := canvas.Bounds().Dx()
	h := canvas.Bounds().Dy()

	switch layout {
	case models.LayoutModern:
		c.drawFooterBar(canvas, profile, w, h)
	case models.LayoutClassic:
		if logo != nil {
			c.drawLogoBadge(canvas, logo, profile,
				w-overlayMargin-classicBadgeR, h-overlayMargin-classicBadgeR, classicBadgeR)
		}
	case models.LayoutMinimal:
		if logo != nil {
			c.drawLogoBadge(canvas, logo, profile,
				overlayMargin+minimalBadgeR, overlayMargin+minimalBadgeR, minimalBadgeR)
		}
	}

	// Watermark is rendered in every layout, regardless of other overlays.
	c.drawText(canvas, watermarkMarginX, h-watermarkMarginY,
		color.NRGBA{R: 255, G: 255, B: 255, A: 140}, c.markFace, c.watermarkText)

	return canvas, nil
}

// EncodeJPEG writes the composited image as lossy JPEG at the configured
// quality.
func (c *Compositor) EncodeJPEG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(c.jpegQuality))
}

func (c *Compositor) drawFooterBar(canvas *image.NRGBA, profile *models.BrandingProfile, w, h int) {
	bar := parseHexColor(profile.PrimaryColor)
	bar.A = 230
	fillRect(canvas, image.Rect(0, h-footerBarHeight, w, h), bar)

	textX := overlayMargin
	textY := h - footerBarHeight + 34
	c.drawText(canvas, textX, textY, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, c.nameFace, profile.BusinessName)
	if profile.Phone != "" {
		c.drawText(canvas, textX, textY+28, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, c.smallFace, profile.Phone)
	}
}

// drawLogoBadge renders the logo clipped to a circle of radius r centered at
// (cx, cy), honoring the editor's zoom and pan transform.
func (c *Compositor) drawLogoBadge(canvas *image.NRGBA, logo image.Image, profile *models.BrandingProfile, cx, cy, r int) {
	d := 2 * r

	zoom := profile.LogoZoom
	if zoom <= 0 {
		zoom = 1
	}

	scaled := imaging.Resize(logo, int(float64(d)*zoom), 0, imaging.Lanczos)

	// Editor offsets live in a mask of ±editorMaskRange·zoom pixels at the
	// editor's scale; map them onto the badge diameter.
	scale := float64(d) / (2 * editorMaskRange)
	offX := int(profile.LogoPosition.X * scale)
	offY := int(profile.LogoPosition.Y * scale)

	badge := imaging.New(d, d, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	px := (d-scaled.Bounds().Dx())/2 + offX
	py := (d-scaled.Bounds().Dy())/2 + offY
	badge = imaging.Paste(badge, scaled, image.Pt(px, py))

	mask := circleMask(r)
	rect := image.Rect(cx-r, cy-r, cx+r, cy+r)
	draw.DrawMask(canvas, rect, badge, image.Point{}, mask, image.Point{}, draw.Over)
}

func (c *Compositor) drawText(dst *image.NRGBA, x, y int, col color.Color, face font.Face, text string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// circleMask builds an alpha mask for a filled circle of radius r.
func circleMask(r int) *image.Alpha {
	d := 2 * r
	mask := image.NewAlpha(image.Rect(0, 0, d, d))
	rr := float64(r)
	for y := 0; y < d; y++ {
		for x := 0; x < d; x++ {
			dx := float64(x-r) + 0.5
			dy := float64(y-r) + 0.5
			if dx*dx+dy*dy <= rr*rr {
				mask.SetAlpha(x, y, color.Alpha{A: 255})
			}
		}
	}
	return mask
}

func fillRect(dst *image.NRGBA, rect image.Rectangle, col color.NRGBA) {
	draw.Draw(dst, rect, image.NewUniform(col), image.Point{}, draw.Over)
}

// parseHexColor parses "#rrggbb" (or "#rgb"); unparseable input falls back to
// a neutral dark slate so the footer stays readable.
func parseHexColor(s string) color.NRGBA {
	fallback := color.NRGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xff}
	if len(s) == 0 || s[0] != '#' {
		return fallback
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return fallback
	}
	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		hi, ok1 := hexVal(hex[i*2])
		lo, ok2 := hexVal(hex[i*2+1])
		if !ok1 || !ok2 {
			return fallback
		}
		rgb[i] = hi<<4 | lo
	}
	return color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xff}
}

func hexVal(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}
