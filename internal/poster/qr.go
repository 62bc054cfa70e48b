package poster

import (
	"bytes"
	"image"
	"image/png"

	qrcode "github.com/skip2/go-qrcode"
)

// GenerateShareQRPNG returns PNG bytes of a QR code for the given link. Used
// for the save-then-share path on platforms without a web share target.
func GenerateShareQRPNG(link string, size int) ([]byte, error) {
	return qrcode.Encode(link, qrcode.Medium, size)
}

// GenerateShareQRImage returns the QR as an image for further composition.
func GenerateShareQRImage(link string, size int) (image.Image, error) {
	b, err := GenerateShareQRPNG(link, size)
	if err != nil {
		return nil, err
	}
	return png.Decode(bytes.NewReader(b))
}
