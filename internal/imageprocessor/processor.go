package imageprocessor

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// Normalizer downsizes meter photos before they go to the vision API.
// Phone photos easily run several megabytes; the meter display stays
// readable at much smaller dimensions and the API payload is capped.
type Normalizer struct {
	maxEdge int
	quality int
}

func NewNormalizer(maxEdge, quality int) *Normalizer {
	if maxEdge <= 0 {
		maxEdge = 1024
	}
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &Normalizer{maxEdge: maxEdge, quality: quality}
}

// Normalize re-encodes the photo as a JPEG no larger than maxEdge on its
// longest side. Payloads that do not decode as an image pass through
// untouched: the stored payload is opaque and the vision service gives
// its own verdict on unreadable input.
func (n *Normalizer) Normalize(payload []byte) []byte {
	img, _, err := image.Decode(bytes.NewReader(payload))
	if err != nil {
		return payload
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= n.maxEdge && height <= n.maxEdge {
		return n.encode(img, payload)
	}

	var newWidth, newHeight int
	if width >= height {
		newWidth = n.maxEdge
		newHeight = height * n.maxEdge / width
	} else {
		newHeight = n.maxEdge
		newWidth = width * n.maxEdge / height
	}
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	return n.encode(dst, payload)
}

func (n *Normalizer) encode(img image.Image, original []byte) []byte {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: n.quality}); err != nil {
		return original
	}
	return buf.Bytes()
}
