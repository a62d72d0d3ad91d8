package rembg

import (
	"fmt"
	"image"
	"image/color"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultChromaThreshold is the Lab-space distance below which a pixel
// counts as backdrop. The solid #FF00FF / #0000FF / #00FF00 backdrops the
// themes prescribe sit far from any scene color, so the margin is generous.
const DefaultChromaThreshold = 0.18

// Chroma keys out a solid backdrop color. The backdrop is detected as the
// image's dominant color, which holds for the flat single-color backgrounds
// the generation prompts demand.
type Chroma struct {
	Threshold float64 // 0 means DefaultChromaThreshold
}

// Process returns img with backdrop-colored pixels made transparent.
// Pixels near the threshold get proportional alpha for soft edges.
func (c Chroma) Process(img image.Image) (image.Image, error) {
	threshold := c.Threshold
	if threshold <= 0 {
		threshold = DefaultChromaThreshold
	}

	key, ok := colorful.MakeColor(dominantcolor.Find(img))
	if !ok {
		return nil, fmt.Errorf("cannot determine backdrop color")
	}

	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := img.At(bounds.Min.X+x, bounds.Min.Y+y)
			pc, ok := colorful.MakeColor(px)
			if !ok {
				// Fully transparent source pixel; keep it transparent.
				out.SetNRGBA(x, y, color.NRGBA{})
				continue
			}

			dist := key.DistanceLab(pc)
			r, g, b, _ := px.RGBA()
			nrgba := color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255}
			switch {
			case dist < threshold:
				nrgba.A = 0
			case dist < 2*threshold:
				// Feather band: alpha scales with distance from the key.
				nrgba.A = uint8((dist - threshold) / threshold * 255)
			}
			out.SetNRGBA(x, y, nrgba)
		}
	}
	return out, nil
}
