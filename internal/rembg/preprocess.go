package rembg

import (
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// U2Net normalization constants (ImageNet statistics).
var (
	u2netMean = [3]float32{0.485, 0.456, 0.406}
	u2netStd  = [3]float32{0.229, 0.224, 0.225}
)

// resize performs bilinear interpolation to resize an image.
func resize(img image.Image, width, height int) image.Image {
	bounds := img.Bounds()
	srcW := bounds.Dx()
	srcH := bounds.Dy()

	dst := image.NewRGBA(image.Rect(0, 0, width, height))

	xRatio := float64(srcW) / float64(width)
	yRatio := float64(srcH) / float64(height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			srcX := float64(x)*xRatio + float64(bounds.Min.X)
			srcY := float64(y)*yRatio + float64(bounds.Min.Y)

			x0 := int(math.Floor(srcX))
			y0 := int(math.Floor(srcY))
			x1 := x0 + 1
			y1 := y0 + 1

			if x1 >= bounds.Max.X {
				x1 = bounds.Max.X - 1
			}
			if y1 >= bounds.Max.Y {
				y1 = bounds.Max.Y - 1
			}

			xFrac := srcX - float64(x0)
			yFrac := srcY - float64(y0)

			r00, g00, b00, a00 := img.At(x0, y0).RGBA()
			r10, g10, b10, a10 := img.At(x1, y0).RGBA()
			r01, g01, b01, a01 := img.At(x0, y1).RGBA()
			r11, g11, b11, a11 := img.At(x1, y1).RGBA()

			r := bilinear(float64(r00), float64(r10), float64(r01), float64(r11), xFrac, yFrac)
			g := bilinear(float64(g00), float64(g10), float64(g01), float64(g11), xFrac, yFrac)
			b := bilinear(float64(b00), float64(b10), float64(b01), float64(b11), xFrac, yFrac)
			a := bilinear(float64(a00), float64(a10), float64(a01), float64(a11), xFrac, yFrac)

			dst.Set(x, y, color.RGBA64{
				R: uint16(r),
				G: uint16(g),
				B: uint16(b),
				A: uint16(a),
			})
		}
	}
	return dst
}

func bilinear(c00, c10, c01, c11, xFrac, yFrac float64) float64 {
	return c00*(1-xFrac)*(1-yFrac) + c10*xFrac*(1-yFrac) +
		c01*(1-xFrac)*yFrac + c11*xFrac*yFrac
}

// imageToTensor converts an image to a [1, 3, H, W] CHW float32 tensor,
// normalized with ImageNet mean and std.
func imageToTensor(img image.Image) []float32 {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	tensor := make([]float32, 3*h*w)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()

			rf := float32(r) / 65535.0
			gf := float32(g) / 65535.0
			bf := float32(b) / 65535.0

			idx := y*w + x
			tensor[0*h*w+idx] = (rf - u2netMean[0]) / u2netStd[0]
			tensor[1*h*w+idx] = (gf - u2netMean[1]) / u2netStd[1]
			tensor[2*h*w+idx] = (bf - u2netMean[2]) / u2netStd[2]
		}
	}

	return tensor
}

// normalizeMask rescales raw saliency logits to [0, 1] min-max.
func normalizeMask(raw []float32) []float32 {
	if len(raw) == 0 {
		return raw
	}
	lo, hi := raw[0], raw[0]
	for _, v := range raw {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	out := make([]float32, len(raw))
	if hi == lo {
		return out
	}
	for i, v := range raw {
		out[i] = (v - lo) / (hi - lo)
	}
	return out
}

// applyMask scales a size x size saliency mask up to img's dimensions and
// writes it into the alpha channel.
func applyMask(img image.Image, mask []float32, size int) image.Image {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			alpha := sampleMask(mask, size, float64(x)/float64(w), float64(y)/float64(h))
			out.SetNRGBA(x, y, color.NRGBA{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(b >> 8),
				A: uint8(alpha*255 + 0.5),
			})
		}
	}
	return out
}

// sampleMask bilinearly samples the mask at normalized coordinates.
func sampleMask(mask []float32, size int, u, v float64) float64 {
	fx := u * float64(size-1)
	fy := v * float64(size-1)
	x0 := int(fx)
	y0 := int(fy)
	x1 := x0 + 1
	y1 := y0 + 1
	if x1 >= size {
		x1 = size - 1
	}
	if y1 >= size {
		y1 = size - 1
	}
	xFrac := fx - float64(x0)
	yFrac := fy - float64(y0)

	m00 := float64(mask[y0*size+x0])
	m10 := float64(mask[y0*size+x1])
	m01 := float64(mask[y1*size+x0])
	m11 := float64(mask[y1*size+x1])
	return bilinear(m00, m10, m01, m11, xFrac, yFrac)
}
