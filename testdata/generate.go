// This program generates test day images for integration testing.
// Each image is a simple subject on a solid backdrop, the shape the
// generation prompts ask the model for.
//
//go:build ignore

package main

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
)

var backdrop = color.RGBA{255, 0, 255, 255} // magenta, per the garden theme

func main() {
	dir := "testdata"
	os.MkdirAll(dir, 0755)

	// A small sprout for the early days
	generateSprout(filepath.Join(dir, "day-001.png"))

	// A taller plant with leaves
	generatePlant(filepath.Join(dir, "day-050.png"))

	// A bushy canopy for the late days
	generateCanopy(filepath.Join(dir, "day-150.png"))

	// A non-sequence file for skip testing
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("not a day image"), 0644)
}

func generateSprout(path string) {
	img := newBackdrop()
	// Brown soil mound at the bottom
	fillRect(img, 80, 190, 176, 220, color.RGBA{110, 70, 40, 255})
	// A single green stem with two leaves
	fillRect(img, 126, 150, 130, 192, color.RGBA{60, 160, 50, 255})
	fillCircle(img, 118, 155, 8, color.RGBA{70, 180, 60, 255})
	fillCircle(img, 138, 160, 8, color.RGBA{70, 180, 60, 255})
	savePNG(path, img)
}

func generatePlant(path string) {
	img := newBackdrop()
	fillRect(img, 60, 190, 196, 225, color.RGBA{110, 70, 40, 255})
	fillRect(img, 124, 90, 132, 192, color.RGBA{50, 140, 45, 255})
	for i := 0; i < 5; i++ {
		y := 100 + i*18
		fillCircle(img, 110, y, 12, color.RGBA{60, 170, 55, 255})
		fillCircle(img, 146, y+9, 12, color.RGBA{60, 170, 55, 255})
	}
	savePNG(path, img)
}

func generateCanopy(path string) {
	img := newBackdrop()
	fillRect(img, 40, 190, 216, 230, color.RGBA{110, 70, 40, 255})
	fillRect(img, 120, 110, 136, 192, color.RGBA{90, 60, 35, 255})
	// A dense canopy of overlapping blobs
	for i := 0; i < 12; i++ {
		x := 128 + int(60*math.Cos(float64(i)))
		y := 90 + int(40*math.Sin(float64(i)*1.7))
		fillCircle(img, x, y, 24, color.RGBA{40, 130, 40, 255})
	}
	savePNG(path, img)
}

func newBackdrop() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 256, 256))
	for y := 0; y < 256; y++ {
		for x := 0; x < 256; x++ {
			img.Set(x, y, backdrop)
		}
	}
	return img
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	for y := y0; y < y1 && y < 256; y++ {
		for x := x0; x < x1 && x < 256; x++ {
			img.Set(x, y, c)
		}
	}
}

func fillCircle(img *image.RGBA, cx, cy, r int, c color.RGBA) {
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			if x < 0 || y < 0 || x >= 256 || y >= 256 {
				continue
			}
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r {
				img.Set(x, y, c)
			}
		}
	}
}

func savePNG(path string, img image.Image) {
	f, _ := os.Create(path)
	defer f.Close()
	png.Encode(f, img)
}
