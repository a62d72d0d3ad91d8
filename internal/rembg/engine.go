// Package rembg strips backgrounds from generated diorama images, producing
// transparent-background copies.
package rembg

import "image"

// Engine turns an opaque image into one with a transparent background.
type Engine interface {
	// Process returns a copy of img with background pixels made
	// transparent. Implementations must not modify img.
	Process(img image.Image) (image.Image, error)
}
