// Package gen wraps the external generative-AI calls: image generation and
// vision analysis. Both are behind small interfaces so the driver can be
// tested with stubs.
package gen

import "context"

// Request describes one image-generation call.
type Request struct {
	Prompt      string
	References  [][]byte // PNG-encoded reference images, in order
	AspectRatio string   // defaults to "1:1"
	ImageSize   string   // defaults to "1K"
}

// Generator produces exactly one image per call.
type Generator interface {
	Generate(ctx context.Context, req Request) ([]byte, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req Request) ([]byte, error)

func (f GeneratorFunc) Generate(ctx context.Context, req Request) ([]byte, error) {
	return f(ctx, req)
}

// Analyzer describes an image in free text, used for ledger checkpoints.
type Analyzer interface {
	Analyze(ctx context.Context, prompt string, image []byte) (string, error)
}

// AnalyzerFunc adapts a function to the Analyzer interface.
type AnalyzerFunc func(ctx context.Context, prompt string, image []byte) (string, error)

func (f AnalyzerFunc) Analyze(ctx context.Context, prompt string, image []byte) (string, error) {
	return f(ctx, prompt, image)
}
