package gen

import (
	"context"
	"fmt"
	"os"
	"time"

	"google.golang.org/genai"
)

// APIKeyEnv is the environment variable supplying the Gemini credential.
const APIKeyEnv = "GEMINI_API_KEY"

const (
	// GenerationModel is the image-generation model.
	GenerationModel = "gemini-3-pro-image-preview"
	// AnalysisModel is the vision model used for checkpoint analysis.
	AnalysisModel = "gemini-2.0-flash"

	defaultAspectRatio = "1:1"
	defaultImageSize   = "1K"
	defaultTimeout     = 3 * time.Minute
)

// Gemini implements Generator and Analyzer over the Gemini API.
type Gemini struct {
	client  *genai.Client
	timeout time.Duration
}

// APIKeyFromEnv returns the Gemini credential or an error if it is unset.
// Its absence is fatal at startup; nothing else about the environment is.
func APIKeyFromEnv() (string, error) {
	key := os.Getenv(APIKeyEnv)
	if key == "" {
		return "", fmt.Errorf("%s is not set", APIKeyEnv)
	}
	return key, nil
}

// NewGemini creates a Gemini client.
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Gemini{client: client, timeout: defaultTimeout}, nil
}

// Generate runs one generation call and returns the bytes of the first
// image part in the response. A response with no image part is an error;
// the caller treats it the same as a transport failure.
func (g *Gemini) Generate(ctx context.Context, req Request) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	parts := make([]*genai.Part, 0, len(req.References)+1)
	for _, ref := range req.References {
		parts = append(parts, genai.NewPartFromBytes(ref, "image/png"))
	}
	parts = append(parts, genai.NewPartFromText(req.Prompt))

	aspect := req.AspectRatio
	if aspect == "" {
		aspect = defaultAspectRatio
	}
	size := req.ImageSize
	if size == "" {
		size = defaultImageSize
	}

	resp, err := g.client.Models.GenerateContent(ctx,
		GenerationModel,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"IMAGE"},
			ImageConfig: &genai.ImageConfig{
				AspectRatio: aspect,
				ImageSize:   size,
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("generation call failed: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}
	return nil, fmt.Errorf("response contains no image part")
}

// Analyze sends an image with an analysis prompt to the vision model and
// returns the text response.
func (g *Gemini) Analyze(ctx context.Context, prompt string, image []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromBytes(image, "image/png"),
	}

	resp, err := g.client.Models.GenerateContent(ctx,
		AnalysisModel,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("analysis call failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("analysis response contains no text")
	}
	return text, nil
}
