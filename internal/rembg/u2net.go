package rembg

import (
	"fmt"
	"image"
	"runtime"
	"sync"

	"github.com/dioramalab/diorama/internal/onnxlib"
	ort "github.com/yalue/onnxruntime_go"
)

// u2netSize is the fixed side length of the model's input.
const u2netSize = 320

// U2Net runs the pretrained U2Net segmentation model. The saliency mask it
// predicts becomes the output image's alpha channel.
type U2Net struct {
	mu      sync.Mutex // the ONNX session is not safe for concurrent Run calls
	session *ort.DynamicAdvancedSession
}

// NewU2Net creates a U2Net inference session. If explicitPath is empty, it
// tries the embedded ONNX Runtime library first, then platform defaults.
// The model file must already exist (see EnsureModel).
func NewU2Net(explicitPath string) (*U2Net, error) {
	var onnxrtLibPath string
	if explicitPath != "" {
		onnxrtLibPath = explicitPath
	} else if extractedPath, err := onnxlib.Extract(); err == nil {
		onnxrtLibPath = extractedPath
	} else {
		onnxrtLibPath = defaultONNXRuntimePath()
	}
	ort.SetSharedLibraryPath(onnxrtLibPath)
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("cannot initialize ONNX Runtime: %w", err)
	}

	path, err := modelPath()
	if err != nil {
		return nil, err
	}

	// "input.1" / "1959" are the graph's tensor names; "1959" is d0, the
	// fused full-resolution saliency map.
	session, err := ort.NewDynamicAdvancedSession(
		path,
		[]string{"input.1"},
		[]string{"1959"},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create ONNX session: %w", err)
	}

	return &U2Net{session: session}, nil
}

// Process predicts a saliency mask for img and applies it as alpha.
func (u *U2Net) Process(img image.Image) (image.Image, error) {
	input := imageToTensor(resize(img, u2netSize, u2netSize))

	inputTensor, err := ort.NewTensor(ort.NewShape(1, 3, u2netSize, u2netSize), input)
	if err != nil {
		return nil, fmt.Errorf("cannot create input tensor: %w", err)
	}
	defer inputTensor.Destroy()

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 1, u2netSize, u2netSize))
	if err != nil {
		return nil, fmt.Errorf("cannot create output tensor: %w", err)
	}
	defer outputTensor.Destroy()

	u.mu.Lock()
	err = u.session.Run([]ort.Value{inputTensor}, []ort.Value{outputTensor})
	u.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	mask := normalizeMask(outputTensor.GetData())
	return applyMask(img, mask, u2netSize), nil
}

// Destroy releases resources held by the session.
func (u *U2Net) Destroy() {
	if u.session != nil {
		u.session.Destroy()
	}
	ort.DestroyEnvironment()
}

func defaultONNXRuntimePath() string {
	switch runtime.GOOS {
	case "darwin":
		if runtime.GOARCH == "arm64" {
			return "/opt/homebrew/lib/libonnxruntime.dylib"
		}
		return "/usr/local/lib/libonnxruntime.dylib"
	case "linux":
		return "/usr/lib/libonnxruntime.so"
	case "windows":
		return "onnxruntime.dll"
	default:
		return "libonnxruntime.so"
	}
}
