//go:build !embed_onnx

package onnxlib

// Without the embed_onnx build tag no library is bundled; Extract fails and
// callers fall back to the platform's installed ONNX Runtime.
var libraryData []byte

const libraryName = "libonnxruntime.so"
