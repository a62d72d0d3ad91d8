package rembg

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// ModelFile describes a file to download.
type ModelFile struct {
	Name   string
	URL    string
	SHA256 string // expected hash (empty = skip verification)
}

// U2NetModel is the pretrained salient-object segmentation model published
// by the rembg project.
var U2NetModel = ModelFile{
	Name: "u2net.onnx",
	URL:  "https://github.com/danielgatis/rembg/releases/download/v0.0.0/u2net.onnx",
}

// ModelsDir returns the path to the model storage directory (~/.diorama/models/).
func ModelsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".diorama", "models"), nil
}

// EnsureModel checks that the U2Net model exists, downloading it if missing.
func EnsureModel(progressFn func(filename string, downloaded, total int64)) error {
	dir, err := ModelsDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create models directory: %w", err)
	}

	m := U2NetModel
	path := filepath.Join(dir, m.Name)
	if _, err := os.Stat(path); err == nil {
		return nil // already downloaded
	}

	if err := downloadFile(path, m.URL, m.SHA256, func(downloaded, total int64) {
		if progressFn != nil {
			progressFn(m.Name, downloaded, total)
		}
	}); err != nil {
		os.Remove(path) // clean up partial download
		return fmt.Errorf("failed to download %s: %w", m.Name, err)
	}
	return nil
}

// modelPath returns the full path to the downloaded U2Net model.
func modelPath() (string, error) {
	dir, err := ModelsDir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, U2NetModel.Name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("model not found: %s (run diorama rembg to download)", U2NetModel.Name)
	}
	return path, nil
}

func downloadFile(destPath, url, expectedHash string, progressFn func(downloaded, total int64)) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	tmpPath := destPath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("cannot create file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath) // clean up if not renamed
	}()

	hasher := sha256.New()
	writer := io.MultiWriter(f, hasher)

	var downloaded int64
	buf := make([]byte, 32*1024)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := writer.Write(buf[:n]); writeErr != nil {
				return fmt.Errorf("write error: %w", writeErr)
			}
			downloaded += int64(n)
			if progressFn != nil {
				progressFn(downloaded, resp.ContentLength)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return fmt.Errorf("read error: %w", readErr)
		}
	}

	f.Close()

	if expectedHash != "" {
		actualHash := hex.EncodeToString(hasher.Sum(nil))
		if actualHash != expectedHash {
			return fmt.Errorf("SHA256 mismatch: expected %s, got %s", expectedHash, actualHash)
		}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("cannot finalize download: %w", err)
	}
	return nil
}
