package validation

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

type FileConstraints struct {
	AllowedMimeTypes  map[string]bool
	AllowedExtensions map[string]bool
	MaxSize           int64
}

// ReceiptConstraints accepts photos and PDF scans of receipts.
var ReceiptConstraints = FileConstraints{
	AllowedMimeTypes: map[string]bool{
		"image/jpeg":      true,
		"image/png":       true,
		"image/webp":      true,
		"application/pdf": true,
	},
	AllowedExtensions: map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
		".pdf":  true,
	},
	MaxSize: 10 << 20, // 10MB
}

// ValidateFile checks size, extension and the content type sniffed from the
// file's magic number, and returns the detected type.
func ValidateFile(header *multipart.FileHeader, constraints FileConstraints) (string, error) {
	if header.Size > constraints.MaxSize {
		return "", Invalid("file", "file too large: maximum size is %d MB", constraints.MaxSize/(1<<20))
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !constraints.AllowedExtensions[ext] {
		return "", Invalid("file", "invalid file extension: %s", ext)
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// DetectContentType looks at no more than 512 bytes
	buffer := make([]byte, 512)
	n, err := io.ReadFull(file, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	detected := http.DetectContentType(buffer[:n])
	if !constraints.AllowedMimeTypes[detected] {
		return "", Invalid("file", "invalid file type (detected: %s)", detected)
	}

	return detected, nil
}
