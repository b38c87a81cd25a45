package attachments

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MaxBytes is the largest attachment the Pushover API accepts.
const MaxBytes = 5 * 1024 * 1024

const specifierSeparator = "::"

var (
	ErrMissingPath = errors.New("attachments: missing_path")
	ErrTooLarge    = errors.New("attachments: too_large")
)

// File is the content of one attachment read from disk.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Load reads the file named by specifier. The specifier is a path optionally
// followed by "::" and an explicit MIME type.
func Load(specifier string) (File, error) {
	path, contentType := splitInput(specifier)
	if path == "" {
		return File{}, ErrMissingPath
	}

	data, readErr := readAll(path)
	if readErr != nil {
		return File{}, readErr
	}

	if contentType == "" {
		contentType = inferContentType(path, data)
	}

	return File{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func readAll(path string) ([]byte, error) {
	file, openErr := os.Open(path)
	if openErr != nil {
		return nil, openErr
	}
	defer file.Close()

	data, readErr := io.ReadAll(io.LimitReader(file, MaxBytes+1))
	if readErr != nil {
		return nil, readErr
	}
	if len(data) > MaxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, path, MaxBytes)
	}
	return data, nil
}

func splitInput(input string) (string, string) {
	path, contentType, found := strings.Cut(input, specifierSeparator)
	if !found {
		return strings.TrimSpace(input), ""
	}
	return strings.TrimSpace(path), strings.TrimSpace(contentType)
}

func inferContentType(path string, data []byte) string {
	if byExtension := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); byExtension != "" {
		return byExtension
	}
	return http.DetectContentType(data)
}
