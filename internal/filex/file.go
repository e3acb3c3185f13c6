// Package filex holds small filesystem and data-URL helpers used by the
// storage bootstrap, the file body editor and the HTTP transport.
package filex

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

var ErrNotDataURL = errors.New("not a data URL")

// EnsureParentDir creates the directory that will hold path, if any.
// Relative paths are resolved against the working directory.
func EnsureParentDir(path string) (string, error) {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return path, nil
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return path, nil
}

// FileInfo describes a file loaded as an inline data URL.
type FileInfo struct {
	Name    string
	Type    string
	Size    int64
	DataURL string
}

// ReadDataURL reads the file at path and encodes it as a base64 data URL.
// The MIME type comes from the extension, then from content sniffing.
func ReadDataURL(path string) (*FileInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		ct = http.DetectContentType(data)
	}

	return &FileInfo{
		Name:    filepath.Base(path),
		Type:    ct,
		Size:    int64(len(data)),
		DataURL: EncodeDataURL(ct, data),
	}, nil
}

// EncodeDataURL builds "data:<mime>;base64,<payload>".
func EncodeDataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL returns the bytes and MIME type of a data URL.
// Plain base64 (no "data:" prefix) is accepted too and reports an empty type.
func DecodeDataURL(s string) ([]byte, string, error) {
	if !strings.HasPrefix(s, "data:") {
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, "", ErrNotDataURL
		}
		return b, "", nil
	}

	meta, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return nil, "", ErrNotDataURL
	}

	mimeType, isBase64 := strings.CutSuffix(meta, ";base64")
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}

	if isBase64 {
		b, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", fmt.Errorf("decode data URL: %w", err)
		}
		return b, mimeType, nil
	}

	text, err := url.PathUnescape(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode data URL: %w", err)
	}
	return []byte(text), mimeType, nil
}
