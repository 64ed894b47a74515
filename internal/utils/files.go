package utils

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/docker/go-units"
)

// PrettyJSON marshals a value as indented JSON.
func PrettyJSON(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return b, nil
}

// FormatBytes renders a byte count in binary units, e.g. "4.768MiB".
func FormatBytes(n int64) string {
	return units.BytesSize(float64(n))
}

// DetectContentType resolves a file's content type from its extension,
// sniffing the leading bytes when the extension is unknown.
func DetectContentType(path string, data []byte) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	if len(data) > 0 {
		return http.DetectContentType(data)
	}
	return ""
}
