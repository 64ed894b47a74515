package queue

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/docker/go-units"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// MaxFileSize is the default upload ceiling: 50 binary MiB (52,428,800 bytes).
const MaxFileSize int64 = 50 * 1024 * 1024

// Rejection reasons.
const (
	ReasonNotPDF    = "not_pdf"
	ReasonTooLarge  = "too_large"
	ReasonCorrupted = "corrupted"
)

// Rejection describes a file refused before any network call.
type Rejection struct {
	FileName string
	Reason   string
	Message  string
}

// Validator applies the client-side checks a file must pass to enter the
// queue.
type Validator struct {
	maxSize int64
	strict  bool
}

// NewValidator builds a validator with the given size ceiling. When strict
// is set, candidate bytes must also parse as a PDF with at least one page.
func NewValidator(maxSize int64, strict bool) *Validator {
	if maxSize <= 0 {
		maxSize = MaxFileSize
	}
	return &Validator{maxSize: maxSize, strict: strict}
}

// Check returns nil when the file may be queued, or the Rejection to surface.
func (v *Validator) Check(f File) *Rejection {
	if !isPDF(f) {
		return &Rejection{
			FileName: f.Name,
			Reason:   ReasonNotPDF,
			Message:  fmt.Sprintf("%s is not a PDF file", f.Name),
		}
	}
	if f.Size > v.maxSize {
		return &Rejection{
			FileName: f.Name,
			Reason:   ReasonTooLarge,
			Message:  fmt.Sprintf("%s exceeds the %s limit", f.Name, units.BytesSize(float64(v.maxSize))),
		}
	}
	if v.strict {
		count, err := api.PageCount(bytes.NewReader(f.Data), model.NewDefaultConfiguration())
		if err != nil || count < 1 {
			return &Rejection{
				FileName: f.Name,
				Reason:   ReasonCorrupted,
				Message:  fmt.Sprintf("%s is not a readable PDF", f.Name),
			}
		}
	}
	return nil
}

// isPDF accepts a declared PDF content type, falling back to the file
// extension when the caller could not detect one.
func isPDF(f File) bool {
	ct := strings.ToLower(f.ContentType)
	if ct != "" {
		return ct == "application/pdf" || strings.HasPrefix(ct, "application/pdf;")
	}
	return strings.HasSuffix(strings.ToLower(f.Name), ".pdf")
}
