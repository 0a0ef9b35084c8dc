package intake

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	mimeZip     = "application/zip"
	mimeUnknown = "application/octet-stream"

	// DefaultMaxBytes is the upload ceiling when none is configured.
	DefaultMaxBytes int64 = 10 << 20
)

// Rules constrain which files the intake accepts. Accept maps a MIME type to
// the file extensions allowed for it.
type Rules struct {
	Accept   map[string][]string `validate:"required,min=1"`
	MaxBytes int64               `validate:"gt=0"`
}

// DefaultRules accepts PDF and DOCX files up to 10 MiB.
func DefaultRules() Rules {
	return Rules{
		Accept: map[string][]string{
			MimePDF:  {".pdf"},
			MimeDOCX: {".docx"},
		},
		MaxBytes: DefaultMaxBytes,
	}
}

var validate = validator.New()

// Validate checks the rules are usable.
func (r Rules) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("intake rules: %w", err)
	}
	return nil
}

// Extensions lists every accepted extension, sorted, e.g. for an HTML accept attribute.
func (r Rules) Extensions() []string {
	var out []string
	for _, exts := range r.Accept {
		out = append(out, exts...)
	}
	sort.Strings(out)
	return out
}

// Detect sniffs the content type of f. A zip container named *.docx is
// reported as DOCX, since OOXML files are zip archives underneath.
func Detect(f File) string {
	detected := mimetype.Detect(f.Data)
	mt := strings.ToLower(strings.TrimSpace(strings.Split(detected.String(), ";")[0]))
	if mt == mimeZip && strings.EqualFold(filepath.Ext(f.Name), ".docx") {
		return MimeDOCX
	}
	return mt
}

func (r Rules) accepts(f File, detected string) bool {
	if _, ok := r.Accept[detected]; ok {
		return true
	}
	if detected != mimeUnknown {
		return false
	}
	declared := strings.ToLower(strings.TrimSpace(strings.Split(f.DeclaredType, ";")[0]))
	exts, ok := r.Accept[declared]
	if !ok {
		return false
	}
	ext := strings.ToLower(filepath.Ext(f.Name))
	for _, allowed := range exts {
		if strings.EqualFold(allowed, ext) {
			return true
		}
	}
	return false
}

// Check classifies f against the rules. Type is checked before size.
func (r Rules) Check(f File) (string, *Rejection) {
	if len(f.Data) == 0 || f.Size == 0 {
		return "", reject(CodeOther, r)
	}
	detected := Detect(f)
	if !r.accepts(f, detected) {
		return detected, reject(CodeInvalidType, r)
	}
	if f.Size > r.MaxBytes {
		return detected, reject(CodeTooLarge, r)
	}
	return detected, nil
}
