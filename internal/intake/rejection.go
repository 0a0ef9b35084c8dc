package intake

import (
	"errors"
	"fmt"
	"net/http"
)

// Rejection codes, matching the codes a browser drop zone reports.
const (
	CodeTooLarge    = "file-too-large"
	CodeInvalidType = "file-invalid-type"
	CodeOther       = "other"
)

// Rejection explains why a file was not accepted.
type Rejection struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Code, r.Message)
}

func reject(code string, rules Rules) *Rejection {
	switch code {
	case CodeTooLarge:
		return &Rejection{
			Code:    CodeTooLarge,
			Message: fmt.Sprintf("File is too large. Maximum size is %s.", formatMB(rules.MaxBytes)),
		}
	case CodeInvalidType:
		return &Rejection{
			Code:    CodeInvalidType,
			Message: "Invalid file type. Please upload PDF or DOCX files only.",
		}
	default:
		return &Rejection{
			Code:    CodeOther,
			Message: "Invalid file. Please try again.",
		}
	}
}

// Classify maps an error raised while receiving an upload to a Rejection.
// Errors that are already rejections are returned as is.
func Classify(err error, rules Rules) *Rejection {
	if err == nil {
		return nil
	}
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return reject(CodeTooLarge, rules)
	}
	return reject(CodeOther, rules)
}

func formatMB(n int64) string {
	if n%(1<<20) == 0 {
		return fmt.Sprintf("%dMB", n>>20)
	}
	return fmt.Sprintf("%.2fMB", float64(n)/float64(1<<20))
}
