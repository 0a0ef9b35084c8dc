package contract

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"resume-review/resume/model"
)

// ExportFileName is the download name of an exported record.
const ExportFileName = "resume-data.json"

//go:embed schema/resume-data.schema.json
var resumeDataSchema string

var schemaLoader = gojsonschema.NewStringLoader(resumeDataSchema)

// ErrInvalidDocument indicates a document that does not satisfy the ResumeData schema.
var ErrInvalidDocument = errors.New("invalid resume document")

// FieldError describes a single schema violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SchemaError collects schema violations for a document.
type SchemaError struct {
	Errors []FieldError
}

func (e *SchemaError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "schema validation failed: " + strings.Join(parts, "; ")
}

func (e *SchemaError) Unwrap() error { return ErrInvalidDocument }

// Validate checks raw JSON against the ResumeData schema.
func Validate(doc []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if result.Valid() {
		return nil
	}
	schemaErr := &SchemaError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		schemaErr.Errors = append(schemaErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return schemaErr
}

// Export serializes a record as indented JSON. The record is normalized first so
// every section is present, and the output is checked against the schema.
func Export(data model.ResumeData) ([]byte, error) {
	out, err := json.MarshalIndent(data.Normalize(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal resume: %w", err)
	}
	if err := Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Import parses a schema-valid document into a normalized record.
func Import(doc []byte) (model.ResumeData, error) {
	if err := Validate(doc); err != nil {
		return model.ResumeData{}, err
	}
	var data model.ResumeData
	if err := json.Unmarshal(doc, &data); err != nil {
		return model.ResumeData{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return data.Normalize(), nil
}

// LooksStructured reports whether a JSON object carries the top-level
// ResumeData sections, as opposed to an opaque extraction response.
func LooksStructured(doc []byte) bool {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(doc, &probe); err != nil {
		return false
	}
	_, hasInfo := probe["personalInfo"]
	_, hasSkills := probe["skills"]
	return hasInfo && hasSkills
}
