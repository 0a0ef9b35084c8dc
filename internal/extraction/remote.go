package extraction

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"resume-review/internal/intake"
	"resume-review/resume/contract"
)

// DefaultBaseURL is the hosted extraction service.
const DefaultBaseURL = "https://1z8n6q90li.execute-api.eu-west-2.amazonaws.com/prod"

type extractRequest struct {
	FileName string `json:"fileName"`
	FileData string `json:"fileData"`
}

// Remote posts the file to {BaseURL}/extract as base64 JSON.
// It makes a single attempt: no retries and no client timeout.
type Remote struct {
	BaseURL string
	Client  *http.Client
}

// NewRemote constructs a Remote for the given base URL.
func NewRemote(baseURL string, client *http.Client) *Remote {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = &http.Client{}
	}
	return &Remote{BaseURL: strings.TrimRight(baseURL, "/"), Client: client}
}

// Extract sends the file and returns the "text" field of the response, or the
// whole response pretty-printed when there is none.
func (r *Remote) Extract(ctx context.Context, f intake.File) (Result, error) {
	payload, err := json.Marshal(extractRequest{
		FileName: f.Name,
		FileData: base64.StdEncoding.EncodeToString(f.Data),
	})
	if err != nil {
		return Result{}, fmt.Errorf("%w: encode request: %v", ErrExtractionFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.BaseURL+"/extract", bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("%w: build request: %v", ErrExtractionFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.Client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("%w: read response: %v", ErrExtractionFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, fmt.Errorf("%w: status %d", ErrExtractionFailed, resp.StatusCode)
	}

	return decodeResponse(body)
}

func decodeResponse(body []byte) (Result, error) {
	var generic any
	if err := json.Unmarshal(body, &generic); err != nil {
		return Result{}, fmt.Errorf("%w: decode response: %v", ErrExtractionFailed, err)
	}

	if obj, ok := generic.(map[string]any); ok {
		if text, ok := obj["text"].(string); ok && text != "" {
			return Result{Text: text}, nil
		}
	}

	// Indent the raw body so key order and number literals survive.
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, bytes.TrimSpace(body), "", "  "); err != nil {
		return Result{}, fmt.Errorf("%w: format response: %v", ErrExtractionFailed, err)
	}
	res := Result{Text: pretty.String()}
	if contract.LooksStructured(body) {
		if data, err := contract.Import(body); err == nil {
			res.Data = &data
		}
	}
	return res, nil
}

var _ Extractor = (*Remote)(nil)
