package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxResponseBytes = 1 << 20

var ErrSubmissionFailed = errors.New("order submission failed")

// OrderPayload is the body sent to the order endpoint. Items is forwarded
// exactly as the caller supplied it.
type OrderPayload struct {
	Name    string          `json:"name"`
	Phone   string          `json:"phone"`
	Address string          `json:"address"`
	Items   json.RawMessage `json:"items"`
}

// Submitter places an order and returns the identifier assigned to it.
type Submitter interface {
	Submit(ctx context.Context, payload OrderPayload) (string, error)
}

// SubmissionError describes a failed order placement.
type SubmissionError struct {
	Status int
	Err    error
}

func (e *SubmissionError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: unexpected status %d: %v", ErrSubmissionFailed, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", ErrSubmissionFailed, e.Err)
}

func (e *SubmissionError) Unwrap() []error {
	return []error{ErrSubmissionFailed, e.Err}
}

// HTTPSubmitter posts orders to a JSON endpoint.
type HTTPSubmitter struct {
	endpoint string
	client   *http.Client
}

// NewHTTPSubmitter creates a submitter for endpoint. A nil client gets a
// default one with the given timeout.
func NewHTTPSubmitter(endpoint string, client *http.Client, timeout time.Duration) *HTTPSubmitter {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPSubmitter{endpoint: endpoint, client: client}
}

// Submit sends a single POST and returns the id of the created order. Only a
// 200 response counts as success.
func (s *HTTPSubmitter) Submit(ctx context.Context, payload OrderPayload) (string, error) {
	if len(payload.Items) == 0 {
		payload.Items = json.RawMessage("null")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &SubmissionError{Err: fmt.Errorf("encode order: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &SubmissionError{Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", &SubmissionError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &SubmissionError{Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &SubmissionError{Status: resp.StatusCode, Err: errors.New(statusDetail(raw))}
	}

	id, err := decodeOrderID(raw)
	if err != nil {
		return "", &SubmissionError{Err: err}
	}

	return id, nil
}

// decodeOrderID extracts the id field of an order response. String ids are
// returned verbatim; any other JSON scalar is returned as its literal text.
func decodeOrderID(raw []byte) (string, error) {
	var created struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(raw, &created); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	id := bytes.TrimSpace(created.ID)
	if len(id) == 0 || bytes.Equal(id, []byte("null")) {
		return "", errors.New("response has no order id")
	}

	if id[0] == '"' {
		var s string
		if err := json.Unmarshal(id, &s); err != nil {
			return "", fmt.Errorf("decode order id: %w", err)
		}
		if s == "" {
			return "", errors.New("response has an empty order id")
		}
		return s, nil
	}

	if id[0] == '{' || id[0] == '[' {
		return "", errors.New("order id is not a scalar")
	}

	return string(id), nil
}

func statusDetail(raw []byte) string {
	detail := strings.TrimSpace(string(raw))
	if detail == "" {
		return "empty response body"
	}
	if len(detail) > 200 {
		detail = detail[:200]
	}
	return detail
}
