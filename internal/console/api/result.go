package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Result is the uniform outcome of every backend call.
type Result struct {
	Success bool
	Data    json.RawMessage
	Error   string
	// Status is the HTTP status, or zero when no response was received.
	Status int
	// SessionEnded is set when the call triggered a forced logout.
	SessionEnded bool
}

// ErrNoData is returned by Decode for a failed or empty result.
var ErrNoData = errors.New("api: result has no data")

// Decode unmarshals the payload of a successful result.
func Decode[T any](r Result) (T, error) {
	var out T
	if !r.Success {
		return out, fmt.Errorf("%w: %s", ErrNoData, r.Error)
	}
	if len(r.Data) == 0 {
		return out, ErrNoData
	}
	if err := json.Unmarshal(r.Data, &out); err != nil {
		return out, fmt.Errorf("api: decode result: %w", err)
	}
	return out, nil
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// errorMessage picks the most useful description of a failed call: the body's
// message, then its error, then the transport error, then the status text.
func errorMessage(status int, body []byte, err error) string {
	var eb errorBody
	if len(body) > 0 && json.Unmarshal(body, &eb) == nil {
		if eb.Message != "" {
			return eb.Message
		}
		if eb.Error != "" {
			return eb.Error
		}
	}
	if err != nil {
		return err.Error()
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", status)
}

// payload keeps JSON bodies as-is and wraps anything else as a JSON string so
// Data is always valid JSON.
func payload(body []byte) json.RawMessage {
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	quoted, _ := json.Marshal(string(body))
	return quoted
}

func succeeded(status int, body []byte) Result {
	return Result{Success: true, Data: payload(body), Status: status}
}

func failed(status int, body []byte, sessionEnded bool) Result {
	return Result{
		Error:        errorMessage(status, body, nil),
		Status:       status,
		SessionEnded: sessionEnded,
	}
}

func transportFailure(err error) Result {
	return Result{Error: errorMessage(0, nil, err)}
}
