package pushover

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// GenericFailure is reported when a rejection carries no readable errors.
const GenericFailure = "Failed to send message."

// Result is the interpreted outcome of one Push.
type Result struct {
	StatusCode int
	Success    bool
	Request    string
	Receipt    string
	Errors     []string
}

type responseEnvelope struct {
	Status  int             `json:"status"`
	Request string          `json:"request"`
	Receipt string          `json:"receipt"`
	Errors  json.RawMessage `json:"errors"`
}

type errorDescriptor struct {
	Message string `json:"message"`
}

// Interpret reads and closes the response body. A non-200 status is a
// rejection reported in the Result, not an error; the error return covers
// only a body that could not be read.
func Interpret(response *http.Response) (Result, error) {
	defer response.Body.Close()

	body, readErr := io.ReadAll(response.Body)
	result := Result{
		StatusCode: response.StatusCode,
		Success:    response.StatusCode == http.StatusOK,
	}

	var envelope responseEnvelope
	parseErr := json.Unmarshal(body, &envelope)
	if parseErr == nil {
		result.Request = envelope.Request
		result.Receipt = envelope.Receipt
	}

	if result.Success {
		return result, nil
	}
	if readErr != nil {
		result.Errors = []string{GenericFailure}
		return result, fmt.Errorf("read response body: %w", readErr)
	}

	result.Errors = []string{GenericFailure}
	if parseErr != nil {
		return result, nil
	}
	if messages, ok := parseErrorList(envelope.Errors); ok && len(messages) > 0 {
		result.Errors = messages
	}
	return result, nil
}

// parseErrorList accepts descriptors that are plain strings or objects with
// a message field.
func parseErrorList(raw json.RawMessage) ([]string, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var descriptors []json.RawMessage
	if err := json.Unmarshal(raw, &descriptors); err != nil {
		return nil, false
	}

	messages := make([]string, 0, len(descriptors))
	for _, descriptor := range descriptors {
		var text string
		if err := json.Unmarshal(descriptor, &text); err == nil {
			messages = append(messages, text)
			continue
		}
		var structured errorDescriptor
		if err := json.Unmarshal(descriptor, &structured); err == nil {
			messages = append(messages, structured.Message)
			continue
		}
		messages = append(messages, string(descriptor))
	}
	return messages, true
}

// Report writes one "Error: ..." line per error. Nothing is written on success.
func (result Result) Report(output io.Writer) error {
	if result.Success {
		return nil
	}
	for _, message := range result.Errors {
		if _, writeErr := fmt.Fprintf(output, "Error: %s\n", message); writeErr != nil {
			return writeErr
		}
	}
	return nil
}
