package voltage

import (
	"errors"
	"fmt"
)

// ErrMsgParseJSON is the message the client reports when a response body is not JSON.
const ErrMsgParseJSON = "Failed to parse response as JSON"

// ErrorKind classifies a per-item failure.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindUpstreamHTTP  ErrorKind = "upstream_http"
	KindResponseParse ErrorKind = "response_parse"
	KindUnknown       ErrorKind = "unknown"
)

// ValidationError reports a missing or malformed parameter, raised before any network call.
type ValidationError struct {
	Field     string
	ItemIndex int
	Reason    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s (item %d)", e.Message(), e.ItemIndex)
}

// Message is the error text without the item suffix.
func (e *ValidationError) Message() string {
	reason := e.Reason
	if reason == "" {
		reason = "is required"
	}
	return fmt.Sprintf("parameter %q %s", e.Field, reason)
}

// APIError is a failed call to the Voltage API. Status is 0 when no HTTP response was received.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *APIError) Error() string {
	return e.Message
}

// NodeError aborts a batch. It carries the enriched message and the index
// of the item that failed.
type NodeError struct {
	ItemIndex int
	Kind      ErrorKind
	Message   string
	Details   map[string]any
	Err       error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("%s (item %d)", e.Message, e.ItemIndex)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

// Classify maps an error from gathering or calling onto the error taxonomy.
func Classify(err error) ErrorKind {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return KindValidation
	}
	if err != nil && err.Error() == ErrMsgParseJSON {
		return KindResponseParse
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message == ErrMsgParseJSON {
			return KindResponseParse
		}
		if apiErr.Status > 0 {
			return KindUpstreamHTTP
		}
	}
	return KindUnknown
}

// Normalize turns an error into a human-readable message and a details object.
// requestData is echoed back under "requestData" for 422 responses.
func Normalize(err error, requestData any) (string, map[string]any) {
	details := map[string]any{}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		details["field"] = validationErr.Field
		details["itemIndex"] = validationErr.ItemIndex
		return validationErr.Message(), details
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		if err.Error() == ErrMsgParseJSON {
			return parseErrorMessage(0), details
		}
		return err.Error(), details
	}

	details["status"] = apiErr.Status
	details["code"] = apiErr.Code
	details["details"] = apiErr.Details

	if apiErr.Message == ErrMsgParseJSON {
		return parseErrorMessage(apiErr.Status), details
	}

	raw := apiErr.Message
	switch {
	case apiErr.Status == 401:
		return withRaw("Authentication failed: the Voltage API key is invalid or missing", raw), details
	case apiErr.Status == 403:
		return withRaw("Access denied: the API key is not permitted to access this resource", raw), details
	case apiErr.Status == 404:
		return withRaw("Not found: check the organization ID, environment ID and resource ID", raw), details
	case apiErr.Status == 422:
		details["requestData"] = requestData
		return withRaw("Validation error: the Voltage API rejected the request", raw), details
	case apiErr.Status >= 500:
		return withRaw(fmt.Sprintf("Voltage API server error (Status: %d)", apiErr.Status), raw), details
	default:
		return raw, details
	}
}

func parseErrorMessage(status int) string {
	if status > 0 {
		return fmt.Sprintf("Voltage API returned non-JSON response (Status: %d). This usually indicates an authentication issue or invalid organization ID. Please check your API credentials and organization ID.", status)
	}
	return "Voltage API returned non-JSON response. This usually indicates an authentication issue or invalid organization ID. Please check your API credentials and organization ID."
}

func withRaw(message, raw string) string {
	if raw == "" {
		return message
	}
	return message + ": " + raw
}
