//go:build unit || e2e

package httptest

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"booking-lifecycle/internal/handler/httperr"

	"github.com/stretchr/testify/assert"
)

// ErrorBody mirrors httperr.Response as clients receive it.
type ErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
	RequestID string               `json:"request_id"`
	Detail    []httperr.FieldError `json:"detail"`
}

func AssertSuccessResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, targetStruct any) {
	t.Helper()

	if !assert.Equal(t, expectedStatus, w.Code,
		fmt.Sprintf("Expected status %d, got %d. Response: %s", expectedStatus, w.Code, w.Body.String())) {
		return
	}

	if expectedStatus >= 200 && expectedStatus < 300 && targetStruct != nil {
		err := json.Unmarshal(w.Body.Bytes(), targetStruct)
		assert.NoError(t, err, fmt.Sprintf("Failed to decode response JSON: %s", w.Body.String()))
	}
}

// AssertErrorResponse checks the status and that the error message contains
// expectedErrorMsg, and returns the decoded body for further checks.
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedErrorMsg string) ErrorBody {
	t.Helper()

	assert.Equal(t, expectedStatus, w.Code,
		fmt.Sprintf("Expected status %d, got %d. Response: %s", expectedStatus, w.Code, w.Body.String()))

	var body ErrorBody
	err := json.Unmarshal(w.Body.Bytes(), &body)
	assert.NoError(t, err, fmt.Sprintf("Failed to decode error response JSON: %s", w.Body.String()))

	if expectedErrorMsg != "" {
		assert.Contains(t, body.Error.Message, expectedErrorMsg,
			"Response error message doesn't contain expected text")
	}
	return body
}

// AssertRejectedFields checks a 400 names exactly the given request fields.
func AssertRejectedFields(t *testing.T, w *httptest.ResponseRecorder, fields ...string) {
	t.Helper()

	body := AssertErrorResponse(t, w, 400, "Invalid request")
	got := make([]string, 0, len(body.Detail))
	for _, fe := range body.Detail {
		got = append(got, fe.Field)
	}
	assert.ElementsMatch(t, fields, got, "rejected fields mismatch")
}
