package testutil

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Envelope is the decoded standard API response body.
type Envelope struct {
	Success bool                   `json:"success"`
	Data    json.RawMessage        `json:"data"`
	Error   map[string]interface{} `json:"error"`
	Meta    map[string]interface{} `json:"meta"`
}

// DecodeEnvelope parses a recorded response body into the envelope.
func DecodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()

	var resp Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "Failed to parse response body")
	return resp
}

// DecodeData requires a success envelope and unmarshals its data payload into out.
func DecodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()

	resp := DecodeEnvelope(t, w)
	require.True(t, resp.Success, "expected success response, got: %s", w.Body.String())
	require.NoError(t, json.Unmarshal(resp.Data, out), "Failed to unmarshal data payload")
}

// AssertErrorResponse asserts the recorded response is an error envelope
// carrying the expected error code.
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedCode string) {
	t.Helper()

	resp := DecodeEnvelope(t, w)
	assert.False(t, resp.Success, "Expected success to be false")
	require.NotNil(t, resp.Error, "Expected error object in response")
	assert.Equal(t, expectedCode, resp.Error["code"], "Unexpected error code")
}
