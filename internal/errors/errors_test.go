package errors

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantStatus int
		wantCode   string
	}{
		{name: "prerequisite", err: PrerequisiteError(errors.New("No data loaded. Call load_data() first.")), wantStatus: http.StatusConflict, wantCode: "PREREQUISITE_MISSING"},
		{name: "invalid request", err: InvalidRequestWithError(errors.New("unexpected EOF")), wantStatus: http.StatusBadRequest, wantCode: "INVALID_REQUEST"},
		{name: "validation", err: NewValidationErrors([]ValidationError{{Field: "steps", Message: "must be positive"}}), wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_FAILED"},
		{name: "not found", err: NotFoundError("session"), wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "payload too large", err: ErrPayloadTooLarge, wantStatus: http.StatusRequestEntityTooLarge, wantCode: "PAYLOAD_TOO_LARGE"},
		{name: "internal", err: ErrInternalServer, wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantCode, tt.err.ErrorCode)
			assert.Equal(t, tt.err.Message, tt.err.Error())
		})
	}

	assert.Equal(t, "No data loaded. Call load_data() first.",
		PrerequisiteError(errors.New("No data loaded. Call load_data() first.")).Message)
}

func TestWriteSimpleError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/forecast", nil)

	WriteSimpleError(rec, req, http.StatusBadRequest, "Missing required data field")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Missing required data field"}`, rec.Body.String())
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	problem := NewProblemDetails(http.StatusConflict, TypePrerequisite, "Prerequisite Missing", "No data loaded.", "/dashboard").
		WithExtension("trace_id", "abc").
		WithExtension("status", 999)

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, TypePrerequisite, got["type"])
	assert.Equal(t, "abc", got["trace_id"])
	// standard members win over extensions
	assert.Equal(t, float64(http.StatusConflict), got["status"])

	empty := &ProblemDetails{Type: TypeInternal, Title: "x", Status: 500}
	data, err = json.Marshal(empty.WithExtension("k", "v"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "detail")
	assert.NotContains(t, string(data), "instance")
}
