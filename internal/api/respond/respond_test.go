package respond

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestData(t *testing.T) {
	rec := httptest.NewRecorder()

	Data(rec, 200, map[string]string{"id": "x"})

	require.Equal(t, 200, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decode(t, rec)
	require.Equal(t, true, body["success"])
	require.NotContains(t, body, "count")
}

func TestListIncludesCount(t *testing.T) {
	rec := httptest.NewRecorder()

	List(rec, 200, []string{"a", "b"}, 2)

	body := decode(t, rec)
	require.Equal(t, true, body["success"])
	require.Equal(t, float64(2), body["count"])
}

func TestListZeroCountSerialized(t *testing.T) {
	rec := httptest.NewRecorder()

	List(rec, 200, []string{}, 0)

	body := decode(t, rec)
	require.Equal(t, float64(0), body["count"])
}

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/events", nil)

	Error(rec, req, 500, "Internal server error", errors.New("boom"))

	require.Equal(t, 500, rec.Code)

	body := decode(t, rec)
	require.Equal(t, false, body["success"])
	require.Equal(t, "Internal server error", body["error"])
	require.NotContains(t, body, "details")
}

func TestValidationFailed(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/events", nil)

	ValidationFailed(rec, req, []string{`"title" is required`})

	require.Equal(t, 400, rec.Code)

	body := decode(t, rec)
	require.Equal(t, "Validation failed", body["error"])
	require.Len(t, body["details"], 1)
}
