package problems

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteMergesExtras(t *testing.T) {
	rec := httptest.NewRecorder()
	Conflict(rec, `instance name "dupe-org" is taken`, map[string]any{"reason": "taken"})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Conflict", body["title"])
	assert.Equal(t, float64(http.StatusConflict), body["status"])
	assert.Equal(t, "taken", body["reason"])
	assert.Contains(t, body["type"], "/conflict")
}

func TestWriteOmitsEmptyDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	TooManyRequests(rec)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	_, hasDetail := body["detail"]
	assert.False(t, hasDetail)
}
