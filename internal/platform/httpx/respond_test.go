package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONWritesStatusAndBody(t *testing.T) {
	res := httptest.NewRecorder()
	JSON(res, http.StatusOK, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "application/json", res.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, res.Body.String())
}

func TestProblemWritesDetailBody(t *testing.T) {
	res := httptest.NewRecorder()
	Problem(res, http.StatusServiceUnavailable, "Queue Unavailable", "queue inspection failed")

	assert.Equal(t, http.StatusServiceUnavailable, res.Code)

	var body ProblemDetail
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.Equal(t, "Queue Unavailable", body.Title)
	assert.Equal(t, http.StatusServiceUnavailable, body.Status)
	assert.Equal(t, "queue inspection failed", body.Detail)
}
