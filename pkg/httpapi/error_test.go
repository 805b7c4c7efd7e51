package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteError(rec, http.StatusNotFound, "NOT_FOUND", "Plant not found", map[string]string{"request_id": "r1"}))

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"code":"NOT_FOUND","message":"Plant not found","meta":{"request_id":"r1"}}`, rec.Body.String())
}

func TestRequestMeta(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/plants", nil)
	rec := httptest.NewRecorder()
	require.Nil(t, RequestMeta(rec, r, "X-Request-ID"))

	rec.Header().Set("X-Request-ID", "from-response")
	require.Equal(t, map[string]string{"request_id": "from-response"}, RequestMeta(rec, r, "X-Request-ID"))

	r.Header.Set("X-Request-ID", "from-request")
	require.Equal(t, map[string]string{"request_id": "from-request"}, RequestMeta(rec, r, "X-Request-ID"))
}

func TestDecodeJSON_KeepsNumbers(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"id": 9007199254740993}`))
	var body map[string]any
	require.NoError(t, DecodeJSON(r, &body))
	require.Equal(t, "9007199254740993", body["id"].(interface{ String() string }).String())
}
