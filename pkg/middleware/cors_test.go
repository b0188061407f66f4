package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func corsRequest(mw func(http.Handler) http.Handler, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rec, req)
	return rec
}

func TestCORS_WildcardInDevelopment(t *testing.T) {
	mw := CORS(DefaultCORSConfig())

	rec := corsRequest(mw, http.MethodGet, "https://example.com")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_ExplicitOriginAllowed(t *testing.T) {
	mw := CORS(CORSConfig{
		AllowedOrigins: []string{"https://sooqra.com"},
		Environment:    "production",
	})

	rec := corsRequest(mw, http.MethodGet, "https://sooqra.com")

	assert.Equal(t, "https://sooqra.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))
}

func TestCORS_UnknownOriginGetsNoAllowHeader(t *testing.T) {
	mw := CORS(CORSConfig{
		AllowedOrigins: []string{"https://sooqra.com"},
		Environment:    "production",
	})

	rec := corsRequest(mw, http.MethodGet, "https://evil.example")

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	// The request itself still reaches the handler; CORS is enforced by
	// the browser, not the server.
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	mw := CORS(DefaultCORSConfig())

	rec := corsRequest(mw, http.MethodOptions, "https://example.com")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
	assert.Equal(t, "3600", rec.Header().Get("Access-Control-Max-Age"))
}

func TestCORS_WildcardHonoredOutsideDevelopmentWhenExplicit(t *testing.T) {
	mw := CORS(CORSConfig{
		AllowedOrigins: []string{"*"},
		Environment:    "production",
	})

	rec := corsRequest(mw, http.MethodGet, "https://anything.example")

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
