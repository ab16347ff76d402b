package healthprobe

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func probe(handler http.HandlerFunc) int {
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec.Code
}

func TestHealthAlwaysHealthy(t *testing.T) {
	h := New()
	assert.Equal(t, http.StatusOK, probe(h.Health()))
}

func TestReadyGatedOnFlag(t *testing.T) {
	h := New()
	assert.Equal(t, http.StatusServiceUnavailable, probe(h.Ready()))

	h.SetReady(true)
	assert.Equal(t, http.StatusOK, probe(h.Ready()))

	h.SetReady(false)
	assert.Equal(t, http.StatusServiceUnavailable, probe(h.Ready()))
}

func TestReadyGatedOnCheck(t *testing.T) {
	h := New()
	h.SetReady(true)

	published := false
	h.SetReadyCheck(func() bool { return published })

	assert.Equal(t, http.StatusServiceUnavailable, probe(h.Ready()))

	published = true
	assert.Equal(t, http.StatusOK, probe(h.Ready()))
}
