package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	t.Parallel()

	handler := NewRootHandler("1.0.0", newTestLogger())

	req := httptest.NewRequest("GET", "/", nil)
	recorder := httptest.NewRecorder()

	handler.Root(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

	var resp RootResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))

	assert.Equal(t, "Retro Video Game Exchange API", resp.Message)
	assert.Equal(t, "1.0.0", resp.Version)
	assert.Equal(t, "/docs", resp.Docs)

	assert.Equal(t, RootLinks{
		Self:        "/",
		Users:       "/users",
		Games:       "/games",
		GamesSearch: "/games/search",
		TradeOffers: "/trade-offers",
		Docs:        "/docs",
	}, resp.Links)
}

func TestNewRootHandlerRequiresLogger(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		NewRootHandler("1.0.0", nil)
	})
}
