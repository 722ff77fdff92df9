package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"lending/core"
	"lending/service/bridge"
	"lending/service/lending"
	"lending/service/market"
	"lending/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapResponse(t *testing.T) {
	cfg := &core.Config{}
	store := memory.New()
	s := New(
		cfg,
		lending.New(store, nil, nil, nil),
		bridge.New(store, nil, nil, cfg),
		market.New(store, nil, nil),
		nil,
		store,
	)
	h := s.HandleRestAPI()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/transactions", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []*core.Transaction `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	assert.NotNil(t, body.Data)
	assert.Empty(t, body.Data)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/nothing/here", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"code":404`)
}
