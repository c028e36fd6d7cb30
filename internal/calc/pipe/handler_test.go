package pipe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Fluidcalc/internal/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerCalc(t *testing.T) {
	hist := repo.NewMemoryRepository(10)
	h := &Handler{History: hist}

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/tools/pipe/calc", strings.NewReader(body))
		w := httptest.NewRecorder()
		h.Calc(w, req)
		return w
	}

	t.Run("valid request", func(t *testing.T) {
		w := post(`{"fluid":"water","temperature_c":25,"mass_flow_kg_s":1,"length_m":100,"nps":4,"schedule":"40","material":"steel"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var res Result
		require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
		assert.Equal(t, "Total pressure drop: 0.0021 bar", res.Display.Headline)

		entries, err := hist.Recent(context.Background(), 5)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "pipe", entries[0].Panel)
		assert.Equal(t, res.Display.Headline, entries[0].Summary)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		w := post(`{"fluid":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown schedule", func(t *testing.T) {
		w := post(`{"fluid":"water","temperature_c":25,"mass_flow_kg_s":1,"length_m":100,"nps":4,"schedule":"999","material":"steel"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.True(t, strings.HasPrefix(body["error"], "Calculation error: "), body["error"])
	})
}
