package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNutritionix(srv *httptest.Server) *NutritionixService {
	return &NutritionixService{
		appID:   "test-app",
		apiKey:  "test-key",
		baseURL: srv.URL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func TestLookupNutritionScalesAndKeepsRaw(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/natural/nutrients", r.URL.Path)
		assert.Equal(t, "test-app", r.Header.Get("x-app-id"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "chicken rice", body["query"])

		json.NewEncoder(w).Encode(map[string]any{
			"foods": []map[string]any{
				{"food_name": "white rice", "nf_calories": 200.0, "nf_protein": 4.0, "nf_total_carbohydrate": 45.0},
				{"food_name": "roast chicken", "nf_calories": 250.0, "nf_protein": 26.0, "nf_total_fat": 12.0},
			},
		})
	}))
	defer srv.Close()

	res, err := newTestNutritionix(srv).LookupNutrition(context.Background(), "chicken rice", 2.0)
	require.NoError(t, err)

	assert.False(t, res.Degraded)
	assert.InDelta(t, 450.0, res.Raw.Calories, 0.001)
	assert.InDelta(t, 900.0, res.Totals.Calories, 0.001)
	assert.InDelta(t, 60.0, res.Totals.Protein, 0.001)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "white rice", res.Items[0].Name)
}

func TestLookupNutritionDegradesOnProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	res, err := newTestNutritionix(srv).LookupNutrition(context.Background(), "chicken rice", 1.5)
	require.NoError(t, err, "provider failures degrade, never fail the flow")
	assert.True(t, res.Degraded)
	assert.Equal(t, 0.0, res.Totals.Calories)
	assert.Equal(t, 1.5, res.Multiplier)
}

func TestLookupNutritionDegradesOnEmptyFoods(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"foods": []any{}})
	}))
	defer srv.Close()

	res, err := newTestNutritionix(srv).LookupNutrition(context.Background(), "nothing", 1.0)
	require.NoError(t, err)
	assert.True(t, res.Degraded)
}
