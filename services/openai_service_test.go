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

func newTestOpenAI(srv *httptest.Server) *OpenAIService {
	return &OpenAIService{
		apiKey:  "test-key",
		model:   "gpt-4o",
		baseURL: srv.URL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func chatReply(content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": content}},
			},
		})
	}
}

func TestAnalyzeTextSuccess(t *testing.T) {
	srv := httptest.NewServer(chatReply("1 cup steamed white rice, 100g roasted chicken thigh"))
	defer srv.Close()

	res, err := newTestOpenAI(srv).AnalyzeText(context.Background(), "chicken rice")
	require.NoError(t, err)
	assert.Equal(t, "1 cup steamed white rice, 100g roasted chicken thigh", res.Description)
	assert.Equal(t, ConfidenceHigh, res.Confidence)
	assert.Equal(t, 1.0, res.OverallMultiplier)
}

func TestAnalyzeTextRejectsShortInput(t *testing.T) {
	svc := newTestOpenAI(httptest.NewServer(chatReply("unused")))

	_, err := svc.AnalyzeText(context.Background(), "ok")
	assert.Equal(t, CodeTextTooShort, AnalysisCode(err))
}

func TestAnalyzeTextRejectsGreetings(t *testing.T) {
	svc := newTestOpenAI(httptest.NewServer(chatReply("unused")))

	for _, input := range []string{"hello", "Testing", "just testing"} {
		_, err := svc.AnalyzeText(context.Background(), input)
		assert.Equal(t, CodeNonFoodText, AnalysisCode(err), "input %q", input)
	}
}

func TestAnalyzeTextNoFoodDescribed(t *testing.T) {
	srv := httptest.NewServer(chatReply("NO_FOOD_DESCRIBED"))
	defer srv.Close()

	_, err := newTestOpenAI(srv).AnalyzeText(context.Background(), "my homework")
	assert.Equal(t, CodeNoFoodDescribed, AnalysisCode(err))
}

func TestAnalyzeImageEdgeCodes(t *testing.T) {
	cases := map[string]string{
		"NO_FOOD_DETECTED": CodeNoFoodDetected,
		"IMAGE_UNCLEAR":    CodeImageUnclear,
	}
	for reply, wantCode := range cases {
		srv := httptest.NewServer(chatReply(reply))
		_, err := newTestOpenAI(srv).AnalyzeImage(context.Background(), []byte("jpeg"))
		assert.Equal(t, wantCode, AnalysisCode(err))
		srv.Close()
	}
}

func TestAnalyzeImageParsesPortions(t *testing.T) {
	srv := httptest.NewServer(chatReply("1.5x steamed white rice, 1x roasted chicken thigh, 0.5x stir-fried vegetables"))
	defer srv.Close()

	res, err := newTestOpenAI(srv).AnalyzeImage(context.Background(), []byte("jpeg"))
	require.NoError(t, err)
	require.Len(t, res.PortionItems, 3)
	assert.Equal(t, "steamed white rice", res.PortionItems[0].Name)
	assert.Equal(t, 1.5, res.PortionItems[0].Multiplier)
	assert.InDelta(t, 1.0, res.OverallMultiplier, 0.001)
}

func TestAnalyzeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestOpenAI(srv).AnalyzeText(context.Background(), "chicken rice")
	assert.Error(t, err)
}

func TestAssessDescriptionQuality(t *testing.T) {
	assert.Equal(t, ConfidenceHigh, assessDescriptionQuality("1 cup steamed white rice, 100g roasted chicken thigh"))
	assert.Equal(t, ConfidenceMedium, assessDescriptionQuality("some rice on the side"))
	assert.Equal(t, ConfidenceVeryLow, assessDescriptionQuality("meh"))

	// Hedging language drags the score down.
	high := assessDescriptionQuality("1 cup steamed rice with grilled chicken")
	hedged := assessDescriptionQuality("possibly a plate of something, cannot tell")
	assert.Equal(t, ConfidenceHigh, high)
	assert.NotEqual(t, ConfidenceHigh, hedged)
}

func TestEstimateOverallPortion(t *testing.T) {
	assert.Equal(t, 1.5, estimateOverallPortion("a large plate of noodles"))
	assert.Equal(t, 2.0, estimateOverallPortion("double cheeseburger"))
	assert.Equal(t, 0.75, estimateOverallPortion("small bowl of soup"))
	assert.Equal(t, 0.5, estimateOverallPortion("half a sandwich"))
	assert.Equal(t, 1.0, estimateOverallPortion("chicken rice"))
}
