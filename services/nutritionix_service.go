package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/ngfenglong/JiakAIBot/models"
)

const defaultNutritionixBaseURL = "https://trackapi.nutritionix.com/v2"

// NutritionixService resolves free-text food descriptions through the
// Nutritionix natural-language endpoint. Lookups degrade instead of
// failing: any provider error yields zeroed totals with Degraded set so
// the meal flow can continue.
type NutritionixService struct {
	appID   string
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewNutritionixService() *NutritionixService {
	return &NutritionixService{
		appID:   os.Getenv("NUTRITIONIX_APP_ID"),
		apiKey:  os.Getenv("NUTRITIONIX_API_KEY"),
		baseURL: defaultNutritionixBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type nutrientsResponse struct {
	Foods []struct {
		FoodName    string  `json:"food_name"`
		ServingQty  float64 `json:"serving_qty"`
		ServingGram float64 `json:"serving_weight_grams"`
		Calories    float64 `json:"nf_calories"`
		Protein     float64 `json:"nf_protein"`
		Carbs       float64 `json:"nf_total_carbohydrate"`
		Fat         float64 `json:"nf_total_fat"`
		Fiber       float64 `json:"nf_dietary_fiber"`
		Sugar       float64 `json:"nf_sugars"`
		Sodium      float64 `json:"nf_sodium"`
	} `json:"foods"`
}

func (s *NutritionixService) LookupNutrition(ctx context.Context, description string, multiplier float64) (*NutritionResult, error) {
	if multiplier <= 0 {
		multiplier = 1.0
	}

	data, err := s.queryNutrients(ctx, description)
	if err != nil {
		log.Printf("nutrition lookup failed for %q: %v", description, err)
		return degradedResult(multiplier), nil
	}
	if len(data.Foods) == 0 {
		return degradedResult(multiplier), nil
	}

	var raw models.Nutrition
	items := make([]NutritionItem, 0, len(data.Foods))
	for _, f := range data.Foods {
		raw = raw.Add(models.Nutrition{
			Calories: f.Calories,
			Protein:  f.Protein,
			Carbs:    f.Carbs,
			Fat:      f.Fat,
			Fiber:    f.Fiber,
			Sugar:    f.Sugar,
			Sodium:   f.Sodium,
		})
		items = append(items, NutritionItem{
			Name:     f.FoodName,
			Grams:    f.ServingGram,
			Calories: f.Calories,
		})
	}

	return &NutritionResult{
		Totals:     raw.Scale(multiplier),
		Raw:        raw,
		Multiplier: multiplier,
		Items:      items,
	}, nil
}

func (s *NutritionixService) queryNutrients(ctx context.Context, description string) (*nutrientsResponse, error) {
	payload := map[string]string{
		"query":    description,
		"timezone": "US/Eastern",
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal nutrients payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/natural/nutrients", bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to create nutrients request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-app-id", s.appID)
	req.Header.Set("x-app-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Nutritionix: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Nutritionix response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nutritionix API error %d: %s", resp.StatusCode, string(body))
	}

	var nr nutrientsResponse
	if err := json.Unmarshal(body, &nr); err != nil {
		return nil, fmt.Errorf("failed to parse Nutritionix JSON: %w", err)
	}
	return &nr, nil
}

func degradedResult(multiplier float64) *NutritionResult {
	return &NutritionResult{
		Multiplier: multiplier,
		Degraded:   true,
	}
}
