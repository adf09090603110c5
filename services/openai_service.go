package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

type OpenAIService struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewOpenAIService() *OpenAIService {
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o"
	}
	return &OpenAIService{
		apiKey:  os.Getenv("OPENAI_API_KEY"),
		model:   model,
		baseURL: defaultOpenAIBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

const imageSystemPrompt = "You are a nutrition expert analyzing food photos with portion estimation expertise. " +
	"Focus ONLY on actual food items that people eat. " +
	"IGNORE plates, bowls, utensils, tables, bamboo mats, decorative items, drinks, and background objects. " +
	"Provide realistic portion estimates as multipliers of standard servings (0.5x, 1x, 1.5x, 2x, etc.). " +
	"If you see multiple portions of the same food, specify the total amount. " +
	"Be conservative with portion estimates. " +
	"If NO FOOD is visible or you cannot identify any food items clearly, respond with 'NO_FOOD_DETECTED'."

const imageUserPrompt = "Analyze this food photo and list ONLY the edible food items with portion multipliers. " +
	"For each food item, estimate the portion size as a multiplier of a standard serving (0.5x, 1x, 1.5x, 2x, etc.). " +
	"Focus on main dishes, side dishes, and accompaniments that contribute significant calories. " +
	"Ignore garnishes, condiment packets, or tiny portions. " +
	"If you cannot clearly identify any food items, respond with 'NO_FOOD_DETECTED'. " +
	"If the image is too blurry, dark, or unclear, respond with 'IMAGE_UNCLEAR'. " +
	"Format as: '[portion multiplier]x [specific food name]' " +
	"Example: '1.5x steamed white rice, 1x roasted chicken thigh, 0.5x stir-fried vegetables'"

const textSystemPrompt = "You are a nutrition expert. Convert user meal descriptions into realistic, " +
	"standardized food descriptions for nutritional lookup. " +
	"Estimate portions conservatively based on typical serving sizes. " +
	"For common dishes like 'chicken rice', break down into components with realistic portions. " +
	"Use specific cooking methods and standard measurements. " +
	"If the text doesn't describe any actual food, respond with 'NO_FOOD_DESCRIBED'."

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (s *OpenAIService) AnalyzeImage(ctx context.Context, image []byte) (*AnalysisResult, error) {
	encoded := base64.StdEncoding.EncodeToString(image)
	req := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: imageSystemPrompt},
			{Role: "user", Content: []map[string]any{
				{"type": "text", "text": imageUserPrompt},
				{"type": "image_url", "image_url": map[string]string{
					"url": "data:image/jpeg;base64," + encoded,
				}},
			}},
		},
		MaxTokens:   400,
		Temperature: 0.2,
	}

	content, err := s.complete(ctx, req)
	if err != nil {
		return nil, err
	}

	switch content {
	case "NO_FOOD_DETECTED":
		return nil, &AnalysisError{Code: CodeNoFoodDetected}
	case "IMAGE_UNCLEAR":
		return nil, &AnalysisError{Code: CodeImageUnclear}
	}

	confidence := assessDescriptionQuality(content)
	if len(strings.TrimSpace(content)) < 5 {
		return nil, &AnalysisError{Code: CodeLowConfidence, Detail: content}
	}

	items, overall := parsePortions(content)
	return &AnalysisResult{
		Description:       content,
		Confidence:        confidence,
		OverallMultiplier: overall,
		PortionItems:      items,
	}, nil
}

func (s *OpenAIService) AnalyzeText(ctx context.Context, text string) (*AnalysisResult, error) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 3 {
		return nil, &AnalysisError{Code: CodeTextTooShort}
	}
	switch strings.ToLower(trimmed) {
	case "hello", "hi there", "testing", "test message", "just testing":
		return nil, &AnalysisError{Code: CodeNonFoodText}
	}

	req := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: textSystemPrompt},
			{Role: "user", Content: fmt.Sprintf(
				"Convert this meal description into a realistic food list with conservative portions: %s\n\n"+
					"Break down combo dishes into components. "+
					"If this doesn't describe actual food, respond with 'NO_FOOD_DESCRIBED'. "+
					"Example: 'chicken rice' becomes '1 cup steamed white rice, 100g roasted chicken thigh'",
				trimmed,
			)},
		},
		MaxTokens:   350,
		Temperature: 0.2,
	}

	content, err := s.complete(ctx, req)
	if err != nil {
		return nil, err
	}

	if content == "NO_FOOD_DESCRIBED" {
		return nil, &AnalysisError{Code: CodeNoFoodDescribed}
	}

	confidence := assessDescriptionQuality(content)
	if len(strings.TrimSpace(content)) < 5 {
		return nil, &AnalysisError{Code: CodeLowConfidence, Detail: content}
	}

	// Text input carries no visual portion cues.
	return &AnalysisResult{
		Description:       content,
		Confidence:        confidence,
		OverallMultiplier: 1.0,
	}, nil
}

func (s *OpenAIService) complete(ctx context.Context, payload chatRequest) (string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call OpenAI: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read OpenAI response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openAI API error %d: %s", resp.StatusCode, string(body))
	}

	var cr chatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return "", fmt.Errorf("failed to parse OpenAI JSON: %w", err)
	}
	if len(cr.Choices) == 0 || cr.Choices[0].Message.Content == "" {
		return "", &AnalysisError{Code: CodeAnalysisFailed, Detail: "no response from AI"}
	}

	content := strings.TrimSpace(cr.Choices[0].Message.Content)
	log.Printf("openai analysis: %s", content)
	return content, nil
}

var (
	portionPattern      = regexp.MustCompile(`(?i)(\d+\.?\d*)x\s+([^,]+)`)
	measurementPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\d+\s*(cup|cups|tablespoon|tablespoons|teaspoon|teaspoons|oz|ounce|ounces)`),
		regexp.MustCompile(`(?i)\d+\s*g\b`),
		regexp.MustCompile(`(?i)\d+\s*ml\b`),
		regexp.MustCompile(`(?i)\d+\s*(piece|pieces|slice|slices|serving|servings)`),
		regexp.MustCompile(`(?i)(small|medium|large|half|quarter)\s+\w+`),
	}
)

var foodWords = []string{
	"rice", "chicken", "beef", "pork", "fish", "vegetables", "salad", "soup",
	"bread", "pasta", "noodles", "egg", "cheese", "milk", "fruit", "meat",
	"beans", "potato", "tomato", "carrot", "broccoli", "spinach", "onion",
	"food", "meal", "eat", "ate", "lunch", "dinner", "breakfast", "snack",
	"sandwich", "burger", "pizza", "curry", "fried", "cook", "cooked",
}

var cookingMethods = []string{
	"grilled", "fried", "baked", "steamed", "boiled", "roasted", "sauteed",
	"stir-fried", "pan-fried", "deep-fried", "braised", "poached",
}

var redFlags = []string{
	"unclear", "cannot", "unable", "not sure", "maybe", "possibly",
	"plate", "bowl", "utensil", "table", "background", "decoration",
}

// assessDescriptionQuality scores a description by its food-specific
// vocabulary. Measurements, food words, and cooking methods count for it;
// hedging language and tableware count against.
func assessDescriptionQuality(description string) string {
	if len(strings.TrimSpace(description)) < 10 {
		return ConfidenceVeryLow
	}

	lower := strings.ToLower(description)
	score := 0

	for _, p := range measurementPatterns {
		if p.MatchString(description) {
			score++
		}
	}

	hits := 0
	for _, w := range foodWords {
		if strings.Contains(lower, w) {
			hits++
		}
	}
	if hits > 5 {
		hits = 5
	}
	score += hits

	for _, m := range cookingMethods {
		if strings.Contains(lower, m) {
			score++
			break
		}
	}

	for _, f := range redFlags {
		if strings.Contains(lower, f) {
			score -= 2
		}
	}

	switch {
	case score >= 3:
		return ConfidenceHigh
	case score >= 1:
		return ConfidenceMedium
	case len(strings.TrimSpace(description)) > 5:
		return ConfidenceLow
	default:
		return ConfidenceVeryLow
	}
}

// parsePortions extracts "1.5x steamed rice" style multipliers. The overall
// multiplier is the per-item average, or a keyword-based estimate when the
// description carries no explicit multipliers.
func parsePortions(description string) ([]PortionItem, float64) {
	matches := portionPattern.FindAllStringSubmatch(description, -1)

	var items []PortionItem
	var total float64
	for _, m := range matches {
		mult, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		items = append(items, PortionItem{
			Name:       strings.TrimSpace(m[2]),
			Multiplier: mult,
		})
		total += mult
	}

	if len(items) > 0 {
		avg := total / float64(len(items))
		return items, roundTo(avg, 2)
	}
	return nil, estimateOverallPortion(description)
}

func estimateOverallPortion(description string) float64 {
	lower := strings.ToLower(description)
	switch {
	case containsAny(lower, "large", "big", "huge", "jumbo"):
		return 1.5
	case containsAny(lower, "double", "two", "2x"):
		return 2.0
	case containsAny(lower, "small", "little", "mini"):
		return 0.75
	case containsAny(lower, "half", "1/2", "0.5"):
		return 0.5
	default:
		return 1.0
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func roundTo(v float64, places int) float64 {
	shift := 1.0
	for i := 0; i < places; i++ {
		shift *= 10
	}
	return float64(int64(v*shift+0.5)) / shift
}
