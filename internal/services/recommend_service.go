package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lubanrahat/ShopMateEcommerce/internal/config"
	"github.com/lubanrahat/ShopMateEcommerce/internal/models"
)

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// RecommendService asks a generative-text API to filter a product list by a
// natural-language query. Best-effort: any failure yields an empty result.
type RecommendService struct {
	cfg    *config.Config
	client *http.Client
}

func NewRecommendService(cfg *config.Config) *RecommendService {
	return &RecommendService{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.AITimeout},
	}
}

func (s *RecommendService) Filter(prompt string, products []models.Product) []models.Product {
	if s.cfg.GeminiAPIKey == "" {
		slog.Error("generative recommendation skipped", "error", "missing GEMINI_API_KEY")
		return []models.Product{}
	}
	if len(products) == 0 {
		return []models.Product{}
	}

	catalog, err := json.Marshal(products)
	if err != nil {
		slog.Error("failed to encode product catalog", "error", err)
		return []models.Product{}
	}

	text := fmt.Sprintf(`You are an intelligent product recommendation engine.
Here is a JSON list of available products:
%s

User query: %q

Return ONLY a valid JSON array of matching products.
Each product should come directly from the list above (do not create new ones).
Only return the filtered JSON - no explanations, no markdown formatting.`, catalog, prompt)

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: text}}}},
	})
	if err != nil {
		slog.Error("failed to marshal recommendation request", "error", err)
		return []models.Product{}
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", s.cfg.GeminiAPIURL, s.cfg.GeminiModel, s.cfg.GeminiAPIKey)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		slog.Error("failed to build recommendation request", "error", err)
		return []models.Product{}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Error("generative API call failed", "error", err)
		return []models.Product{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Error("generative API error", "status", resp.StatusCode)
		return []models.Product{}
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		slog.Error("failed to decode generative response", "error", err)
		return []models.Product{}
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return []models.Product{}
	}

	content := cleanJSONContent(out.Candidates[0].Content.Parts[0].Text)

	var filtered []models.Product
	if err := json.Unmarshal([]byte(content), &filtered); err != nil {
		var single models.Product
		if err := json.Unmarshal([]byte(content), &single); err != nil {
			slog.Error("failed to parse generative output", "error", err)
			return []models.Product{}
		}
		filtered = []models.Product{single}
	}
	return filtered
}

func cleanJSONContent(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
	}
	if strings.HasSuffix(content, "```") {
		content = strings.TrimSuffix(content, "```")
	}
	return strings.TrimSpace(content)
}
