package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lubanrahat/ShopMateEcommerce/internal/config"
	"github.com/lubanrahat/ShopMateEcommerce/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recommendTestConfig(apiURL string) *config.Config {
	return &config.Config{
		GeminiAPIKey: "test-key",
		GeminiAPIURL: apiURL,
		GeminiModel:  "test-model",
		AITimeout:    5 * time.Second,
	}
}

func geminiReply(text string) string {
	reply := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{"parts": []map[string]string{{"text": text}}}},
		},
	}
	raw, _ := json.Marshal(reply)
	return string(raw)
}

func TestRecommendService_Filter_ParsesArray(t *testing.T) {
	product := models.Product{ID: uuid.New(), Name: "Gaming Laptop", Price: 1200}
	payload, err := json.Marshal([]models.Product{product})
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "test-model:generateContent")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		fmt.Fprint(w, geminiReply(string(payload)))
	}))
	defer srv.Close()

	svc := NewRecommendService(recommendTestConfig(srv.URL))
	got := svc.Filter("a laptop for gaming", []models.Product{product})
	require.Len(t, got, 1)
	assert.Equal(t, product.ID, got[0].ID)
}

func TestRecommendService_Filter_StripsMarkdownFences(t *testing.T) {
	product := models.Product{ID: uuid.New(), Name: "Desk Lamp", Price: 30}
	payload, err := json.Marshal([]models.Product{product})
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, geminiReply("```json\n"+string(payload)+"\n```"))
	}))
	defer srv.Close()

	svc := NewRecommendService(recommendTestConfig(srv.URL))
	got := svc.Filter("a lamp", []models.Product{product})
	require.Len(t, got, 1)
	assert.Equal(t, "Desk Lamp", got[0].Name)
}

func TestRecommendService_Filter_SingleObjectFallback(t *testing.T) {
	product := models.Product{ID: uuid.New(), Name: "Desk Lamp", Price: 30}
	payload, err := json.Marshal(product)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, geminiReply(string(payload)))
	}))
	defer srv.Close()

	svc := NewRecommendService(recommendTestConfig(srv.URL))
	got := svc.Filter("a lamp", []models.Product{product})
	require.Len(t, got, 1)
	assert.Equal(t, product.ID, got[0].ID)
}

func TestRecommendService_Filter_EmptyOnFailure(t *testing.T) {
	product := models.Product{ID: uuid.New(), Name: "Desk Lamp"}

	t.Run("missing api key", func(t *testing.T) {
		svc := NewRecommendService(&config.Config{AITimeout: time.Second})
		assert.Empty(t, svc.Filter("anything", []models.Product{product}))
	})

	t.Run("upstream error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()
		svc := NewRecommendService(recommendTestConfig(srv.URL))
		assert.Empty(t, svc.Filter("anything", []models.Product{product}))
	})

	t.Run("unparseable content", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, geminiReply("sorry, I cannot help with that"))
		}))
		defer srv.Close()
		svc := NewRecommendService(recommendTestConfig(srv.URL))
		assert.Empty(t, svc.Filter("anything", []models.Product{product}))
	})

	t.Run("no products", func(t *testing.T) {
		svc := NewRecommendService(recommendTestConfig("http://unused"))
		assert.Empty(t, svc.Filter("anything", nil))
	})
}

func TestCleanJSONContent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"[]", "[]"},
		{"```json\n[]\n```", "[]"},
		{"```\n[]\n```", "[]"},
		{"  [1,2]  ", "[1,2]"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, cleanJSONContent(tc.in))
	}
}
