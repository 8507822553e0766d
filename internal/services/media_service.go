package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lubanrahat/ShopMateEcommerce/internal/config"
	"github.com/lubanrahat/ShopMateEcommerce/internal/models"
)

var ErrMediaNotConfigured = errors.New("image host is not configured")

// MediaService proxies uploads to the external image host and deletes assets
// by their opaque public id.
type MediaService struct {
	cfg    *config.Config
	client *http.Client
}

func NewMediaService(cfg *config.Config) *MediaService {
	return &MediaService{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type mediaUploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	PublicID  string `json:"public_id"`
}

func (s *MediaService) Upload(file *multipart.FileHeader) (*models.ProductImage, error) {
	if s.cfg.MediaAPIURL == "" {
		return nil, ErrMediaNotConfigured
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)
	go func() {
		defer pw.Close()
		defer writer.Close()
		if err := writer.WriteField("folder", s.cfg.MediaFolder); err != nil {
			pw.CloseWithError(err)
			return
		}
		part, err := writer.CreateFormFile("file", file.Filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, src); err != nil {
			pw.CloseWithError(err)
		}
	}()

	req, err := http.NewRequest(http.MethodPost, strings.TrimRight(s.cfg.MediaAPIURL, "/")+"/upload", pr)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.cfg.MediaAPIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image host upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("image host upload failed (status %d): %s", resp.StatusCode, string(body))
	}

	var out mediaUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}

	imageURL := out.SecureURL
	if imageURL == "" {
		imageURL = out.URL
	}
	return &models.ProductImage{URL: imageURL, PublicID: out.PublicID}, nil
}

func (s *MediaService) Delete(publicID string) error {
	if s.cfg.MediaAPIURL == "" {
		return ErrMediaNotConfigured
	}
	if publicID == "" {
		return nil
	}

	endpoint := strings.TrimRight(s.cfg.MediaAPIURL, "/") + "/destroy/" + url.PathEscape(publicID)
	req, err := http.NewRequest(http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.MediaAPIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("image host delete failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("image host delete failed (status %d)", resp.StatusCode)
	}
	return nil
}
