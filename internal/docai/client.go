package docai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"kassa/internal/config"
	"kassa/internal/constants"
)

// Client talks to the external document-understanding API.
type Client interface {
	Parse(ctx context.Context, content []byte, fileName string) (*prediction, error)
}

type httpClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewClient(cfg config.DocAIConfig) Client {
	return &httpClient{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

func (c *httpClient) Parse(ctx context.Context, content []byte, fileName string) (*prediction, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("document", fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Token "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("docai request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < constants.HTTPStatusOKMin || resp.StatusCode >= constants.HTTPStatusOKMax {
		return nil, fmt.Errorf("docai returned status: %d", resp.StatusCode)
	}

	var parsed parseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if parsed.Document.Inference.Prediction == nil {
		return nil, fmt.Errorf("docai response contains no prediction")
	}

	return parsed.Document.Inference.Prediction, nil
}
