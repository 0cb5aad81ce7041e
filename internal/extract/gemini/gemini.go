// Package gemini talks to the Google Generative Language API: the image is
// first pushed to the file-hosting endpoint, then the model is asked for the
// meter reading with the hosted file attached.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmaraschin/medidor/internal/extract"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// request/response types mirror the Generative Language API structure.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text     string    `json:"text,omitempty"`
	FileData *fileData `json:"file_data,omitempty"`
}

type fileData struct {
	MimeType string `json:"mime_type"`
	FileURI  string `json:"file_uri"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type uploadResponse struct {
	File struct {
		Name     string `json:"name"`
		URI      string `json:"uri"`
		MimeType string `json:"mimeType"`
	} `json:"file"`
}

type Client struct {
	apiKey  string
	model   string
	client  *http.Client
	baseURL string
}

func NewClient(apiKey, model string) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{},
		baseURL: defaultBaseURL,
	}
}

// Extract hosts the image with the file API and asks the model for the
// digits on the meter display. A response matching the not-found sentinel
// is reported via Reading.Found, not as an error.
func (c *Client) Extract(ctx context.Context, image []byte, mimeType, displayName string) (*extract.Reading, error) {
	uri, err := c.uploadImage(ctx, image, mimeType, displayName)
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	text, err := c.generate(ctx, uri, mimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to generate reading: %w", err)
	}

	answer := strings.TrimSpace(text)
	if answer == extract.NotFoundSentinel {
		return &extract.Reading{Found: false, ImageURL: uri}, nil
	}
	return &extract.Reading{Value: answer, Found: true, ImageURL: uri}, nil
}

func (c *Client) uploadImage(ctx context.Context, image []byte, mimeType, displayName string) (string, error) {
	url := fmt.Sprintf("%s/upload/v1beta/files?key=%s", c.baseURL, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(image))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mimeType)
	req.Header.Set("X-Goog-Upload-Protocol", "raw")
	req.Header.Set("X-Goog-File-Name", displayName)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call file api: %w", err)
	}
	defer closeBody(resp, "file api")

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("file api returned status %d: %s", resp.StatusCode, errBody)
	}

	var respBody uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return "", fmt.Errorf("failed to decode file api response: %w", err)
	}
	if respBody.File.URI == "" {
		return "", fmt.Errorf("file api response carries no uri")
	}
	return respBody.File.URI, nil
}

func (c *Client) generate(ctx context.Context, fileURI, mimeType string) (string, error) {
	body := generateRequest{
		Contents: []content{{
			Parts: []part{
				{FileData: &fileData{MimeType: mimeType, FileURI: fileURI}},
				{Text: extract.Prompt},
			},
		}},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call model: %w", err)
	}
	defer closeBody(resp, "model")

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("model returned status %d: %s", resp.StatusCode, errBody)
	}

	var respBody generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return "", fmt.Errorf("failed to decode model response: %w", err)
	}

	for _, cand := range respBody.Candidates {
		for _, p := range cand.Content.Parts {
			if p.Text != "" {
				return p.Text, nil
			}
		}
	}
	return "", fmt.Errorf("model response carries no text")
}

func closeBody(resp *http.Response, label string) {
	if err := resp.Body.Close(); err != nil {
		slog.Error("failed to close response body", "api", label, "error", err)
	}
}
