package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pairtrack/internal/board"
	"pairtrack/internal/config"
	"pairtrack/internal/services"
)

// HTTPDoer describes the HTTP client used by the gateway service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type httpService struct {
	baseURL string
	token   string
	client  HTTPDoer
}

// NewConfiguredService selects the delivery backend from configuration: the
// HTTP gateway when one is configured, the local filesystem copy otherwise.
func NewConfiguredService(cfg *config.Config) Service {
	if cfg == nil {
		return NewSimpleService("", "")
	}
	if !cfg.GatewayEnabled() {
		return NewSimpleService(cfg.Paths.AssetsDir, cfg.Paths.ClientDir)
	}
	timeout := cfg.Gateway.RequestTimeout
	if timeout <= 0 {
		timeout = 30
	}
	return NewHTTPService(cfg.Gateway.URL, cfg.Gateway.Token, &http.Client{Timeout: time.Duration(timeout) * time.Second})
}

// NewHTTPService constructs a gateway-backed delivery service.
func NewHTTPService(baseURL, token string, client HTTPDoer) Service {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpService{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		client:  client,
	}
}

type deliverRequest struct {
	PairNumber int `json:"pairNumber"`
}

type deliverResponse struct {
	Success     bool     `json:"success"`
	PairNumber  int      `json:"pairNumber"`
	FolderName  string   `json:"folderName"`
	FilesCopied []string `json:"filesCopied"`
	Destination string   `json:"destination"`
	Error       string   `json:"error"`
}

type descriptionRequest struct {
	PairNumber  int    `json:"pairNumber"`
	Description string `json:"description"`
}

func (s *httpService) Deliver(ctx context.Context, pairNumber int) (*Result, error) {
	if !board.ValidPairNumber(pairNumber) {
		return nil, services.Wrap(services.ErrValidation, "delivery", "deliver", fmt.Sprintf("invalid pair number %d (1-%d)", pairNumber, board.MaxPairNumber), nil)
	}

	var payload deliverResponse
	if err := s.post(ctx, "/deliver", deliverRequest{PairNumber: pairNumber}, &payload); err != nil {
		return nil, err
	}
	return &Result{
		PairNumber:  pairNumber,
		FolderName:  payload.FolderName,
		Destination: payload.Destination,
		Copied:      payload.FilesCopied,
	}, nil
}

func (s *httpService) SyncDescription(ctx context.Context, pairNumber int, text string) error {
	if !board.ValidPairNumber(pairNumber) {
		return services.Wrap(services.ErrValidation, "delivery", "sync description", fmt.Sprintf("invalid pair number %d (1-%d)", pairNumber, board.MaxPairNumber), nil)
	}
	return s.post(ctx, "/description", descriptionRequest{PairNumber: pairNumber, Description: text}, nil)
}

func (s *httpService) post(ctx context.Context, path string, body any, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode gateway request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransport, "delivery", "gateway", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return services.Wrap(services.ErrTransport, "delivery", "gateway", "read response", err)
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		message := gatewayError(data)
		switch resp.StatusCode {
		case http.StatusNotFound:
			return services.Wrap(services.ErrNotFound, "delivery", "gateway", message, nil)
		case http.StatusBadRequest:
			return services.Wrap(services.ErrValidation, "delivery", "gateway", message, nil)
		default:
			return services.Wrap(services.ErrTransport, "delivery", "gateway", fmt.Sprintf("status %d: %s", resp.StatusCode, message), nil)
		}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return services.Wrap(services.ErrTransport, "delivery", "gateway", "decode response", err)
		}
	}
	return nil
}

func gatewayError(data []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(data))
}
