package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

type PaystackConfig struct {
	BaseURL   string
	SecretKey string
	PublicKey string
	Timeout   time.Duration
}

// PaystackClient talks to the Paystack REST API. Initialize opens a checkout
// session; Verify asks Paystack server-side whether a reference really was
// paid. Nothing downstream trusts a browser-side success callback on its own.
type PaystackClient struct {
	cfg  PaystackConfig
	http *http.Client
}

// GatewayRequest is one payment attempt as handed to the gateway. Amount is
// in the gateway's subunit (kobo).
type GatewayRequest struct {
	Reference string            `json:"reference"`
	Email     string            `json:"email"`
	Amount    int64             `json:"amount"`
	PublicKey string            `json:"public_key,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type InitializeResult struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// VerifyResult is the gateway's server-side answer for one reference. Amount
// is the kobo amount the gateway claims was paid; the reconciliation engine
// records the catalog amount regardless.
type VerifyResult struct {
	Reference string
	Status    string
	Amount    int64
	PaidAt    string
}

func NewPaystackClient(cfg PaystackConfig) *PaystackClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.paystack.co"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &PaystackClient{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}
}

func (c *PaystackClient) PublicKey() string {
	return c.cfg.PublicKey
}

func (c *PaystackClient) Initialize(ctx context.Context, req GatewayRequest) (*InitializeResult, error) {
	payload := map[string]any{
		"reference": req.Reference,
		"email":     req.Email,
		"amount":    req.Amount,
	}
	if len(req.Metadata) > 0 {
		payload["metadata"] = req.Metadata
	}

	var resp struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    struct {
			AuthorizationURL string `json:"authorization_url"`
			AccessCode       string `json:"access_code"`
			Reference        string `json:"reference"`
		} `json:"data"`
	}

	if err := c.do(ctx, http.MethodPost, "/transaction/initialize", payload, &resp); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, fmt.Errorf("paystack initialize rejected: %s", resp.Message)
	}

	return &InitializeResult{
		AuthorizationURL: resp.Data.AuthorizationURL,
		AccessCode:       resp.Data.AccessCode,
		Reference:        resp.Data.Reference,
	}, nil
}

func (c *PaystackClient) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	if reference == "" {
		return nil, fmt.Errorf("empty reference")
	}

	var resp struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    struct {
			Reference string `json:"reference"`
			Status    string `json:"status"`
			Amount    int64  `json:"amount"`
			PaidAt    string `json:"paid_at"`
		} `json:"data"`
	}

	path := "/transaction/verify/" + url.PathEscape(reference)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, fmt.Errorf("paystack verify rejected: %s", resp.Message)
	}

	return &VerifyResult{
		Reference: resp.Data.Reference,
		Status:    resp.Data.Status,
		Amount:    resp.Data.Amount,
		PaidAt:    resp.Data.PaidAt,
	}, nil
}

func (c *PaystackClient) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("paystack request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("paystack %s %s: status %d: %s", method, path, resp.StatusCode, string(data))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode paystack response: %w", err)
	}
	return nil
}
