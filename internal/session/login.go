package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"photojay_admin/internal/model"
)

// PasswordLogin is a TokenSource that logs in once with a user name and
// password and reuses the issued token for the rest of the session.
type PasswordLogin struct {
	baseURL    string
	userName   string
	password   string
	httpClient *http.Client

	mu    sync.Mutex
	token string
}

// NewPasswordLogin creates a PasswordLogin against the API at baseURL.
func NewPasswordLogin(baseURL, userName, password string, httpClient *http.Client) *PasswordLogin {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &PasswordLogin{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userName:   userName,
		password:   password,
		httpClient: httpClient,
	}
}

// Token returns the cached token, logging in on first use.
func (p *PasswordLogin) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" {
		return p.token, nil
	}

	payload, err := json.Marshal(model.LoginRequest{UserName: p.userName, Password: p.password})
	if err != nil {
		return "", fmt.Errorf("marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/auth/login", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", &model.TransportError{Op: "POST /api/auth/login", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &model.TransportError{Op: "POST /api/auth/login", StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &model.TransportError{Op: "POST /api/auth/login", StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var env model.Envelope[model.LoginResponse]
	if err := json.Unmarshal(body, &env); err != nil {
		return "", &model.TransportError{Op: "POST /api/auth/login", StatusCode: resp.StatusCode, Err: err}
	}
	if strings.TrimSpace(env.Data.Token) == "" {
		return "", ErrNoToken
	}

	p.token = env.Data.Token
	return p.token, nil
}
