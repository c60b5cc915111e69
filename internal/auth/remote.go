package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// RemoteProvider обращается к внешнему сервису аутентификации с GoTrue-совместимым API.
type RemoteProvider struct {
	baseURL    string
	apiKey     string
	httpClient *retryablehttp.Client

	mu     sync.Mutex
	tokens map[string]string
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type remoteUser struct {
	ID string `json:"id"`
}

type tokenResponse struct {
	AccessToken string     `json:"access_token"`
	User        remoteUser `json:"user"`
}

type signUpResponse struct {
	ID          string     `json:"id"`
	AccessToken string     `json:"access_token"`
	User        remoteUser `json:"user"`
}

// NewRemoteProvider создаёт клиент сервиса аутентификации по указанному адресу.
func NewRemoteProvider(baseURL, apiKey string, logger *zap.Logger) *RemoteProvider {
	base := strings.TrimRight(baseURL, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	c := retryablehttp.NewClient()
	c.RetryMax = 2
	c.RetryWaitMin = 100 * time.Millisecond
	c.RetryWaitMax = time.Second
	c.HTTPClient.Timeout = 5 * time.Second
	if logger != nil {
		c.Logger = leveledLogger{logger.Sugar()}
	} else {
		c.Logger = nil
	}

	return &RemoteProvider{
		baseURL:    base,
		apiKey:     apiKey,
		httpClient: c,
		tokens:     make(map[string]string),
	}
}

// SignUp регистрирует пользователя во внешнем сервисе.
func (p *RemoteProvider) SignUp(ctx context.Context, email, password string) (string, error) {
	var resp signUpResponse
	status, err := p.post(ctx, "/auth/v1/signup", "", credentials{Email: email, Password: password}, &resp)
	if err != nil {
		return "", err
	}

	switch status {
	case http.StatusOK, http.StatusCreated:
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return "", ErrUserExists
	default:
		return "", fmt.Errorf("sign up: unexpected status: %d", status)
	}

	id := resp.User.ID
	if id == "" {
		id = resp.ID
	}
	if id == "" {
		return "", fmt.Errorf("sign up: empty user id in response")
	}

	if resp.AccessToken != "" {
		p.storeToken(id, resp.AccessToken)
	}
	return id, nil
}

// SignIn выполняет вход по паролю и запоминает токен доступа для выхода.
func (p *RemoteProvider) SignIn(ctx context.Context, email, password string) (string, error) {
	var resp tokenResponse
	status, err := p.post(ctx, "/auth/v1/token?grant_type=password", "", credentials{Email: email, Password: password}, &resp)
	if err != nil {
		return "", err
	}

	switch status {
	case http.StatusOK:
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusUnprocessableEntity:
		return "", ErrInvalidCredentials
	default:
		return "", fmt.Errorf("sign in: unexpected status: %d", status)
	}

	if resp.User.ID == "" {
		return "", fmt.Errorf("sign in: empty user id in response")
	}

	p.storeToken(resp.User.ID, resp.AccessToken)
	return resp.User.ID, nil
}

// SignOut отзывает токен пользователя во внешнем сервисе.
func (p *RemoteProvider) SignOut(ctx context.Context, userID string) error {
	p.mu.Lock()
	token, ok := p.tokens[userID]
	delete(p.tokens, userID)
	p.mu.Unlock()

	if !ok || token == "" {
		return nil
	}

	status, err := p.post(ctx, "/auth/v1/logout", token, nil, nil)
	if err != nil {
		return err
	}
	if status >= http.StatusBadRequest && status != http.StatusUnauthorized {
		return fmt.Errorf("sign out: unexpected status: %d", status)
	}
	return nil
}

func (p *RemoteProvider) storeToken(userID, token string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tokens[userID] = token
}

func (p *RemoteProvider) post(ctx context.Context, path, bearer string, body any, out any) (int, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("apikey", p.apiKey)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}

	return resp.StatusCode, nil
}

type leveledLogger struct {
	s *zap.SugaredLogger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, keysAndValues...)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.s.Warnw(msg, keysAndValues...)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Infow(msg, keysAndValues...)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}
