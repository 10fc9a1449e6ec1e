package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	apperrors "github.com/telaviv/ops-dashboard/pkg/util"
)

const maxResponseBytes = 32 << 20

// Default messages for refusals that carry no text of their own.
const (
	UnauthorizedMessage = "Sessão expirada. Por favor, faça login novamente."
	ForbiddenMessage    = "Você não tem permissão para realizar esta ação."
)

// Client talks to the REST backend the dashboard fronts.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithLogger sets the client logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient builds a client for baseURL. Every call is bounded by timeout.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		timeout: timeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// clientFor returns an HTTP client that sends token as a bearer credential.
func (c *Client) clientFor(ctx context.Context, token string) *http.Client {
	if token == "" {
		return c.http
	}
	base := context.WithValue(ctx, oauth2.HTTPClient, c.http)
	return oauth2.NewClient(base, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
}

func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, body, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperrors.NewInternalError(fmt.Errorf("encode %s %s: %w", method, path, err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return apperrors.NewInternalError(fmt.Errorf("build %s %s: %w", method, path, err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.clientFor(ctx, token).Do(req)
	if err != nil {
		c.logger.Warn("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return apperrors.NewTransportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return apperrors.NewTransportError(fmt.Errorf("read %s %s: %w", method, path, err))
	}

	c.logger.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.NewTransportError(fmt.Errorf("decode %s %s: %w", method, path, err))
	}
	return nil
}

// statusError classifies a non-2xx answer. The backend's own message is
// carried verbatim when it sent one.
func statusError(status int, data []byte) error {
	msg := decodeMessage(data)
	details := map[string]any{"status": status}
	if msg != "" {
		details[detailBackendMessage] = msg
	}

	var err *apperrors.DomainError
	switch status {
	case http.StatusUnauthorized:
		err = apperrors.NewDomainError(apperrors.CodeUnauthorized, orDefault(msg, UnauthorizedMessage), status, details)
	case http.StatusForbidden:
		err = apperrors.NewDomainError(apperrors.CodeForbidden, orDefault(msg, ForbiddenMessage), status, details)
	default:
		err = apperrors.NewDomainError(apperrors.CodeBusinessRule,
			orDefault(msg, fmt.Sprintf("O servidor respondeu com erro %d.", status)), status, details)
	}
	return err
}

const detailBackendMessage = "backend_message"

// BackendMessage returns the text the backend attached to a refusal. It is
// empty for transport failures and for refusals that carried no text.
func BackendMessage(err error) string {
	de := apperrors.ToDomainError(err)
	if de == nil || de.Details == nil {
		return ""
	}
	msg, _ := de.Details[detailBackendMessage].(string)
	return msg
}

// StatusCode returns the HTTP status of a backend refusal, or 0.
func StatusCode(err error) int {
	de := apperrors.ToDomainError(err)
	if de == nil || de.Details == nil {
		return 0
	}
	status, _ := de.Details["status"].(int)
	return status
}

func orDefault(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}

func decodeMessage(data []byte) string {
	var m MessageResponse
	if err := json.Unmarshal(data, &m); err != nil {
		return ""
	}
	return m.Text()
}
