package catalogapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxBodySize ограничение на размер ответа внешнего API
const maxBodySize = 8 << 20

var (
	ErrNotFound     = errors.New("catalog api: not found")
	ErrUnauthorized = errors.New("catalog api: unauthorized")
	ErrBadRequest   = errors.New("catalog api: bad request")
)

// StatusError ответ внешнего API с неуспешным кодом
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status=%d body=%s", e.Op, e.Status, e.Body)
}

// Unwrap сводит коды ответа к сентинельным ошибкам пакета
func (e *StatusError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusConflict:
		return ErrBadRequest
	}
	return nil
}

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client REST клиент бэкенда каталога
type Client struct {
	Doer         Doer
	BaseURL      string
	ApplyHeaders func(*http.Request)
}

func New(doer Doer, baseURL string, applyHeaders func(*http.Request)) *Client {
	return &Client{
		Doer:         doer,
		BaseURL:      strings.TrimRight(baseURL, "/"),
		ApplyHeaders: applyHeaders,
	}
}

// NewDefault создает клиента со стандартным http.Client и сервисным токеном
func NewDefault(baseURL, token string, timeout time.Duration) *Client {
	return New(&http.Client{Timeout: timeout}, baseURL, func(r *http.Request) {
		r.Header.Set("Accept", "application/json")
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
	})
}

func (c *Client) newReq(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Request, error) {
	if c.BaseURL == "" {
		return nil, fmt.Errorf("BaseURL is empty")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	target := c.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case json.RawMessage:
			reader = bytes.NewReader(b)
		default:
			raw, err := json.Marshal(body)
			if err != nil {
				return nil, err
			}
			reader = bytes.NewReader(raw)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	if c.ApplyHeaders != nil {
		c.ApplyHeaders(req)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do выполняет запрос и возвращает тело ответа; неуспешные коды превращаются в *StatusError
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body interface{}) ([]byte, error) {
	req, err := c.newReq(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}

	resp, err := c.Doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Op:     op,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(b[:min(len(b), 4096)])),
		}
	}

	return b, nil
}

func decodeJSON[T any](op string, b []byte, out *T) error {
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("%s: decode: %w", op, err)
	}
	return nil
}
