// Package client talks to a running router over its HTTP API.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"library/router/internal/config"
	"library/router/internal/domain"

	jsoniter "github.com/json-iterator/go"
	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrNotFound = errors.New("not found")

type RouterClient interface {
	Resolve(ctx context.Context, path string, embedded bool) (*domain.ResolvedAddress, error)
	TargetURL(ctx context.Context, currentPath, target string) (string, error)
	LegacyHashTarget(ctx context.Context, fragment string) (string, error)
}

type routerClient struct {
	rl         ratelimit.Limiter
	endpoints  EndpointSupplier
	httpClient *resty.Client
}

func NewRouterClient(cfg config.ClientConfig, endpoints EndpointSupplier) RouterClient {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.MaxRetries).
		SetHeader("Accept", "application/json")

	limit := cfg.MaxRequestsPerSecond
	if limit <= 0 {
		limit = 1
	}

	return &routerClient{
		rl:         ratelimit.New(limit),
		endpoints:  endpoints,
		httpClient: client,
	}
}

func (c *routerClient) Resolve(ctx context.Context, path string, embedded bool) (*domain.ResolvedAddress, error) {
	var addr domain.ResolvedAddress
	err := c.getJSON(ctx, "/api/resolve", map[string]string{
		"path":     path,
		"embedded": strconv.FormatBool(embedded),
	}, &addr)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return &addr, nil
}

func (c *routerClient) TargetURL(ctx context.Context, currentPath, target string) (string, error) {
	var body urlResponse
	err := c.getJSON(ctx, "/api/target", map[string]string{
		"current": currentPath,
		"target":  target,
	}, &body)
	if err != nil {
		return "", fmt.Errorf("failed to build url for %s: %w", target, err)
	}
	return body.URL, nil
}

func (c *routerClient) LegacyHashTarget(ctx context.Context, fragment string) (string, error) {
	var body urlResponse
	err := c.getJSON(ctx, "/api/legacy-hash", map[string]string{"fragment": fragment}, &body)
	if err != nil {
		return "", fmt.Errorf("failed to map legacy fragment %s: %w", fragment, err)
	}
	return body.URL, nil
}

type urlResponse struct {
	URL string `json:"url"`
}

func (c *routerClient) getJSON(ctx context.Context, path string, query map[string]string, out interface{}) error {
	endpoint := c.endpoints.Get()
	if endpoint == "" {
		return fmt.Errorf("no router endpoint available")
	}

	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(endpoint + path)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return fmt.Errorf("failed to call %s: %w", endpoint, err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.IsError() {
		return fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status())
	}

	if err := json.UnmarshalFromString(resp.String(), out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", endpoint, err)
	}

	log.Debugf("Called %s%s", endpoint, path)
	return nil
}
