package client

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"resty.dev/v3"
)

const healthPath = "/healthz"

// EndpointSupplier hands out router base URLs in round-robin order
type EndpointSupplier interface {
	Get() string
	Len() int
}

type endpointSupplier struct {
	endpoints []string
	current   int
	mutex     sync.Mutex
}

// StaticEndpoints uses baseURLs as given, without health checks.
func StaticEndpoints(baseURLs ...string) EndpointSupplier {
	endpoints := make([]string, 0, len(baseURLs))
	for _, baseURL := range baseURLs {
		endpoints = append(endpoints, strings.TrimRight(baseURL, "/"))
	}
	return &endpointSupplier{endpoints: endpoints}
}

// NewEndpointSupplier keeps the base URLs whose health check passes. The
// checks run in parallel. Order is not preserved.
func NewEndpointSupplier(ctx context.Context, baseURLs []string) (EndpointSupplier, error) {
	if len(baseURLs) == 0 {
		return nil, fmt.Errorf("no router endpoints configured")
	}

	validCh := make(chan string, len(baseURLs))
	semaphore := make(chan struct{}, 10)

	log.Infof("🔄 Checking %d router endpoints...", len(baseURLs))

	var wg sync.WaitGroup
	for i, baseURL := range baseURLs {
		wg.Add(1)

		go func(index int, endpoint string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			log.Debugf("🔄 Checking endpoint %d/%d: %s", index+1, len(baseURLs), endpoint)

			if isEndpointHealthy(ctx, endpoint) {
				validCh <- endpoint
				log.Infof("✅ Endpoint %s is healthy", endpoint)
			} else {
				log.Infof("❌ Endpoint %s is not healthy, skipping", endpoint)
			}
		}(i, strings.TrimRight(baseURL, "/"))
	}

	wg.Wait()
	close(validCh)

	endpoints := make([]string, 0, len(baseURLs))
	for endpoint := range validCh {
		endpoints = append(endpoints, endpoint)
	}

	if len(endpoints) == 0 {
		return nil, fmt.Errorf("none of %d router endpoints is healthy", len(baseURLs))
	}

	log.Infof("✅ Using %d healthy router endpoints out of %d", len(endpoints), len(baseURLs))
	return &endpointSupplier{endpoints: endpoints}, nil
}

// Get returns the next endpoint in round-robin fashion
func (s *endpointSupplier) Get() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if len(s.endpoints) == 0 {
		return ""
	}

	endpoint := s.endpoints[s.current]
	s.current = (s.current + 1) % len(s.endpoints)

	return endpoint
}

func (s *endpointSupplier) Len() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return len(s.endpoints)
}

func isEndpointHealthy(ctx context.Context, baseURL string) bool {
	client := resty.New().
		SetTimeout(3 * time.Second).
		SetRetryCount(0)
	defer client.Close()

	resp, err := client.R().
		SetContext(ctx).
		Get(baseURL + healthPath)

	if err != nil {
		log.Debugf("Health check failed for %s: %v", baseURL, err)
		return false
	}

	if resp.IsError() {
		log.Debugf("Health check failed for %s with status: %s", baseURL, resp.Status())
		return false
	}

	return true
}
