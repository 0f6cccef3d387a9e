package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"lookup-api/internal/models"
	"net/http"
	"net/url"
	"time"
)

const providerUserAgent = "lookup-api/1.0"

// ProviderResult normalizes a third-party lookup response. Provider-level
// failures (transport, malformed body, embedded error signaling) are data,
// not Go errors; callers decide what to do with them.
type ProviderResult struct {
	Success      bool
	Payload      json.RawMessage
	ErrorMessage string
}

type ProviderClient interface {
	Lookup(ctx context.Context, service *models.Service, imei string) ProviderResult
}

type providerClient struct {
	client *http.Client
}

func NewProviderClient(timeout time.Duration) ProviderClient {
	return &providerClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Lookup calls the provider behind a service. The credential, when present,
// rides along under every convention the provider families accept: apikey,
// key and token request parameters plus Authorization Bearer and key
// headers. The first verb comes from the service; a 405 triggers exactly
// one retry with the other verb.
func (c *providerClient) Lookup(ctx context.Context, service *models.Service, imei string) ProviderResult {
	params := map[string]string{"imei": imei}
	if service.APIKey != "" {
		params["apikey"] = service.APIKey
		params["key"] = service.APIKey
		params["token"] = service.APIKey
	}

	method := service.PreferredMethod
	if method != models.MethodGet && method != models.MethodPost {
		method = models.PreferredMethodFor(service.APIURL)
	}

	resp, err := c.do(ctx, method, service, params)
	if err != nil {
		return failure(fmt.Sprintf("Provider API call failed: %v", err))
	}

	if resp.StatusCode == http.StatusMethodNotAllowed {
		resp.Body.Close()
		resp, err = c.do(ctx, otherMethod(method), service, params)
		if err != nil {
			return failure(fmt.Sprintf("Provider API call failed: %v", err))
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure(fmt.Sprintf("Provider API call failed: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failure(fmt.Sprintf("Provider API call failed: status %d", resp.StatusCode))
	}

	var payload interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return failure("Provider returned invalid JSON: " + snippet(body, 100))
	}

	// A 2xx body can still carry an upstream error signal.
	if obj, ok := payload.(map[string]interface{}); ok {
		if errVal, present := obj["error"]; present && truthy(errVal) {
			return failure(fmt.Sprintf("%v", errVal))
		}
		if status, present := obj["status"]; present && status == "failed" {
			if msg, ok := obj["message"].(string); ok && msg != "" {
				return failure(msg)
			}
			return failure("Unknown error")
		}
	}

	return ProviderResult{Success: true, Payload: json.RawMessage(body)}
}

func (c *providerClient) do(ctx context.Context, method string, service *models.Service, params map[string]string) (*http.Response, error) {
	var req *http.Request
	var err error

	switch method {
	case models.MethodPost:
		body, merr := json.Marshal(params)
		if merr != nil {
			return nil, merr
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, service.APIURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
	default:
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, service.APIURL, nil)
		if err != nil {
			return nil, err
		}
		query := url.Values{}
		for k, v := range params {
			query.Set(k, v)
		}
		req.URL.RawQuery = query.Encode()
	}

	req.Header.Set("User-Agent", providerUserAgent)
	req.Header.Set("Accept", "application/json")
	if service.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+service.APIKey)
		req.Header.Set("key", service.APIKey)
	}

	return c.client.Do(req)
}

func otherMethod(method string) string {
	if method == models.MethodPost {
		return models.MethodGet
	}
	return models.MethodPost
}

func failure(message string) ProviderResult {
	return ProviderResult{Success: false, ErrorMessage: message}
}

func snippet(body []byte, max int) string {
	if len(body) > max {
		body = body[:max]
	}
	return string(body)
}

// truthy mirrors the loose error-field check providers rely on: absent,
// nil, false, empty string and zero all mean "no error".
func truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0
	default:
		return true
	}
}
