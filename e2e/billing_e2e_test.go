//go:build e2e
// +build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

const defaultHTTPBase = "http://localhost:38080"

func httpBase() string {
	if v := os.Getenv("E2E_HTTP_BASE"); v != "" {
		return v
	}
	return defaultHTTPBase
}

func apiKey() string {
	if v := os.Getenv("E2E_API_KEY"); v != "" {
		return v
	}
	return "e2e-api-key"
}

type client struct {
	baseURL string
	client  *http.Client
}

func newClient() *client {
	return &client{
		baseURL: httpBase(),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *client) doJSON(t *testing.T, method, path string, body any, userID string) (*http.Response, []byte) {
	t.Helper()

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal failed: %v", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		t.Fatalf("new request failed: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-API-Key", apiKey())
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		t.Fatalf("http request failed: %v", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response failed: %v", err)
	}
	return resp, bodyBytes
}

func uniqueUserID() string {
	return fmt.Sprintf("%d", time.Now().UnixNano()%1_000_000_000)
}

func TestHealth(t *testing.T) {
	c := newClient()
	resp, body := c.doJSON(t, http.MethodGet, "/health", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
}

func TestListPlansIsPublic(t *testing.T) {
	c := newClient()

	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/plans", nil)
	if err != nil {
		t.Fatalf("new request failed: %v", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		t.Fatalf("http request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 without credentials, got %d", resp.StatusCode)
	}

	var parsed struct {
		Plans []struct {
			ID       uint64   `json:"id"`
			Name     string   `json:"name"`
			Features []string `json:"features"`
		} `json:"plans"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(parsed.Plans) == 0 {
		t.Fatal("expected seeded plans; run the seed-plans command first")
	}
}

func TestSubscriptionsRequireAPIKey(t *testing.T) {
	c := newClient()

	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/subscriptions/current", nil)
	if err != nil {
		t.Fatalf("new request failed: %v", err)
	}
	req.Header.Set("X-User-ID", "1")
	resp, err := c.client.Do(req)
	if err != nil {
		t.Fatalf("http request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without api key, got %d", resp.StatusCode)
	}
}

func TestTrialLifecycleFlow(t *testing.T) {
	c := newClient()
	userID := uniqueUserID()

	// No subscription yet.
	resp, body := c.doJSON(t, http.MethodGet, "/subscriptions/current", nil, userID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	var current struct {
		Subscription *struct {
			ID     uint64 `json:"id"`
			Status string `json:"status"`
		} `json:"subscription"`
	}
	if err := json.Unmarshal(body, &current); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if current.Subscription != nil {
		t.Fatalf("expected no subscription for fresh user, got %+v", current.Subscription)
	}

	// Start a trial on the first available plan.
	resp, body = c.doJSON(t, http.MethodPost, "/subscriptions/trial", map[string]any{"plan_id": 1}, userID)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, body)
	}

	// A second trial must conflict.
	resp, body = c.doJSON(t, http.MethodPost, "/subscriptions/trial", map[string]any{"plan_id": 1}, userID)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", resp.StatusCode, body)
	}

	// Upgrade to annual.
	resp, body = c.doJSON(t, http.MethodPost, "/subscriptions/upgrade", map[string]any{"billing_cycle": "annual"}, userID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	var upgraded struct {
		Subscription struct {
			Status       string `json:"status"`
			BillingCycle string `json:"billing_cycle"`
		} `json:"subscription"`
	}
	if err := json.Unmarshal(body, &upgraded); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if upgraded.Subscription.Status != "active" || upgraded.Subscription.BillingCycle != "annual" {
		t.Fatalf("unexpected upgraded subscription: %+v", upgraded.Subscription)
	}

	// Upgrading again must fail: the subscription is no longer a trial.
	resp, body = c.doJSON(t, http.MethodPost, "/subscriptions/upgrade", map[string]any{"billing_cycle": "monthly"}, userID)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", resp.StatusCode, body)
	}

	// Cancel the active subscription.
	resp, body = c.doJSON(t, http.MethodPost, "/subscriptions/cancel", nil, userID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	// Cancelled is terminal: nothing current remains and cancel cannot repeat.
	resp, body = c.doJSON(t, http.MethodGet, "/subscriptions/current", nil, userID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, &current); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if current.Subscription != nil {
		t.Fatalf("expected no current subscription after cancel, got %+v", current.Subscription)
	}

	resp, body = c.doJSON(t, http.MethodPost, "/subscriptions/cancel", nil, userID)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", resp.StatusCode, body)
	}
}
