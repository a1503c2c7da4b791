//go:build integration

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests drive a running server (docker compose up) started with AUTO_APPROVE_JOBS=true.
func baseURL() string {
	if u := os.Getenv("SERVICEHUB_URL"); u != "" {
		return u
	}
	return "http://localhost:8080/api"
}

type apiClient struct {
	t      *testing.T
	client *http.Client
	token  string
}

func newClient(t *testing.T) *apiClient {
	c := &apiClient{t: t, client: &http.Client{Timeout: 10 * time.Second}}

	resp, err := c.client.Get(baseURL()[:len(baseURL())-len("/api")] + "/health")
	if err != nil {
		t.Skipf("server not reachable: %v", err)
	}
	resp.Body.Close()
	return c
}

func (c *apiClient) call(method, path string, body interface{}) (int, map[string]interface{}) {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, baseURL()+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func register(t *testing.T, role string, extra map[string]interface{}) *apiClient {
	c := newClient(t)
	payload := map[string]interface{}{
		"name":     "Flow " + role,
		"email":    fmt.Sprintf("%s-%s@flow.test", role, uuid.NewString()[:8]),
		"phone":    "+2348000000000",
		"password": "password123",
		"state":    "Lagos",
	}
	for k, v := range extra {
		payload[k] = v
	}

	status, body := c.call("POST", "/auth/register/"+role, payload)
	require.Equal(t, http.StatusCreated, status, body)
	c.token = body["access_token"].(string)
	return c
}

func TestMarketplaceFlow(t *testing.T) {
	homeowner := register(t, "homeowner", nil)
	tradesperson := register(t, "tradesperson", map[string]interface{}{"trade_categories": []string{"plumbing"}})

	var jobID, interestID string

	t.Run("homeowner posts a job", func(t *testing.T) {
		status, body := homeowner.call("POST", "/jobs", map[string]interface{}{
			"title":       "Fix leaking kitchen sink",
			"description": "Water drips from the trap under the kitchen sink.",
			"category":    "plumbing",
			"state":       "Lagos",
		})
		require.Equal(t, http.StatusCreated, status, body)
		assert.Equal(t, "active", body["status"])
		jobID = body["id"].(string)
	})

	t.Run("tradesperson cannot post jobs", func(t *testing.T) {
		status, body := tradesperson.call("POST", "/jobs", map[string]interface{}{"title": "x"})
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "Only homeowners can post jobs", body["detail"])
	})

	t.Run("tradesperson shows interest once", func(t *testing.T) {
		status, body := tradesperson.call("POST", "/interests", map[string]interface{}{"job_id": jobID, "message": "Available today"})
		require.Equal(t, http.StatusCreated, status, body)
		interestID = body["id"].(string)

		status, _ = tradesperson.call("POST", "/interests", map[string]interface{}{"job_id": jobID})
		assert.Equal(t, http.StatusConflict, status)
	})

	t.Run("contact details stay locked until paid", func(t *testing.T) {
		status, _ := tradesperson.call("GET", "/interests/"+interestID+"/contact-details", nil)
		assert.Equal(t, http.StatusForbidden, status)

		status, body := homeowner.call("PUT", "/interests/"+interestID+"/share-contact", nil)
		require.Equal(t, http.StatusOK, status, body)
		assert.Equal(t, "contact_shared", body["status"])

		status, body = tradesperson.call("GET", "/wallet/check-access/"+jobID, nil)
		require.Equal(t, http.StatusOK, status, body)
		assert.Equal(t, false, body["sufficient"])

		status, body = tradesperson.call("POST", "/interests/"+interestID+"/pay-access", nil)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Insufficient wallet balance", body["detail"])
	})

	t.Run("conversation needs paid access", func(t *testing.T) {
		status, _ := homeowner.call("POST", "/messages/conversations", map[string]interface{}{
			"job_id":          jobID,
			"tradesperson_id": tradesperson.me()["id"],
		})
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("notifications were raised", func(t *testing.T) {
		require.Eventually(t, func() bool {
			_, body := homeowner.call("GET", "/notifications/unread-count", nil)
			count, _ := body["count"].(float64)
			return count >= 1
		}, 5*time.Second, 200*time.Millisecond)
	})
}

func (c *apiClient) me() map[string]interface{} {
	status, body := c.call("GET", "/auth/me", nil)
	require.Equal(c.t, http.StatusOK, status, body)
	return body
}
