// Package health probes the scout server from the client side.
package health

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type Status struct {
	ServerReachable   bool     `json:"server_reachable"`
	ServerVersion     string   `json:"server_version,omitempty"`
	TrackedIdentities int      `json:"tracked_identities"`
	Healthy           bool     `json:"healthy"`
	Issues            []string `json:"issues,omitempty"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Limiter struct {
		Identities int `json:"identities"`
	} `json:"limiter"`
}

// Check probes the server health endpoint and summarizes what the CLI can
// tell the user about it.
func Check(serverURL string, timeout time.Duration) *Status {
	status := &Status{
		Healthy: true,
		Issues:  []string{},
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(serverURL + "/v1/health")
	if err != nil {
		status.ServerReachable = false
		status.Healthy = false
		status.Issues = append(status.Issues, fmt.Sprintf("cannot reach server: %v", err))
		return status
	}
	defer resp.Body.Close()

	status.ServerReachable = resp.StatusCode == http.StatusOK
	if !status.ServerReachable {
		status.Healthy = false
		status.Issues = append(status.Issues, fmt.Sprintf("server unhealthy: %d", resp.StatusCode))
		return status
	}

	var body healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		status.Healthy = false
		status.Issues = append(status.Issues, fmt.Sprintf("malformed health response: %v", err))
		return status
	}
	status.ServerVersion = body.Version
	status.TrackedIdentities = body.Limiter.Identities
	if body.Status != "healthy" {
		status.Healthy = false
		status.Issues = append(status.Issues, fmt.Sprintf("server reports status %q", body.Status))
	}
	return status
}
