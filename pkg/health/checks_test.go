package health

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCheckHealthyServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/health" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"status":"healthy","version":"1.2.3","limiter":{"identities":4}}`))
	}))
	defer srv.Close()

	status := Check(srv.URL, time.Second)
	if !status.Healthy || !status.ServerReachable {
		t.Fatalf("expected healthy status: %+v", status)
	}
	if status.ServerVersion != "1.2.3" || status.TrackedIdentities != 4 {
		t.Fatalf("health body not decoded: %+v", status)
	}
}

func TestCheckUnreachableServer(t *testing.T) {
	status := Check("http://127.0.0.1:1", time.Second)
	if status.Healthy || status.ServerReachable {
		t.Fatalf("expected unreachable status: %+v", status)
	}
	if len(status.Issues) == 0 {
		t.Fatal("expected an issue to be reported")
	}
}

func TestCheckDegradedServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"degraded","version":"1.2.3","limiter":{"identities":0}}`))
	}))
	defer srv.Close()

	status := Check(srv.URL, time.Second)
	if status.Healthy {
		t.Fatalf("degraded server should not be healthy: %+v", status)
	}
}
