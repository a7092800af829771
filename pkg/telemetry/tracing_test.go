package telemetry

import (
	"context"
	"testing"
)

func TestSetupDefaults(t *testing.T) {
	ctx := context.Background()
	provider, err := Setup(ctx, Config{ServiceName: "scout-server", ServiceVersion: "test"})
	if err != nil {
		t.Fatalf("setup tracing failed: %v", err)
	}
	if provider == nil {
		t.Fatal("expected provider")
	}
	if err := provider.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
}

func TestSetupRejectsSchemeOnlyEndpoint(t *testing.T) {
	_, err := Setup(context.Background(), Config{ServiceName: "scout-server", Endpoint: "http://"})
	if err == nil {
		t.Fatal("expected error for empty endpoint host")
	}
}
