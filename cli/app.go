package main

import (
	"time"

	"github.com/haasonsaas/scout/pkg/config"
	"github.com/haasonsaas/scout/pkg/fingerprint"
	"github.com/haasonsaas/scout/pkg/gate"
	"github.com/haasonsaas/scout/pkg/quota"
	"github.com/haasonsaas/scout/pkg/storage"
	"github.com/rs/zerolog/log"
)

// app wires the client-side admission stack: config, the three storage
// replicas, the fingerprinter, and the gate.
type app struct {
	cfg     *config.ClientConfig
	gate    *gate.Gate
	prints  *fingerprint.Fingerprinter
	cookies *storage.CookieBackend
	durable *storage.SQLiteBackend
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if serverURL != "" {
		cfg.Server.URL = serverURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	applyLogging(cfg.Logging)

	paths, err := resolvePaths(cfg.Storage.StateDir)
	if err != nil {
		return nil, err
	}

	durable, err := storage.OpenSQLite(paths.Database)
	if err != nil {
		return nil, err
	}
	session, err := storage.NewFileBackend("session", paths.SessionDir)
	if err != nil {
		_ = durable.Close()
		return nil, err
	}
	cookies := storage.NewCookieBackend(paths.CookieJar, time.Duration(cfg.Storage.CookieTTLHours)*time.Hour)
	store := storage.NewStore(log.Logger, durable, session, cookies)

	reader := &fingerprint.HostReader{Version: Version, StateDir: paths.Root}
	prints := fingerprint.New(reader, session, log.Logger)

	g, err := gate.New(quota.Config{
		MaxRequests: cfg.Quota.MaxRequests,
		Window:      time.Duration(cfg.Quota.WindowHours) * time.Hour,
		StorageKey:  cfg.Quota.StorageKey,
	}, store, prints, log.Logger, nil)
	if err != nil {
		_ = durable.Close()
		return nil, err
	}

	return &app{cfg: cfg, gate: g, prints: prints, cookies: cookies, durable: durable}, nil
}

func (a *app) Close() {
	_ = a.durable.Close()
}
