package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type serverConfig struct {
	Listen          string
	UpstreamURL     string
	UpstreamTimeout time.Duration
	UpstreamRetries int
	UpstreamRPS     float64
	MaxRequests     int
	Window          time.Duration
	TracingEndpoint string
	TracingInsecure bool
	SampleRatio     float64
	LogSpans        bool
}

var (
	listen          = flag.String("listen", ":8080", "Listen address")
	upstreamURL     = flag.String("upstream", "", "Recommendation webhook URL")
	maxRequests     = flag.Int("max-requests", 2, "Searches allowed per identity per window")
	window          = flag.Duration("window", 24*time.Hour, "Rate limit window")
	upstreamTimeout = flag.Duration("upstream-timeout", 15*time.Second, "Upstream request timeout")
	upstreamRetries = flag.Int("upstream-retries", 2, "Upstream retry attempts")
	upstreamRPS     = flag.Float64("upstream-rps", 0, "Upstream pacing in requests per second (0 disables)")
	tracingEndpoint = flag.String("otlp-endpoint", "", "OTLP trace endpoint")
	tracingInsecure = flag.Bool("otlp-insecure", false, "Allow insecure OTLP transport")
	sampleRatio     = flag.Float64("trace-sample-ratio", 1, "Trace sampling ratio")
	logSpans        = flag.Bool("log-spans", false, "Mirror completed spans into the log stream")
)

// loadServerConfig resolves flags, then a .env file, then the process
// environment; the environment wins over flag defaults but not over flags
// explicitly set on the command line.
func loadServerConfig() (serverConfig, error) {
	_ = godotenv.Load()
	flag.Parse()

	cfg := serverConfig{
		Listen:          *listen,
		UpstreamURL:     *upstreamURL,
		UpstreamTimeout: *upstreamTimeout,
		UpstreamRetries: *upstreamRetries,
		UpstreamRPS:     *upstreamRPS,
		MaxRequests:     *maxRequests,
		Window:          *window,
		TracingEndpoint: *tracingEndpoint,
		TracingInsecure: *tracingInsecure,
		SampleRatio:     *sampleRatio,
		LogSpans:        *logSpans,
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if v := os.Getenv("SCOUT_LISTEN"); v != "" && !set["listen"] {
		cfg.Listen = v
	}
	if v := os.Getenv("SCOUT_UPSTREAM_URL"); v != "" && !set["upstream"] {
		cfg.UpstreamURL = v
	}
	if v := os.Getenv("SCOUT_MAX_REQUESTS"); v != "" && !set["max-requests"] {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid SCOUT_MAX_REQUESTS: %w", err)
		}
		cfg.MaxRequests = n
	}
	if v := os.Getenv("SCOUT_WINDOW"); v != "" && !set["window"] {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid SCOUT_WINDOW: %w", err)
		}
		cfg.Window = d
	}
	if v := os.Getenv("SCOUT_OTLP_ENDPOINT"); v != "" && !set["otlp-endpoint"] {
		cfg.TracingEndpoint = v
	}

	if cfg.UpstreamURL == "" {
		return cfg, fmt.Errorf("upstream webhook URL is required (-upstream or SCOUT_UPSTREAM_URL)")
	}
	if cfg.MaxRequests <= 0 {
		return cfg, fmt.Errorf("max requests must be positive")
	}
	if cfg.Window <= 0 {
		return cfg, fmt.Errorf("window must be positive")
	}
	return cfg, nil
}
