package main

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/haasonsaas/scout/pkg/recommend"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Server struct {
	cfg      serverConfig
	gate     *AdmissionGate
	upstream *recommend.Client
	logger   zerolog.Logger
	clock    func() time.Time
}

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/v1/recommendations", s.handleRecommendations)
	r.GET("/v1/health", s.handleHealth)
}

func (s *Server) handleRecommendations(c *gin.Context) {
	logger := requestLogger(c, s.logger)

	lat, lng, radius, err := parseSearchQuery(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error(), s.logger)
		return
	}

	identity := deriveIdentity(c.Request)
	decision := s.gate.Admit(identity)
	if span := trace.SpanFromContext(c.Request.Context()); span.IsRecording() {
		span.SetAttributes(
			attribute.Bool("ratelimit.limited", decision.Limited),
			attribute.Int("ratelimit.remaining", decision.Remaining),
		)
	}

	c.Header("X-RateLimit-Limit", strconv.Itoa(s.gate.Limit()))
	if decision.Limited {
		retryAfter := retryAfterSeconds(decision.ResetAt, s.clock())
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		c.Header("X-RateLimit-Remaining", "0")
		c.Header("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.UnixMilli(), 10))
		logger.Warn().Str("client_id", identity).Time("reset_at", decision.ResetAt).Msg("Search denied by rate limit")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":      "rate_limited",
			"message":    "Daily search limit reached. This is a BETA cap; try again once the window resets.",
			"retryAfter": retryAfter,
			"clientId":   identity,
		})
		return
	}

	result, err := s.upstream.Fetch(c.Request.Context(), lat, lng, radius)
	if err != nil {
		logger.Error().Err(err).Msg("Upstream recommendation fetch failed")
		respondError(c, http.StatusBadGateway, "recommendation service unavailable", s.logger)
		return
	}

	c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	c.Header("X-Client-ID", identity)
	contentType := result.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	logger.Info().Str("client_id", identity).Int("remaining", decision.Remaining).Msg("Search admitted")
	c.Data(http.StatusOK, contentType, result.Body)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": Version,
		"limiter": s.gate.Stats(),
	})
}

func parseSearchQuery(c *gin.Context) (lat, lng, radius float64, err error) {
	lat, err = parseFloatParam(c, "lat")
	if err != nil {
		return 0, 0, 0, err
	}
	lng, err = parseFloatParam(c, "lng")
	if err != nil {
		return 0, 0, 0, err
	}
	radius = 5
	if raw := c.Query("radius"); raw != "" {
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil || radius <= 0 || math.IsNaN(radius) {
			return 0, 0, 0, fmt.Errorf("invalid radius parameter")
		}
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, 0, 0, fmt.Errorf("coordinates out of range")
	}
	return lat, lng, radius, nil
}

func parseFloatParam(c *gin.Context, name string) (float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, fmt.Errorf("missing %s parameter", name)
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) {
		return 0, fmt.Errorf("invalid %s parameter", name)
	}
	return value, nil
}

// retryAfterSeconds rounds up so a client honoring the header never
// retries into a still-closed window.
func retryAfterSeconds(resetAt, now time.Time) int {
	remaining := resetAt.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Seconds()))
}
