package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// TimeoutConfig returns timeout middleware configuration
func TimeoutConfig(timeout time.Duration) echo.MiddlewareFunc {
	return middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: timeout,
	})
}

// SelectiveTimeoutConfig applies a longer timeout to the analysis endpoints,
// which wait on LLM inference and several outbound lookups, and the default
// timeout everywhere else.
func SelectiveTimeoutConfig(defaultTimeout, analysisTimeout time.Duration) echo.MiddlewareFunc {
	isAnalysis := func(c echo.Context) bool {
		return strings.HasPrefix(c.Path(), "/api/v1/analyze")
	}

	short := middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: defaultTimeout,
		Skipper: isAnalysis,
	})
	long := middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: analysisTimeout,
		Skipper: func(c echo.Context) bool { return !isAnalysis(c) },
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return short(long(next))
	}
}
