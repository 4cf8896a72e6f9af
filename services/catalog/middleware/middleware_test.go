// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// =============================================================================
// Test Setup
// =============================================================================

func init() {
	gin.SetMode(gin.TestMode)
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// =============================================================================
// Request ID Tests
// =============================================================================

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Len(t, w.Body.String(), 36)
		assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, "abc-123", w.Body.String())
	})

	t.Run("oversized replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", 200))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Len(t, w.Body.String(), 36)
	})
}

// =============================================================================
// Access Log Tests
// =============================================================================

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	router := gin.New()
	router.Use(RequestID(), AccessLog(logger))
	router.GET("/Films/Details/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/Films/Details/9", nil))

	out := buf.String()
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, `"route":"/Films/Details/:id"`)
	assert.Contains(t, out, `"status":404`)
	assert.Contains(t, out, `"request_id"`)
}

// =============================================================================
// Rate Limit Tests
// =============================================================================

func TestRateLimit(t *testing.T) {
	router := gin.New()
	router.Use(RateLimit(rate.NewLimiter(0, 1)))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 4)
	for _, method := range []string{http.MethodPost, http.MethodPost, http.MethodGet, http.MethodGet} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(method, "/", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 429, 200, 200}, codes)
}

// =============================================================================
// CSRF Tests
// =============================================================================

func newCSRFRouter(enabled bool) *gin.Engine {
	router := gin.New()
	router.Use(CSRF(CSRFConfig{Enabled: enabled}))
	router.GET("/form", func(c *gin.Context) { c.String(http.StatusOK, CSRFToken(c)) })
	router.POST("/form", func(c *gin.Context) { c.String(http.StatusOK, "saved") })
	return router
}

func TestCSRF(t *testing.T) {
	router := newCSRFRouter(true)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/form", nil))
	require.Equal(t, http.StatusOK, w.Code)
	token := w.Body.String()
	require.NotEmpty(t, token)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CSRFCookieName, cookies[0].Name)
	assert.Equal(t, token, cookies[0].Value)

	t.Run("matching token accepted", func(t *testing.T) {
		req := postForm("/form", url.Values{CSRFFormField: {token}})
		req.AddCookie(cookies[0])
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "saved", w.Body.String())
	})

	t.Run("header token accepted", func(t *testing.T) {
		req := postForm("/form", url.Values{})
		req.Header.Set(CSRFHeader, token)
		req.AddCookie(cookies[0])
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing cookie rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, postForm("/form", url.Values{CSRFFormField: {token}}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("wrong token rejected", func(t *testing.T) {
		req := postForm("/form", url.Values{CSRFFormField: {"forged"}})
		req.AddCookie(cookies[0])
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("existing cookie reused", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/form", nil)
		req.AddCookie(cookies[0])
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, token, w.Body.String())
		assert.Empty(t, w.Result().Cookies())
	})
}

func TestCSRF_Disabled(t *testing.T) {
	router := newCSRFRouter(false)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, postForm("/form", url.Values{}))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/form", nil))
	assert.Empty(t, w.Body.String())
}
