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
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// CSRFCookieName holds the anti-forgery token on the client.
	CSRFCookieName = "filmcatalog_csrf"

	// CSRFFormField is the hidden form field echoing the token.
	CSRFFormField = "__RequestVerificationToken"

	// CSRFHeader may carry the token instead of the form field.
	CSRFHeader = "X-CSRF-Token"

	csrfTokenKey = "filmcatalog_csrf_token"
)

// CSRFConfig configures CSRF.
//
// # Fields
//
//   - Enabled: When false the middleware only passes requests through.
//   - Secure: Marks the token cookie Secure (set behind TLS).
type CSRFConfig struct {
	Enabled bool
	Secure  bool
}

// CSRF protects state-changing requests with a double-submit token.
//
// # Description
//
// Every response carries a random token in a cookie. Forms echo it in the
// CSRFFormField hidden input. A POST whose echoed token does not match the
// cookie is refused with 400 before any handler runs.
//
// # Examples
//
//	router.Use(middleware.CSRF(middleware.CSRFConfig{Enabled: true}))
//	// in a handler rendering a form:
//	data["CSRFToken"] = middleware.CSRFToken(c)
func CSRF(cfg CSRFConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		token, _ := c.Cookie(CSRFCookieName)

		if !isSafeMethod(c.Request.Method) {
			sent := c.PostForm(CSRFFormField)
			if sent == "" {
				sent = c.GetHeader(CSRFHeader)
			}
			if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(sent)) != 1 {
				c.AbortWithStatus(http.StatusBadRequest)
				return
			}
		}

		if token == "" {
			token = uuid.NewString()
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     CSRFCookieName,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				Secure:   cfg.Secure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		c.Set(csrfTokenKey, token)
		c.Next()
	}
}

// CSRFToken returns the token forms must echo, or "" when CSRF is disabled.
func CSRFToken(c *gin.Context) string {
	return c.GetString(csrfTokenKey)
}
