// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Flash messages survive exactly one redirect in short-lived cookies.

type flashKind string

const (
	flashSuccess flashKind = "success"
	flashError   flashKind = "error"
)

const (
	flashCookiePrefix = "filmcatalog_flash_"
	flashMaxAge       = 60
)

// Flash holds the messages to show on the current page.
type Flash struct {
	Success string
	Error   string
}

func setFlash(c *gin.Context, kind flashKind, msg string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookiePrefix+string(kind), msg, flashMaxAge, "/", "", false, true)
}

// consumeFlash reads pending messages and clears their cookies.
func consumeFlash(c *gin.Context) Flash {
	var f Flash
	for _, kind := range []flashKind{flashSuccess, flashError} {
		name := flashCookiePrefix + string(kind)
		msg, err := c.Cookie(name)
		if err != nil || msg == "" {
			continue
		}
		c.SetCookie(name, "", -1, "/", "", false, true)
		switch kind {
		case flashSuccess:
			f.Success = msg
		case flashError:
			f.Error = msg
		}
	}
	return f
}
