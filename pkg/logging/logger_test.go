// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Level Tests
// =============================================================================

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.level.String())
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{" warning ", LevelWarn, false},
		{"warn", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatAuto, f)

	f, err = ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

// =============================================================================
// Logger Tests
// =============================================================================

func TestNew_AutoFormatIsJSONOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Service: "filmcatalog", Output: &buf})

	logger.Info("film created", "film_id", 7)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "film created", rec["msg"])
	assert.Equal(t, "filmcatalog", rec["service"])
	assert.Equal(t, float64(7), rec["film_id"])
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatText, Output: &buf})

	logger.Warn("slow query", "elapsed_ms", 250)

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, `msg="slow query"`)
	assert.Contains(t, out, "elapsed_ms=250")
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Format: FormatText, Output: &buf})

	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn")
	logger.Error("error")

	out := buf.String()
	assert.NotContains(t, out, "msg=debug")
	assert.NotContains(t, out, "msg=info")
	assert.Contains(t, out, "msg=warn")
	assert.Contains(t, out, "msg=error")
}

func TestLogger_QuietWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Quiet: true, Output: &buf})
	logger.Error("dropped")
	assert.Empty(t, buf.String())
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatText, Output: &buf})

	logger.With("request_id", "abc").Info("handled")
	assert.Contains(t, buf.String(), "request_id=abc")
}

func TestLogger_Slog(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatText, Output: &buf})

	logger.Slog().Info("via slog")
	assert.Contains(t, buf.String(), `msg="via slog"`)
}

func TestDefault(t *testing.T) {
	logger := Default()
	defer logger.Close()

	ctx := context.Background()
	assert.True(t, logger.Slog().Enabled(ctx, slog.LevelInfo))
	assert.False(t, logger.Slog().Enabled(ctx, slog.LevelDebug))
}

func TestLogger_FileLogging(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer
	logger := New(Config{
		Level:   LevelInfo,
		LogDir:  dir,
		Service: "catalogtest",
		Format:  FormatText,
		Output:  &console,
	})

	logger.Info("seeded", "films", 5)
	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close())

	name := "catalogtest_" + time.Now().Format("2006-01-02") + ".log"
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &rec))
	assert.Equal(t, "seeded", rec["msg"])
	assert.Contains(t, console.String(), "msg=seeded")
}

func TestNew_UnusableLogDirFallsBackToConsole(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, nil, 0600))

	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, LogDir: filepath.Join(file, "logs"), Format: FormatText, Output: &buf})
	logger.Info("still logging")

	assert.Contains(t, buf.String(), "still logging")
	assert.NoError(t, logger.Close())
}

// =============================================================================
// Helper Tests
// =============================================================================

func TestMultiHandler_FansOut(t *testing.T) {
	var a, b bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&a, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	}}
	logger := slog.New(h).With("k", "v")

	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))

	logger.Info("only a")
	logger.Error("both")

	assert.Contains(t, a.String(), "only a")
	assert.Contains(t, a.String(), "k=v")
	assert.NotContains(t, b.String(), "only a")
	assert.Contains(t, b.String(), "both")
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "logs"), expandPath("~/logs"))
	assert.Equal(t, "/var/log", expandPath("/var/log"))
	assert.True(t, strings.HasPrefix(expandPath("~"), home))
}

func TestUseJSON(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, useJSON(FormatJSON, os.Stderr))
	assert.False(t, useJSON(FormatText, &buf))
	assert.True(t, useJSON(FormatAuto, &buf))
}
