package main

import (
	"bytes"
	"context"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/hologram/internal/config"
	"github.com/ayusman/hologram/internal/plugin"
)

func TestStartHooks_None(t *testing.T) {
	cfg := config.Default()
	cfg.DataDir = t.TempDir()

	hooks, err := startHooks(cfg)
	require.NoError(t, err)
	assert.Nil(t, hooks)
}

func TestStartHooks_FailureLoggedOnce(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping shell hook test on Windows")
	}

	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	dir := filepath.Join(cfg.HookDir(), "broken")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plugin.json"),
		[]byte(`{"name":"broken","version":"1.0.0","executable":"hook.sh"}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hook.sh"), []byte("#!/bin/sh\nexit 1\n"), 0755))

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	hooks, err := startHooks(cfg)
	require.NoError(t, err)
	require.NotNil(t, hooks)

	require.True(t, hooks.Dispatch(&plugin.Request{Event: "show"}))
	hooks.Close(context.Background())

	var failures int
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, "broken") && strings.Contains(line, "show") {
			failures++
		}
	}
	assert.Equal(t, 1, failures, buf.String())
}
