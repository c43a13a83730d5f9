package web

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvListenAddr = "GLYPHPANE_LISTEN"
	EnvDevMode    = "GLYPHPANE_DEV"
)

// ServerConfig contains settings for running the preview HTTP server.
type ServerConfig struct {
	ListenAddr string
	// DevMode enables permissive CORS so a UI served elsewhere can call the API.
	DevMode bool
}

func DefaultServerConfigFromEnv(defaultListenAddr string) (ServerConfig, error) {
	listenAddr := os.Getenv(EnvListenAddr)
	if listenAddr == "" {
		listenAddr = defaultListenAddr
	}

	devMode := false
	if raw := os.Getenv(EnvDevMode); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("%s must be a boolean (got %q): %w", EnvDevMode, raw, err)
		}
		devMode = parsed
	}

	return ServerConfig{ListenAddr: listenAddr, DevMode: devMode}, nil
}
