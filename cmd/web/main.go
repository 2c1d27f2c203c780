package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"runtime"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/joho/godotenv/autoload"

	"bookshelf/internal/logger"
	"bookshelf/internal/notify"
	"bookshelf/internal/response"
	"bookshelf/internal/server"
	"bookshelf/internal/shell"
	"bookshelf/internal/storage/authors"
	"bookshelf/internal/storage/books"
	"bookshelf/internal/storage/rest"
)

func getEnvOrDefault(key, default_ string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}

	return default_
}

func getBoolEnv(key string) bool {
	if val := strings.ToLower(os.Getenv(key)); val == "yes" || val == "on" || val == "true" {
		return true
	}

	return false
}

var (
	logLevel   = strings.ToLower(getEnvOrDefault("LOG_LEVEL", "debug"))
	backendUrl = getEnvOrDefault("BACKEND_URL", "http://localhost:8080")
	bindAddr   = getEnvOrDefault("BIND_ADDR", ":3000")
	debugMode  = getBoolEnv("DEBUG_MODE")
)

func main() {
	_, thisFile, _, _ := runtime.Caller(0)

	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(logLevel))
	if err != nil {
		lvl = slog.LevelDebug
	}
	logger.SetupSLog(lvl, path.Dir(path.Dir(path.Dir(thisFile))), middleware.RequestIDKey)

	if err != nil {
		slog.Error("Invalid log level specified in LOG_LEVEL, one of debug, info, warn or error expected")
		os.Exit(1)
	}

	base, err := url.Parse(backendUrl)
	if err != nil || base.Scheme == "" || base.Host == "" {
		slog.Error("BACKEND_URL must be an absolute http(s) URL, got " + backendUrl)
		os.Exit(1)
	}

	client := rest.NewClient(&http.Client{
		Transport: logger.NewHTTPTracer(http.DefaultTransport, slog.Default()),
	}, base, slog.Default())

	sh := shell.New(
		books.NewRESTRepository(client, slog.Default()),
		authors.NewRESTRepository(client, slog.Default()),
		notify.New(notify.DefaultTTL, slog.Default()),
		slog.Default(),
	)

	// the page is usable without the backend, failures show up as notifications
	if err := sh.Init(context.Background()); err != nil {
		slog.Warn("Initial load failed: " + err.Error())
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Mount("/", server.Handler(sh, &response.Responder{DebugMode: debugMode}))

	slog.Info("Listening on " + bindAddr + ", backend " + base.Redacted())
	slog.Error("aborting: " + http.ListenAndServe(bindAddr, r).Error())
	os.Exit(1)
}
