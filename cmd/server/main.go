package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path"
	"runtime"
	"strconv"
	"strings"
	"time"

	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/joho/godotenv/autoload"

	"bookshelf/internal/browse"
	"bookshelf/internal/logger"
	"bookshelf/internal/response"
	"bookshelf/internal/server"
	"bookshelf/internal/sessions"
	"bookshelf/internal/sources"
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
	logLevel      = strings.ToLower(getEnvOrDefault("LOG_LEVEL", "debug"))
	dbConnStr     = os.Getenv("DATABASE_URL")
	bindAddr      = getEnvOrDefault("BIND_ADDR", ":8080")
	debugMode     = getBoolEnv("DEBUG_MODE")
	catalogSource = getEnvOrDefault("CATALOG_SOURCE", "file:catalog.yaml")
	sessionTTL    = getEnvOrDefault("SESSION_TTL", "30m")
	booksPerPage  = getEnvOrDefault("BOOKS_PER_PAGE", strconv.Itoa(browse.DefaultPageSize))
)

func main() {
	_, thisFile, _, _ := runtime.Caller(0)

	lvl, err := logger.ParseLevel(logLevel)
	logger.SetupSLog(lvl, path.Dir(path.Dir(path.Dir(thisFile))), middleware.RequestIDKey)

	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}

	loc, err := sources.Parse(catalogSource)
	if err != nil {
		slog.Error("Invalid CATALOG_SOURCE: " + err.Error())
		os.Exit(1)
	}

	ttl, err := time.ParseDuration(sessionTTL)
	if err != nil {
		slog.Error("Invalid SESSION_TTL: " + err.Error())
		os.Exit(1)
	}

	pageSize, err := strconv.Atoi(booksPerPage)
	if err != nil || pageSize < 1 {
		slog.Error("BOOKS_PER_PAGE must be a positive integer")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	cat, err := sources.Load(ctx, loc, dbConnStr, slog.Default())
	cancel()
	if err != nil {
		slog.Error("Failed to load catalog: " + err.Error())
		os.Exit(1)
	}

	reg := sessions.NewRegistry(ttl)
	if ttl > 0 {
		go sweep(reg, ttl)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Mount("/api", server.Handler(cat, reg, pageSize, &response.Responder{DebugMode: debugMode}))

	slog.Info("Listening on " + bindAddr)
	slog.Error("aborting: " + http.ListenAndServe(bindAddr, r).Error())
	os.Exit(1)
}

func sweep(reg *sessions.Registry, ttl time.Duration) {
	for range time.Tick(ttl) {
		if n := reg.Sweep(); n > 0 {
			slog.Debug("Expired sessions removed", slog.Int("count", n))
		}
	}
}
