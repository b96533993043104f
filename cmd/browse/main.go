package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"runtime"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"bookshelf/internal/browse"
	"bookshelf/internal/logger"
	"bookshelf/internal/sources"
	"bookshelf/internal/tui"
)

func getEnvOrDefault(key, default_ string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}

	return default_
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		catalogSource string
		pageSize      int
		theme         string
		logFile       string
	)

	defaultPageSize, err := strconv.Atoi(getEnvOrDefault("BOOKS_PER_PAGE", ""))
	if err != nil {
		defaultPageSize = browse.DefaultPageSize
	}

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the book catalog in the terminal",
		Long: `Browse the book catalog in the terminal.

The catalog is read from --catalog (file:<path>, opds:<path> or postgres),
falling back to the CATALOG_SOURCE environment variable.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, closeLog, err := setupLogger(logFile)
			if err != nil {
				return err
			}
			defer closeLog()

			return run(cmd.Context(), l, catalogSource, pageSize, theme)
		},
	}

	cmd.Flags().StringVarP(&catalogSource, "catalog", "c", getEnvOrDefault("CATALOG_SOURCE", "file:catalog.yaml"),
		"catalog source: file:<path>, opds:<path> or postgres")
	cmd.Flags().IntVarP(&pageSize, "page-size", "n", defaultPageSize, "books revealed per page")
	cmd.Flags().StringVarP(&theme, "theme", "t", "auto", "color theme: day, night or auto")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file instead of discarding them")

	return cmd
}

// The terminal is owned by the UI, so logs go to a file or nowhere.
func setupLogger(logFile string) (*slog.Logger, func(), error) {
	lvl, err := logger.ParseLevel(getEnvOrDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = io.Discard
	closeFn := func() {}
	if logFile != "" {
		fd, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w = fd
		closeFn = func() {
			_ = fd.Close()
		}
	}

	_, thisFile, _, _ := runtime.Caller(0)
	h, err := logger.NewHandler(w, getEnvOrDefault("LOG_FORMAT", "text"), lvl, path.Dir(path.Dir(path.Dir(thisFile))), nil)
	if err != nil {
		closeFn()
		return nil, nil, err
	}

	l := slog.New(h)
	slog.SetDefault(l)

	return l, closeFn, nil
}

func run(ctx context.Context, l *slog.Logger, catalogSource string, pageSize int, theme string) error {
	if pageSize < 1 {
		return fmt.Errorf("page size must be positive, got %d", pageSize)
	}

	th, err := tui.ParseTheme(theme)
	if err != nil {
		return err
	}

	loc, err := sources.Parse(catalogSource)
	if err != nil {
		return err
	}

	loadCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	cat, err := sources.Load(loadCtx, loc, os.Getenv("DATABASE_URL"), l)
	if err != nil {
		l.Error("Failed to load catalog: " + err.Error())
		return err
	}

	p := tea.NewProgram(tui.NewModel(cat, pageSize, th), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}

	return nil
}
