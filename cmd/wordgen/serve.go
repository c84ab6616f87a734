package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pavelanni/wordgen/internal/handler"
	"github.com/pavelanni/wordgen/internal/llm"
	"github.com/pavelanni/wordgen/internal/model"
	"github.com/pavelanni/wordgen/internal/store"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST backend",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8000", "HTTP listen address")
	f.String("db", "wordgen.db", "SQLite database path")
	f.String("llm-url", "http://localhost:11434/v1", "OpenAI-compatible API base URL")
	f.String("llm-key", "ollama", "API key for LLM")
	f.String("llm-model", "llama3.2", "LLM model name")
	f.Bool("llm-check", true, "Check the LLM endpoint at startup")
	f.String("jwt-secret", "", "Secret for signing access tokens (or set WORDGEN_JWT_SECRET)")
	f.Duration("token-ttl", 0, "Access token lifetime (0 = no expiry)")
	f.String("cors-origin", "*", "Allowed CORS origin (empty disables CORS)")
	f.String("timezone", "", "IANA time zone that defines the generation day (default: local)")
	addLogFlags(f)
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all users and their generations as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("db", "wordgen.db", "SQLite database path")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	addLogFlags(f)
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	secret := v.GetString("jwt-secret")
	if secret == "" {
		return fmt.Errorf("JWT secret is required: set --jwt-secret flag or WORDGEN_JWT_SECRET env var")
	}

	loc := time.Local
	if tz := v.GetString("timezone"); tz != "" {
		var err error
		if loc, err = time.LoadLocation(tz); err != nil {
			return fmt.Errorf("load timezone: %w", err)
		}
	}

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	llmClient, err := llm.New(v.GetString("llm-url"), v.GetString("llm-key"), v.GetString("llm-model"))
	if err != nil {
		return fmt.Errorf("create LLM client: %w", err)
	}
	if v.GetBool("llm-check") {
		if err := llmClient.Ping(cmd.Context()); err != nil {
			return fmt.Errorf("LLM health check: %w", err)
		}
		slog.Info("LLM endpoint OK", "url", v.GetString("llm-url"), "model", v.GetString("llm-model"))
	}

	cfg := model.ServerConfig{
		JWTSecret:  []byte(secret),
		TokenTTL:   v.GetDuration("token-ttl"),
		CORSOrigin: v.GetString("cors-origin"),
		Location:   loc,
	}
	h, err := handler.New(db, llmClient, cfg)
	if err != nil {
		return fmt.Errorf("create handler: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	h.Routes(r)

	users, err := db.UserCount()
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}

	addr := v.GetString("addr")
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		slog.Info("starting server",
			"addr", addr,
			"db", v.GetString("db"),
			"users", users,
			"model", v.GetString("llm-model"),
			"llm_url", v.GetString("llm-url"),
			"timezone", loc.String(),
			"cors_origin", cfg.CORSOrigin,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	export, err := db.ExportAll()
	if err != nil {
		return fmt.Errorf("export generations: %w", err)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	// Ensure trailing newline.
	_, _ = fmt.Fprintln(w)

	slog.Info("exported generations", "users", export.NumUsers)
	return nil
}
