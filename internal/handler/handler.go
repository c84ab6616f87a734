package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"github.com/samber/lo"
	"golang.org/x/sync/singleflight"

	"github.com/pavelanni/wordgen/internal/model"
	"github.com/pavelanni/wordgen/internal/quiz"
	"github.com/pavelanni/wordgen/internal/store"
	"github.com/pavelanni/wordgen/internal/vocab"
)

// Generator produces vocabulary and quizzes. *llm.Client implements it.
type Generator interface {
	GenerateVocabulary(ctx context.Context, jobTitle string) (json.RawMessage, error)
	GenerateQuiz(ctx context.Context, items []vocab.Item) ([]quiz.Question, error)
}

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store  *store.Store
	gen    Generator
	config model.ServerConfig
	now    func() time.Time
	flight singleflight.Group
}

// New creates a new Handler.
func New(s *store.Store, g Generator, cfg model.ServerConfig) (*Handler, error) {
	if len(cfg.JWTSecret) == 0 {
		return nil, errors.New("JWT secret is required")
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Handler{store: s, gen: g, config: cfg, now: time.Now}, nil
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	if origin := h.config.CORSOrigin; origin != "" {
		r.Use(cors.New(cors.Options{
			AllowedOrigins:   []string{origin},
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: origin != "*",
		}).Handler)
	}

	r.Get("/", h.handleIndex)
	r.Post("/signup", h.handleSignup)
	r.Post("/login", h.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)
		r.Get("/generate-data", h.handleGenerate)
		r.Get("/get-data", h.handleGetData)
		r.Get("/get-history", h.handleHistory)
		r.Get("/quiz", h.handleQuiz)
	})
}

// today is the current generation date in the server's location.
func (h *Handler) today() string {
	return h.now().In(h.config.Location).Format(model.DateLayout)
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, "welcome")
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())
	day := h.today()

	// Concurrent requests from one user share a single LLM call.
	v, err, _ := h.flight.Do(user.UserID+"/"+day, func() (any, error) {
		existing, err := h.store.GetGeneration(user.UserID, day)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}

		// Joined callers must not lose the result when the first one disconnects.
		words, err := h.gen.GenerateVocabulary(context.WithoutCancel(r.Context()), user.JobTitle)
		if err != nil {
			return nil, err
		}
		saved, err := h.store.SaveGeneration(model.Generation{
			UserID:      user.UserID,
			GeneratedOn: day,
			Words:       words,
			CreatedAt:   h.now(),
		})
		if err != nil {
			return nil, err
		}
		slog.Info("generated vocabulary", "user_id", user.UserID, "job_title", user.JobTitle, "date", day)
		return saved, nil
	})
	if err != nil {
		slog.Error("failed to generate vocabulary", "user_id", user.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error generating or saving data: %v", err))
		return
	}

	writeRaw(w, http.StatusOK, v.(*model.Generation).Words)
}

func (h *Handler) handleGetData(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())

	gen, err := h.store.GetGeneration(user.UserID, h.today())
	if err != nil {
		slog.Error("failed to get generation", "user_id", user.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if gen == nil {
		writeRaw(w, http.StatusOK, []byte("null"))
		return
	}
	writeRaw(w, http.StatusOK, gen.Words)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())

	gens, err := h.store.ListGenerations(user.UserID)
	if err != nil {
		slog.Error("failed to list generations", "user_id", user.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	records := lo.Map(gens, func(g model.Generation, _ int) model.HistoryRecord {
		return model.HistoryRecord{
			WordObject:       g.Words,
			UserID:           g.UserID,
			WordsGeneratedOn: g.GeneratedOn,
		}
	})
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) handleQuiz(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())

	gen, err := h.store.GetGeneration(user.UserID, h.today())
	if err != nil {
		slog.Error("failed to get generation", "user_id", user.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if gen == nil {
		writeError(w, http.StatusNotFound, "No words generated today")
		return
	}

	records, err := vocab.Decode(gen.Words)
	if err != nil {
		slog.Error("stored vocabulary is unreadable", "user_id", user.UserID, "generation_id", gen.ID, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	questions, err := h.gen.GenerateQuiz(r.Context(), vocab.NormalizeAll(records))
	if err != nil {
		slog.Error("failed to generate quiz", "user_id", user.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error generating quiz: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, lo.Map(questions, func(q quiz.Question, _ int) model.QuizItem { return quiz.ToWire(q) }))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeRaw(w, status, data)
}

func writeRaw(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Debug("write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	data, _ := json.Marshal(model.ErrorResponse{Detail: detail})
	writeRaw(w, status, data)
}
