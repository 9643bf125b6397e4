package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	appI18n "github.com/Lipao9/sheeto/internal/i18n"
	"github.com/Lipao9/sheeto/internal/model"
	"github.com/Lipao9/sheeto/internal/store"
	"github.com/Lipao9/sheeto/internal/worksheet"
)

// Config holds runtime HTTP parameters.
type Config struct {
	SecureCookies bool
}

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store  *store.Store
	gen    *worksheet.Generator
	config Config
}

// New creates a new Handler.
func New(s *store.Store, g *worksheet.Generator, cfg Config) *Handler {
	return &Handler{store: s, gen: g, config: cfg}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/login", h.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)
		r.Use(h.csrfMiddleware)

		r.Post("/logout", h.handleLogout)

		r.Get("/fichas", h.handleListWorksheets)
		r.Get("/fichas/latest", h.handleLatestWorksheet)
		r.Get("/fichas/{worksheetID}", h.handleGetWorksheet)
		r.Post("/fichas", h.handleStoreWorksheet)
		r.Delete("/fichas/{worksheetID}", h.handleDeleteWorksheet)

		r.With(requireRole(model.UserRoleAdmin)).Get("/admin/dashboard", h.handleDashboard)
	})
}

// worksheetResponse is the flattened JSON presentation of a worksheet.
type worksheetResponse struct {
	ID             int64    `json:"id"`
	EducationLevel string   `json:"education_level"`
	Discipline     string   `json:"discipline"`
	Topic          string   `json:"topic"`
	Difficulty     string   `json:"difficulty"`
	Goal           string   `json:"goal"`
	QuestionCount  int      `json:"question_count"`
	ExerciseTypes  []string `json:"exercise_types"`
	AnswerStyle    string   `json:"answer_style"`
	GradeYear      string   `json:"grade_year,omitempty"`
	SemesterPeriod string   `json:"semester_period,omitempty"`
	Notes          string   `json:"notes,omitempty"`
	Content        string   `json:"content"`
	CreatedAt      string   `json:"created_at"`
}

func presentWorksheet(w model.Worksheet) worksheetResponse {
	types := make([]string, len(w.Request.ExerciseTypes))
	for i, t := range w.Request.ExerciseTypes {
		types[i] = string(t)
	}
	return worksheetResponse{
		ID:             w.ID,
		EducationLevel: string(w.Request.EducationLevel),
		Discipline:     w.Request.Discipline,
		Topic:          w.Request.Topic,
		Difficulty:     string(w.Request.Difficulty),
		Goal:           string(w.Request.Goal),
		QuestionCount:  w.Request.QuestionCount,
		ExerciseTypes:  types,
		AnswerStyle:    string(w.Request.AnswerStyle),
		GradeYear:      w.Request.GradeYear,
		SemesterPeriod: w.Request.SemesterPeriod,
		Notes:          w.Request.Notes,
		Content:        w.Content,
		CreatedAt:      w.CreatedAt.Format(time.RFC3339),
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// respondMessage sends a localized single-message error payload.
func respondMessage(w http.ResponseWriter, r *http.Request, status int, msgID string) {
	respondJSON(w, status, map[string]string{"message": appI18n.T(r.Context(), msgID)})
}

func (h *Handler) handleListWorksheets(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())

	worksheets, err := h.store.ListWorksheets(user.ID)
	if err != nil {
		slog.Error("failed to list worksheets", "user_id", user.ID, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]worksheetResponse, 0, len(worksheets))
	for _, ws := range worksheets {
		out = append(out, presentWorksheet(ws))
	}
	respondJSON(w, http.StatusOK, map[string]any{"worksheets": out})
}

func (h *Handler) handleLatestWorksheet(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())

	ws, err := h.store.LatestWorksheet(user.ID)
	if err != nil {
		slog.Error("failed to load latest worksheet", "user_id", user.ID, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if ws == nil {
		respondJSON(w, http.StatusOK, map[string]any{"worksheet": nil})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"worksheet": presentWorksheet(*ws)})
}

func (h *Handler) handleGetWorksheet(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "worksheetID"), 10, 64)
	if err != nil {
		respondMessage(w, r, http.StatusNotFound, "WorksheetNotFound")
		return
	}

	ws, err := h.store.GetWorksheet(id, user.ID)
	if err != nil {
		slog.Error("failed to get worksheet", "id", id, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if ws == nil {
		respondMessage(w, r, http.StatusNotFound, "WorksheetNotFound")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"worksheet": presentWorksheet(*ws)})
}

func (h *Handler) handleStoreWorksheet(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())

	var payload storeWorksheetPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondMessage(w, r, http.StatusBadRequest, "InvalidPayload")
		return
	}

	if fieldErrors := payload.validate(); len(fieldErrors) > 0 {
		translated := make(map[string]string, len(fieldErrors))
		for field, msgID := range fieldErrors {
			translated[field] = appI18n.T(r.Context(), msgID)
		}
		respondJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": translated})
		return
	}

	req := payload.request()
	content, err := h.gen.Generate(r.Context(), req)
	if err != nil {
		var te *worksheet.TransportError
		switch {
		case errors.Is(err, worksheet.ErrEmptyCompletion):
			respondMessage(w, r, http.StatusBadGateway, "EmptyCompletion")
		case errors.As(err, &te):
			respondMessage(w, r, http.StatusBadGateway, "GenerationFailed")
		default:
			slog.Error("worksheet generation failed", "error", err)
			respondMessage(w, r, http.StatusInternalServerError, "GenerationFailed")
		}
		return
	}

	id, err := h.store.CreateWorksheet(user.ID, req, content)
	if err != nil {
		slog.Error("failed to store worksheet", "user_id", user.ID, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	ws, err := h.store.GetWorksheet(id, user.ID)
	if err != nil || ws == nil {
		slog.Error("failed to reload stored worksheet", "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"worksheet": presentWorksheet(*ws)})
}

func (h *Handler) handleDeleteWorksheet(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "worksheetID"), 10, 64)
	if err != nil {
		respondMessage(w, r, http.StatusNotFound, "WorksheetNotFound")
		return
	}

	deleted, err := h.store.DeleteWorksheet(id, user.ID)
	if err != nil {
		slog.Error("failed to delete worksheet", "id", id, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !deleted {
		respondMessage(w, r, http.StatusNotFound, "WorksheetNotFound")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
