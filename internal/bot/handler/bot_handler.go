package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/central-university-dev/go-commander/internal/domain/errors"
	"github.com/central-university-dev/go-commander/internal/domain/models"
)

type announcer interface {
	HandleAnnouncement(ctx context.Context, announcement *models.Announcement) error
}

// AnnouncementRequest — тело POST /announcements. Формат совпадает с
// сообщением в топике Kafka: HTTP и Kafka — два транспорта одного канала.
type AnnouncementRequest struct {
	ID       int64   `json:"id"`
	Text     string  `json:"text"`
	ChatIDs  []int64 `json:"chatIds"`
	Priority string  `json:"priority,omitempty"`
}

type ErrorResponse struct {
	Description string `json:"description"`
}

// BotHandler принимает объявления по HTTP и передаёт их на доставку.
type BotHandler struct {
	announcer announcer
	logger    *slog.Logger
}

func NewBotHandler(announcer announcer, logger *slog.Logger) *BotHandler {
	return &BotHandler{
		announcer: announcer,
		logger:    logger,
	}
}

func (h *BotHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /announcements", h.AnnouncementsPost)
}

func (h *BotHandler) AnnouncementsPost(w http.ResponseWriter, r *http.Request) {
	var req AnnouncementRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Некорректное тело запроса")
		return
	}

	if req.Text == "" {
		h.logger.Warn("Отклонено объявление без текста")
		h.writeError(w, http.StatusBadRequest, (&errors.ErrMissingRequiredField{FieldName: "text"}).Error())

		return
	}

	if len(req.ChatIDs) == 0 {
		h.logger.Warn("Отклонено объявление без получателей")
		h.writeError(w, http.StatusBadRequest, (&errors.ErrMissingRequiredField{FieldName: "chatIds"}).Error())

		return
	}

	announcement := &models.Announcement{
		ID:        req.ID,
		Text:      req.Text,
		ChatIDs:   req.ChatIDs,
		Priority:  req.Priority,
		CreatedAt: time.Now(),
	}

	if err := h.announcer.HandleAnnouncement(r.Context(), announcement); err != nil {
		h.logger.Error("Ошибка при доставке объявления",
			"error", err,
		)
		h.writeError(w, http.StatusInternalServerError, "Ошибка при доставке объявления")

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("{}"))
}

func (h *BotHandler) writeError(w http.ResponseWriter, status int, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(ErrorResponse{Description: description}); err != nil {
		h.logger.Error("Ошибка при записи ответа",
			"error", err,
		)
	}
}
