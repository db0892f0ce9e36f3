// Package grant реализует HTTP-обработчик выдачи подписки оператором.
//
// Оператор вызывает эту конечную точку после ручной проверки оплаты:
// пользователю открывается подписка на указанное число дней.
package grant

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/recovery-lab-bot/internal/http/response"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/lib/sl"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/storage/repository"
)

// Request — структура входных данных для выдачи подписки.
// Days может отсутствовать: тогда берётся срок подписки из конфига.
type Request struct {
	Days int `json:"days" validate:"omitempty,gt=0"`
}

// Service описывает методы бизнес-логики, используемые обработчиком.
type Service interface {
	GrantSubscription(ctx context.Context, id int64, days int) error
}

// Handler обрабатывает HTTP-запросы выдачи подписки.
type Handler struct {
	log         *slog.Logger
	service     Service
	defaultDays int
	validate    *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, defaultDays int) *Handler {
	return &Handler{
		log:         log,
		service:     service,
		defaultDays: defaultDays,
		validate:    validator.New(),
	}
}

// ServeHTTP открывает подписку пользователю из пути запроса.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.grant"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid user id", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid user id"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if req.Days == 0 {
		req.Days = h.defaultDays
	}

	if err := h.service.GrantSubscription(r.Context(), userID, req.Days); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			log.Error("user not found", slog.Int64("user_id", userID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to grant subscription", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	log.Info("subscription granted", slog.Int64("user_id", userID), slog.Int("days", req.Days))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user_id": userID,
		"days":    req.Days,
	}))
}
