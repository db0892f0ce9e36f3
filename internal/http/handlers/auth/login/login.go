// Package login реализует HTTP-обработчик входа оператора в панель.
//
// Учётные данные оператора заданы в конфигурации: имя и bcrypt-хэш пароля.
// При успешной проверке возвращается JWT для остальных конечных точек.
package login

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/recovery-lab-bot/internal/config"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/http/response"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/lib/jwt"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/lib/password"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/lib/sl"
)

// RoleOperator — роль, записываемая в токен панели.
const RoleOperator = "operator"

// Request — структура входных данных для авторизации.
type Request struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
}

// Handler обрабатывает HTTP-запросы входа оператора.
type Handler struct {
	log      *slog.Logger
	operator config.Operator
	maker    jwt.Maker
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, operator config.Operator, maker jwt.Maker) *Handler {
	return &Handler{
		log:      log,
		operator: operator,
		maker:    maker,
		validate: validator.New(),
	}
}

// ServeHTTP проверяет учётные данные и возвращает JWT.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	if req.Username != h.operator.Username {
		log.Error("unknown operator", slog.String("username", req.Username))
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid credentials"))
		return
	}
	if err := password.CompareHash(h.operator.PasswordHash, req.Password); err != nil {
		log.Error("password mismatch", sl.Err(err))
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid credentials"))
		return
	}

	token, err := h.maker.GenerateToken(req.Username, RoleOperator)
	if err != nil {
		log.Error("failed to generate token", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	log.Info("operator logged in", slog.String("username", req.Username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"token":    token,
		"role":     RoleOperator,
		"username": req.Username,
	}))
}
