// Package bot собирает приложение: хранилище, кеш, брокер, конвейер
// обработки событий Telegram и служебный HTTP-сервер панели оператора.
package bot

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/recovery-lab-bot/internal/config"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/http/handlers/stats"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/http/handlers/users/grant"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/http/handlers/users/list"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/http/middlewarectx"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/lib/jwt"
	userservice "github.com/magabrotheeeer/recovery-lab-bot/internal/services/user"
)

// RegisterRoutes регистрирует маршруты панели оператора.
func RegisterRoutes(r chi.Router, logger *slog.Logger, operator config.Operator,
	sub config.Subscription, maker jwt.Maker, userService *userservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытая конечная точка входа
		r.Post("/login", login.New(logger, operator, maker).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(maker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/users", list.New(logger, userService).ServeHTTP)
			r.Get("/stats", stats.New(logger, userService).ServeHTTP)
			r.Post("/users/{id}/grant", grant.New(logger, userService, sub.DurationDays).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
