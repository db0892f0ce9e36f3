// Package pipeline реализует конвейер обработки входящих событий бота:
// логирование, антиспам-защита, аннотация доступа и вызов обработчика.
//
// Порядок стадий фиксирован. Антиспам-защита может оборвать обработку,
// аннотация доступа — нет: решение о показе платного экрана принимает
// обработчик, которому передаётся результат проверки.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/recovery-lab-bot/internal/lib/sl"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/metrics"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/models"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/services/access"
)

const maxLoggedTextLen = 64

// Handler обрабатывает событие с уже вычисленным решением о доступе.
type Handler interface {
	Handle(ctx context.Context, event models.Event, decision access.Decision) error
}

// AccessChecker вычисляет решение о доступе для действия пользователя.
type AccessChecker interface {
	CheckAccess(ctx context.Context, userID int64, action string) access.Decision
}

// Throttler решает, допускать ли действие пользователя.
type Throttler interface {
	Admit(userID int64) bool
}

// ThrottleNotifier уведомляет пользователя об отклонённом действии.
type ThrottleNotifier interface {
	NotifyThrottled(ctx context.Context, event models.Event)
}

// Pipeline связывает стадии обработки события.
type Pipeline struct {
	throttler Throttler
	checker   AccessChecker
	handler   Handler
	notifier  ThrottleNotifier
	metrics   *metrics.Metrics
	log       *slog.Logger
}

// New создает новый конвейер.
func New(throttler Throttler, checker AccessChecker, handler Handler,
	notifier ThrottleNotifier, m *metrics.Metrics, log *slog.Logger) *Pipeline {
	return &Pipeline{
		throttler: throttler,
		checker:   checker,
		handler:   handler,
		notifier:  notifier,
		metrics:   m,
		log:       log,
	}
}

// Process прогоняет событие через все стадии. Паника обработчика
// перехватывается: одно событие не должно ронять весь цикл опроса.
func (p *Pipeline) Process(ctx context.Context, event models.Event) {
	defer func() {
		if r := recover(); r != nil {
			p.metrics.HandlerPanics.Inc()
			p.log.Error("handler panic recovered",
				slog.Int64("user_id", event.UserID),
				slog.String("action", event.Action),
				slog.Any("panic", r))
		}
	}()

	p.metrics.EventsTotal.WithLabelValues(event.Action).Inc()
	p.log.Info("incoming event",
		slog.Int64("user_id", event.UserID),
		slog.String("actor", event.ActorLabel()),
		slog.String("action", event.Action),
		slog.String("text", truncate(event.Text, maxLoggedTextLen)))

	if !p.throttler.Admit(event.UserID) {
		p.metrics.EventsThrottled.Inc()
		p.log.Debug("event throttled", slog.Int64("user_id", event.UserID),
			slog.String("action", event.Action))
		p.notifier.NotifyThrottled(ctx, event)
		return
	}

	decision := p.checker.CheckAccess(ctx, event.UserID, event.Action)
	if decision.Class == access.ClassGated && !decision.Allowed {
		p.metrics.AccessDenied.Inc()
	}

	if err := p.handler.Handle(ctx, event, decision); err != nil {
		p.log.Error("handler failed",
			slog.Int64("user_id", event.UserID),
			slog.String("action", event.Action),
			sl.Err(err))
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
