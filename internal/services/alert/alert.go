// Package alert публикует оповещения оператору через брокер сообщений
// и доставляет их в административный чат.
package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/recovery-lab-bot/internal/lib/sl"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/models"
)

// Publisher описывает публикацию сообщения в брокер.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// Notifier доставляет текст в административный чат.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Service формирует и публикует оповещения оператору. Публикация
// best-effort: сбой брокера логируется и не прерывает диалог с
// пользователем.
type Service struct {
	publisher  Publisher
	routingKey string
	log        *slog.Logger
}

// New создает новый экземпляр Service.
func New(publisher Publisher, routingKey string, log *slog.Logger) *Service {
	return &Service{
		publisher:  publisher,
		routingKey: routingKey,
		log:        log,
	}
}

// Send публикует оповещение указанного вида от имени пользователя.
func (s *Service) Send(kind string, event models.Event, text string) {
	a := models.OperatorAlert{
		ID:        uuid.New().String(),
		Kind:      kind,
		UserID:    event.UserID,
		Username:  event.Username,
		FirstName: event.FirstName,
		Text:      text,
		CreatedAt: time.Now(),
	}
	if err := s.publisher.Publish(s.routingKey, a); err != nil {
		s.log.Error("failed to publish operator alert",
			slog.String("kind", kind), slog.Int64("user_id", event.UserID), sl.Err(err))
		return
	}
	s.log.Info("operator alert published",
		slog.String("alert_id", a.ID), slog.String("kind", kind), slog.Int64("user_id", event.UserID))
}

// FormatAlert собирает человекочитаемый текст оповещения для чата оператора.
func FormatAlert(a models.OperatorAlert) string {
	var header string
	switch a.Kind {
	case models.AlertPaymentRequested:
		header = "💳 Запрос реквизитов оплаты"
	case models.AlertPaymentClaimed:
		header = "✅ Пользователь подтвердил оплату"
	case models.AlertBooking:
		header = "📅 Новая запись на занятие"
	case models.AlertConsultation:
		header = "🩺 Запрос консультации"
	default:
		header = "🔔 Оповещение"
	}

	who := a.Username
	if who != "" {
		who = "@" + who
	} else {
		who = a.FirstName
	}
	return fmt.Sprintf("%s\n\nПользователь: %s (id %d)\n%s", header, who, a.UserID, a.Text)
}

// RunConsumer возвращает обработчик сообщений очереди оповещений,
// доставляющий каждое оповещение в административный чат.
func RunConsumer(ctx context.Context, notifier Notifier, log *slog.Logger) func([]byte) error {
	return func(body []byte) error {
		const op = "alert.RunConsumer"
		var a models.OperatorAlert
		if err := json.Unmarshal(body, &a); err != nil {
			// Нечитаемое сообщение нет смысла возвращать в очередь
			log.Error("failed to decode operator alert", sl.Err(err))
			return nil
		}
		if err := notifier.Notify(ctx, FormatAlert(a)); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		log.Info("operator alert delivered", slog.String("alert_id", a.ID), slog.String("kind", a.Kind))
		return nil
	}
}
