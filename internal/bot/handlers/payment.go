package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/recovery-lab-bot/internal/bot/keyboards"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/bot/texts"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/lib/sl"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/models"
)

func (r *Router) handlePayment(ctx context.Context, event models.Event) error {
	switch event.Action {
	case "subscribe":
		return r.edit(ctx, event, texts.SubscriptionOffer(r.sub.Price),
			keyboards.SubscriptionKeyboard(r.sub.Price))
	case "subscribe_info":
		return r.edit(ctx, event, texts.SubscriptionInfo(r.sub.Price, r.sub.DurationDays),
			keyboards.SubscriptionKeyboard(r.sub.Price))
	case "pay":
		return r.startPayment(ctx, event)
	case "payment_confirm":
		return r.confirmPayment(ctx, event)
	}
	return r.edit(ctx, event, texts.SubscriptionOffer(r.sub.Price),
		keyboards.SubscriptionKeyboard(r.sub.Price))
}

// startPayment показывает реквизиты, переводит карточку в «ожидает оплату»
// и уведомляет оператора.
func (r *Router) startPayment(ctx context.Context, event models.Event) error {
	if err := r.users.MarkAwaitingPayment(ctx, event.UserID); err != nil {
		r.log.Warn("failed to mark awaiting payment",
			slog.Int64("user_id", event.UserID), sl.Err(err))
	}

	r.alerts.Send(models.AlertPaymentRequested, event,
		fmt.Sprintf("Сумма: %d₽. Ожидает подтверждения оплаты.", r.sub.Price))

	return r.edit(ctx, event, texts.PaymentDetails(r.sub.Price, r.sub.DurationDays),
		keyboards.PaymentKeyboard())
}

// confirmPayment фиксирует заявление об оплате и уведомляет оператора,
// который проверит поступление и откроет подписку.
func (r *Router) confirmPayment(ctx context.Context, event models.Event) error {
	if err := r.users.MarkPaymentClaimed(ctx, event.UserID); err != nil {
		r.log.Warn("failed to mark payment claimed",
			slog.Int64("user_id", event.UserID), sl.Err(err))
	}

	r.alerts.Send(models.AlertPaymentClaimed, event,
		fmt.Sprintf("Сумма: %d₽. Проверьте поступление и откройте подписку.", r.sub.Price))

	if err := r.sender.AnswerCallback(ctx, event.CallbackID, "✅ Заявка отправлена", false); err != nil {
		r.log.Warn("failed to answer callback", sl.Err(err))
	}
	return r.sender.Edit(ctx, event.ChatID, event.MessageID,
		texts.PaymentClaimed, markup(keyboards.MainMenu()))
}
