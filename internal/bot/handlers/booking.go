package handlers

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/recovery-lab-bot/internal/bot/dialog"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/bot/keyboards"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/bot/texts"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/lib/sl"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/models"
)

func (r *Router) handleBooking(ctx context.Context, event models.Event) error {
	switch event.Action {
	case "booking_form":
		if err := r.dialogs.Set(event.UserID, dialog.StateBookingContacts); err != nil {
			r.log.Warn("failed to set dialog state", slog.Int64("user_id", event.UserID), sl.Err(err))
		}
		return r.edit(ctx, event, texts.BookingForm, keyboards.BackToMenu())
	}
	return r.edit(ctx, event, texts.Booking, keyboards.BookingKeyboard())
}

// handleBookingContacts принимает контакты и уведомляет оператора о заявке.
func (r *Router) handleBookingContacts(ctx context.Context, event models.Event) error {
	if err := r.dialogs.Clear(event.UserID); err != nil {
		r.log.Warn("failed to clear dialog state", slog.Int64("user_id", event.UserID), sl.Err(err))
	}

	r.alerts.Send(models.AlertBooking, event, "Контакты: "+event.Text)

	return r.sender.Send(ctx, event.ChatID, texts.BookingSuccess, markup(keyboards.BackToMenu()))
}
