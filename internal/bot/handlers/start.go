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

// handleStart регистрирует пользователя и показывает приветствие с меню.
// Повторный /start уже известного пользователя карточку не меняет.
func (r *Router) handleStart(ctx context.Context, event models.Event) error {
	const op = "handlers.handleStart"

	profile := models.UserProfile{
		Username:  event.Username,
		FirstName: event.FirstName,
		LastName:  event.LastName,
	}
	if err := r.users.Register(ctx, event.UserID, profile); err != nil {
		// Приветствие показываем даже при сбое регистрации
		r.log.Error("failed to register user", slog.Int64("user_id", event.UserID), sl.Err(err))
	}

	if err := r.sender.Send(ctx, event.ChatID, texts.Welcome(event.FirstName), nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return r.sender.Send(ctx, event.ChatID, texts.MainMenu, markup(keyboards.MainMenu()))
}
