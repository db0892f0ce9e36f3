package handlers

import (
	"context"

	"github.com/magabrotheeeer/recovery-lab-bot/internal/bot/keyboards"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/bot/texts"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/models"
)

const leaveReview = `✍️ <b>Оставить отзыв</b>

Напишите ваш отзыв о практиках и материалах.

Ваш отзыв поможет другим людям принять решение! 🙏

<i>Функция будет добавлена в следующей версии</i>`

func (r *Router) handleReviews(ctx context.Context, event models.Event) error {
	if event.Action == "leave_review" {
		return r.edit(ctx, event, leaveReview, keyboards.ReviewsKeyboard())
	}
	return r.edit(ctx, event, texts.Reviews, keyboards.ReviewsKeyboard())
}

func (r *Router) handleContacts(ctx context.Context, event models.Event) error {
	return r.edit(ctx, event, texts.Contacts, keyboards.BackToMenu())
}
