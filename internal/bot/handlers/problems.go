package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/recovery-lab-bot/internal/bot/dialog"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/bot/keyboards"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/bot/texts"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/lib/sl"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/models"
)

var problemNames = map[string]string{
	"back":    "спина и осанка",
	"sleep":   "сон",
	"fatigue": "усталость",
	"anxiety": "тревожность",
	"tension": "напряжение и зажимы",
	"other":   "другое",
}

func (r *Router) handleProblems(ctx context.Context, event models.Event) error {
	action := event.Action
	switch {
	case action == "problems":
		return r.edit(ctx, event, texts.ProblemsIntro, keyboards.ProblemsMenu())
	case action == "consultation":
		return r.startConsultation(ctx, event)
	case strings.HasPrefix(action, "problem_"):
		return r.selectProblem(ctx, event, strings.TrimPrefix(action, "problem_"))
	}
	return r.edit(ctx, event, texts.ProblemsIntro, keyboards.ProblemsMenu())
}

// selectProblem сохраняет выбранную проблему в карточке и предлагает
// подобранные практики либо консультацию.
func (r *Router) selectProblem(ctx context.Context, event models.Event, key string) error {
	name, ok := problemNames[key]
	if !ok {
		name = key
	}

	if err := r.users.AddProblem(ctx, event.UserID, name); err != nil {
		r.log.Warn("failed to save problem",
			slog.Int64("user_id", event.UserID), slog.String("problem", name), sl.Err(err))
	}

	text := fmt.Sprintf(`🔎 <b>Тема: %s</b>

Подходящие практики появятся в разделе «Материалы».

Хотите персональный разбор? Запросите консультацию эксперта.`, name)
	return r.edit(ctx, event, text, keyboards.ConsultationKeyboard())
}

// startConsultation запускает форму описания проблемы.
func (r *Router) startConsultation(ctx context.Context, event models.Event) error {
	if err := r.dialogs.Set(event.UserID, dialog.StateConsultationDescription); err != nil {
		r.log.Warn("failed to set dialog state", slog.Int64("user_id", event.UserID), sl.Err(err))
	}
	return r.edit(ctx, event, texts.ConsultationForm, keyboards.BackToMenu())
}

// handleConsultationDescription принимает текст запроса, уведомляет
// оператора и фиксирует счётчик консультаций.
func (r *Router) handleConsultationDescription(ctx context.Context, event models.Event) error {
	if err := r.dialogs.Clear(event.UserID); err != nil {
		r.log.Warn("failed to clear dialog state", slog.Int64("user_id", event.UserID), sl.Err(err))
	}

	if err := r.users.RecordConsultationRequest(ctx, event.UserID); err != nil {
		r.log.Warn("failed to record consultation request",
			slog.Int64("user_id", event.UserID), sl.Err(err))
	}
	r.alerts.Send(models.AlertConsultation, event, "Описание: "+event.Text)

	return r.sender.Send(ctx, event.ChatID, texts.ConsultationSent, markup(keyboards.BackToMenu()))
}
