package handlers

import (
	"context"
	"strings"

	"github.com/magabrotheeeer/recovery-lab-bot/internal/bot/keyboards"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/bot/texts"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/models"
)

var recoveryDays = map[string]string{
	"1": "Знакомство с телом и дыханием",
	"2": "Углубление практики",
	"3": "Интеграция и закрепление",
}

var breathCategories = map[string]string{
	"recovery":   "🌊 Восстановительное дыхание",
	"balance":    "⚖️ Балансирующее дыхание",
	"activating": "⚡ Активирующее дыхание",
	"body":       "💫 Дыхание с телом",
}

var bodyCategories = map[string]string{
	"diaphragm": "🫁 Диафрагма и рёбра",
	"belly":     "🤰 Живот",
	"pelvic":    "🌸 Тазовое дно",
	"mobility":  "🌊 Мягкая мобилизация",
	"joints":    "🦴 Суставная подвижность",
	"whole":     "✨ Всё тело",
}

var coreCategories = map[string]string{
	"neck":      "🦒 Шея и голова",
	"thoracic":  "🫀 Грудной отдел",
	"lumbar":    "🌀 Поясница",
	"center":    "⚓ Центр и опора",
	"joints":    "🦴 Суставы",
	"integrity": "🌟 Целостность тела",
}

var mindCategories = map[string]string{
	"relaxation": "🌙 Расслабление",
	"meditation": "🧘‍♀️ Медитации",
	"state":      "🌈 Работа с состоянием",
	"attention":  "🎯 Возвращение внимания",
}

func (r *Router) handleRecovery(ctx context.Context, event models.Event) error {
	if day, ok := strings.CutPrefix(event.Action, "recovery_day"); ok {
		text := texts.RecoveryDay(day, recoveryDays[day])
		return r.edit(ctx, event, text, keyboards.BackButton("lab_recovery", "🔙 К списку дней"))
	}
	return r.edit(ctx, event, texts.RecoveryReset, keyboards.RecoveryResetMenu())
}

func (r *Router) handleBreath(ctx context.Context, event models.Event) error {
	if key, ok := strings.CutPrefix(event.Action, "breath_"); ok {
		return r.showCategory(ctx, event, breathCategories[key], "Дыхательные практики", "lab_breath")
	}
	return r.edit(ctx, event, texts.BreathLab, keyboards.BreathLabMenu())
}

func (r *Router) handleBody(ctx context.Context, event models.Event) error {
	if key, ok := strings.CutPrefix(event.Action, "body_"); ok {
		return r.showCategory(ctx, event, bodyCategories[key], "Практики для тела", "lab_body")
	}
	return r.edit(ctx, event, texts.BodyLab, keyboards.BodyLabMenu())
}

func (r *Router) handleCore(ctx context.Context, event models.Event) error {
	if key, ok := strings.CutPrefix(event.Action, "core_"); ok {
		return r.showCategory(ctx, event, coreCategories[key], "Практики Core Lab", "lab_core")
	}
	return r.edit(ctx, event, texts.CoreLab, keyboards.CoreLabMenu())
}

func (r *Router) handleMind(ctx context.Context, event models.Event) error {
	if key, ok := strings.CutPrefix(event.Action, "mind_"); ok {
		return r.showCategory(ctx, event, mindCategories[key], "Практики Mind Lab", "lab_mind")
	}
	return r.edit(ctx, event, texts.MindLab, keyboards.MindLabMenu())
}

// showCategory показывает экран категории практик с кнопкой возврата.
func (r *Router) showCategory(ctx context.Context, event models.Event, title, fallback, backAction string) error {
	if title == "" {
		title = fallback
	}
	return r.edit(ctx, event, texts.CategoryPlaceholder(title), keyboards.BackButton(backAction, ""))
}
