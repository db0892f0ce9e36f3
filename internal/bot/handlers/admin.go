package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/recovery-lab-bot/internal/bot/keyboards"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/bot/texts"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/lib/sl"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/models"
)

func (r *Router) isAdmin(event models.Event) bool {
	return event.ChatID == r.adminID
}

// handleAdminPanel показывает админ-панель по команде /admin.
func (r *Router) handleAdminPanel(ctx context.Context, event models.Event) error {
	if !r.isAdmin(event) {
		r.log.Warn("admin command from non-admin chat", slog.Int64("chat_id", event.ChatID))
		return r.sender.Send(ctx, event.ChatID, texts.MainMenu, markup(keyboards.MainMenu()))
	}
	return r.sender.Send(ctx, event.ChatID, texts.AdminPanel, markup(keyboards.AdminKeyboard()))
}

func (r *Router) handleAdminCallback(ctx context.Context, event models.Event) error {
	if !r.isAdmin(event) {
		return r.sender.AnswerCallback(ctx, event.CallbackID, "Недоступно", true)
	}
	switch event.Action {
	case "admin_stats":
		return r.showAdminStats(ctx, event)
	case "admin_users":
		return r.showAdminUsers(ctx, event)
	}
	return r.sender.AnswerCallback(ctx, event.CallbackID, "", false)
}

func (r *Router) showAdminStats(ctx context.Context, event models.Event) error {
	stats, err := r.users.Stats(ctx)
	if err != nil {
		r.log.Error("failed to collect stats", sl.Err(err))
		return r.edit(ctx, event, "❌ Ошибка при получении статистики.", keyboards.BackToMenu())
	}

	var conversion float64
	if stats.TotalUsers > 0 {
		conversion = float64(stats.PayingUsers) / float64(stats.TotalUsers) * 100
	}

	var b strings.Builder
	fmt.Fprintf(&b, `📊 <b>Статистика бота</b>

<b>Всего пользователей:</b> %d
<b>С активной подпиской:</b> %d
<b>Конверсия:</b> %.1f%%

<b>По статусам:</b>
`, stats.TotalUsers, stats.PayingUsers, conversion)
	for status, count := range stats.ByStatus {
		fmt.Fprintf(&b, "• %s: %d\n", status, count)
	}

	return r.edit(ctx, event, b.String(), keyboards.BackToMenu())
}

func (r *Router) showAdminUsers(ctx context.Context, event models.Event) error {
	users, err := r.users.ListUsers(ctx)
	if err != nil {
		r.log.Error("failed to list users", sl.Err(err))
		return r.edit(ctx, event, "❌ Ошибка при получении пользователей.", keyboards.BackToMenu())
	}

	if len(users) == 0 {
		return r.edit(ctx, event,
			"👥 <b>Пользователи</b>\n\nПока нет зарегистрированных пользователей.",
			keyboards.BackToMenu())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "👥 <b>Пользователи (%d)</b>\n\n", len(users))

	// Показываем последних десять
	start := 0
	if len(users) > 10 {
		start = len(users) - 10
	}
	for _, u := range users[start:] {
		username := u.Username
		if username == "" {
			username = "нет username"
		}
		firstName := u.FirstName
		if firstName == "" {
			firstName = "Без имени"
		}
		payment := "❌"
		if u.PaymentActive {
			payment = "✅"
		}
		fmt.Fprintf(&b, "%s %s (@%s) - %s\n", payment, firstName, username, u.Status)
	}
	if len(users) > 10 {
		fmt.Fprintf(&b, "\n<i>Показаны последние 10 из %d</i>", len(users))
	}

	return r.edit(ctx, event, b.String(), keyboards.BackToMenu())
}
