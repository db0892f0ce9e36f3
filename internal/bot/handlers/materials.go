package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/recovery-lab-bot/internal/bot/keyboards"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/bot/texts"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/lib/sl"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/models"
)

// Material описывает материал из закрытого канала.
type Material struct {
	ID          int
	Title       string
	Description string
	// MessageID — номер сообщения в закрытом канале материалов.
	MessageID int
	Category  string
}

// Каталог материалов по форматам. Пополняется по мере загрузки в канал.
var catalogByFormat = map[string][]Material{
	"video": {
		{
			ID:          1,
			Title:       "Базовая практика для спины",
			Description: "Упражнения для расслабления мышц спины и улучшения осанки (15 минут)",
			MessageID:   2,
			Category:    "back",
		},
	},
	"article": {},
	"audio":   {},
}

const materialsByTheme = `📂 <b>Материалы по темам:</b>

🧘 Позвоночник и осанка
🌬 Дыхательные практики
⚡ Работа с энергией
😌 Снятие напряжения
💪 Укрепление тела

<i>Выберите тему в разделе «У меня проблема»</i>`

func formatEmoji(format string) string {
	switch format {
	case "video":
		return "🎥"
	case "article":
		return "📄"
	default:
		return "🎧"
	}
}

func findMaterial(id int) (Material, bool) {
	for _, materials := range catalogByFormat {
		for _, m := range materials {
			if m.ID == id {
				return m, true
			}
		}
	}
	return Material{}, false
}

// handleMaterials обслуживает раздел материалов. Сюда событие доходит
// только с разрешённым доступом: отказ перехватывается раньше.
func (r *Router) handleMaterials(ctx context.Context, event models.Event) error {
	action := event.Action
	switch {
	case action == "materials":
		return r.edit(ctx, event, texts.MaterialsIntro, keyboards.MaterialsMenu())
	case action == "materials_format":
		return r.edit(ctx, event, "🎥 <b>Выберите формат материалов:</b>", keyboards.FormatsMenu())
	case action == "materials_theme":
		return r.edit(ctx, event, materialsByTheme, keyboards.BackButton("materials", ""))
	case action == "materials_popular":
		return r.showFormat(ctx, event, "video")
	case strings.HasPrefix(action, "format_"):
		return r.showFormat(ctx, event, strings.TrimPrefix(action, "format_"))
	case strings.HasPrefix(action, "get_material_"):
		return r.sendMaterial(ctx, event, strings.TrimPrefix(action, "get_material_"))
	}
	return r.edit(ctx, event, texts.MaterialsIntro, keyboards.MaterialsMenu())
}

func (r *Router) showFormat(ctx context.Context, event models.Event, format string) error {
	materials := catalogByFormat[format]
	if len(materials) == 0 {
		return r.edit(ctx, event, "Материалы этого формата скоро появятся! 🎬", keyboards.BackToMenu())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>📚 Материалы (%s):</b>\n\n", format)
	for _, m := range materials {
		fmt.Fprintf(&b, "%s <b>%s</b>\n<i>%s</i>\n\n", formatEmoji(format), m.Title, m.Description)
	}
	b.WriteString("✅ У вас есть доступ ко всем материалам!")

	return r.edit(ctx, event, b.String(), keyboards.MaterialKeyboard(materials[0].ID, true))
}

// sendMaterial пересылает материал из закрытого канала и фиксирует просмотр.
func (r *Router) sendMaterial(ctx context.Context, event models.Event, rawID string) error {
	const op = "handlers.sendMaterial"

	id, err := strconv.Atoi(rawID)
	if err != nil {
		return fmt.Errorf("%s: bad material id %q: %w", op, rawID, err)
	}
	m, ok := findMaterial(id)
	if !ok {
		return r.sender.AnswerCallback(ctx, event.CallbackID, "Материал не найден", true)
	}

	if err := r.sender.ForwardFromChannel(ctx, event.ChatID, m.MessageID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := r.users.RecordMaterialView(ctx, event.UserID); err != nil {
		r.log.Warn("failed to record material view",
			slog.Int64("user_id", event.UserID), sl.Err(err))
	}
	return r.sender.AnswerCallback(ctx, event.CallbackID, "", false)
}
