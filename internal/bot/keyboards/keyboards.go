// Package keyboards собирает inline-клавиатуры бота Recovery Lab.
package keyboards

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func row(text, data string) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(text, data))
}

func urlRow(text, url string) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL(text, url))
}

// MainMenu — главное меню: пять Labs, информация и подписка.
func MainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row("🔄 Recovery Reset", "lab_recovery"),
		row("🌬 Breath Lab", "lab_breath"),
		row("💆 Body Lab", "lab_body"),
		row("🧘 Core Lab", "lab_core"),
		row("🧠 Mind Lab", "lab_mind"),
		row("📚 Материалы", "materials"),
		row("🤕 У меня проблема", "problems"),
		row("📅 Запись на занятие", "booking"),
		row("⭐ Отзывы", "reviews"),
		row("📞 Контакты", "contacts"),
		row("ℹ️ Информация", "info"),
		row("💰 Оформить подписку", "subscribe"),
	)
}

// BackButton — универсальная кнопка «Назад».
func BackButton(callbackData, text string) tgbotapi.InlineKeyboardMarkup {
	if text == "" {
		text = "🔙 Назад"
	}
	return tgbotapi.NewInlineKeyboardMarkup(row(text, callbackData))
}

// BackToMenu — кнопка возврата в главное меню.
func BackToMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(row("🏠 Главное меню", "menu"))
}

// RecoveryResetMenu — меню трёхдневной программы.
func RecoveryResetMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row("📅 День 1", "recovery_day1"),
		row("📅 День 2", "recovery_day2"),
		row("📅 День 3", "recovery_day3"),
		row("🏠 Главное меню", "menu"),
	)
}

// BreathLabMenu — категории дыхательных практик.
func BreathLabMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row("🌊 Восстановительное дыхание", "breath_recovery"),
		row("⚖️ Балансирующее дыхание", "breath_balance"),
		row("⚡ Активирующее дыхание", "breath_activating"),
		row("💫 Дыхание с телом", "breath_body"),
		row("🏠 Главное меню", "menu"),
	)
}

// BodyLabMenu — категории практик для тела.
func BodyLabMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row("🫁 Диафрагма и рёбра", "body_diaphragm"),
		row("🤰 Живот", "body_belly"),
		row("🌸 Тазовое дно", "body_pelvic"),
		row("🌊 Мягкая мобилизация", "body_mobility"),
		row("🦴 Суставная подвижность", "body_joints"),
		row("✨ Всё тело", "body_whole"),
		row("🏠 Главное меню", "menu"),
	)
}

// CoreLabMenu — категории практик Core Lab.
func CoreLabMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row("🦒 Шея и голова", "core_neck"),
		row("🫀 Грудной отдел", "core_thoracic"),
		row("🌀 Поясница", "core_lumbar"),
		row("⚓ Центр и опора", "core_center"),
		row("🦴 Суставы", "core_joints"),
		row("🌟 Целостность тела", "core_integrity"),
		row("🏠 Главное меню", "menu"),
	)
}

// MindLabMenu — категории практик Mind Lab.
func MindLabMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row("🌙 Расслабление", "mind_relaxation"),
		row("🧘‍♀️ Медитации", "mind_meditation"),
		row("🌈 Работа с состоянием", "mind_state"),
		row("🎯 Возвращение внимания", "mind_attention"),
		row("🏠 Главное меню", "menu"),
	)
}

// InfoMenu — меню раздела «Информация».
func InfoMenu(channelURL, chatURL string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row("📖 О проекте", "info_about"),
		row("📚 Как пользоваться", "info_how"),
		row("❓ FAQ", "info_faq"),
		row("👤 Об авторе", "info_author"),
		urlRow("📢 Telegram-канал Recovery Lab", channelURL),
		urlRow("💬 Чат Recovery Lab", chatURL),
		row("🏠 Главное меню", "menu"),
	)
}

// MaterialsMenu — выбор формата или темы материалов.
func MaterialsMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row("🎥 По формату", "materials_format"),
		row("📂 По теме", "materials_theme"),
		row("🔥 Популярное", "materials_popular"),
		row("🏠 Главное меню", "menu"),
	)
}

// FormatsMenu — выбор формата материалов.
func FormatsMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row("🎥 Видео", "format_video"),
		row("📄 Статьи", "format_article"),
		row("🎧 Аудио", "format_audio"),
		row("🔙 Назад", "materials"),
	)
}

// MaterialKeyboard — кнопка получения материала или предложение подписки.
func MaterialKeyboard(materialID int, hasAccess bool) tgbotapi.InlineKeyboardMarkup {
	if hasAccess {
		return tgbotapi.NewInlineKeyboardMarkup(
			row("▶️ Получить материал", fmt.Sprintf("get_material_%d", materialID)),
			row("🔙 Назад", "materials"),
		)
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		row("💰 Оформить подписку", "subscribe"),
		row("🔙 Назад", "materials"),
	)
}

// ProblemsMenu — категории проблем.
func ProblemsMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row("🦴 Спина и осанка", "problem_back"),
		row("😴 Сон", "problem_sleep"),
		row("⚡ Усталость", "problem_fatigue"),
		row("😰 Тревожность", "problem_anxiety"),
		row("🤕 Напряжение и зажимы", "problem_tension"),
		row("❓ Другое", "problem_other"),
		row("🏠 Главное меню", "menu"),
	)
}

// ConsultationKeyboard — запрос консультации после выбора проблемы.
func ConsultationKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row("🩺 Запросить консультацию", "consultation"),
		row("🏠 Главное меню", "menu"),
	)
}

// SubscriptionKeyboard — оформление подписки.
func SubscriptionKeyboard(price int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row(fmt.Sprintf("💳 Оплатить %d₽", price), "pay"),
		row("📦 Подробнее", "subscribe_info"),
		row("🏠 Главное меню", "menu"),
	)
}

// PaymentKeyboard — подтверждение оплаты.
func PaymentKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row("✅ Я оплатил", "payment_confirm"),
		row("❌ Отменить", "menu"),
	)
}

// BookingKeyboard — запись на занятие.
func BookingKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row("📝 Записаться", "booking_form"),
		row("🏠 Главное меню", "menu"),
	)
}

// ReviewsKeyboard — экран отзывов.
func ReviewsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row("✍️ Оставить отзыв", "leave_review"),
		row("🏠 Главное меню", "menu"),
	)
}

// AdminKeyboard — админская клавиатура.
func AdminKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		row("📊 Статистика", "admin_stats"),
		row("👥 Пользователи", "admin_users"),
	)
}
