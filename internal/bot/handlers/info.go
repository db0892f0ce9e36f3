package handlers

import (
	"context"

	"github.com/magabrotheeeer/recovery-lab-bot/internal/bot/keyboards"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/bot/texts"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/models"
)

const aboutProject = `📖 <b>О проекте</b>

Recovery Lab — пространство мягких практик восстановления: дыхание, работа с телом, внимание и отдых.

Материалы создаются экспертом и обновляются каждую неделю.`

const howToUse = `📚 <b>Как пользоваться</b>

1. Выберите Lab в главном меню
2. Откройте категорию и практику
3. Платные материалы доступны по подписке
4. Вопросы — в разделе «Контакты»`

const faq = `❓ <b>FAQ</b>

<b>Как оплатить подписку?</b>
Через раздел «Оформить подписку» в меню.

<b>Когда откроется доступ?</b>
После проверки оплаты оператором, обычно за 5–10 минут.

<b>Можно ли отменить подписку?</b>
Подписка не продлевается автоматически.`

const aboutAuthor = `👤 <b>Об авторе</b>

Алёна — эксперт по восстановительным практикам, дыханию и работе с телом.`

func (r *Router) handleInfo(ctx context.Context, event models.Event) error {
	switch event.Action {
	case "info_about":
		return r.edit(ctx, event, aboutProject, keyboards.BackButton("info", ""))
	case "info_how":
		return r.edit(ctx, event, howToUse, keyboards.BackButton("info", ""))
	case "info_faq":
		return r.edit(ctx, event, faq, keyboards.BackButton("info", ""))
	case "info_author":
		return r.edit(ctx, event, aboutAuthor, keyboards.BackButton("info", ""))
	}
	return r.edit(ctx, event, texts.Info, keyboards.InfoMenu(channelURL, chatURL))
}
