// Package texts содержит тексты экранов бота Recovery Lab.
package texts

import "fmt"

// Welcome возвращает приветствие для нового пользователя.
func Welcome(firstName string) string {
	if firstName == "" {
		firstName = "друг"
	}
	return fmt.Sprintf(`👋 Привет, %s!

Добро пожаловать в <b>Recovery Lab</b> — пространство мягких практик восстановления.

Здесь ты найдёшь дыхательные практики, работу с телом и вниманием, медитации и программы на каждый день.`, firstName)
}

// MainMenu — текст главного меню.
const MainMenu = `🏠 <b>Главное меню</b>

Выбери направление:`

// RecoveryReset — описание программы Recovery Reset.
const RecoveryReset = `🔄 <b>Recovery Reset</b>

Трёхдневная программа мягкой перезагрузки: тело, дыхание, внимание.

Выбери день:`

// RecoveryDay возвращает описание дня программы.
func RecoveryDay(day, description string) string {
	return fmt.Sprintf("📅 <b>Recovery Reset — день %s</b>\n\n%s\n\n<i>Практики добавляются...</i>", day, description)
}

// BreathLab — описание раздела дыхательных практик.
const BreathLab = `🌬 <b>Breath Lab</b>

Дыхательные практики для восстановления, баланса и энергии.

Выбери категорию:`

// BodyLab — описание раздела практик для тела.
const BodyLab = `💆 <b>Body Lab</b>

Мягкая работа с телом: диафрагма, живот, тазовое дно, подвижность.

Выбери категорию:`

// CoreLab — описание раздела Core Lab.
const CoreLab = `🧘 <b>Core Lab</b>

Опора и центр: шея, грудной отдел, поясница, суставы.

Выбери категорию:`

// MindLab — описание раздела Mind Lab.
const MindLab = `🧠 <b>Mind Lab</b>

Расслабление, медитации, работа с состоянием и вниманием.

Выбери категорию:`

// CategoryPlaceholder возвращает заглушку категории, пока практики не загружены.
func CategoryPlaceholder(title string) string {
	return fmt.Sprintf("<b>%s</b>\n\n<i>Практики добавляются...</i>", title)
}

// Info — текст меню «Информация».
const Info = `ℹ️ <b>Информация</b>

О проекте, инструкции и ответы на вопросы:`

// MaterialsIntro — вводный текст раздела материалов.
const MaterialsIntro = `📚 <b>Материалы</b>

Видео-практики, статьи и аудио-медитации.

Выбери формат или тему:`

// ProblemsIntro — вводный текст раздела «У меня проблема».
const ProblemsIntro = `🤕 <b>У меня проблема</b>

Выбери, что беспокоит — подберём практики:`

// SubscriptionOffer возвращает предложение подписки.
func SubscriptionOffer(price int) string {
	return fmt.Sprintf(`💰 <b>Подписка Recovery Lab</b>

✅ Неограниченный доступ ко всем материалам
✅ 50+ видео-практик
✅ 30+ статей и методик
✅ 20+ аудио-медитаций
✅ Новые материалы каждую неделю

<b>Стоимость:</b> %d₽ в месяц`, price)
}

// SubscriptionInfo возвращает подробную информацию о подписке.
func SubscriptionInfo(price, durationDays int) string {
	return fmt.Sprintf(`📦 <b>Подробнее о подписке</b>

<b>Что входит:</b>
✅ Неограниченный доступ ко всем материалам
✅ Новые материалы каждую неделю
✅ Поддержка эксперта

<b>Стоимость:</b> %d₽
<b>Срок действия:</b> %d дней

<b>Как оплатить:</b>
1. Нажмите «Оплатить»
2. Переведите %d₽ удобным способом
3. Нажмите «Я оплатил»
4. Доступ откроется после проверки`, price, durationDays, price)
}

// PaymentDetails возвращает реквизиты для оплаты.
func PaymentDetails(price, durationDays int) string {
	return fmt.Sprintf(`💳 <b>Оплата подписки</b>

<b>Сумма:</b> %d₽
<b>Срок:</b> %d дней

<b>Реквизиты для оплаты:</b>
📱 Номер карты: <code>XXXX XXXX XXXX XXXX</code>

После оплаты нажмите «Я оплатил».

<i>Оператор проверит оплату и активирует подписку в течение нескольких минут</i>`, price, durationDays)
}

// PaymentClaimed — подтверждение принятой заявки.
const PaymentClaimed = `✅ <b>Заявка принята!</b>

Оператор проверит оплату и активирует подписку в течение нескольких минут.

Вы получите уведомление, когда доступ будет открыт.

Спасибо за терпение! 🙏`

// SubscriptionRequired — короткое уведомление для закрытого материала.
const SubscriptionRequired = "🔒 Требуется подписка"

// ThrottleNotice — уведомление при слишком частых действиях.
const ThrottleNotice = "⏱ Подождите немного перед следующим действием"

// Booking — форма записи на встречу.
const Booking = `📅 <b>Запись на занятие</b>

Персональная встреча с экспертом: разбор запроса и подбор практик.

Нажмите «Записаться» и оставьте контакты.`

// BookingForm — запрос контактов для записи.
const BookingForm = `📝 <b>Оставьте ваши контакты</b>

Напишите ваше имя и номер телефона в формате:
<i>Иван, +79991234567</i>`

// BookingSuccess — подтверждение принятой заявки на встречу.
const BookingSuccess = `✅ Заявка принята!

Мы свяжемся с вами в ближайшее время.`

// ConsultationForm — запрос описания проблемы для консультации.
const ConsultationForm = `🩺 <b>Запрос консультации</b>

Опишите, что вас беспокоит — эксперт посмотрит и предложит практики.`

// ConsultationSent — подтверждение отправленного запроса.
const ConsultationSent = `✅ Запрос отправлен!

Эксперт изучит описание и вернётся с рекомендациями.`

// Contacts — контакты эксперта.
const Contacts = `📞 <b>Контакты</b>

Telegram: @recovery_lab_expert
Email: hello@recoverylab.ru

<i>Отвечаем в течение рабочего дня</i>`

// Reviews — экран отзывов.
const Reviews = `⭐ <b>Отзывы</b>

Истории участников Recovery Lab — в нашем канале.

Хотите поделиться своим опытом? Нажмите «Оставить отзыв».`

// AdminPanel — приветствие админ-панели.
const AdminPanel = `👨‍💼 <b>Админ-панель</b>

Добро пожаловать в панель управления ботом!`
