package telegram

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/recovery-lab-bot/internal/models"
)

// newTestClient поднимает заглушку Bot API и возвращает клиента поверх неё.
func newTestClient(t *testing.T, handler func(method string, form map[string][]string)) (*Client, func()) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		if method == "getMe" {
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"bot","username":"testbot"}}`))
			return
		}
		handler(method, r.Form)
		_, _ = w.Write([]byte(`{"ok":true,"result":true}`))
	}))

	api, err := tgbotapi.NewBotAPIWithAPIEndpoint("test-token", ts.URL+"/bot%s/%s")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return &Client{api: api, log: logger}, ts.Close
}

func TestNotifyThrottled_CallbackShowsAlert(t *testing.T) {
	var gotMethod string
	var gotShowAlert string
	client, cleanup := newTestClient(t, func(method string, form map[string][]string) {
		gotMethod = method
		if v := form["show_alert"]; len(v) > 0 {
			gotShowAlert = v[0]
		}
	})
	defer cleanup()

	client.NotifyThrottled(context.Background(), models.Event{
		UserID:     42,
		CallbackID: "cb1",
		IsCallback: true,
	})

	assert.Equal(t, "answerCallbackQuery", gotMethod)
	// Уведомление должно показываться всплывающим окном
	assert.Equal(t, "true", gotShowAlert)
}

func TestNotifyThrottled_MessageSendsText(t *testing.T) {
	var gotMethod string
	var gotText string
	client, cleanup := newTestClient(t, func(method string, form map[string][]string) {
		gotMethod = method
		if v := form["text"]; len(v) > 0 {
			gotText = v[0]
		}
	})
	defer cleanup()

	client.NotifyThrottled(context.Background(), models.Event{
		UserID: 42,
		ChatID: 42,
	})

	assert.Equal(t, "sendMessage", gotMethod)
	assert.Contains(t, gotText, "Подождите")
}
