package handlers

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/recovery-lab-bot/internal/bot/dialog"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/config"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/models"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/services/access"
)

// MockSender реализует интерфейс handlers.Sender
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, chatID int64, text string, kb *tgbotapi.InlineKeyboardMarkup) error {
	args := m.Called(ctx, chatID, text, kb)
	return args.Error(0)
}

func (m *MockSender) Edit(ctx context.Context, chatID int64, messageID int, text string, kb *tgbotapi.InlineKeyboardMarkup) error {
	args := m.Called(ctx, chatID, messageID, text, kb)
	return args.Error(0)
}

func (m *MockSender) AnswerCallback(ctx context.Context, callbackID, text string, showAlert bool) error {
	args := m.Called(ctx, callbackID, text, showAlert)
	return args.Error(0)
}

func (m *MockSender) ForwardFromChannel(ctx context.Context, chatID int64, messageID int) error {
	args := m.Called(ctx, chatID, messageID)
	return args.Error(0)
}

// MockUserService реализует интерфейс handlers.UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, id int64, profile models.UserProfile) error {
	args := m.Called(ctx, id, profile)
	return args.Error(0)
}

func (m *MockUserService) MarkAwaitingPayment(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserService) MarkPaymentClaimed(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserService) RecordMaterialView(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserService) RecordConsultationRequest(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserService) AddProblem(ctx context.Context, id int64, problem string) error {
	args := m.Called(ctx, id, problem)
	return args.Error(0)
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]*models.UserRecord, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]*models.UserRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) Stats(ctx context.Context) (*models.Stats, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.(*models.Stats), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockAlerter реализует интерфейс handlers.Alerter
type MockAlerter struct {
	mock.Mock
}

func (m *MockAlerter) Send(kind string, event models.Event, text string) {
	m.Called(kind, event, text)
}

// fakeCache — кеш в памяти для хранилища состояний диалогов.
type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (c *fakeCache) Get(key string, result any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return false, nil
	}
	*result.(*string) = v
	return true, nil
}

func (c *fakeCache) Set(key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value.(string)
	return nil
}

func (c *fakeCache) Invalidate(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

type routerDeps struct {
	sender *MockSender
	users  *MockUserService
	alerts *MockAlerter
	cache  *fakeCache
}

func newTestRouter(adminID int64) (*Router, *routerDeps) {
	deps := &routerDeps{
		sender: new(MockSender),
		users:  new(MockUserService),
		alerts: new(MockAlerter),
		cache:  newFakeCache(),
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	sub := config.Subscription{Price: 990, DurationDays: 30}
	router := New(deps.sender, deps.users, deps.alerts, dialog.New(deps.cache), sub, adminID, logger)
	return router, deps
}

var allowed = access.Decision{Class: access.ClassFree, Allowed: true}

func TestHandle_Start(t *testing.T) {
	router, deps := newTestRouter(1)

	event := models.Event{
		UserID: 42, ChatID: 42, Action: "start",
		Username: "testuser", FirstName: "Test",
	}

	deps.users.On("Register", mock.Anything, int64(42), models.UserProfile{
		Username: "testuser", FirstName: "Test",
	}).Return(nil)
	// Приветствие + главное меню
	deps.sender.On("Send", mock.Anything, int64(42), mock.Anything, mock.Anything).
		Return(nil).Times(2)

	require.NoError(t, router.Handle(context.Background(), event, allowed))

	deps.users.AssertExpectations(t)
	deps.sender.AssertExpectations(t)
}

func TestHandle_GatedDeniedShowsSubscriptionOffer(t *testing.T) {
	router, deps := newTestRouter(1)

	event := models.Event{
		UserID: 42, ChatID: 42, MessageID: 7, CallbackID: "cb1",
		Action: "get_material_1", IsCallback: true,
	}
	denied := access.Decision{Class: access.ClassGated, Allowed: false}

	deps.sender.On("AnswerCallback", mock.Anything, "cb1", "🔒 Требуется подписка", true).Return(nil)
	deps.sender.On("Edit", mock.Anything, int64(42), 7, mock.MatchedBy(func(text string) bool {
		return strings.Contains(text, "Подписка")
	}), mock.Anything).Return(nil)

	require.NoError(t, router.Handle(context.Background(), event, denied))

	// Материал не пересылается, просмотр не фиксируется
	deps.sender.AssertNotCalled(t, "ForwardFromChannel", mock.Anything, mock.Anything, mock.Anything)
	deps.users.AssertNotCalled(t, "RecordMaterialView", mock.Anything, mock.Anything)
	deps.sender.AssertExpectations(t)
}

func TestHandle_GatedAllowedSendsMaterial(t *testing.T) {
	router, deps := newTestRouter(1)

	event := models.Event{
		UserID: 42, ChatID: 42, MessageID: 7, CallbackID: "cb1",
		Action: "get_material_1", IsCallback: true,
	}
	granted := access.Decision{Class: access.ClassGated, Allowed: true}

	deps.sender.On("ForwardFromChannel", mock.Anything, int64(42), 2).Return(nil)
	deps.users.On("RecordMaterialView", mock.Anything, int64(42)).Return(nil)
	deps.sender.On("AnswerCallback", mock.Anything, "cb1", "", false).Return(nil)

	require.NoError(t, router.Handle(context.Background(), event, granted))

	deps.sender.AssertExpectations(t)
	deps.users.AssertExpectations(t)
}

func TestHandle_PayMarksAwaitingAndAlertsOperator(t *testing.T) {
	router, deps := newTestRouter(1)

	event := models.Event{
		UserID: 42, ChatID: 42, MessageID: 7, CallbackID: "cb1",
		Action: "pay", IsCallback: true, Username: "testuser",
	}

	deps.users.On("MarkAwaitingPayment", mock.Anything, int64(42)).Return(nil)
	deps.alerts.On("Send", models.AlertPaymentRequested, event, mock.Anything).Return()
	deps.sender.On("Edit", mock.Anything, int64(42), 7, mock.Anything, mock.Anything).Return(nil)
	deps.sender.On("AnswerCallback", mock.Anything, "cb1", "", false).Return(nil)

	require.NoError(t, router.Handle(context.Background(), event, allowed))

	deps.users.AssertExpectations(t)
	deps.alerts.AssertExpectations(t)
}

func TestHandle_PaymentConfirm(t *testing.T) {
	router, deps := newTestRouter(1)

	event := models.Event{
		UserID: 42, ChatID: 42, MessageID: 7, CallbackID: "cb1",
		Action: "payment_confirm", IsCallback: true,
	}

	deps.users.On("MarkPaymentClaimed", mock.Anything, int64(42)).Return(nil)
	deps.alerts.On("Send", models.AlertPaymentClaimed, event, mock.Anything).Return()
	deps.sender.On("AnswerCallback", mock.Anything, "cb1", "✅ Заявка отправлена", false).Return(nil)
	deps.sender.On("Edit", mock.Anything, int64(42), 7, mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, router.Handle(context.Background(), event, allowed))

	deps.users.AssertExpectations(t)
	deps.alerts.AssertExpectations(t)
}

func TestHandle_BookingFlow(t *testing.T) {
	router, deps := newTestRouter(1)

	form := models.Event{
		UserID: 42, ChatID: 42, MessageID: 7, CallbackID: "cb1",
		Action: "booking_form", IsCallback: true,
	}
	deps.sender.On("Edit", mock.Anything, int64(42), 7, mock.Anything, mock.Anything).Return(nil)
	deps.sender.On("AnswerCallback", mock.Anything, "cb1", "", false).Return(nil)

	require.NoError(t, router.Handle(context.Background(), form, allowed))

	// Следующее текстовое сообщение трактуется как контакты
	contacts := models.Event{
		UserID: 42, ChatID: 42, Action: "text", Text: "Иван, +79991234567",
	}
	deps.alerts.On("Send", models.AlertBooking, contacts, "Контакты: Иван, +79991234567").Return()
	deps.sender.On("Send", mock.Anything, int64(42), mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, router.Handle(context.Background(), contacts, allowed))

	deps.alerts.AssertExpectations(t)

	// Состояние сброшено: повторный текст показывает меню
	again := models.Event{UserID: 42, ChatID: 42, Action: "text", Text: "привет"}
	require.NoError(t, router.Handle(context.Background(), again, allowed))
	deps.alerts.AssertNumberOfCalls(t, "Send", 1)
}

func TestHandle_ConsultationFlow(t *testing.T) {
	router, deps := newTestRouter(1)

	start := models.Event{
		UserID: 42, ChatID: 42, MessageID: 7, CallbackID: "cb1",
		Action: "consultation", IsCallback: true,
	}
	deps.sender.On("Edit", mock.Anything, int64(42), 7, mock.Anything, mock.Anything).Return(nil)
	deps.sender.On("AnswerCallback", mock.Anything, "cb1", "", false).Return(nil)

	require.NoError(t, router.Handle(context.Background(), start, allowed))

	description := models.Event{
		UserID: 42, ChatID: 42, Action: "text", Text: "Болит спина по утрам",
	}
	deps.users.On("RecordConsultationRequest", mock.Anything, int64(42)).Return(nil)
	deps.alerts.On("Send", models.AlertConsultation, description, mock.Anything).Return()
	deps.sender.On("Send", mock.Anything, int64(42), mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, router.Handle(context.Background(), description, allowed))

	deps.users.AssertExpectations(t)
	deps.alerts.AssertExpectations(t)
}

func TestHandle_ProblemSelectionSaved(t *testing.T) {
	router, deps := newTestRouter(1)

	event := models.Event{
		UserID: 42, ChatID: 42, MessageID: 7, CallbackID: "cb1",
		Action: "problem_back", IsCallback: true,
	}

	deps.users.On("AddProblem", mock.Anything, int64(42), "спина и осанка").Return(nil)
	deps.sender.On("Edit", mock.Anything, int64(42), 7, mock.Anything, mock.Anything).Return(nil)
	deps.sender.On("AnswerCallback", mock.Anything, "cb1", "", false).Return(nil)

	require.NoError(t, router.Handle(context.Background(), event, allowed))

	deps.users.AssertExpectations(t)
}

func TestHandle_AdminOnlyForAdminChat(t *testing.T) {
	router, deps := newTestRouter(100)

	event := models.Event{
		UserID: 42, ChatID: 42, CallbackID: "cb1",
		Action: "admin_stats", IsCallback: true,
	}

	deps.sender.On("AnswerCallback", mock.Anything, "cb1", "Недоступно", true).Return(nil)

	require.NoError(t, router.Handle(context.Background(), event, allowed))

	deps.users.AssertNotCalled(t, "Stats", mock.Anything)
}

func TestHandle_AdminStats(t *testing.T) {
	router, deps := newTestRouter(100)

	event := models.Event{
		UserID: 100, ChatID: 100, MessageID: 7, CallbackID: "cb1",
		Action: "admin_stats", IsCallback: true,
	}

	deps.users.On("Stats", mock.Anything).Return(&models.Stats{
		TotalUsers: 10, PayingUsers: 3,
		ByStatus: map[string]int{models.StatusActiveSubscriber: 3},
	}, nil)
	deps.sender.On("Edit", mock.Anything, int64(100), 7, mock.Anything, mock.Anything).Return(nil)
	deps.sender.On("AnswerCallback", mock.Anything, "cb1", "", false).Return(nil)

	require.NoError(t, router.Handle(context.Background(), event, allowed))

	deps.users.AssertExpectations(t)
}

func TestHandle_UnknownCallbackAnswered(t *testing.T) {
	router, deps := newTestRouter(1)

	event := models.Event{
		UserID: 42, ChatID: 42, CallbackID: "cb1",
		Action: "something_unexpected", IsCallback: true,
	}

	deps.sender.On("AnswerCallback", mock.Anything, "cb1", "", false).Return(nil)

	require.NoError(t, router.Handle(context.Background(), event, allowed))
	deps.sender.AssertExpectations(t)
}
