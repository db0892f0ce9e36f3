package pipeline

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/recovery-lab-bot/internal/metrics"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/models"
	"github.com/magabrotheeeer/recovery-lab-bot/internal/services/access"
)

// MockThrottler реализует интерфейс pipeline.Throttler
type MockThrottler struct {
	mock.Mock
}

func (m *MockThrottler) Admit(userID int64) bool {
	args := m.Called(userID)
	return args.Bool(0)
}

// MockChecker реализует интерфейс pipeline.AccessChecker
type MockChecker struct {
	mock.Mock
}

func (m *MockChecker) CheckAccess(ctx context.Context, userID int64, action string) access.Decision {
	args := m.Called(ctx, userID, action)
	return args.Get(0).(access.Decision)
}

// MockHandler реализует интерфейс pipeline.Handler
type MockHandler struct {
	mock.Mock
}

func (m *MockHandler) Handle(ctx context.Context, event models.Event, decision access.Decision) error {
	args := m.Called(ctx, event, decision)
	return args.Error(0)
}

// MockNotifier реализует интерфейс pipeline.ThrottleNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyThrottled(ctx context.Context, event models.Event) {
	m.Called(ctx, event)
}

func newTestPipeline(throttler *MockThrottler, checker *MockChecker,
	handler *MockHandler, notifier *MockNotifier) *Pipeline {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m := metrics.New(prometheus.NewRegistry())
	return New(throttler, checker, handler, notifier, m, logger)
}

func TestProcess_FullChain(t *testing.T) {
	throttler := new(MockThrottler)
	checker := new(MockChecker)
	handler := new(MockHandler)
	notifier := new(MockNotifier)
	p := newTestPipeline(throttler, checker, handler, notifier)

	event := models.Event{UserID: 42, Action: "menu"}
	decision := access.Decision{Class: access.ClassFree, Allowed: true}

	throttler.On("Admit", int64(42)).Return(true)
	checker.On("CheckAccess", mock.Anything, int64(42), "menu").Return(decision)
	handler.On("Handle", mock.Anything, event, decision).Return(nil)

	p.Process(context.Background(), event)

	throttler.AssertExpectations(t)
	checker.AssertExpectations(t)
	handler.AssertExpectations(t)
	notifier.AssertNotCalled(t, "NotifyThrottled", mock.Anything, mock.Anything)
}

func TestProcess_ThrottledHalts(t *testing.T) {
	throttler := new(MockThrottler)
	checker := new(MockChecker)
	handler := new(MockHandler)
	notifier := new(MockNotifier)
	p := newTestPipeline(throttler, checker, handler, notifier)

	event := models.Event{UserID: 42, Action: "menu"}

	throttler.On("Admit", int64(42)).Return(false)
	notifier.On("NotifyThrottled", mock.Anything, event).Return()

	p.Process(context.Background(), event)

	// После отказа антиспам-защиты проверка доступа и обработчик не вызываются
	checker.AssertNotCalled(t, "CheckAccess", mock.Anything, mock.Anything, mock.Anything)
	handler.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything, mock.Anything)
	notifier.AssertExpectations(t)
}

func TestProcess_DeniedAccessDoesNotHalt(t *testing.T) {
	throttler := new(MockThrottler)
	checker := new(MockChecker)
	handler := new(MockHandler)
	notifier := new(MockNotifier)
	p := newTestPipeline(throttler, checker, handler, notifier)

	event := models.Event{UserID: 42, Action: "get_material_1"}
	denied := access.Decision{Class: access.ClassGated, Allowed: false}

	throttler.On("Admit", int64(42)).Return(true)
	checker.On("CheckAccess", mock.Anything, int64(42), "get_material_1").Return(denied)
	// Обработчик вызывается даже при отказе: он сам показывает платный экран
	handler.On("Handle", mock.Anything, event, denied).Return(nil)

	p.Process(context.Background(), event)

	handler.AssertExpectations(t)
}

func TestProcess_HandlerErrorLogged(t *testing.T) {
	throttler := new(MockThrottler)
	checker := new(MockChecker)
	handler := new(MockHandler)
	notifier := new(MockNotifier)
	p := newTestPipeline(throttler, checker, handler, notifier)

	event := models.Event{UserID: 42, Action: "menu"}
	decision := access.Decision{Class: access.ClassFree, Allowed: true}

	throttler.On("Admit", int64(42)).Return(true)
	checker.On("CheckAccess", mock.Anything, int64(42), "menu").Return(decision)
	handler.On("Handle", mock.Anything, event, decision).Return(assert.AnError)

	// Ошибка обработчика не приводит к панике
	p.Process(context.Background(), event)
}

func TestProcess_PanicRecovered(t *testing.T) {
	throttler := new(MockThrottler)
	checker := new(MockChecker)
	notifier := new(MockNotifier)

	handler := new(MockHandler)
	handler.On("Handle", mock.Anything, mock.Anything, mock.Anything).
		Run(func(_ mock.Arguments) { panic("boom") }).Return(nil)

	p := newTestPipeline(throttler, checker, handler, notifier)

	event := models.Event{UserID: 42, Action: "menu"}
	throttler.On("Admit", int64(42)).Return(true)
	checker.On("CheckAccess", mock.Anything, int64(42), "menu").
		Return(access.Decision{Class: access.ClassFree, Allowed: true})

	assert.NotPanics(t, func() {
		p.Process(context.Background(), event)
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "короткий", truncate("короткий", 64))
	long := make([]rune, 100)
	for i := range long {
		long[i] = 'ж'
	}
	got := truncate(string(long), 64)
	assert.Equal(t, 65, len([]rune(got)))
}
