package user

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/recovery-lab-bot/internal/models"
)

// MockUserRepository реализует интерфейс user.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, id int64, profile models.UserProfile) (bool, error) {
	args := m.Called(ctx, id, profile)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) GetUser(ctx context.Context, id int64) (*models.UserRecord, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*models.UserRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, id int64, upd models.UserUpdate) (bool, error) {
	args := m.Called(ctx, id, upd)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) IncrementCounter(ctx context.Context, id int64, field string) error {
	args := m.Called(ctx, id, field)
	return args.Error(0)
}

func (m *MockUserRepository) AddProblem(ctx context.Context, id int64, problem string) error {
	args := m.Called(ctx, id, problem)
	return args.Error(0)
}

func (m *MockUserRepository) ListUsers(ctx context.Context) ([]*models.UserRecord, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]*models.UserRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) CountUsers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) CountPaying(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockCache реализует интерфейс user.Cache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func newTestService(repo *MockUserRepository, cache *MockCache) *Service {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(repo, cache, logger)
}

func TestRegister_Idempotent(t *testing.T) {
	repo := new(MockUserRepository)
	cache := new(MockCache)
	service := newTestService(repo, cache)

	profile := models.UserProfile{Username: "testuser", FirstName: "Test"}

	// Первый вызов создаёт карточку, второй — no-op; оба успешны
	repo.On("CreateUser", mock.Anything, int64(42), profile).Return(true, nil).Once()
	repo.On("CreateUser", mock.Anything, int64(42), profile).Return(false, nil).Once()

	require.NoError(t, service.Register(context.Background(), 42, profile))
	require.NoError(t, service.Register(context.Background(), 42, profile))

	repo.AssertExpectations(t)
}

func TestGet_CacheHit(t *testing.T) {
	repo := new(MockUserRepository)
	cache := new(MockCache)
	service := newTestService(repo, cache)

	rec := &models.UserRecord{ID: 42, Username: "testuser"}
	cache.On("Get", "user:42", mock.Anything).Run(func(args mock.Arguments) {
		ptr := args.Get(1).(**models.UserRecord)
		*ptr = rec
	}).Return(true, nil)

	got, err := service.Get(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, rec, got)
	repo.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
}

func TestGet_CacheMiss(t *testing.T) {
	repo := new(MockUserRepository)
	cache := new(MockCache)
	service := newTestService(repo, cache)

	rec := &models.UserRecord{ID: 42, Username: "testuser"}
	cache.On("Get", "user:42", mock.Anything).Return(false, nil)
	repo.On("GetUser", mock.Anything, int64(42)).Return(rec, nil)
	cache.On("Set", "user:42", rec, mock.Anything).Return(nil)

	got, err := service.Get(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, rec, got)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestGet_RepoTimeoutFailsFast(t *testing.T) {
	repo := new(MockUserRepository)
	cache := new(MockCache)
	service := newTestService(repo, cache)
	service.queryTimeout = 50 * time.Millisecond

	cache.On("Get", "user:42", mock.Anything).Return(false, nil)
	// Эмулируем зависший запрос: GetUser возвращается только после отмены контекста
	repo.On("GetUser", mock.Anything, int64(42)).Run(func(args mock.Arguments) {
		ctx := args.Get(0).(context.Context)
		<-ctx.Done()
	}).Return(nil, context.DeadlineExceeded)

	type result struct {
		rec *models.UserRecord
		err error
	}
	done := make(chan result, 1)
	go func() {
		rec, err := service.Get(context.Background(), 42)
		done <- result{rec, err}
	}()

	select {
	case res := <-done:
		require.Error(t, res.err)
		assert.Nil(t, res.rec)
	case <-time.After(2 * time.Second):
		t.Fatal("Get не вернулся по истечении предела ожидания хранилища")
	}
}

func TestGrantSubscription(t *testing.T) {
	repo := new(MockUserRepository)
	cache := new(MockCache)
	service := newTestService(repo, cache)

	cache.On("Invalidate", "user:42").Return(nil)
	repo.On("UpdateUser", mock.Anything, int64(42), mock.MatchedBy(func(upd models.UserUpdate) bool {
		if upd.PaymentActive == nil || !*upd.PaymentActive {
			return false
		}
		if upd.Status == nil || *upd.Status != models.StatusActiveSubscriber {
			return false
		}
		if upd.SubscriptionStart == nil || upd.SubscriptionEnd == nil {
			return false
		}
		wantEnd := upd.SubscriptionStart.AddDate(0, 0, 30)
		return upd.SubscriptionEnd.Equal(wantEnd)
	})).Return(true, nil)

	require.NoError(t, service.GrantSubscription(context.Background(), 42, 30))

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestRecordMaterialView(t *testing.T) {
	repo := new(MockUserRepository)
	cache := new(MockCache)
	service := newTestService(repo, cache)

	cache.On("Invalidate", "user:42").Return(nil)
	repo.On("IncrementCounter", mock.Anything, int64(42), models.CounterMaterialsViewed).
		Return(nil).Times(3)

	// Три логических события — три инкремента ровно по единице
	for i := 0; i < 3; i++ {
		require.NoError(t, service.RecordMaterialView(context.Background(), 42))
	}

	repo.AssertExpectations(t)
}

func TestStats(t *testing.T) {
	repo := new(MockUserRepository)
	cache := new(MockCache)
	service := newTestService(repo, cache)

	repo.On("ListUsers", mock.Anything).Return([]*models.UserRecord{
		{ID: 1, Status: models.StatusNew},
		{ID: 2, Status: models.StatusActiveSubscriber, PaymentActive: true},
		{ID: 3, Status: models.StatusAwaitingPayment},
		{ID: 4, Status: models.StatusActiveSubscriber, PaymentActive: true},
	}, nil)

	stats, err := service.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalUsers)
	assert.Equal(t, 2, stats.PayingUsers)
	assert.Equal(t, 2, stats.ByStatus[models.StatusActiveSubscriber])
	assert.Equal(t, 1, stats.ByStatus[models.StatusNew])
}
