package preference

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nisargarh/Cab-booking-sub001/internal/domain"
)

// fakeStorage is an in-memory PreferenceStorage whose Load can be held
// back until release is closed.
type fakeStorage struct {
	mu      sync.Mutex
	data    map[string][]byte
	saves   []string
	release chan struct{}
	loadErr error
	saveErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{data: make(map[string][]byte)}
}

func (f *fakeStorage) Load(ctx context.Context, key string) ([]byte, error) {
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	v, ok := f.data[key]
	if !ok {
		return nil, domain.ErrPreferenceNotFound
	}
	return v, nil
}

func (f *fakeStorage) Save(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.data[key] = value
	f.saves = append(f.saves, string(value))
	return nil
}

func (f *fakeStorage) get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return string(v), ok
}

// MockStorage is a testify mock of PreferenceStorage
type MockStorage struct {
	mock.Mock
}

var _ domain.PreferenceStorage = (*MockStorage)(nil)

func (m *MockStorage) Load(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStorage) Save(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func waitReady(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("store did not finish hydration")
	}
}

func TestStore_DefaultBeforeHydration(t *testing.T) {
	storage := newFakeStorage()
	storage.data[domain.ThemeKey] = []byte(`"dark"`)
	storage.release = make(chan struct{})

	s := NewThemeStore(domain.ThemeLight, storage)
	defer s.Close()

	assert.Equal(t, domain.ThemeLight, s.Get())

	close(storage.release)
	waitReady(t, s.Ready())
	assert.Equal(t, domain.ThemeDark, s.Get())
}

func TestStore_SetIsImmediatelyVisible(t *testing.T) {
	storage := newFakeStorage()
	storage.release = make(chan struct{})
	s := NewRoleStore(storage)

	s.Set(domain.RoleDriver)
	assert.Equal(t, domain.RoleDriver, s.Get())

	close(storage.release)
	s.Close()
}

func TestStore_ToggleIsInvolution(t *testing.T) {
	for _, start := range []domain.Theme{domain.ThemeLight, domain.ThemeDark} {
		s := NewThemeStore(start, nil)

		assert.Equal(t, start.Opposite(), s.Toggle())
		assert.Equal(t, start, s.Toggle())
		assert.Equal(t, start, s.Get())
	}
}

func TestStore_RoleSurvivesRestart(t *testing.T) {
	storage := newFakeStorage()

	first := NewRoleStore(storage)
	waitReady(t, first.Ready())
	assert.Equal(t, domain.RoleNone, first.Get())

	first.Set(domain.RoleDriver)
	assert.Equal(t, domain.RoleDriver, first.Get())
	first.Close()

	stored, ok := storage.get(domain.RoleKey)
	require.True(t, ok)
	assert.Equal(t, `"driver"`, stored)

	second := NewRoleStore(storage)
	defer second.Close()
	waitReady(t, second.Ready())
	assert.Equal(t, domain.RoleDriver, second.Get())
}

func TestStore_SetDuringLoadWins(t *testing.T) {
	storage := newFakeStorage()
	storage.data[domain.ThemeKey] = []byte(`"dark"`)
	storage.release = make(chan struct{})

	s := NewThemeStore(domain.ThemeLight, storage)
	s.Set(domain.ThemeLight)

	close(storage.release)
	waitReady(t, s.Ready())
	s.Close()

	assert.Equal(t, domain.ThemeLight, s.Get(), "a slow load must not clobber a newer set")
	stored, _ := storage.get(domain.ThemeKey)
	assert.Equal(t, `"light"`, stored)
}

func TestStore_LastWriteWinsInStorage(t *testing.T) {
	storage := newFakeStorage()
	s := NewThemeStore(domain.ThemeLight, storage)
	waitReady(t, s.Ready())

	for i := 0; i < 25; i++ {
		s.Toggle()
	}
	s.Close()

	stored, ok := storage.get(domain.ThemeKey)
	require.True(t, ok)
	assert.Equal(t, `"dark"`, stored)
	assert.Equal(t, domain.ThemeDark, s.Get())
}

func TestStore_LoadFailureKeepsDefault(t *testing.T) {
	storage := new(MockStorage)
	storage.On("Load", mock.Anything, domain.RoleKey).Return(nil, errors.New("connection refused"))

	s := NewRoleStore(storage)
	defer s.Close()
	waitReady(t, s.Ready())

	assert.Equal(t, domain.RoleNone, s.Get())
	storage.AssertExpectations(t)
}

func TestStore_CorruptValueKeepsDefault(t *testing.T) {
	storage := newFakeStorage()
	storage.data[domain.ThemeKey] = []byte(`"sepia"`)

	s := NewThemeStore(domain.ThemeDark, storage)
	defer s.Close()
	waitReady(t, s.Ready())

	assert.Equal(t, domain.ThemeDark, s.Get())
}

func TestStore_SaveFailureIsSwallowed(t *testing.T) {
	storage := new(MockStorage)
	storage.On("Load", mock.Anything, domain.ThemeKey).Return(nil, domain.ErrPreferenceNotFound)
	storage.On("Save", mock.Anything, domain.ThemeKey, []byte(`"dark"`)).Return(errors.New("READONLY"))

	s := NewThemeStore(domain.ThemeLight, storage)
	waitReady(t, s.Ready())

	assert.NotPanics(t, func() { s.Set(domain.ThemeDark) })
	s.Close()

	assert.Equal(t, domain.ThemeDark, s.Get())
	storage.AssertExpectations(t)
}

func TestStore_SubscribersSeeEveryChange(t *testing.T) {
	storage := newFakeStorage()
	storage.data[domain.ThemeKey] = []byte(`"dark"`)
	storage.release = make(chan struct{})

	s := NewThemeStore(domain.ThemeLight, storage)
	defer s.Close()

	var mu sync.Mutex
	var seen []domain.Theme
	unsubscribe := s.Subscribe(func(th domain.Theme) {
		mu.Lock()
		seen = append(seen, th)
		mu.Unlock()
	})

	close(storage.release)
	waitReady(t, s.Ready())
	s.Toggle()

	unsubscribe()
	unsubscribe()
	s.Toggle()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []domain.Theme{domain.ThemeDark, domain.ThemeLight}, seen)
}

func TestStore_SlowListenerEndsOnLatestValue(t *testing.T) {
	s := NewThemeStore(domain.ThemeLight, nil)
	defer s.Close()

	entered := make(chan struct{})
	var mu sync.Mutex
	var last domain.Theme
	s.Subscribe(func(th domain.Theme) {
		if th == domain.ThemeDark {
			close(entered)
			time.Sleep(50 * time.Millisecond)
		}
		mu.Lock()
		last = th
		mu.Unlock()
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Set(domain.ThemeDark)
	}()
	<-entered
	s.Set(domain.ThemeLight)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, domain.ThemeLight, s.Get())
	assert.Equal(t, s.Get(), last, "subscriber must end on the stored value")
}

func TestStore_MemoryOnly(t *testing.T) {
	s := New("language", "en", nil)
	waitReady(t, s.Ready())

	s.Set("de")
	assert.Equal(t, "de", s.Get())
	assert.Equal(t, "language", s.Key())
	s.Close()
	s.Close()
}

func TestStore_CloseIsIdempotent(t *testing.T) {
	s := NewThemeStore(domain.ThemeLight, newFakeStorage(), WithLoadTimeout(50*time.Millisecond), WithSaveTimeout(50*time.Millisecond))
	assert.NotPanics(t, func() {
		s.Close()
		s.Close()
	})
}
