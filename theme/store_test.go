package theme

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inkblog/model"
)

type memSettings struct {
	mu     sync.Mutex
	values map[string]string
	err    error
}

func newMemSettings(kv ...string) *memSettings {
	s := &memSettings{values: make(map[string]string)}
	for i := 0; i+1 < len(kv); i += 2 {
		s.values[kv[i]] = kv[i+1]
	}
	return s
}

func (s *memSettings) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *memSettings) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.values[key] = value
	return nil
}

func highlightRegistry() *Registry[HighlightTheme] {
	r := NewRegistry[HighlightTheme]()
	r.Add(HighlightTheme{Key: "github", DisplayName: "GitHub", Light: "github", Dark: "github-dark"})
	r.Add(HighlightTheme{Key: "nord", DisplayName: "Nord", Light: "nord", Dark: "nord"})
	return r
}

func TestStoreInit(t *testing.T) {
	tests := []struct {
		name     string
		saved    []string
		fallback string
		want     string
	}{
		{"saved", []string{model.SettingHighlightTheme, "nord"}, "github", "nord"},
		{"nothing saved", nil, "nord", "nord"},
		{"unknown saved", []string{model.SettingHighlightTheme, "bogus"}, "github", "github"},
		{"unknown fallback", nil, "bogus", "github"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(KindHighlight, model.SettingHighlightTheme, highlightRegistry(), newMemSettings(tt.saved...), tt.fallback, zap.NewNop())
			require.NoError(t, s.Init())
			assert.Equal(t, tt.want, s.Current().Key)
		})
	}
}

func TestStoreInitEmptyRegistry(t *testing.T) {
	s := NewStore(KindPage, model.SettingPageTheme, NewRegistry[PageTheme](), newMemSettings(), "vue", zap.NewNop())
	assert.ErrorIs(t, s.Init(), ErrUnknownTheme)
}

func TestStoreSet(t *testing.T) {
	settings := newMemSettings()
	s := NewStore(KindHighlight, model.SettingHighlightTheme, highlightRegistry(), settings, "github", zap.NewNop())
	require.NoError(t, s.Init())

	var applied []string
	s.OnChange(func(t HighlightTheme) { applied = append(applied, t.Key) })

	require.NoError(t, s.Set("nord"))
	assert.Equal(t, "nord", s.Current().Key)
	saved, _ := settings.Get(model.SettingHighlightTheme)
	assert.Equal(t, "nord", saved)

	err := s.Set("bogus")
	assert.ErrorIs(t, err, ErrUnknownTheme)
	assert.Equal(t, "nord", s.Current().Key)
	saved, _ = settings.Get(model.SettingHighlightTheme)
	assert.Equal(t, "nord", saved)

	assert.Equal(t, []string{"nord"}, applied)
}

func TestStoreSetPersistFailure(t *testing.T) {
	settings := newMemSettings()
	s := NewStore(KindHighlight, model.SettingHighlightTheme, highlightRegistry(), settings, "github", zap.NewNop())
	require.NoError(t, s.Init())

	settings.err = errors.New("disk full")
	assert.Error(t, s.Set("nord"))
	assert.Equal(t, "github", s.Current().Key)
}

func TestStoreAvailable(t *testing.T) {
	s := NewStore(KindHighlight, model.SettingHighlightTheme, highlightRegistry(), newMemSettings(), "nord", zap.NewNop())
	require.NoError(t, s.Init())

	assert.Equal(t, []Summary{
		{Key: "github", DisplayName: "GitHub"},
		{Key: "nord", DisplayName: "Nord", Active: true},
	}, s.Available())
}

func TestModeStore(t *testing.T) {
	settings := newMemSettings()
	m := NewModeStore(settings, false, zap.NewNop())
	m.Init()
	assert.False(t, m.Dark())

	var changes []bool
	m.OnChange(func(dark bool) { changes = append(changes, dark) })

	dark, err := m.Toggle()
	require.NoError(t, err)
	assert.True(t, dark)
	assert.True(t, m.Dark())
	saved, _ := settings.Get(model.SettingMode)
	assert.Equal(t, model.ModeDark, saved)

	require.NoError(t, m.SetDark(false))
	saved, _ = settings.Get(model.SettingMode)
	assert.Equal(t, model.ModeLight, saved)
	assert.Equal(t, []bool{true, false}, changes)
}

func TestModeStoreInit(t *testing.T) {
	m := NewModeStore(newMemSettings(model.SettingMode, model.ModeDark), false, zap.NewNop())
	m.Init()
	assert.True(t, m.Dark())

	m = NewModeStore(newMemSettings(model.SettingMode, "sepia"), true, zap.NewNop())
	m.Init()
	assert.True(t, m.Dark())

	m = NewModeStore(newMemSettings(model.SettingMode, model.ModeLight), true, zap.NewNop())
	m.Init()
	assert.False(t, m.Dark())
}
