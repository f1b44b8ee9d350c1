package theme

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"inkblog/model"
)

// Settings persists selections between runs.
type Settings interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Store tracks the selected theme of one kind.
type Store[T Definition] struct {
	kind       Kind
	settingKey string
	registry   *Registry[T]
	settings   Settings
	fallback   string
	log        *zap.Logger

	// selecting serializes persisting, applying and the change callback.
	selecting sync.Mutex

	mu       sync.RWMutex
	current  T
	onChange func(T)
}

// NewStore creates a store selecting from registry. fallback is used when
// nothing valid is persisted.
func NewStore[T Definition](kind Kind, settingKey string, registry *Registry[T], settings Settings, fallback string, log *zap.Logger) *Store[T] {
	return &Store[T]{
		kind:       kind,
		settingKey: settingKey,
		registry:   registry,
		settings:   settings,
		fallback:   fallback,
		log:        log,
	}
}

// OnChange registers fn to run whenever a theme is applied.
func (s *Store[T]) OnChange(fn func(T)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Init applies the persisted theme, falling back to the configured default
// and then to the first registered theme.
func (s *Store[T]) Init() error {
	s.selecting.Lock()
	defer s.selecting.Unlock()

	if saved, ok := s.settings.Get(s.settingKey); ok && saved != "" {
		if def, ok := s.registry.Get(saved); ok {
			s.apply(def)
			return nil
		}
		s.log.Warn("Ignoring unknown saved theme", zap.String("kind", string(s.kind)), zap.String("key", saved))
	}
	if def, ok := s.registry.Get(s.fallback); ok {
		s.apply(def)
		return nil
	}
	if s.fallback != "" {
		s.log.Warn("Default theme is not registered", zap.String("kind", string(s.kind)), zap.String("key", s.fallback))
	}

	keys := s.registry.Keys()
	if len(keys) == 0 {
		return fmt.Errorf("%w: no %s themes registered", ErrUnknownTheme, s.kind)
	}
	def, _ := s.registry.Get(keys[0])
	s.apply(def)
	return nil
}

// Set selects key and persists the choice. An unknown key leaves the current
// theme in place.
func (s *Store[T]) Set(key string) error {
	def, ok := s.registry.Get(key)
	if !ok {
		s.log.Warn("Rejected theme selection",
			zap.String("kind", string(s.kind)),
			zap.String("key", key),
			zap.Strings("available", s.registry.Keys()))
		return fmt.Errorf("%w: %s theme %q", ErrUnknownTheme, s.kind, key)
	}

	s.selecting.Lock()
	defer s.selecting.Unlock()
	if err := s.settings.Set(s.settingKey, key); err != nil {
		return fmt.Errorf("persist %s theme: %w", s.kind, err)
	}
	s.apply(def)
	s.log.Info("Theme selected", zap.String("kind", string(s.kind)), zap.String("key", key))
	return nil
}

func (s *Store[T]) apply(def T) {
	s.mu.Lock()
	s.current = def
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn(def)
	}
}

func (s *Store[T]) Current() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Available lists the themes, marking the current one active.
func (s *Store[T]) Available() []Summary {
	current := s.Current().Summary().Key
	list := s.registry.List()
	for i := range list {
		list[i].Active = list[i].Key == current
	}
	return list
}

// ModeStore tracks dark or light mode.
type ModeStore struct {
	settings Settings
	fallback bool
	log      *zap.Logger

	selecting sync.Mutex

	mu       sync.RWMutex
	dark     bool
	onChange func(bool)
}

func NewModeStore(settings Settings, dark bool, log *zap.Logger) *ModeStore {
	return &ModeStore{settings: settings, fallback: dark, log: log}
}

// OnChange registers fn to run whenever the mode changes.
func (m *ModeStore) OnChange(fn func(bool)) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

// Init restores the persisted mode.
func (m *ModeStore) Init() {
	dark := m.fallback
	switch saved, _ := m.settings.Get(model.SettingMode); saved {
	case model.ModeDark:
		dark = true
	case model.ModeLight:
		dark = false
	case "":
	default:
		m.log.Warn("Ignoring unknown mode", zap.String("mode", saved))
	}
	m.mu.Lock()
	m.dark = dark
	m.mu.Unlock()
}

func (m *ModeStore) Dark() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dark
}

// SetDark switches the mode and persists it.
func (m *ModeStore) SetDark(dark bool) error {
	m.selecting.Lock()
	defer m.selecting.Unlock()
	return m.setDark(dark)
}

func (m *ModeStore) setDark(dark bool) error {
	value := model.ModeLight
	if dark {
		value = model.ModeDark
	}
	if err := m.settings.Set(model.SettingMode, value); err != nil {
		return fmt.Errorf("persist mode: %w", err)
	}
	m.mu.Lock()
	m.dark = dark
	fn := m.onChange
	m.mu.Unlock()
	if fn != nil {
		fn(dark)
	}
	return nil
}

// Toggle flips the mode and returns the new value.
func (m *ModeStore) Toggle() (bool, error) {
	m.selecting.Lock()
	defer m.selecting.Unlock()
	dark := !m.Dark()
	if err := m.setDark(dark); err != nil {
		return !dark, err
	}
	return dark, nil
}
