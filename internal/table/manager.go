package table

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a table id is unknown.
	ErrNotFound = errors.New("table not found")

	// ErrExists is returned when creating a table with a taken id.
	ErrExists = errors.New("table already exists")
)

// Manager tracks the tables served by one process.
type Manager struct {
	logger *log.Logger
	mu     sync.RWMutex
	tables map[string]*Table
	order  []string
}

// NewManager constructs an empty manager.
func NewManager(logger *log.Logger) *Manager {
	return &Manager{
		logger: logger.WithPrefix("tables"),
		tables: make(map[string]*Table),
	}
}

// Create builds and registers a table. Tables without an id get a UUID.
func (m *Manager) Create(cfg Config) (*Table, error) {
	if cfg.Game.ID == "" {
		cfg.Game.ID = uuid.NewString()
	}
	if cfg.Logger == nil {
		cfg.Logger = m.logger
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[cfg.Game.ID]; ok {
		return nil, fmt.Errorf("%w: %s", ErrExists, cfg.Game.ID)
	}
	t, err := New(cfg)
	if err != nil {
		return nil, err
	}
	m.tables[cfg.Game.ID] = t
	m.order = append(m.order, cfg.Game.ID)
	return t, nil
}

// Get retrieves a table by id.
func (m *Manager) Get(id string) (*Table, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tables[id]
	return t, ok
}

// Default returns the first registered table.
func (m *Manager) Default() (*Table, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.order) == 0 {
		return nil, false
	}
	return m.tables[m.order[0]], true
}

// List returns summaries in creation order.
func (m *Manager) List() []Summary {
	m.mu.RLock()
	tables := make([]*Table, 0, len(m.order))
	for _, id := range m.order {
		tables = append(tables, m.tables[id])
	}
	m.mu.RUnlock()

	summaries := make([]Summary, 0, len(tables))
	for _, t := range tables {
		summaries = append(summaries, t.Summary())
	}
	return summaries
}

// Delete closes and removes a table.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	t, ok := m.tables[id]
	if ok {
		delete(m.tables, id)
		m.order = slices.DeleteFunc(m.order, func(s string) bool { return s == id })
	}
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	t.Close()
	return nil
}

// Close closes every table.
func (m *Manager) Close() {
	m.mu.Lock()
	tables := m.tables
	m.tables = make(map[string]*Table)
	m.order = nil
	m.mu.Unlock()

	for _, t := range tables {
		t.Close()
	}
}
