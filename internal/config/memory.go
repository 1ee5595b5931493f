package config

import "sync"

// MemoryConfigurations is a map-backed Configurations.
type MemoryConfigurations struct {
	mu        sync.RWMutex
	defaultID string
	fallback  bool
	dbs       map[string]*Database
}

// NewMemoryConfigurations builds a registry from already known records.
// An empty defaultID means DefaultID.
func NewMemoryConfigurations(defaultID string, dbs ...*Database) (*MemoryConfigurations, error) {
	m := &MemoryConfigurations{
		defaultID: normalizeID(defaultID),
		fallback:  true,
		dbs:       make(map[string]*Database, len(dbs)),
	}
	if m.defaultID == "" {
		m.defaultID = DefaultID
	}
	for _, d := range dbs {
		if err := m.Add(d); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Add registers d under d.ID, replacing any previous record.
func (m *MemoryConfigurations) Add(d *Database) error {
	if err := d.Normalize(d.ID); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dbs[d.ID] = d
	return nil
}

func (m *MemoryConfigurations) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.dbs, normalizeID(id))
}

func (m *MemoryConfigurations) SetDefault(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultID = normalizeID(id)
}

func (m *MemoryConfigurations) SetFallback(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = enabled
}

func (m *MemoryConfigurations) Has(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.dbs[normalizeID(id)]
	return ok
}

func (m *MemoryConfigurations) Get(id string) (*Database, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return lookup(m.dbs, id)
}

func (m *MemoryConfigurations) Resolve(id string) (*Database, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return resolve(m.dbs, m.defaultID, id)
}

func (m *MemoryConfigurations) DefaultID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultID
}

func (m *MemoryConfigurations) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedIDs(m.dbs)
}

func (m *MemoryConfigurations) FallbackToDefault() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fallback
}
