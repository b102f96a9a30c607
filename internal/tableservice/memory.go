package tableservice

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemoryTable is an in-memory TableService implementation used in tests
// and demos. It is safe for concurrent use.
type MemoryTable struct {
	mu       sync.RWMutex
	keyAttrs []string
	items    map[string]Record
}

// NewMemoryTable creates a MemoryTable keyed by the given attributes.
// With no attributes the table is keyed by "id".
func NewMemoryTable(keyAttrs ...string) *MemoryTable {
	if len(keyAttrs) == 0 {
		keyAttrs = []string{"id"}
	}
	return &MemoryTable{
		keyAttrs: keyAttrs,
		items:    make(map[string]Record),
	}
}

// keyString builds a deterministic lookup string from the key attributes.
func (m *MemoryTable) keyString(rec Record) (string, error) {
	if len(rec) == 0 {
		return "", ErrMissingKey
	}
	attrs := append([]string(nil), m.keyAttrs...)
	sort.Strings(attrs)

	parts := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		v, ok := rec[attr]
		if !ok {
			return "", fmt.Errorf("%w: attribute %q not present", ErrInvalidKey, attr)
		}
		parts = append(parts, fmt.Sprintf("%s=%v", attr, v))
	}
	return strings.Join(parts, "|"), nil
}

// Put implements TableService.Put
func (m *MemoryTable) Put(ctx context.Context, item Record) (Record, error) {
	if len(item) == 0 {
		return nil, NewTableError("Put", "", ErrMissingItem)
	}
	ks, err := m.keyString(item)
	if err != nil {
		return nil, NewTableError("Put", "", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[ks] = item.Copy()

	return Record{}, nil
}

// Get implements TableService.Get
func (m *MemoryTable) Get(ctx context.Context, key Record) (Record, error) {
	ks, err := m.keyString(key)
	if err != nil {
		return nil, NewTableError("Get", "", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[ks]
	if !ok {
		return Record{}, nil
	}
	return item.Copy(), nil
}

// Update implements TableService.Update
func (m *MemoryTable) Update(ctx context.Context, key Record, changes Record) (Record, error) {
	ks, err := m.keyString(key)
	if err != nil {
		return nil, NewTableError("Update", "", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[ks]
	if !ok {
		// Upsert semantics, same as the managed service: the key
		// attributes seed a fresh record.
		item = key.Copy()
	}
	updated := item.Copy()
	for k, v := range changes {
		updated[k] = v
	}
	m.items[ks] = updated

	return updated.Copy(), nil
}

// Delete implements TableService.Delete
func (m *MemoryTable) Delete(ctx context.Context, key Record) (Record, error) {
	ks, err := m.keyString(key)
	if err != nil {
		return nil, NewTableError("Delete", "", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	prior, ok := m.items[ks]
	if !ok {
		return Record{}, nil
	}
	delete(m.items, ks)
	return prior.Copy(), nil
}

// Scan implements TableService.Scan
func (m *MemoryTable) Scan(ctx context.Context) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]Record, 0, len(m.items))
	for _, item := range m.items {
		records = append(records, item.Copy())
	}
	return records, nil
}

// Len returns the number of stored records.
func (m *MemoryTable) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// MemoryResolver hands out MemoryTable instances per table name,
// creating them on demand.
type MemoryResolver struct {
	mu       sync.Mutex
	keyAttrs []string
	tables   map[string]*MemoryTable
}

// NewMemoryResolver creates a resolver whose tables are keyed by the
// given attributes.
func NewMemoryResolver(keyAttrs ...string) *MemoryResolver {
	return &MemoryResolver{
		keyAttrs: keyAttrs,
		tables:   make(map[string]*MemoryTable),
	}
}

// Resolve implements Resolver.Resolve
func (r *MemoryResolver) Resolve(tableName string) TableService {
	r.mu.Lock()
	defer r.mu.Unlock()

	table, ok := r.tables[tableName]
	if !ok {
		table = NewMemoryTable(r.keyAttrs...)
		r.tables[tableName] = table
	}
	return table
}
