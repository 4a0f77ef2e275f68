package table

import (
	"fmt"
	"maps"
	"slices"
)

// Store maps table names to tables for the duration of one program
// execution. Mutation is by replacement: Put stores a new table value under
// a name. A Store is not safe for concurrent use.
type Store struct {
	tables map[string]*Table
	order  []string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{tables: make(map[string]*Table)}
}

// NewStoreFrom creates a store holding the given tables, inserted in name
// order.
func NewStoreFrom(tables map[string]*Table) *Store {
	s := NewStore()
	for _, name := range slices.Sorted(maps.Keys(tables)) {
		s.Put(name, tables[name])
	}
	return s
}

// Resolve returns the named table or ErrUnknownTable.
func (s *Store) Resolve(name string) (*Table, error) {
	t, ok := s.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}
	return t, nil
}

// Has reports whether a table is stored under name.
func (s *Store) Has(name string) bool {
	_, ok := s.tables[name]
	return ok
}

// Put stores t under name, replacing any previous table.
func (s *Store) Put(name string, t *Table) {
	if _, ok := s.tables[name]; !ok {
		s.order = append(s.order, name)
	}
	s.tables[name] = t
}

// Delete removes a table. Deleting an absent name is a no-op.
func (s *Store) Delete(name string) {
	if _, ok := s.tables[name]; !ok {
		return
	}
	delete(s.tables, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Names returns table names in insertion order.
func (s *Store) Names() []string {
	return append([]string(nil), s.order...)
}

// Len returns the number of stored tables.
func (s *Store) Len() int {
	return len(s.tables)
}

// Clone returns a store holding the same table values. Tables are
// immutable, so the clone can be mutated independently.
func (s *Store) Clone() *Store {
	c := NewStore()
	for _, name := range s.order {
		c.Put(name, s.tables[name])
	}
	return c
}
