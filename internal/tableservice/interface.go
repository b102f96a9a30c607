package tableservice

import (
	"context"
)

// Record is a single item in a table: attribute name -> value.
// Records are schemaless; callers decide which attributes exist.
type Record map[string]any

// TableService provides key-value access to a single table.
// This interface supports the managed DynamoDB backend as well as the
// SQLite and in-memory implementations used for local development and tests.
type TableService interface {
	// Put stores an item and returns the service result.
	Put(ctx context.Context, item Record) (Record, error)

	// Get returns the record stored under key. A missing key is not an
	// error: the result is an empty Record, matching the storage
	// service's normal empty-result response.
	Get(ctx context.Context, key Record) (Record, error)

	// Update applies changes to the record stored under key and returns
	// the record as it exists after the update.
	Update(ctx context.Context, key Record, changes Record) (Record, error)

	// Delete removes the record stored under key and returns the prior
	// record as the acknowledgement.
	Delete(ctx context.Context, key Record) (Record, error)

	// Scan returns every record in the table, with no key constraint.
	Scan(ctx context.Context) ([]Record, error)
}

// Resolver binds a table name to a TableService handle. Binding is cheap
// and side-effect free; the backing store is only touched when the handle
// is used.
type Resolver interface {
	Resolve(tableName string) TableService
}

// Closer is implemented by resolvers that hold resources (database
// handles, network clients) needing cleanup.
type Closer interface {
	Close() error
}

// unboundTable is the handle used when no table name was supplied.
// Every storage call fails with ErrNoTableBound, so operations that never
// touch storage are unaffected by a missing table name.
type unboundTable struct{}

// Unbound returns the handle representing "no table selected".
func Unbound() TableService {
	return unboundTable{}
}

func (unboundTable) Put(context.Context, Record) (Record, error) {
	return nil, NewTableError("Put", "", ErrNoTableBound)
}

func (unboundTable) Get(context.Context, Record) (Record, error) {
	return nil, NewTableError("Get", "", ErrNoTableBound)
}

func (unboundTable) Update(context.Context, Record, Record) (Record, error) {
	return nil, NewTableError("Update", "", ErrNoTableBound)
}

func (unboundTable) Delete(context.Context, Record) (Record, error) {
	return nil, NewTableError("Delete", "", ErrNoTableBound)
}

func (unboundTable) Scan(context.Context) ([]Record, error) {
	return nil, NewTableError("Scan", "", ErrNoTableBound)
}

// Copy returns a shallow copy of the record. Backends use it to keep
// stored state isolated from caller-held maps.
func (r Record) Copy() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
