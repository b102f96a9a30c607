package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"table-ops-api/internal/tableservice"
)

// recordingTable counts calls and returns canned results.
type recordingTable struct {
	mu        sync.Mutex
	putCalls  []tableservice.Record
	getCalls  []tableservice.Record
	putResult tableservice.Record
	err       error
}

func (r *recordingTable) Put(ctx context.Context, item tableservice.Record) (tableservice.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.putCalls = append(r.putCalls, item)
	return r.putResult, r.err
}

func (r *recordingTable) Get(ctx context.Context, key tableservice.Record) (tableservice.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls = append(r.getCalls, key)
	return tableservice.Record{}, r.err
}

func (r *recordingTable) Update(ctx context.Context, key, changes tableservice.Record) (tableservice.Record, error) {
	return nil, r.err
}

func (r *recordingTable) Delete(ctx context.Context, key tableservice.Record) (tableservice.Record, error) {
	return nil, r.err
}

func (r *recordingTable) Scan(ctx context.Context) ([]tableservice.Record, error) {
	return nil, r.err
}

// recordingResolver counts resolutions and hands out one table.
type recordingResolver struct {
	mu       sync.Mutex
	resolved []string
	table    tableservice.TableService
}

func (r *recordingResolver) Resolve(tableName string) tableservice.TableService {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolved = append(r.resolved, tableName)
	return r.table
}

func bg() context.Context { return context.Background() }

func TestDispatch_EchoReturnsPayloadUnchanged(t *testing.T) {
	d := New(tableservice.NewMemoryResolver(), nil)

	payload := map[string]any{
		"message": "hello",
		"nested":  map[string]any{"a": float64(1)},
	}
	result, err := d.Dispatch(bg(), &Request{Operation: OpEcho, Payload: payload})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !reflect.DeepEqual(result, payload) {
		t.Errorf("echo changed payload: %v", result)
	}
}

func TestDispatch_PingReturnsPong(t *testing.T) {
	d := New(tableservice.NewMemoryResolver(), nil)

	for _, payload := range []map[string]any{nil, {"ignored": true}} {
		result, err := d.Dispatch(bg(), &Request{Operation: OpPing, Payload: payload})
		if err != nil {
			t.Fatalf("Dispatch: %v", err)
		}
		if result != Pong {
			t.Errorf("ping returned %v, want %q", result, Pong)
		}
	}
}

func TestDispatch_UnrecognizedOperation(t *testing.T) {
	d := New(tableservice.NewMemoryResolver(), nil)

	_, err := d.Dispatch(bg(), &Request{Operation: "nope"})
	if err == nil {
		t.Fatal("expected error")
	}
	var opErr *UnrecognizedOperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("wrong error type: %T", err)
	}
	if opErr.Operation != "nope" {
		t.Errorf("error carries %q, want %q", opErr.Operation, "nope")
	}
}

func TestDispatch_MissingOperationIsUnrecognized(t *testing.T) {
	d := New(tableservice.NewMemoryResolver(), nil)

	_, err := d.Dispatch(bg(), &Request{})
	var opErr *UnrecognizedOperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("wrong error: %v", err)
	}
	if opErr.Operation != "" {
		t.Errorf("error carries %q, want empty string", opErr.Operation)
	}
}

func TestDispatch_CreateForwardsItem(t *testing.T) {
	table := &recordingTable{putResult: tableservice.Record{"ack": true}}
	resolver := &recordingResolver{table: table}
	d := New(resolver, nil)

	item := map[string]any{"id": "1", "name": "Bob"}
	result, err := d.Dispatch(bg(), &Request{
		Operation: OpCreate,
		TableName: "t",
		Payload:   map[string]any{"Item": item},
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	if len(table.putCalls) != 1 {
		t.Fatalf("put called %d times, want 1", len(table.putCalls))
	}
	if !reflect.DeepEqual(map[string]any(table.putCalls[0]), item) {
		t.Errorf("put received %v", table.putCalls[0])
	}
	if !reflect.DeepEqual(result, table.putResult) {
		t.Errorf("result %v, want the service result unmodified", result)
	}
	if len(resolver.resolved) != 1 || resolver.resolved[0] != "t" {
		t.Errorf("resolved tables: %v", resolver.resolved)
	}
}

func TestDispatch_ReadReturnsStoredRecord(t *testing.T) {
	resolver := tableservice.NewMemoryResolver()
	d := New(resolver, nil)

	_, err := d.Dispatch(bg(), &Request{
		Operation: OpCreate,
		TableName: "t",
		Payload:   map[string]any{"Item": map[string]any{"id": "1", "name": "Bob"}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	result, err := d.Dispatch(bg(), &Request{
		Operation: OpRead,
		TableName: "t",
		Payload:   map[string]any{"Key": map[string]any{"id": "1"}},
	})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	rec, ok := result.(tableservice.Record)
	if !ok {
		t.Fatalf("result type %T", result)
	}
	if rec["id"] != "1" || rec["name"] != "Bob" {
		t.Errorf("read returned %v", rec)
	}
}

func TestDispatch_ListReturnsAllRecords(t *testing.T) {
	resolver := tableservice.NewMemoryResolver()
	d := New(resolver, nil)

	const n = 5
	for i := 0; i < n; i++ {
		_, err := d.Dispatch(bg(), &Request{
			Operation: OpCreate,
			TableName: "t",
			Payload: map[string]any{
				"Item": map[string]any{"id": fmt.Sprintf("%d", i), "n": float64(i)},
			},
		})
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	result, err := d.Dispatch(bg(), &Request{Operation: OpList, TableName: "t"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	records, ok := result.([]tableservice.Record)
	if !ok {
		t.Fatalf("result type %T", result)
	}
	if len(records) != n {
		t.Fatalf("got %d records, want %d", len(records), n)
	}

	seen := map[any]bool{}
	for _, rec := range records {
		seen[rec["id"]] = true
	}
	for i := 0; i < n; i++ {
		if !seen[fmt.Sprintf("%d", i)] {
			t.Errorf("record %d missing from scan", i)
		}
	}
}

func TestDispatch_LazyBinding(t *testing.T) {
	resolver := &recordingResolver{table: &recordingTable{}}
	d := New(resolver, nil)

	// echo and ping never resolve a table, with or without a name
	for _, req := range []*Request{
		{Operation: OpEcho, Payload: map[string]any{"x": 1}},
		{Operation: OpPing},
	} {
		if _, err := d.Dispatch(bg(), req); err != nil {
			t.Fatalf("Dispatch(%s): %v", req.Operation, err)
		}
	}
	if len(resolver.resolved) != 0 {
		t.Errorf("resolver touched for echo/ping: %v", resolver.resolved)
	}

	// storage operations without a table name fail downstream, not here
	_, err := d.Dispatch(bg(), &Request{
		Operation: OpCreate,
		Payload:   map[string]any{"Item": map[string]any{"id": "1"}},
	})
	if !tableservice.IsNoTableBound(err) {
		t.Errorf("expected unbound table error, got %v", err)
	}
	if len(resolver.resolved) != 0 {
		t.Errorf("resolver touched without table name: %v", resolver.resolved)
	}
}

func TestDispatch_StorageErrorsPassThrough(t *testing.T) {
	serviceErr := errors.New("throttled")
	resolver := &recordingResolver{table: &recordingTable{err: serviceErr}}
	d := New(resolver, nil)

	_, err := d.Dispatch(bg(), &Request{
		Operation: OpCreate,
		TableName: "t",
		Payload:   map[string]any{"Item": map[string]any{"id": "1"}},
	})
	if !errors.Is(err, serviceErr) {
		t.Errorf("storage error was translated: %v", err)
	}
}

func TestDispatch_ConcurrentInvocationsIndependent(t *testing.T) {
	const workers = 8

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			// independent resolver per invocation
			d := New(tableservice.NewMemoryResolver(), nil)
			id := fmt.Sprintf("%d", i)

			_, err := d.Dispatch(bg(), &Request{
				Operation: OpCreate,
				TableName: "t",
				Payload:   map[string]any{"Item": map[string]any{"id": id}},
			})
			if err != nil {
				t.Errorf("worker %d create: %v", i, err)
				return
			}

			result, err := d.Dispatch(bg(), &Request{Operation: OpList, TableName: "t"})
			if err != nil {
				t.Errorf("worker %d list: %v", i, err)
				return
			}
			records := result.([]tableservice.Record)
			if len(records) != 1 || records[0]["id"] != id {
				t.Errorf("worker %d saw foreign state: %v", i, records)
			}
		}(i)
	}
	wg.Wait()
}
