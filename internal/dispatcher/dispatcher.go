// Package dispatcher forwards a JSON-described operation to the table
// service selected by the request. It is the only piece of logic the
// function itself owns; persistence, routing and authorization belong to
// the managed collaborators around it.
package dispatcher

import (
	"context"

	"github.com/sirupsen/logrus"

	"table-ops-api/internal/tableservice"
)

// Operation is the string tag selecting which action to perform.
type Operation string

// Supported operations. Dispatch is by exact match.
const (
	OpCreate Operation = "create"
	OpRead   Operation = "read"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
	OpList   Operation = "list"
	OpEcho   Operation = "echo"
	OpPing   Operation = "ping"
)

// Pong is the fixed response to the ping operation.
const Pong = "pong"

// Request is the inbound operation record.
//
// TableName is only consulted for operations that touch storage; Payload
// is forwarded to the resolved action verbatim. For create the payload
// carries Item, for read and delete it carries Key, for update it
// carries Key and Updates.
type Request struct {
	Operation Operation      `json:"operation"`
	TableName string         `json:"tableName,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// Dispatcher resolves operation names against the fixed supported set
// and invokes the bound table service action. It holds no mutable state,
// so concurrent dispatches need no coordination.
type Dispatcher struct {
	tables tableservice.Resolver
	logger *logrus.Logger
}

// New creates a Dispatcher over the given table resolver.
func New(tables tableservice.Resolver, logger *logrus.Logger) *Dispatcher {
	if logger == nil {
		logger = logrus.New()
	}
	return &Dispatcher{
		tables: tables,
		logger: logger,
	}
}

// Dispatch executes the operation named by req and returns the action's
// result. The only failure originated here is UnrecognizedOperationError;
// anything raised by the table service passes through unmodified.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) (any, error) {
	// Binding is lazy: the handle is resolved only when a table name is
	// present. Operations that need a table but lack one fail inside the
	// unbound handle, not here.
	table := tableservice.Unbound()
	if req.TableName != "" {
		table = d.tables.Resolve(req.TableName)
	}

	d.logger.WithFields(logrus.Fields{
		"operation": req.Operation,
		"table":     req.TableName,
	}).Debug("dispatching operation")

	switch req.Operation {
	case OpCreate:
		return table.Put(ctx, mapField(req.Payload, "Item"))
	case OpRead:
		return table.Get(ctx, mapField(req.Payload, "Key"))
	case OpUpdate:
		return table.Update(ctx, mapField(req.Payload, "Key"), mapField(req.Payload, "Updates"))
	case OpDelete:
		return table.Delete(ctx, mapField(req.Payload, "Key"))
	case OpList:
		return table.Scan(ctx)
	case OpEcho:
		return req.Payload, nil
	case OpPing:
		return Pong, nil
	default:
		return nil, &UnrecognizedOperationError{Operation: string(req.Operation)}
	}
}

// mapField extracts a nested mapping from the payload. A missing or
// malformed field yields a nil record; the table service reports the
// resulting failure.
func mapField(payload map[string]any, field string) tableservice.Record {
	if payload == nil {
		return nil
	}
	m, _ := payload[field].(map[string]any)
	return tableservice.Record(m)
}
