package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/aws/smithy-go"

	"table-ops-api/internal/dispatcher"
	"table-ops-api/internal/tableservice"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "unrecognized operation",
			err:  &dispatcher.UnrecognizedOperationError{Operation: "nope"},
			want: http.StatusBadRequest,
		},
		{
			name: "unbound table",
			err:  tableservice.NewTableError("Scan", "", tableservice.ErrNoTableBound),
			want: http.StatusBadRequest,
		},
		{
			name: "missing key",
			err:  tableservice.NewTableError("Get", "t", tableservice.ErrMissingKey),
			want: http.StatusBadRequest,
		},
		{
			name: "dynamodb table missing",
			err:  &smithy.GenericAPIError{Code: "ResourceNotFoundException", Message: "no such table"},
			want: http.StatusNotFound,
		},
		{
			name: "throttled",
			err:  &smithy.GenericAPIError{Code: "ProvisionedThroughputExceededException"},
			want: http.StatusTooManyRequests,
		},
		{
			name: "conditional check",
			err:  &smithy.GenericAPIError{Code: "ConditionalCheckFailedException"},
			want: http.StatusConflict,
		},
		{
			name: "anything else",
			err:  errors.New("boom"),
			want: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusForError(tt.err); got != tt.want {
				t.Errorf("StatusForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
