package reservation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestMapInsertError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{
			name:    "exclusion constraint",
			err:     &pq.Error{Code: "23P01", Constraint: "reservations_no_overlap"},
			wantErr: ErrOverlap,
		},
		{
			name:    "wrapped exclusion constraint",
			err:     fmt.Errorf("scan: %w", &pq.Error{Code: "23P01"}),
			wantErr: ErrOverlap,
		},
		{
			name:    "unique access code",
			err:     &pq.Error{Code: "23505", Constraint: "reservations_active_code"},
			wantErr: ErrDuplicateAccessCode,
		},
		{
			name:    "check violation",
			err:     &pq.Error{Code: "23514"},
			wantErr: ErrExecQuery,
		},
		{
			name:    "connection error",
			err:     errors.New("driver: bad connection"),
			wantErr: ErrExecQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapInsertError(tt.err), tt.wantErr)
		})
	}
}
