package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "bad conn", err: fmt.Errorf("query: %w", driver.ErrBadConn), want: true},
		{name: "net op error", err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("refused")}, want: true},
		{name: "refused message", err: errors.New("dial tcp: connect: connection refused"), want: true},
		{name: "postgres shutdown", err: errors.New("FATAL: terminating connection due to administrator command"), want: true},
		{name: "constraint", err: errors.New("duplicate key value violates unique constraint"), want: false},
		{name: "cancelled", err: context.Canceled, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsConnectionError(tt.err))
		})
	}
}

func TestStoreError(t *testing.T) {
	err := &StoreError{Op: "upsert", Table: "clientes", Err: driver.ErrBadConn}
	assert.ErrorIs(t, err, ErrStore)
	assert.ErrorIs(t, err, driver.ErrBadConn)
	assert.Equal(t, "upsert clientes: driver: bad connection", err.Error())
}
