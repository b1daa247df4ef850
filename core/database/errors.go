package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// ErrStore is matched by every StoreError.
var ErrStore = errors.New("store error")

// StoreError wraps a failed store operation.
type StoreError struct {
	Op    string
	Table string
	ID    string
	Err   error
}

func (e *StoreError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s %s: %v", e.Op, e.Table, e.ID, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Table, e.Err)
}

func (e *StoreError) Is(target error) bool { return target == ErrStore }

func (e *StoreError) Unwrap() error { return e.Err }

// connectionMessages are driver error fragments that indicate a lost or
// unreachable server rather than a rejected statement.
var connectionMessages = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"bad connection",
	"invalid connection",
	"server closed the connection",
	"terminating connection",
	"too many connections",
	"i/o timeout",
	"database is locked",
}

// IsConnectionError reports whether err looks transient at the connection level.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, m := range connectionMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
