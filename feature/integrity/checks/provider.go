package checks

import (
	"context"
	"errors"
	"fmt"

	"payment-sync/core/asaas"
)

// Prober performs the provider setup probe.
type Prober interface {
	MyAccount(ctx context.Context) (asaas.Account, error)
}

// ProviderReport is the outcome of the provider probe.
type ProviderReport struct {
	Reachable bool   `json:"reachable"`
	Account   string `json:"account,omitempty"`
	Email     string `json:"email,omitempty"`
	Error     string `json:"error,omitempty"`
}

// CheckProvider calls the account endpoint. Rejected credentials and
// unreachable hosts are reported, not returned; only a nil prober is an error.
func CheckProvider(ctx context.Context, p Prober) (*ProviderReport, error) {
	if p == nil {
		return nil, fmt.Errorf("provider client is nil")
	}

	account, err := p.MyAccount(ctx)
	if err != nil {
		// Anything but a transport failure means the host answered.
		return &ProviderReport{Reachable: !errors.Is(err, asaas.ErrTransport), Error: err.Error()}, nil
	}
	return &ProviderReport{Reachable: true, Account: account.Name, Email: account.Email}, nil
}
