package asaas

import (
	"context"
	"maps"
	"net/url"
)

// ListCustomers returns one page of customers.
func (c *Client) ListCustomers(ctx context.Context, p ListParams) (Page[Customer], error) {
	var page Page[Customer]
	err := c.get(ctx, "list_customers", "/customers", listQuery(p), &page)
	return page, err
}

// ListPayments returns one page of charges.
func (c *Client) ListPayments(ctx context.Context, p ListParams) (Page[Payment], error) {
	var page Page[Payment]
	err := c.get(ctx, "list_payments", "/payments", listQuery(p), &page)
	return page, err
}

// ListInstallments returns one page of installment plans.
func (c *Client) ListInstallments(ctx context.Context, p ListParams) (Page[Installment], error) {
	var page Page[Installment]
	err := c.get(ctx, "list_installments", "/installments", listQuery(p), &page)
	return page, err
}

// ListInstallmentPayments returns one page of the charges of an installment plan.
func (c *Client) ListInstallmentPayments(ctx context.Context, installmentID string, p ListParams) (Page[Payment], error) {
	filters := make(map[string]string, len(p.Filters)+1)
	maps.Copy(filters, p.Filters)
	filters["installment"] = installmentID
	p.Filters = filters

	var page Page[Payment]
	err := c.get(ctx, "list_installment_payments", "/payments", listQuery(p), &page)
	return page, err
}

// GetCustomer returns a single customer.
func (c *Client) GetCustomer(ctx context.Context, id string) (Customer, error) {
	var out Customer
	err := c.get(ctx, "get_customer", "/customers/"+url.PathEscape(id), nil, &out)
	return out, err
}

// GetPayment returns a single charge.
func (c *Client) GetPayment(ctx context.Context, id string) (Payment, error) {
	var out Payment
	err := c.get(ctx, "get_payment", "/payments/"+url.PathEscape(id), nil, &out)
	return out, err
}

// GetInstallment returns a single installment plan.
func (c *Client) GetInstallment(ctx context.Context, id string) (Installment, error) {
	var out Installment
	err := c.get(ctx, "get_installment", "/installments/"+url.PathEscape(id), nil, &out)
	return out, err
}

// MyAccount returns the authenticated account. It is the setup probe of a run.
func (c *Client) MyAccount(ctx context.Context) (Account, error) {
	var out Account
	err := c.get(ctx, "my_account", "/myAccount", nil, &out)
	return out, err
}
