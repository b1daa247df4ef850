package installments

import (
	"context"
	"fmt"

	"payment-sync/core/asaas"
	"payment-sync/core/reconcile"
	customermodels "payment-sync/feature/customers/models"
	"payment-sync/feature/installments/models"
)

// Store is the parcelamentos row store.
type Store interface {
	Get(ctx context.Context, id string) (models.Parcelamento, bool, error)
	Upsert(ctx context.Context, row models.Parcelamento) error
}

// CustomerStore reads local customers.
type CustomerStore interface {
	Get(ctx context.Context, id string) (customermodels.Cliente, bool, error)
}

// Adapter implements reconcile.Adapter and reconcile.Guard for installment plans.
type Adapter struct {
	store     Store
	customers CustomerStore
	cache     *reconcile.LookupCache[bool]
}

// NewAdapter creates an installment plan adapter.
func NewAdapter(store Store, customers CustomerStore) *Adapter {
	return &Adapter{
		store:     store,
		customers: customers,
		cache:     reconcile.NewLookupCache[bool](0),
	}
}

// Name returns the entity name.
func (a *Adapter) Name() string {
	return "installments"
}

// ExternalID returns the provider ID.
func (a *Adapter) ExternalID(i asaas.Installment) string {
	return i.ID
}

// Admit skips plans whose customer is unknown or deleted locally.
func (a *Adapter) Admit(ctx context.Context, i asaas.Installment) error {
	if i.Customer == "" {
		return reconcile.Ignore("installment has no customer")
	}

	deleted, found, err := a.cache.Get(ctx, i.Customer, func(ctx context.Context) (bool, bool, error) {
		row, found, err := a.customers.Get(ctx, i.Customer)
		return row.Deletado, found, err
	})
	if err != nil {
		return fmt.Errorf("resolve customer %s: %w", i.Customer, err)
	}
	if !found {
		return reconcile.Ignore(fmt.Sprintf("customer %s is not synchronized", i.Customer))
	}
	if deleted {
		return reconcile.Ignore(fmt.Sprintf("customer %s is deleted", i.Customer))
	}
	return nil
}

// Project maps a provider plan onto its parcelamentos row.
func (a *Adapter) Project(i asaas.Installment) (models.Parcelamento, error) {
	return models.Parcelamento{
		ID:             i.ID,
		DataCriacao:    i.DateCreated.Ptr(),
		ClienteID:      i.Customer,
		Valor:          i.Value,
		ValorLiquido:   i.NetValue,
		ValorParcela:   i.PaymentValue,
		NumeroParcelas: i.InstallmentCount,
		FormaCobranca:  i.BillingType,
		DataPagamento:  i.PaymentDate.Ptr(),
		Descricao:      i.Description,
		DiaVencimento:  i.ExpirationDay,
		Deletado:       i.Deleted,
	}, nil
}

// Fields lists the tracked columns.
func (a *Adapter) Fields() []reconcile.Field[models.Parcelamento] {
	return Fields
}

// Lookup fetches the stored row.
func (a *Adapter) Lookup(ctx context.Context, id string) (models.Parcelamento, bool, error) {
	return a.store.Get(ctx, id)
}

// Upsert writes the row.
func (a *Adapter) Upsert(ctx context.Context, row models.Parcelamento) error {
	return a.store.Upsert(ctx, row)
}

// Fields are the tracked columns of parcelamentos.
var Fields = []reconcile.Field[models.Parcelamento]{
	{Name: "data_criacao", Get: func(r models.Parcelamento) any { return r.DataCriacao }},
	{Name: "cliente_id", Get: func(r models.Parcelamento) any { return r.ClienteID }},
	{Name: "valor", Get: func(r models.Parcelamento) any { return r.Valor }},
	{Name: "valor_liquido", Get: func(r models.Parcelamento) any { return r.ValorLiquido }},
	{Name: "valor_parcela", Get: func(r models.Parcelamento) any { return r.ValorParcela }},
	{Name: "numero_parcelas", Get: func(r models.Parcelamento) any { return r.NumeroParcelas }},
	{Name: "forma_cobranca", Get: func(r models.Parcelamento) any { return r.FormaCobranca }},
	{Name: "data_pagamento", Get: func(r models.Parcelamento) any { return r.DataPagamento }},
	{Name: "descricao", Get: func(r models.Parcelamento) any { return r.Descricao }},
	{Name: "dia_vencimento", Get: func(r models.Parcelamento) any { return r.DiaVencimento }},
	{Name: "deletado", Get: func(r models.Parcelamento) any { return r.Deletado }},
}
