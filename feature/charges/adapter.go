package charges

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"payment-sync/core/asaas"
	"payment-sync/core/reconcile"
	"payment-sync/feature/charges/models"
	customermodels "payment-sync/feature/customers/models"

	json "github.com/goccy/go-json"
	"gorm.io/datatypes"
)

// Store is the cobrancas row store.
type Store interface {
	Get(ctx context.Context, id string) (models.Cobranca, bool, error)
	Upsert(ctx context.Context, row models.Cobranca) error
}

// CustomerStore reads local customers.
type CustomerStore interface {
	Get(ctx context.Context, id string) (customermodels.Cliente, bool, error)
}

// CustomerSource fetches a customer from the provider.
type CustomerSource interface {
	GetCustomer(ctx context.Context, id string) (asaas.Customer, error)
}

// CustomerReconciler writes a customer before its charges.
type CustomerReconciler interface {
	Reconcile(ctx context.Context, c asaas.Customer) reconcile.Outcome
}

// customerState is what the guard needs to know about a parent customer.
type customerState struct {
	deleted bool
}

// Adapter implements reconcile.Adapter and reconcile.Guard for charges.
type Adapter struct {
	store     Store
	customers CustomerStore
	source    CustomerSource
	parent    CustomerReconciler
	cache     *reconcile.LookupCache[customerState]
}

// NewAdapter creates a charge adapter. source and parent may be nil, in which
// case charges of customers absent locally are ignored.
func NewAdapter(store Store, customers CustomerStore, source CustomerSource, parent CustomerReconciler) *Adapter {
	return &Adapter{
		store:     store,
		customers: customers,
		source:    source,
		parent:    parent,
		cache:     reconcile.NewLookupCache[customerState](0),
	}
}

// Name returns the entity name.
func (a *Adapter) Name() string {
	return "charges"
}

// ExternalID returns the provider ID.
func (a *Adapter) ExternalID(p asaas.Payment) string {
	return p.ID
}

// Admit resolves the charge's customer.
func (a *Adapter) Admit(ctx context.Context, p asaas.Payment) error {
	if p.Customer == "" {
		return reconcile.Ignore("charge has no customer")
	}

	st, found, err := a.cache.Get(ctx, p.Customer, func(ctx context.Context) (customerState, bool, error) {
		return a.resolveCustomer(ctx, p.Customer)
	})
	if err != nil {
		return fmt.Errorf("resolve customer %s: %w", p.Customer, err)
	}
	if !found {
		return reconcile.Ignore(fmt.Sprintf("customer %s does not exist", p.Customer))
	}
	if st.deleted {
		return reconcile.Ignore(fmt.Sprintf("customer %s is deleted", p.Customer))
	}
	return nil
}

func (a *Adapter) resolveCustomer(ctx context.Context, id string) (customerState, bool, error) {
	row, found, err := a.customers.Get(ctx, id)
	if err != nil {
		return customerState{}, false, err
	}
	if found {
		return customerState{deleted: row.Deletado}, true, nil
	}

	if a.source == nil || a.parent == nil {
		return customerState{}, false, nil
	}

	remote, err := a.source.GetCustomer(ctx, id)
	if errors.Is(err, asaas.ErrNotFound) {
		return customerState{}, false, nil
	}
	if err != nil {
		return customerState{}, false, err
	}
	if remote.Deleted {
		return customerState{deleted: true}, true, nil
	}

	if o := a.parent.Reconcile(ctx, remote); o.Kind == reconcile.KindFailed {
		return customerState{}, false, o.Err
	}
	return customerState{}, true, nil
}

// Project maps a provider charge onto its cobrancas row.
func (a *Adapter) Project(p asaas.Payment) (models.Cobranca, error) {
	return models.Cobranca{
		ID:                      p.ID,
		DataCriacao:             p.DateCreated.Ptr(),
		ClienteID:               p.Customer,
		AssinaturaID:            p.Subscription,
		ParcelamentoID:          p.Installment,
		LinkPagamento:           p.PaymentLink,
		Valor:                   p.Value,
		ValorLiquido:            p.NetValue,
		ValorOriginal:           p.OriginalValue,
		ValorJuros:              p.InterestValue,
		Descricao:               p.Description,
		FormaCobranca:           p.BillingType,
		PodePagarAposVencimento: p.CanBePaidAfterDueDate,
		TransacaoPix:            p.PixTransaction,
		Status:                  p.Status,
		DataVencimento:          p.DueDate.Ptr(),
		DataVencimentoOriginal:  p.OriginalDueDate.Ptr(),
		DataPagamento:           p.PaymentDate.Ptr(),
		DataPagamentoCliente:    p.ClientPaymentDate.Ptr(),
		NumeroParcela:           p.InstallmentNumber,
		URLFatura:               p.InvoiceURL,
		NumeroFatura:            p.InvoiceNumber,
		ReferenciaExterna:       p.ExternalReference,
		Deletado:                p.Deleted,
		Antecipado:              p.Anticipated,
		Antecipavel:             p.Anticipable,
		DataCredito:             p.CreditDate.Ptr(),
		DataCreditoEstimada:     p.EstimatedCreditDate.Ptr(),
		URLReciboTransacao:      p.TransactionReceiptURL,
		NossoNumero:             p.NossoNumero,
		URLBoleto:               p.BankSlipURL,
		Desconto:                jsonColumn(p.Discount),
		Multa:                   jsonColumn(p.Fine),
		Juros:                   jsonColumn(p.Interest),
		Split:                   jsonColumn(p.Split),
		EnvioCorreios:           p.PostalService,
	}, nil
}

// jsonColumn stores absent and null documents as SQL NULL.
func jsonColumn(raw json.RawMessage) datatypes.JSON {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	return datatypes.JSON(raw)
}

// Fields lists the tracked columns.
func (a *Adapter) Fields() []reconcile.Field[models.Cobranca] {
	return Fields
}

// Lookup fetches the stored row.
func (a *Adapter) Lookup(ctx context.Context, id string) (models.Cobranca, bool, error) {
	return a.store.Get(ctx, id)
}

// Upsert writes the row.
func (a *Adapter) Upsert(ctx context.Context, row models.Cobranca) error {
	return a.store.Upsert(ctx, row)
}

// Fields are the tracked columns of cobrancas.
var Fields = []reconcile.Field[models.Cobranca]{
	{Name: "data_criacao", Get: func(r models.Cobranca) any { return r.DataCriacao }},
	{Name: "cliente_id", Get: func(r models.Cobranca) any { return r.ClienteID }},
	{Name: "assinatura_id", Get: func(r models.Cobranca) any { return r.AssinaturaID }},
	{Name: "parcelamento_id", Get: func(r models.Cobranca) any { return r.ParcelamentoID }},
	{Name: "link_pagamento", Get: func(r models.Cobranca) any { return r.LinkPagamento }},
	{Name: "valor", Get: func(r models.Cobranca) any { return r.Valor }},
	{Name: "valor_liquido", Get: func(r models.Cobranca) any { return r.ValorLiquido }},
	{Name: "valor_original", Get: func(r models.Cobranca) any { return r.ValorOriginal }},
	{Name: "valor_juros", Get: func(r models.Cobranca) any { return r.ValorJuros }},
	{Name: "descricao", Get: func(r models.Cobranca) any { return r.Descricao }},
	{Name: "forma_cobranca", Get: func(r models.Cobranca) any { return r.FormaCobranca }},
	{Name: "pode_pagar_apos_vencimento", Get: func(r models.Cobranca) any { return r.PodePagarAposVencimento }},
	{Name: "transacao_pix", Get: func(r models.Cobranca) any { return r.TransacaoPix }},
	{Name: "status", Get: func(r models.Cobranca) any { return r.Status }},
	{Name: "data_vencimento", Get: func(r models.Cobranca) any { return r.DataVencimento }},
	{Name: "data_vencimento_original", Get: func(r models.Cobranca) any { return r.DataVencimentoOriginal }},
	{Name: "data_pagamento", Get: func(r models.Cobranca) any { return r.DataPagamento }},
	{Name: "data_pagamento_cliente", Get: func(r models.Cobranca) any { return r.DataPagamentoCliente }},
	{Name: "numero_parcela", Get: func(r models.Cobranca) any { return r.NumeroParcela }},
	{Name: "url_fatura", Get: func(r models.Cobranca) any { return r.URLFatura }},
	{Name: "numero_fatura", Get: func(r models.Cobranca) any { return r.NumeroFatura }},
	{Name: "referencia_externa", Get: func(r models.Cobranca) any { return r.ReferenciaExterna }},
	{Name: "deletado", Get: func(r models.Cobranca) any { return r.Deletado }},
	{Name: "antecipado", Get: func(r models.Cobranca) any { return r.Antecipado }},
	{Name: "antecipavel", Get: func(r models.Cobranca) any { return r.Antecipavel }},
	{Name: "data_credito", Get: func(r models.Cobranca) any { return r.DataCredito }},
	{Name: "data_credito_estimada", Get: func(r models.Cobranca) any { return r.DataCreditoEstimada }},
	{Name: "url_recibo_transacao", Get: func(r models.Cobranca) any { return r.URLReciboTransacao }},
	{Name: "nosso_numero", Get: func(r models.Cobranca) any { return r.NossoNumero }},
	{Name: "url_boleto", Get: func(r models.Cobranca) any { return r.URLBoleto }},
	{Name: "desconto", Get: func(r models.Cobranca) any { return r.Desconto }},
	{Name: "multa", Get: func(r models.Cobranca) any { return r.Multa }},
	{Name: "juros", Get: func(r models.Cobranca) any { return r.Juros }},
	{Name: "split", Get: func(r models.Cobranca) any { return r.Split }},
	{Name: "envio_correios", Get: func(r models.Cobranca) any { return r.EnvioCorreios }},
}
