package customers

import (
	"context"

	"payment-sync/core/asaas"
	"payment-sync/core/reconcile"
	"payment-sync/core/utils"
	"payment-sync/feature/customers/models"
)

// Store is the row store the adapter reads and writes.
type Store interface {
	Get(ctx context.Context, id string) (models.Cliente, bool, error)
	Upsert(ctx context.Context, row models.Cliente) error
}

// Adapter implements reconcile.Adapter for customers.
type Adapter struct {
	store Store
}

// NewAdapter creates a customer adapter over store.
func NewAdapter(store Store) *Adapter {
	return &Adapter{store: store}
}

// Name returns the entity name.
func (a *Adapter) Name() string {
	return "customers"
}

// ExternalID returns the provider ID.
func (a *Adapter) ExternalID(c asaas.Customer) string {
	return c.ID
}

// Project maps a provider customer onto its clientes row.
func (a *Adapter) Project(c asaas.Customer) (models.Cliente, error) {
	row := models.Cliente{
		ID:                    c.ID,
		DataCriacao:           c.DateCreated.Ptr(),
		Nome:                  c.Name,
		Email:                 c.Email,
		Telefone:              c.Phone,
		Celular:               c.MobilePhone,
		Endereco:              c.Address,
		NumeroEndereco:        c.AddressNumber,
		Complemento:           c.Complement,
		Bairro:                c.Province,
		CidadeNome:            c.CityName,
		Estado:                c.State,
		Pais:                  c.Country,
		Cep:                   c.PostalCode,
		CpfCnpj:               c.CpfCnpj,
		TipoPessoa:            c.PersonType,
		Deletado:              c.Deleted,
		EmailsAdicionais:      c.AdditionalEmails,
		ReferenciaExterna:     c.ExternalReference,
		NotificacaoDesativada: c.NotificationDisabled,
		Observacoes:           c.Observations,
		Estrangeiro:           c.ForeignCustomer,
	}
	if c.City != nil {
		row.CidadeID = utils.ToString(c.City)
	}
	return row, nil
}

// Fields lists the tracked columns.
func (a *Adapter) Fields() []reconcile.Field[models.Cliente] {
	return Fields
}

// Lookup fetches the stored row.
func (a *Adapter) Lookup(ctx context.Context, id string) (models.Cliente, bool, error) {
	return a.store.Get(ctx, id)
}

// Upsert writes the row.
func (a *Adapter) Upsert(ctx context.Context, row models.Cliente) error {
	return a.store.Upsert(ctx, row)
}

// Fields are the tracked columns of clientes.
var Fields = []reconcile.Field[models.Cliente]{
	{Name: "data_criacao", Get: func(r models.Cliente) any { return r.DataCriacao }},
	{Name: "nome", Get: func(r models.Cliente) any { return r.Nome }},
	{Name: "email", Get: func(r models.Cliente) any { return r.Email }},
	{Name: "telefone", Get: func(r models.Cliente) any { return r.Telefone }},
	{Name: "celular", Get: func(r models.Cliente) any { return r.Celular }},
	{Name: "endereco", Get: func(r models.Cliente) any { return r.Endereco }},
	{Name: "numero_endereco", Get: func(r models.Cliente) any { return r.NumeroEndereco }},
	{Name: "complemento", Get: func(r models.Cliente) any { return r.Complemento }},
	{Name: "bairro", Get: func(r models.Cliente) any { return r.Bairro }},
	{Name: "cidade_id", Get: func(r models.Cliente) any { return r.CidadeID }},
	{Name: "cidade_nome", Get: func(r models.Cliente) any { return r.CidadeNome }},
	{Name: "estado", Get: func(r models.Cliente) any { return r.Estado }},
	{Name: "pais", Get: func(r models.Cliente) any { return r.Pais }},
	{Name: "cep", Get: func(r models.Cliente) any { return r.Cep }},
	{Name: "cpf_cnpj", Get: func(r models.Cliente) any { return r.CpfCnpj }},
	{Name: "tipo_pessoa", Get: func(r models.Cliente) any { return r.TipoPessoa }},
	{Name: "deletado", Get: func(r models.Cliente) any { return r.Deletado }},
	{Name: "emails_adicionais", Get: func(r models.Cliente) any { return r.EmailsAdicionais }},
	{Name: "referencia_externa", Get: func(r models.Cliente) any { return r.ReferenciaExterna }},
	{Name: "notificacao_desativada", Get: func(r models.Cliente) any { return r.NotificacaoDesativada }},
	{Name: "observacoes", Get: func(r models.Cliente) any { return r.Observacoes }},
	{Name: "estrangeiro", Get: func(r models.Cliente) any { return r.Estrangeiro }},
}
