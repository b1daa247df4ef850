package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Parcelamento is the local row of a provider installment plan.
type Parcelamento struct {
	ID             string              `gorm:"column:id;primaryKey;size:64" json:"id"`
	DataCriacao    *time.Time          `gorm:"column:data_criacao;type:date" json:"data_criacao"`
	ClienteID      string              `gorm:"column:cliente_id;size:64;index" json:"cliente_id"`
	Valor          decimal.Decimal     `gorm:"column:valor;type:decimal(12,2)" json:"valor"`
	ValorLiquido   decimal.NullDecimal `gorm:"column:valor_liquido;type:decimal(12,2)" json:"valor_liquido"`
	ValorParcela   decimal.NullDecimal `gorm:"column:valor_parcela;type:decimal(12,2)" json:"valor_parcela"`
	NumeroParcelas int                 `gorm:"column:numero_parcelas" json:"numero_parcelas"`
	FormaCobranca  string              `gorm:"column:forma_cobranca" json:"forma_cobranca"`
	DataPagamento  *time.Time          `gorm:"column:data_pagamento;type:date" json:"data_pagamento"`
	Descricao      string              `gorm:"column:descricao" json:"descricao"`
	DiaVencimento  int                 `gorm:"column:dia_vencimento" json:"dia_vencimento"`
	Deletado       bool                `gorm:"column:deletado" json:"deletado"`
	CriadoEm       time.Time           `gorm:"column:criado_em;autoCreateTime" json:"criado_em"`
	AtualizadoEm   time.Time           `gorm:"column:atualizado_em;autoUpdateTime" json:"atualizado_em"`
}

// TableName overrides the table name.
func (Parcelamento) TableName() string {
	return "parcelamentos"
}
