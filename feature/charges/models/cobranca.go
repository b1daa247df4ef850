package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Cobranca is the local row of a provider charge.
type Cobranca struct {
	ID                      string              `gorm:"column:id;primaryKey;size:64" json:"id"`
	DataCriacao             *time.Time          `gorm:"column:data_criacao;type:date" json:"data_criacao"`
	ClienteID               string              `gorm:"column:cliente_id;size:64;index" json:"cliente_id"`
	AssinaturaID            string              `gorm:"column:assinatura_id" json:"assinatura_id"`
	ParcelamentoID          string              `gorm:"column:parcelamento_id;size:64;index" json:"parcelamento_id"`
	LinkPagamento           string              `gorm:"column:link_pagamento" json:"link_pagamento"`
	Valor                   decimal.Decimal     `gorm:"column:valor;type:decimal(12,2)" json:"valor"`
	ValorLiquido            decimal.NullDecimal `gorm:"column:valor_liquido;type:decimal(12,2)" json:"valor_liquido"`
	ValorOriginal           decimal.NullDecimal `gorm:"column:valor_original;type:decimal(12,2)" json:"valor_original"`
	ValorJuros              decimal.NullDecimal `gorm:"column:valor_juros;type:decimal(12,2)" json:"valor_juros"`
	Descricao               string              `gorm:"column:descricao" json:"descricao"`
	FormaCobranca           string              `gorm:"column:forma_cobranca" json:"forma_cobranca"`
	PodePagarAposVencimento bool                `gorm:"column:pode_pagar_apos_vencimento" json:"pode_pagar_apos_vencimento"`
	TransacaoPix            string              `gorm:"column:transacao_pix" json:"transacao_pix"`
	Status                  string              `gorm:"column:status;index" json:"status"`
	DataVencimento          *time.Time          `gorm:"column:data_vencimento;type:date" json:"data_vencimento"`
	DataVencimentoOriginal  *time.Time          `gorm:"column:data_vencimento_original;type:date" json:"data_vencimento_original"`
	DataPagamento           *time.Time          `gorm:"column:data_pagamento;type:date" json:"data_pagamento"`
	DataPagamentoCliente    *time.Time          `gorm:"column:data_pagamento_cliente;type:date" json:"data_pagamento_cliente"`
	NumeroParcela           int                 `gorm:"column:numero_parcela" json:"numero_parcela"`
	URLFatura               string              `gorm:"column:url_fatura" json:"url_fatura"`
	NumeroFatura            string              `gorm:"column:numero_fatura" json:"numero_fatura"`
	ReferenciaExterna       string              `gorm:"column:referencia_externa" json:"referencia_externa"`
	Deletado                bool                `gorm:"column:deletado" json:"deletado"`
	Antecipado              bool                `gorm:"column:antecipado" json:"antecipado"`
	Antecipavel             bool                `gorm:"column:antecipavel" json:"antecipavel"`
	DataCredito             *time.Time          `gorm:"column:data_credito;type:date" json:"data_credito"`
	DataCreditoEstimada     *time.Time          `gorm:"column:data_credito_estimada;type:date" json:"data_credito_estimada"`
	URLReciboTransacao      string              `gorm:"column:url_recibo_transacao" json:"url_recibo_transacao"`
	NossoNumero             string              `gorm:"column:nosso_numero" json:"nosso_numero"`
	URLBoleto               string              `gorm:"column:url_boleto" json:"url_boleto"`
	Desconto                datatypes.JSON      `gorm:"column:desconto" json:"desconto"`
	Multa                   datatypes.JSON      `gorm:"column:multa" json:"multa"`
	Juros                   datatypes.JSON      `gorm:"column:juros" json:"juros"`
	Split                   datatypes.JSON      `gorm:"column:split" json:"split"`
	EnvioCorreios           bool                `gorm:"column:envio_correios" json:"envio_correios"`
	CriadoEm                time.Time           `gorm:"column:criado_em;autoCreateTime" json:"criado_em"`
	AtualizadoEm            time.Time           `gorm:"column:atualizado_em;autoUpdateTime" json:"atualizado_em"`
}

// TableName overrides the table name.
func (Cobranca) TableName() string {
	return "cobrancas"
}
