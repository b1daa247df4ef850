package models

import "time"

// Cliente is the local row of a provider customer.
type Cliente struct {
	ID                    string     `gorm:"column:id;primaryKey;size:64" json:"id"`
	DataCriacao           *time.Time `gorm:"column:data_criacao;type:date" json:"data_criacao"`
	Nome                  string     `gorm:"column:nome" json:"nome"`
	Email                 string     `gorm:"column:email" json:"email"`
	Telefone              string     `gorm:"column:telefone" json:"telefone"`
	Celular               string     `gorm:"column:celular" json:"celular"`
	Endereco              string     `gorm:"column:endereco" json:"endereco"`
	NumeroEndereco        string     `gorm:"column:numero_endereco" json:"numero_endereco"`
	Complemento           string     `gorm:"column:complemento" json:"complemento"`
	Bairro                string     `gorm:"column:bairro" json:"bairro"`
	CidadeID              string     `gorm:"column:cidade_id" json:"cidade_id"`
	CidadeNome            string     `gorm:"column:cidade_nome" json:"cidade_nome"`
	Estado                string     `gorm:"column:estado;size:2" json:"estado"`
	Pais                  string     `gorm:"column:pais" json:"pais"`
	Cep                   string     `gorm:"column:cep" json:"cep"`
	CpfCnpj               string     `gorm:"column:cpf_cnpj;index" json:"cpf_cnpj"`
	TipoPessoa            string     `gorm:"column:tipo_pessoa" json:"tipo_pessoa"`
	Deletado              bool       `gorm:"column:deletado" json:"deletado"`
	EmailsAdicionais      string     `gorm:"column:emails_adicionais" json:"emails_adicionais"`
	ReferenciaExterna     string     `gorm:"column:referencia_externa" json:"referencia_externa"`
	NotificacaoDesativada bool       `gorm:"column:notificacao_desativada" json:"notificacao_desativada"`
	Observacoes           string     `gorm:"column:observacoes" json:"observacoes"`
	Estrangeiro           bool       `gorm:"column:estrangeiro" json:"estrangeiro"`
	CriadoEm              time.Time  `gorm:"column:criado_em;autoCreateTime" json:"criado_em"`
	AtualizadoEm          time.Time  `gorm:"column:atualizado_em;autoUpdateTime" json:"atualizado_em"`
}

// TableName overrides the table name.
func (Cliente) TableName() string {
	return "clientes"
}
