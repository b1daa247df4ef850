package installments

import (
	"time"

	"payment-sync/core/asaas"

	"github.com/shopspring/decimal"
)

// Status classifies a charge or a whole plan.
type Status string

const (
	StatusPaid    Status = "pago"
	StatusOverdue Status = "inadimplente"
	StatusOpen    Status = "a_vencer"
)

// Label is the display name of the status.
func (s Status) Label() string {
	switch s {
	case StatusPaid:
		return "Pago"
	case StatusOverdue:
		return "Inadimplente"
	default:
		return "A vencer"
	}
}

// PaidStatuses are the provider statuses of a settled charge.
var PaidStatuses = map[string]bool{
	"RECEIVED":         true,
	"CONFIRMED":        true,
	"RECEIVED_IN_CASH": true,
}

// Charge is one classified charge of a plan.
type Charge struct {
	ID          string          `json:"id"`
	Number      int             `json:"numero_parcela"`
	Value       decimal.Decimal `json:"valor"`
	DueDate     asaas.Date      `json:"data_vencimento"`
	PaymentDate asaas.Date      `json:"data_pagamento"`
	BillingType string          `json:"forma_cobranca,omitempty"`
	Status      string          `json:"status"`
}

// Bucket groups the charges of one classification.
type Bucket struct {
	Count   int             `json:"quantidade"`
	Total   decimal.Decimal `json:"valor"`
	Charges []Charge        `json:"parcelas"`
}

func (b *Bucket) add(c Charge) {
	b.Count++
	b.Total = b.Total.Add(c.Value)
	b.Charges = append(b.Charges, c)
}

// Summary is the classification of every charge of a plan.
type Summary struct {
	Status  Status `json:"status"`
	Paid    Bucket `json:"parcelas_pagas"`
	Overdue Bucket `json:"parcelas_vencidas"`
	Open    Bucket `json:"parcelas_a_vencer"`
}

// Classify returns the status of a single charge on the day of now. A charge
// due today is not overdue yet.
func Classify(p asaas.Payment, now time.Time) Status {
	if PaidStatuses[p.Status] {
		return StatusPaid
	}
	if p.Status == "OVERDUE" {
		return StatusOverdue
	}
	if !p.DueDate.IsZero() && p.DueDate.Before(asaas.NewDate(now).Time) {
		return StatusOverdue
	}
	return StatusOpen
}

// Summarize classifies payments and derives the plan status. A plan without
// charges is pago.
func Summarize(payments []asaas.Payment, now time.Time) Summary {
	var s Summary
	for _, p := range payments {
		c := Charge{
			ID:          p.ID,
			Number:      p.InstallmentNumber,
			Value:       p.Value,
			DueDate:     p.DueDate,
			PaymentDate: p.PaymentDate,
			BillingType: p.BillingType,
			Status:      p.Status,
		}
		switch Classify(p, now) {
		case StatusPaid:
			s.Paid.add(c)
		case StatusOverdue:
			s.Overdue.add(c)
		default:
			s.Open.add(c)
		}
	}

	switch {
	case s.Overdue.Count > 0:
		s.Status = StatusOverdue
	case s.Paid.Count == len(payments):
		s.Status = StatusPaid
	default:
		s.Status = StatusOpen
	}
	return s
}
