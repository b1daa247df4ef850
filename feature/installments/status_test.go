package installments

import (
	"testing"
	"time"

	"payment-sync/core/asaas"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var today = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func charge(id, status, due, value string) asaas.Payment {
	p := asaas.Payment{ID: id, Status: status, Value: decimal.RequireFromString(value)}
	if due != "" {
		p.DueDate, _ = asaas.ParseDate(due)
	}
	return p
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		payment asaas.Payment
		want    Status
	}{
		{"Received", charge("p", "RECEIVED", "2026-02-10", "10"), StatusPaid},
		{"Confirmed", charge("p", "CONFIRMED", "2026-04-10", "10"), StatusPaid},
		{"ReceivedInCash", charge("p", "RECEIVED_IN_CASH", "2026-01-10", "10"), StatusPaid},
		{"OverdueStatus", charge("p", "OVERDUE", "2026-04-10", "10"), StatusOverdue},
		{"PendingPastDue", charge("p", "PENDING", "2026-03-09", "10"), StatusOverdue},
		{"PendingDueToday", charge("p", "PENDING", "2026-03-10", "10"), StatusOpen},
		{"PendingFuture", charge("p", "PENDING", "2026-03-11", "10"), StatusOpen},
		{"PendingWithoutDueDate", charge("p", "PENDING", "", "10"), StatusOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.payment, today))
		})
	}
}

func TestSummarize(t *testing.T) {
	t.Run("AllPaid", func(t *testing.T) {
		s := Summarize([]asaas.Payment{
			charge("p1", "RECEIVED", "2026-01-10", "100.25"),
			charge("p2", "CONFIRMED", "2026-02-10", "100.25"),
		}, today)
		assert.Equal(t, StatusPaid, s.Status)
		assert.Equal(t, 2, s.Paid.Count)
		assert.True(t, decimal.RequireFromString("200.50").Equal(s.Paid.Total))
	})

	t.Run("PaidAndOpen", func(t *testing.T) {
		s := Summarize([]asaas.Payment{
			charge("p1", "RECEIVED", "2026-02-10", "50"),
			charge("p2", "PENDING", "2026-04-10", "50"),
		}, today)
		assert.Equal(t, StatusOpen, s.Status)
		assert.Equal(t, 1, s.Paid.Count)
		assert.Equal(t, 1, s.Open.Count)
	})

	t.Run("AnyOverdueWins", func(t *testing.T) {
		s := Summarize([]asaas.Payment{
			charge("p1", "RECEIVED", "2026-01-10", "50"),
			charge("p2", "PENDING", "2026-02-10", "50"),
			charge("p3", "OVERDUE", "2026-03-10", "50"),
			charge("p4", "PENDING", "2026-04-10", "50"),
		}, today)
		assert.Equal(t, StatusOverdue, s.Status)
		assert.Equal(t, 2, s.Overdue.Count)
		assert.True(t, decimal.NewFromInt(100).Equal(s.Overdue.Total))
		assert.Equal(t, "p2", s.Overdue.Charges[0].ID)
		assert.Equal(t, "p3", s.Overdue.Charges[1].ID)
	})

	t.Run("NoCharges", func(t *testing.T) {
		s := Summarize(nil, today)
		assert.Equal(t, StatusPaid, s.Status)
		assert.Zero(t, s.Paid.Count)
	})
}

func TestStatus_Label(t *testing.T) {
	assert.Equal(t, "Pago", StatusPaid.Label())
	assert.Equal(t, "Inadimplente", StatusOverdue.Label())
	assert.Equal(t, "A vencer", StatusOpen.Label())
}
