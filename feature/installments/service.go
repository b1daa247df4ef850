package installments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"payment-sync/core/asaas"
	"payment-sync/core/paginate"

	"go.uber.org/zap"
)

// Source is the part of the provider client the status service reads.
type Source interface {
	GetInstallment(ctx context.Context, id string) (asaas.Installment, error)
	GetCustomer(ctx context.Context, id string) (asaas.Customer, error)
	ListInstallmentPayments(ctx context.Context, installmentID string, p asaas.ListParams) (asaas.Page[asaas.Payment], error)
}

// StatusReport is the classification of one installment plan.
type StatusReport struct {
	InstallmentID string `json:"parcelamento_id"`
	CustomerID    string `json:"cliente_id"`
	CustomerName  string `json:"nome_cliente"`
	Summary
}

// Service computes installment plan statuses from live provider data.
type Service struct {
	source   Source
	pageSize int
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new status service.
func NewService(source Source, pageSize int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, pageSize: pageSize, logger: logger, now: time.Now}
}

// Status fetches a plan, its customer and every charge of the plan, and
// classifies them.
func (s *Service) Status(ctx context.Context, id string) (StatusReport, error) {
	plan, err := s.source.GetInstallment(ctx, id)
	if err != nil {
		return StatusReport{}, fmt.Errorf("get installment %s: %w", id, err)
	}

	report := StatusReport{InstallmentID: plan.ID, CustomerID: plan.Customer}

	if plan.Customer != "" {
		customer, err := s.source.GetCustomer(ctx, plan.Customer)
		switch {
		case errors.Is(err, asaas.ErrNotFound):
			s.logger.Warn("Installment customer not found", zap.String("installment", id), zap.String("customer", plan.Customer))
		case err != nil:
			return StatusReport{}, fmt.Errorf("get customer %s: %w", plan.Customer, err)
		default:
			report.CustomerName = customer.Name
		}
	}

	fetcher := paginate.Fetcher[asaas.Payment]{
		Name:     "installment_payments",
		PageSize: s.pageSize,
		Logger:   s.logger,
		Fetch: func(ctx context.Context, offset, limit int) (asaas.Page[asaas.Payment], error) {
			return s.source.ListInstallmentPayments(ctx, id, asaas.ListParams{Offset: offset, Limit: limit})
		},
	}
	payments, err := fetcher.All(ctx)
	if err != nil {
		return StatusReport{}, err
	}

	report.Summary = Summarize(payments, s.now())

	s.logger.Info("Installment classified",
		zap.String("installment", id),
		zap.String("status", string(report.Status)),
		zap.Int("paid", report.Paid.Count),
		zap.Int("overdue", report.Overdue.Count),
		zap.Int("open", report.Open.Count))

	return report, nil
}
