package cmd

import (
	"context"
	"time"

	"payment-sync/feature/installments"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// installmentCmd groups installment plan commands.
var installmentCmd = &cobra.Command{
	Use:   "installment",
	Short: "Inspect installment plans",
}

// installmentStatusCmd classifies the charges of one plan.
var installmentStatusCmd = &cobra.Command{
	Use:   "status <installment-id>",
	Short: "Classify the charges of an installment plan",
	Long: `Fetches the plan, its customer and every charge of the plan from the provider
and classifies each charge as pago, inadimplente or a_vencer. The plan is
inadimplente when any charge is overdue and pago when every charge is paid.`,
	Args: cobra.ExactArgs(1),
	RunE: runInstallmentStatus,
}

func init() {
	installmentCmd.AddCommand(installmentStatusCmd)
	RootCmd.AddCommand(installmentCmd)
}

func runInstallmentStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	svc := installments.NewService(a.client, a.cfg.Asaas.PageSize, a.logger)
	report, err := svc.Status(ctx, args[0])
	if err != nil {
		return err
	}

	printInstallmentStatus(a.logger, report)
	return nil
}

// printInstallmentStatus prints the classification using logger.
func printInstallmentStatus(l *zap.Logger, r installments.StatusReport) {
	l.Info("Installment status",
		zap.String("installment", r.InstallmentID),
		zap.String("customer", r.CustomerID),
		zap.String("customer_name", r.CustomerName),
		zap.String("status", r.Status.Label()),
	)

	buckets := []struct {
		name   string
		bucket installments.Bucket
	}{
		{installments.StatusPaid.Label(), r.Paid},
		{installments.StatusOverdue.Label(), r.Overdue},
		{installments.StatusOpen.Label(), r.Open},
	}
	for _, b := range buckets {
		l.Info("Charges",
			zap.String("group", b.name),
			zap.Int("count", b.bucket.Count),
			zap.String("total", b.bucket.Total.StringFixed(2)),
		)
		for _, c := range b.bucket.Charges {
			l.Info("Charge",
				zap.String("group", b.name),
				zap.String("id", c.ID),
				zap.Int("number", c.Number),
				zap.String("value", c.Value.StringFixed(2)),
				zap.String("due_date", c.DueDate.String()),
				zap.String("status", c.Status),
			)
		}
	}
}
