// Package installments reconciles provider installment plans into the
// parcelamentos table and classifies the charges of a plan.
//
// # Reconciliation
//
// A plan is only stored when its customer exists locally and is not deleted;
// other plans are reported as ignored. Customers are expected to be
// synchronized first.
//
// # Status
//
// Summarize folds the charges of a plan into three buckets:
//
//   - pago: status RECEIVED, CONFIRMED or RECEIVED_IN_CASH
//   - inadimplente: status OVERDUE, or unpaid with a due date before today
//   - a_vencer: everything else
//
// The plan as a whole is inadimplente when any charge is overdue, pago when
// every charge is paid, and a_vencer otherwise.
//
// # Routes
//
//	GET /installments/:id/status
package installments
