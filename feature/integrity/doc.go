// Package integrity provides operational health checks for payment-sync.
//
// # Checks Provided
//
//   - Schema: compares the clientes, cobrancas, parcelamentos and sync_runs
//     tables with their GORM models and lists missing tables and columns.
//   - Archive: verifies that the object storage bucket for run reports exists.
//   - Provider: calls the account endpoint to validate the API key.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/schema : Runs the schema check (supports ?fix=true).
//   - GET /integrity/archive : Runs the archive check (supports ?fix=true).
//   - GET /integrity/provider : Runs the provider probe.
package integrity
