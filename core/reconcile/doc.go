// Package reconcile decides, per remote record, whether the local store needs an
// insert, an update or nothing, and reports exactly which fields changed.
//
// # Architecture
//
// The package consists of three main components:
//
// 1. Engine: drives each record through lookup, projection, comparison and write,
// and folds the outcomes into a Report. Records run through the batch
// orchestrator, so one bad record never aborts its siblings.
//
// 2. Adapter: entity-specific logic. It extracts the external ID, projects the
// remote record onto the local row, lists the tracked fields, and performs the
// point lookup and the upsert. An adapter may also implement Guard to skip
// records that must not be written (for example a charge whose customer is gone).
//
// 3. LookupCache: memoized point lookups with stampede protection, used by
// guards that resolve the same parent for many children.
//
// # Comparison
//
// Tracked fields are normalized before comparison:
//   - nil pointers, invalid nullable values and JSON null are all "absent"
//   - time values compare by instant
//   - decimal values compare numerically (10.0 equals 10)
//   - JSON documents compare in canonical form with sorted keys
//
// A record whose tracked fields all compare equal is Unchanged and is not written.
//
// # Usage Example
//
//	engine := reconcile.NewEngine[asaas.Customer, customers.Cliente](adapter,
//	    reconcile.Options{RetryFailed: true, Batch: batch.Options{Width: 10}}, log)
//	report := engine.Run(ctx, records)
//	fmt.Println(report.Created, report.Updated, report.Failed)
package reconcile
