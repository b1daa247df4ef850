// Package customers reconciles provider customers into the clientes table.
//
// Customers have no parent entity, so every fetched record is reconciled; a
// customer deleted upstream is kept locally with deletado set.
package customers
