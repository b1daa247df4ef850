// Package loader assembles the operator HTTP surface from independent
// features.
//
// A feature reports whether it can run with the dependencies it was given and
// registers its routes on a fiber.Router. The Manager loads enabled features
// in registration order and returns the names it loaded; the first Load error
// stops loading.
//
// The sync, installments and integrity features never import each other;
// cmd/start.go wires them.
package loader
