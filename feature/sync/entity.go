package sync

import (
	"fmt"
	"slices"
	"strings"
)

// Entity is a synchronized record type.
type Entity string

const (
	EntityCustomers    Entity = "customers"
	EntityCharges      Entity = "charges"
	EntityInstallments Entity = "installments"
)

// Entities lists every entity in run order. Customers come first so charges
// and installment plans find their parent locally.
var Entities = []Entity{EntityCustomers, EntityCharges, EntityInstallments}

// ParseEntities parses a comma separated selection. "all" or an empty string
// selects every entity. The result follows run order without duplicates.
func ParseEntities(s string) ([]Entity, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "all" {
		return slices.Clone(Entities), nil
	}

	selected := map[Entity]bool{}
	for _, part := range strings.Split(s, ",") {
		e := Entity(strings.TrimSpace(part))
		if !slices.Contains(Entities, e) {
			return nil, fmt.Errorf("unknown entity %q (want customers, charges, installments or all)", part)
		}
		selected[e] = true
	}

	var out []Entity
	for _, e := range Entities {
		if selected[e] {
			out = append(out, e)
		}
	}
	return out, nil
}

// JoinEntities is the inverse of ParseEntities.
func JoinEntities(es []Entity) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = string(e)
	}
	return strings.Join(parts, ",")
}
