package customers

import (
	"context"
	"fmt"
	"testing"

	"payment-sync/core/asaas"
	"payment-sync/core/database"
	"payment-sync/core/reconcile"
	"payment-sync/feature/customers/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *database.Table[models.Cliente] {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Cliente{}))
	return database.NewTable[models.Cliente](db, database.Config{}, nil)
}

func remoteCustomers(n int) []asaas.Customer {
	out := make([]asaas.Customer, n)
	for i := range out {
		created, _ := asaas.ParseDate("2024-01-15")
		out[i] = asaas.Customer{
			ID:          fmt.Sprintf("cus_%06d", i+1),
			DateCreated: created,
			Name:        fmt.Sprintf("Cliente %d", i+1),
			Email:       fmt.Sprintf("cliente%d@example.com", i+1),
			CpfCnpj:     "12345678909",
			City:        float64(12345),
			CityName:    "Fortaleza",
			State:       "CE",
		}
	}
	return out
}

func TestProject(t *testing.T) {
	a := NewAdapter(nil)
	c := remoteCustomers(1)[0]
	c.Deleted = true

	row, err := a.Project(c)
	require.NoError(t, err)
	assert.Equal(t, "cus_000001", row.ID)
	assert.Equal(t, "Cliente 1", row.Nome)
	assert.Equal(t, "12345", row.CidadeID)
	assert.Equal(t, "Fortaleza", row.CidadeNome)
	assert.True(t, row.Deletado)
	require.NotNil(t, row.DataCriacao)
	assert.Equal(t, "2024-01-15", row.DataCriacao.Format("2006-01-02"))
}

func TestReconcile_EndToEnd(t *testing.T) {
	ctx := context.Background()
	adapter := NewAdapter(setupStore(t))
	engine := reconcile.NewEngine[asaas.Customer, models.Cliente](adapter, reconcile.Options{}, nil)

	first := engine.Run(ctx, remoteCustomers(5))
	assert.Equal(t, 5, first.Created)
	assert.Equal(t, 5, first.Total())

	second := engine.Run(ctx, remoteCustomers(5))
	assert.Equal(t, 5, second.Unchanged, "outcomes: %+v", second.Outcomes)
	assert.Empty(t, second.Diffs)

	changed := remoteCustomers(5)
	changed[2].Email = "novo@example.com"
	third := engine.Run(ctx, changed)
	assert.Equal(t, 1, third.Updated)
	assert.Equal(t, 4, third.Unchanged)
	require.Len(t, third.Diffs, 1)
	assert.Equal(t, "cus_000003", third.Diffs[0].ID)
	assert.Equal(t, []reconcile.FieldDiff{{Field: "email", Old: "cliente3@example.com", New: "novo@example.com"}}, third.Diffs[0].Fields)

	stored, found, err := adapter.Lookup(ctx, "cus_000003")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "novo@example.com", stored.Email)
}

func TestReconcile_SoftDelete(t *testing.T) {
	ctx := context.Background()
	adapter := NewAdapter(setupStore(t))
	engine := reconcile.NewEngine[asaas.Customer, models.Cliente](adapter, reconcile.Options{}, nil)

	engine.Run(ctx, remoteCustomers(1))

	deleted := remoteCustomers(1)
	deleted[0].Deleted = true
	report := engine.Run(ctx, deleted)
	require.Len(t, report.Diffs, 1)
	assert.Equal(t, "deletado", report.Diffs[0].Fields[0].Field)

	row, found, err := adapter.Lookup(ctx, "cus_000001")
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, row.Deletado)
}
