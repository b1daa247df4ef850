package reconcile

import (
	"database/sql"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func strPtr(s string) *string { return &s }

func TestEqual(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*3600)
	instant := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	var nilTime *time.Time
	var nilStr *string

	tests := []struct {
		name  string
		a, b  any
		equal bool
	}{
		{name: "nil and nil pointer", a: nil, b: nilStr, equal: true},
		{name: "nil pointer and zero time", a: nilTime, b: time.Time{}, equal: true},
		{name: "nil and empty string", a: nil, b: "", equal: false},
		{name: "same strings", a: "PENDING", b: "PENDING", equal: true},
		{name: "different strings", a: "PENDING", b: "RECEIVED", equal: false},
		{name: "string and pointer", a: "x", b: strPtr("x"), equal: true},
		{name: "same instant in two zones", a: instant, b: instant.In(saoPaulo), equal: true},
		{name: "different instants", a: instant, b: instant.Add(time.Second), equal: false},
		{name: "time pointer", a: &instant, b: instant, equal: true},
		{name: "decimal scale", a: decimal.RequireFromString("10"), b: decimal.RequireFromString("10.00"), equal: true},
		{name: "decimal values", a: decimal.RequireFromString("10.01"), b: decimal.RequireFromString("10"), equal: false},
		{name: "null decimal invalid", a: decimal.NullDecimal{}, b: nil, equal: true},
		{name: "null decimal valid", a: decimal.NewNullDecimal(decimal.NewFromInt(5)), b: decimal.NewFromInt(5), equal: true},
		{name: "json key order", a: datatypes.JSON(`{"a":1,"b":[1,2]}`), b: json.RawMessage(`{"b":[1,2], "a":1}`), equal: true},
		{name: "json null", a: datatypes.JSON(`null`), b: nil, equal: true},
		{name: "json empty", a: datatypes.JSON(nil), b: json.RawMessage(`null`), equal: true},
		{name: "json differs", a: datatypes.JSON(`{"value":1}`), b: datatypes.JSON(`{"value":2}`), equal: false},
		{name: "sql null string", a: sql.NullString{}, b: nil, equal: true},
		{name: "sql string", a: sql.NullString{String: "a", Valid: true}, b: "a", equal: true},
		{name: "bools", a: true, b: false, equal: false},
		{name: "ints", a: 3, b: 3, equal: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, Equal(tt.a, tt.b))
			assert.Equal(t, tt.equal, Equal(tt.b, tt.a))
		})
	}
}

type row struct {
	Name   string
	Status string
	Value  decimal.Decimal
	Paid   *time.Time
}

var rowFields = []Field[row]{
	{Name: "nome", Get: func(r row) any { return r.Name }},
	{Name: "status", Get: func(r row) any { return r.Status }},
	{Name: "valor", Get: func(r row) any { return r.Value }},
	{Name: "data_pagamento", Get: func(r row) any { return r.Paid }},
}

func TestDiff_SingleField(t *testing.T) {
	stored := row{Name: "Ana", Status: "PENDING", Value: decimal.RequireFromString("100.00")}
	projected := row{Name: "Ana", Status: "RECEIVED", Value: decimal.NewFromInt(100)}

	diffs := Diff(rowFields, stored, projected)
	assert.Equal(t, []FieldDiff{{Field: "status", Old: "PENDING", New: "RECEIVED"}}, diffs)
}

func TestDiff_IdenticalRows(t *testing.T) {
	paid := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	r := row{Name: "Ana", Status: "RECEIVED", Value: decimal.NewFromInt(1), Paid: &paid}
	assert.Empty(t, Diff(rowFields, r, r))
}

func TestDiff_OrderFollowsFields(t *testing.T) {
	paid := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	stored := row{Name: "Ana", Status: "PENDING"}
	projected := row{Name: "Ana Maria", Status: "RECEIVED", Paid: &paid}

	diffs := Diff(rowFields, stored, projected)
	var names []string
	for _, d := range diffs {
		names = append(names, d.Field)
	}
	assert.Equal(t, []string{"nome", "status", "data_pagamento"}, names)
	assert.Nil(t, diffs[2].Old)
	assert.Equal(t, paid, diffs[2].New)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "null", FormatValue(nil))
	assert.Equal(t, "10.5", FormatValue(decimal.RequireFromString("10.50")))
	assert.Equal(t, "2024-01-02T00:00:00Z", FormatValue(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, `{"a":1,"b":2}`, FormatValue(datatypes.JSON(`{"b":2,"a":1}`)))
	assert.Equal(t, "true", FormatValue(true))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 50))
	long := "abcdefghijklmnopqrstuvwxyzabcdefghijklmnopqrstuvwxyz0123"
	assert.Equal(t, long[:50]+"...", Truncate(long, 50))
	assert.Equal(t, "ção...", Truncate("çãoção", 3))
}
