package database

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"payment-sync/core/retry"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// CreatedColumn is never overwritten by an upsert.
const CreatedColumn = "criado_em"

// Table is a point-lookup and upsert store over the rows of model M.
// M must have a single primary key column.
type Table[M any] struct {
	db     *gorm.DB
	policy retry.Policy

	once    sync.Once
	initErr error
	name    string
	pk      string
	updates []string
}

// NewTable creates a store for M. Statements failing on connection errors are
// retried according to cfg.
func NewTable[M any](db *gorm.DB, cfg Config, log *zap.Logger) *Table[M] {
	return &Table[M]{db: db, policy: RetryPolicy(cfg, log)}
}

// init resolves the table name, primary key and updatable columns from the schema.
func (t *Table[M]) init() error {
	t.once.Do(func() {
		var model M
		stmt := &gorm.Statement{DB: t.db}
		if err := stmt.Parse(&model); err != nil {
			t.initErr = fmt.Errorf("parse model: %w", err)
			return
		}
		s := stmt.Schema
		t.name = s.Table
		if s.PrioritizedPrimaryField == nil {
			t.initErr = fmt.Errorf("table %s has no primary key", s.Table)
			return
		}
		t.pk = s.PrioritizedPrimaryField.DBName
		t.updates = updatableColumns(s)
	})
	return t.initErr
}

func updatableColumns(s *schema.Schema) []string {
	var cols []string
	for _, f := range s.Fields {
		if f.DBName == "" || f.PrimaryKey || f.DBName == CreatedColumn {
			continue
		}
		cols = append(cols, f.DBName)
	}
	return cols
}

// Name returns the table name.
func (t *Table[M]) Name() string {
	_ = t.init()
	return t.name
}

// Get fetches the row with primary key id. found is false when there is none.
func (t *Table[M]) Get(ctx context.Context, id string) (row M, found bool, err error) {
	if err := t.init(); err != nil {
		return row, false, &StoreError{Op: "get", Table: t.name, ID: id, Err: err}
	}

	_, err = retry.Do(ctx, t.policy, func(ctx context.Context, _ int) error {
		var m M
		res := t.db.WithContext(ctx).Where(clause.Eq{Column: clause.Column{Name: t.pk}, Value: id}).Take(&m)
		if res.Error != nil {
			return res.Error
		}
		row = m
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		var zero M
		return zero, false, nil
	}
	if err != nil {
		return row, false, &StoreError{Op: "get", Table: t.name, ID: id, Err: err}
	}
	return row, true, nil
}

// Upsert inserts row or, on primary key conflict, overwrites every non-key
// column except the creation timestamp.
func (t *Table[M]) Upsert(ctx context.Context, row M) error {
	if err := t.init(); err != nil {
		return &StoreError{Op: "upsert", Table: t.name, Err: err}
	}

	_, err := retry.Do(ctx, t.policy, func(ctx context.Context, _ int) error {
		m := row
		return t.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: t.pk}},
			DoUpdates: clause.AssignmentColumns(t.updates),
		}).Create(&m).Error
	})
	if err != nil {
		return &StoreError{Op: "upsert", Table: t.name, Err: err}
	}
	return nil
}

// Count returns the number of rows.
func (t *Table[M]) Count(ctx context.Context) (int64, error) {
	if err := t.init(); err != nil {
		return 0, &StoreError{Op: "count", Table: t.name, Err: err}
	}
	var n int64
	var model M
	if err := t.db.WithContext(ctx).Model(&model).Count(&n).Error; err != nil {
		return 0, &StoreError{Op: "count", Table: t.name, Err: err}
	}
	return n, nil
}
