package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LaundryBookingService/pkg/dbmetrics"
	"github.com/m04kA/LaundryBookingService/pkg/logger"
)

type fakeTx struct {
	commitErr  error
	committed  int
	rolledBack int
}

func (t *fakeTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) Commit() error {
	t.committed++
	return t.commitErr
}

func (t *fakeTx) Rollback() error {
	t.rolledBack++
	return nil
}

type fakeBeginner struct {
	tx       *fakeTx
	beginErr error
	begun    int
	opts     []*sql.TxOptions
}

func (b *fakeBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	b.begun++
	b.opts = append(b.opts, opts)
	if b.beginErr != nil {
		return nil, b.beginErr
	}
	return b.tx, nil
}

func newManager() (*TxManager, *fakeBeginner) {
	db := &fakeBeginner{tx: &fakeTx{}}
	return New(db, logger.NewWithWriter(io.Discard, "error")), db
}

func TestDo_CommitsAndPassesTxInContext(t *testing.T) {
	m, db := newManager()

	err := m.Do(context.Background(), func(ctx context.Context) error {
		tx, ok := dbmetrics.TxFromContext(ctx)
		require.True(t, ok)
		assert.Same(t, db.tx, tx)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, db.tx.committed)
	assert.Zero(t, db.tx.rolledBack)
	require.Len(t, db.opts, 1)
	assert.Equal(t, sql.LevelReadCommitted, db.opts[0].Isolation)
	assert.False(t, db.opts[0].ReadOnly)
}

func TestDo_RollsBackOnError(t *testing.T) {
	m, db := newManager()
	failure := errors.New("insufficient funds")

	err := m.Do(context.Background(), func(context.Context) error { return failure })

	assert.ErrorIs(t, err, failure)
	assert.Zero(t, db.tx.committed)
	assert.Equal(t, 1, db.tx.rolledBack)
}

func TestDo_RollsBackOnPanic(t *testing.T) {
	m, db := newManager()

	assert.PanicsWithValue(t, "boom", func() {
		_ = m.Do(context.Background(), func(context.Context) error { panic("boom") })
	})

	assert.Zero(t, db.tx.committed)
	assert.Equal(t, 1, db.tx.rolledBack)
}

func TestDo_NestedReusesTransaction(t *testing.T) {
	m, db := newManager()

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return m.Do(ctx, func(inner context.Context) error {
			tx, ok := dbmetrics.TxFromContext(inner)
			require.True(t, ok)
			assert.Same(t, db.tx, tx)
			return nil
		})
	})

	require.NoError(t, err)
	assert.Equal(t, 1, db.begun)
	assert.Equal(t, 1, db.tx.committed)
}

func TestDo_NestedErrorRollsBackOuter(t *testing.T) {
	m, db := newManager()
	failure := errors.New("exclusion violation")

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return m.Do(ctx, func(context.Context) error { return failure })
	})

	assert.ErrorIs(t, err, failure)
	assert.Equal(t, 1, db.begun)
	assert.Zero(t, db.tx.committed)
	assert.Equal(t, 1, db.tx.rolledBack)
}

func TestDo_BeginAndCommitErrors(t *testing.T) {
	m, db := newManager()
	db.beginErr = errors.New("too many connections")

	called := false
	err := m.Do(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrBeginTx)
	assert.False(t, called)

	m, db = newManager()
	db.tx.commitErr = errors.New("serialization failure")

	err = m.Do(context.Background(), func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrCommitTx)
}

func TestDoReadOnly_UsesReadOnlySnapshot(t *testing.T) {
	m, db := newManager()

	err := m.DoReadOnly(context.Background(), func(context.Context) error { return nil })

	require.NoError(t, err)
	require.Len(t, db.opts, 1)
	assert.Equal(t, sql.LevelRepeatableRead, db.opts[0].Isolation)
	assert.True(t, db.opts[0].ReadOnly)
}
