package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// ErrReadOnlyTransaction は読み取り専用トランザクションの内側で書き込みを始めようとした場合のエラーです。
var ErrReadOnlyTransaction = errors.New("badger: read-write transaction requested inside a read-only transaction")

type txnContextKey struct{}

// txnState はコンテキストに載せるトランザクションと書き込み可否です。
type txnState struct {
	txn    *badger.Txn
	update bool
}

// TransactionManager は badger のトランザクションをコンテキストに載せて fn を実行します。
type TransactionManager struct {
	db *badger.DB
}

// NewTransactionManager は TransactionManager を生成します。
func NewTransactionManager(db *badger.DB) *TransactionManager {
	if db == nil {
		return nil
	}
	return &TransactionManager{db: db}
}

// WithinReadOnly は読み取り専用トランザクションを開始し、fn を実行します。
func (m *TransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if m == nil {
		return fn(ctx)
	}
	return m.within(ctx, false, fn)
}

// WithinReadWrite は読み書きトランザクションを開始し、fn を実行します。
func (m *TransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if m == nil {
		return fn(ctx)
	}
	return m.within(ctx, true, fn)
}

func (m *TransactionManager) within(ctx context.Context, update bool, fn func(context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("badger: transaction function is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if state, ok := stateFromContext(ctx); ok {
		if update && !state.update {
			return ErrReadOnlyTransaction
		}
		return fn(ctx)
	}

	txn := m.db.NewTransaction(update)
	defer txn.Discard()

	if err := fn(context.WithValue(ctx, txnContextKey{}, txnState{txn: txn, update: update})); err != nil {
		return err
	}

	if !update {
		return nil
	}
	if err := txn.Commit(); err != nil {
		if errors.Is(err, badger.ErrConflict) {
			return fmt.Errorf("badger: commit conflict: %w", err)
		}
		return fmt.Errorf("badger: commit: %w", err)
	}
	return nil
}

// TxnFromContext はコンテキストに格納されたトランザクションを返します。
func TxnFromContext(ctx context.Context) (*badger.Txn, bool) {
	state, ok := stateFromContext(ctx)
	return state.txn, ok
}

func stateFromContext(ctx context.Context) (txnState, bool) {
	if ctx == nil {
		return txnState{}, false
	}
	state, ok := ctx.Value(txnContextKey{}).(txnState)
	return state, ok
}

// View はコンテキスト内のトランザクションがあればそれを使い、なければ読み取りトランザクションで fn を実行します。
func View(ctx context.Context, db *badger.DB, fn func(*badger.Txn) error) error {
	if txn, ok := TxnFromContext(ctx); ok {
		return fn(txn)
	}
	return db.View(fn)
}

// Update はコンテキスト内のトランザクションがあればそれを使い、なければ読み書きトランザクションで fn を実行します。
// コンテキスト内のトランザクションが読み取り専用なら ErrReadOnlyTransaction を返します。
func Update(ctx context.Context, db *badger.DB, fn func(*badger.Txn) error) error {
	if state, ok := stateFromContext(ctx); ok {
		if !state.update {
			return ErrReadOnlyTransaction
		}
		return fn(state.txn)
	}
	return db.Update(fn)
}
