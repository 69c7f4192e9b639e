package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrReadOnlyTransaction は読み取り専用トランザクションの内側で書き込みを始めようとした場合のエラーです。
var ErrReadOnlyTransaction = errors.New("postgres: read-write transaction requested inside a read-only transaction")

type txContextKey struct{}

// txState はコンテキストに載せるトランザクションとそのアクセスモードです。
type txState struct {
	tx       pgx.Tx
	readOnly bool
}

type txStarter interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// TransactionManager はユースケース単位のトランザクションをコンテキスト経由でリポジトリに渡します。
// 読み取りは REPEATABLE READ で開始し、一覧の全件走査と集計が同じスナップショットを見るようにします。
type TransactionManager struct {
	pool        txStarter
	readIsoLvl  pgx.TxIsoLevel
	writeIsoLvl pgx.TxIsoLevel
}

// Option は TransactionManager の設定を変更します。
type Option func(*TransactionManager)

// WithWriteIsolation は読み書きトランザクションの分離レベルを指定します。既定はサーバー設定です。
func WithWriteIsolation(level pgx.TxIsoLevel) Option {
	return func(m *TransactionManager) {
		m.writeIsoLvl = level
	}
}

// NewTransactionManager は TransactionManager を生成します。
func NewTransactionManager(pool txStarter, opts ...Option) *TransactionManager {
	if pool == nil {
		return nil
	}
	m := &TransactionManager{pool: pool, readIsoLvl: pgx.RepeatableRead}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithinReadOnly は読み取り専用トランザクションを開始し、fn を実行します。
func (m *TransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if m == nil {
		return fn(ctx)
	}
	return m.within(ctx, true, fn)
}

// WithinReadWrite は読み書きトランザクションを開始し、fn を実行します。
// 読み取り専用トランザクションの内側から呼ばれた場合は ErrReadOnlyTransaction を返します。
func (m *TransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if m == nil {
		return fn(ctx)
	}
	return m.within(ctx, false, fn)
}

func (m *TransactionManager) options(readOnly bool) pgx.TxOptions {
	if readOnly {
		return pgx.TxOptions{IsoLevel: m.readIsoLvl, AccessMode: pgx.ReadOnly}
	}
	return pgx.TxOptions{IsoLevel: m.writeIsoLvl, AccessMode: pgx.ReadWrite}
}

func (m *TransactionManager) within(ctx context.Context, readOnly bool, fn func(context.Context) error) (err error) {
	if fn == nil {
		return errors.New("postgres: nil transaction callback")
	}

	if state, ok := stateFromContext(ctx); ok {
		if state.readOnly && !readOnly {
			return ErrReadOnlyTransaction
		}
		return fn(ctx)
	}

	opts := m.options(readOnly)
	tx, err := m.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("postgres: begin %s tx: %w", opts.AccessMode, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			err = errors.Join(err, fmt.Errorf("postgres: rollback: %w", rbErr))
		}
	}()

	if err = fn(context.WithValue(ctx, txContextKey{}, txState{tx: tx, readOnly: readOnly})); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func stateFromContext(ctx context.Context) (txState, bool) {
	if ctx == nil {
		return txState{}, false
	}
	state, ok := ctx.Value(txContextKey{}).(txState)
	return state, ok
}

func txFromContext(ctx context.Context) (pgx.Tx, bool) {
	state, ok := stateFromContext(ctx)
	return state.tx, ok
}

// Queryer はリポジトリが使うクエリ実行の最小集合です。pgx.Tx と pgxpool.Pool の両方が満たします。
type Queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// QueryerFromContext はコンテキスト内のトランザクションがあればそれを、なければ fallback を返します。
func QueryerFromContext(ctx context.Context, fallback Queryer) Queryer {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return fallback
}
