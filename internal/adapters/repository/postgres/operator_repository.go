package postgres

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ogurasousui/hc-talent-grpc/internal/core/access"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/operator"
	pgdb "github.com/ogurasousui/hc-talent-grpc/internal/platform/db/postgres"
)

const operatorColumns = `id, email, name, role, status, created_at, updated_at`

// OperatorRepository は operators テーブルに操作者を保存します。
// email には一意制約があり、id は uuid 型です。
type OperatorRepository struct {
	pool pgdb.Queryer
}

// NewOperatorRepository は OperatorRepository を生成します。
func NewOperatorRepository(pool pgdb.Queryer) *OperatorRepository {
	return &OperatorRepository{pool: pool}
}

func (r *OperatorRepository) Create(ctx context.Context, op *operator.Operator) (*operator.Operator, error) {
	row := pgdb.QueryerFromContext(ctx, r.pool).QueryRow(ctx, `
        INSERT INTO operators (email, name, role, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING `+operatorColumns,
		op.Email, op.Name, string(op.Role), string(op.Status), op.CreatedAt, op.UpdatedAt)
	return r.one(row)
}

// Update は email 以外の項目を書き換えます。
func (r *OperatorRepository) Update(ctx context.Context, op *operator.Operator) (*operator.Operator, error) {
	row := pgdb.QueryerFromContext(ctx, r.pool).QueryRow(ctx, `
        UPDATE operators
           SET name = $2, role = $3, status = $4, updated_at = $5
         WHERE id = $1
        RETURNING `+operatorColumns,
		op.ID, op.Name, string(op.Role), string(op.Status), op.UpdatedAt)
	return r.one(row)
}

func (r *OperatorRepository) Delete(ctx context.Context, id string) error {
	tag, err := pgdb.QueryerFromContext(ctx, r.pool).Exec(ctx, `DELETE FROM operators WHERE id = $1`, id)
	switch {
	case err != nil:
		return translateOperatorPgError(err)
	case tag.RowsAffected() == 0:
		return operator.ErrOperatorNotFound
	}
	return nil
}

// FindByID は ID で操作者を取得します。uuid として解釈できない ID は未登録扱いです。
func (r *OperatorRepository) FindByID(ctx context.Context, id string) (*operator.Operator, error) {
	return r.findBy(ctx, "id", id)
}

// FindByEmail は正規化済みのメールアドレスで操作者を取得します。
func (r *OperatorRepository) FindByEmail(ctx context.Context, email string) (*operator.Operator, error) {
	return r.findBy(ctx, "email", email)
}

func (r *OperatorRepository) findBy(ctx context.Context, column, value string) (*operator.Operator, error) {
	row := pgdb.QueryerFromContext(ctx, r.pool).QueryRow(ctx,
		`SELECT `+operatorColumns+` FROM operators WHERE `+column+` = $1`, value)
	return r.one(row)
}

func (r *OperatorRepository) one(row pgx.Row) (*operator.Operator, error) {
	op, err := scanOperator(row)
	if err != nil {
		return nil, translateOperatorPgError(err)
	}
	return op, nil
}

// List は作成日時、ID の順に操作者を返します。
func (r *OperatorRepository) List(ctx context.Context, filter operator.ListOperatorsFilter) ([]*operator.Operator, string, error) {
	if filter.Limit <= 0 {
		return nil, "", operator.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", operator.ErrInvalidPageToken
	}

	query := `SELECT ` + operatorColumns + ` FROM operators`
	var args []any
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += ` WHERE status = $1`
	}
	args = append(args, filter.Limit+1, filter.Offset)
	query += ` ORDER BY created_at, id LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := pgdb.QueryerFromContext(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, "", translateOperatorPgError(err)
	}
	ops, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*operator.Operator, error) {
		return scanOperator(row)
	})
	if err != nil {
		return nil, "", translateOperatorPgError(err)
	}

	if len(ops) <= filter.Limit {
		return ops, "", nil
	}
	return ops[:filter.Limit], strconv.Itoa(filter.Offset + filter.Limit), nil
}

func scanOperator(row pgx.Row) (*operator.Operator, error) {
	var (
		op                   operator.Operator
		role, status         string
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&op.ID, &op.Email, &op.Name, &role, &status, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, operator.ErrOperatorNotFound
		}
		return nil, err
	}
	op.Role = access.Role(role)
	op.Status = operator.Status(status)
	op.CreatedAt = createdAt.UTC()
	op.UpdatedAt = updatedAt.UTC()
	return &op, nil
}

func translateOperatorPgError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return operator.ErrOperatorNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return operator.ErrEmailAlreadyExists
		case invalidTextRepresentationCode:
			return operator.ErrOperatorNotFound
		}
	}
	return err
}

var _ operator.Repository = (*OperatorRepository)(nil)
