package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ogurasousui/hc-talent-grpc/internal/core/audit"
	pgdb "github.com/ogurasousui/hc-talent-grpc/internal/platform/db/postgres"
)

const auditColumns = `id, occurred_at, actor_role, actor_identity, client_address, action, employee_id, before_data, after_data`

// AuditRepository は追記専用の audit_log テーブルを扱います。UPDATE と DELETE は発行しません。
type AuditRepository struct {
	pool pgdb.Queryer
}

// NewAuditRepository は AuditRepository を生成します。
func NewAuditRepository(pool pgdb.Queryer) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// Append は監査エントリを 1 件追記します。ID はデータベースが採番します。
func (r *AuditRepository) Append(ctx context.Context, entry *audit.Entry) (*audit.Entry, error) {
	if entry == nil {
		return nil, audit.ErrInvalidEntry
	}

	before, err := encodeSnapshot(entry.Before)
	if err != nil {
		return nil, err
	}
	after, err := encodeSnapshot(entry.After)
	if err != nil {
		return nil, err
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO audit_log (occurred_at, actor_role, actor_identity, client_address, action, employee_id, before_data, after_data)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING `+auditColumns,
		entry.Timestamp,
		entry.ActorRole,
		entry.ActorIdentity,
		entry.ClientAddress,
		string(entry.Action),
		entry.EmployeeID,
		before,
		after,
	)

	stored, err := scanAuditEntry(row)
	if err != nil {
		return nil, translateAuditPgError(err)
	}
	return stored, nil
}

// FindByID は ID で監査エントリを取得します。
func (r *AuditRepository) FindByID(ctx context.Context, id string) (*audit.Entry, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+auditColumns+`
          FROM audit_log
         WHERE id = $1
         LIMIT 1`, id)

	found, err := scanAuditEntry(row)
	if err != nil {
		return nil, translateAuditPgError(err)
	}
	return found, nil
}

// List は監査エントリを新しい順に取得します。
func (r *AuditRepository) List(ctx context.Context, filter audit.ListEntriesFilter) ([]*audit.Entry, string, error) {
	if filter.Limit <= 0 {
		return nil, "", audit.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", audit.ErrInvalidPageToken
	}

	limitWithBuffer := filter.Limit + 1

	args := make([]any, 0, 4)
	conditions := make([]string, 0, 2)
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		conditions = append(conditions, "employee_id = $"+strconv.Itoa(len(args)))
	}
	if filter.Action != nil {
		args = append(args, string(*filter.Action))
		conditions = append(conditions, "action = $"+strconv.Itoa(len(args)))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	limitPlaceholder := "$" + strconv.Itoa(len(args)+1)
	args = append(args, limitWithBuffer)
	offsetPlaceholder := "$" + strconv.Itoa(len(args)+1)
	args = append(args, filter.Offset)

	query := `SELECT ` + auditColumns + `
          FROM audit_log` + whereClause + `
         ORDER BY occurred_at DESC, seq DESC
         LIMIT ` + limitPlaceholder + ` OFFSET ` + offsetPlaceholder

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, "", translateAuditPgError(err)
	}
	defer rows.Close()

	entries := make([]*audit.Entry, 0, filter.Limit)
	for rows.Next() {
		entry, err := scanAuditEntry(rows)
		if err != nil {
			return nil, "", translateAuditPgError(err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, "", translateAuditPgError(err)
	}

	var nextToken string
	if len(entries) == limitWithBuffer {
		entries = entries[:filter.Limit]
		nextToken = strconv.Itoa(filter.Offset + filter.Limit)
	}

	return entries, nextToken, nil
}

func scanAuditEntry(row pgx.Row) (*audit.Entry, error) {
	var (
		e          audit.Entry
		action     string
		occurredAt time.Time
		before     []byte
		after      []byte
	)

	if err := row.Scan(
		&e.ID,
		&occurredAt,
		&e.ActorRole,
		&e.ActorIdentity,
		&e.ClientAddress,
		&action,
		&e.EmployeeID,
		&before,
		&after,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, audit.ErrEntryNotFound
		}
		return nil, err
	}

	var err error
	if e.Before, err = decodeSnapshot(before); err != nil {
		return nil, err
	}
	if e.After, err = decodeSnapshot(after); err != nil {
		return nil, err
	}
	e.Action = audit.Action(action)
	e.Timestamp = occurredAt.UTC()
	return &e, nil
}

func encodeSnapshot(s audit.Snapshot) ([]byte, error) {
	if s == nil {
		s = audit.Snapshot{}
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("audit: encode snapshot: %w", err)
	}
	return raw, nil
}

func decodeSnapshot(raw []byte) (audit.Snapshot, error) {
	snap := audit.Snapshot{}
	if len(raw) == 0 {
		return snap, nil
	}
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("audit: decode snapshot: %w", err)
	}
	return snap, nil
}

func translateAuditPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return audit.ErrEntryNotFound
	}
	// uuid として解釈できない ID は存在しないものとして扱います。
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentationCode {
		return audit.ErrEntryNotFound
	}
	return err
}

var _ audit.Repository = (*AuditRepository)(nil)
