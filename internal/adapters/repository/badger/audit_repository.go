package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	dgbadger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/ogurasousui/hc-talent-grpc/internal/core/audit"
	badgerdb "github.com/ogurasousui/hc-talent-grpc/internal/platform/db/badger"
)

const (
	auditKeyPrefix   = "audit/"
	auditIndexPrefix = "audit_id/"
	auditSeqKey      = "seq/audit"
)

// auditDocument は監査エントリの保存形式です。
type auditDocument struct {
	ID            string         `json:"id"`
	Timestamp     time.Time      `json:"timestamp"`
	ActorRole     string         `json:"actor_role"`
	ActorIdentity string         `json:"actor_identity"`
	ClientAddress string         `json:"client_address"`
	Action        audit.Action   `json:"action"`
	EmployeeID    string         `json:"employee_id"`
	Before        audit.Snapshot `json:"before"`
	After         audit.Snapshot `json:"after"`
}

// AuditRepository は badger を利用した追記専用の監査ログです。
// エントリは audit/<連番> に保存し、audit_id/<id> から連番キーを引きます。
// 連番は DB に保存された seq/audit から払い出すため、同じ DB を共有する複数のインスタンスでも重複しません。
type AuditRepository struct {
	db    *dgbadger.DB
	seq   *dgbadger.Sequence
	newID func() string
}

// NewAuditRepository は AuditRepository を生成します。使い終わったら Close で連番のリースを返却してください。
func NewAuditRepository(db *dgbadger.DB) (*AuditRepository, error) {
	seq, err := db.GetSequence([]byte(auditSeqKey), 1)
	if err != nil {
		return nil, fmt.Errorf("badger: open audit sequence: %w", err)
	}
	return &AuditRepository{db: db, seq: seq, newID: uuid.NewString}, nil
}

// Close は連番のリースを返却します。
func (r *AuditRepository) Close() error {
	return r.seq.Release()
}

// Append は監査エントリを 1 件追記します。
func (r *AuditRepository) Append(ctx context.Context, entry *audit.Entry) (*audit.Entry, error) {
	if entry == nil {
		return nil, audit.ErrInvalidEntry
	}

	doc := auditDocument{
		ID:            r.newID(),
		Timestamp:     entry.Timestamp.UTC(),
		ActorRole:     entry.ActorRole,
		ActorIdentity: entry.ActorIdentity,
		ClientAddress: entry.ClientAddress,
		Action:        entry.Action,
		EmployeeID:    entry.EmployeeID,
		Before:        entry.Before.Clone(),
		After:         entry.After.Clone(),
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("badger: encode audit entry: %w", err)
	}

	n, err := r.seq.Next()
	if err != nil {
		return nil, fmt.Errorf("badger: next audit sequence: %w", err)
	}
	key := auditKey(n + 1)
	err = badgerdb.Update(ctx, r.db, func(txn *dgbadger.Txn) error {
		if err := txn.Set(key, raw); err != nil {
			return err
		}
		return txn.Set([]byte(auditIndexPrefix+doc.ID), key)
	})
	if err != nil {
		return nil, err
	}
	return fromAuditDocument(doc), nil
}

// FindByID は ID で監査エントリを取得します。
func (r *AuditRepository) FindByID(ctx context.Context, id string) (*audit.Entry, error) {
	var found *audit.Entry
	err := badgerdb.View(ctx, r.db, func(txn *dgbadger.Txn) error {
		index, err := txn.Get([]byte(auditIndexPrefix + id))
		if err != nil {
			return err
		}
		key, err := index.ValueCopy(nil)
		if err != nil {
			return err
		}
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			found, err = decodeAuditEntry(val)
			return err
		})
	})
	if err != nil {
		if errors.Is(err, dgbadger.ErrKeyNotFound) {
			return nil, audit.ErrEntryNotFound
		}
		return nil, err
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
	entries := make([]*audit.Entry, 0, limitWithBuffer)
	skipped := 0

	err := badgerdb.View(ctx, r.db, func(txn *dgbadger.Txn) error {
		prefix := []byte(auditKeyPrefix)
		opts := dgbadger.DefaultIteratorOptions
		opts.Reverse = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(append(append([]byte{}, prefix...), 0xFF)); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var entry *audit.Entry
			if err := it.Item().Value(func(val []byte) error {
				var err error
				entry, err = decodeAuditEntry(val)
				return err
			}); err != nil {
				return err
			}
			if filter.EmployeeID != "" && entry.EmployeeID != filter.EmployeeID {
				continue
			}
			if filter.Action != nil && entry.Action != *filter.Action {
				continue
			}
			if skipped < filter.Offset {
				skipped++
				continue
			}
			entries = append(entries, entry)
			if len(entries) == limitWithBuffer {
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	var nextToken string
	if len(entries) == limitWithBuffer {
		entries = entries[:filter.Limit]
		nextToken = strconv.Itoa(filter.Offset + filter.Limit)
	}
	return entries, nextToken, nil
}

func auditKey(seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", auditKeyPrefix, seq))
}

func decodeAuditEntry(raw []byte) (*audit.Entry, error) {
	var doc auditDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("badger: decode audit entry: %w", err)
	}
	return fromAuditDocument(doc), nil
}

func fromAuditDocument(doc auditDocument) *audit.Entry {
	return &audit.Entry{
		ID:            doc.ID,
		Timestamp:     doc.Timestamp,
		ActorRole:     doc.ActorRole,
		ActorIdentity: doc.ActorIdentity,
		ClientAddress: doc.ClientAddress,
		Action:        doc.Action,
		EmployeeID:    doc.EmployeeID,
		Before:        doc.Before.Clone(),
		After:         doc.After.Clone(),
	}
}

var _ audit.Repository = (*AuditRepository)(nil)
