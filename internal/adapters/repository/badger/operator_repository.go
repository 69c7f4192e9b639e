package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	dgbadger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/ogurasousui/hc-talent-grpc/internal/core/access"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/operator"
	badgerdb "github.com/ogurasousui/hc-talent-grpc/internal/platform/db/badger"
)

const (
	operatorKeyPrefix   = "operator/"
	operatorEmailPrefix = "operator_email/"
)

type operatorDocument struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	Role      access.Role     `json:"role"`
	Status    operator.Status `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// OperatorRepository は badger を利用した操作者永続化の実装です。
// operator_email/<email> にメールアドレスの一意インデックスを持ちます。
type OperatorRepository struct {
	db    *dgbadger.DB
	newID func() string
}

// NewOperatorRepository は OperatorRepository を生成します。
func NewOperatorRepository(db *dgbadger.DB) *OperatorRepository {
	return &OperatorRepository{db: db, newID: uuid.NewString}
}

// Create は操作者を新規作成します。
func (r *OperatorRepository) Create(ctx context.Context, op *operator.Operator) (*operator.Operator, error) {
	stored := *op
	stored.ID = r.newID()

	err := badgerdb.Update(ctx, r.db, func(txn *dgbadger.Txn) error {
		if _, err := txn.Get(operatorEmailKey(stored.Email)); err == nil {
			return operator.ErrEmailAlreadyExists
		} else if !errors.Is(err, dgbadger.ErrKeyNotFound) {
			return err
		}
		if err := putOperator(txn, &stored); err != nil {
			return err
		}
		return txn.Set(operatorEmailKey(stored.Email), []byte(stored.ID))
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// Update は操作者の名前、ロール、状態を更新します。メールアドレスは変更しません。
func (r *OperatorRepository) Update(ctx context.Context, op *operator.Operator) (*operator.Operator, error) {
	var stored operator.Operator

	err := badgerdb.Update(ctx, r.db, func(txn *dgbadger.Txn) error {
		existing, err := getOperator(txn, op.ID)
		if err != nil {
			return err
		}
		stored = *existing
		stored.Name = op.Name
		stored.Role = op.Role
		stored.Status = op.Status
		stored.UpdatedAt = op.UpdatedAt
		return putOperator(txn, &stored)
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// Delete は操作者を削除します。
func (r *OperatorRepository) Delete(ctx context.Context, id string) error {
	return badgerdb.Update(ctx, r.db, func(txn *dgbadger.Txn) error {
		existing, err := getOperator(txn, id)
		if err != nil {
			return err
		}
		if err := txn.Delete(operatorEmailKey(existing.Email)); err != nil {
			return err
		}
		return txn.Delete(operatorKey(id))
	})
}

// FindByID は ID で操作者を取得します。
func (r *OperatorRepository) FindByID(ctx context.Context, id string) (*operator.Operator, error) {
	var found *operator.Operator
	err := badgerdb.View(ctx, r.db, func(txn *dgbadger.Txn) error {
		var err error
		found, err = getOperator(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// FindByEmail はメールアドレスで操作者を取得します。
func (r *OperatorRepository) FindByEmail(ctx context.Context, email string) (*operator.Operator, error) {
	var found *operator.Operator
	err := badgerdb.View(ctx, r.db, func(txn *dgbadger.Txn) error {
		item, err := txn.Get(operatorEmailKey(email))
		if err != nil {
			if errors.Is(err, dgbadger.ErrKeyNotFound) {
				return operator.ErrOperatorNotFound
			}
			return err
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		found, err = getOperator(txn, string(id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// List は作成日時順に操作者をページングして取得します。
func (r *OperatorRepository) List(ctx context.Context, filter operator.ListOperatorsFilter) ([]*operator.Operator, string, error) {
	if filter.Limit <= 0 {
		return nil, "", operator.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", operator.ErrInvalidPageToken
	}

	var all []*operator.Operator
	err := badgerdb.View(ctx, r.db, func(txn *dgbadger.Txn) error {
		prefix := []byte(operatorKeyPrefix)
		it := txn.NewIterator(dgbadger.IteratorOptions{PrefetchValues: true, PrefetchSize: 50, Prefix: prefix})
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var op *operator.Operator
			if err := it.Item().Value(func(val []byte) error {
				var err error
				op, err = decodeOperator(val)
				return err
			}); err != nil {
				return err
			}
			if filter.Status != nil && op.Status != *filter.Status {
				continue
			}
			all = append(all, op)
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})

	if filter.Offset >= len(all) {
		return []*operator.Operator{}, "", nil
	}
	end := filter.Offset + filter.Limit
	var nextToken string
	if end < len(all) {
		nextToken = strconv.Itoa(end)
	} else {
		end = len(all)
	}
	return all[filter.Offset:end], nextToken, nil
}

func operatorKey(id string) []byte {
	return []byte(operatorKeyPrefix + id)
}

func operatorEmailKey(email string) []byte {
	return []byte(operatorEmailPrefix + strings.ToLower(email))
}

func getOperator(txn *dgbadger.Txn, id string) (*operator.Operator, error) {
	item, err := txn.Get(operatorKey(id))
	if err != nil {
		if errors.Is(err, dgbadger.ErrKeyNotFound) {
			return nil, operator.ErrOperatorNotFound
		}
		return nil, err
	}

	var op *operator.Operator
	err = item.Value(func(val []byte) error {
		var err error
		op, err = decodeOperator(val)
		return err
	})
	return op, err
}

func putOperator(txn *dgbadger.Txn, op *operator.Operator) error {
	raw, err := json.Marshal(operatorDocument{
		ID:        op.ID,
		Email:     op.Email,
		Name:      op.Name,
		Role:      op.Role,
		Status:    op.Status,
		CreatedAt: op.CreatedAt,
		UpdatedAt: op.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("badger: encode operator: %w", err)
	}
	return txn.Set(operatorKey(op.ID), raw)
}

func decodeOperator(raw []byte) (*operator.Operator, error) {
	var doc operatorDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("badger: decode operator: %w", err)
	}
	return &operator.Operator{
		ID:        doc.ID,
		Email:     doc.Email,
		Name:      doc.Name,
		Role:      doc.Role,
		Status:    doc.Status,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

var _ operator.Repository = (*OperatorRepository)(nil)
