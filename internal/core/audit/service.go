package audit

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

const (
	defaultListPageSize = 50
	maxListPageSize     = 500
)

// UseCase は監査ログ参照の公開インターフェースです。
type UseCase interface {
	ListEntries(ctx context.Context, in ListEntriesInput) (*ListEntriesResult, error)
	GetEntry(ctx context.Context, in GetEntryInput) (*Entry, error)
}

// Service は監査ログの参照ユースケースです。
type Service struct {
	repo Repository
	tx   TransactionManager
}

// NewService は Service を生成します。
func NewService(repo Repository, tx TransactionManager) *Service {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, tx: tx}
}

// ListEntriesInput は一覧取得時の入力です。
type ListEntriesInput struct {
	EmployeeID string
	Action     *Action
	PageSize   int
	PageToken  string
}

// ListEntriesResult は一覧取得結果です。
type ListEntriesResult struct {
	Entries       []*Entry
	NextPageToken string
}

// GetEntryInput は取得時の入力です。
type GetEntryInput struct {
	ID string
}

// ListEntries は監査ログを新しい順に返します。
func (s *Service) ListEntries(ctx context.Context, in ListEntriesInput) (*ListEntriesResult, error) {
	limit, err := normalizePageSize(in.PageSize)
	if err != nil {
		return nil, err
	}

	offset, err := parsePageToken(in.PageToken)
	if err != nil {
		return nil, err
	}

	var actionPtr *Action
	if in.Action != nil {
		if !in.Action.IsValid() {
			return nil, ErrInvalidAction
		}
		action := *in.Action
		actionPtr = &action
	}

	var result ListEntriesResult
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		entries, token, err := s.repo.List(txCtx, ListEntriesFilter{
			EmployeeID: strings.TrimSpace(in.EmployeeID),
			Action:     actionPtr,
			Limit:      limit,
			Offset:     offset,
		})
		if err != nil {
			return err
		}
		result.Entries = entries
		result.NextPageToken = token
		return nil
	}); err != nil {
		return nil, err
	}

	return &result, nil
}

// GetEntry は ID で監査ログを取得します。
func (s *Service) GetEntry(ctx context.Context, in GetEntryInput) (*Entry, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var found *Entry
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		entry, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		found = entry
		return nil
	}); err != nil {
		return nil, err
	}
	return found, nil
}

// NewEntryInput は監査エントリ生成時の入力です。
type NewEntryInput struct {
	Timestamp     time.Time
	ActorRole     string
	ActorIdentity string
	ClientAddress string
	Action        Action
	EmployeeID    string
	Before        Snapshot
	After         Snapshot
}

// NewEntry は入力を検証して追記用のエントリを組み立てます。
// CREATE の Before と DELETE の After は常に空になります。
func NewEntry(in NewEntryInput) (*Entry, error) {
	if !in.Action.IsValid() {
		return nil, ErrInvalidAction
	}
	employeeID := strings.TrimSpace(in.EmployeeID)
	if employeeID == "" {
		return nil, ErrInvalidEmployeeID
	}

	before, after := in.Before.Clone(), in.After.Clone()
	switch in.Action {
	case ActionCreate:
		before = Snapshot{}
	case ActionDelete:
		after = Snapshot{}
	}

	return &Entry{
		Timestamp:     in.Timestamp,
		ActorRole:     in.ActorRole,
		ActorIdentity: in.ActorIdentity,
		ClientAddress: in.ClientAddress,
		Action:        in.Action,
		EmployeeID:    employeeID,
		Before:        before,
		After:         after,
	}, nil
}

func normalizePageSize(pageSize int) (int, error) {
	if pageSize <= 0 {
		return defaultListPageSize, nil
	}
	if pageSize > maxListPageSize {
		return 0, ErrInvalidPageSize
	}
	return pageSize, nil
}

func parsePageToken(token string) (int, error) {
	if strings.TrimSpace(token) == "" {
		return 0, nil
	}

	offset, err := strconv.Atoi(token)
	if err != nil || offset < 0 {
		return 0, ErrInvalidPageToken
	}

	return offset, nil
}
