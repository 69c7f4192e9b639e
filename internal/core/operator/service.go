package operator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ogurasousui/hc-talent-grpc/internal/core/access"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

const (
	defaultListPageSize = 50
	maxListPageSize     = 200
)

// UseCase は操作者ユースケースの公開インターフェースです。
type UseCase interface {
	CreateOperator(ctx context.Context, in CreateOperatorInput) (*Operator, error)
	UpdateOperator(ctx context.Context, in UpdateOperatorInput) (*Operator, error)
	DeleteOperator(ctx context.Context, in DeleteOperatorInput) error
	GetOperator(ctx context.Context, in GetOperatorInput) (*Operator, error)
	ListOperators(ctx context.Context, in ListOperatorsInput) (*ListOperatorsResult, error)
	ResolveActor(ctx context.Context, id, address string) (access.Actor, error)
}

// Service は操作者台帳を管理し、リクエストの操作者を Actor に解決します。
// 変更系は局長ロールを必要とし、自分自身の権限を失わせる変更は拒否します。
type Service struct {
	repo  Repository
	clock Clock
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock) *Service {
	if clock == nil {
		clock = realClock{}
	}
	return &Service{repo: repo, clock: clock}
}

// CreateOperatorInput は操作者作成時の入力です。
type CreateOperatorInput struct {
	Email string
	Name  string
	Role  access.Role
}

// UpdateOperatorInput は操作者更新時の入力です。nil の項目は変更しません。
type UpdateOperatorInput struct {
	ID     string
	Name   *string
	Role   *access.Role
	Status *Status
}

// DeleteOperatorInput は操作者削除時の入力です。
type DeleteOperatorInput struct {
	ID string
}

// GetOperatorInput は操作者取得時の入力です。
type GetOperatorInput struct {
	ID string
}

// ListOperatorsInput は一覧取得時の入力です。
type ListOperatorsInput struct {
	PageSize  int
	PageToken string
	Status    *Status
}

// ListOperatorsResult は一覧取得結果を表します。
type ListOperatorsResult struct {
	Operators     []*Operator
	NextPageToken string
}

// CreateOperator は有効状態の操作者を登録します。メールアドレスは小文字に正規化されます。
func (s *Service) CreateOperator(ctx context.Context, in CreateOperatorInput) (*Operator, error) {
	if _, err := manager(ctx); err != nil {
		return nil, err
	}

	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}
	if !in.Role.IsValid() {
		return nil, access.ErrInvalidRole
	}

	switch _, err := s.repo.FindByEmail(ctx, email); {
	case err == nil:
		return nil, ErrEmailAlreadyExists
	case !errors.Is(err, ErrOperatorNotFound):
		return nil, err
	}

	now := s.clock.Now()
	return s.repo.Create(ctx, &Operator{
		Email:     email,
		Name:      name,
		Role:      in.Role,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// UpdateOperator は名前、ロール、状態を部分更新します。
func (s *Service) UpdateOperator(ctx context.Context, in UpdateOperatorInput) (*Operator, error) {
	actor, err := manager(ctx)
	if err != nil {
		return nil, err
	}
	id, err := requireID(in.ID)
	if err != nil {
		return nil, err
	}

	op, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(op); err != nil {
		return nil, err
	}
	if op.ID == actor.Identity && (op.Status != StatusActive || !op.Role.CanManageOperators()) {
		return nil, ErrSelfLockout
	}

	op.UpdatedAt = s.clock.Now()
	return s.repo.Update(ctx, op)
}

func (in UpdateOperatorInput) apply(op *Operator) error {
	if in.Name != nil {
		name, err := normalizeName(*in.Name)
		if err != nil {
			return err
		}
		op.Name = name
	}
	if in.Role != nil {
		if !in.Role.IsValid() {
			return access.ErrInvalidRole
		}
		op.Role = *in.Role
	}
	if in.Status != nil {
		if !in.Status.IsValid() {
			return ErrInvalidStatus
		}
		op.Status = *in.Status
	}
	return nil
}

// DeleteOperator は操作者を削除します。自分自身は削除できません。
func (s *Service) DeleteOperator(ctx context.Context, in DeleteOperatorInput) error {
	actor, err := manager(ctx)
	if err != nil {
		return err
	}
	id, err := requireID(in.ID)
	if err != nil {
		return err
	}
	if id == actor.Identity {
		return ErrSelfLockout
	}
	return s.repo.Delete(ctx, id)
}

// GetOperator は ID で操作者を取得します。
func (s *Service) GetOperator(ctx context.Context, in GetOperatorInput) (*Operator, error) {
	id, err := requireID(in.ID)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// ListOperators は作成順に操作者を返します。Status 指定時はその状態のみです。
func (s *Service) ListOperators(ctx context.Context, in ListOperatorsInput) (*ListOperatorsResult, error) {
	filter := ListOperatorsFilter{Limit: defaultListPageSize}
	switch {
	case in.PageSize > maxListPageSize:
		return nil, ErrInvalidPageSize
	case in.PageSize > 0:
		filter.Limit = in.PageSize
	}

	if token := strings.TrimSpace(in.PageToken); token != "" {
		offset, err := strconv.Atoi(token)
		if err != nil || offset < 0 {
			return nil, ErrInvalidPageToken
		}
		filter.Offset = offset
	}

	if in.Status != nil {
		if !in.Status.IsValid() {
			return nil, ErrInvalidStatus
		}
		st := *in.Status
		filter.Status = &st
	}

	ops, next, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ListOperatorsResult{Operators: ops, NextPageToken: next}, nil
}

// ResolveActor は操作者 ID から監査ログに記録する Actor を組み立てます。
// 未登録の ID は未認証、無効化済みの操作者は ErrOperatorInactive です。
func (s *Service) ResolveActor(ctx context.Context, id, address string) (access.Actor, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return access.Actor{}, access.ErrUnauthenticated
	}

	op, err := s.repo.FindByID(ctx, id)
	switch {
	case errors.Is(err, ErrOperatorNotFound):
		return access.Actor{}, fmt.Errorf("%w: unknown operator", access.ErrUnauthenticated)
	case err != nil:
		return access.Actor{}, err
	case op.Status != StatusActive:
		return access.Actor{}, ErrOperatorInactive
	}
	return op.Actor(address), nil
}

func manager(ctx context.Context) (access.Actor, error) {
	actor, ok := access.FromContext(ctx)
	if !ok {
		return access.Actor{}, access.ErrUnauthenticated
	}
	if err := access.RequireManage(actor); err != nil {
		return access.Actor{}, err
	}
	return actor, nil
}

func requireID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", fmt.Errorf("id: %w", ErrInvalidID)
	}
	return id, nil
}
