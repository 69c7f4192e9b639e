package operator

import "context"

// Repository は操作者の永続化を行うインターフェースです。
type Repository interface {
	Create(ctx context.Context, op *Operator) (*Operator, error)
	Update(ctx context.Context, op *Operator) (*Operator, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Operator, error)
	FindByEmail(ctx context.Context, email string) (*Operator, error)
	List(ctx context.Context, filter ListOperatorsFilter) ([]*Operator, string, error)
}

// ListOperatorsFilter は一覧取得用フィルタです。
type ListOperatorsFilter struct {
	Status *Status
	Limit  int
	Offset int
}
