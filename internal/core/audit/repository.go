package audit

import "context"

// Repository は追記専用の監査ログストアです。
type Repository interface {
	Append(ctx context.Context, entry *Entry) (*Entry, error)
	FindByID(ctx context.Context, id string) (*Entry, error)
	List(ctx context.Context, filter ListEntriesFilter) ([]*Entry, string, error)
}

// ListEntriesFilter は一覧取得用フィルタです。結果は新しい順に並びます。
type ListEntriesFilter struct {
	EmployeeID string
	Action     *Action
	Limit      int
	Offset     int
}
