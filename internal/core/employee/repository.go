package employee

import "context"

// Repository は社員レコード永続化の抽象です。
// 一覧系は employee_id の昇順で返します。
type Repository interface {
	Create(ctx context.Context, employee *Employee) (*Employee, error)
	Update(ctx context.Context, employee *Employee) (*Employee, error)
	Delete(ctx context.Context, employeeID string) error
	FindByEmployeeID(ctx context.Context, employeeID string) (*Employee, error)
	List(ctx context.Context, filter ListEmployeesFilter) ([]*Employee, string, error)
	ListAll(ctx context.Context, criteria Criteria) ([]*Employee, error)
}

// Criteria は一覧・スクリーニングの絞り込み条件です。空文字は条件なしを表します。
type Criteria struct {
	Department     string
	Bureau         string
	OnlyCandidates bool
}

// ListEmployeesFilter はページング付き一覧取得用フィルタです。
type ListEmployeesFilter struct {
	Criteria
	Limit  int
	Offset int
}

// Matches は e が条件を満たすかを判定します。SQL を持たないストア向けです。
func (c Criteria) Matches(e *Employee) bool {
	if e == nil {
		return false
	}
	if c.Department != "" && e.Department != c.Department {
		return false
	}
	if c.Bureau != "" && e.Bureau != c.Bureau {
		return false
	}
	if c.OnlyCandidates && !e.IsPromotionCandidate {
		return false
	}
	return true
}
