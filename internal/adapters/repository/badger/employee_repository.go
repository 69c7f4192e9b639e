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

	"github.com/ogurasousui/hc-talent-grpc/internal/core/employee"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/talent"
	badgerdb "github.com/ogurasousui/hc-talent-grpc/internal/platform/db/badger"
)

const employeeKeyPrefix = "employee/"

// employeeDocument は社員レコードの保存形式です。
type employeeDocument struct {
	ID                   string     `json:"id"`
	EmployeeID           string     `json:"employee_id"`
	FullName             string     `json:"full_name,omitempty"`
	Email                string     `json:"email,omitempty"`
	Department           string     `json:"department,omitempty"`
	Bureau               string     `json:"bureau,omitempty"`
	JobTitle             string     `json:"job_title,omitempty"`
	RankLevel            string     `json:"rank_level,omitempty"`
	WorkLocation         string     `json:"work_location,omitempty"`
	DateJoined           *time.Time `json:"date_joined,omitempty"`
	TenureInUnit         float64    `json:"tenure_in_unit"`
	TenureInDepartment   float64    `json:"tenure_in_department"`
	AvgPerformance3Yr    *float64   `json:"avg_performance_3yr,omitempty"`
	HasDisciplineIssue   bool       `json:"has_discipline_issue"`
	TechnicalSkills      string     `json:"technical_skills,omitempty"`
	SoftSkills           string     `json:"soft_skills,omitempty"`
	Certifications       string     `json:"certifications,omitempty"`
	Notes                string     `json:"notes,omitempty"`
	DataQualityScore     float64    `json:"data_quality_score"`
	IsPromotionCandidate bool       `json:"is_promotion_candidate"`
	CompetencyGapScore   int        `json:"competency_gap_score"`
	ReadinessIndex       float64    `json:"readiness_index"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// EmployeeRepository は badger を利用した社員レコード永続化の実装です。
// キーは employee/<employee_id> で、一覧は employee_id の辞書順になります。
type EmployeeRepository struct {
	db    *dgbadger.DB
	newID func() string
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(db *dgbadger.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db, newID: uuid.NewString}
}

// Create は社員レコードを新規作成します。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	stored := e.Clone()
	stored.ID = r.newID()

	err := badgerdb.Update(ctx, r.db, func(txn *dgbadger.Txn) error {
		key := employeeKey(e.EmployeeID)
		if _, err := txn.Get(key); err == nil {
			return employee.ErrEmployeeAlreadyExists
		} else if !errors.Is(err, dgbadger.ErrKeyNotFound) {
			return err
		}
		return putEmployee(txn, stored)
	})
	if err != nil {
		return nil, err
	}
	return stored.Clone(), nil
}

// Update は employee_id をキーに社員レコードを置き換えます。ID と作成日時は保存済みの値を維持します。
func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	var stored *employee.Employee

	err := badgerdb.Update(ctx, r.db, func(txn *dgbadger.Txn) error {
		existing, err := getEmployee(txn, e.EmployeeID)
		if err != nil {
			return err
		}
		stored = e.Clone()
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
		return putEmployee(txn, stored)
	})
	if err != nil {
		return nil, err
	}
	return stored.Clone(), nil
}

// Delete は社員レコードを削除します。
func (r *EmployeeRepository) Delete(ctx context.Context, employeeID string) error {
	return badgerdb.Update(ctx, r.db, func(txn *dgbadger.Txn) error {
		if _, err := getEmployee(txn, employeeID); err != nil {
			return err
		}
		return txn.Delete(employeeKey(employeeID))
	})
}

// FindByEmployeeID は employee_id で社員レコードを取得します。
func (r *EmployeeRepository) FindByEmployeeID(ctx context.Context, employeeID string) (*employee.Employee, error) {
	var found *employee.Employee
	err := badgerdb.View(ctx, r.db, func(txn *dgbadger.Txn) error {
		var err error
		found, err = getEmployee(txn, employeeID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// List は条件に合う社員レコードを employee_id 順にページングして取得します。
func (r *EmployeeRepository) List(ctx context.Context, filter employee.ListEmployeesFilter) ([]*employee.Employee, string, error) {
	if filter.Limit <= 0 {
		return nil, "", employee.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", employee.ErrInvalidPageToken
	}

	limitWithBuffer := filter.Limit + 1
	employees := make([]*employee.Employee, 0, limitWithBuffer)
	skipped := 0

	err := r.scan(ctx, filter.Criteria, func(e *employee.Employee) bool {
		if skipped < filter.Offset {
			skipped++
			return true
		}
		employees = append(employees, e)
		return len(employees) < limitWithBuffer
	})
	if err != nil {
		return nil, "", err
	}

	var nextToken string
	if len(employees) == limitWithBuffer {
		employees = employees[:filter.Limit]
		nextToken = strconv.Itoa(filter.Offset + filter.Limit)
	}
	return employees, nextToken, nil
}

// ListAll は条件に合う社員レコードをすべて employee_id 順に取得します。
func (r *EmployeeRepository) ListAll(ctx context.Context, criteria employee.Criteria) ([]*employee.Employee, error) {
	employees := make([]*employee.Employee, 0)
	err := r.scan(ctx, criteria, func(e *employee.Employee) bool {
		employees = append(employees, e)
		return true
	})
	if err != nil {
		return nil, err
	}
	return employees, nil
}

// scan は条件に合うレコードを順に yield へ渡します。yield が false を返すと打ち切ります。
func (r *EmployeeRepository) scan(ctx context.Context, criteria employee.Criteria, yield func(*employee.Employee) bool) error {
	return badgerdb.View(ctx, r.db, func(txn *dgbadger.Txn) error {
		prefix := []byte(employeeKeyPrefix)
		it := txn.NewIterator(dgbadger.IteratorOptions{PrefetchValues: true, PrefetchSize: 100, Prefix: prefix})
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var e *employee.Employee
			if err := it.Item().Value(func(val []byte) error {
				var err error
				e, err = decodeEmployee(val)
				return err
			}); err != nil {
				return err
			}
			if !criteria.Matches(e) {
				continue
			}
			if !yield(e) {
				return nil
			}
		}
		return nil
	})
}

func employeeKey(employeeID string) []byte {
	return []byte(employeeKeyPrefix + employeeID)
}

func getEmployee(txn *dgbadger.Txn, employeeID string) (*employee.Employee, error) {
	item, err := txn.Get(employeeKey(employeeID))
	if err != nil {
		if errors.Is(err, dgbadger.ErrKeyNotFound) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	var e *employee.Employee
	err = item.Value(func(val []byte) error {
		var err error
		e, err = decodeEmployee(val)
		return err
	})
	return e, err
}

func putEmployee(txn *dgbadger.Txn, e *employee.Employee) error {
	raw, err := json.Marshal(toDocument(e))
	if err != nil {
		return fmt.Errorf("badger: encode employee: %w", err)
	}
	return txn.Set(employeeKey(e.EmployeeID), raw)
}

func decodeEmployee(raw []byte) (*employee.Employee, error) {
	var doc employeeDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("badger: decode employee: %w", err)
	}
	return fromDocument(doc), nil
}

func toDocument(e *employee.Employee) employeeDocument {
	return employeeDocument{
		ID:                   e.ID,
		EmployeeID:           e.EmployeeID,
		FullName:             e.FullName,
		Email:                e.Email,
		Department:           e.Department,
		Bureau:               e.Bureau,
		JobTitle:             e.JobTitle,
		RankLevel:            e.RankLevel,
		WorkLocation:         e.WorkLocation,
		DateJoined:           e.DateJoined,
		TenureInUnit:         e.TenureInUnit,
		TenureInDepartment:   e.TenureInDepartment,
		AvgPerformance3Yr:    e.AvgPerformance3Yr,
		HasDisciplineIssue:   e.HasDisciplineIssue,
		TechnicalSkills:      e.TechnicalSkills,
		SoftSkills:           e.SoftSkills,
		Certifications:       e.Certifications,
		Notes:                e.Notes,
		DataQualityScore:     e.DataQualityScore,
		IsPromotionCandidate: e.IsPromotionCandidate,
		CompetencyGapScore:   e.CompetencyGapScore,
		ReadinessIndex:       e.ReadinessIndex,
		CreatedAt:            e.CreatedAt,
		UpdatedAt:            e.UpdatedAt,
	}
}

func fromDocument(doc employeeDocument) *employee.Employee {
	return &employee.Employee{
		ID: doc.ID,
		Record: talent.Record{
			EmployeeID:         doc.EmployeeID,
			FullName:           doc.FullName,
			Email:              doc.Email,
			Department:         doc.Department,
			Bureau:             doc.Bureau,
			JobTitle:           doc.JobTitle,
			RankLevel:          doc.RankLevel,
			WorkLocation:       doc.WorkLocation,
			DateJoined:         doc.DateJoined,
			TenureInUnit:       doc.TenureInUnit,
			TenureInDepartment: doc.TenureInDepartment,
			AvgPerformance3Yr:  doc.AvgPerformance3Yr,
			HasDisciplineIssue: doc.HasDisciplineIssue,
			TechnicalSkills:    doc.TechnicalSkills,
			SoftSkills:         doc.SoftSkills,
			Certifications:     doc.Certifications,
			Notes:              doc.Notes,
		},
		DataQualityScore:     doc.DataQualityScore,
		IsPromotionCandidate: doc.IsPromotionCandidate,
		CompetencyGapScore:   doc.CompetencyGapScore,
		ReadinessIndex:       doc.ReadinessIndex,
		CreatedAt:            doc.CreatedAt,
		UpdatedAt:            doc.UpdatedAt,
	}
}

var _ employee.Repository = (*EmployeeRepository)(nil)
