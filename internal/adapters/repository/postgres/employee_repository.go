package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ogurasousui/hc-talent-grpc/internal/core/employee"
	pgdb "github.com/ogurasousui/hc-talent-grpc/internal/platform/db/postgres"
)

const (
	uniqueViolationCode           = "23505"
	checkViolationCode            = "23514"
	invalidTextRepresentationCode = "22P02"
)

const employeeColumns = `id, employee_id, full_name, email, department, bureau, job_title, rank_level, work_location,
       date_joined, tenure_in_unit, tenure_in_department, avg_performance_3yr, has_discipline_issue,
       technical_skills, soft_skills, certifications, notes,
       data_quality_score, is_promotion_candidate, competency_gap_score, readiness_index,
       created_at, updated_at`

// EmployeeRepository は PostgreSQL を利用した社員レコード永続化の実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// Create は社員レコードを新規作成します。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO employees (employee_id, full_name, email, department, bureau, job_title, rank_level, work_location,
                               date_joined, tenure_in_unit, tenure_in_department, avg_performance_3yr, has_discipline_issue,
                               technical_skills, soft_skills, certifications, notes,
                               data_quality_score, is_promotion_candidate, competency_gap_score, readiness_index,
                               created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
        RETURNING `+employeeColumns,
		append(recordArgs(e), e.CreatedAt, e.UpdatedAt)...,
	)

	created, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return created, nil
}

// Update は employee_id をキーに社員レコードを置き換えます。
func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE employees
           SET full_name = $2,
               email = $3,
               department = $4,
               bureau = $5,
               job_title = $6,
               rank_level = $7,
               work_location = $8,
               date_joined = $9,
               tenure_in_unit = $10,
               tenure_in_department = $11,
               avg_performance_3yr = $12,
               has_discipline_issue = $13,
               technical_skills = $14,
               soft_skills = $15,
               certifications = $16,
               notes = $17,
               data_quality_score = $18,
               is_promotion_candidate = $19,
               competency_gap_score = $20,
               readiness_index = $21,
               updated_at = $22
         WHERE employee_id = $1
        RETURNING `+employeeColumns,
		append(recordArgs(e), e.UpdatedAt)...,
	)

	updated, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return updated, nil
}

// Delete は社員レコードを削除します。
func (r *EmployeeRepository) Delete(ctx context.Context, employeeID string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM employees WHERE employee_id = $1`, employeeID)
	if err != nil {
		return translateEmployeePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// FindByEmployeeID は employee_id で社員レコードを取得します。
func (r *EmployeeRepository) FindByEmployeeID(ctx context.Context, employeeID string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+employeeColumns+`
          FROM employees
         WHERE employee_id = $1
         LIMIT 1`, employeeID)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// List は社員レコードを employee_id 順にページングして取得します。
func (r *EmployeeRepository) List(ctx context.Context, filter employee.ListEmployeesFilter) ([]*employee.Employee, string, error) {
	if filter.Limit <= 0 {
		return nil, "", employee.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", employee.ErrInvalidPageToken
	}

	limitWithBuffer := filter.Limit + 1

	whereClause, args := employeeConditions(filter.Criteria)
	limitPlaceholder := "$" + strconv.Itoa(len(args)+1)
	args = append(args, limitWithBuffer)
	offsetPlaceholder := "$" + strconv.Itoa(len(args)+1)
	args = append(args, filter.Offset)

	query := `SELECT ` + employeeColumns + `
          FROM employees` + whereClause + `
         ORDER BY employee_id
         LIMIT ` + limitPlaceholder + ` OFFSET ` + offsetPlaceholder

	employees, err := r.query(ctx, query, filter.Limit, args...)
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
	whereClause, args := employeeConditions(criteria)
	query := `SELECT ` + employeeColumns + `
          FROM employees` + whereClause + `
         ORDER BY employee_id`

	return r.query(ctx, query, 0, args...)
}

func (r *EmployeeRepository) query(ctx context.Context, query string, sizeHint int, args ...any) ([]*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	defer rows.Close()

	employees := make([]*employee.Employee, 0, sizeHint)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, translateEmployeePgError(err)
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, translateEmployeePgError(err)
	}
	return employees, nil
}

func employeeConditions(criteria employee.Criteria) (string, []any) {
	args := make([]any, 0, 4)
	conditions := make([]string, 0, 3)

	if criteria.Department != "" {
		args = append(args, criteria.Department)
		conditions = append(conditions, "department = $"+strconv.Itoa(len(args)))
	}
	if criteria.Bureau != "" {
		args = append(args, criteria.Bureau)
		conditions = append(conditions, "bureau = $"+strconv.Itoa(len(args)))
	}
	if criteria.OnlyCandidates {
		conditions = append(conditions, "is_promotion_candidate")
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// recordArgs は INSERT/UPDATE 共通の $1〜$21 を並べます。
func recordArgs(e *employee.Employee) []any {
	return []any{
		e.EmployeeID,
		e.FullName,
		e.Email,
		e.Department,
		e.Bureau,
		e.JobTitle,
		e.RankLevel,
		e.WorkLocation,
		nullableDate(e.DateJoined),
		e.TenureInUnit,
		e.TenureInDepartment,
		nullableFloat(e.AvgPerformance3Yr),
		e.HasDisciplineIssue,
		e.TechnicalSkills,
		e.SoftSkills,
		e.Certifications,
		e.Notes,
		e.DataQualityScore,
		e.IsPromotionCandidate,
		e.CompetencyGapScore,
		e.ReadinessIndex,
	}
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		e           employee.Employee
		dateJoined  sql.NullTime
		performance sql.NullFloat64
	)

	if err := row.Scan(
		&e.ID,
		&e.EmployeeID,
		&e.FullName,
		&e.Email,
		&e.Department,
		&e.Bureau,
		&e.JobTitle,
		&e.RankLevel,
		&e.WorkLocation,
		&dateJoined,
		&e.TenureInUnit,
		&e.TenureInDepartment,
		&performance,
		&e.HasDisciplineIssue,
		&e.TechnicalSkills,
		&e.SoftSkills,
		&e.Certifications,
		&e.Notes,
		&e.DataQualityScore,
		&e.IsPromotionCandidate,
		&e.CompetencyGapScore,
		&e.ReadinessIndex,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	if dateJoined.Valid {
		t := dateJoined.Time.UTC()
		date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		e.DateJoined = &date
	}
	if performance.Valid {
		v := performance.Float64
		e.AvgPerformance3Yr = &v
	}
	return &e, nil
}

func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return employee.ErrEmployeeAlreadyExists
		case checkViolationCode:
			return errors.Join(employee.ErrInvalidRecord, err)
		}
	}

	return err
}

func nullableDate(value *time.Time) any {
	if value == nil {
		return nil
	}
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)
}

func nullableFloat(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}

var _ employee.Repository = (*EmployeeRepository)(nil)

