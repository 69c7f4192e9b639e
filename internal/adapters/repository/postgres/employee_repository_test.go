package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/ogurasousui/hc-talent-grpc/internal/core/employee"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/talent"
)

type stubRow struct {
	scanFn func(dest ...interface{}) error
}

func (s stubRow) Scan(dest ...interface{}) error {
	return s.scanFn(dest...)
}

var employeeColumnNames = []string{
	"id", "employee_id", "full_name", "email", "department", "bureau", "job_title", "rank_level", "work_location",
	"date_joined", "tenure_in_unit", "tenure_in_department", "avg_performance_3yr", "has_discipline_issue",
	"technical_skills", "soft_skills", "certifications", "notes",
	"data_quality_score", "is_promotion_candidate", "competency_gap_score", "readiness_index",
	"created_at", "updated_at",
}

func employeeRow(rows *pgxmock.Rows, id, employeeID, department string, candidate bool, now time.Time) *pgxmock.Rows {
	return rows.AddRow(
		"row-"+id, employeeID, "Name "+employeeID, "", department, "HC Bureau", "Analyst", "M22", "Jakarta",
		nil, 2.0, 3.0, nil, false,
		"SQL", "Leadership", "", "",
		60.0, candidate, 1, 70.5,
		now, now,
	)
}

func TestScanEmployee_Success(t *testing.T) {
	t.Parallel()

	joined := time.Date(2019, 4, 1, 9, 0, 0, 0, time.FixedZone("WIB", 7*60*60))
	now := time.Now().UTC()

	row := stubRow{scanFn: func(dest ...interface{}) error {
		if len(dest) != len(employeeColumnNames) {
			return errors.New("unexpected dest length")
		}
		*(dest[0].(*string)) = "row-1"
		*(dest[1].(*string)) = "EMP001"
		*(dest[2].(*string)) = "Rina"
		dateDest := dest[9].(*sql.NullTime)
		dateDest.Time = joined
		dateDest.Valid = true
		*(dest[10].(*float64)) = 2.5
		perfDest := dest[12].(*sql.NullFloat64)
		perfDest.Float64 = 0
		perfDest.Valid = true
		*(dest[19].(*bool)) = true
		*(dest[20].(*int)) = 2
		*(dest[21].(*float64)) = 81.2
		*(dest[22].(*time.Time)) = now
		*(dest[23].(*time.Time)) = now
		return nil
	}}

	emp, err := scanEmployee(row)
	if err != nil {
		t.Fatalf("scanEmployee returned error: %v", err)
	}

	if emp.ID != "row-1" || emp.EmployeeID != "EMP001" || emp.FullName != "Rina" {
		t.Fatalf("unexpected identity: %+v", emp)
	}
	if emp.DateJoined == nil || emp.DateJoined.Format(employee.DateLayout) != "2019-04-01" || emp.DateJoined.Location() != time.UTC {
		t.Fatalf("expected UTC date, got %v", emp.DateJoined)
	}
	if emp.AvgPerformance3Yr == nil || *emp.AvgPerformance3Yr != 0 {
		t.Fatalf("zero performance must stay present, got %v", emp.AvgPerformance3Yr)
	}
	if !emp.IsPromotionCandidate || emp.CompetencyGapScore != 2 || emp.ReadinessIndex != 81.2 {
		t.Fatalf("unexpected derived fields: %+v", emp)
	}
}

func TestScanEmployee_NoRows(t *testing.T) {
	t.Parallel()

	row := stubRow{scanFn: func(dest ...interface{}) error {
		return pgx.ErrNoRows
	}}

	if _, err := scanEmployee(row); !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestTranslateEmployeePgError(t *testing.T) {
	t.Parallel()

	uniqueErr := &pgconn.PgError{Code: uniqueViolationCode}
	if !errors.Is(translateEmployeePgError(uniqueErr), employee.ErrEmployeeAlreadyExists) {
		t.Fatalf("expected unique violation to map to ErrEmployeeAlreadyExists")
	}

	checkErr := &pgconn.PgError{Code: checkViolationCode, ConstraintName: "employees_readiness_index_check"}
	translated := translateEmployeePgError(checkErr)
	if !errors.Is(translated, employee.ErrInvalidRecord) {
		t.Fatalf("expected check violation to map to ErrInvalidRecord")
	}
	var pgErr *pgconn.PgError
	if !errors.As(translated, &pgErr) || pgErr.ConstraintName != "employees_readiness_index_check" {
		t.Fatalf("expected original error to be kept")
	}

	if !errors.Is(translateEmployeePgError(pgx.ErrNoRows), employee.ErrEmployeeNotFound) {
		t.Fatalf("expected no rows to map to ErrEmployeeNotFound")
	}

	other := errors.New("other")
	if translateEmployeePgError(other) != other {
		t.Fatalf("unexpected translation for generic error")
	}
}

func TestEmployeeConditions(t *testing.T) {
	t.Parallel()

	where, args := employeeConditions(employee.Criteria{})
	if where != "" || len(args) != 0 {
		t.Fatalf("expected no conditions, got %q %v", where, args)
	}

	where, args = employeeConditions(employee.Criteria{Bureau: "HC Bureau", OnlyCandidates: true})
	if where != " WHERE bureau = $1 AND is_promotion_candidate" {
		t.Fatalf("unexpected where clause %q", where)
	}
	if len(args) != 1 || args[0] != "HC Bureau" {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestEmployeeRepository_List_WithFilters(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewEmployeeRepository(mock)

	now := time.Now().UTC()
	rows := pgxmock.NewRows(employeeColumnNames)
	rows = employeeRow(rows, "1", "EMP001", "Finance", true, now)
	rows = employeeRow(rows, "2", "EMP002", "Finance", true, now)
	rows = employeeRow(rows, "3", "EMP003", "Finance", true, now)

	mock.ExpectQuery(`FROM employees WHERE department = \$1 AND is_promotion_candidate\s+ORDER BY employee_id\s+LIMIT \$2 OFFSET \$3`).
		WithArgs("Finance", 3, 0).
		WillReturnRows(rows)

	employees, nextToken, err := repo.List(context.Background(), employee.ListEmployeesFilter{
		Criteria: employee.Criteria{Department: "Finance", OnlyCandidates: true},
		Limit:    2,
		Offset:   0,
	})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	if len(employees) != 2 {
		t.Fatalf("expected 2 employees, got %d", len(employees))
	}
	if nextToken != "2" {
		t.Fatalf("expected next token '2', got %s", nextToken)
	}
	if employees[0].EmployeeID != "EMP001" || employees[0].AvgPerformance3Yr != nil || employees[0].DateJoined != nil {
		t.Fatalf("unexpected first employee: %+v", employees[0])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_List_InvalidArguments(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewEmployeeRepository(mock)

	if _, _, err := repo.List(context.Background(), employee.ListEmployeesFilter{Limit: 0}); !errors.Is(err, employee.ErrInvalidPageSize) {
		t.Fatalf("expected ErrInvalidPageSize, got %v", err)
	}
	if _, _, err := repo.List(context.Background(), employee.ListEmployeesFilter{Limit: 1, Offset: -1}); !errors.Is(err, employee.ErrInvalidPageToken) {
		t.Fatalf("expected ErrInvalidPageToken, got %v", err)
	}
}

func TestEmployeeRepository_ListAll(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewEmployeeRepository(mock)
	now := time.Now().UTC()
	rows := pgxmock.NewRows(employeeColumnNames)
	rows = employeeRow(rows, "1", "EMP001", "Finance", false, now)
	rows = employeeRow(rows, "2", "EMP002", "Legal", true, now)

	mock.ExpectQuery(`FROM employees\s+ORDER BY employee_id$`).
		WillReturnRows(rows)

	employees, err := repo.ListAll(context.Background(), employee.Criteria{})
	if err != nil {
		t.Fatalf("ListAll returned error: %v", err)
	}
	if len(employees) != 2 || employees[1].Department != "Legal" {
		t.Fatalf("unexpected employees: %+v", employees)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_Create(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewEmployeeRepository(mock)
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	perf := 4.0

	emp := &employee.Employee{
		Record: talent.Record{
			EmployeeID:        "EMP001",
			FullName:          "Name EMP001",
			AvgPerformance3Yr: &perf,
		},
		DataQualityScore: 20,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	args := make([]interface{}, 0, 23)
	for _, a := range append(recordArgs(emp), now, now) {
		args = append(args, a)
	}

	rows := employeeRow(pgxmock.NewRows(employeeColumnNames), "1", "EMP001", "Finance", false, now)
	mock.ExpectQuery(`INSERT INTO employees`).
		WithArgs(args...).
		WillReturnRows(rows)

	created, err := repo.Create(context.Background(), emp)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID != "row-1" {
		t.Fatalf("expected generated row id, got %s", created.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_Create_Duplicate(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewEmployeeRepository(mock)
	mock.ExpectQuery(`INSERT INTO employees`).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

	_, err = repo.Create(context.Background(), &employee.Employee{Record: talent.Record{EmployeeID: "EMP001"}})
	if !errors.Is(err, employee.ErrEmployeeAlreadyExists) {
		t.Fatalf("expected ErrEmployeeAlreadyExists, got %v", err)
	}
}

func TestEmployeeRepository_Delete_NotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewEmployeeRepository(mock)
	mock.ExpectExec(`DELETE FROM employees WHERE employee_id = \$1`).
		WithArgs("EMP404").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.Delete(context.Background(), "EMP404"); !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
