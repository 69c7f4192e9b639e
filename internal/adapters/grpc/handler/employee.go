package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	talentv1 "github.com/ogurasousui/hc-talent-grpc/internal/adapters/grpc/talentv1"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/employee"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/talent"
)

// EmployeeGrpcHandler は EmployeeService の gRPC 実装です。
type EmployeeGrpcHandler struct {
	svc employee.UseCase
	talentv1.UnimplementedEmployeeServiceServer
}

// NewEmployeeGrpcHandler は EmployeeGrpcHandler を生成します。
func NewEmployeeGrpcHandler(svc employee.UseCase) *EmployeeGrpcHandler {
	return &EmployeeGrpcHandler{svc: svc}
}

// CreateEmployee は社員レコードを作成します。
func (h *EmployeeGrpcHandler) CreateEmployee(ctx context.Context, req *talentv1.CreateEmployeeRequest) (*talentv1.CreateEmployeeResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	rec, err := toRecord(req.Record)
	if err != nil {
		return nil, err
	}

	created, err := h.svc.CreateEmployee(ctx, employee.CreateEmployeeInput{Record: rec})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &talentv1.CreateEmployeeResponse{Employee: toWireEmployee(created)}, nil
}

// UpdateEmployee は社員レコードを部分更新します。
func (h *EmployeeGrpcHandler) UpdateEmployee(ctx context.Context, req *talentv1.UpdateEmployeeRequest) (*talentv1.UpdateEmployeeResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	dateJoined, dateSet, err := parseDateUpdateValue(req.DateJoined)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("date_joined: %v", err))
	}

	in := employee.UpdateEmployeeInput{
		EmployeeID:         req.EmployeeID,
		FullName:           req.FullName,
		Email:              req.Email,
		Department:         req.Department,
		Bureau:             req.Bureau,
		JobTitle:           req.JobTitle,
		RankLevel:          req.RankLevel,
		WorkLocation:       req.WorkLocation,
		DateJoined:         dateJoined,
		DateJoinedSet:      dateSet,
		TenureInUnit:       req.TenureInUnit,
		TenureInDepartment: req.TenureInDepartment,
		HasDisciplineIssue: req.HasDisciplineIssue,
		TechnicalSkills:    req.TechnicalSkills,
		SoftSkills:         req.SoftSkills,
		Certifications:     req.Certifications,
		Notes:              req.Notes,
	}
	switch {
	case req.ClearAvgPerformance3Yr:
		in.AvgPerformance3YrSet = true
	case req.AvgPerformance3Yr != nil:
		in.AvgPerformance3Yr = req.AvgPerformance3Yr
		in.AvgPerformance3YrSet = true
	}

	updated, err := h.svc.UpdateEmployee(ctx, in)
	if err != nil {
		return nil, toStatusError(err)
	}

	return &talentv1.UpdateEmployeeResponse{Employee: toWireEmployee(updated)}, nil
}

// DeleteEmployee は社員レコードを削除します。
func (h *EmployeeGrpcHandler) DeleteEmployee(ctx context.Context, req *talentv1.DeleteEmployeeRequest) (*talentv1.DeleteEmployeeResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	if err := h.svc.DeleteEmployee(ctx, employee.DeleteEmployeeInput{EmployeeID: req.EmployeeID}); err != nil {
		return nil, toStatusError(err)
	}

	return &talentv1.DeleteEmployeeResponse{}, nil
}

// GetEmployee は社員レコードを取得します。
func (h *EmployeeGrpcHandler) GetEmployee(ctx context.Context, req *talentv1.GetEmployeeRequest) (*talentv1.GetEmployeeResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	found, err := h.svc.GetEmployee(ctx, employee.GetEmployeeInput{EmployeeID: req.EmployeeID})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &talentv1.GetEmployeeResponse{Employee: toWireEmployee(found)}, nil
}

// ListEmployees は社員レコードの一覧を取得します。
func (h *EmployeeGrpcHandler) ListEmployees(ctx context.Context, req *talentv1.ListEmployeesRequest) (*talentv1.ListEmployeesResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	result, err := h.svc.ListEmployees(ctx, employee.ListEmployeesInput{
		Department:     req.Department,
		Bureau:         req.Bureau,
		OnlyCandidates: req.OnlyCandidates,
		PageSize:       int(req.PageSize),
		PageToken:      req.PageToken,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &talentv1.ListEmployeesResponse{
		Employees:     toWireEmployees(result.Employees),
		NextPageToken: result.NextPageToken,
	}, nil
}

// UpsertEmployee は employee_id が存在すれば更新し、無ければ作成します。
func (h *EmployeeGrpcHandler) UpsertEmployee(ctx context.Context, req *talentv1.UpsertEmployeeRequest) (*talentv1.UpsertEmployeeResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	rec, err := toRecord(req.Record)
	if err != nil {
		return nil, err
	}

	result, err := h.svc.UpsertEmployee(ctx, employee.UpsertEmployeeInput{Record: rec})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &talentv1.UpsertEmployeeResponse{Employee: toWireEmployee(result.Employee), Created: result.Created}, nil
}

// ImportEmployees は複数行をまとめて取り込みます。日付が不正な行は失敗行として返します。
func (h *EmployeeGrpcHandler) ImportEmployees(ctx context.Context, req *talentv1.ImportEmployeesRequest) (*talentv1.ImportEmployeesResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	resp := &talentv1.ImportEmployeesResponse{}
	rows := make([]employee.ImportRow, 0, len(req.Rows))
	for _, row := range req.Rows {
		rec, err := toRecord(row.Record)
		if err != nil {
			resp.Failures = append(resp.Failures, talentv1.RowFailure{
				Row:        row.Row,
				EmployeeID: row.Record.EmployeeID,
				Message:    status.Convert(err).Message(),
			})
			continue
		}
		rows = append(rows, employee.ImportRow{Row: int(row.Row), Record: rec})
	}

	result, err := h.svc.ImportEmployees(ctx, employee.ImportEmployeesInput{Rows: rows})
	if err != nil {
		return nil, toStatusError(err)
	}

	resp.Created = int32(result.Created)
	resp.Updated = int32(result.Updated)
	for _, failure := range result.Failures {
		resp.Failures = append(resp.Failures, talentv1.RowFailure{
			Row:        int32(failure.Row),
			EmployeeID: failure.EmployeeID,
			Message:    failure.Err.Error(),
		})
	}
	return resp, nil
}

// ScreenCandidates は準備度の高い順に社員を返します。
func (h *EmployeeGrpcHandler) ScreenCandidates(ctx context.Context, req *talentv1.ScreenCandidatesRequest) (*talentv1.ScreenCandidatesResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	result, err := h.svc.ScreenCandidates(ctx, employee.ScreenCandidatesInput{
		Department:   req.Department,
		Bureau:       req.Bureau,
		OnlyEligible: req.OnlyEligible,
		Limit:        int(req.Limit),
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &talentv1.ScreenCandidatesResponse{Candidates: toWireEmployees(result.Candidates)}, nil
}

// RecalculateEmployees は全レコードの派生フィールドを再計算します。
func (h *EmployeeGrpcHandler) RecalculateEmployees(ctx context.Context, req *talentv1.RecalculateEmployeesRequest) (*talentv1.RecalculateEmployeesResponse, error) {
	result, err := h.svc.Recalculate(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	return &talentv1.RecalculateEmployeesResponse{
		Scanned: int32(result.Scanned),
		Updated: int32(result.Updated),
	}, nil
}

func toRecord(in talentv1.EmployeeRecord) (talent.Record, error) {
	dateJoined, err := parseDateValue(in.DateJoined)
	if err != nil {
		return talent.Record{}, status.Error(codes.InvalidArgument, fmt.Sprintf("date_joined: %v", err))
	}

	return talent.Record{
		EmployeeID:         in.EmployeeID,
		FullName:           in.FullName,
		Email:              in.Email,
		Department:         in.Department,
		Bureau:             in.Bureau,
		JobTitle:           in.JobTitle,
		RankLevel:          in.RankLevel,
		WorkLocation:       in.WorkLocation,
		DateJoined:         dateJoined,
		TenureInUnit:       in.TenureInUnit,
		TenureInDepartment: in.TenureInDepartment,
		AvgPerformance3Yr:  in.AvgPerformance3Yr,
		HasDisciplineIssue: in.HasDisciplineIssue,
		TechnicalSkills:    in.TechnicalSkills,
		SoftSkills:         in.SoftSkills,
		Certifications:     in.Certifications,
		Notes:              in.Notes,
	}, nil
}

func toWireRecord(rec talent.Record) talentv1.EmployeeRecord {
	out := talentv1.EmployeeRecord{
		EmployeeID:         rec.EmployeeID,
		FullName:           rec.FullName,
		Email:              rec.Email,
		Department:         rec.Department,
		Bureau:             rec.Bureau,
		JobTitle:           rec.JobTitle,
		RankLevel:          rec.RankLevel,
		WorkLocation:       rec.WorkLocation,
		TenureInUnit:       rec.TenureInUnit,
		TenureInDepartment: rec.TenureInDepartment,
		AvgPerformance3Yr:  rec.AvgPerformance3Yr,
		HasDisciplineIssue: rec.HasDisciplineIssue,
		TechnicalSkills:    rec.TechnicalSkills,
		SoftSkills:         rec.SoftSkills,
		Certifications:     rec.Certifications,
		Notes:              rec.Notes,
	}
	if rec.DateJoined != nil {
		out.DateJoined = rec.DateJoined.Format(employee.DateLayout)
	}
	return out
}

func toWireEmployee(emp *employee.Employee) *talentv1.Employee {
	if emp == nil {
		return nil
	}

	return &talentv1.Employee{
		ID:                   emp.ID,
		EmployeeRecord:       toWireRecord(emp.Record),
		DataQualityScore:     emp.DataQualityScore,
		IsPromotionCandidate: emp.IsPromotionCandidate,
		CompetencyGapScore:   int32(emp.CompetencyGapScore),
		ReadinessIndex:       emp.ReadinessIndex,
		Anomalies:            toWireAnomalies(talent.DetectAnomalies(emp.Record)),
		CreatedAt:            formatTimestamp(emp.CreatedAt),
		LastUpdated:          formatTimestamp(emp.UpdatedAt),
	}
}

func toWireEmployees(emps []*employee.Employee) []*talentv1.Employee {
	out := make([]*talentv1.Employee, 0, len(emps))
	for _, emp := range emps {
		out = append(out, toWireEmployee(emp))
	}
	return out
}

func toWireAnomalies(anomalies []talent.Anomaly) []talentv1.Anomaly {
	if len(anomalies) == 0 {
		return nil
	}
	out := make([]talentv1.Anomaly, 0, len(anomalies))
	for _, a := range anomalies {
		out = append(out, talentv1.Anomaly{Code: string(a.Code), Message: a.Message})
	}
	return out
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseDateValue(value string) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(employee.DateLayout, trimmed, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid format, expected YYYY-MM-DD")
	}
	return &t, nil
}

func parseDateUpdateValue(value *string) (*time.Time, bool, error) {
	if value == nil {
		return nil, false, nil
	}
	t, err := parseDateValue(*value)
	if err != nil {
		return nil, false, err
	}
	return t, true, nil
}
