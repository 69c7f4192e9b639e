package handler

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	talentv1 "github.com/ogurasousui/hc-talent-grpc/internal/adapters/grpc/talentv1"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/dashboard"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/talent"
)

type stubDashboardUseCase struct {
	input dashboard.SummaryInput
	out   *dashboard.Summary
	err   error
}

func (s *stubDashboardUseCase) Summarize(ctx context.Context, in dashboard.SummaryInput) (*dashboard.Summary, error) {
	s.input = in
	return s.out, s.err
}

func TestDashboardGrpcHandler_GetSummary(t *testing.T) {
	t.Parallel()

	stub := &stubDashboardUseCase{out: &dashboard.Summary{
		Total:         2,
		MeanQuality:   75.5,
		GoodQuality:   1,
		NeedsFix:      0,
		MeanReadiness: 61.2,
		Candidates:    1,
		QualityBars:   []dashboard.Bar{{EmployeeID: "EMP001", Value: 80}, {EmployeeID: "EMP002", Value: 71}},
		TopCandidates: []dashboard.Candidate{{EmployeeID: "EMP001", FullName: "Rina", Readiness: 70.1, Eligible: true}},
		Anomalies: []dashboard.EmployeeAnomaly{{
			EmployeeID: "EMP002",
			Anomaly:    talent.Anomaly{Code: talent.AnomalyRankOutOfRange, Message: "rank"},
		}},
		Insights: []string{"insight"},
	}}
	h := NewDashboardGrpcHandler(stub)

	resp, err := h.GetSummary(context.Background(), &talentv1.GetSummaryRequest{Department: "HC"})
	if err != nil {
		t.Fatalf("GetSummary returned error: %v", err)
	}

	if stub.input.Department != "HC" {
		t.Errorf("expected department passed through, got %s", stub.input.Department)
	}
	if resp.Total != 2 || resp.GoodQuality != 1 || resp.Candidates != 1 {
		t.Errorf("unexpected counts %+v", resp)
	}
	if len(resp.QualityBars) != 2 || resp.QualityBars[1].Value != 71 {
		t.Errorf("unexpected bars %+v", resp.QualityBars)
	}
	if len(resp.TopCandidates) != 1 || !resp.TopCandidates[0].Eligible {
		t.Errorf("unexpected candidates %+v", resp.TopCandidates)
	}
	if len(resp.Anomalies) != 1 || resp.Anomalies[0].Anomaly.Code != "rank_out_of_range" {
		t.Errorf("unexpected anomalies %+v", resp.Anomalies)
	}
	if len(resp.Insights) != 1 {
		t.Errorf("unexpected insights %+v", resp.Insights)
	}
}

func TestDashboardGrpcHandler_GetSummary_Error(t *testing.T) {
	t.Parallel()

	h := NewDashboardGrpcHandler(&stubDashboardUseCase{err: errors.New("db down")})
	if _, err := h.GetSummary(context.Background(), &talentv1.GetSummaryRequest{}); status.Code(err) != codes.Internal {
		t.Fatalf("expected Internal, got %v", err)
	}
}
