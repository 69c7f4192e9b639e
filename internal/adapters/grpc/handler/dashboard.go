package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	talentv1 "github.com/ogurasousui/hc-talent-grpc/internal/adapters/grpc/talentv1"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/dashboard"
)

// DashboardGrpcHandler は DashboardService の gRPC 実装です。
type DashboardGrpcHandler struct {
	svc dashboard.UseCase
	talentv1.UnimplementedDashboardServiceServer
}

// NewDashboardGrpcHandler は DashboardGrpcHandler を生成します。
func NewDashboardGrpcHandler(svc dashboard.UseCase) *DashboardGrpcHandler {
	return &DashboardGrpcHandler{svc: svc}
}

// GetSummary はデータ品質と準備度の集計を返します。
func (h *DashboardGrpcHandler) GetSummary(ctx context.Context, req *talentv1.GetSummaryRequest) (*talentv1.GetSummaryResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	summary, err := h.svc.Summarize(ctx, dashboard.SummaryInput{Department: req.Department, Bureau: req.Bureau})
	if err != nil {
		return nil, toStatusError(err)
	}

	resp := &talentv1.GetSummaryResponse{
		Total:         int32(summary.Total),
		MeanQuality:   summary.MeanQuality,
		GoodQuality:   int32(summary.GoodQuality),
		NeedsFix:      int32(summary.NeedsFix),
		MeanReadiness: summary.MeanReadiness,
		Candidates:    int32(summary.Candidates),
		QualityBars:   make([]talentv1.Bar, 0, len(summary.QualityBars)),
		TopCandidates: make([]talentv1.Candidate, 0, len(summary.TopCandidates)),
		Anomalies:     make([]talentv1.EmployeeAnomaly, 0, len(summary.Anomalies)),
		Insights:      append([]string{}, summary.Insights...),
	}
	for _, bar := range summary.QualityBars {
		resp.QualityBars = append(resp.QualityBars, talentv1.Bar{EmployeeID: bar.EmployeeID, Value: bar.Value})
	}
	for _, c := range summary.TopCandidates {
		resp.TopCandidates = append(resp.TopCandidates, talentv1.Candidate{
			EmployeeID: c.EmployeeID,
			FullName:   c.FullName,
			Readiness:  c.Readiness,
			Eligible:   c.Eligible,
		})
	}
	for _, a := range summary.Anomalies {
		resp.Anomalies = append(resp.Anomalies, talentv1.EmployeeAnomaly{
			EmployeeID: a.EmployeeID,
			Anomaly:    talentv1.Anomaly{Code: string(a.Anomaly.Code), Message: a.Anomaly.Message},
		})
	}
	return resp, nil
}
