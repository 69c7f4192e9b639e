// Package dashboard はデータ品質と昇格準備度の集計を提供します。
package dashboard

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ogurasousui/hc-talent-grpc/internal/core/employee"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/talent"
)

const (
	goodQualityThreshold = 80.0
	needsFixThreshold    = 60.0
	topCandidateCount    = 5
)

// Lister は集計対象の社員を取得します。
type Lister interface {
	ListAll(ctx context.Context, criteria employee.Criteria) ([]*employee.Employee, error)
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// UseCase はダッシュボードの公開インターフェースです。
type UseCase interface {
	Summarize(ctx context.Context, in SummaryInput) (*Summary, error)
}

// Service は保存済みレコードから毎回集計をやり直します。
type Service struct {
	lister       Lister
	requirements talent.Requirements
	tx           TransactionManager
}

// NewService は Service を生成します。
func NewService(lister Lister, requirements talent.Requirements, tx TransactionManager) *Service {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{lister: lister, requirements: requirements, tx: tx}
}

// SummaryInput は集計対象の絞り込み条件です。
type SummaryInput struct {
	Department string
	Bureau     string
}

// Bar は社員ごとのグラフ値です。
type Bar struct {
	EmployeeID string
	Value      float64
}

// EmployeeAnomaly は社員単位の異常値警告です。
type EmployeeAnomaly struct {
	EmployeeID string
	Anomaly    talent.Anomaly
}

// Candidate は準備度上位の社員です。
type Candidate struct {
	EmployeeID string
	FullName   string
	Readiness  float64
	Eligible   bool
}

// Summary はダッシュボードの集計結果です。平均値は小数第 1 位に丸めます。
type Summary struct {
	Total         int
	MeanQuality   float64
	GoodQuality   int
	NeedsFix      int
	MeanReadiness float64
	Candidates    int
	QualityBars   []Bar
	TopCandidates []Candidate
	Anomalies     []EmployeeAnomaly
	Insights      []string
}

// Summarize は条件に合う社員を現在の要件で再評価して集計します。
func (s *Service) Summarize(ctx context.Context, in SummaryInput) (*Summary, error) {
	var employees []*employee.Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.lister.ListAll(txCtx, employee.Criteria{
			Department: strings.TrimSpace(in.Department),
			Bureau:     strings.TrimSpace(in.Bureau),
		})
		if err != nil {
			return err
		}
		employees = found
		return nil
	}); err != nil {
		return nil, err
	}

	return Build(employees, s.requirements), nil
}

// Build は employees の並び順を保ったまま集計します。
func Build(employees []*employee.Employee, req talent.Requirements) *Summary {
	summary := &Summary{
		Total:         len(employees),
		QualityBars:   make([]Bar, 0, len(employees)),
		TopCandidates: []Candidate{},
		Anomalies:     []EmployeeAnomaly{},
	}

	var (
		qualitySum   float64
		readinessSum float64
		scored       = make([]talent.Scored, 0, len(employees))
		candidates   = make([]Candidate, 0, len(employees))
	)
	for _, e := range employees {
		a := talent.Assess(e.Record, req)
		quality := float64(a.Quality)

		qualitySum += quality
		readinessSum += a.Readiness
		if quality >= goodQualityThreshold {
			summary.GoodQuality++
		}
		if quality < needsFixThreshold {
			summary.NeedsFix++
		}
		if a.Eligible {
			summary.Candidates++
		}

		summary.QualityBars = append(summary.QualityBars, Bar{EmployeeID: e.EmployeeID, Value: quality})
		for _, anomaly := range a.Anomalies {
			summary.Anomalies = append(summary.Anomalies, EmployeeAnomaly{EmployeeID: e.EmployeeID, Anomaly: anomaly})
		}
		scored = append(scored, talent.Scored{
			EmployeeID: e.EmployeeID,
			FullName:   e.FullName,
			Readiness:  a.Readiness,
			GapScore:   a.Gap.Score,
		})
		candidates = append(candidates, Candidate{
			EmployeeID: e.EmployeeID,
			FullName:   e.FullName,
			Readiness:  a.Readiness,
			Eligible:   a.Eligible,
		})
	}

	if n := len(employees); n > 0 {
		summary.MeanQuality = roundOne(qualitySum / float64(n))
		summary.MeanReadiness = roundOne(readinessSum / float64(n))
	}

	ranked := talent.RankBy(candidates, func(c Candidate) float64 { return c.Readiness })
	if len(ranked) > topCandidateCount {
		ranked = ranked[:topCandidateCount]
	}
	summary.TopCandidates = append(summary.TopCandidates, ranked...)
	summary.Insights = talent.GenerateInsights(scored)

	return summary
}

func roundOne(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}
