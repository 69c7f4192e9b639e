package talent

import (
	"fmt"
	"regexp"
	"strconv"
)

// AnomalyCode は不自然なデータの種類を表します。
type AnomalyCode string

const (
	AnomalyUnitTenureExceedsDepartment AnomalyCode = "unit_tenure_exceeds_department"
	AnomalyRankInvalid                 AnomalyCode = "rank_invalid"
	AnomalyRankOutOfRange              AnomalyCode = "rank_out_of_range"
	AnomalyPerformanceOutOfRange       AnomalyCode = "performance_out_of_range"
	AnomalyNegativeTenure              AnomalyCode = "negative_tenure"
)

// Anomaly は人による確認が必要な警告です。書き込みは拒否しません。
type Anomaly struct {
	Code    AnomalyCode
	Message string
}

const (
	minNormalRank = 10
	maxNormalRank = 30
)

var rankPattern = regexp.MustCompile(`^M([0-9]+)$`)

// DetectAnomalies はレコード内の矛盾や範囲外の値を検出します。
func DetectAnomalies(r Record) []Anomaly {
	var found []Anomaly

	if r.TenureInUnit > r.TenureInDepartment {
		found = append(found, Anomaly{
			Code:    AnomalyUnitTenureExceedsDepartment,
			Message: fmt.Sprintf("tenure in unit (%g) exceeds tenure in department (%g)", r.TenureInUnit, r.TenureInDepartment),
		})
	}

	if r.TenureInUnit < 0 || r.TenureInDepartment < 0 {
		found = append(found, Anomaly{Code: AnomalyNegativeTenure, Message: "tenure must not be negative"})
	}

	if a, ok := rankAnomaly(r.RankLevel); ok {
		found = append(found, a)
	}

	if r.AvgPerformance3Yr != nil {
		if p := *r.AvgPerformance3Yr; p < 0 || p > maxPerformance {
			found = append(found, Anomaly{
				Code:    AnomalyPerformanceOutOfRange,
				Message: fmt.Sprintf("3-year performance %g is outside 0-5", p),
			})
		}
	}

	return found
}

// rankAnomaly は等級コードの形式と範囲を確認します。未入力は品質スコアで扱います。
func rankAnomaly(raw string) (Anomaly, bool) {
	rank := NormalizeRank(raw)
	if rank == "" {
		return Anomaly{}, false
	}

	m := rankPattern.FindStringSubmatch(rank)
	if m == nil {
		return Anomaly{Code: AnomalyRankInvalid, Message: fmt.Sprintf("rank level %q is not a grade code", raw)}, true
	}
	if n, err := strconv.Atoi(m[1]); err != nil || n < minNormalRank || n > maxNormalRank {
		return Anomaly{
			Code:    AnomalyRankOutOfRange,
			Message: fmt.Sprintf("rank level %s is outside M%d-M%d", rank, minNormalRank, maxNormalRank),
		}, true
	}
	return Anomaly{}, false
}
