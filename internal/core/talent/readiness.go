package talent

import (
	"cmp"
	"math"
	"slices"

	"github.com/shopspring/decimal"
)

// Talent Readiness Index の配点。
const (
	performanceWeight = 40.0
	tenureWeight      = 20.0
	gapWeight         = 20.0
	disciplineWeight  = 20.0

	maxPerformance  = 5.0
	tenureCapYears  = 5.0
	gapNormalizeMax = 6.0 // 必要スキル数とは無関係の固定値
)

// ComputeReadiness は 0〜100 の準備度指数を小数第 1 位で返します。
func ComputeReadiness(r Record, gapScore int) float64 {
	perf := clamp(r.Performance(), 0, maxPerformance) / maxPerformance * performanceWeight
	tenure := math.Min(clamp(r.TenureInUnit, 0, math.MaxFloat64)/tenureCapYears, 1) * tenureWeight
	gap := (1 - math.Min(math.Max(float64(gapScore), 0)/gapNormalizeMax, 1)) * gapWeight

	discipline := 0.0
	if !r.HasDisciplineIssue {
		discipline = disciplineWeight
	}

	return roundOne(perf + tenure + gap + discipline)
}

// RankBy は準備度の降順で安定ソートした新しいスライスを返します。
// 同点の要素は入力順を保ちます。
func RankBy[T any](items []T, readiness func(T) float64) []T {
	ranked := slices.Clone(items)
	slices.SortStableFunc(ranked, func(a, b T) int {
		return cmp.Compare(readiness(b), readiness(a))
	})
	return ranked
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(v, hi))
}

func roundOne(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}
