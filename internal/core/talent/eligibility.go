package talent

import "strings"

const (
	minEligiblePerformance   = 3.5
	minUnitTenureYears       = 1.0
	minDepartmentTenureYears = 4.0
)

var eligibleRankPrefixes = []string{"M2", "M1"}

// IsPromotionEligible は昇進候補プールへの登録条件を判定します。
// 等級・評価・懲戒・在籍年数の 4 条件すべてを満たす必要があります。
func IsPromotionEligible(r Record) bool {
	return rankEligible(r.RankLevel) &&
		r.Performance() >= minEligiblePerformance &&
		!r.HasDisciplineIssue &&
		tenureEligible(r)
}

func rankEligible(raw string) bool {
	rank := NormalizeRank(raw)
	for _, prefix := range eligibleRankPrefixes {
		if strings.HasPrefix(rank, prefix) {
			return true
		}
	}
	return false
}

// 部署在籍が長ければ所属ユニットの在籍が短くても条件を満たす。
func tenureEligible(r Record) bool {
	return r.TenureInUnit >= minUnitTenureYears || r.TenureInDepartment >= minDepartmentTenureYears
}
