package talent

import (
	"strings"
	"time"
)

// Record は社員レコードのうち、利用者が入力できる正規のフィールドです。
// 派生スコアは含みません。
type Record struct {
	EmployeeID         string
	FullName           string
	Email              string
	Department         string
	Bureau             string
	JobTitle           string
	WorkLocation       string
	RankLevel          string
	DateJoined         *time.Time
	TenureInUnit       float64
	TenureInDepartment float64
	AvgPerformance3Yr  *float64
	HasDisciplineIssue bool
	TechnicalSkills    string
	SoftSkills         string
	Certifications     string
	Notes              string
}

// Performance は 3 年平均評価を返します。未設定は 0 として扱います。
func (r Record) Performance() float64 {
	if r.AvgPerformance3Yr == nil {
		return 0
	}
	return *r.AvgPerformance3Yr
}

// NormalizedRank は空白を除去し大文字化した等級コードを返します。
func (r Record) NormalizedRank() string {
	return NormalizeRank(r.RankLevel)
}

// NormalizeRank は等級コードから全ての空白を取り除き大文字化します。
func NormalizeRank(raw string) string {
	return strings.ToUpper(strings.Join(strings.Fields(raw), ""))
}

func present(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}
