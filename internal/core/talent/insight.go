package talent

import "fmt"

const (
	highReadinessThreshold     = 75.0
	moderateReadinessThreshold = 60.0
	highGapThreshold           = 4
)

// NoDataInsight は空の集合に対して返される唯一のインサイトです。
const NoDataInsight = "No employee data available."

// Scored はインサイト生成に必要な採点済みレコードの要約です。
type Scored struct {
	EmployeeID string
	FullName   string
	Readiness  float64
	GapScore   int
}

// Label は表示名を返します。氏名が無ければ社員 ID を使います。
func (s Scored) Label() string {
	if present(s.FullName) {
		return fmt.Sprintf("%s (%s)", s.FullName, s.EmployeeID)
	}
	return s.EmployeeID
}

// GenerateInsights は集計値から表示用の文章を固定順で生成します。
func GenerateInsights(records []Scored) []string {
	if len(records) == 0 {
		return []string{NoDataInsight}
	}

	var (
		sum      float64
		ready    int
		highGap  int
		topIndex int
	)
	for i, rec := range records {
		sum += rec.Readiness
		if rec.Readiness >= highReadinessThreshold {
			ready++
		}
		if rec.GapScore >= highGapThreshold {
			highGap++
		}
		// 同点は先に現れたものを優先する。
		if rec.Readiness > records[topIndex].Readiness {
			topIndex = i
		}
	}
	mean := sum / float64(len(records))

	insights := make([]string, 0, 4)
	switch {
	case mean >= highReadinessThreshold:
		insights = append(insights, fmt.Sprintf("High average readiness (%.1f): the leadership pipeline is in good shape.", mean))
	case mean >= moderateReadinessThreshold:
		insights = append(insights, fmt.Sprintf("Moderate average readiness (%.1f): candidates still need development.", mean))
	default:
		insights = append(insights, fmt.Sprintf("Low average readiness (%.1f): an intensive development program is needed.", mean))
	}

	insights = append(insights, fmt.Sprintf("%d candidate(s) have a readiness index of %.0f or more.", ready, highReadinessThreshold))

	if highGap > 0 {
		insights = append(insights, fmt.Sprintf("Warning: %d employee(s) have a high competency gap (%d or more missing skills).", highGap, highGapThreshold))
	}

	top := records[topIndex]
	insights = append(insights, fmt.Sprintf("Top candidate: %s with a readiness index of %.1f.", top.Label(), top.Readiness))

	return insights
}
