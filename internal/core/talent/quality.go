package talent

const qualityGroupPoints = 20

// ScoreQuality はレコードの充足度を 0〜100 の 20 点刻みで返します。
// 各グループは全項目が揃った場合のみ加点されます。
func ScoreQuality(r Record) int {
	score := 0

	if present(r.EmployeeID, r.FullName) {
		score += qualityGroupPoints
	}
	if present(r.JobTitle, r.Department, r.Bureau) {
		score += qualityGroupPoints
	}
	if present(r.RankLevel, r.WorkLocation) {
		score += qualityGroupPoints
	}
	// 評価 0 は「入力済み」とみなす。
	if r.DateJoined != nil && r.AvgPerformance3Yr != nil {
		score += qualityGroupPoints
	}
	if present(r.TechnicalSkills) || present(r.SoftSkills) || present(r.Certifications) {
		score += qualityGroupPoints
	}

	return score
}
