package talent

// Assessment はレコード 1 件に対する派生値の一式です。
type Assessment struct {
	Quality   int
	Eligible  bool
	Gap       Gap
	Readiness float64
	Anomalies []Anomaly
}

// Assess は品質スコア、昇進適格性、ギャップ、準備度、異常検知をまとめて計算します。
func Assess(r Record, req Requirements) Assessment {
	gap := ComputeGap(r, req)
	return Assessment{
		Quality:   ScoreQuality(r),
		Eligible:  IsPromotionEligible(r),
		Gap:       gap,
		Readiness: ComputeReadiness(r, gap.Score),
		Anomalies: DetectAnomalies(r),
	}
}
