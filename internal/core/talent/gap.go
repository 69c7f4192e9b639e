package talent

// Gap はコンピテンシーギャップ分析の結果です。
type Gap struct {
	TechMatches int
	SoftMatches int
	Score       int
}

// ComputeGap は申告スキルと必要スキルを完全一致 (大文字小文字無視) で照合します。
// Score は不足している必要スキルの数で、0 以上 req.Total() 以下です。
func ComputeGap(r Record, req Requirements) Gap {
	tech := req.Technical.CountIn(ParseSkills(r.TechnicalSkills))
	soft := req.Soft.CountIn(ParseSkills(r.SoftSkills))

	return Gap{
		TechMatches: tech,
		SoftMatches: soft,
		Score:       (req.Technical.Len() - tech) + (req.Soft.Len() - soft),
	}
}
