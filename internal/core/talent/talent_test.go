package talent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 {
	return &v
}

func completeRecord() Record {
	joined := time.Date(2015, 4, 1, 0, 0, 0, 0, time.UTC)
	return Record{
		EmployeeID:         "EMP001",
		FullName:           "Andi Pratama",
		Department:         "Finance",
		Bureau:             "Payroll",
		JobTitle:           "Analyst",
		WorkLocation:       "Jakarta",
		RankLevel:          "M22",
		DateJoined:         &joined,
		TenureInUnit:       3,
		TenureInDepartment: 6,
		AvgPerformance3Yr:  floatPtr(4.2),
		TechnicalSkills:    "SQL, SAP",
		SoftSkills:         "Leadership",
	}
}

func TestScoreQuality_Complete(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 100, ScoreQuality(completeRecord()))
	assert.Equal(t, 0, ScoreQuality(Record{}))
}

func TestScoreQuality_NoPartialCredit(t *testing.T) {
	t.Parallel()

	r := completeRecord()
	r.Bureau = "   "
	assert.Equal(t, 80, ScoreQuality(r), "missing bureau drops the whole organisation group")

	r = completeRecord()
	r.AvgPerformance3Yr = floatPtr(0)
	assert.Equal(t, 100, ScoreQuality(r), "zero performance counts as present")

	r.AvgPerformance3Yr = nil
	assert.Equal(t, 80, ScoreQuality(r))

	r = completeRecord()
	r.TechnicalSkills, r.SoftSkills = "", ""
	r.Certifications = "HC Cert"
	assert.Equal(t, 100, ScoreQuality(r), "any one competency field is enough")
}

func TestScoreQuality_GranularAndMonotonic(t *testing.T) {
	t.Parallel()

	joined := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	steps := []func(*Record){
		func(r *Record) { r.EmployeeID = "EMP009" },
		func(r *Record) { r.FullName = "Rina Sari" },
		func(r *Record) { r.JobTitle = "Officer" },
		func(r *Record) { r.Department = "HR" },
		func(r *Record) { r.Bureau = "HC System" },
		func(r *Record) { r.RankLevel = "M15" },
		func(r *Record) { r.WorkLocation = "Bogor" },
		func(r *Record) { r.DateJoined = &joined },
		func(r *Record) { r.AvgPerformance3Yr = floatPtr(3) },
		func(r *Record) { r.SoftSkills = "teamwork" },
	}

	var r Record
	prev := ScoreQuality(r)
	for i, step := range steps {
		step(&r)
		got := ScoreQuality(r)
		require.GreaterOrEqual(t, got, prev, "step %d decreased the score", i)
		require.Zero(t, got%20, "score %d is not a multiple of 20", got)
		require.LessOrEqual(t, got, 100)
		prev = got
	}
	assert.Equal(t, 100, prev)
}

func TestIsPromotionEligible(t *testing.T) {
	t.Parallel()

	base := Record{
		RankLevel:          "M22",
		AvgPerformance3Yr:  floatPtr(4.0),
		TenureInUnit:       0.5,
		TenureInDepartment: 5,
	}

	tests := []struct {
		name   string
		mutate func(*Record)
		want   bool
	}{
		{name: "department tenure branch", mutate: func(*Record) {}, want: true},
		{name: "performance floor", mutate: func(r *Record) { r.AvgPerformance3Yr = floatPtr(3.0) }, want: false},
		{name: "performance exactly 3.5", mutate: func(r *Record) { r.AvgPerformance3Yr = floatPtr(3.5) }, want: true},
		{name: "missing performance is zero", mutate: func(r *Record) { r.AvgPerformance3Yr = nil }, want: false},
		{name: "discipline veto", mutate: func(r *Record) { r.HasDisciplineIssue = true }, want: false},
		{name: "lower case rank with spaces", mutate: func(r *Record) { r.RankLevel = " m 1 9 " }, want: true},
		{name: "rank M3 not eligible", mutate: func(r *Record) { r.RankLevel = "M31" }, want: false},
		{name: "empty rank", mutate: func(r *Record) { r.RankLevel = "" }, want: false},
		{name: "no tenure", mutate: func(r *Record) { r.TenureInDepartment = 3.9 }, want: false},
		{name: "unit tenure branch", mutate: func(r *Record) { r.TenureInUnit, r.TenureInDepartment = 1, 0 }, want: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := base
			tt.mutate(&r)
			assert.Equal(t, tt.want, IsPromotionEligible(r))
		})
	}
}

func TestIsPromotionEligible_DisciplineIsAbsoluteVeto(t *testing.T) {
	t.Parallel()

	r := completeRecord()
	r.AvgPerformance3Yr = floatPtr(5)
	r.TenureInUnit, r.TenureInDepartment = 20, 20
	r.HasDisciplineIssue = true

	assert.False(t, IsPromotionEligible(r))
}

func TestParseSkills(t *testing.T) {
	t.Parallel()

	set := ParseSkills(" SQL, Excel ,,sql,  ")
	assert.Equal(t, []string{"excel", "sql"}, set.Sorted())
	assert.True(t, set.Contains("EXCEL"))
	assert.Zero(t, ParseSkills("").Len())
	assert.Equal(t, "excel, sql", set.String())
}

func TestNewRequirements_Invalid(t *testing.T) {
	t.Parallel()

	_, err := NewRequirements([]string{"sql", " "}, nil)
	require.ErrorIs(t, err, ErrInvalidRequirements)

	_, err = NewRequirements([]string{"sql"}, []string{"leadership", "Leadership"})
	require.ErrorIs(t, err, ErrInvalidRequirements)

	_, err = NewRequirements([]string{"sql,sap"}, nil)
	require.ErrorIs(t, err, ErrInvalidRequirements)

	req, err := NewRequirements(nil, nil)
	require.NoError(t, err)
	assert.Zero(t, req.Total())
}

func TestComputeGap(t *testing.T) {
	t.Parallel()

	req := MustRequirements([]string{"sql", "sap"}, []string{"leadership"})
	r := Record{TechnicalSkills: "SQL, Excel", SoftSkills: ""}

	gap := ComputeGap(r, req)
	assert.Equal(t, Gap{TechMatches: 1, SoftMatches: 0, Score: 2}, gap)

	r.TechnicalSkills = "sap,SQL"
	r.SoftSkills = "LEADERSHIP"
	assert.Equal(t, Gap{TechMatches: 2, SoftMatches: 1, Score: 0}, ComputeGap(r, req))

	r.TechnicalSkills = "sq l, sapient"
	assert.Equal(t, Gap{TechMatches: 0, SoftMatches: 1, Score: 2}, ComputeGap(r, req), "no fuzzy matching")
}

func TestComputeReadiness(t *testing.T) {
	t.Parallel()

	r := Record{AvgPerformance3Yr: floatPtr(4.0), TenureInUnit: 0.5}
	assert.Equal(t, 67.3, ComputeReadiness(r, 2))

	r.HasDisciplineIssue = true
	assert.Equal(t, 47.3, ComputeReadiness(r, 2))

	best := Record{AvgPerformance3Yr: floatPtr(5), TenureInUnit: 9}
	assert.Equal(t, 100.0, ComputeReadiness(best, 0))

	outOfRange := Record{AvgPerformance3Yr: floatPtr(7), TenureInUnit: -3}
	assert.Equal(t, 80.0, ComputeReadiness(outOfRange, 0), "performance clamps at 5, negative tenure at 0")

	assert.Equal(t, 20.0, ComputeReadiness(Record{}, 6))
	assert.Equal(t, 20.0, ComputeReadiness(Record{}, 12), "gap of six or more gives no credit")
}

func TestComputeReadiness_Monotonic(t *testing.T) {
	t.Parallel()

	prev := -1.0
	for perf := -1.0; perf <= 6.0; perf += 0.25 {
		got := ComputeReadiness(Record{AvgPerformance3Yr: floatPtr(perf), TenureInUnit: 2}, 3)
		require.GreaterOrEqual(t, got, prev, "performance %.2f", perf)
		prev = got
	}

	prev = -1.0
	for tenure := 0.0; tenure <= 8.0; tenure += 0.5 {
		got := ComputeReadiness(Record{AvgPerformance3Yr: floatPtr(3.7), TenureInUnit: tenure}, 1)
		require.GreaterOrEqual(t, got, prev, "tenure %.1f", tenure)
		prev = got
	}
}

func TestComputeReadiness_DisciplineCostsTwenty(t *testing.T) {
	t.Parallel()

	for _, perf := range []float64{0, 1.5, 3.5, 4.8} {
		for gap := 0; gap <= 7; gap++ {
			clean := Record{AvgPerformance3Yr: floatPtr(perf), TenureInUnit: 2.5}
			flagged := clean
			flagged.HasDisciplineIssue = true
			assert.InDelta(t, 20.0, ComputeReadiness(clean, gap)-ComputeReadiness(flagged, gap), 1e-9)
		}
	}
}

func TestRankBy_Stable(t *testing.T) {
	t.Parallel()

	items := []Scored{
		{EmployeeID: "a", Readiness: 60},
		{EmployeeID: "b", Readiness: 80},
		{EmployeeID: "c", Readiness: 60},
		{EmployeeID: "d", Readiness: 80},
		{EmployeeID: "e", Readiness: 70},
	}

	ranked := RankBy(items, func(s Scored) float64 { return s.Readiness })

	ids := make([]string, 0, len(ranked))
	for _, s := range ranked {
		ids = append(ids, s.EmployeeID)
	}
	assert.Equal(t, []string{"b", "d", "e", "a", "c"}, ids)
	assert.Equal(t, "a", items[0].EmployeeID, "input must not be reordered")
}

func TestDetectAnomalies(t *testing.T) {
	t.Parallel()

	assert.Empty(t, DetectAnomalies(completeRecord()))

	r := completeRecord()
	r.TenureInUnit = 8
	r.RankLevel = "X9"
	r.AvgPerformance3Yr = floatPtr(5.5)

	codes := make([]AnomalyCode, 0)
	for _, a := range DetectAnomalies(r) {
		codes = append(codes, a.Code)
	}
	assert.Equal(t, []AnomalyCode{
		AnomalyUnitTenureExceedsDepartment,
		AnomalyRankInvalid,
		AnomalyPerformanceOutOfRange,
	}, codes)

	r = completeRecord()
	r.RankLevel = "M5"
	require.Len(t, DetectAnomalies(r), 1)
	assert.Equal(t, AnomalyRankOutOfRange, DetectAnomalies(r)[0].Code)

	r = completeRecord()
	r.RankLevel = "  "
	assert.Empty(t, DetectAnomalies(r), "missing rank is a quality issue, not an anomaly")
}

func TestGenerateInsights(t *testing.T) {
	t.Parallel()

	insights := GenerateInsights([]Scored{
		{EmployeeID: "EMP001", FullName: "Andi", Readiness: 90, GapScore: 0},
		{EmployeeID: "EMP002", FullName: "Rina", Readiness: 90, GapScore: 5},
		{EmployeeID: "EMP003", Readiness: 60, GapScore: 4},
	})

	require.Len(t, insights, 4)
	assert.Equal(t, "High average readiness (80.0): the leadership pipeline is in good shape.", insights[0])
	assert.Equal(t, "2 candidate(s) have a readiness index of 75 or more.", insights[1])
	assert.Equal(t, "Warning: 2 employee(s) have a high competency gap (4 or more missing skills).", insights[2])
	assert.Equal(t, "Top candidate: Andi (EMP001) with a readiness index of 90.0.", insights[3])
}

func TestGenerateInsights_LowAndNoGapWarning(t *testing.T) {
	t.Parallel()

	insights := GenerateInsights([]Scored{{EmployeeID: "EMP010", Readiness: 40, GapScore: 1}})

	require.Len(t, insights, 3)
	assert.Contains(t, insights[0], "Low average readiness (40.0)")
	assert.Equal(t, "0 candidate(s) have a readiness index of 75 or more.", insights[1])
	assert.Equal(t, "Top candidate: EMP010 with a readiness index of 40.0.", insights[2])

	moderate := GenerateInsights([]Scored{{EmployeeID: "x", Readiness: 60}})
	assert.Contains(t, moderate[0], "Moderate average readiness")
}

func TestGenerateInsights_Empty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{NoDataInsight}, GenerateInsights(nil))
}

func TestAssess(t *testing.T) {
	t.Parallel()

	req := MustRequirements([]string{"sql", "sap", "hcis"}, []string{"leadership", "communication"})
	got := Assess(completeRecord(), req)

	assert.Equal(t, 100, got.Quality)
	assert.True(t, got.Eligible)
	assert.Equal(t, Gap{TechMatches: 2, SoftMatches: 1, Score: 2}, got.Gap)
	// 4.2/5*40 + 3/5*20 + (1-2/6)*20 + 20
	assert.Equal(t, 78.9, got.Readiness)
	assert.Empty(t, got.Anomalies)
}
