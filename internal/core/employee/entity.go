package employee

import (
	"strconv"
	"time"

	"github.com/ogurasousui/hc-talent-grpc/internal/core/audit"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/talent"
)

// スナップショット、Excel の列名として使うフィールド名です。
const (
	FieldID                   = "id"
	FieldEmployeeID           = "employee_id"
	FieldFullName             = "full_name"
	FieldEmail                = "email"
	FieldDepartment           = "department"
	FieldBureau               = "bureau"
	FieldJobTitle             = "job_title"
	FieldRankLevel            = "rank_level"
	FieldWorkLocation         = "work_location"
	FieldDateJoined           = "date_joined"
	FieldTenureInUnit         = "tenure_in_unit"
	FieldTenureInDepartment   = "tenure_in_department"
	FieldAvgPerformance3Yr    = "avg_performance_3yr"
	FieldHasDisciplineIssue   = "has_discipline_issue"
	FieldTechnicalSkills      = "technical_skills"
	FieldSoftSkills           = "soft_skills"
	FieldCertifications       = "certifications"
	FieldNotes                = "notes"
	FieldDataQualityScore     = "data_quality_score"
	FieldIsPromotionCandidate = "is_promotion_candidate"
	FieldCompetencyGapScore   = "competency_gap_score"
	FieldReadinessIndex       = "readiness_index"
	FieldLastUpdated          = "last_updated"
)

// DateLayout は日付フィールドの正規化形式です。
const DateLayout = "2006-01-02"

// RecordFields は入力として受け付けるフィールドを既定の列順で並べたものです。
var RecordFields = []string{
	FieldEmployeeID,
	FieldFullName,
	FieldEmail,
	FieldDepartment,
	FieldBureau,
	FieldJobTitle,
	FieldRankLevel,
	FieldWorkLocation,
	FieldDateJoined,
	FieldTenureInUnit,
	FieldTenureInDepartment,
	FieldAvgPerformance3Yr,
	FieldHasDisciplineIssue,
	FieldTechnicalSkills,
	FieldSoftSkills,
	FieldCertifications,
	FieldNotes,
}

// DerivedFields はサービスが書き込み時に再計算するフィールドです。
var DerivedFields = []string{
	FieldDataQualityScore,
	FieldIsPromotionCandidate,
	FieldCompetencyGapScore,
	FieldReadinessIndex,
	FieldLastUpdated,
}

// Employee は社員レコードです。派生フィールドは常にサービスが算出します。
type Employee struct {
	ID string
	talent.Record

	DataQualityScore     float64
	IsPromotionCandidate bool
	CompetencyGapScore   int
	ReadinessIndex       float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone は Employee のディープコピーを返します。
func (e *Employee) Clone() *Employee {
	if e == nil {
		return nil
	}
	clone := *e
	clone.DateJoined = cloneTime(e.DateJoined)
	clone.AvgPerformance3Yr = cloneFloat(e.AvgPerformance3Yr)
	return &clone
}

// Scored はインサイト生成用の要約を返します。
func (e *Employee) Scored() talent.Scored {
	return talent.Scored{
		EmployeeID: e.EmployeeID,
		FullName:   e.FullName,
		Readiness:  e.ReadinessIndex,
		GapScore:   e.CompetencyGapScore,
	}
}

func (e *Employee) applyAssessment(a talent.Assessment) {
	e.DataQualityScore = float64(a.Quality)
	e.IsPromotionCandidate = a.Eligible
	e.CompetencyGapScore = a.Gap.Score
	e.ReadinessIndex = a.Readiness
}

// Snapshot は監査ログ用の正規化済み文字列表現を返します。
// 空文字や未設定の値はキーごと省略します。
func Snapshot(e *Employee) audit.Snapshot {
	snap := audit.Snapshot{}
	if e == nil {
		return snap
	}

	putString := func(field, value string) {
		if value != "" {
			snap[field] = value
		}
	}

	putString(FieldID, e.ID)
	putString(FieldEmployeeID, e.EmployeeID)
	putString(FieldFullName, e.FullName)
	putString(FieldEmail, e.Email)
	putString(FieldDepartment, e.Department)
	putString(FieldBureau, e.Bureau)
	putString(FieldJobTitle, e.JobTitle)
	putString(FieldRankLevel, e.RankLevel)
	putString(FieldWorkLocation, e.WorkLocation)
	if e.DateJoined != nil {
		snap[FieldDateJoined] = e.DateJoined.Format(DateLayout)
	}
	snap[FieldTenureInUnit] = FormatFloat(e.TenureInUnit)
	snap[FieldTenureInDepartment] = FormatFloat(e.TenureInDepartment)
	if e.AvgPerformance3Yr != nil {
		snap[FieldAvgPerformance3Yr] = FormatFloat(*e.AvgPerformance3Yr)
	}
	snap[FieldHasDisciplineIssue] = strconv.FormatBool(e.HasDisciplineIssue)
	putString(FieldTechnicalSkills, e.TechnicalSkills)
	putString(FieldSoftSkills, e.SoftSkills)
	putString(FieldCertifications, e.Certifications)
	putString(FieldNotes, e.Notes)

	snap[FieldDataQualityScore] = FormatFloat(e.DataQualityScore)
	snap[FieldIsPromotionCandidate] = strconv.FormatBool(e.IsPromotionCandidate)
	snap[FieldCompetencyGapScore] = strconv.Itoa(e.CompetencyGapScore)
	snap[FieldReadinessIndex] = FormatFloat(e.ReadinessIndex)
	if !e.UpdatedAt.IsZero() {
		snap[FieldLastUpdated] = e.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return snap
}

// FormatFloat は数値を最短の 10 進表記に変換します。
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	clone := *t
	return &clone
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	clone := *v
	return &clone
}
