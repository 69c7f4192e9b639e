package talentv1

// EmployeeRecord は利用者が入力できる社員レコードのフィールドです。日付は YYYY-MM-DD です。
type EmployeeRecord struct {
	EmployeeID         string   `json:"employee_id"`
	FullName           string   `json:"full_name,omitempty"`
	Email              string   `json:"email,omitempty"`
	Department         string   `json:"department,omitempty"`
	Bureau             string   `json:"bureau,omitempty"`
	JobTitle           string   `json:"job_title,omitempty"`
	RankLevel          string   `json:"rank_level,omitempty"`
	WorkLocation       string   `json:"work_location,omitempty"`
	DateJoined         string   `json:"date_joined,omitempty"`
	TenureInUnit       float64  `json:"tenure_in_unit"`
	TenureInDepartment float64  `json:"tenure_in_department"`
	AvgPerformance3Yr  *float64 `json:"avg_performance_3yr,omitempty"`
	HasDisciplineIssue bool     `json:"has_discipline_issue"`
	TechnicalSkills    string   `json:"technical_skills,omitempty"`
	SoftSkills         string   `json:"soft_skills,omitempty"`
	Certifications     string   `json:"certifications,omitempty"`
	Notes              string   `json:"notes,omitempty"`
}

// Anomaly はレコードの整合性警告です。
type Anomaly struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Employee は派生フィールドを含む社員レコードです。
type Employee struct {
	ID string `json:"id"`
	EmployeeRecord
	DataQualityScore     float64   `json:"data_quality_score"`
	IsPromotionCandidate bool      `json:"is_promotion_candidate"`
	CompetencyGapScore   int32     `json:"competency_gap_score"`
	ReadinessIndex       float64   `json:"readiness_index"`
	Anomalies            []Anomaly `json:"anomalies,omitempty"`
	CreatedAt            string    `json:"created_at"`
	LastUpdated          string    `json:"last_updated"`
}

type CreateEmployeeRequest struct {
	Record EmployeeRecord `json:"record"`
}

type CreateEmployeeResponse struct {
	Employee *Employee `json:"employee"`
}

// UpdateEmployeeRequest は部分更新です。nil のフィールドは変更しません。
// DateJoined に空文字を渡すと未設定に戻します。
type UpdateEmployeeRequest struct {
	EmployeeID             string   `json:"employee_id"`
	FullName               *string  `json:"full_name,omitempty"`
	Email                  *string  `json:"email,omitempty"`
	Department             *string  `json:"department,omitempty"`
	Bureau                 *string  `json:"bureau,omitempty"`
	JobTitle               *string  `json:"job_title,omitempty"`
	RankLevel              *string  `json:"rank_level,omitempty"`
	WorkLocation           *string  `json:"work_location,omitempty"`
	DateJoined             *string  `json:"date_joined,omitempty"`
	TenureInUnit           *float64 `json:"tenure_in_unit,omitempty"`
	TenureInDepartment     *float64 `json:"tenure_in_department,omitempty"`
	AvgPerformance3Yr      *float64 `json:"avg_performance_3yr,omitempty"`
	ClearAvgPerformance3Yr bool     `json:"clear_avg_performance_3yr,omitempty"`
	HasDisciplineIssue     *bool    `json:"has_discipline_issue,omitempty"`
	TechnicalSkills        *string  `json:"technical_skills,omitempty"`
	SoftSkills             *string  `json:"soft_skills,omitempty"`
	Certifications         *string  `json:"certifications,omitempty"`
	Notes                  *string  `json:"notes,omitempty"`
}

type UpdateEmployeeResponse struct {
	Employee *Employee `json:"employee"`
}

type DeleteEmployeeRequest struct {
	EmployeeID string `json:"employee_id"`
}

type DeleteEmployeeResponse struct{}

type GetEmployeeRequest struct {
	EmployeeID string `json:"employee_id"`
}

type GetEmployeeResponse struct {
	Employee *Employee `json:"employee"`
}

type ListEmployeesRequest struct {
	Department     string `json:"department,omitempty"`
	Bureau         string `json:"bureau,omitempty"`
	OnlyCandidates bool   `json:"only_candidates,omitempty"`
	PageSize       int32  `json:"page_size,omitempty"`
	PageToken      string `json:"page_token,omitempty"`
}

type ListEmployeesResponse struct {
	Employees     []*Employee `json:"employees"`
	NextPageToken string      `json:"next_page_token,omitempty"`
}

type UpsertEmployeeRequest struct {
	Record EmployeeRecord `json:"record"`
}

type UpsertEmployeeResponse struct {
	Employee *Employee `json:"employee"`
	Created  bool      `json:"created"`
}

// ImportRow は一括取り込みの 1 行です。
type ImportRow struct {
	Row    int32          `json:"row"`
	Record EmployeeRecord `json:"record"`
}

type ImportEmployeesRequest struct {
	Rows []ImportRow `json:"rows"`
}

// RowFailure は取り込みに失敗した行です。
type RowFailure struct {
	Row        int32  `json:"row"`
	EmployeeID string `json:"employee_id,omitempty"`
	Message    string `json:"message"`
}

type ImportEmployeesResponse struct {
	Created  int32        `json:"created"`
	Updated  int32        `json:"updated"`
	Failures []RowFailure `json:"failures,omitempty"`
}

type ScreenCandidatesRequest struct {
	Department   string `json:"department,omitempty"`
	Bureau       string `json:"bureau,omitempty"`
	OnlyEligible bool   `json:"only_eligible,omitempty"`
	Limit        int32  `json:"limit,omitempty"`
}

type ScreenCandidatesResponse struct {
	Candidates []*Employee `json:"candidates"`
}

type RecalculateEmployeesRequest struct{}

type RecalculateEmployeesResponse struct {
	Scanned int32 `json:"scanned"`
	Updated int32 `json:"updated"`
}

// FieldChange はフィールド単位の変更です。
type FieldChange struct {
	Field  string `json:"field"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// AuditEntry は監査エントリです。Changes は UPDATE の場合のみ設定されます。
type AuditEntry struct {
	ID            string            `json:"id"`
	Timestamp     string            `json:"timestamp"`
	ActorRole     string            `json:"actor_role"`
	ActorIdentity string            `json:"actor_identity"`
	ClientAddress string            `json:"client_address,omitempty"`
	Action        string            `json:"action"`
	EmployeeID    string            `json:"employee_id"`
	Before        map[string]string `json:"before"`
	After         map[string]string `json:"after"`
	Changes       []FieldChange     `json:"changes,omitempty"`
}

type ListAuditEntriesRequest struct {
	EmployeeID string `json:"employee_id,omitempty"`
	Action     string `json:"action,omitempty"`
	PageSize   int32  `json:"page_size,omitempty"`
	PageToken  string `json:"page_token,omitempty"`
}

type ListAuditEntriesResponse struct {
	Entries       []*AuditEntry `json:"entries"`
	NextPageToken string        `json:"next_page_token,omitempty"`
}

type GetAuditEntryRequest struct {
	ID string `json:"id"`
}

type GetAuditEntryResponse struct {
	Entry *AuditEntry `json:"entry"`
}

type GetSummaryRequest struct {
	Department string `json:"department,omitempty"`
	Bureau     string `json:"bureau,omitempty"`
}

// Bar は社員ごとの値です。
type Bar struct {
	EmployeeID string  `json:"employee_id"`
	Value      float64 `json:"value"`
}

// EmployeeAnomaly は社員に紐づく警告です。
type EmployeeAnomaly struct {
	EmployeeID string  `json:"employee_id"`
	Anomaly    Anomaly `json:"anomaly"`
}

// Candidate はダッシュボードの上位候補です。
type Candidate struct {
	EmployeeID string  `json:"employee_id"`
	FullName   string  `json:"full_name"`
	Readiness  float64 `json:"readiness"`
	Eligible   bool    `json:"eligible"`
}

type GetSummaryResponse struct {
	Total         int32             `json:"total"`
	MeanQuality   float64           `json:"mean_quality"`
	GoodQuality   int32             `json:"good_quality"`
	NeedsFix      int32             `json:"needs_fix"`
	MeanReadiness float64           `json:"mean_readiness"`
	Candidates    int32             `json:"candidates"`
	QualityBars   []Bar             `json:"quality_bars"`
	TopCandidates []Candidate       `json:"top_candidates"`
	Anomalies     []EmployeeAnomaly `json:"anomalies"`
	Insights      []string          `json:"insights"`
}

// Operator はシステムを操作する人です。
type Operator struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type CreateOperatorRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type CreateOperatorResponse struct {
	Operator *Operator `json:"operator"`
}

type UpdateOperatorRequest struct {
	ID     string  `json:"id"`
	Name   *string `json:"name,omitempty"`
	Role   *string `json:"role,omitempty"`
	Status *string `json:"status,omitempty"`
}

type UpdateOperatorResponse struct {
	Operator *Operator `json:"operator"`
}

type DeleteOperatorRequest struct {
	ID string `json:"id"`
}

type DeleteOperatorResponse struct{}

type GetOperatorRequest struct {
	ID string `json:"id"`
}

type GetOperatorResponse struct {
	Operator *Operator `json:"operator"`
}

type ListOperatorsRequest struct {
	Status    string `json:"status,omitempty"`
	PageSize  int32  `json:"page_size,omitempty"`
	PageToken string `json:"page_token,omitempty"`
}

type ListOperatorsResponse struct {
	Operators     []*Operator `json:"operators"`
	NextPageToken string      `json:"next_page_token,omitempty"`
}
