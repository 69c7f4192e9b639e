package employee

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ogurasousui/hc-talent-grpc/internal/core/access"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/audit"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/talent"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

const (
	defaultListPageSize = 50
	maxListPageSize     = 200
)

// UseCase は社員ユースケースの公開インターフェースです。
type UseCase interface {
	CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error)
	UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error)
	DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) error
	UpsertEmployee(ctx context.Context, in UpsertEmployeeInput) (*UpsertEmployeeResult, error)
	ImportEmployees(ctx context.Context, in ImportEmployeesInput) (*ImportEmployeesResult, error)
	GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error)
	ListEmployees(ctx context.Context, in ListEmployeesInput) (*ListEmployeesResult, error)
	ScreenCandidates(ctx context.Context, in ScreenCandidatesInput) (*ScreenCandidatesResult, error)
	Recalculate(ctx context.Context) (*RecalculateResult, error)
}

// Service は社員レコードに関するユースケースをまとめます。
// 変更系の操作は派生フィールドを再計算し、同じトランザクションで監査ログを追記します。
type Service struct {
	repo         Repository
	audit        audit.Repository
	requirements talent.Requirements
	clock        Clock
	tx           TransactionManager
	logger       *zap.Logger
	observe      func(audit.Action)
}

// Option は Service の任意設定です。
type Option func(*Service)

// WithClock は時刻の取得元を差し替えます。
func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithTransactionManager はトランザクション管理を設定します。
func WithTransactionManager(tx TransactionManager) Option {
	return func(s *Service) {
		if tx != nil {
			s.tx = tx
		}
	}
}

// WithLogger はロガーを設定します。
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMutationObserver は変更が確定するたびに呼ばれる関数を設定します。
func WithMutationObserver(fn func(audit.Action)) Option {
	return func(s *Service) {
		s.observe = fn
	}
}

// NewService は Service を生成します。
func NewService(repo Repository, auditRepo audit.Repository, requirements talent.Requirements, opts ...Option) *Service {
	s := &Service{
		repo:         repo,
		audit:        auditRepo,
		requirements: requirements,
		clock:        realClock{},
		tx:           noopTransactionManager{},
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Requirements は再計算に使う昇格要件を返します。
func (s *Service) Requirements() talent.Requirements {
	return s.requirements
}

// CreateEmployeeInput は社員作成時の入力です。
type CreateEmployeeInput struct {
	Record talent.Record
}

// UpdateEmployeeInput は社員更新時の入力です。nil のフィールドは変更しません。
// employee_id は変更できません。
type UpdateEmployeeInput struct {
	EmployeeID           string
	FullName             *string
	Email                *string
	Department           *string
	Bureau               *string
	JobTitle             *string
	RankLevel            *string
	WorkLocation         *string
	DateJoined           *time.Time
	DateJoinedSet        bool
	TenureInUnit         *float64
	TenureInDepartment   *float64
	AvgPerformance3Yr    *float64
	AvgPerformance3YrSet bool
	HasDisciplineIssue   *bool
	TechnicalSkills      *string
	SoftSkills           *string
	Certifications       *string
	Notes                *string
}

// DeleteEmployeeInput は社員削除時の入力です。
type DeleteEmployeeInput struct {
	EmployeeID string
}

// GetEmployeeInput は社員取得時の入力です。
type GetEmployeeInput struct {
	EmployeeID string
}

// UpsertEmployeeInput は登録フォームと同じく、存在すれば更新し無ければ作成します。
type UpsertEmployeeInput struct {
	Record talent.Record
}

// UpsertEmployeeResult は Upsert の結果です。
type UpsertEmployeeResult struct {
	Employee *Employee
	Created  bool
}

// ImportRow は一括取り込みの 1 行です。Row は元データ上の行番号です。
type ImportRow struct {
	Row    int
	Record talent.Record
}

// ImportEmployeesInput は一括取り込みの入力です。
type ImportEmployeesInput struct {
	Rows []ImportRow
}

// RowError は取り込みに失敗した行です。
type RowError struct {
	Row        int
	EmployeeID string
	Err        error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d (%s): %v", e.Row, e.EmployeeID, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// ImportEmployeesResult は一括取り込みの結果です。
type ImportEmployeesResult struct {
	Created  int
	Updated  int
	Failures []RowError
}

// ListEmployeesInput は一覧取得時の入力です。
type ListEmployeesInput struct {
	Department     string
	Bureau         string
	OnlyCandidates bool
	PageSize       int
	PageToken      string
}

// ListEmployeesResult は一覧取得結果を表します。
type ListEmployeesResult struct {
	Employees     []*Employee
	NextPageToken string
}

// ScreenCandidatesInput はスクリーニングの入力です。Limit が 0 以下なら全件返します。
type ScreenCandidatesInput struct {
	Department   string
	Bureau       string
	OnlyEligible bool
	Limit        int
}

// ScreenCandidatesResult は準備度の降順に並んだ社員です。
type ScreenCandidatesResult struct {
	Candidates []*Employee
}

// RecalculateResult は再計算の結果です。
type RecalculateResult struct {
	Scanned int
	Updated int
}

// CreateEmployee は新しい社員レコードを作成します。
func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error) {
	actor, err := access.RequireEditFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rec, err := prepareRecord(in.Record)
	if err != nil {
		return nil, err
	}

	var created *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		result, err := s.create(txCtx, actor, rec)
		if err != nil {
			return err
		}
		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	s.committed(audit.ActionCreate, created.EmployeeID, actor)
	return created, nil
}

// UpdateEmployee は社員レコードを部分更新します。
func (s *Service) UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error) {
	actor, err := access.RequireEditFromContext(ctx)
	if err != nil {
		return nil, err
	}

	employeeID, err := normalizeEmployeeID(in.EmployeeID)
	if err != nil {
		return nil, err
	}

	var updated *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByEmployeeID(txCtx, employeeID)
		if err != nil {
			return err
		}

		rec := applyUpdate(existing.Record, in)
		rec.EmployeeID = existing.EmployeeID
		rec = normalizeRecord(rec)
		if err := validateRecord(rec); err != nil {
			return err
		}

		result, err := s.replace(txCtx, actor, existing, rec)
		if err != nil {
			return err
		}
		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	s.committed(audit.ActionUpdate, updated.EmployeeID, actor)
	return updated, nil
}

// DeleteEmployee は社員レコードを削除します。
func (s *Service) DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) error {
	actor, err := access.RequireEditFromContext(ctx)
	if err != nil {
		return err
	}

	employeeID, err := normalizeEmployeeID(in.EmployeeID)
	if err != nil {
		return err
	}

	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByEmployeeID(txCtx, employeeID)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(txCtx, employeeID); err != nil {
			return err
		}
		return s.appendAudit(txCtx, actor, audit.ActionDelete, existing, nil)
	}); err != nil {
		return err
	}

	s.committed(audit.ActionDelete, employeeID, actor)
	return nil
}

// UpsertEmployee は employee_id が存在すれば全項目を置き換え、無ければ作成します。
func (s *Service) UpsertEmployee(ctx context.Context, in UpsertEmployeeInput) (*UpsertEmployeeResult, error) {
	actor, err := access.RequireEditFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rec, err := prepareRecord(in.Record)
	if err != nil {
		return nil, err
	}

	result, err := s.upsert(ctx, actor, rec)
	if err != nil {
		return nil, err
	}

	action := audit.ActionUpdate
	if result.Created {
		action = audit.ActionCreate
	}
	s.committed(action, result.Employee.EmployeeID, actor)
	return result, nil
}

// ImportEmployees は複数行を 1 行ずつ Upsert します。
// 失敗した行は結果に記録し、残りの行の処理を続けます。
func (s *Service) ImportEmployees(ctx context.Context, in ImportEmployeesInput) (*ImportEmployeesResult, error) {
	actor, err := access.RequireEditFromContext(ctx)
	if err != nil {
		return nil, err
	}

	result := &ImportEmployeesResult{}
	for _, row := range in.Rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		rec, err := prepareRecord(row.Record)
		if err != nil {
			result.Failures = append(result.Failures, RowError{Row: row.Row, EmployeeID: strings.TrimSpace(row.Record.EmployeeID), Err: err})
			continue
		}

		upserted, err := s.upsert(ctx, actor, rec)
		if err != nil {
			result.Failures = append(result.Failures, RowError{Row: row.Row, EmployeeID: rec.EmployeeID, Err: err})
			continue
		}

		if upserted.Created {
			result.Created++
			s.committed(audit.ActionCreate, rec.EmployeeID, actor)
		} else {
			result.Updated++
			s.committed(audit.ActionUpdate, rec.EmployeeID, actor)
		}
	}

	s.logger.Info("employees imported",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("failed", len(result.Failures)),
		zap.String("actor", actor.Identity),
	)
	return result, nil
}

// GetEmployee は社員レコードを取得します。
func (s *Service) GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error) {
	employeeID, err := normalizeEmployeeID(in.EmployeeID)
	if err != nil {
		return nil, err
	}

	var result *Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByEmployeeID(txCtx, employeeID)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// ListEmployees は社員レコードを employee_id 順に一覧します。
func (s *Service) ListEmployees(ctx context.Context, in ListEmployeesInput) (*ListEmployeesResult, error) {
	limit, err := normalizePageSize(in.PageSize)
	if err != nil {
		return nil, err
	}

	offset, err := parsePageToken(in.PageToken)
	if err != nil {
		return nil, err
	}

	var (
		employees []*Employee
		nextToken string
	)

	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		resultEmployees, token, err := s.repo.List(txCtx, ListEmployeesFilter{
			Criteria: Criteria{
				Department:     strings.TrimSpace(in.Department),
				Bureau:         strings.TrimSpace(in.Bureau),
				OnlyCandidates: in.OnlyCandidates,
			},
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			return err
		}
		employees = resultEmployees
		nextToken = token
		return nil
	}); err != nil {
		return nil, err
	}

	return &ListEmployeesResult{Employees: employees, NextPageToken: nextToken}, nil
}

// ScreenCandidates は現在の昇格要件で評価し直した社員を準備度の降順に返します。
// 準備度が同じ社員は employee_id 順を保ちます。
func (s *Service) ScreenCandidates(ctx context.Context, in ScreenCandidatesInput) (*ScreenCandidatesResult, error) {
	var all []*Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.ListAll(txCtx, Criteria{
			Department: strings.TrimSpace(in.Department),
			Bureau:     strings.TrimSpace(in.Bureau),
		})
		if err != nil {
			return err
		}
		all = found
		return nil
	}); err != nil {
		return nil, err
	}

	pool := make([]*Employee, 0, len(all))
	for _, e := range all {
		scored := e.Clone()
		s.derive(scored)
		if in.OnlyEligible && !scored.IsPromotionCandidate {
			continue
		}
		pool = append(pool, scored)
	}

	ranked := talent.RankBy(pool, func(e *Employee) float64 { return e.ReadinessIndex })
	if in.Limit > 0 && len(ranked) > in.Limit {
		ranked = ranked[:in.Limit]
	}
	return &ScreenCandidatesResult{Candidates: ranked}, nil
}

// Recalculate は保存済みの全レコードの派生フィールドを現在の要件で再計算します。
// 監査ログは差分がある場合のみ追記します。
func (s *Service) Recalculate(ctx context.Context) (*RecalculateResult, error) {
	actor, err := access.RequireEditFromContext(ctx)
	if err != nil {
		return nil, err
	}

	result := &RecalculateResult{}
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		all, err := s.repo.ListAll(txCtx, Criteria{})
		if err != nil {
			return err
		}

		result.Scanned = len(all)
		for _, existing := range all {
			next := existing.Clone()
			s.derive(next)
			if sameDerived(existing, next) {
				continue
			}

			next.UpdatedAt = s.clock.Now()
			stored, err := s.repo.Update(txCtx, next)
			if err != nil {
				return fmt.Errorf("recalculate %s: %w", existing.EmployeeID, err)
			}
			result.Updated++

			if len(audit.Diff(Snapshot(existing), Snapshot(stored))) == 0 {
				continue
			}
			if err := s.appendAudit(txCtx, actor, audit.ActionUpdate, existing, stored); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	s.logger.Info("derived fields recalculated",
		zap.Int("scanned", result.Scanned),
		zap.Int("updated", result.Updated),
		zap.String("actor", actor.Identity),
	)
	return result, nil
}

func (s *Service) upsert(ctx context.Context, actor access.Actor, rec talent.Record) (*UpsertEmployeeResult, error) {
	var result UpsertEmployeeResult
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByEmployeeID(txCtx, rec.EmployeeID)
		switch {
		case errors.Is(err, ErrEmployeeNotFound):
			created, err := s.create(txCtx, actor, rec)
			if err != nil {
				return err
			}
			result.Employee = created
			result.Created = true
			return nil
		case err != nil:
			return err
		}

		updated, err := s.replace(txCtx, actor, existing, rec)
		if err != nil {
			return err
		}
		result.Employee = updated
		return nil
	}); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) create(ctx context.Context, actor access.Actor, rec talent.Record) (*Employee, error) {
	existing, err := s.repo.FindByEmployeeID(ctx, rec.EmployeeID)
	if err != nil && !errors.Is(err, ErrEmployeeNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmployeeAlreadyExists
	}

	now := s.clock.Now()
	emp := &Employee{Record: rec, CreatedAt: now, UpdatedAt: now}
	s.derive(emp)

	stored, err := s.repo.Create(ctx, emp)
	if err != nil {
		return nil, err
	}
	if err := s.appendAudit(ctx, actor, audit.ActionCreate, nil, stored); err != nil {
		return nil, err
	}
	return stored, nil
}

// replace は差分が無ければ保存も監査ログの追記もせず existing を返します。
func (s *Service) replace(ctx context.Context, actor access.Actor, existing *Employee, rec talent.Record) (*Employee, error) {
	next := existing.Clone()
	next.Record = rec
	s.derive(next)
	if len(audit.Diff(Snapshot(existing), Snapshot(next))) == 0 {
		return existing, nil
	}
	next.UpdatedAt = s.clock.Now()

	stored, err := s.repo.Update(ctx, next)
	if err != nil {
		return nil, err
	}
	if err := s.appendAudit(ctx, actor, audit.ActionUpdate, existing, stored); err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *Service) derive(e *Employee) {
	e.applyAssessment(talent.Assess(e.Record, s.requirements))
}

func (s *Service) appendAudit(ctx context.Context, actor access.Actor, action audit.Action, before, after *Employee) error {
	employeeID := ""
	switch {
	case after != nil:
		employeeID = after.EmployeeID
	case before != nil:
		employeeID = before.EmployeeID
	}

	entry, err := audit.NewEntry(audit.NewEntryInput{
		Timestamp:     s.clock.Now(),
		ActorRole:     string(actor.Role),
		ActorIdentity: actor.Identity,
		ClientAddress: actor.Address,
		Action:        action,
		EmployeeID:    employeeID,
		Before:        Snapshot(before),
		After:         Snapshot(after),
	})
	if err != nil {
		return err
	}
	if _, err := s.audit.Append(ctx, entry); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

func (s *Service) committed(action audit.Action, employeeID string, actor access.Actor) {
	s.logger.Info("employee record changed",
		zap.String("action", string(action)),
		zap.String("employee_id", employeeID),
		zap.String("actor", actor.Identity),
		zap.String("role", string(actor.Role)),
	)
	if s.observe != nil {
		s.observe(action)
	}
}

func prepareRecord(r talent.Record) (talent.Record, error) {
	if _, err := normalizeEmployeeID(r.EmployeeID); err != nil {
		return talent.Record{}, err
	}
	rec := normalizeRecord(r)
	if err := validateRecord(rec); err != nil {
		return talent.Record{}, err
	}
	return rec, nil
}

func applyUpdate(base talent.Record, in UpdateEmployeeInput) talent.Record {
	rec := base
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&rec.FullName, in.FullName)
	setString(&rec.Email, in.Email)
	setString(&rec.Department, in.Department)
	setString(&rec.Bureau, in.Bureau)
	setString(&rec.JobTitle, in.JobTitle)
	setString(&rec.RankLevel, in.RankLevel)
	setString(&rec.WorkLocation, in.WorkLocation)
	setString(&rec.TechnicalSkills, in.TechnicalSkills)
	setString(&rec.SoftSkills, in.SoftSkills)
	setString(&rec.Certifications, in.Certifications)
	setString(&rec.Notes, in.Notes)

	if in.DateJoinedSet {
		rec.DateJoined = cloneTime(in.DateJoined)
	}
	if in.TenureInUnit != nil {
		rec.TenureInUnit = *in.TenureInUnit
	}
	if in.TenureInDepartment != nil {
		rec.TenureInDepartment = *in.TenureInDepartment
	}
	if in.AvgPerformance3YrSet {
		rec.AvgPerformance3Yr = cloneFloat(in.AvgPerformance3Yr)
	}
	if in.HasDisciplineIssue != nil {
		rec.HasDisciplineIssue = *in.HasDisciplineIssue
	}
	return rec
}

func sameDerived(a, b *Employee) bool {
	return a.DataQualityScore == b.DataQualityScore &&
		a.IsPromotionCandidate == b.IsPromotionCandidate &&
		a.CompetencyGapScore == b.CompetencyGapScore &&
		a.ReadinessIndex == b.ReadinessIndex
}

func normalizePageSize(pageSize int) (int, error) {
	if pageSize <= 0 {
		return defaultListPageSize, nil
	}
	if pageSize > maxListPageSize {
		return 0, ErrInvalidPageSize
	}
	return pageSize, nil
}

func parsePageToken(token string) (int, error) {
	if strings.TrimSpace(token) == "" {
		return 0, nil
	}

	offset, err := strconv.Atoi(token)
	if err != nil || offset < 0 {
		return 0, ErrInvalidPageToken
	}

	return offset, nil
}
