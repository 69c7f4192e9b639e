package employee

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ogurasousui/hc-talent-grpc/internal/core/talent"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("field"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("employee_key", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), "/ \t\r\n")
	})
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})
	return v
}

// recordRules は保存前に検証する入力制約です。
// 数値の範囲外は異常として扱い、ここでは拒否しません。
type recordRules struct {
	EmployeeID      string `field:"employee_id" validate:"required,max=64,employee_key"`
	FullName        string `field:"full_name" validate:"max=200"`
	Email           string `field:"email" validate:"omitempty,email,max=254"`
	Department      string `field:"department" validate:"max=200"`
	Bureau          string `field:"bureau" validate:"max=200"`
	JobTitle        string `field:"job_title" validate:"max=200"`
	RankLevel       string `field:"rank_level" validate:"max=16"`
	WorkLocation    string `field:"work_location" validate:"max=200"`
	TechnicalSkills string `field:"technical_skills" validate:"max=2000"`
	SoftSkills      string `field:"soft_skills" validate:"max=2000"`
	Certifications  string `field:"certifications" validate:"max=2000"`
	Notes           string `field:"notes" validate:"max=4000"`

	TenureInUnit       float64  `field:"tenure_in_unit" validate:"finite"`
	TenureInDepartment float64  `field:"tenure_in_department" validate:"finite"`
	AvgPerformance3Yr  *float64 `field:"avg_performance_3yr" validate:"omitempty,finite"`
}

func validateRecord(r talent.Record) error {
	err := validate.Struct(recordRules{
		EmployeeID:      r.EmployeeID,
		FullName:        r.FullName,
		Email:           r.Email,
		Department:      r.Department,
		Bureau:          r.Bureau,
		JobTitle:        r.JobTitle,
		RankLevel:       r.RankLevel,
		WorkLocation:    r.WorkLocation,
		TechnicalSkills: r.TechnicalSkills,
		SoftSkills:      r.SoftSkills,
		Certifications:  r.Certifications,
		Notes:           r.Notes,

		TenureInUnit:       r.TenureInUnit,
		TenureInDepartment: r.TenureInDepartment,
		AvgPerformance3Yr:  r.AvgPerformance3Yr,
	})
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s(%s)", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidRecord, strings.Join(fields, ", "))
}

// normalizeRecord は文字列の前後空白を除き、日付を UTC の日単位に揃えます。
func normalizeRecord(r talent.Record) talent.Record {
	out := r
	out.EmployeeID = strings.TrimSpace(r.EmployeeID)
	out.FullName = strings.TrimSpace(r.FullName)
	out.Email = strings.TrimSpace(r.Email)
	out.Department = strings.TrimSpace(r.Department)
	out.Bureau = strings.TrimSpace(r.Bureau)
	out.JobTitle = strings.TrimSpace(r.JobTitle)
	out.RankLevel = strings.TrimSpace(r.RankLevel)
	out.WorkLocation = strings.TrimSpace(r.WorkLocation)
	out.TechnicalSkills = strings.TrimSpace(r.TechnicalSkills)
	out.SoftSkills = strings.TrimSpace(r.SoftSkills)
	out.Certifications = strings.TrimSpace(r.Certifications)
	out.Notes = strings.TrimSpace(r.Notes)
	out.DateJoined = normalizeDate(r.DateJoined)
	out.AvgPerformance3Yr = cloneFloat(r.AvgPerformance3Yr)
	return out
}

func normalizeDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	normalized := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &normalized
}

func normalizeEmployeeID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidEmployeeID
	}
	return trimmed, nil
}
