// Package seed はデモ・検証用のダミー社員レコードを生成します。
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/jaswdr/faker"

	"github.com/ogurasousui/hc-talent-grpc/internal/core/talent"
)

var (
	departments = []string{
		"Internal Audit", "Finance", "HR", "Mining Operation",
		"IT", "Logistic", "Procurement", "Legal", "Risk Management",
	}
	bureaus = []string{
		"HC System", "Data Management", "Payroll", "Talent Acquisition",
		"IT Support", "Internal Control", "Audit Operation",
	}
	jobTitles = []string{
		"Officer", "Senior Officer", "Supervisor", "Analyst", "Senior Analyst", "Manager",
	}
	locations       = []string{"Jakarta", "Bogor", "Bandung", "Medan"}
	technicalSkills = []string{"HCIS", "SQL", "Python", "SAP", "Data Governance", "Reporting"}
	softSkills      = []string{"Communication", "Leadership", "Analytical", "Teamwork", "Problem Solving"}
	certifications  = []string{"HC Cert", "Data Cert", "Audit Cert", ""}
)

// Generator はダミーレコードを生成します。同じシードからは同じ列が得られます。
type Generator struct {
	fake faker.Faker
}

// New は Generator を生成します。seed が 0 の場合は時刻から初期化します。
func New(seed int64) *Generator {
	if seed == 0 {
		return &Generator{fake: faker.New()}
	}
	return &Generator{fake: faker.NewWithSeed(rand.NewSource(seed))}
}

// Records は EMP001 から連番で count 件のレコードを生成します。
func (g *Generator) Records(count int) []talent.Record {
	out := make([]talent.Record, 0, max(count, 0))
	for i := 1; i <= count; i++ {
		out = append(out, g.Record(i))
	}
	return out
}

// Record は番号 n のレコードを 1 件生成します。
func (g *Generator) Record(n int) talent.Record {
	f := g.fake
	person := f.Person()
	first := person.FirstName()

	joined := time.Date(f.IntBetween(2010, 2022), time.Month(f.IntBetween(1, 12)), f.IntBetween(1, 28), 0, 0, 0, 0, time.UTC)
	performance := float64(f.IntBetween(250, 490)) / 100

	return talent.Record{
		EmployeeID:         fmt.Sprintf("EMP%03d", n),
		FullName:           first + " " + person.LastName(),
		Email:              fmt.Sprintf("%s%d@example.com", strings.ToLower(strings.ReplaceAll(first, " ", "")), n),
		Department:         f.RandomStringElement(departments),
		Bureau:             f.RandomStringElement(bureaus),
		JobTitle:           f.RandomStringElement(jobTitles),
		RankLevel:          fmt.Sprintf("M%d%d", f.IntBetween(1, 3), f.IntBetween(1, 9)),
		WorkLocation:       f.RandomStringElement(locations),
		DateJoined:         &joined,
		TenureInUnit:       float64(f.IntBetween(0, 100)) / 10,
		TenureInDepartment: float64(f.IntBetween(0, 100)) / 10,
		AvgPerformance3Yr:  &performance,
		HasDisciplineIssue: f.IntBetween(0, 3) == 0,
		TechnicalSkills:    g.sample(technicalSkills, 1, 3),
		SoftSkills:         g.sample(softSkills, 1, 3),
		Certifications:     f.RandomStringElement(certifications),
	}
}

// sample は pool から lo〜hi 件を重複なく選び、カンマ区切りで返します。
func (g *Generator) sample(pool []string, lo, hi int) string {
	remaining := append([]string(nil), pool...)
	n := g.fake.IntBetween(lo, min(hi, len(remaining)))

	picked := make([]string, 0, n)
	for i := 0; i < n; i++ {
		j := g.fake.IntBetween(0, len(remaining)-1)
		picked = append(picked, remaining[j])
		remaining = append(remaining[:j], remaining[j+1:]...)
	}
	return strings.Join(picked, ", ")
}
