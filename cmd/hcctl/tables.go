package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/ogurasousui/hc-talent-grpc/internal/core/audit"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/dashboard"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/employee"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/operator"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	return table
}

func renderRowErrors(w io.Writer, failures []employee.RowError) {
	table := newTable(w, "row", "employee_id", "error")
	for _, f := range failures {
		table.Append([]string{strconv.Itoa(f.Row), f.EmployeeID, f.Err.Error()})
	}
	table.Render()
}

func renderCandidates(w io.Writer, candidates []*employee.Employee) {
	table := newTable(w, "#", "employee_id", "full_name", "department", "readiness", "quality", "gap", "eligible")
	for i, e := range candidates {
		table.Append([]string{
			strconv.Itoa(i + 1),
			e.EmployeeID,
			e.FullName,
			e.Department,
			formatFloat(e.ReadinessIndex),
			formatFloat(e.DataQualityScore),
			strconv.Itoa(e.CompetencyGapScore),
			strconv.FormatBool(e.IsPromotionCandidate),
		})
	}
	table.Render()
}

func renderSummary(w io.Writer, s *dashboard.Summary) {
	totals := newTable(w, "total", "mean_quality", "good_quality", "needs_fix", "mean_readiness", "candidates")
	totals.Append([]string{
		strconv.Itoa(s.Total),
		formatFloat(s.MeanQuality),
		strconv.Itoa(s.GoodQuality),
		strconv.Itoa(s.NeedsFix),
		formatFloat(s.MeanReadiness),
		strconv.Itoa(s.Candidates),
	})
	totals.Render()

	if len(s.TopCandidates) > 0 {
		top := newTable(w, "employee_id", "full_name", "readiness", "eligible")
		for _, c := range s.TopCandidates {
			top.Append([]string{c.EmployeeID, c.FullName, formatFloat(c.Readiness), strconv.FormatBool(c.Eligible)})
		}
		top.Render()
	}

	if len(s.Anomalies) > 0 {
		anomalies := newTable(w, "employee_id", "code", "message")
		for _, a := range s.Anomalies {
			anomalies.Append([]string{a.EmployeeID, string(a.Anomaly.Code), a.Anomaly.Message})
		}
		anomalies.Render()
	}

	for _, insight := range s.Insights {
		fmt.Fprintf(w, "- %s\n", insight)
	}
}

func renderAuditEntries(w io.Writer, entries []*audit.Entry) {
	table := newTable(w, "timestamp", "action", "employee_id", "actor", "role", "address", "changes")
	for _, e := range entries {
		table.Append([]string{
			e.Timestamp.UTC().Format(time.RFC3339),
			string(e.Action),
			e.EmployeeID,
			e.ActorIdentity,
			e.ActorRole,
			e.ClientAddress,
			formatChanges(e.FieldChanges()),
		})
	}
	table.Render()
}

func renderOperators(w io.Writer, ops []*operator.Operator) {
	table := newTable(w, "id", "email", "name", "role", "status", "created_at")
	for _, op := range ops {
		table.Append([]string{
			op.ID,
			op.Email,
			op.Name,
			string(op.Role),
			string(op.Status),
			op.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	table.Render()
}

func formatChanges(changes []audit.FieldChange) string {
	parts := make([]string, 0, len(changes))
	for _, c := range changes {
		parts = append(parts, fmt.Sprintf("%s: %q -> %q", c.Field, c.Before, c.After))
	}
	return strings.Join(parts, "; ")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
