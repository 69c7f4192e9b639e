package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ogurasousui/hc-talent-grpc/internal/core/audit"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/dashboard"
)

func (cl *commandline) reportCommands(root *cobra.Command) {
	cl.dashboardCommand(root)
	cl.auditCommand(root)
}

func (cl *commandline) dashboardCommand(root *cobra.Command) {
	var (
		department string
		bureau     string
	)
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show quality and readiness summary",
		Args:  cobra.NoArgs,
		RunE: cl.run(func(cmd *cobra.Command, _ []string) error {
			summary, err := cl.app.Dashboard.Summarize(cmd.Context(), dashboard.SummaryInput{
				Department: department,
				Bureau:     bureau,
			})
			if err != nil {
				return err
			}
			renderSummary(cmd.OutOrStdout(), summary)
			return nil
		}),
	}
	cmd.Flags().StringVar(&department, "department", "", "only summarize this department")
	cmd.Flags().StringVar(&bureau, "bureau", "", "only summarize this bureau")
	root.AddCommand(cmd)
}

func (cl *commandline) auditCommand(root *cobra.Command) {
	var (
		employeeID string
		action     string
		pageSize   int
		pageToken  string
	)
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List audit log entries, newest first",
		Args:  cobra.NoArgs,
		RunE: cl.run(func(cmd *cobra.Command, _ []string) error {
			in := audit.ListEntriesInput{
				EmployeeID: employeeID,
				PageSize:   pageSize,
				PageToken:  pageToken,
			}
			if trimmed := strings.ToUpper(strings.TrimSpace(action)); trimmed != "" {
				a := audit.Action(trimmed)
				in.Action = &a
			}

			result, err := cl.app.Audit.ListEntries(cmd.Context(), in)
			if err != nil {
				return err
			}
			renderAuditEntries(cmd.OutOrStdout(), result.Entries)
			if result.NextPageToken != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "next page: --page-token %s\n", result.NextPageToken)
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&employeeID, "employee", "", "only list entries for this employee ID")
	cmd.Flags().StringVar(&action, "action", "", "only list CREATE, UPDATE or DELETE entries")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "entries per page")
	cmd.Flags().StringVar(&pageToken, "page-token", "", "token returned by the previous page")
	root.AddCommand(cmd)
}
