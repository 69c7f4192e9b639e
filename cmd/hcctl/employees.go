package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ogurasousui/hc-talent-grpc/internal/adapters/seed"
	"github.com/ogurasousui/hc-talent-grpc/internal/adapters/spreadsheet"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/employee"
)

const exportPageSize = 200

func (cl *commandline) employeeCommands(root *cobra.Command) {
	cl.importCommand(root)
	cl.exportCommand(root)
	cl.seedCommand(root)
	cl.screenCommand(root)
	cl.recalcCommand(root)
}

func (cl *commandline) importCommand(root *cobra.Command) {
	root.AddCommand(&cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Upsert employee records from an Excel workbook",
		Args:  cobra.ExactArgs(1),
		RunE: cl.run(func(cmd *cobra.Command, args []string) error {
			ctx, err := cl.actorContext(cmd.Context())
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			rows, parseFailures, err := spreadsheet.Read(f)
			if err != nil {
				return err
			}

			result, err := cl.app.Employee.ImportEmployees(ctx, employee.ImportEmployeesInput{Rows: rows})
			if err != nil {
				return err
			}

			failures := append(parseFailures, result.Failures...)
			fmt.Fprintf(cmd.OutOrStdout(), "created=%d updated=%d failed=%d\n", result.Created, result.Updated, len(failures))
			if len(failures) > 0 {
				renderRowErrors(cmd.OutOrStdout(), failures)
			}
			return nil
		}),
	})
}

func (cl *commandline) exportCommand(root *cobra.Command) {
	var (
		department string
		bureau     string
	)
	cmd := &cobra.Command{
		Use:   "export <file.xlsx>",
		Short: "Write employee records with derived columns to an Excel workbook",
		Args:  cobra.ExactArgs(1),
		RunE: cl.run(func(cmd *cobra.Command, args []string) error {
			var (
				all   []*employee.Employee
				token string
			)
			for {
				page, err := cl.app.Employee.ListEmployees(cmd.Context(), employee.ListEmployeesInput{
					Department: department,
					Bureau:     bureau,
					PageSize:   exportPageSize,
					PageToken:  token,
				})
				if err != nil {
					return err
				}
				all = append(all, page.Employees...)
				if page.NextPageToken == "" {
					break
				}
				token = page.NextPageToken
			}

			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			if err := spreadsheet.Write(f, all); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "exported %d employees to %s\n", len(all), args[0])
			return nil
		}),
	}
	cmd.Flags().StringVar(&department, "department", "", "only export this department")
	cmd.Flags().StringVar(&bureau, "bureau", "", "only export this bureau")
	root.AddCommand(cmd)
}

func (cl *commandline) seedCommand(root *cobra.Command) {
	var (
		count      int
		randomSeed int64
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert synthetic employee records",
		Args:  cobra.NoArgs,
		RunE: cl.run(func(cmd *cobra.Command, _ []string) error {
			if count <= 0 {
				return fmt.Errorf("--count must be positive")
			}
			ctx, err := cl.actorContext(cmd.Context())
			if err != nil {
				return err
			}

			records := seed.New(randomSeed).Records(count)
			rows := make([]employee.ImportRow, len(records))
			for i, rec := range records {
				rows[i] = employee.ImportRow{Row: i + 1, Record: rec}
			}

			result, err := cl.app.Employee.ImportEmployees(ctx, employee.ImportEmployeesInput{Rows: rows})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created=%d updated=%d failed=%d\n", result.Created, result.Updated, len(result.Failures))
			if len(result.Failures) > 0 {
				renderRowErrors(cmd.OutOrStdout(), result.Failures)
			}
			return nil
		}),
	}
	cmd.Flags().IntVar(&count, "count", 20, "number of records to generate")
	cmd.Flags().Int64Var(&randomSeed, "seed", 0, "random seed; 0 picks a random one")
	root.AddCommand(cmd)
}

func (cl *commandline) screenCommand(root *cobra.Command) {
	var (
		onlyEligible bool
		department   string
		bureau       string
		limit        int
	)
	cmd := &cobra.Command{
		Use:   "screen",
		Short: "Rank employees by readiness for promotion",
		Args:  cobra.NoArgs,
		RunE: cl.run(func(cmd *cobra.Command, _ []string) error {
			result, err := cl.app.Employee.ScreenCandidates(cmd.Context(), employee.ScreenCandidatesInput{
				Department:   department,
				Bureau:       bureau,
				OnlyEligible: onlyEligible,
				Limit:        limit,
			})
			if err != nil {
				return err
			}
			renderCandidates(cmd.OutOrStdout(), result.Candidates)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&onlyEligible, "only-eligible", false, "only list promotion-eligible employees")
	cmd.Flags().StringVar(&department, "department", "", "only screen this department")
	cmd.Flags().StringVar(&bureau, "bureau", "", "only screen this bureau")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of rows; 0 lists all")
	root.AddCommand(cmd)
}

func (cl *commandline) recalcCommand(root *cobra.Command) {
	root.AddCommand(&cobra.Command{
		Use:   "recalc",
		Short: "Recompute derived fields of every stored record",
		Args:  cobra.NoArgs,
		RunE: cl.run(func(cmd *cobra.Command, _ []string) error {
			ctx, err := cl.actorContext(cmd.Context())
			if err != nil {
				return err
			}
			result, err := cl.app.Employee.Recalculate(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "scanned=%d updated=%d\n", result.Scanned, result.Updated)
			return nil
		}),
	})
}
