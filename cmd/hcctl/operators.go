package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ogurasousui/hc-talent-grpc/internal/core/access"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/operator"
)

func (cl *commandline) operatorCommands(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "operator",
		Short: "Manage operators allowed to call the service",
	}
	cl.operatorCreateCommand(cmd)
	cl.operatorListCommand(cmd)
	root.AddCommand(cmd)
}

func (cl *commandline) operatorCreateCommand(parent *cobra.Command) {
	var (
		email string
		name  string
		role  string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register an operator",
		Args:  cobra.NoArgs,
		RunE: cl.run(func(cmd *cobra.Command, _ []string) error {
			parsed, err := access.ParseRole(role)
			if err != nil {
				return err
			}
			ctx, err := cl.actorContext(cmd.Context())
			if err != nil {
				return err
			}

			op, err := cl.app.Operator.CreateOperator(ctx, operator.CreateOperatorInput{
				Email: email,
				Name:  name,
				Role:  parsed,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created operator %s (%s)\n", op.ID, op.Role)
			return nil
		}),
	}
	cmd.Flags().StringVar(&email, "email", "", "operator email")
	cmd.Flags().StringVar(&name, "name", "", "operator display name")
	cmd.Flags().StringVar(&role, "operator-role", string(access.RoleViewer), "role granted to the new operator")
	parent.AddCommand(cmd)
}

func (cl *commandline) operatorListCommand(parent *cobra.Command) {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List operators",
		Args:  cobra.NoArgs,
		RunE: cl.run(func(cmd *cobra.Command, _ []string) error {
			ctx, err := cl.actorContext(cmd.Context())
			if err != nil {
				return err
			}

			in := operator.ListOperatorsInput{}
			if strings.TrimSpace(status) != "" {
				s, err := operator.ParseStatus(status)
				if err != nil {
					return err
				}
				in.Status = &s
			}

			var ops []*operator.Operator
			for {
				page, err := cl.app.Operator.ListOperators(ctx, in)
				if err != nil {
					return err
				}
				ops = append(ops, page.Operators...)
				if page.NextPageToken == "" {
					break
				}
				in.PageToken = page.NextPageToken
			}
			renderOperators(cmd.OutOrStdout(), ops)
			return nil
		}),
	}
	cmd.Flags().StringVar(&status, "status", "", "only list active or inactive operators")
	parent.AddCommand(cmd)
}
