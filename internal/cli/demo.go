package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/strager/minipy"
)

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Translate the built-in demo program",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := minipy.DemoProgram()
			if show, _ := cmd.Flags().GetBool("sexpr"); show {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), p.SExpr().Pretty(GetConfig(cmd.Context()).Width))
				return err
			}

			python, err := newCompiler(cmd, "").Compile(p)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), python)
			return err
		},
	}

	cmd.Flags().Bool("sexpr", false, "print the program as an S-expression instead")

	return cmd
}
