package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print a program in canonical S-expression form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readProgram(cmd, args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			node := p.SExpr()

			out := cmd.OutOrStdout()
			if flat, _ := cmd.Flags().GetBool("flat"); flat {
				_, err = fmt.Fprintln(out, node.String())
				return err
			}
			_, err = fmt.Fprintln(out, node.Pretty(GetConfig(cmd.Context()).Width))
			return err
		},
	}

	cmd.Flags().Int("width", 0, "line width for pretty printing")
	cmd.Flags().Bool("flat", false, "print everything on one line")

	return cmd
}

func newSymbolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "symbols <file>",
		Short: "Resolve a program and list its symbols",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readProgram(cmd, args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			resolved, err := newCompiler(cmd, args[0]).Resolve(p)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "Name", "Kind", "Type", "Depth"})
			for _, sym := range resolved.Symbols().All() {
				t.AppendRow(table.Row{int(sym.ID), sym.Name, sym.Kind.String(), sym.Type.String(), sym.Depth})
			}
			t.Render()
			return nil
		},
	}
}
