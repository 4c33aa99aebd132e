package cli

import (
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"github.com/strager/minipy"
	"golang.org/x/sync/errgroup"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Resolve names and type check programs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := checkFiles(cmd, args)
			renderCheckResults(cmd.OutOrStdout(), results)

			failed := 0
			for _, r := range results {
				if r.err != nil {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(results))
			}
			return nil
		},
	}
}

type checkResult struct {
	file       string
	statements int
	symbols    int
	err        error
}

// status names the phase that failed, or "ok".
func (r checkResult) status() string {
	if r.err == nil {
		return "ok"
	}
	var phaseErr *minipy.PhaseError
	if errors.As(r.err, &phaseErr) {
		return string(phaseErr.Phase)
	}
	return "read"
}

// checkFiles checks every file concurrently. Results keep the order of
// files.
func checkFiles(cmd *cobra.Command, files []string) []checkResult {
	results := make([]checkResult, len(files))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, file := range files {
		g.Go(func() error {
			results[i] = checkFile(cmd, file)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func checkFile(cmd *cobra.Command, file string) checkResult {
	result := checkResult{file: file}
	p, err := readProgram(cmd, file)
	if err != nil {
		result.err = err
		return result
	}
	result.statements = len(p.Body)

	checked, err := newCompiler(cmd, file).Analyze(p)
	if err != nil {
		result.err = err
		return result
	}
	result.symbols = checked.Symbols().Len()
	return result
}

func renderCheckResults(w io.Writer, results []checkResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	t.AppendHeader(table.Row{"File", "Status", "Statements", "Symbols", "Error"})
	for _, r := range results {
		message := ""
		if r.err != nil {
			message = r.err.Error()
		}
		t.AppendRow(table.Row{r.file, r.status(), r.statements, r.symbols, message})
	}
	t.Render()
}
