package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockadapter/pkg/config"
)

type validateResult struct {
	Path   string   `json:"path"`
	Valid  bool     `json:"valid"`
	Routes int      `json:"routes"`
	Errors []string `json:"errors,omitempty"`
}

var validateCmd = &cobra.Command{
	Use:   "validate <fixture>...",
	Short: "Validate fixture files",
	Long: `Validate fixture files without running anything.

Each argument is a file or a glob ("fixtures/**/*.yaml"); files matched by a
glob are merged before validation. Environment variables in the form ${VAR}
or ${VAR:-default} are expanded first.`,
	Example: `  mockadapter validate fixtures/users.yaml
  mockadapter validate 'fixtures/**/*.yaml' --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results := make([]validateResult, 0, len(args))
		failed := 0
		for _, path := range args {
			r := validateFixture(path)
			if !r.Valid {
				failed++
			}
			results = append(results, r)
		}

		err := printResult(cmd, results, func() {
			out := cmd.OutOrStdout()
			for _, r := range results {
				if r.Valid {
					fmt.Fprintf(out, "✓ %s (%d routes)\n", r.Path, r.Routes)
					continue
				}
				fmt.Fprintf(out, "✗ %s\n", r.Path)
				for _, msg := range r.Errors {
					fmt.Fprintf(out, "    %s\n", msg)
				}
			}
		})
		if err != nil {
			return err
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d fixtures are invalid", failed, len(results))
		}
		return nil
	},
}

func validateFixture(path string) validateResult {
	r := validateResult{Path: path}
	c, err := config.Load(path)
	if err != nil {
		var vr *config.ValidationResult
		if errors.As(err, &vr) {
			for _, e := range vr.Errors {
				r.Errors = append(r.Errors, e.Error())
			}
		} else {
			r.Errors = []string{err.Error()}
		}
		return r
	}
	r.Valid = true
	r.Routes = len(c.Routes)
	return r
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
