package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockadapter/pkg/config"
	"github.com/getmockd/mockadapter/pkg/openapi"
)

var (
	importOutput  string
	importBaseURL string
	importName    string
)

var importCmd = &cobra.Command{
	Use:   "import <openapi-file>",
	Short: "Create a fixture from an OpenAPI 3 document",
	Long: `Create a fixture with one route per operation of an OpenAPI 3 document. Each
route replies with the operation's preferred success response and its example.
Path parameters become known route params.

Without --output the fixture is written to stdout as YAML (JSON with --json).`,
	Example: `  mockadapter import petstore.yaml -o fixtures/petstore.yaml
  mockadapter import petstore.yaml --base-url http://localhost:8080`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openapi.ImportFile(args[0], openapi.Options{BaseURL: importBaseURL, Name: importName})
		if err != nil {
			return fmt.Errorf("failed to import %s: %w", args[0], err)
		}

		if importOutput != "" {
			if err := config.SaveFile(importOutput, c); err != nil {
				return err
			}
			return printResult(cmd, map[string]any{"path": importOutput, "routes": len(c.Routes)}, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d routes to %s\n", len(c.Routes), importOutput)
			})
		}

		var data []byte
		if jsonOutput {
			data, err = config.ToJSON(c)
		} else {
			data, err = config.ToYAML(c)
		}
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	importCmd.Flags().StringVarP(&importOutput, "output", "o", "", "Write the fixture to this file (.yaml, .yml or .json)")
	importCmd.Flags().StringVar(&importBaseURL, "base-url", "", "Base URL (default: the document's first server)")
	importCmd.Flags().StringVar(&importName, "name", "", "Fixture name (default: the document title)")
	rootCmd.AddCommand(importCmd)
}
