package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/getmockd/mockadapter/pkg/cli/internal/output"
	"github.com/getmockd/mockadapter/pkg/config"
)

type routeSummary struct {
	Index   int    `json:"index"`
	Name    string `json:"name,omitempty"`
	Method  string `json:"method"`
	Route   string `json:"route"`
	Outcome string `json:"outcome"`
}

var routesGroup bool

var routesCmd = &cobra.Command{
	Use:   "routes <fixture>",
	Short: "List the routes of a fixture",
	Long: `List the routes of a fixture in registration order, which is the order
the adapter tries them in.`,
	Example: `  mockadapter routes fixtures/users.yaml
  mockadapter routes fixtures/users.yaml --group`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(args[0])
		if err != nil {
			return fmt.Errorf("failed to load fixture: %w", err)
		}

		routes := make([]routeSummary, len(c.Routes))
		for i, r := range c.Routes {
			desc := r.Describe()
			_, target, _ := strings.Cut(desc, " ")
			routes[i] = routeSummary{
				Index:   i,
				Name:    r.Name,
				Method:  strings.ToUpper(r.Method),
				Route:   target,
				Outcome: r.Outcome(),
			}
		}

		return printResult(cmd, routes, func() {
			if len(routes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No routes")
				return
			}
			if routesGroup {
				printGroupedRoutes(cmd, routes)
				return
			}
			printRouteTable(cmd, routes, true)
		})
	},
}

func printRouteTable(cmd *cobra.Command, routes []routeSummary, withMethod bool) {
	w := output.Table(cmd.OutOrStdout())
	if withMethod {
		fmt.Fprintln(w, "#\tMETHOD\tROUTE\tREPLY\tNAME")
	} else {
		fmt.Fprintln(w, "#\tROUTE\tREPLY\tNAME")
	}
	for _, r := range routes {
		if withMethod {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.Index, r.Method, r.Route, r.Outcome, r.Name)
		} else {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.Index, r.Route, r.Outcome, r.Name)
		}
	}
	_ = w.Flush()
}

// printGroupedRoutes prints one table per method, methods sorted by name.
func printGroupedRoutes(cmd *cobra.Command, routes []routeSummary) {
	groups := map[string][]routeSummary{}
	for _, r := range routes {
		groups[r.Method] = append(groups[r.Method], r)
	}
	methods := make([]string, 0, len(groups))
	for m := range groups {
		methods = append(methods, m)
	}
	sort.Strings(methods)

	title := cases.Title(language.English)
	for i, m := range methods {
		if i > 0 {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", title.String(strings.ToLower(m)))
		printRouteTable(cmd, groups[m], false)
	}
}

func init() {
	routesCmd.Flags().BoolVar(&routesGroup, "group", false, "Group routes by method")
	rootCmd.AddCommand(routesCmd)
}
