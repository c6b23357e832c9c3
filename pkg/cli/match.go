package cli

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/getmockd/mockadapter/pkg/adapter"
	"github.com/getmockd/mockadapter/pkg/config"
)

var (
	matchFixture string
	matchData    string
	matchHeaders []string
)

type matchResult struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Status  int               `json:"status,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    string            `json:"body,omitempty"`
	Error   string            `json:"error,omitempty"`
	Kind    string            `json:"kind,omitempty"`
}

var matchCmd = &cobra.Command{
	Use:   "match <method> <url>",
	Short: "Send a request through a fixture and print the outcome",
	Long: `Build an adapter from a fixture, send one request through it, and print the
mocked response or the rejection. Passthrough routes perform real network
requests.`,
	Example: `  mockadapter match -f fixtures/users.yaml GET https://api.example.com/users/1
  mockadapter match -f fixtures/users.yaml POST /users -d '{"name":"ada"}' -H 'Content-Type: application/json'`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(matchFixture)
		if err != nil {
			return fmt.Errorf("failed to load fixture: %w", err)
		}
		client := &http.Client{
			// Mocked redirects are reported, not followed.
			CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		}
		if _, err := config.NewAdapter(client, c, newLogger(cmd)); err != nil {
			return err
		}

		method := strings.ToUpper(args[0])
		target := resolveURL(args[1], c)

		var body io.Reader
		if matchData != "" {
			body = strings.NewReader(matchData)
		}
		req, err := http.NewRequestWithContext(cmd.Context(), method, target, body)
		if err != nil {
			return fmt.Errorf("invalid request: %w", err)
		}
		for _, h := range matchHeaders {
			key, value, ok := strings.Cut(h, ":")
			if !ok {
				return fmt.Errorf("invalid header %q: expected 'Key: Value'", h)
			}
			req.Header.Add(strings.TrimSpace(key), strings.TrimSpace(value))
		}

		result := matchResult{Method: method, URL: target}
		resp, doErr := client.Do(req)
		if doErr == nil {
			defer resp.Body.Close()
			data, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("failed to read response: %w", err)
			}
			result.Status = resp.StatusCode
			result.Headers = flattenHeader(resp.Header)
			result.Body = string(data)
		} else {
			var aerr *adapter.Error
			if !errors.As(doErr, &aerr) {
				return doErr
			}
			result.Error = aerr.Message
			result.Kind = aerr.Kind.String()
			if aerr.Response != nil {
				result.Status = aerr.Response.Status
				result.Headers = aerr.Response.Headers
				data, _ := aerr.Response.Body()
				result.Body = string(data)
			}
		}

		if err := printResult(cmd, result, func() { printMatch(cmd, result) }); err != nil {
			return err
		}
		if result.Error != "" {
			return fmt.Errorf("%s error: %s", cases.Title(language.English).String(result.Kind), result.Error)
		}
		return nil
	},
}

// resolveURL joins a relative target onto the fixture's base URL.
func resolveURL(target string, c *config.Collection) string {
	if strings.Contains(target, "://") || c.Options == nil || c.Options.BaseURL == "" {
		return target
	}
	return strings.TrimSuffix(c.Options.BaseURL, "/") + "/" + strings.TrimPrefix(target, "/")
}

func flattenHeader(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = strings.Join(v, ", ")
	}
	return out
}

func printMatch(cmd *cobra.Command, r matchResult) {
	out := cmd.OutOrStdout()
	if r.Status == 0 {
		fmt.Fprintf(out, "%s %s: no response\n", r.Method, r.URL)
		return
	}
	fmt.Fprintf(out, "%d %s\n", r.Status, http.StatusText(r.Status))
	keys := make([]string, 0, len(r.Headers))
	for k := range r.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(out, "%s: %s\n", k, r.Headers[k])
	}
	if r.Body != "" {
		fmt.Fprintf(out, "\n%s\n", r.Body)
	}
}

func init() {
	matchCmd.Flags().StringVarP(&matchFixture, "fixture", "f", "", "Fixture file or glob")
	matchCmd.Flags().StringVarP(&matchData, "data", "d", "", "Request body")
	matchCmd.Flags().StringArrayVarP(&matchHeaders, "header", "H", nil, "Request header 'Key: Value' (repeatable)")
	_ = matchCmd.MarkFlagRequired("fixture")
	rootCmd.AddCommand(matchCmd)
}
