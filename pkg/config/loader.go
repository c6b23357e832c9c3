package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Common errors for fixture loading and saving.
var (
	ErrFileNotFound     = errors.New("fixture file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidJSON      = errors.New("invalid JSON syntax")
	ErrInvalidYAML      = errors.New("invalid YAML syntax")
	ErrEmptyFile        = errors.New("fixture file is empty")
	ErrNoFixtures       = errors.New("no fixture files matched")
)

// LoadFile reads a Collection from a JSON or YAML file. The format is chosen
// by extension (.yaml, .yml for YAML, otherwise JSON).
func LoadFile(path string) (*Collection, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	if isYAML(path) {
		c, err := ParseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return c, nil
	}
	c, err := ParseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// LoadGlob loads every fixture matching pattern (doublestar syntax, so "**"
// recurses) and merges them in lexical path order.
func LoadGlob(pattern string) (*Collection, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("expanding glob pattern: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFixtures, pattern)
	}
	sort.Strings(matches)

	collections := make([]*Collection, 0, len(matches))
	for _, path := range matches {
		c, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	return Merge(collections...), nil
}

// Load loads path as a single file, or as a glob when it contains glob
// metacharacters.
func Load(path string) (*Collection, error) {
	if strings.ContainsAny(path, "*?[{") {
		return LoadGlob(path)
	}
	return LoadFile(path)
}

// Merge concatenates the routes of every collection in order. Options of
// later collections override earlier ones field by field.
func Merge(collections ...*Collection) *Collection {
	out := &Collection{Version: CurrentVersion}
	var names []string
	for _, c := range collections {
		if c == nil {
			continue
		}
		if c.Name != "" {
			names = append(names, c.Name)
		}
		out.Routes = append(out.Routes, c.Routes...)
		out.Options = mergeOptions(out.Options, c.Options)
	}
	out.Name = strings.Join(names, "+")
	return out
}

func mergeOptions(base, overlay *Options) *Options {
	if overlay == nil {
		return base
	}
	if base == nil {
		o := *overlay
		return &o
	}
	merged := *base
	if overlay.BaseURL != "" {
		merged.BaseURL = overlay.BaseURL
	}
	if overlay.DelayResponse != 0 {
		merged.DelayResponse = overlay.DelayResponse
	}
	if overlay.Timeout != 0 {
		merged.Timeout = overlay.Timeout
	}
	if overlay.TimeoutErrorMessage != "" {
		merged.TimeoutErrorMessage = overlay.TimeoutErrorMessage
	}
	if overlay.OnNoMatch != "" {
		merged.OnNoMatch = overlay.OnNoMatch
	}
	merged.AcceptAnyStatus = merged.AcceptAnyStatus || overlay.AcceptAnyStatus
	if len(overlay.KnownRouteParams) > 0 {
		params := make(map[string]string, len(base.KnownRouteParams)+len(overlay.KnownRouteParams))
		for k, v := range base.KnownRouteParams {
			params[k] = v
		}
		for k, v := range overlay.KnownRouteParams {
			params[k] = v
		}
		merged.KnownRouteParams = params
	}
	return &merged
}

// ParseJSON parses and validates a JSON fixture.
func ParseJSON(data []byte) (*Collection, error) {
	expanded := []byte(ExpandEnvVars(string(data)))
	if !json.Valid(expanded) {
		return nil, ErrInvalidJSON
	}
	var c Collection
	if err := json.Unmarshal(expanded, &c); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if result := Validate(&c); !result.IsValid() {
		return nil, fmt.Errorf("validation failed: %w", result)
	}
	return &c, nil
}

// ParseYAML parses and validates a YAML fixture.
func ParseYAML(data []byte) (*Collection, error) {
	var c Collection
	if err := yaml.Unmarshal([]byte(ExpandEnvVars(string(data))), &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	if result := Validate(&c); !result.IsValid() {
		return nil, fmt.Errorf("validation failed: %w", result)
	}
	return &c, nil
}

// ToJSON marshals a Collection to indented JSON with a trailing newline.
func ToJSON(c *Collection) ([]byte, error) {
	if c == nil {
		return nil, errors.New("collection cannot be nil")
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal to JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// ToYAML marshals a Collection to YAML.
func ToYAML(c *Collection) ([]byte, error) {
	if c == nil {
		return nil, errors.New("collection cannot be nil")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal to YAML: %w", err)
	}
	return data, nil
}

// SaveFile writes c to path with an atomic rename, choosing the format by
// extension. Parent directories are created as needed.
func SaveFile(path string, c *Collection) error {
	if c == nil {
		return errors.New("collection cannot be nil")
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = ToYAML(c)
	} else {
		data, err = ToJSON(c)
	}
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// envVarPattern matches ${VAR_NAME} or ${VAR_NAME:-default}
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// ExpandEnvVars expands ${VAR_NAME} and ${VAR_NAME:-default} in input.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		submatch := envVarPattern.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}
		if val := os.Getenv(submatch[1]); val != "" {
			return val
		}
		if len(submatch) >= 3 {
			return submatch[2]
		}
		return ""
	})
}
