package match

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

type schemaMatcher struct {
	raw any

	once   sync.Once
	schema *jsonschema.Schema
	err    error
}

// Schema matches a JSON value that validates against a JSON Schema (draft
// 2020-12). schema may be a map, a struct, raw JSON bytes or a JSON string.
// A schema that fails to compile never matches.
func Schema(schema any) Matcher {
	return &schemaMatcher{raw: schema}
}

func (s *schemaMatcher) compile() (*jsonschema.Schema, error) {
	s.once.Do(func() {
		var schemaBytes []byte
		switch v := s.raw.(type) {
		case []byte:
			schemaBytes = v
		case string:
			schemaBytes = []byte(v)
		default:
			data, err := json.Marshal(v)
			if err != nil {
				s.err = fmt.Errorf("failed to marshal schema: %w", err)
				return
			}
			schemaBytes = data
		}

		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("schema.json", bytes.NewReader(schemaBytes)); err != nil {
			s.err = fmt.Errorf("failed to add schema resource: %w", err)
			return
		}
		s.schema, s.err = compiler.Compile("schema.json")
	})
	return s.schema, s.err
}

func (s *schemaMatcher) Match(actual any) bool {
	schema, err := s.compile()
	if err != nil {
		return false
	}
	data, ok := decodeJSON(actual)
	if !ok {
		return false
	}
	return schema.Validate(data) == nil
}
