package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// validateResponse checks raw against the schema's definition. A nil schema
// accepts anything. Failures are *ErrInvalidResponse.
func validateResponse(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}
	compiled, err := schema.compile()
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: err}
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if err := compiled.Validate(doc); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("does not match %s: %w", schema.Name, err)}
	}
	return nil
}

// compile builds the validator on first use and keeps it on the schema.
func (s *Schema) compile() (*jsonschema.Schema, error) {
	s.compileOnce.Do(func() {
		def, err := json.Marshal(s.Definition)
		if err != nil {
			s.compileErr = fmt.Errorf("schema %s: %w", s.Name, err)
			return
		}
		// The compiler wants the definition in its own number representation.
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
		if err != nil {
			s.compileErr = fmt.Errorf("schema %s: %w", s.Name, err)
			return
		}

		url := "mem://" + s.Name + ".json"
		c := jsonschema.NewCompiler()
		if err := c.AddResource(url, doc); err != nil {
			s.compileErr = fmt.Errorf("schema %s: %w", s.Name, err)
			return
		}
		s.compiled, s.compileErr = c.Compile(url)
	})
	return s.compiled, s.compileErr
}
