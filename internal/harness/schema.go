package harness

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "https://github.com/roach88/launchcheck/schemas/testfile-v1.json"

// JSONSchema produces the JSON Schema (Draft 2020-12) for test files,
// reflected from TestFile.
func JSONSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = false

	s := r.Reflect(&TestFile{})
	s.ID = schemaURL
	s.Title = "launchcheck test file v1"
	s.Description = "Schema for declarative launch test description generators"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}

var compiledSchema = sync.OnceValues(func() (*sjsonschema.Schema, error) {
	schemaJSON, err := JSONSchema()
	if err != nil {
		return nil, err
	}
	var schemaDoc any
	if err := json.Unmarshal(schemaJSON, &schemaDoc); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	c := sjsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, schemaDoc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	sch, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return sch, nil
})

// validateSchema checks the decoded document against JSONSchema and reports
// the first violation.
func validateSchema(tf *TestFile) error {
	sch, err := compiledSchema()
	if err != nil {
		return &LoadError{Code: ErrCodeGeneric, File: tf.path, Message: err.Error(), Err: err}
	}

	data, err := json.Marshal(tf)
	if err != nil {
		return &LoadError{Code: ErrCodeSchema, File: tf.path, Message: fmt.Sprintf("marshal for schema validation: %v", err), Err: err}
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return &LoadError{Code: ErrCodeSchema, File: tf.path, Message: fmt.Sprintf("unmarshal document: %v", err), Err: err}
	}

	err = sch.Validate(doc)
	if err == nil {
		return nil
	}

	var ve *sjsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &LoadError{Code: ErrCodeSchema, File: tf.path, Message: err.Error(), Err: err}
	}
	first := flattenValidationErrors(ve)[0]
	return &LoadError{
		Code:    ErrCodeSchema,
		File:    tf.path,
		Field:   strings.Join(first.InstanceLocation, "."),
		Message: fmt.Sprintf("%v", first.ErrorKind),
		Err:     err,
	}
}

// flattenValidationErrors collects leaf validation errors depth-first.
func flattenValidationErrors(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var flat []*sjsonschema.ValidationError
	for _, cause := range ve.Causes {
		flat = append(flat, flattenValidationErrors(cause)...)
	}
	return flat
}
