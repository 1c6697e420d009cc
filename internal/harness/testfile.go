package harness

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/launchcheck/internal/ir"
	"github.com/roach88/launchcheck/internal/launch"
)

// TestFile is a declarative test description generator.
type TestFile struct {
	// Name identifies the generator in labels and reports.
	Name string `yaml:"name" json:"name" jsonschema:"required,minLength=1"`

	// Description explains what the test checks.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Generator declares parameters, sweeps and the action tree.
	Generator GeneratorSpec `yaml:"generate_test_description" json:"generate_test_description" jsonschema:"required"`

	// path is where the file was loaded from; includes resolve against it.
	path string
}

// Path returns the file the test was loaded from.
func (tf *TestFile) Path() string { return tf.path }

// GeneratorSpec is the body of generate_test_description.
type GeneratorSpec struct {
	// Params are the formal parameter names, in declaration order.
	Params []string `yaml:"params,omitempty" json:"params,omitempty" jsonschema:"uniqueItems=true"`

	// Parametrize lists sweeps in declaration order.
	Parametrize []SweepSpec `yaml:"parametrize,omitempty" json:"parametrize,omitempty"`

	// Description is the action tree template.
	Description []EntrySpec `yaml:"description" json:"description"`
}

// SweepSpec declares the literal values to try for one parameter.
type SweepSpec struct {
	Name   string `yaml:"name" json:"name" jsonschema:"required,minLength=1"`
	Values []any  `yaml:"values" json:"values" jsonschema:"required"`
}

// EntrySpec is one node of the action tree template.
// Exactly one form applies; see the package documentation.
type EntrySpec struct {
	ReadyToTest bool           `yaml:"ready_to_test,omitempty" json:"ready_to_test,omitempty"`
	Action      string         `yaml:"action,omitempty" json:"action,omitempty"`
	Args        map[string]any `yaml:"args,omitempty" json:"args,omitempty"`
	Timer       *float64       `yaml:"timer,omitempty" json:"timer,omitempty"`
	Include     string         `yaml:"include,omitempty" json:"include,omitempty"`
	Actions     []EntrySpec    `yaml:"actions,omitempty" json:"actions,omitempty"`
	If          string         `yaml:"if,omitempty" json:"if,omitempty"`
	Unless      string         `yaml:"unless,omitempty" json:"unless,omitempty"`
}

// Load error codes.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeParseFailed   = "E004" // YAML/JSON decode failed
	ErrCodeNotFound      = "E005" // Path not found
	ErrCodeBuildFailed   = "E006" // CUE build failed
	ErrCodeUnsupported   = "E008" // Unsupported file extension
	ErrCodeSchema        = "E101" // Document violates the JSON Schema
	ErrCodeInvalidEntry  = "E102" // Malformed description entry
	ErrCodeInvalidSweep  = "E103" // Sweep value is not a valid literal
	ErrCodeIncludeFailed = "E104" // Included file could not be loaded
)

// LoadError reports why a test file could not be loaded.
type LoadError struct {
	Code    string
	File    string
	Field   string // location inside the document, e.g. "generate_test_description.description[1]"
	Line    int    // 0 if unknown
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString(e.File)
	if e.Line > 0 {
		fmt.Fprintf(&b, ":%d", e.Line)
	}
	fmt.Fprintf(&b, ": %s", e.Code)
	if e.Field != "" {
		fmt.Fprintf(&b, " %s", e.Field)
	}
	fmt.Fprintf(&b, ": %s", e.Message)
	return b.String()
}

func (e *LoadError) Unwrap() error { return e.Err }

// LoadErrorCode returns the code of a *LoadError in err's chain, or "".
func LoadErrorCode(err error) string {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}

// LoadTestFile reads, decodes and checks a test file. The format is chosen by
// extension: .yaml and .yml are YAML, .cue is CUE.
func LoadTestFile(path string) (*TestFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		code := ErrCodeGeneric
		if os.IsNotExist(err) {
			code = ErrCodeNotFound
		}
		return nil, &LoadError{Code: code, File: path, Message: "failed to read test file", Err: err}
	}

	var tf *TestFile
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		tf, err = decodeYAML(path, data)
	case ".cue":
		tf, err = decodeCUE(path, data)
	default:
		return nil, &LoadError{
			Code:    ErrCodeUnsupported,
			File:    path,
			Message: fmt.Sprintf("unsupported test file extension %q (want .yaml, .yml or .cue)", ext),
		}
	}
	if err != nil {
		return nil, err
	}
	tf.path = path

	if err := validateSchema(tf); err != nil {
		return nil, err
	}
	if err := checkDomain(tf); err != nil {
		return nil, err
	}
	return tf, nil
}

// decodeYAML parses YAML with strict field validation (catches typos like
// "parametrise:" vs "parametrize:").
func decodeYAML(path string, data []byte) (*TestFile, error) {
	var tf TestFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&tf); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, File: path, Message: fmt.Sprintf("failed to parse YAML: %v", err), Err: err}
	}
	return &tf, nil
}

// decodeCUE evaluates a CUE document, exports it to JSON and decodes that
// with the same strictness as YAML.
func decodeCUE(path string, data []byte) (*TestFile, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, cueLoadError(path, "building CUE value", err)
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, cueLoadError(path, "CUE value is not concrete", err)
	}

	js, err := value.MarshalJSON()
	if err != nil {
		return nil, cueLoadError(path, "exporting CUE value", err)
	}

	var tf TestFile
	dec := json.NewDecoder(bytes.NewReader(js))
	dec.DisallowUnknownFields()
	dec.UseNumber()
	if err := dec.Decode(&tf); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, File: path, Message: fmt.Sprintf("failed to decode CUE document: %v", err), Err: err}
	}
	return &tf, nil
}

func cueLoadError(path, what string, err error) *LoadError {
	le := &LoadError{
		Code:    ErrCodeBuildFailed,
		File:    path,
		Message: fmt.Sprintf("%s: %s", what, strings.TrimSpace(cueerrors.Details(err, nil))),
		Err:     err,
	}
	for _, pos := range cueerrors.Positions(err) {
		if pos.IsValid() {
			le.Line = pos.Line()
			break
		}
	}
	return le
}

// checkDomain applies the rules the schema cannot express.
func checkDomain(tf *TestFile) error {
	for i, s := range tf.Generator.Parametrize {
		for j, v := range s.Values {
			if _, err := ir.FromAny(v); err != nil {
				return &LoadError{
					Code:    ErrCodeInvalidSweep,
					File:    tf.path,
					Field:   fmt.Sprintf("generate_test_description.parametrize[%d].values[%d]", i, j),
					Message: err.Error(),
					Err:     err,
				}
			}
		}
	}
	return checkEntries(tf.path, "generate_test_description.description", tf.Generator.Description)
}

func checkEntries(file, field string, entries []EntrySpec) error {
	for i := range entries {
		if err := checkEntry(file, fmt.Sprintf("%s[%d]", field, i), &entries[i]); err != nil {
			return err
		}
	}
	return nil
}

func checkEntry(file, field string, e *EntrySpec) error {
	fail := func(format string, args ...any) error {
		return &LoadError{Code: ErrCodeInvalidEntry, File: file, Field: field, Message: fmt.Sprintf(format, args...)}
	}

	forms := 0
	if e.ReadyToTest {
		forms++
	}
	if e.Action != "" {
		forms++
	}
	if e.Timer != nil {
		forms++
	}
	if e.Include != "" {
		forms++
	}
	switch {
	case forms > 1:
		return fail("entry must have exactly one of ready_to_test, action, timer, include")
	case forms == 0 && e.Actions == nil:
		return fail("entry must be one of ready_to_test, action, timer, include, or a group of actions")
	}

	if e.ReadyToTest && (e.If != "" || e.Unless != "" || e.Actions != nil || e.Args != nil) {
		return fail("ready_to_test takes no arguments, conditions or nested actions")
	}
	if e.Args != nil && e.Action == "" {
		return fail("args are only allowed on an action")
	}
	if (e.Action != "" || e.Include != "") && e.Actions != nil {
		return fail("actions are only allowed on a timer or group")
	}
	if e.Timer != nil && *e.Timer <= 0 {
		return fail("timer period must be positive, got %v", *e.Timer)
	}
	if e.If != "" && e.Unless != "" {
		return fail("entry cannot have both if and unless")
	}
	if _, err := conditionFor(e); err != nil {
		return fail("%v", err)
	}
	if e.Args != nil {
		if _, err := ir.ObjectFromAny(e.Args); err != nil {
			return fail("args: %v", err)
		}
	}

	return checkEntries(file, field+".actions", e.Actions)
}

// conditionFor compiles the entry's if/unless expression, if any.
func conditionFor(e *EntrySpec) (*launch.Condition, error) {
	switch {
	case e.If != "":
		return launch.If(e.If)
	case e.Unless != "":
		return launch.Unless(e.Unless)
	default:
		return nil, nil
	}
}
