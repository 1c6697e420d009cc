package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/launchcheck/internal/ir"
)

// testFileExts are the extensions collectTestFiles picks up from directories.
var testFileExts = map[string]bool{".yaml": true, ".yml": true, ".cue": true}

// collectTestFiles expands paths into test files. Files are taken as given;
// directories are walked for .yaml, .yml and .cue files, skipping hidden
// directories. filter, if set, is a glob matched against the
// file name without extension.
func collectTestFiles(paths []string, filter string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("test path not found: %s", p)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}

			ext := filepath.Ext(path)
			if !testFileExts[ext] {
				return nil
			}
			if filter != "" {
				name := strings.TrimSuffix(d.Name(), ext)
				matched, err := filepath.Match(filter, name)
				if err != nil {
					return fmt.Errorf("invalid filter pattern: %w", err)
				}
				if !matched {
					return nil
				}
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// parseFixedArgs parses name=value pairs. Values are YAML scalars, so
// rate=10 binds an integer and mode=sim a string; quote to force a string
// (rate='10').
func parseFixedArgs(pairs []string) (ir.IRObject, error) {
	args := ir.IRObject{}
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --fixed %q: want name=value", pair)
		}
		if _, dup := args[name]; dup {
			return nil, fmt.Errorf("duplicate --fixed argument %q", name)
		}

		var decoded any
		if err := yaml.Unmarshal([]byte(raw), &decoded); err != nil {
			return nil, fmt.Errorf("invalid --fixed %q: %w", pair, err)
		}
		if decoded == nil {
			decoded = raw
		}
		v, err := ir.FromAny(decoded)
		if err != nil {
			return nil, fmt.Errorf("invalid --fixed %q: %w", pair, err)
		}
		args[name] = v
	}
	return args, nil
}
