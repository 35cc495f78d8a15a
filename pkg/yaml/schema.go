package yaml

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/invopop/jsonschema"
)

// SchemaGenerator generates JSON schemas for document types.
// Uses [github.com/invopop/jsonschema].
type SchemaGenerator struct {
	obj      any
	packages []string
}

// NewSchemaGenerator creates a [SchemaGenerator] for the given object.
// Go doc comments from the listed package import paths are included as
// schema descriptions, so the packages must live in the current module.
func NewSchemaGenerator(obj any, packages ...string) *SchemaGenerator {
	return &SchemaGenerator{
		obj:      obj,
		packages: packages,
	}
}

// Generate reflects the object into an indented JSON schema document.
func (g *SchemaGenerator) Generate() ([]byte, error) {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
	}

	if len(g.packages) > 0 {
		root, modPath, err := findModuleRoot()
		if err != nil {
			return nil, err
		}

		for _, pkg := range g.packages {
			rel := strings.TrimPrefix(pkg, modPath)

			err := r.AddGoComments(pkg, filepath.Join(root, filepath.FromSlash(rel)))
			if err != nil {
				return nil, fmt.Errorf("add comments for %s: %w", pkg, err)
			}
		}
	}

	jss := r.Reflect(g.obj)

	data, err := json.MarshalIndent(jss, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return append(data, '\n'), nil
}

// findModuleRoot walks up from the working directory to the nearest go.mod
// and returns its directory and module path.
func findModuleRoot() (string, string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		goMod := filepath.Join(dir, "go.mod")

		_, err := os.Stat(goMod)
		if err == nil {
			modPath, err := readModulePath(goMod)
			if err != nil {
				return "", "", err
			}

			return dir, modPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", errors.New("go.mod not found in any parent directory")
		}

		dir = parent
	}
}

func readModulePath(goMod string) (string, error) {
	f, err := os.Open(goMod) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return "", fmt.Errorf("open go.mod: %w", err)
	}
	defer f.Close() //nolint:errcheck // Read-only file.

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if modPath, ok := strings.CutPrefix(line, "module "); ok {
			return strings.TrimSpace(modPath), nil
		}
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read go.mod: %w", err)
	}

	return "", fmt.Errorf("%s: no module directive", goMod)
}
