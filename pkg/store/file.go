package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/recwise/recrules/api"
	"github.com/recwise/recrules/api/v1beta1/rulesets"
	"github.com/recwise/recrules/pkg/rule"
)

// File is a [Store] backed by a RuleSet document on disk.
type File struct {
	path string
}

var _ Store = (*File)(nil)

// NewFile creates a file-backed store at the given path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the path of the backing document.
func (f *File) Path() string {
	return f.path
}

func (f *File) Get(_ context.Context) ([]rule.Rule, bool, error) {
	data, err := api.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read rule set: %w", err)
	}

	rs, err := rulesets.Load(data)
	if err != nil {
		return nil, false, fmt.Errorf("load rule set: %w", err)
	}

	if len(rs.Rules) == 0 {
		return nil, false, nil
	}

	return rs.Rules, true, nil
}

func (f *File) Set(_ context.Context, rules []rule.Rule) error {
	rs := rulesets.New()
	rs.Rules = rules

	data, err := rs.MarshalYAML()
	if err != nil {
		return fmt.Errorf("marshal rule set: %w", err)
	}

	// Skip the write when the document is already up to date. Without
	// this, persisting after a watch-triggered reload would fire another
	// file event and loop.
	current, err := os.ReadFile(f.path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err == nil && bytes.Equal(current, data) {
		slog.Debug("rule set unchanged, skipping write",
			slog.String("path", f.path),
		)

		return nil
	}

	err = api.WriteFile(f.path, data)
	if err != nil {
		return fmt.Errorf("write rule set: %w", err)
	}

	return nil
}

func (f *File) Clear(_ context.Context) error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove rule set: %w", err)
	}

	return nil
}
