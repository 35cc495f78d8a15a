package yaml

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/token"
)

func NewPathBuilder() *yaml.PathBuilder {
	// Use the goccy/go-yaml PathBuilder to create a new YAMLPath.
	return &yaml.PathBuilder{}
}

// Error represents a YAML error. It includes the original error, and either
// the [*token.Token] or the [*yaml.Path] where the error occurred.
type Error struct {
	Err    error
	Token  *token.Token
	Path   *yaml.Path
	Source []byte
}

func (e *Error) Error() string {
	msg := e.Err.Error()

	if e.Path != nil {
		msg = fmt.Sprintf("%s: %s", e.Path.String(), msg)

		if len(e.Source) > 0 {
			annotated, err := e.Path.AnnotateSource(e.Source, false)
			if err == nil {
				return msg + "\n" + strings.TrimRight(string(annotated), "\n")
			}
		}

		return msg
	}

	if e.Token != nil {
		pos := e.Token.Position

		return fmt.Sprintf("[%d:%d] %s", pos.Line, pos.Column, msg)
	}

	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorWrapper attaches shared context (e.g. the source document) to any
// [Error] passing through it.
type ErrorWrapper struct {
	Opts []ErrorOpt
}

func NewErrorWrapper(opts ...ErrorOpt) *ErrorWrapper {
	return &ErrorWrapper{
		Opts: opts,
	}
}

// Wrap wraps an error with additional context for [Error]s.
// If the error isn't an [Error], it returns the original error unmodified.
func (ew *ErrorWrapper) Wrap(err error, opts ...ErrorOpt) error {
	if err == nil {
		return nil
	}

	var yamlErr *Error
	if errors.As(err, &yamlErr) {
		for _, opt := range ew.Opts {
			opt(yamlErr)
		}

		for _, opt := range opts {
			opt(yamlErr)
		}

		return yamlErr
	}

	return err
}

type ErrorOpt func(*Error)

// WithSource sets the source document used to annotate path errors.
func WithSource(data []byte) ErrorOpt {
	return func(e *Error) {
		e.Source = data
	}
}
