package ports

import (
	"io"

	"gracedbinfo/domain/posterior"
)

// PosteriorParser turns a samples stream into a column table. Implementations
// only parse; column aliases and interpretation happen downstream.
type PosteriorParser interface {
	Parse(r io.Reader) (*posterior.Table, error)
}

// PosteriorSource opens and parses a samples file by path
type PosteriorSource interface {
	Load(path string) (*posterior.Table, error)
}

// ScalarSource reads an optional single-value file such as a Bayes factor.
// A nil scalar with a nil error means the file was not supplied.
type ScalarSource interface {
	LoadScalar(label, path string) (*posterior.Scalar, error)
}
