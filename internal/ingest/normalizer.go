// Package ingest normalizes upstream syscall table documents into syscalls.Entry sequences.
package ingest

import (
	"fmt"

	"github.com/at-ishikawa/systab/internal/syscalls"
	"github.com/spf13/pflag"
)

// Normalizer turns a raw source document into entries in source order.
// Any malformed document or row fails the whole call with a *syscalls.InputError.
type Normalizer interface {
	Normalize(doc []byte) ([]syscalls.Entry, error)
}

// Format is the upstream document format.
type Format string

const (
	FormatJSON Format = "json"
	FormatHTML Format = "html"
)

var (
	_          pflag.Value = (*Format)(nil)
	allFormats             = []Format{FormatJSON, FormatHTML}
)

func (f *Format) Set(val string) error {
	for _, format := range allFormats {
		if val == string(format) {
			*f = format
			return nil
		}
	}
	return fmt.Errorf("invalid source format: %s, possible values are %v", val, allFormats)
}

func (f Format) String() string {
	return string(f)
}

func (f *Format) Type() string {
	return "format"
}

type options struct {
	tableID string
}

type Option func(*options)

// WithTableID sets the id attribute of the HTML table holding the syscalls.
func WithTableID(id string) Option {
	return func(opts *options) {
		opts.tableID = id
	}
}

// NewNormalizer returns the normalizer for format.
func NewNormalizer(format Format, opts ...Option) (Normalizer, error) {
	o := options{
		tableID: DefaultTableID,
	}
	for _, opt := range opts {
		opt(&o)
	}

	switch format {
	case FormatJSON:
		return JSONNormalizer{}, nil
	case FormatHTML:
		return HTMLNormalizer{TableID: o.tableID}, nil
	}
	return nil, fmt.Errorf("unknown source format %q", format)
}
