// Package query resolves positional, numeric id and name lookups against a loaded cache.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/at-ishikawa/systab/internal/syscalls"
	"github.com/spf13/pflag"
)

// Base is the numeric base a call id is written in.
type Base int

const (
	Base16 Base = 16
	Base10 Base = 10
)

var (
	_        pflag.Value = (*Base)(nil)
	allBases             = []Base{Base16, Base10}
)

func (b *Base) Set(val string) error {
	for _, base := range allBases {
		if val == strconv.Itoa(int(base)) {
			*b = base
			return nil
		}
	}
	return fmt.Errorf("invalid base: %s, possible values are %v", val, allBases)
}

func (b Base) String() string {
	return strconv.Itoa(int(b))
}

func (b *Base) Type() string {
	return "base"
}

// ParseIndex parses a cache position given on the command line.
func ParseIndex(text string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, &syscalls.LookupError{Query: text, Reason: "is not a valid entry"}
	}
	return i, nil
}

// ByIndex returns entries[i].
func ByIndex(entries []syscalls.Entry, i int) (syscalls.Entry, error) {
	if i < 0 || i >= len(entries) {
		return syscalls.Entry{}, &syscalls.LookupError{Query: strconv.Itoa(i), Reason: "is not a valid entry"}
	}
	return entries[i], nil
}

// ByID returns the first entry whose eax slot, read as hexadecimal, equals id read in base.
// Entries whose eax slot is not a number never match.
func ByID(entries []syscalls.Entry, id string, base Base) (syscalls.Entry, error) {
	want, err := parseNumber(id, base)
	if err != nil {
		return syscalls.Entry{}, &syscalls.LookupError{Query: id, Reason: fmt.Sprintf("is not a base %d rax/eax value", base)}
	}

	for _, entry := range entries {
		got, err := parseNumber(entry.ID(), Base16)
		if err != nil {
			continue
		}
		if got == want {
			return entry, nil
		}
	}
	return syscalls.Entry{}, &syscalls.LookupError{Query: id, Reason: "does not match any rax/eax register value"}
}

func parseNumber(text string, base Base) (uint64, error) {
	text = strings.TrimSpace(text)
	if base == Base16 {
		text = strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X")
	}
	return strconv.ParseUint(text, int(base), 64)
}

// Result is the ordered outcome of a name search.
type Result struct {
	Entries []syscalls.Entry
}

func (r Result) Count() int {
	return len(r.Entries)
}

// ByName returns every entry whose name contains substr, in cache order.
// No match is an empty result, not an error.
func ByName(entries []syscalls.Entry, substr string) Result {
	matches := make([]syscalls.Entry, 0)
	for _, entry := range entries {
		if strings.Contains(entry.Name(), substr) {
			matches = append(matches, entry)
		}
	}
	return Result{Entries: matches}
}
