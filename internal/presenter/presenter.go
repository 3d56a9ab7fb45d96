// Package presenter renders resolved syscall entries with the labels of the active ABI.
package presenter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/at-ishikawa/systab/internal/abi"
	"github.com/at-ishikawa/systab/internal/query"
	"github.com/at-ishikawa/systab/internal/syscalls"
	"github.com/fatih/color"
	"github.com/spf13/pflag"
)

// Output is the rendering style.
type Output string

const (
	OutputTable Output = "table"
	OutputJSON  Output = "json"
)

var (
	_          pflag.Value = (*Output)(nil)
	allOutputs             = []Output{OutputTable, OutputJSON}
)

func (o *Output) Set(val string) error {
	for _, output := range allOutputs {
		if val == string(output) {
			*o = output
			return nil
		}
	}
	return fmt.Errorf("invalid output: %s, possible values are %v", val, allOutputs)
}

func (o Output) String() string {
	return string(o)
}

func (o *Output) Type() string {
	return "output"
}

const listNameWidth = 32

type Presenter struct {
	w      io.Writer
	regs   abi.RegisterMap
	output Output
	bold   *color.Color
}

type Option func(*Presenter)

func WithOutput(output Output) Option {
	return func(p *Presenter) {
		p.output = output
	}
}

func New(w io.Writer, regs abi.RegisterMap, opts ...Option) *Presenter {
	p := &Presenter{
		w:      w,
		regs:   regs,
		output: OutputTable,
		bold:   color.New(color.Bold),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Entry prints one syscall: a delimited name header, then one line per slot.
func (p *Presenter) Entry(entry syscalls.Entry) error {
	if p.output == OutputJSON {
		return p.encode(p.jsonEntry(entry))
	}
	return p.writeEntry(entry)
}

func (p *Presenter) writeEntry(entry syscalls.Entry) error {
	if _, err := fmt.Fprintf(p.w, "---\n%s\n---\n", p.bold.Sprint(entry.Name())); err != nil {
		return err
	}
	for _, slot := range syscalls.Slots() {
		if _, err := fmt.Fprintf(p.w, "[%s]\t%s\n", p.regs.Label(slot), entry.Param(slot)); err != nil {
			return err
		}
	}
	return nil
}

// Matches prints every entry of a name search followed by the count.
func (p *Presenter) Matches(result query.Result) error {
	if p.output == OutputJSON {
		entries := make([]jsonEntry, 0, result.Count())
		for _, entry := range result.Entries {
			entries = append(entries, p.jsonEntry(entry))
		}
		return p.encode(jsonMatches{Count: result.Count(), Entries: entries})
	}

	for _, entry := range result.Entries {
		if err := p.writeEntry(entry); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(p.w, "Found %d valid entries\n", result.Count())
	return err
}

// Listing prints the cache position, name and id of every entry.
func (p *Presenter) Listing(entries []syscalls.Entry) error {
	if p.output == OutputJSON {
		items := make([]jsonListItem, 0, len(entries))
		for i, entry := range entries {
			items = append(items, jsonListItem{Index: i, Name: entry.Name(), ID: entry.ID()})
		}
		return p.encode(items)
	}

	for i, entry := range entries {
		padding := ""
		if n := listNameWidth - len(entry.Name()); n > 0 {
			padding = strings.Repeat(" ", n)
		}
		if _, err := fmt.Fprintf(p.w, "%d\t%s%s%s\n", i, entry.Name(), padding, entry.ID()); err != nil {
			return err
		}
	}
	return nil
}

// Built reports the outcome of a cache rebuild.
func (p *Presenter) Built(count int) error {
	if p.output == OutputJSON {
		return p.encode(jsonBuilt{Cached: count})
	}
	_, err := fmt.Fprintf(p.w, "Ok - cached %d entries\n", count)
	return err
}

type jsonParam struct {
	Register string `json:"register"`
	Slot     string `json:"slot"`
	Type     string `json:"type"`
}

type jsonEntry struct {
	Name       string      `json:"name"`
	Params     []jsonParam `json:"params"`
	Definition string      `json:"definition"`
}

type jsonMatches struct {
	Count   int         `json:"count"`
	Entries []jsonEntry `json:"entries"`
}

type jsonListItem struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	ID    string `json:"id"`
}

type jsonBuilt struct {
	Cached int `json:"cached"`
}

func (p *Presenter) jsonEntry(entry syscalls.Entry) jsonEntry {
	params := make([]jsonParam, 0, syscalls.SlotCount)
	for _, slot := range syscalls.Slots() {
		params = append(params, jsonParam{
			Register: p.regs.Label(slot),
			Slot:     slot.String(),
			Type:     entry.Param(slot),
		})
	}
	return jsonEntry{
		Name:       entry.Name(),
		Params:     params,
		Definition: entry.Definition(),
	}
}

func (p *Presenter) encode(v any) error {
	encoder := json.NewEncoder(p.w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("json.Encoder.Encode > %w", err)
	}
	return nil
}
