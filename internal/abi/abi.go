// Package abi maps canonical syscall slots to the register names of a calling convention.
package abi

import (
	"fmt"

	"github.com/at-ishikawa/systab/internal/syscalls"
	"github.com/spf13/pflag"
)

// Mode selects the calling convention used to label slots.
type Mode string

const (
	Mode64 Mode = "64"
	Mode32 Mode = "32"
)

var (
	_        pflag.Value = (*Mode)(nil)
	allModes             = []Mode{Mode64, Mode32}
)

func (m *Mode) Set(val string) error {
	for _, mode := range allModes {
		if val == string(mode) {
			*m = mode
			return nil
		}
	}
	return fmt.Errorf("invalid ABI: %s, possible values are %v", val, allModes)
}

func (m Mode) String() string {
	return string(m)
}

func (m *Mode) Type() string {
	return "ABI"
}

// RegisterMap labels each slot for display. It never changes which slot holds which value.
type RegisterMap struct {
	mode   Mode
	labels [syscalls.SlotCount]string
}

// The 64-bit labels relabel the 32-bit slot names; they are not the amd64 argument order.
var (
	m64 = RegisterMap{
		mode:   Mode64,
		labels: [syscalls.SlotCount]string{"rax", "rsi", "rdi", "rdx", "rcx", "r8"},
	}
	m32 = RegisterMap{
		mode:   Mode32,
		labels: [syscalls.SlotCount]string{"eax", "ebx", "ecx", "edx", "esi", "edi"},
	}
)

// ForMode returns the register map of mode.
func ForMode(mode Mode) (RegisterMap, error) {
	switch mode {
	case Mode64:
		return m64, nil
	case Mode32:
		return m32, nil
	}
	return RegisterMap{}, fmt.Errorf("unknown ABI %q", mode)
}

func (r RegisterMap) Mode() Mode {
	return r.mode
}

// Label returns the register name shown next to slot.
func (r RegisterMap) Label(slot syscalls.Slot) string {
	if slot < 0 || int(slot) >= len(r.labels) {
		return syscalls.Undefined
	}
	return r.labels[slot]
}
