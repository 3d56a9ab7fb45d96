// Package syscalls holds the normalized syscall record shared by ingestion, the cache and queries.
package syscalls

// Undefined is returned by Entry.Param for a slot outside the canonical six.
const Undefined = "Undefined"

// Slot is one of the six argument positions of a syscall,
// named after the 32-bit register that carries it.
type Slot int

const (
	SlotEAX Slot = iota
	SlotEBX
	SlotECX
	SlotEDX
	SlotESI
	SlotEDI

	SlotCount = 6
)

var slotNames = [SlotCount]string{"eax", "ebx", "ecx", "edx", "esi", "edi"}

// Slots returns every slot in canonical order.
func Slots() []Slot {
	return []Slot{SlotEAX, SlotEBX, SlotECX, SlotEDX, SlotESI, SlotEDI}
}

func (s Slot) valid() bool {
	return s >= 0 && s < SlotCount
}

func (s Slot) String() string {
	if !s.valid() {
		return Undefined
	}
	return slotNames[s]
}

// ParseSlot maps a canonical name such as "ecx" to its Slot.
func ParseSlot(name string) (Slot, bool) {
	for i, n := range slotNames {
		if n == name {
			return Slot(i), true
		}
	}
	return 0, false
}

// Params is the type name carried by each slot, indexed by Slot.
type Params [SlotCount]string

// Entry is one syscall descriptor. It is immutable once built.
type Entry struct {
	name       string
	params     Params
	definition string
}

func NewEntry(name string, params Params, definition string) Entry {
	return Entry{
		name:       name,
		params:     params,
		definition: definition,
	}
}

func (e Entry) Name() string {
	return e.name
}

// Params returns a copy of all six slots.
func (e Entry) Params() Params {
	return e.params
}

func (e Entry) Definition() string {
	return e.definition
}

// Param returns the value stored in slot, or Undefined if slot is not one of the six.
func (e Entry) Param(slot Slot) string {
	if !slot.valid() {
		return Undefined
	}
	return e.params[slot]
}

// ID returns the textual syscall number held in the eax slot.
func (e Entry) ID() string {
	return e.params[SlotEAX]
}
