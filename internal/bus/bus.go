package bus

// RAM is a flat 64 KiB address space with no banking, used by the CPU
// runner and by tests.
type RAM struct {
	mem [0x10000]byte
}

func NewRAM() *RAM { return &RAM{} }

func (r *RAM) Read(addr uint16) byte { return r.mem[addr] }

func (r *RAM) Write(addr uint16, value byte) { r.mem[addr] = value }

// Load copies data starting at addr, wrapping at the top of memory.
func (r *RAM) Load(addr uint16, data []byte) {
	for i, b := range data {
		r.mem[addr+uint16(i)] = b
	}
}

// Slice returns a copy of n bytes starting at addr.
func (r *RAM) Slice(addr uint16, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = r.mem[addr+uint16(i)]
	}
	return out
}
