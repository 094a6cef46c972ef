package cpu

// Prefix tags which opcode page a key belongs to.
type Prefix byte

const (
	PrefixNone Prefix = iota
	PrefixCB
	PrefixED
	PrefixDD
	PrefixFD
	PrefixDDCB
	PrefixFDCB
	numPrefixes
)

// opKey is a decoded (prefix, opcode) pair.
type opKey struct {
	prefix Prefix
	op     byte
}

// code renders the key the way it appears in the byte stream.
func (k opKey) code() uint32 {
	op := uint32(k.op)
	switch k.prefix {
	case PrefixCB:
		return 0xCB00 | op
	case PrefixED:
		return 0xED00 | op
	case PrefixDD:
		return 0xDD00 | op
	case PrefixFD:
		return 0xFD00 | op
	case PrefixDDCB:
		return 0xDDCB00 | op
	case PrefixFDCB:
		return 0xFDCB00 | op
	}
	return op
}

// opFunc executes one instruction. The opcode byte lets one handler serve a
// whole encoding family.
type opFunc func(c *CPU, op byte)

var dispatch [numPrefixes][256]opFunc

func init() {
	buildBase(&dispatch[PrefixNone])
	buildCB(&dispatch[PrefixCB])
	buildED(&dispatch[PrefixED])
	buildIndex(&dispatch[PrefixDD], func(c *CPU) *Pair { return &c.IX })
	buildIndex(&dispatch[PrefixFD], func(c *CPU) *Pair { return &c.IY })
	buildIndexCB(&dispatch[PrefixDDCB], func(c *CPU) *Pair { return &c.IX })
	buildIndexCB(&dispatch[PrefixFDCB], func(c *CPU) *Pair { return &c.IY })
}

// Defined reports whether the key has a handler. Used by tools listing coverage.
func Defined(prefix Prefix, op byte) bool {
	if prefix >= numPrefixes {
		return false
	}
	return dispatch[prefix][op] != nil
}
