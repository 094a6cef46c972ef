package bus

import (
	"errors"
	"fmt"
)

// ErrInvalidPort is matched by every PortError.
var ErrInvalidPort = errors.New("invalid port")

// PortError reports an access to a port nothing is connected to.
type PortError struct {
	Port  byte
	Write bool
}

func (e *PortError) Error() string {
	dir := "read"
	if e.Write {
		dir = "write"
	}
	return fmt.Sprintf("%s of unconnected port %02X", dir, e.Port)
}

func (e *PortError) Is(target error) bool { return target == ErrInvalidPort }

type (
	ReadFunc  func() byte
	WriteFunc func(value byte)
)

type port struct {
	read  ReadFunc
	write WriteFunc
}

// Ports is the 256-entry I/O table. Only the low byte of the port address
// selects an entry.
type Ports struct {
	table [256]port
}

func NewPorts() *Ports { return &Ports{} }

// Connect registers handlers for one port. A nil handler leaves that
// direction unconnected.
func (p *Ports) Connect(n byte, r ReadFunc, w WriteFunc) {
	p.table[n] = port{read: r, write: w}
}

// ConnectRange registers handlers for every port in [lo, hi].
func (p *Ports) ConnectRange(lo, hi byte, r ReadFunc, w WriteFunc) {
	for n := int(lo); n <= int(hi); n++ {
		p.Connect(byte(n), r, w)
	}
}

// Disconnect removes both handlers of a port.
func (p *Ports) Disconnect(n byte) { p.table[n] = port{} }

func (p *Ports) ReadPort(addr uint16) (byte, error) {
	e := p.table[byte(addr)]
	if e.read == nil {
		return 0xFF, &PortError{Port: byte(addr)}
	}
	return e.read(), nil
}

func (p *Ports) WritePort(addr uint16, value byte) error {
	e := p.table[byte(addr)]
	if e.write == nil {
		return &PortError{Port: byte(addr), Write: true}
	}
	e.write(value)
	return nil
}
