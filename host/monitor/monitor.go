// Package monitor tails a board's event stream and renders the decoded
// bus events.
package monitor

import (
	"fmt"
	"io"

	"i2clink/protocol"
)

// Event kind codes, matching the firmware's trace codes.
const (
	kindMasterStart  = 1
	kindMasterDone   = 2
	kindMasterFault  = 3
	kindSlaveMatch   = 4
	kindSlaveRx      = 5
	kindSlaveTx      = 6
	kindSlaveTxEmpty = 7
	kindSlaveFault   = 8
)

var faultNames = map[uint8]string{
	1: "nack-at-address",
	2: "nack-at-data",
	3: "arbitration-lost",
	4: "bus-timeout",
}

// Monitor decodes event frames from a stream and writes one line per
// event.
type Monitor struct {
	in  io.Reader
	out io.Writer
	dec protocol.Decoder
}

// New builds a monitor reading frames from in and printing to out.
func New(in io.Reader, out io.Writer) *Monitor {
	return &Monitor{in: in, out: out}
}

// Run pumps the stream until in reports an error. A read of zero bytes
// (serial timeout) is not an error; it just polls again.
func (m *Monitor) Run() error {
	buf := make([]byte, 256)
	for {
		n, err := m.in.Read(buf)
		if n > 0 {
			for _, ev := range m.dec.Feed(buf[:n]) {
				fmt.Fprintln(m.out, Describe(ev))
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Describe renders one event as a log line.
func Describe(ev protocol.Event) string {
	switch ev.Kind {
	case kindMasterStart:
		return fmt.Sprintf("master: start addr=0x%02X ch=%d", ev.Value, ev.Channel)
	case kindMasterDone:
		return fmt.Sprintf("master: done addr=0x%02X ch=%d", ev.Value, ev.Channel)
	case kindMasterFault:
		name := faultNames[ev.Value]
		if name == "" {
			name = fmt.Sprintf("fault-%d", ev.Value)
		}
		return fmt.Sprintf("master: FAULT %s ch=%d", name, ev.Channel)
	case kindSlaveMatch:
		return "slave: address matched"
	case kindSlaveRx:
		return fmt.Sprintf("slave: received 0x%02X", ev.Value)
	case kindSlaveTx:
		return fmt.Sprintf("slave: transmitted 0x%02X", ev.Value)
	case kindSlaveTxEmpty:
		return "slave: transmit requested with no data"
	case kindSlaveFault:
		return fmt.Sprintf("slave: FATAL hardware fault code=0x%02X", ev.Value)
	}
	return fmt.Sprintf("unknown event kind=%d ch=%d value=0x%02X", ev.Kind, ev.Channel, ev.Value)
}
