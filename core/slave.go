package core

// SlaveState is the slave protocol state. There is no terminal state; the
// machine loops for the peripheral's lifetime unless it faults.
type SlaveState uint8

const (
	SlaveIdle SlaveState = iota
	SlaveAddressMatched
	SlaveReceiving
	SlaveTransmitting
	SlaveFaulted
)

// Slave is the interrupt-context slave protocol state machine. Poll is the
// only mutator and must be the only code running it; every action inside
// is one non-blocking register access. The surrounding application binds
// Poll to the bus interrupt (or a polled bottom half) with at-most-one
// concurrent invocation.
type Slave struct {
	hw      BusHardware
	respond func(byte) byte

	state SlaveState
	have  bool
	last  byte
	fault error
}

// State returns the current protocol state.
func (s *Slave) State() SlaveState { return s.state }

// Faulted reports whether the machine hit an unrecoverable hardware fault.
func (s *Slave) Faulted() bool { return s.state == SlaveFaulted }

// LastReceived returns the buffered byte, if any. Meant for foreground
// diagnostics: the buffer is normally touched only by the interrupt
// context, so the read is wrapped in a critical section.
func (s *Slave) LastReceived() (byte, bool) {
	is := disableInterrupts()
	b, ok := s.last, s.have
	restoreInterrupts(is)
	return b, ok
}

// Poll reads exactly one pending-event indicator and advances the machine:
// an address match is acknowledged before the bus clock stalls, a received
// byte is stored and acknowledged, a transmit request clocks out the
// response to the last stored byte. No pending event returns ErrWouldBlock
// and changes nothing — the interrupt line is shared.
//
// A hardware-reported fault is not retried here; it latches SlaveFaulted
// and the application must treat it as fatal. A stalled, unacknowledged
// slave holds the bus clock for every participant, so there is no defined
// degraded mode.
func (s *Slave) Poll() (SlaveState, error) {
	if s.state == SlaveFaulted {
		return s.state, s.fault
	}

	switch ev := s.hw.SlaveEvent(); ev {
	case EventNone:
		return s.state, ErrWouldBlock

	case EventAddressMatched:
		// A new bus operation always wins, whatever state we were in.
		s.state = SlaveAddressMatched
		s.hw.SlaveContinue()
		traceRecord(TraceSlaveMatch, 0, 0)
		return s.state, nil

	case EventRxReady:
		s.last = s.hw.SlaveRead()
		s.have = true
		s.state = SlaveReceiving
		s.hw.SlaveContinue()
		traceRecord(TraceSlaveRx, 0, s.last)
		return s.state, nil

	case EventTxReady:
		s.state = SlaveTransmitting
		if !s.have {
			// Nothing received yet: writing the data register here
			// would clock out undefined data. Leave the request
			// pending; the master observes the stall as a timeout.
			traceRecord(TraceSlaveTxEmpty, 0, 0)
			return s.state, nil
		}
		reply := s.respond(s.last)
		s.hw.SlaveWrite(reply)
		s.hw.SlaveContinue()
		traceRecord(TraceSlaveTx, 0, reply)
		return s.state, nil

	default: // EventBusError, EventArbitrationLost
		code := s.hw.SlaveErrorCode()
		// Fault before state, so a foreground reader that sees
		// SlaveFaulted always finds the fault set.
		s.fault = &HardwareFault{Code: code}
		s.state = SlaveFaulted
		traceRecord(TraceSlaveFault, 0, code)
		debugPrintln(s.fault.Error())
		return s.state, s.fault
	}
}

// Idle parks the CPU between bus events. All protocol work happens in the
// interrupt handler; this foreground loop only sleeps and watches for the
// fatal fault, which it returns once the machine latches it. Intended for
// slave-only applications with no master loop to keep busy.
func (s *Slave) Idle(sys SystemController) error {
	for {
		if s.Faulted() {
			return s.fault
		}
		sys.EnterLowPowerMode()
	}
}
