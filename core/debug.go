package core

// DebugWriter is a function type for writing debug output. Platforms
// redirect it to a UART, RTT or stdout; the default discards.
type DebugWriter func(string)

// TraceEvent captures one bus event for post-mortem analysis. Recording
// is a ring-buffer store with no allocation and no blocking, so it is safe
// from the slave interrupt handler.
type TraceEvent struct {
	Kind    uint8 // event type code
	Channel uint8 // DMA channel, where one is involved
	Value   uint8 // data byte, address or fault code
}

// Trace event codes. The same codes go out on the wire in event-report
// frames, so the host monitor can name them.
const (
	TraceMasterStart  = 1 // master transaction started (Value = address)
	TraceMasterDone   = 2 // master transaction completed
	TraceMasterFault  = 3 // master transaction faulted (Value = BusFault)
	TraceSlaveMatch   = 4 // slave address matched
	TraceSlaveRx      = 5 // slave received a byte (Value = byte)
	TraceSlaveTx      = 6 // slave transmitted a byte (Value = byte)
	TraceSlaveTxEmpty = 7 // slave transmit request with nothing to send
	TraceSlaveFault   = 8 // slave hardware fault (Value = raw code)
)

// TraceRingSize is the number of events kept for post-mortem.
const TraceRingSize = 32

var (
	debugPrintln DebugWriter = func(string) {}

	traceRing      [TraceRingSize]TraceEvent
	traceRingHead  uint8
	traceRingCount uint8
	traceEnabled   = true
)

// SetDebugWriter sets the platform-specific debug output function.
func SetDebugWriter(w DebugWriter) {
	debugPrintln = w
}

// SetTraceEnabled turns event capture on or off. Off is useful for
// benchmarks where even the ring store would skew timing.
func SetTraceEnabled(enabled bool) {
	traceEnabled = enabled
}

// traceRecord is called from both the foreground master path and the
// slave interrupt handler, so the head/count update is masked.
func traceRecord(kind, channel, value uint8) {
	if !traceEnabled {
		return
	}
	is := disableInterrupts()
	traceRing[traceRingHead] = TraceEvent{
		Kind:    kind,
		Channel: channel,
		Value:   value,
	}
	traceRingHead = (traceRingHead + 1) % TraceRingSize
	if traceRingCount < TraceRingSize {
		traceRingCount++
	}
	restoreInterrupts(is)
}

// TraceSnapshot copies out the ring contents, oldest first, masking the
// bus interrupt so a concurrent record cannot tear the copy.
func TraceSnapshot() []TraceEvent {
	is := disableInterrupts()
	head := int(traceRingHead)
	n := int(traceRingCount)
	ring := traceRing
	restoreInterrupts(is)

	out := make([]TraceEvent, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, ring[(head-n+i+TraceRingSize)%TraceRingSize])
	}
	return out
}

// TraceReset clears the ring. Test helper.
func TraceReset() {
	is := disableInterrupts()
	traceRing = [TraceRingSize]TraceEvent{}
	traceRingHead = 0
	traceRingCount = 0
	restoreInterrupts(is)
}
