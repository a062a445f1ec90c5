package core_test

import (
	"testing"

	"i2clink/core"
)

func TestFaultsPrintThroughDebugWriter(t *testing.T) {
	var lines []string
	core.SetDebugWriter(func(s string) { lines = append(lines, s) })
	defer core.SetDebugWriter(func(string) {})

	// A clean loopback prints nothing.
	r := newRig(t)
	if _, err := runWrite(t, r, rigSlaveAddr, []byte{0x14}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("clean transaction printed %q", lines)
	}

	// A bus fault prints its classification.
	r.hw.NackAddress = true
	if _, err := runWrite(t, r, rigSlaveAddr, []byte{1}); err != core.FaultNackAddress {
		t.Fatalf("got %v, want FaultNackAddress", err)
	}
	if len(lines) != 1 || lines[0] != core.FaultNackAddress.Error() {
		t.Fatalf("bus fault printed %q", lines)
	}

	// A fatal slave fault prints too.
	hw, slave := newSlave(t)
	hw.InjectSlaveFault(0x03)
	slave.Poll()
	if len(lines) != 2 || lines[1] != (&core.HardwareFault{Code: 0x03}).Error() {
		t.Fatalf("slave fault printed %q", lines)
	}
}

// One transaction records from both contexts: the foreground master path
// and the slave interrupt handler interleave into a single coherent ring.
func TestTraceCapturesBothContexts(t *testing.T) {
	core.TraceReset()
	defer core.TraceReset()

	r := newRig(t)
	if _, err := runWrite(t, r, rigSlaveAddr, []byte{0x14}); err != nil {
		t.Fatalf("write: %v", err)
	}
	rx := make([]byte, 1)
	if _, err := runRead(t, r, rigSlaveAddr, rx); err != nil {
		t.Fatalf("read: %v", err)
	}

	evs := core.TraceSnapshot()
	if len(evs) == 0 {
		t.Fatal("empty trace after a full transaction pair")
	}
	if evs[0].Kind != core.TraceMasterStart {
		t.Errorf("first event kind = %d, want TraceMasterStart", evs[0].Kind)
	}
	if last := evs[len(evs)-1]; last.Kind != core.TraceMasterDone {
		t.Errorf("last event kind = %d, want TraceMasterDone", last.Kind)
	}

	rxAt, txAt := -1, -1
	for i, ev := range evs {
		if ev.Kind == core.TraceSlaveRx && ev.Value == 0x14 {
			rxAt = i
		}
		if ev.Kind == core.TraceSlaveTx && ev.Value == 0x28 {
			txAt = i
		}
	}
	if rxAt < 0 || txAt < 0 || txAt < rxAt {
		t.Errorf("slave events missing or out of order: rx=%d tx=%d in %+v", rxAt, txAt, evs)
	}
}
