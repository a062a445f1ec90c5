package core

import "testing"

func TestTraceSnapshotOrder(t *testing.T) {
	TraceReset()
	defer TraceReset()

	traceRecord(TraceMasterStart, 15, 0x24)
	traceRecord(TraceSlaveRx, 0, 0x14)
	traceRecord(TraceMasterDone, 15, 0x24)

	got := TraceSnapshot()
	want := []TraceEvent{
		{TraceMasterStart, 15, 0x24},
		{TraceSlaveRx, 0, 0x14},
		{TraceMasterDone, 15, 0x24},
	}
	if len(got) != len(want) {
		t.Fatalf("snapshot has %d events, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestTraceRingWraps(t *testing.T) {
	TraceReset()
	defer TraceReset()

	for i := 0; i < TraceRingSize+5; i++ {
		traceRecord(TraceSlaveRx, 0, uint8(i))
	}

	got := TraceSnapshot()
	if len(got) != TraceRingSize {
		t.Fatalf("snapshot has %d events, want %d", len(got), TraceRingSize)
	}
	// Oldest surviving event is number 5; newest is TraceRingSize+4.
	if got[0].Value != 5 {
		t.Errorf("oldest value = %d, want 5", got[0].Value)
	}
	if got[len(got)-1].Value != uint8(TraceRingSize+4) {
		t.Errorf("newest value = %d, want %d", got[len(got)-1].Value, TraceRingSize+4)
	}
}

func TestTraceDisabled(t *testing.T) {
	TraceReset()
	defer TraceReset()

	SetTraceEnabled(false)
	traceRecord(TraceSlaveRx, 0, 1)
	SetTraceEnabled(true)

	if n := len(TraceSnapshot()); n != 0 {
		t.Errorf("recorded %d events while disabled", n)
	}
}

func TestTraceReset(t *testing.T) {
	TraceReset()
	traceRecord(TraceSlaveRx, 0, 1)
	TraceReset()
	if n := len(TraceSnapshot()); n != 0 {
		t.Errorf("snapshot has %d events after reset", n)
	}
}
