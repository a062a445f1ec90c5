package core

import (
	"testing"
	"unsafe"
)

func TestTransferValidation(t *testing.T) {
	buf := make([]byte, 8)
	reg := uintptr(unsafe.Pointer(&buf[0])) // any nonzero address

	cases := []struct {
		name  string
		buf   []byte
		reg   uintptr
		width uint8
		count uint32
		want  error
	}{
		{"ok", buf, reg, 1, 8, nil},
		{"ok 16-bit", buf, reg, 2, 4, nil},
		{"ok 32-bit", buf, reg, 4, 2, nil},
		{"bad width", buf, reg, 3, 1, ErrInvalidWidth},
		{"zero count", buf, reg, 1, 0, ErrZeroCount},
		{"count too large", make([]byte, 2048), reg, 1, MaxTransferCount + 1, ErrCountTooLarge},
		{"short buffer", buf, reg, 4, 3, ErrShortBuffer},
		{"nil register", buf, 0, 1, 8, ErrNilRegister},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := MemToPeriph(tc.buf, tc.reg, tc.width, tc.count, TriggerI2CMaster)
			if err != tc.want {
				t.Errorf("MemToPeriph: got %v, want %v", err, tc.want)
			}
			_, err = PeriphToMem(tc.reg, tc.buf, tc.width, tc.count, TriggerI2CMaster)
			if err != tc.want {
				t.Errorf("PeriphToMem: got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestDescriptorEndAddresses(t *testing.T) {
	buf := make([]byte, 16)
	base := uintptr(unsafe.Pointer(&buf[0]))
	reg := uintptr(0x40050028)

	tr, err := MemToPeriph(buf, reg, 1, 16, TriggerI2CMaster)
	if err != nil {
		t.Fatalf("MemToPeriph: %v", err)
	}
	d := tr.descriptor()
	if d.SrcEnd != base+15 {
		t.Errorf("SrcEnd = %#x, want address of last element %#x", d.SrcEnd, base+15)
	}
	if d.DstEnd != reg {
		t.Errorf("DstEnd = %#x, want the register %#x", d.DstEnd, reg)
	}
	if d.Link != 0 {
		t.Errorf("Link = %#x, want 0 (no chain)", d.Link)
	}

	tr, err = PeriphToMem(reg, buf, 2, 4, TriggerI2CMaster)
	if err != nil {
		t.Fatalf("PeriphToMem: %v", err)
	}
	d = tr.descriptor()
	if d.SrcEnd != reg {
		t.Errorf("SrcEnd = %#x, want the register %#x", d.SrcEnd, reg)
	}
	if d.DstEnd != base+6 {
		t.Errorf("DstEnd = %#x, want last element %#x", d.DstEnd, base+6)
	}
}

func TestDescriptorConfigWord(t *testing.T) {
	buf := make([]byte, 8)
	reg := uintptr(0x40050028)

	tr, err := MemToPeriph(buf, reg, 1, 8, TriggerI2CMaster)
	if err != nil {
		t.Fatalf("MemToPeriph: %v", err)
	}
	cfg := tr.descriptor().XferCfg

	if cfg&XferCfgValid == 0 {
		t.Error("valid bit not set")
	}
	if cfg&XferCfgSwTrig != 0 {
		t.Error("software trigger set on a peripheral-paced transfer")
	}
	if got := cfg >> XferCfgWidthShift & 0x3; got != 0 {
		t.Errorf("width code = %d, want 0 (8-bit)", got)
	}
	if got := cfg >> XferCfgSrcIncShift & 0x3; got != 1 {
		t.Errorf("source increment = %d, want 1", got)
	}
	if got := cfg >> XferCfgDstIncShift & 0x3; got != 0 {
		t.Errorf("destination increment = %d, want 0 (register)", got)
	}
	if got := cfg>>XferCfgCountShift&0x3FF + 1; got != 8 {
		t.Errorf("count = %d, want 8", got)
	}

	tr, err = PeriphToMem(reg, buf, 4, 2, TriggerSoftware)
	if err != nil {
		t.Fatalf("PeriphToMem: %v", err)
	}
	cfg = tr.descriptor().XferCfg
	if cfg&XferCfgSwTrig == 0 {
		t.Error("software trigger not set")
	}
	if got := cfg >> XferCfgWidthShift & 0x3; got != 2 {
		t.Errorf("width code = %d, want 2 (32-bit)", got)
	}
	if got := cfg >> XferCfgSrcIncShift & 0x3; got != 0 {
		t.Errorf("source increment = %d, want 0 (register)", got)
	}
	if got := cfg >> XferCfgDstIncShift & 0x3; got != 1 {
		t.Errorf("destination increment = %d, want 1", got)
	}
}
