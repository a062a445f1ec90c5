package core

import "unsafe"

// Transfer describes one DMA-driven copy between memory and a peripheral
// register. It is a value: constructing one moves the buffer in, and the
// buffer comes back out of Channel.Wait when the copy is done. The caller
// must not touch the buffer while the transfer is in flight.
type Transfer struct {
	buf      []byte
	reg      uintptr
	width    uint8
	count    uint32
	trig     TriggerSource
	toPeriph bool
}

// MemToPeriph builds a memory-to-peripheral transfer: count elements of the
// given width are read from src (incrementing) and written to the register
// at reg (fixed).
func MemToPeriph(src []byte, reg uintptr, width uint8, count uint32, trig TriggerSource) (Transfer, error) {
	if err := checkTransfer(src, reg, width, count); err != nil {
		return Transfer{}, err
	}
	return Transfer{
		buf:      src,
		reg:      reg,
		width:    width,
		count:    count,
		trig:     trig,
		toPeriph: true,
	}, nil
}

// PeriphToMem builds a peripheral-to-memory transfer: count elements are
// read from the register at reg (fixed) and written to dst (incrementing).
func PeriphToMem(reg uintptr, dst []byte, width uint8, count uint32, trig TriggerSource) (Transfer, error) {
	if err := checkTransfer(dst, reg, width, count); err != nil {
		return Transfer{}, err
	}
	return Transfer{
		buf:   dst,
		reg:   reg,
		width: width,
		count: count,
		trig:  trig,
	}, nil
}

func checkTransfer(buf []byte, reg uintptr, width uint8, count uint32) error {
	switch width {
	case 1, 2, 4:
	default:
		return ErrInvalidWidth
	}
	if count == 0 {
		return ErrZeroCount
	}
	if count > MaxTransferCount {
		return ErrCountTooLarge
	}
	if uint32(len(buf)) < count*uint32(width) {
		return ErrShortBuffer
	}
	if reg == 0 {
		return ErrNilRegister
	}
	return nil
}

// Trigger returns the transfer's trigger source.
func (t Transfer) Trigger() TriggerSource { return t.trig }

// Count returns the transfer's element count.
func (t Transfer) Count() uint32 { return t.count }

// descriptor encodes the transfer as a hardware descriptor row. End
// addresses point at the LAST element of each side: the buffer end advances
// with the count on the incrementing side, the register end is the register
// itself.
func (t Transfer) descriptor() Descriptor {
	span := uintptr(t.count-1) * uintptr(t.width)
	bufStart := uintptr(unsafe.Pointer(&t.buf[0]))
	bufEnd := bufStart + span

	widthCode := uint32(0)
	switch t.width {
	case 2:
		widthCode = 1
	case 4:
		widthCode = 2
	}

	cfg := XferCfgValid | XferCfgClrTrig |
		widthCode<<XferCfgWidthShift |
		(t.count-1)<<XferCfgCountShift
	if t.trig == TriggerSoftware {
		cfg |= XferCfgSwTrig
	}

	var d Descriptor
	if t.toPeriph {
		cfg |= 1 << XferCfgSrcIncShift
		d.SrcEnd = bufEnd
		d.DstEnd = t.reg
	} else {
		cfg |= 1 << XferCfgDstIncShift
		d.SrcEnd = t.reg
		d.DstEnd = bufEnd
	}
	d.XferCfg = cfg
	return d
}
