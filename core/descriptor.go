package core

import "unsafe"

// NumChannels is the number of DMA channels the controller serves, and the
// number of rows in the descriptor table.
const NumChannels = 25

// Transfer-config word layout. This is read by the DMA engine, bit for bit;
// the same encoding is written to the channel's XFERCFG register when the
// transfer is armed and to the descriptor row for linked reloads.
const (
	XferCfgValid   uint32 = 1 << 0 // descriptor is ready for the engine
	XferCfgReload  uint32 = 1 << 1 // follow Link when exhausted
	XferCfgSwTrig  uint32 = 1 << 2 // trigger immediately on arm
	XferCfgClrTrig uint32 = 1 << 3 // clear trigger when exhausted
	XferCfgSetIntA uint32 = 1 << 4 // raise interrupt A on completion

	XferCfgWidthShift  = 8  // element width: 0=8bit 1=16bit 2=32bit
	XferCfgSrcIncShift = 12 // source increment per element: 0=none 1=1x
	XferCfgDstIncShift = 14 // destination increment per element
	XferCfgCountShift  = 16 // element count, stored as count-1
)

// MaxTransferCount is the largest element count one descriptor encodes.
const MaxTransferCount = 1 << 10

// Descriptor is one hardware-readable transfer record. The field order and
// meaning are dictated by the DMA engine: transfer-config word, address of
// the LAST source element, address of the LAST destination element, link to
// the next descriptor (0 terminates the chain).
//
// On the 32-bit target this is the exact 16-byte SRAM row the engine reads.
// A descriptor is mutated only while its channel is not armed.
type Descriptor struct {
	XferCfg uint32
	SrcEnd  uintptr
	DstEnd  uintptr
	Link    uintptr
}

// DescriptorTable is the channel descriptor table, one row per channel.
//
// There is exactly one instance per process, constructed at start-up and
// handed to the ChannelManager, which gives its base address to the DMA
// engine once. It lives for the process lifetime; there is no teardown.
// The real target must place it with 512-byte alignment so the engine's
// base-address register can hold it.
type DescriptorTable [NumChannels]Descriptor

// Base returns the table's base address, as written to the engine's
// descriptor-base register.
func (t *DescriptorTable) Base() uintptr {
	return uintptr(unsafe.Pointer(t))
}

func (t *DescriptorTable) row(ch int) *Descriptor {
	return &t[ch]
}
