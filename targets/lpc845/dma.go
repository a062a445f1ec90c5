//go:build tinygo

package main

import "i2clink/core"

// DMAController implements core.DMAHardware against the DMA0 register
// block.
type DMAController struct{}

// EnableController writes the descriptor table base address and the
// controller enable bit, once at start-up.
func (d *DMAController) EnableController(tableBase uintptr) {
	dmaCtl.SRAMBASE.Set(uint32(tableBase))
	dmaCtl.CTRL.Set(dmaCtrlEnable)
}

// EnableChannel enables a channel. Peripheral request lines are fixed per
// channel on this part, so a peripheral trigger just sets the
// request-enable bit; the caller must use the channel wired to the
// peripheral it wants (channel 15 for the I2C0 master).
func (d *DMAController) EnableChannel(ch int, trig core.TriggerSource) {
	if trig == core.TriggerSoftware {
		dmaChan[ch].CFG.Set(0)
	} else {
		dmaChan[ch].CFG.Set(dmaCfgPeriphReq)
	}
	dmaCtl.ENABLESET0.Set(1 << uint(ch))
}

// DisableChannel disables a channel.
func (d *DMAController) DisableChannel(ch int) {
	dmaCtl.ENABLECLR0.Set(1 << uint(ch))
}

// ArmChannel starts the transfer described by the channel's descriptor
// row. Writing the transfer-config word with the valid bit set is what
// hands the descriptor to the engine.
func (d *DMAController) ArmChannel(ch int, xfercfg uint32) {
	dmaChan[ch].XFERCFG.Set(xfercfg)
}

// ChannelActive reports whether the channel has a transfer in flight.
func (d *DMAController) ChannelActive(ch int) bool {
	return dmaCtl.ACTIVE0.HasBits(1 << uint(ch))
}

// ChannelErrored reports the channel's error-interrupt flag.
func (d *DMAController) ChannelErrored(ch int) bool {
	return dmaCtl.ERRINT0.HasBits(1 << uint(ch))
}

// ClearChannelError acknowledges the error flag (write one to clear).
func (d *DMAController) ClearChannelError(ch int) {
	dmaCtl.ERRINT0.Set(1 << uint(ch))
}
