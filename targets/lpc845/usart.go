//go:build tinygo

package main

import "i2clink/core"

// Debug serial link: USART0, transmit only, polled. Event frames and text
// diagnostics go out here for the host-side monitor.

const (
	debugBaud = 115_200
	debugPin  = 25 // U0_TXD on PIO0_25
)

func initDebugUSART(sys core.SystemController) {
	sys.AssignPinFunction(core.FuncUSART0TXD, debugPin)
	sys.EnableClock(core.PeriphUSART0)

	const froHz = 12_000_000
	usart0.BRG.Set(froHz/(16*debugBaud) - 1)
	usart0.CFG.Set(usartCfgEnable | usartCfgDataLen)

	core.SetDebugWriter(func(s string) {
		debugWrite([]byte(s))
		debugWrite([]byte{'\r', '\n'})
	})
}

func debugWrite(p []byte) {
	for _, b := range p {
		for !usart0.STAT.HasBits(usartStatTxRdy) {
		}
		usart0.TXDAT.Set(uint32(b))
	}
}
