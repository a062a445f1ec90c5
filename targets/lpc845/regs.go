//go:build tinygo

// Register maps for the LPC845 blocks this firmware touches. Layouts and
// bit positions follow the UM11029 user manual; only the registers the
// engine actually drives are declared.
package main

import (
	"runtime/volatile"
	"unsafe"
)

const (
	sysconBase = 0x40048000
	swmBase    = 0x4000C000
	pmuBase    = 0x40020000
	i2c0Base   = 0x40050000
	usart0Base = 0x40064000
	dma0Base   = 0x50008000
)

type sysconRegs struct {
	_              [0x80]byte
	SYSAHBCLKCTRL0 volatile.Register32
	SYSAHBCLKCTRL1 volatile.Register32
	PRESETCTRL0    volatile.Register32
	PRESETCTRL1    volatile.Register32
}

// SYSAHBCLKCTRL0 / PRESETCTRL0 bit positions.
const (
	clkI2C0   = 1 << 5
	clkSWM    = 1 << 7
	clkUSART0 = 1 << 14
	clkDMA    = 1 << 29
)

type swmRegs struct {
	PINASSIGN  [15]volatile.Register32
	_          [0x1C4 - 15*4]byte
	PINENABLE0 volatile.Register32
}

// PINENABLE0 fixed-function enables (active low).
const (
	pinenI2C0SDA = 1 << 11
	pinenI2C0SCL = 1 << 12
)

type pmuRegs struct {
	PCON volatile.Register32
}

type i2cRegs struct {
	CFG      volatile.Register32 // 0x00
	STAT     volatile.Register32 // 0x04
	INTENSET volatile.Register32 // 0x08
	INTENCLR volatile.Register32 // 0x0C
	TIMEOUT  volatile.Register32 // 0x10
	CLKDIV   volatile.Register32 // 0x14
	INTSTAT  volatile.Register32 // 0x18
	_        [4]byte
	MSTCTL   volatile.Register32 // 0x20
	MSTTIME  volatile.Register32 // 0x24
	MSTDAT   volatile.Register32 // 0x28
	_        [0x40 - 0x2C]byte
	SLVCTL   volatile.Register32 // 0x40
	SLVDAT   volatile.Register32 // 0x44
	SLVADR0  volatile.Register32 // 0x48
}

// I2C CFG bits.
const (
	i2cCfgMstEn     = 1 << 0
	i2cCfgSlvEn     = 1 << 1
	i2cCfgTimeoutEn = 1 << 3
)

// I2C STAT bits.
const (
	i2cStatMstPending    = 1 << 0
	i2cStatMstStateShift = 1
	i2cStatMstStateMask  = 0x7
	i2cStatMstArbLoss    = 1 << 4
	i2cStatMstStStpErr   = 1 << 6
	i2cStatSlvPending    = 1 << 8
	i2cStatSlvStateShift = 9
	i2cStatSlvStateMask  = 0x3
	i2cStatSlvSel        = 1 << 14
	i2cStatEventTimeout  = 1 << 24
	i2cStatSCLTimeout    = 1 << 25
)

// MSTSTATE values.
const (
	mstStateIdle     = 0
	mstStateRxReady  = 1
	mstStateTxReady  = 2
	mstStateNackAddr = 3
	mstStateNackData = 4
)

// SLVSTATE values.
const (
	slvStateAddr = 0
	slvStateRx   = 1
	slvStateTx   = 2
)

// MSTCTL bits.
const (
	mstCtlContinue = 1 << 0
	mstCtlStart    = 1 << 1
	mstCtlStop     = 1 << 2
	mstCtlDMA      = 1 << 3
)

// SLVCTL bits.
const (
	slvCtlContinue = 1 << 0
	slvCtlNack     = 1 << 1
)

// INTENSET bits.
const i2cIntSlvPending = 1 << 8

type usartRegs struct {
	CFG   volatile.Register32 // 0x00
	CTL   volatile.Register32 // 0x04
	STAT  volatile.Register32 // 0x08
	_     [0x14 - 0x0C]byte
	RXDAT volatile.Register32 // 0x14
	_     [4]byte
	TXDAT volatile.Register32 // 0x1C
	BRG   volatile.Register32 // 0x20
}

const (
	usartCfgEnable  = 1 << 0
	usartCfgDataLen = 1 << 2 // 8-bit data
	usartStatTxRdy  = 1 << 2
)

type dmaCommonRegs struct {
	CTRL       volatile.Register32 // 0x000
	INTSTAT    volatile.Register32 // 0x004
	SRAMBASE   volatile.Register32 // 0x008
	_          [0x20 - 0x0C]byte
	ENABLESET0 volatile.Register32 // 0x020
	_          [4]byte
	ENABLECLR0 volatile.Register32 // 0x028
	_          [4]byte
	ACTIVE0    volatile.Register32 // 0x030
	_          [4]byte
	BUSY0      volatile.Register32 // 0x038
	_          [4]byte
	ERRINT0    volatile.Register32 // 0x040
	_          [4]byte
	INTENSET0  volatile.Register32 // 0x048
	_          [4]byte
	INTENCLR0  volatile.Register32 // 0x050
	_          [4]byte
	INTA0      volatile.Register32 // 0x058
	_          [4]byte
	INTB0      volatile.Register32 // 0x060
	_          [4]byte
	SETVALID0  volatile.Register32 // 0x068
	_          [4]byte
	SETTRIG0   volatile.Register32 // 0x070
	_          [4]byte
	ABORT0     volatile.Register32 // 0x078
}

type dmaChannelRegs struct {
	CFG     volatile.Register32
	CTLSTAT volatile.Register32
	XFERCFG volatile.Register32
	_       [4]byte
}

const (
	dmaCtrlEnable    = 1 << 0
	dmaCfgPeriphReq  = 1 << 0
	dmaChannelStride = 0x400 // channel register array offset from base
)

var (
	syscon  = (*sysconRegs)(unsafe.Pointer(uintptr(sysconBase)))
	swm     = (*swmRegs)(unsafe.Pointer(uintptr(swmBase)))
	pmu     = (*pmuRegs)(unsafe.Pointer(uintptr(pmuBase)))
	i2c0    = (*i2cRegs)(unsafe.Pointer(uintptr(i2c0Base)))
	usart0  = (*usartRegs)(unsafe.Pointer(uintptr(usart0Base)))
	dmaCtl  = (*dmaCommonRegs)(unsafe.Pointer(uintptr(dma0Base)))
	dmaChan = (*[32]dmaChannelRegs)(unsafe.Pointer(uintptr(dma0Base + dmaChannelStride)))
)
