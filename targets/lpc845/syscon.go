//go:build tinygo

package main

import (
	"device/arm"

	"i2clink/core"
)

// SystemControl implements core.SystemController against SYSCON, SWM and
// PMU. Every operation is a one-shot register write; there is no state
// machine here.
type SystemControl struct{}

func clockBit(p core.PeripheralID) uint32 {
	switch p {
	case core.PeriphDMA:
		return clkDMA
	case core.PeriphI2C0:
		return clkI2C0
	case core.PeriphUSART0:
		return clkUSART0
	}
	return 0
}

// EnableClock gates a peripheral's clock on and releases its reset.
func (s *SystemControl) EnableClock(p core.PeripheralID) {
	bit := clockBit(p)
	syscon.SYSAHBCLKCTRL0.SetBits(bit)
	// PRESETCTRL is active low: set the bit to release the reset.
	syscon.PRESETCTRL0.SetBits(bit)
}

// DisableClock gates a peripheral's clock off.
func (s *SystemControl) DisableClock(p core.PeripheralID) {
	syscon.SYSAHBCLKCTRL0.ClearBits(clockBit(p))
}

// AssignPinFunction routes a function to a pin through the switch matrix.
// The I2C0 lines are fixed functions on this part, enabled (active low) in
// PINENABLE0; movable functions get their PINASSIGN byte written.
func (s *SystemControl) AssignPinFunction(f core.FunctionID, pin core.PinID) {
	syscon.SYSAHBCLKCTRL0.SetBits(clkSWM)
	switch f {
	case core.FuncI2C0SCL:
		swm.PINENABLE0.ClearBits(pinenI2C0SCL)
	case core.FuncI2C0SDA:
		swm.PINENABLE0.ClearBits(pinenI2C0SDA)
	case core.FuncUSART0TXD:
		// U0_TXD is movable function 0: byte 0 of PINASSIGN0.
		v := swm.PINASSIGN[0].Get()
		swm.PINASSIGN[0].Set(v&^0xFF | uint32(pin))
	}
	syscon.SYSAHBCLKCTRL0.ClearBits(clkSWM)
}

// EnterLowPowerMode parks the CPU until the next interrupt. A pending
// slave bus event wakes it.
func (s *SystemControl) EnterLowPowerMode() {
	arm.Asm("wfi")
}
