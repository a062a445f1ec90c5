//go:build tinygo

package main

import (
	"runtime/interrupt"

	"i2clink/core"
)

// Slave-only variant, selected by the slaveOnly constant in main.go: no
// master loop and no DMA. The interrupt handler does all protocol work;
// the foreground parks the core between bus events and only wakes to
// check for the fatal fault.
func runSlaveOnly(sys *SystemControl) {
	bus := core.NewBus(&I2CInstance{}, sys, core.PinConfig{SCL: 10, SDA: 11})

	var err error
	slave, err = bus.EnableSlaveMode(slaveAddress, func(b byte) byte {
		return b << 1
	})
	if err != nil {
		debugPrintFatal(err)
	}

	intr := interrupt.New(irqI2C0, handleI2C0)
	intr.Enable()

	debugPrintFatal(slave.Idle(sys))
}
