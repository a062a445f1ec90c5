//go:build tinygo

// Loopback demo: the I2C0 instance talks to itself, master and slave role
// on the same electrical bus. The foreground loop writes one byte to the
// slave address over DMA, the slave interrupt handler stores it and
// replies with the byte doubled, and the foreground reads the reply back
// and verifies it. Bus events stream out on the debug USART as protocol
// frames.
package main

import (
	"runtime/interrupt"

	"i2clink/core"
	"i2clink/protocol"
)

const (
	slaveAddress = 0x24

	// Channel 15 is the one wired to the I2C0 master request line.
	masterChannel = 15

	irqI2C0 = 8

	// slaveOnly drops the master loop and the DMA engine; the foreground
	// parks the core between bus events instead of driving transactions.
	slaveOnly = false
)

// The process's one descriptor table. The DMA engine requires the base
// address to be 512-byte aligned.
//
//go:align 512
var descriptors core.DescriptorTable

var slave *core.Slave

func handleI2C0(interrupt.Interrupt) {
	// One event per invocation; a spurious wake is a no-op.
	if _, err := slave.Poll(); err != nil && err != core.ErrWouldBlock {
		// Unrecoverable: a stalled slave holds SCL for the whole bus.
		// Nothing to do but stop participating and say why.
		debugPrintFatal(err)
	}
}

func debugPrintFatal(err error) {
	debugWrite([]byte("slave fault: " + err.Error() + "\r\n"))
	for {
		systemControl.EnterLowPowerMode()
	}
}

var systemControl = &SystemControl{}

func main() {
	sys := systemControl
	initDebugUSART(sys)

	if slaveOnly {
		runSlaveOnly(sys)
	}

	mgr := core.NewChannelManager(&DMAController{}, sys, &descriptors)
	if err := mgr.Enable(); err != nil {
		debugPrintFatal(err)
	}

	bus := core.NewBus(&I2CInstance{}, sys, core.PinConfig{SCL: 10, SDA: 11})
	master, err := bus.EnableMasterMode(400_000)
	if err != nil {
		debugPrintFatal(err)
	}
	slave, err = bus.EnableSlaveMode(slaveAddress, func(b byte) byte {
		return b << 1
	})
	if err != nil {
		debugPrintFatal(err)
	}

	intr := interrupt.New(irqI2C0, handleI2C0)
	intr.Enable()

	ch, err := mgr.Take(masterChannel)
	if err != nil {
		debugPrintFatal(err)
	}

	var enc protocol.Encoder
	frames := make([]byte, 0, 256)
	txBuf := []byte{0x14}
	rxBuf := make([]byte, 1)

	for {
		w, err := master.WriteAll(slaveAddress, txBuf, ch)
		if err == nil {
			_, err = w.Start()
		}
		if err == nil {
			_, err = w.Wait()
		}
		if err != nil {
			frames = emitTrace(&enc, frames)
			continue
		}

		rxBuf[0] = 0
		r, err := master.ReadAll(slaveAddress, rxBuf, ch)
		if err == nil {
			_, err = r.Start()
		}
		if err == nil {
			_, err = r.Wait()
		}
		if err != nil {
			frames = emitTrace(&enc, frames)
			continue
		}

		if rxBuf[0] != txBuf[0]<<1 {
			debugWrite([]byte("reply mismatch\r\n"))
		}
		frames = emitTrace(&enc, frames)
	}
}

// emitTrace drains the trace ring into protocol frames on the debug USART.
func emitTrace(enc *protocol.Encoder, frames []byte) []byte {
	frames = frames[:0]
	for _, ev := range core.TraceSnapshot() {
		frames = enc.Append(frames, protocol.Event{
			Kind:    ev.Kind,
			Channel: ev.Channel,
			Value:   ev.Value,
		})
	}
	core.TraceReset()
	debugWrite(frames)
	return frames
}
