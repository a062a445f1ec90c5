//go:build tinygo

package main

import (
	"unsafe"

	"i2clink/core"
)

// I2CInstance implements core.BusHardware against the I2C0 register block,
// master and slave role on the same instance.
type I2CInstance struct{}

func (b *I2CInstance) Peripheral() core.PeripheralID { return core.PeriphI2C0 }

func (b *I2CInstance) Functions() (scl, sda core.FunctionID) {
	return core.FuncI2C0SCL, core.FuncI2C0SDA
}

// ConfigureMaster sets the bus clock divider and enables the master role.
// MSTTIME keeps the reset SCL high/low counts; CLKDIV is derived from the
// 12 MHz FRO for the requested rate.
func (b *I2CInstance) ConfigureMaster(clockHz uint32) {
	const froHz = 12_000_000
	// Four function-clock cycles per SCL half-period at the reset MSTTIME.
	div := froHz / (clockHz * 8)
	if div > 0 {
		div--
	}
	i2c0.CLKDIV.Set(div)
	i2c0.TIMEOUT.Set(0xFFFF)
	i2c0.CFG.SetBits(i2cCfgMstEn | i2cCfgTimeoutEn)
}

// MasterStart sends START plus the address with the R/W bit. The data
// phase is handed to DMA.
func (b *I2CInstance) MasterStart(addr core.Address, dir core.Direction) {
	rw := uint32(0)
	if dir == core.DirRead {
		rw = 1
	}
	i2c0.MSTDAT.Set(uint32(addr)<<1 | rw)
	i2c0.MSTCTL.Set(mstCtlStart | mstCtlDMA)
}

// MasterStop asserts the STOP condition.
func (b *I2CInstance) MasterStop() {
	i2c0.MSTCTL.Set(mstCtlStop)
}

// MasterIdle reports master-pending in the idle state: STOP driven, bus
// released.
func (b *I2CInstance) MasterIdle() bool {
	stat := i2c0.STAT.Get()
	if stat&i2cStatMstPending == 0 {
		return false
	}
	state := stat >> i2cStatMstStateShift & i2cStatMstStateMask
	return state == mstStateIdle
}

// MasterFault classifies the current hardware fault, if any.
func (b *I2CInstance) MasterFault() core.BusFault {
	stat := i2c0.STAT.Get()
	if stat&i2cStatMstArbLoss != 0 {
		return core.FaultArbitrationLost
	}
	if stat&(i2cStatEventTimeout|i2cStatSCLTimeout) != 0 && stat&i2cStatSlvSel == 0 {
		return core.FaultTimeout
	}
	if stat&i2cStatMstPending != 0 {
		switch stat >> i2cStatMstStateShift & i2cStatMstStateMask {
		case mstStateNackAddr:
			return core.FaultNackAddress
		case mstStateNackData:
			return core.FaultNackData
		}
	}
	return core.FaultNone
}

// ClearMasterFault acknowledges the write-one-to-clear fault flags.
func (b *I2CInstance) ClearMasterFault() {
	i2c0.STAT.Set(i2cStatMstArbLoss | i2cStatMstStStpErr |
		i2cStatEventTimeout | i2cStatSCLTimeout)
}

// DataRegister returns the MSTDAT address for descriptor end-address use.
func (b *I2CInstance) DataRegister() uintptr {
	return uintptr(unsafe.Pointer(&i2c0.MSTDAT))
}

func (b *I2CInstance) MasterTrigger() core.TriggerSource {
	return core.TriggerI2CMaster
}

// ConfigureSlave programs slave address 0 and enables the slave role with
// its pending interrupt.
func (b *I2CInstance) ConfigureSlave(addr core.Address) {
	i2c0.SLVADR0.Set(uint32(addr) << 1)
	i2c0.CFG.SetBits(i2cCfgSlvEn)
	i2c0.INTENSET.Set(i2cIntSlvPending)
}

// SlaveEvent reads the one pending-event indicator.
func (b *I2CInstance) SlaveEvent() core.SlaveEvent {
	stat := i2c0.STAT.Get()
	if stat&i2cStatMstArbLoss != 0 && stat&i2cStatSlvSel != 0 {
		return core.EventArbitrationLost
	}
	if stat&(i2cStatEventTimeout|i2cStatSCLTimeout) != 0 && stat&i2cStatSlvSel != 0 {
		return core.EventBusError
	}
	if stat&i2cStatSlvPending == 0 {
		return core.EventNone
	}
	switch stat >> i2cStatSlvStateShift & i2cStatSlvStateMask {
	case slvStateAddr:
		return core.EventAddressMatched
	case slvStateRx:
		return core.EventRxReady
	case slvStateTx:
		return core.EventTxReady
	}
	return core.EventNone
}

// SlaveContinue acknowledges the current phase and releases the clock
// stretch.
func (b *I2CInstance) SlaveContinue() {
	i2c0.SLVCTL.Set(slvCtlContinue)
}

func (b *I2CInstance) SlaveRead() byte {
	return byte(i2c0.SLVDAT.Get())
}

func (b *I2CInstance) SlaveWrite(v byte) {
	i2c0.SLVDAT.Set(uint32(v))
}

// SlaveErrorCode returns the raw timeout/error bits for the fatal report.
func (b *I2CInstance) SlaveErrorCode() uint8 {
	return uint8(i2c0.STAT.Get() >> 24)
}
