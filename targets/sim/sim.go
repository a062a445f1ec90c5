// Package sim is an in-process model of the DMA controller and one I2C
// instance with both bus roles on it. It implements the core hardware
// interfaces so the engine can run on a development host: the DMA side
// reads real descriptor rows and moves real memory, and the bus side
// routes bytes between the master transaction and the slave event queue,
// invoking the registered interrupt handler the way the hardware vector
// would.
//
// Transactions advance lazily, one byte per hardware poll, so the
// interleaving of foreground polling and interrupt-context slave work
// resembles the real device.
package sim

import (
	"unsafe"

	"i2clink/core"
)

type simChannel struct {
	enabled bool
	trig    core.TriggerSource
	armed   bool
	xfercfg uint32
	errored bool
}

// transaction is one in-flight master transaction.
type transaction struct {
	addr     core.Address
	dir      core.Direction
	index    int
	addrDone bool
	done     bool
}

// Hardware is the simulated device. The exported fields are test knobs and
// recorded system-controller activity.
type Hardware struct {
	table *core.DescriptorTable

	// System-controller call log.
	ClocksEnabled  []core.PeripheralID
	ClocksDisabled []core.PeripheralID
	PinAssignments map[core.FunctionID]core.PinID
	Sleeps         int

	// Ops counts every register-level access. Tests use it to prove a
	// rejected request produced zero hardware side effects.
	Ops int

	// Fault injection.
	NackAddress     bool // refuse the address phase of every transaction
	NackDataAt      int  // NACK the data byte at this index, -1 = never
	LoseArbitration bool // lose arbitration during the address phase
	HoldActive      bool // freeze armed channels (deadline tests)

	dmaEnabled bool
	tableBase  uintptr
	channels   [core.NumChannels]simChannel

	masterEnabled bool
	masterClockHz uint32
	dataReg       byte
	mstIdle       bool
	mstFault      core.BusFault
	stopReq       bool
	txn           *transaction

	slaveEnabled bool
	slaveAddr    core.Address
	pendingEvent core.SlaveEvent
	slvData      byte
	slvWrote     bool
	slvContinued bool
	slvErrCode   uint8

	irq func()
}

var (
	_ core.DMAHardware      = (*Hardware)(nil)
	_ core.BusHardware      = (*Hardware)(nil)
	_ core.SystemController = (*Hardware)(nil)
)

// New builds a simulated device around the given descriptor table. The
// table must be the same instance handed to the ChannelManager.
func New(table *core.DescriptorTable) *Hardware {
	return &Hardware{
		table:          table,
		PinAssignments: make(map[core.FunctionID]core.PinID),
		NackDataAt:     -1,
		mstIdle:        true,
	}
}

// SetInterruptHandler binds the handler the hardware vector would run. The
// sim invokes it synchronously, at most once per raised event.
func (h *Hardware) SetInterruptHandler(fn func()) {
	h.irq = fn
}

// System controller.

func (h *Hardware) EnableClock(p core.PeripheralID) {
	h.Ops++
	h.ClocksEnabled = append(h.ClocksEnabled, p)
}

func (h *Hardware) DisableClock(p core.PeripheralID) {
	h.Ops++
	h.ClocksDisabled = append(h.ClocksDisabled, p)
}

func (h *Hardware) AssignPinFunction(f core.FunctionID, pin core.PinID) {
	h.Ops++
	h.PinAssignments[f] = pin
}

func (h *Hardware) EnterLowPowerMode() {
	h.Ops++
	h.Sleeps++
	// wfi wakes on a pending interrupt.
	if h.pendingEvent != core.EventNone && h.irq != nil {
		h.irq()
	}
}

// DMA controller.

func (h *Hardware) EnableController(tableBase uintptr) {
	h.Ops++
	h.dmaEnabled = true
	h.tableBase = tableBase
}

func (h *Hardware) EnableChannel(ch int, trig core.TriggerSource) {
	h.Ops++
	h.channels[ch].enabled = true
	h.channels[ch].trig = trig
}

func (h *Hardware) DisableChannel(ch int) {
	h.Ops++
	h.channels[ch].enabled = false
	h.channels[ch].armed = false
}

func (h *Hardware) ArmChannel(ch int, xfercfg uint32) {
	h.Ops++
	c := &h.channels[ch]
	c.xfercfg = xfercfg
	c.armed = true
	if xfercfg&core.XferCfgSwTrig != 0 {
		h.runSoftware(ch)
	}
}

func (h *Hardware) ChannelActive(ch int) bool {
	h.Ops++
	h.step()
	return h.channels[ch].armed
}

func (h *Hardware) ChannelErrored(ch int) bool {
	h.Ops++
	return h.channels[ch].errored
}

func (h *Hardware) ClearChannelError(ch int) {
	h.Ops++
	h.channels[ch].errored = false
}

// FailChannel raises a channel's error flag and aborts its transfer, as a
// DMA-side hardware abort would. Test knob.
func (h *Hardware) FailChannel(ch int) {
	h.channels[ch].errored = true
	h.channels[ch].armed = false
}

// I2C master.

func (h *Hardware) Peripheral() core.PeripheralID { return core.PeriphI2C0 }

func (h *Hardware) Functions() (scl, sda core.FunctionID) {
	return core.FuncI2C0SCL, core.FuncI2C0SDA
}

func (h *Hardware) ConfigureMaster(clockHz uint32) {
	h.Ops++
	h.masterEnabled = true
	h.masterClockHz = clockHz
}

func (h *Hardware) MasterStart(addr core.Address, dir core.Direction) {
	h.Ops++
	h.txn = &transaction{addr: addr, dir: dir}
	h.mstIdle = false
	h.stopReq = false
}

func (h *Hardware) MasterStop() {
	h.Ops++
	h.stopReq = true
}

func (h *Hardware) MasterIdle() bool {
	h.Ops++
	h.step()
	if h.txn == nil {
		return true
	}
	if h.stopReq && (h.txn.done || h.mstFault != core.FaultNone) {
		h.txn = nil
		h.mstIdle = true
	}
	return h.mstIdle
}

func (h *Hardware) MasterFault() core.BusFault {
	h.Ops++
	return h.mstFault
}

func (h *Hardware) ClearMasterFault() {
	h.Ops++
	h.mstFault = core.FaultNone
}

func (h *Hardware) DataRegister() uintptr {
	return uintptr(unsafe.Pointer(&h.dataReg))
}

func (h *Hardware) MasterTrigger() core.TriggerSource {
	return core.TriggerI2CMaster
}

// I2C slave.

func (h *Hardware) ConfigureSlave(addr core.Address) {
	h.Ops++
	h.slaveEnabled = true
	h.slaveAddr = addr
}

func (h *Hardware) SlaveEvent() core.SlaveEvent {
	h.Ops++
	return h.pendingEvent
}

func (h *Hardware) SlaveContinue() {
	h.Ops++
	h.slvContinued = true
	h.pendingEvent = core.EventNone
}

func (h *Hardware) SlaveRead() byte {
	h.Ops++
	return h.slvData
}

func (h *Hardware) SlaveWrite(b byte) {
	h.Ops++
	h.slvData = b
	h.slvWrote = true
}

func (h *Hardware) SlaveErrorCode() uint8 {
	h.Ops++
	return h.slvErrCode
}

// InjectSlaveEvent presents one pending slave event with the given data
// byte, as the bus would. Test knob for driving the slave machine without
// a master transaction.
func (h *Hardware) InjectSlaveEvent(ev core.SlaveEvent, data byte) {
	h.slvData = data
	h.pendingEvent = ev
}

// InjectSlaveFault presents a pending bus-error event with a raw hardware
// code. Test knob.
func (h *Hardware) InjectSlaveFault(code uint8) {
	h.slvErrCode = code
	h.pendingEvent = core.EventBusError
}

// EventPending reports whether the injected or raised event is still
// unconsumed (the slave never acknowledged it).
func (h *Hardware) EventPending() bool {
	return h.pendingEvent != core.EventNone
}

// SlaveWroteData reports whether the slave staged a transmit byte since
// the last raised event.
func (h *Hardware) SlaveWroteData() bool {
	return h.slvWrote
}

// TableBase returns the descriptor base address the engine was given.
func (h *Hardware) TableBase() uintptr {
	return h.tableBase
}

// StopRequested reports whether the master asserted a STOP since the last
// start condition.
func (h *Hardware) StopRequested() bool {
	return h.stopReq
}

// Bus model.

// raise presents an event to the slave side and runs the interrupt
// handler. Reports whether the slave acknowledged before the (simulated)
// clock stretch gave out.
func (h *Hardware) raise(ev core.SlaveEvent) bool {
	h.pendingEvent = ev
	h.slvContinued = false
	if h.irq != nil {
		h.irq()
	}
	acked := h.slvContinued
	h.pendingEvent = core.EventNone
	return acked
}

func (h *Hardware) failTxn(f core.BusFault) {
	h.mstFault = f
	if h.txn != nil {
		h.txn.done = true
	}
}

// pacedChannel finds the armed channel riding the master request line.
func (h *Hardware) pacedChannel() int {
	for i := range h.channels {
		c := &h.channels[i]
		if c.enabled && c.armed && c.trig == core.TriggerI2CMaster {
			return i
		}
	}
	return -1
}

// step advances the in-flight master transaction by at most one bus byte.
// Called from the master-side polls, so the foreground's busy-wait is what
// clocks the simulated bus forward.
func (h *Hardware) step() {
	t := h.txn
	if t == nil || t.done || h.HoldActive || h.mstFault != core.FaultNone {
		return
	}

	if !t.addrDone {
		if h.LoseArbitration {
			h.failTxn(core.FaultArbitrationLost)
			return
		}
		if h.NackAddress || !h.slaveEnabled || t.addr != h.slaveAddr {
			h.failTxn(core.FaultNackAddress)
			return
		}
		if !h.raise(core.EventAddressMatched) {
			h.failTxn(core.FaultTimeout)
			return
		}
		t.addrDone = true
		return
	}

	ch := h.pacedChannel()
	if ch < 0 {
		// Nothing armed to pace; the master stretches the clock.
		return
	}
	c := &h.channels[ch]
	d := h.table[ch]
	count := int(c.xfercfg>>core.XferCfgCountShift&0x3FF) + 1

	i := t.index
	if t.dir == core.DirWrite {
		if i == h.NackDataAt {
			h.failTxn(core.FaultNackData)
			return
		}
		// One DMA element, memory to data register, then out on the bus.
		src := d.SrcEnd - uintptr(count-1) + uintptr(i)
		h.dataReg = *(*byte)(unsafe.Pointer(src))
		h.slvData = h.dataReg
		if !h.raise(core.EventRxReady) {
			h.failTxn(core.FaultTimeout)
			return
		}
	} else {
		// The bus requests a byte from the slave, then DMA stores it.
		h.slvWrote = false
		acked := h.raise(core.EventTxReady)
		if !acked || !h.slvWrote {
			// Slave had nothing to send: the bus stalls and the
			// master's event timeout fires.
			h.failTxn(core.FaultTimeout)
			return
		}
		h.dataReg = h.slvData
		dst := d.DstEnd - uintptr(count-1) + uintptr(i)
		*(*byte)(unsafe.Pointer(dst)) = h.dataReg
	}

	t.index++
	if t.index == count {
		t.done = true
		c.armed = false // transfer exhausted
	}
}

// runSoftware executes a software-triggered transfer in one shot, reading
// the descriptor row the way the engine would.
func (h *Hardware) runSoftware(ch int) {
	d := h.table[ch]
	cfg := h.channels[ch].xfercfg
	width := 1 << (cfg >> core.XferCfgWidthShift & 0x3)
	count := int(cfg>>core.XferCfgCountShift&0x3FF) + 1
	srcInc := cfg>>core.XferCfgSrcIncShift&0x3 != 0
	dstInc := cfg>>core.XferCfgDstIncShift&0x3 != 0

	span := uintptr((count - 1) * width)
	src := d.SrcEnd
	if srcInc {
		src -= span
	}
	dst := d.DstEnd
	if dstInc {
		dst -= span
	}

	for i := 0; i < count; i++ {
		for b := 0; b < width; b++ {
			s := src + uintptr(b)
			if srcInc {
				s += uintptr(i * width)
			}
			t := dst + uintptr(b)
			if dstInc {
				t += uintptr(i * width)
			}
			*(*byte)(unsafe.Pointer(t)) = *(*byte)(unsafe.Pointer(s))
		}
	}
	h.channels[ch].armed = false
}
