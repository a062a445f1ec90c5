package core

// Master is the foreground I2C master engine. Each transaction delegates
// its data phase to a DMA channel and blocks in Wait until both the DMA
// copy and the bus STOP are observed.
//
// A write-then-read sequence is two independent START/STOP transactions,
// not a repeated start. The channel handle is needed by both, so the read
// cannot be issued until the write's Wait has returned it.
type Master struct {
	hw BusHardware
}

// Completed carries the results of a finished transaction: the channel,
// ready to be re-armed, and the data buffer, ownership restored.
type Completed struct {
	Channel *Channel
	Buf     []byte
}

// WriteAll prepares a write of all of src to the slave at addr, paced by
// the DMA channel ch. The address is validated before any hardware is
// touched; a zero-length write is a no-op that completes successfully
// without arming DMA or asserting a start condition.
func (m *Master) WriteAll(addr Address, src []byte, ch *Channel) (*PendingWrite, error) {
	t, done, err := m.prepare(addr, src, true)
	if err != nil {
		return nil, err
	}
	return &PendingWrite{pending: pending{m: m, ch: ch, addr: addr, t: t, buf: src, done: done, dir: DirWrite}}, nil
}

// ReadAll prepares a read into all of dst from the slave at addr, paced by
// the DMA channel ch. Validation mirrors WriteAll.
func (m *Master) ReadAll(addr Address, dst []byte, ch *Channel) (*PendingRead, error) {
	t, done, err := m.prepare(addr, dst, false)
	if err != nil {
		return nil, err
	}
	return &PendingRead{pending: pending{m: m, ch: ch, addr: addr, t: t, buf: dst, done: done, dir: DirRead}}, nil
}

func (m *Master) prepare(addr Address, buf []byte, toPeriph bool) (Transfer, bool, error) {
	if addr > MaxAddress {
		return Transfer{}, false, ErrInvalidAddress
	}
	if len(buf) == 0 {
		return Transfer{}, true, nil
	}
	reg := m.hw.DataRegister()
	trig := m.hw.MasterTrigger()
	var t Transfer
	var err error
	if toPeriph {
		t, err = MemToPeriph(buf, reg, 1, uint32(len(buf)), trig)
	} else {
		t, err = PeriphToMem(reg, buf, 1, uint32(len(buf)), trig)
	}
	return t, false, err
}

// pending is one prepared transaction. Start arms the hardware; Wait
// blocks until completion and returns channel and buffer.
type pending struct {
	m       *Master
	ch      *Channel
	addr    Address
	t       Transfer
	buf     []byte
	dir     Direction
	started bool
	done    bool
}

func (p *pending) start() error {
	if p.done {
		return nil
	}
	if p.started {
		return ErrAlreadyStarted
	}
	if err := p.ch.ConfigureAndArm(p.t); err != nil {
		return err
	}
	p.m.hw.MasterStart(p.addr, p.dir)
	p.started = true
	traceRecord(TraceMasterStart, uint8(p.ch.ID()), uint8(p.addr))
	return nil
}

// wait drives the combined completion poll. budget < 0 polls forever;
// otherwise each loop iteration spends one unit and expiry is reported as
// a bus timeout, per the caller-imposed-deadline contract.
func (p *pending) wait(budget int) (Completed, error) {
	if p.done {
		return Completed{Channel: p.ch, Buf: p.buf}, nil
	}
	if !p.started {
		return Completed{}, ErrNotStarted
	}

	hw := p.m.hw
	for p.ch.active() {
		if f := hw.MasterFault(); f != FaultNone {
			return p.fail(f)
		}
		if p.ch.errored() {
			break
		}
		if budget == 0 {
			return p.fail(FaultTimeout)
		}
		if budget > 0 {
			budget--
		}
	}

	buf, err := p.ch.complete()
	if err != nil {
		// DMA-side abort mid-transaction: release the bus the same way
		// the fault path does, rather than leaving it until the next
		// START.
		p.m.hw.ClearMasterFault()
		p.m.hw.MasterStop()
		p.done = true
		debugPrintln(err.Error())
		return Completed{Channel: p.ch, Buf: buf}, err
	}

	// Data phase done; close the transaction and wait for the bus.
	hw.MasterStop()
	for !hw.MasterIdle() {
		if f := hw.MasterFault(); f != FaultNone {
			hw.ClearMasterFault()
			p.done = true
			return Completed{Channel: p.ch, Buf: buf}, f
		}
		if budget == 0 {
			p.done = true
			return Completed{Channel: p.ch, Buf: buf}, FaultTimeout
		}
		if budget > 0 {
			budget--
		}
	}

	p.done = true
	traceRecord(TraceMasterDone, uint8(p.ch.ID()), uint8(p.addr))
	return Completed{Channel: p.ch, Buf: buf}, nil
}

// fail tears down a transaction whose bus side faulted. The channel is
// released from the half-finished transfer and is usable again after
// re-configuration.
func (p *pending) fail(f BusFault) (Completed, error) {
	buf := p.ch.abandon()
	p.m.hw.ClearMasterFault()
	p.m.hw.MasterStop()
	p.done = true
	traceRecord(TraceMasterFault, uint8(p.ch.ID()), uint8(f))
	debugPrintln(f.Error())
	return Completed{Channel: p.ch, Buf: buf}, f
}

// PendingWrite is a prepared master write transaction.
type PendingWrite struct {
	pending
}

// Start asserts the start condition and the DMA trigger. Returns the
// receiver for chaining.
func (p *PendingWrite) Start() (*PendingWrite, error) {
	return p, p.start()
}

// Wait blocks until the DMA transfer and the bus STOP are both observed,
// then returns the channel and buffer. Faults are classified per case:
// NACK at address, NACK at data, arbitration lost, bus timeout.
func (p *PendingWrite) Wait() (Completed, error) {
	return p.wait(-1)
}

// WaitDeadline is Wait with a caller-imposed poll budget; expiry is
// surfaced as FaultTimeout.
func (p *PendingWrite) WaitDeadline(polls int) (Completed, error) {
	return p.wait(polls)
}

// PendingRead is a prepared master read transaction.
type PendingRead struct {
	pending
}

// Start asserts the start condition and the DMA trigger. Returns the
// receiver for chaining.
func (p *PendingRead) Start() (*PendingRead, error) {
	return p, p.start()
}

// Wait blocks until the DMA transfer and the bus STOP are both observed,
// then returns the channel and the filled buffer.
func (p *PendingRead) Wait() (Completed, error) {
	return p.wait(-1)
}

// WaitDeadline is Wait with a caller-imposed poll budget; expiry is
// surfaced as FaultTimeout.
func (p *PendingRead) WaitDeadline(polls int) (Completed, error) {
	return p.wait(polls)
}
