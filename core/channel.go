package core

import "sync/atomic"

// ChannelManager owns the DMA controller and hands out channel handles.
// At most one live handle exists per channel; the handle carries buffer
// ownership for the duration of each transfer, so a second configuration
// of an armed channel is structurally unobtainable rather than locked out.
type ChannelManager struct {
	hw      DMAHardware
	sys     SystemController
	table   *DescriptorTable
	enabled bool
	taken   [NumChannels]uint32
}

// NewChannelManager builds a manager around the process's one descriptor
// table. The table must outlive the manager; the DMA engine keeps reading
// it after Enable.
func NewChannelManager(hw DMAHardware, sys SystemController, table *DescriptorTable) *ChannelManager {
	return &ChannelManager{hw: hw, sys: sys, table: table}
}

// Enable gates the controller clock and writes the descriptor table base
// address, once. A second call is rejected: the base register is written
// exactly one time per process.
func (m *ChannelManager) Enable() error {
	if m.enabled {
		return ErrAlreadyEnabled
	}
	m.sys.EnableClock(PeriphDMA)
	m.hw.EnableController(m.table.Base())
	m.enabled = true
	return nil
}

// Take claims a channel and returns its unique handle. Fails with
// ErrChannelTaken while a previous handle is outstanding. The claim is a
// single atomic swap so foreground and interrupt paths can take disjoint
// channels without a lock.
func (m *ChannelManager) Take(id int) (*Channel, error) {
	if !m.enabled {
		return nil, ErrNotEnabled
	}
	if id < 0 || id >= NumChannels {
		return nil, ErrNoSuchChannel
	}
	if !atomic.CompareAndSwapUint32(&m.taken[id], 0, 1) {
		return nil, ErrChannelTaken
	}
	return &Channel{mgr: m, id: id}, nil
}

// Channel is the unique handle to one DMA channel and its descriptor row.
type Channel struct {
	mgr   *ChannelManager
	id    int
	armed bool
	cur   Transfer
}

// ID returns the channel index.
func (c *Channel) ID() int { return c.id }

// ConfigureAndArm writes the channel's descriptor row and starts the
// transfer. Non-blocking; the transfer's buffer is owned by the channel
// until Wait returns it. The descriptor row is only ever written here,
// while the channel is not armed.
func (c *Channel) ConfigureAndArm(t Transfer) error {
	if c.armed {
		return ErrChannelArmed
	}
	d := t.descriptor()
	*c.mgr.table.row(c.id) = d
	c.mgr.hw.EnableChannel(c.id, t.trig)
	c.mgr.hw.ArmChannel(c.id, d.XferCfg)
	c.cur = t
	c.armed = true
	return nil
}

// Wait polls until the channel's active flag clears or its error flag
// sets, then returns the buffer, ownership restored. There is no built-in
// timeout; a caller needing bounded latency imposes its own deadline and
// treats expiry as a bus timeout.
func (c *Channel) Wait() ([]byte, error) {
	if !c.armed {
		return nil, ErrNotArmed
	}
	for c.active() {
		if c.errored() {
			break
		}
	}
	return c.complete()
}

func (c *Channel) active() bool  { return c.mgr.hw.ChannelActive(c.id) }
func (c *Channel) errored() bool { return c.mgr.hw.ChannelErrored(c.id) }

// complete tears down a finished transfer and hands the buffer back.
func (c *Channel) complete() ([]byte, error) {
	buf := c.cur.buf
	c.cur = Transfer{}
	c.armed = false
	errored := c.errored()
	if errored {
		c.mgr.hw.ClearChannelError(c.id)
	}
	c.mgr.hw.DisableChannel(c.id)
	if errored {
		return buf, ErrTransferAborted
	}
	return buf, nil
}

// abandon releases a transfer whose bus side faulted. The hardware has
// stopped pacing the channel; disabling it is the documented first step of
// re-configuration, not a mid-flight abort.
func (c *Channel) abandon() []byte {
	buf := c.cur.buf
	c.cur = Transfer{}
	c.armed = false
	if c.errored() {
		c.mgr.hw.ClearChannelError(c.id)
	}
	c.mgr.hw.DisableChannel(c.id)
	return buf
}

// Release returns the channel to the pool so Take can grant it again.
// Rejected while a transfer is in flight.
func (c *Channel) Release() error {
	if c.armed {
		return ErrChannelArmed
	}
	atomic.StoreUint32(&c.mgr.taken[c.id], 0)
	return nil
}
