package gas

import (
	"errors"
	"fmt"
)

var ErrOutOfGas = errors.New("not enough gas")

// Meter accumulates gas for one invocation. Used gas never decreases.
type Meter struct {
	schedule *Schedule
	limit    uint64
	used     uint64
	refund   uint64
}

// NewMeter creates a meter charging against limit.
func NewMeter(limit uint64, schedule *Schedule) *Meter {
	if schedule == nil {
		schedule = DefaultSchedule()
	}
	return &Meter{schedule: schedule, limit: limit}
}

// Use charges amount. When the charge does not fit, the meter is exhausted
// and ErrOutOfGas is returned.
func (m *Meter) Use(amount uint64) error {
	left := m.limit - m.used
	if amount > left {
		m.used = m.limit
		return fmt.Errorf("%w: need %d, have %d", ErrOutOfGas, amount, left)
	}
	m.used += amount
	return nil
}

// UseHook charges the scheduled cost of hook.
func (m *Meter) UseHook(hook string) error {
	cost, err := m.schedule.Cost(hook)
	if err != nil {
		return err
	}
	return m.Use(cost)
}

// UsePerByte charges perByte for each of n bytes.
func (m *Meter) UsePerByte(perByte uint64, n int) error {
	if n <= 0 || perByte == 0 {
		return nil
	}
	count := uint64(n)
	if count > (m.limit-m.used)/perByte+1 {
		return m.Use(m.limit - m.used + 1)
	}
	return m.Use(perByte * count)
}

func (m *Meter) Schedule() *Schedule { return m.schedule }
func (m *Meter) Limit() uint64       { return m.limit }
func (m *Meter) Used() uint64        { return m.used }
func (m *Meter) Left() uint64        { return m.limit - m.used }

// AddRefund records gas to be returned to the sender.
func (m *Meter) AddRefund(amount uint64) {
	m.refund += amount
}

func (m *Meter) Refunded() uint64 { return m.refund }
