package hooks

import (
	"fmt"

	"github.com/govm-net/hookvm/gas"
	"github.com/govm-net/hookvm/managed"
	"github.com/govm-net/hookvm/types"
)

func (h *VMHooks) writeLog(hook string, topicsVec managed.Handle, build func(topics [][]byte) (types.LogEntry, error)) *types.BreakpointError {
	return h.run(hook, func() error {
		topics, err := h.arena().ReadBufferVec(topicsVec)
		if err != nil {
			return err
		}
		entry, err := build(topics)
		if err != nil {
			return err
		}
		if limit := h.tc.Config().MaxLogTopics; limit > 0 && len(entry.Topics) > limit {
			return fmt.Errorf("%w: %d > %d", ErrTooManyTopics, len(entry.Topics), limit)
		}
		entry.Address = h.tc.SCAddress()
		h.tc.AddLog(entry)
		return nil
	})
}

// ManagedWriteLog appends a log with the topics of the vec and one data field.
func (h *VMHooks) ManagedWriteLog(topicsVec, data managed.Handle) *types.BreakpointError {
	return h.writeLog(gas.WriteLog, topicsVec, func(topics [][]byte) (types.LogEntry, error) {
		d, err := h.arena().BufferBytes(data)
		if err != nil {
			return types.LogEntry{}, err
		}
		return types.LogEntry{Topics: topics, Data: [][]byte{d}}, nil
	})
}

// ManagedWriteEventLog appends an event: the first topic is the event
// identifier and the rest are its indexed topics.
func (h *VMHooks) ManagedWriteEventLog(topicsVec, data managed.Handle) *types.BreakpointError {
	return h.writeLog(gas.WriteEventLog, topicsVec, func(topics [][]byte) (types.LogEntry, error) {
		if len(topics) == 0 {
			return types.LogEntry{}, fmt.Errorf("%w: missing event identifier", managed.ErrOutOfRange)
		}
		d, err := h.arena().BufferBytes(data)
		if err != nil {
			return types.LogEntry{}, err
		}
		return types.LogEntry{Identifier: topics[0], Topics: topics[1:], Data: [][]byte{d}}, nil
	})
}

// ManagedWriteLogWithAdditionalData appends a log whose data holds the data
// buffer followed by every buffer of the additional vec.
func (h *VMHooks) ManagedWriteLogWithAdditionalData(topicsVec, data, additional managed.Handle) *types.BreakpointError {
	return h.writeLog(gas.WriteLogWithAdditionalData, topicsVec, func(topics [][]byte) (types.LogEntry, error) {
		d, err := h.arena().BufferBytes(data)
		if err != nil {
			return types.LogEntry{}, err
		}
		extra, err := h.arena().ReadBufferVec(additional)
		if err != nil {
			return types.LogEntry{}, err
		}
		return types.LogEntry{Topics: topics, Data: append([][]byte{d}, extra...)}, nil
	})
}
