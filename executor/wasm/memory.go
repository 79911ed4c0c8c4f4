package wasm

import (
	"context"
	"fmt"

	"github.com/govm-net/hookvm/hooks"
	"github.com/govm-net/hookvm/types"
	"github.com/tetratelabs/wazero/api"
)

type hooksKey struct{}

func withHooks(ctx context.Context, h *hooks.VMHooks) context.Context {
	return context.WithValue(ctx, hooksKey{}, h)
}

// hooksOf returns the hooks of the running invocation. Host functions
// only run inside Execute, which always sets them.
func hooksOf(ctx context.Context) *hooks.VMHooks {
	return ctx.Value(hooksKey{}).(*hooks.VMHooks)
}

// check unwinds the contract when a hook stopped it.
func check(bp *types.BreakpointError) {
	if bp != nil {
		panic(bp)
	}
}

func boolResult(v bool, bp *types.BreakpointError) int32 {
	check(bp)
	if v {
		return 1
	}
	return 0
}

// read copies length bytes at ptr out of linear memory. Out of range
// accesses fail the invocation.
func read(h *hooks.VMHooks, m api.Module, ptr, length int32) []byte {
	if ptr < 0 || length < 0 {
		check(h.Context().Fail(types.ExecutionFailed, fmt.Sprintf("invalid memory range %d+%d", ptr, length)))
	}
	data, ok := m.Memory().Read(uint32(ptr), uint32(length))
	if !ok {
		check(h.Context().Fail(types.ExecutionFailed, fmt.Sprintf("memory access out of bounds: %d+%d", ptr, length)))
	}
	return append([]byte(nil), data...)
}

func write(h *hooks.VMHooks, m api.Module, ptr int32, data []byte) {
	if ptr < 0 || !m.Memory().Write(uint32(ptr), data) {
		check(h.Context().Fail(types.ExecutionFailed, fmt.Sprintf("memory access out of bounds: %d+%d", ptr, len(data))))
	}
}
