package vm

import (
	"math/big"

	"github.com/govm-net/hookvm/executor/native"
	"github.com/govm-net/hookvm/hooks"
	"github.com/govm-net/hookvm/managed"
	"github.com/govm-net/hookvm/types"
)

var (
	callerCode = []byte("caller-contract")
	calleeCode = []byte("callee-contract")
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func buf(h *hooks.VMHooks, b []byte) managed.Handle {
	return must(h.Context().Arena().NewBuffer(b))
}

func vec(h *hooks.VMHooks, values ...[]byte) managed.Handle {
	return must(h.Context().Arena().NewBufferVec(values))
}

func bigInt(h *hooks.VMHooks, b []byte) managed.Handle {
	return must(h.Context().Arena().NewBigInt(new(big.Int).SetBytes(b)))
}

func arg(h *hooks.VMHooks, i int) []byte {
	return h.Context().Input().Args[i]
}

func store(h *hooks.VMHooks, key string, value []byte) error {
	_, bp := h.MBufferStorageStore(buf(h, []byte(key)), buf(h, value))
	if bp != nil {
		return bp
	}
	return nil
}

// callerContract drives the sub-call hooks. Destinations and functions
// come in as arguments.
func callerContract() native.Contract {
	noop := func(*hooks.VMHooks) error { return nil }
	return native.Contract{
		"init":    noop,
		"upgrade": noop,
		// dest, value, function
		"payAndCall": func(h *hooks.VMHooks) error {
			_, bp := h.ManagedTransferValueExecute(buf(h, arg(h, 0)), bigInt(h, arg(h, 1)), 0, buf(h, arg(h, 2)), vec(h))
			if bp != nil {
				return bp
			}
			return h.SmallIntFinishUnsigned(1)
		},
		// dest, value, function; returns the status and the own balance
		"tryPayAndCall": func(h *hooks.VMHooks) error {
			code, bp := h.ManagedExecuteOnDestContextWithErrorReturn(0, buf(h, arg(h, 0)), bigInt(h, arg(h, 1)), buf(h, arg(h, 2)), vec(h), buf(h, nil))
			if bp != nil {
				return bp
			}
			self := buf(h, nil)
			if bp := h.ManagedSCAddress(self); bp != nil {
				return bp
			}
			balance := bigInt(h, nil)
			if bp := h.BigIntGetExternalBalance(self, balance); bp != nil {
				return bp
			}
			if bp := h.SmallIntFinishSigned(int64(code)); bp != nil {
				return bp
			}
			return h.BigIntFinishUnsigned(balance)
		},
		// dest, function, args...
		"callSync": func(h *hooks.VMHooks) error {
			result := buf(h, nil)
			_, bp := h.ManagedExecuteOnDestContext(0, buf(h, arg(h, 0)), bigInt(h, nil), buf(h, arg(h, 1)), vec(h, h.Context().Input().Args[2:]...), result)
			if bp != nil {
				return bp
			}
			return h.MBufferFinishMany(result)
		},
		// dest, function, args...
		"readOnly": func(h *hooks.VMHooks) error {
			result := buf(h, nil)
			_, bp := h.ManagedExecuteReadOnly(0, buf(h, arg(h, 0)), buf(h, arg(h, 1)), vec(h, h.Context().Input().Args[2:]...), result)
			if bp != nil {
				return bp
			}
			return h.MBufferFinishMany(result)
		},
		// dest, function, args...
		"async": func(h *hooks.VMHooks) error {
			args := vec(h, h.Context().Input().Args[2:]...)
			if bp := h.ManagedAsyncCallWithCallback(buf(h, arg(h, 0)), bigInt(h, nil), buf(h, arg(h, 1)), args, buf(h, []byte("onDone")), vec(h, []byte("ctx"))); bp != nil {
				return bp
			}
			return store(h, "after-async", []byte{1})
		},
		// dest, value
		"asyncPay": func(h *hooks.VMHooks) error {
			return h.ManagedAsyncCallWithCallback(buf(h, arg(h, 0)), bigInt(h, arg(h, 1)), buf(h, nil), vec(h), buf(h, nil), vec(h))
		},
		"onDone": func(h *hooks.VMHooks) error {
			args := h.Context().Input().Args
			if err := store(h, "cb_n", []byte{byte(len(args))}); err != nil {
				return err
			}
			for i := 1; i < len(args); i++ {
				if err := store(h, "cb_"+string(rune('0'+i)), args[i]); err != nil {
					return err
				}
			}
			return nil
		},
		"recurse": func(h *hooks.VMHooks) error {
			self := buf(h, nil)
			if bp := h.ManagedSCAddress(self); bp != nil {
				return bp
			}
			_, bp := h.ManagedExecuteOnDestContext(0, self, bigInt(h, nil), buf(h, []byte("recurse")), vec(h), buf(h, nil))
			if bp != nil {
				return bp
			}
			return nil
		},
		// code
		"deploy": func(h *hooks.VMHooks) error {
			addr := buf(h, nil)
			metadata := types.CodeMetadata{Upgradeable: true}.Bytes()
			_, bp := h.ManagedCreateContract(0, bigInt(h, nil), buf(h, arg(h, 0)), buf(h, metadata), vec(h), addr, buf(h, nil))
			if bp != nil {
				return bp
			}
			return h.MBufferFinish(addr)
		},
		// dest, token, amount, function
		"sendToken": func(h *hooks.VMHooks) error {
			transfers, err := h.NewESDTTransfersVec([]types.ESDTTransfer{{TokenID: arg(h, 1), Value: new(big.Int).SetBytes(arg(h, 2))}})
			if err != nil {
				return err
			}
			_, bp := h.ManagedMultiTransferESDTNFTExecute(buf(h, arg(h, 0)), transfers, 0, buf(h, arg(h, 3)), vec(h))
			if bp != nil {
				return bp
			}
			return nil
		},
	}
}

// calleeContract is the destination of the sub-calls.
func calleeContract() native.Contract {
	return native.Contract{
		"init": func(*hooks.VMHooks) error { return nil },
		"accept": func(h *hooks.VMHooks) error {
			return nil
		},
		"refuse": func(h *hooks.VMHooks) error {
			return h.SignalError("refused")
		},
		"store": func(h *hooks.VMHooks) error {
			if err := store(h, "k", arg(h, 0)); err != nil {
				return err
			}
			return h.MBufferFinish(buf(h, []byte("stored")))
		},
		"f": func(h *hooks.VMHooks) error {
			if err := store(h, "f", []byte{1}); err != nil {
				return err
			}
			return h.SmallIntFinishUnsigned(7)
		},
		"fail": func(h *hooks.VMHooks) error {
			return h.SignalError("bad")
		},
		"countTokens": func(h *hooks.VMHooks) error {
			n, bp := h.GetNumESDTTransfers()
			if bp != nil {
				return bp
			}
			return store(h, "tokens", []byte{byte(n)})
		},
	}
}
