package wasm

import (
	"context"
	"fmt"
	"sort"

	"github.com/govm-net/hookvm/gas"
	"github.com/govm-net/hookvm/hooks"
	"github.com/govm-net/hookvm/managed"
	"github.com/govm-net/hookvm/types"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// AsyncCallWithCallback is bound next to the catalogue hooks. It is
// charged as managedAsyncCall.
const AsyncCallWithCallback = "managedAsyncCallWithCallback"

type (
	handle = managed.Handle
	bp     = *types.BreakpointError
	vmh    = *hooks.VMHooks
)

// hostFuncs collects the host functions before they are exported.
type hostFuncs map[string]any

func (f hostFuncs) add(name string, fn any) {
	if _, exists := f[name]; exists {
		panic(fmt.Sprintf("host function %s bound twice", name))
	}
	f[name] = fn
}

func (f hostFuncs) void0(name string, fn func(vmh) bp) {
	f.add(name, func(ctx context.Context) {
		check(fn(hooksOf(ctx)))
	})
}

func (f hostFuncs) void1(name string, fn func(vmh, handle) bp) {
	f.add(name, func(ctx context.Context, a int32) {
		check(fn(hooksOf(ctx), handle(a)))
	})
}

func (f hostFuncs) void2(name string, fn func(vmh, handle, handle) bp) {
	f.add(name, func(ctx context.Context, a, b int32) {
		check(fn(hooksOf(ctx), handle(a), handle(b)))
	})
}

func (f hostFuncs) void3(name string, fn func(vmh, handle, handle, handle) bp) {
	f.add(name, func(ctx context.Context, a, b, c int32) {
		check(fn(hooksOf(ctx), handle(a), handle(b), handle(c)))
	})
}

// indexed binds hooks taking an index and an output handle.
func (f hostFuncs) indexed(name string, fn func(vmh, int32, handle) bp) {
	f.add(name, func(ctx context.Context, index, dst int32) {
		check(fn(hooksOf(ctx), index, handle(dst)))
	})
}

// intoIndexed binds hooks taking an output handle and an index.
func (f hostFuncs) intoIndexed(name string, fn func(vmh, handle, int32) bp) {
	f.add(name, func(ctx context.Context, dst, index int32) {
		check(fn(hooksOf(ctx), handle(dst), index))
	})
}

func (f hostFuncs) i32(name string, fn func(vmh) (int32, bp)) {
	f.add(name, func(ctx context.Context) int32 {
		v, b := fn(hooksOf(ctx))
		check(b)
		return v
	})
}

func (f hostFuncs) i32Of(name string, fn func(vmh, handle) (int32, bp)) {
	f.add(name, func(ctx context.Context, a int32) int32 {
		v, b := fn(hooksOf(ctx), handle(a))
		check(b)
		return v
	})
}

func (f hostFuncs) i32Of2(name string, fn func(vmh, handle, handle) (int32, bp)) {
	f.add(name, func(ctx context.Context, a, b int32) int32 {
		v, brk := fn(hooksOf(ctx), handle(a), handle(b))
		check(brk)
		return v
	})
}

func (f hostFuncs) i64(name string, fn func(vmh) (int64, bp)) {
	f.add(name, func(ctx context.Context) int64 {
		v, b := fn(hooksOf(ctx))
		check(b)
		return v
	})
}

func (f hostFuncs) i64At(name string, fn func(vmh, int32) (int64, bp)) {
	f.add(name, func(ctx context.Context, index int32) int64 {
		v, b := fn(hooksOf(ctx), index)
		check(b)
		return v
	})
}

func (f hostFuncs) i64Of(name string, fn func(vmh, handle) (int64, bp)) {
	f.add(name, func(ctx context.Context, a int32) int64 {
		v, b := fn(hooksOf(ctx), handle(a))
		check(b)
		return v
	})
}

func (f hostFuncs) newHandle(name string, fn func(vmh) (handle, bp)) {
	f.add(name, func(ctx context.Context) int32 {
		v, b := fn(hooksOf(ctx))
		check(b)
		return int32(v)
	})
}

func (f hostFuncs) bool1(name string, fn func(vmh, handle) (bool, bp)) {
	f.add(name, func(ctx context.Context, a int32) int32 {
		return boolResult(fn(hooksOf(ctx), handle(a)))
	})
}

func (f hostFuncs) bool2(name string, fn func(vmh, handle, handle) (bool, bp)) {
	f.add(name, func(ctx context.Context, a, b int32) int32 {
		return boolResult(fn(hooksOf(ctx), handle(a), handle(b)))
	})
}

func (f hostFuncs) bool3(name string, fn func(vmh, handle, handle, handle) (bool, bp)) {
	f.add(name, func(ctx context.Context, a, b, c int32) int32 {
		return boolResult(fn(hooksOf(ctx), handle(a), handle(b), handle(c)))
	})
}

func (f hostFuncs) setInt64(name string, fn func(vmh, handle, int64) bp) {
	f.add(name, func(ctx context.Context, dst int32, v int64) {
		check(fn(hooksOf(ctx), handle(dst), v))
	})
}

// hostFunctions returns every function of the env module by import name.
func hostFunctions() hostFuncs {
	f := hostFuncs{}

	// call value and arguments
	f.void1(gas.GetCallValue, vmh.BigIntGetCallValue)
	f.void0(gas.CheckNoPayment, vmh.CheckNoPayment)
	f.i32(gas.GetNumESDTTransfers, vmh.GetNumESDTTransfers)
	f.intoIndexed(gas.GetESDTValueByIndex, vmh.BigIntGetESDTCallValueByIndex)
	f.intoIndexed(gas.GetESDTTokenNameByIndex, vmh.ManagedGetESDTTokenNameByIndex)
	f.i64At(gas.GetESDTTokenNonceByIndex, vmh.GetESDTTokenNonceByIndex)
	f.void1(gas.GetMultiESDTCallValue, vmh.ManagedGetMultiESDTCallValue)
	f.i32(gas.GetNumArguments, vmh.GetNumArguments)
	f.add(gas.GetArgumentLength, func(ctx context.Context, id int32) int32 {
		v, b := hooksOf(ctx).GetArgumentLength(id)
		check(b)
		return v
	})
	f.indexed(gas.GetArgument, vmh.MBufferGetArgument)
	f.void1(gas.GetArgumentsBuffer, vmh.ManagedGetArgumentsBuffer)
	f.indexed(gas.GetUnsignedArgument, vmh.BigIntGetUnsignedArgument)
	f.indexed(gas.GetSignedArgument, vmh.BigIntGetSignedArgument)
	f.i64At(gas.SmallIntGetUnsignedArgument, vmh.SmallIntGetUnsignedArgument)
	f.i64At(gas.SmallIntGetSignedArgument, vmh.SmallIntGetSignedArgument)
	f.void1(gas.GetFunction, vmh.ManagedGetFunction)
	f.void1(gas.Finish, vmh.MBufferFinish)
	f.void1(gas.FinishMany, vmh.MBufferFinishMany)
	f.add(gas.SmallIntFinishUnsigned, func(ctx context.Context, v int64) {
		check(hooksOf(ctx).SmallIntFinishUnsigned(v))
	})
	f.add(gas.SmallIntFinishSigned, func(ctx context.Context, v int64) {
		check(hooksOf(ctx).SmallIntFinishSigned(v))
	})
	f.void1(gas.BigIntFinishUnsigned, vmh.BigIntFinishUnsigned)
	f.void1(gas.BigIntFinishSigned, vmh.BigIntFinishSigned)
	f.void1(gas.SignalError, vmh.ManagedSignalError)
	f.void0(gas.SignalExit, vmh.SignalExit)

	// blockchain
	f.void1(gas.GetSCAddress, vmh.ManagedSCAddress)
	f.void1(gas.GetCaller, vmh.ManagedCaller)
	f.void1(gas.GetOwnerAddress, vmh.ManagedOwnerAddress)
	f.i32Of(gas.GetShardOfAddress, vmh.GetShardOfAddress)
	f.bool1(gas.IsSmartContract, vmh.IsSmartContract)
	f.i64(gas.GetBlockNonce, vmh.GetBlockNonce)
	f.i64(gas.GetBlockRound, vmh.GetBlockRound)
	f.i64(gas.GetBlockEpoch, vmh.GetBlockEpoch)
	f.i64(gas.GetBlockTimestamp, vmh.GetBlockTimestamp)
	f.void1(gas.GetBlockRandomSeed, vmh.ManagedGetBlockRandomSeed)
	f.i64(gas.GetPrevBlockNonce, vmh.GetPrevBlockNonce)
	f.i64(gas.GetPrevBlockRound, vmh.GetPrevBlockRound)
	f.i64(gas.GetPrevBlockEpoch, vmh.GetPrevBlockEpoch)
	f.i64(gas.GetPrevBlockTimestamp, vmh.GetPrevBlockTimestamp)
	f.void1(gas.GetPrevBlockRandomSeed, vmh.ManagedGetPrevBlockRandomSeed)
	f.void1(gas.GetOriginalTxHash, vmh.ManagedGetOriginalTxHash)
	f.void1(gas.GetPrevTxHash, vmh.ManagedGetPrevTxHash)
	f.i64(gas.GetGasLeft, vmh.GetGasLeft)
	f.void2(gas.GetExternalBalance, vmh.BigIntGetExternalBalance)
	f.void2(gas.GetCodeMetadata, vmh.ManagedGetCodeMetadata)
	f.void2(gas.GetCodeHash, vmh.ManagedGetCodeHash)
	f.bool1(gas.IsBuiltinFunction, vmh.ManagedIsBuiltinFunction)
	f.i32(gas.GetNumReturnData, vmh.GetNumReturnData)
	f.indexed(gas.GetReturnData, vmh.ManagedGetReturnData)
	f.void0(gas.CleanReturnData, vmh.CleanReturnData)
	f.add(gas.DeleteFromReturnData, func(ctx context.Context, index int32) {
		check(hooksOf(ctx).DeleteFromReturnData(index))
	})
	f.add(gas.GetESDTTokenData, func(ctx context.Context, addr, token int32, nonce int64, value, properties, hash, name, attributes, creator, royalties, uris int32) {
		check(hooksOf(ctx).ManagedGetESDTTokenData(handle(addr), handle(token), nonce, hooks.TokenDataHandles{
			Value:      handle(value),
			Properties: handle(properties),
			Hash:       handle(hash),
			Name:       handle(name),
			Attributes: handle(attributes),
			Creator:    handle(creator),
			Royalties:  handle(royalties),
			URIs:       handle(uris),
		}))
	})
	f.add(gas.GetESDTBalance, func(ctx context.Context, addr, token int32, nonce int64, dst int32) {
		check(hooksOf(ctx).BigIntGetESDTExternalBalance(handle(addr), handle(token), nonce, handle(dst)))
	})
	f.add(gas.IsESDTFrozen, func(ctx context.Context, addr, token int32, nonce int64) int32 {
		return boolResult(hooksOf(ctx).ManagedIsESDTFrozen(handle(addr), handle(token), nonce))
	})
	f.bool1(gas.IsESDTPaused, vmh.ManagedIsESDTPaused)
	f.bool1(gas.IsESDTLimitedTransfer, vmh.ManagedIsESDTLimitedTransfer)
	f.i64Of(gas.GetESDTLocalRoles, vmh.GetESDTLocalRoles)

	bindBigInt(f)
	bindBigFloat(f)
	bindBuffers(f)
	bindCrypto(f)

	// managed maps
	f.newHandle(gas.MapNew, vmh.ManagedMapNew)
	f.void3(gas.MapPut, vmh.ManagedMapPut)
	f.void3(gas.MapGet, vmh.ManagedMapGet)
	f.void3(gas.MapRemove, vmh.ManagedMapRemove)
	f.bool2(gas.MapContains, vmh.ManagedMapContains)
	f.i32Of(gas.MapLen, vmh.ManagedMapLen)

	// storage
	f.add(gas.StorageStore, func(ctx context.Context, key, value int32) int32 {
		status, b := hooksOf(ctx).MBufferStorageStore(handle(key), handle(value))
		check(b)
		return int32(status)
	})
	f.void2(gas.StorageLoad, vmh.MBufferStorageLoad)
	f.i32Of(gas.StorageLoadLength, vmh.StorageLoadLength)
	f.void3(gas.StorageLoadFromAddress, vmh.MBufferStorageLoadFromAddress)

	// logs
	f.void2(gas.WriteLog, vmh.ManagedWriteLog)
	f.void2(gas.WriteEventLog, vmh.ManagedWriteEventLog)
	f.void3(gas.WriteLogWithAdditionalData, vmh.ManagedWriteLogWithAdditionalData)

	bindCalls(f)
	return f
}

func bindBigInt(f hostFuncs) {
	f.add(gas.BigIntNew, func(ctx context.Context, v int64) int32 {
		h, b := hooksOf(ctx).BigIntNew(v)
		check(b)
		return int32(h)
	})
	f.add(gas.BigIntNewFromBytes, func(ctx context.Context, m api.Module, ptr, length int32) int32 {
		h := hooksOf(ctx)
		v, b := h.BigIntNewFromBytes(read(h, m, ptr, length))
		check(b)
		return int32(v)
	})
	f.setInt64(gas.BigIntSetInt64, vmh.BigIntSetInt64)
	f.i64Of(gas.BigIntGetInt64, vmh.BigIntGetInt64)
	f.bool1(gas.BigIntIsInt64, vmh.BigIntIsInt64)
	f.void2(gas.BigIntGetUnsignedBytes, vmh.MBufferFromBigIntUnsigned)
	f.void2(gas.BigIntSetUnsignedBytes, vmh.MBufferToBigIntUnsigned)
	f.void2(gas.BigIntGetSignedBytes, vmh.MBufferFromBigIntSigned)
	f.void2(gas.BigIntSetSignedBytes, vmh.MBufferToBigIntSigned)
	f.i32Of(gas.BigIntSign, vmh.BigIntSign)
	f.i32Of2(gas.BigIntCmp, vmh.BigIntCmp)
	f.void3(gas.BigIntAdd, vmh.BigIntAdd)
	f.void3(gas.BigIntSub, vmh.BigIntSub)
	f.void3(gas.BigIntMul, vmh.BigIntMul)
	f.void3(gas.BigIntTDiv, vmh.BigIntTDiv)
	f.void3(gas.BigIntTMod, vmh.BigIntTMod)
	f.void2(gas.BigIntAbs, vmh.BigIntAbs)
	f.void2(gas.BigIntNeg, vmh.BigIntNeg)
	f.void2(gas.BigIntSqrt, vmh.BigIntSqrt)
	f.void3(gas.BigIntPow, vmh.BigIntPow)
	f.i32Of(gas.BigIntLog2, vmh.BigIntLog2)
	f.void3(gas.BigIntAnd, vmh.BigIntAnd)
	f.void3(gas.BigIntOr, vmh.BigIntOr)
	f.void3(gas.BigIntXor, vmh.BigIntXor)
	f.add(gas.BigIntShl, func(ctx context.Context, dst, src int32, bits uint32) {
		check(hooksOf(ctx).BigIntShl(handle(dst), handle(src), uint(bits)))
	})
	f.add(gas.BigIntShr, func(ctx context.Context, dst, src int32, bits uint32) {
		check(hooksOf(ctx).BigIntShr(handle(dst), handle(src), uint(bits)))
	})
	f.add(gas.BigIntClone, func(ctx context.Context, src int32) int32 {
		v, b := hooksOf(ctx).BigIntClone(handle(src))
		check(b)
		return int32(v)
	})
	f.void2(gas.BigIntToString, vmh.BigIntToString)
}

func bindBigFloat(f hostFuncs) {
	f.newHandle(gas.BigFloatNew, vmh.BigFloatNew)
	f.add(gas.BigFloatNewFromParts, func(ctx context.Context, integral, fractional, exponent int32) int32 {
		v, b := hooksOf(ctx).BigFloatNewFromParts(integral, fractional, exponent)
		check(b)
		return int32(v)
	})
	f.add(gas.BigFloatNewFromFrac, func(ctx context.Context, numerator, denominator int64) int32 {
		v, b := hooksOf(ctx).BigFloatNewFromFrac(numerator, denominator)
		check(b)
		return int32(v)
	})
	f.add(gas.BigFloatNewFromSci, func(ctx context.Context, significand, exponent int64) int32 {
		v, b := hooksOf(ctx).BigFloatNewFromSci(significand, exponent)
		check(b)
		return int32(v)
	})
	f.void3(gas.BigFloatAdd, vmh.BigFloatAdd)
	f.void3(gas.BigFloatSub, vmh.BigFloatSub)
	f.void3(gas.BigFloatMul, vmh.BigFloatMul)
	f.void3(gas.BigFloatDiv, vmh.BigFloatDiv)
	f.void2(gas.BigFloatNeg, vmh.BigFloatNeg)
	f.void2(gas.BigFloatClone, vmh.BigFloatClone)
	f.i32Of2(gas.BigFloatCmp, vmh.BigFloatCmp)
	f.void2(gas.BigFloatAbs, vmh.BigFloatAbs)
	f.i32Of(gas.BigFloatSign, vmh.BigFloatSign)
	f.void2(gas.BigFloatSqrt, vmh.BigFloatSqrt)
	f.add(gas.BigFloatPow, func(ctx context.Context, dst, src, exponent int32) {
		check(hooksOf(ctx).BigFloatPow(handle(dst), handle(src), exponent))
	})
	f.void2(gas.BigFloatFloor, vmh.BigFloatFloor)
	f.void2(gas.BigFloatCeil, vmh.BigFloatCeil)
	f.void2(gas.BigFloatTruncate, vmh.BigFloatTruncate)
	f.setInt64(gas.BigFloatSetInt64, vmh.BigFloatSetInt64)
	f.bool1(gas.BigFloatIsInt, vmh.BigFloatIsInt)
	f.void2(gas.BigFloatSetBigInt, vmh.BigFloatSetBigInt)
	f.void1(gas.BigFloatGetConstPi, vmh.BigFloatGetConstPi)
	f.void1(gas.BigFloatGetConstE, vmh.BigFloatGetConstE)
	f.void2(gas.BufferToBigFloat, vmh.MBufferToBigFloat)
	f.void2(gas.BufferFromBigFloat, vmh.MBufferFromBigFloat)
}

// bindBuffers binds the buffer hooks. Hooks that move raw bytes take a
// pointer into linear memory; getters return the number of bytes written.
func bindBuffers(f hostFuncs) {
	f.newHandle(gas.BufferNew, vmh.MBufferNew)
	f.add(gas.BufferNewFromBytes, func(ctx context.Context, m api.Module, ptr, length int32) int32 {
		h := hooksOf(ctx)
		v, b := h.MBufferNewFromBytes(read(h, m, ptr, length))
		check(b)
		return int32(v)
	})
	f.i32Of(gas.BufferGetLength, vmh.MBufferGetLength)
	f.add(gas.BufferGetBytes, func(ctx context.Context, m api.Module, buf, ptr int32) int32 {
		h := hooksOf(ctx)
		data, b := h.MBufferGetBytes(handle(buf))
		check(b)
		write(h, m, ptr, data)
		return int32(len(data))
	})
	f.add(gas.BufferCopySlice, func(ctx context.Context, src, start, length, dst int32) {
		check(hooksOf(ctx).MBufferCopyByteSlice(handle(src), start, length, handle(dst)))
	})
	f.bool2(gas.BufferEq, vmh.MBufferEq)
	f.add(gas.BufferSetBytes, func(ctx context.Context, m api.Module, buf, ptr, length int32) {
		h := hooksOf(ctx)
		check(h.MBufferSetBytes(handle(buf), read(h, m, ptr, length)))
	})
	f.add(gas.BufferSetSlice, func(ctx context.Context, m api.Module, buf, start, ptr, length int32) {
		h := hooksOf(ctx)
		check(h.MBufferSetByteSlice(handle(buf), start, read(h, m, ptr, length)))
	})
	f.void2(gas.BufferAppend, vmh.MBufferAppend)
	f.add(gas.BufferAppendBytes, func(ctx context.Context, m api.Module, buf, ptr, length int32) {
		h := hooksOf(ctx)
		check(h.MBufferAppendBytes(handle(buf), read(h, m, ptr, length)))
	})
	f.add(gas.BufferSetRandom, func(ctx context.Context, buf, length int32) {
		check(hooksOf(ctx).MBufferSetRandom(handle(buf), length))
	})
	f.add(gas.VecLen, func(ctx context.Context, vec, stride int32) int32 {
		v, b := hooksOf(ctx).ManagedVecLen(handle(vec), stride)
		check(b)
		return v
	})
	f.add(gas.VecGet, func(ctx context.Context, m api.Module, vec, index, stride, ptr int32) int32 {
		h := hooksOf(ctx)
		item, b := h.ManagedVecGet(handle(vec), index, stride)
		check(b)
		write(h, m, ptr, item)
		return int32(len(item))
	})
	f.add(gas.VecPush, func(ctx context.Context, m api.Module, vec, ptr, length int32) {
		h := hooksOf(ctx)
		check(h.ManagedVecPush(handle(vec), read(h, m, ptr, length)))
	})
}

func bindCrypto(f hostFuncs) {
	f.void2(gas.Sha256, vmh.ManagedSha256)
	f.void2(gas.Keccak256, vmh.ManagedKeccak256)
	f.void2(gas.Ripemd160, vmh.ManagedRipemd160)
	f.void2(gas.Blake2b, vmh.ManagedBlake2b256)
	f.bool3(gas.VerifyEd25519, vmh.ManagedVerifyEd25519)
	f.bool3(gas.VerifyBLS, vmh.ManagedVerifyBLS)
	f.bool3(gas.VerifyBLSAggregated, vmh.ManagedVerifyBLSAggregatedSignature)
	f.bool3(gas.VerifySecp256k1, vmh.ManagedVerifySecp256k1)
	f.add(gas.VerifyCustomSecp256k1, func(ctx context.Context, key, msg, sig, hashType int32) int32 {
		return boolResult(hooksOf(ctx).ManagedVerifyCustomSecp256k1(handle(key), handle(msg), handle(sig), hashType))
	})
	f.bool3(gas.VerifySecp256r1, vmh.ManagedVerifySecp256r1)
	f.i32Of(gas.CreateEC, vmh.ManagedCreateEC)
	f.add(gas.AddEC, func(ctx context.Context, xDst, yDst, curve, x1, y1, x2, y2 int32) {
		check(hooksOf(ctx).ManagedAddEC(handle(xDst), handle(yDst), curve, handle(x1), handle(y1), handle(x2), handle(y2)))
	})
	f.add(gas.DoubleEC, func(ctx context.Context, xDst, yDst, curve, px, py int32) {
		check(hooksOf(ctx).ManagedDoubleEC(handle(xDst), handle(yDst), curve, handle(px), handle(py)))
	})
	f.add(gas.IsOnCurveEC, func(ctx context.Context, curve, px, py int32) int32 {
		return boolResult(hooksOf(ctx).ManagedIsOnCurveEC(curve, handle(px), handle(py)))
	})
	f.add(gas.ScalarBaseMultEC, func(ctx context.Context, xDst, yDst, curve, scalar int32) {
		check(hooksOf(ctx).ManagedScalarBaseMultEC(handle(xDst), handle(yDst), curve, handle(scalar)))
	})
	f.add(gas.ScalarMultEC, func(ctx context.Context, xDst, yDst, curve, px, py, scalar int32) {
		check(hooksOf(ctx).ManagedScalarMultEC(handle(xDst), handle(yDst), curve, handle(px), handle(py), handle(scalar)))
	})
	f.add(gas.MarshalEC, func(ctx context.Context, px, py, curve, dst int32) {
		check(hooksOf(ctx).ManagedMarshalEC(handle(px), handle(py), curve, handle(dst)))
	})
	f.add(gas.MarshalCompressedEC, func(ctx context.Context, px, py, curve, dst int32) {
		check(hooksOf(ctx).ManagedMarshalCompressedEC(handle(px), handle(py), curve, handle(dst)))
	})
	f.add(gas.UnmarshalEC, func(ctx context.Context, xDst, yDst, curve, data int32) {
		check(hooksOf(ctx).ManagedUnmarshalEC(handle(xDst), handle(yDst), curve, handle(data)))
	})
	f.add(gas.UnmarshalCompressedEC, func(ctx context.Context, xDst, yDst, curve, data int32) {
		check(hooksOf(ctx).ManagedUnmarshalCompressedEC(handle(xDst), handle(yDst), curve, handle(data)))
	})
	f.add(gas.GenerateKeyEC, func(ctx context.Context, xPub, yPub, curve, priv int32) {
		check(hooksOf(ctx).ManagedGenerateKeyEC(handle(xPub), handle(yPub), curve, handle(priv)))
	})
}

// bindCalls binds the sub-call hooks. Those that can fail without
// stopping the caller return the sub-call status.
func bindCalls(f hostFuncs) {
	f.add(gas.AsyncCall, func(ctx context.Context, dest, value, function, args int32) {
		check(hooksOf(ctx).ManagedAsyncCall(handle(dest), handle(value), handle(function), handle(args)))
	})
	f.add(AsyncCallWithCallback, func(ctx context.Context, dest, value, function, args, callback, closure int32) {
		check(hooksOf(ctx).ManagedAsyncCallWithCallback(handle(dest), handle(value), handle(function), handle(args), handle(callback), handle(closure)))
	})
	f.add(gas.TransferValueExecute, func(ctx context.Context, dest, value int32, gasLimit int64, function, args int32) int32 {
		code, b := hooksOf(ctx).ManagedTransferValueExecute(handle(dest), handle(value), gasLimit, handle(function), handle(args))
		check(b)
		return code
	})
	f.add(gas.MultiTransferESDTNFTExecute, func(ctx context.Context, dest, transfers int32, gasLimit int64, function, args int32) int32 {
		code, b := hooksOf(ctx).ManagedMultiTransferESDTNFTExecute(handle(dest), handle(transfers), gasLimit, handle(function), handle(args))
		check(b)
		return code
	})
	f.add(gas.ExecuteOnDestContext, func(ctx context.Context, gasLimit int64, dest, value, function, args, result int32) int32 {
		code, b := hooksOf(ctx).ManagedExecuteOnDestContext(gasLimit, handle(dest), handle(value), handle(function), handle(args), handle(result))
		check(b)
		return code
	})
	f.add(gas.ExecuteOnDestContextErrReturn, func(ctx context.Context, gasLimit int64, dest, value, function, args, result int32) int32 {
		code, b := hooksOf(ctx).ManagedExecuteOnDestContextWithErrorReturn(gasLimit, handle(dest), handle(value), handle(function), handle(args), handle(result))
		check(b)
		return code
	})
	f.add(gas.ExecuteReadOnly, func(ctx context.Context, gasLimit int64, dest, function, args, result int32) int32 {
		code, b := hooksOf(ctx).ManagedExecuteReadOnly(gasLimit, handle(dest), handle(function), handle(args), handle(result))
		check(b)
		return code
	})
	f.add(gas.CreateContract, func(ctx context.Context, gasLimit int64, value, code, metadata, args, resultAddress, result int32) int32 {
		status, b := hooksOf(ctx).ManagedCreateContract(gasLimit, handle(value), handle(code), handle(metadata), handle(args), handle(resultAddress), handle(result))
		check(b)
		return status
	})
	f.add(gas.DeployFromSourceContract, func(ctx context.Context, gasLimit int64, value, source, metadata, args, resultAddress, result int32) int32 {
		status, b := hooksOf(ctx).ManagedDeployFromSourceContract(gasLimit, handle(value), handle(source), handle(metadata), handle(args), handle(resultAddress), handle(result))
		check(b)
		return status
	})
	f.add(gas.UpgradeContract, func(ctx context.Context, dest int32, gasLimit int64, value, code, metadata, args, result int32) {
		check(hooksOf(ctx).ManagedUpgradeContract(handle(dest), gasLimit, handle(value), handle(code), handle(metadata), handle(args), handle(result)))
	})
	f.add(gas.UpgradeFromSourceContract, func(ctx context.Context, dest int32, gasLimit int64, value, source, metadata, args, result int32) {
		check(hooksOf(ctx).ManagedUpgradeFromSourceContract(handle(dest), gasLimit, handle(value), handle(source), handle(metadata), handle(args), handle(result)))
	})
}

// exportHooks adds every host function to builder and returns their
// names, sorted.
func exportHooks(builder wazero.HostModuleBuilder) []string {
	funcs := hostFunctions()
	names := make([]string, 0, len(funcs))
	for name := range funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		builder.NewFunctionBuilder().WithFunc(funcs[name]).Export(name)
	}
	return names
}
