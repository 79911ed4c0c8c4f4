// Package gas holds the hook catalogue, the cost schedule keyed by hook
// name, and the per-invocation meter that charges it.
package gas

import "sort"

// Category groups hooks that share a default cost.
type Category string

const (
	CategoryBase     Category = "base"
	CategoryBigInt   Category = "big_int"
	CategoryBigFloat Category = "big_float"
	CategoryBuffer   Category = "buffer"
	CategoryMap      Category = "map"
	CategoryCrypto   Category = "crypto"
	CategoryStorage  Category = "storage"
	CategoryCall     Category = "call"
	CategoryLog      Category = "log"
)

// Hook names. These are the import names the executor binds.
const (
	// call value and arguments
	GetCallValue                = "bigIntGetCallValue"
	CheckNoPayment              = "checkNoPayment"
	GetNumESDTTransfers         = "getNumESDTTransfers"
	GetESDTValueByIndex         = "bigIntGetESDTCallValueByIndex"
	GetESDTTokenNameByIndex     = "managedGetESDTTokenNameByIndex"
	GetESDTTokenNonceByIndex    = "getESDTTokenNonceByIndex"
	GetMultiESDTCallValue       = "managedGetMultiESDTCallValue"
	GetNumArguments             = "getNumArguments"
	GetArgumentLength           = "getArgumentLength"
	GetArgument                 = "mBufferGetArgument"
	GetArgumentsBuffer          = "managedGetArgumentsBuffer"
	GetUnsignedArgument         = "bigIntGetUnsignedArgument"
	GetSignedArgument           = "bigIntGetSignedArgument"
	SmallIntGetUnsignedArgument = "smallIntGetUnsignedArgument"
	SmallIntGetSignedArgument   = "smallIntGetSignedArgument"
	GetFunction                 = "managedGetFunction"
	Finish                      = "mBufferFinish"
	FinishMany                  = "mBufferFinishMany"
	SmallIntFinishUnsigned      = "smallIntFinishUnsigned"
	SmallIntFinishSigned        = "smallIntFinishSigned"
	BigIntFinishUnsigned        = "bigIntFinishUnsigned"
	BigIntFinishSigned          = "bigIntFinishSigned"
	SignalError                 = "managedSignalError"
	SignalExit                  = "signalExit"

	// blockchain
	GetSCAddress           = "managedSCAddress"
	GetCaller              = "managedCaller"
	GetOwnerAddress        = "managedOwnerAddress"
	GetShardOfAddress      = "getShardOfAddress"
	IsSmartContract        = "isSmartContract"
	GetBlockNonce          = "getBlockNonce"
	GetBlockRound          = "getBlockRound"
	GetBlockEpoch          = "getBlockEpoch"
	GetBlockTimestamp      = "getBlockTimestamp"
	GetBlockRandomSeed     = "managedGetBlockRandomSeed"
	GetPrevBlockNonce      = "getPrevBlockNonce"
	GetPrevBlockRound      = "getPrevBlockRound"
	GetPrevBlockEpoch      = "getPrevBlockEpoch"
	GetPrevBlockTimestamp  = "getPrevBlockTimestamp"
	GetPrevBlockRandomSeed = "managedGetPrevBlockRandomSeed"
	GetOriginalTxHash      = "managedGetOriginalTxHash"
	GetPrevTxHash          = "managedGetPrevTxHash"
	GetGasLeft             = "getGasLeft"
	GetExternalBalance     = "bigIntGetExternalBalance"
	GetCodeMetadata        = "managedGetCodeMetadata"
	GetCodeHash            = "managedGetCodeHash"
	IsBuiltinFunction      = "managedIsBuiltinFunction"
	GetNumReturnData       = "getNumReturnData"
	GetReturnData          = "managedGetReturnData"
	CleanReturnData        = "cleanReturnData"
	DeleteFromReturnData   = "deleteFromReturnData"
	GetESDTTokenData       = "managedGetESDTTokenData"
	GetESDTBalance         = "bigIntGetESDTExternalBalance"
	IsESDTFrozen           = "managedIsESDTFrozen"
	IsESDTPaused           = "managedIsESDTPaused"
	IsESDTLimitedTransfer  = "managedIsESDTLimitedTransfer"
	GetESDTLocalRoles      = "getESDTLocalRoles"

	// big integers
	BigIntNew              = "bigIntNew"
	BigIntNewFromBytes     = "bigIntNewFromBytes"
	BigIntSetInt64         = "bigIntSetInt64"
	BigIntGetInt64         = "bigIntGetInt64"
	BigIntIsInt64          = "bigIntIsInt64"
	BigIntGetUnsignedBytes = "mBufferFromBigIntUnsigned"
	BigIntSetUnsignedBytes = "mBufferToBigIntUnsigned"
	BigIntGetSignedBytes   = "mBufferFromBigIntSigned"
	BigIntSetSignedBytes   = "mBufferToBigIntSigned"
	BigIntSign             = "bigIntSign"
	BigIntCmp              = "bigIntCmp"
	BigIntAdd              = "bigIntAdd"
	BigIntSub              = "bigIntSub"
	BigIntMul              = "bigIntMul"
	BigIntTDiv             = "bigIntTDiv"
	BigIntTMod             = "bigIntTMod"
	BigIntAbs              = "bigIntAbs"
	BigIntNeg              = "bigIntNeg"
	BigIntSqrt             = "bigIntSqrt"
	BigIntPow              = "bigIntPow"
	BigIntLog2             = "bigIntLog2"
	BigIntAnd              = "bigIntAnd"
	BigIntOr               = "bigIntOr"
	BigIntXor              = "bigIntXor"
	BigIntShl              = "bigIntShl"
	BigIntShr              = "bigIntShr"
	BigIntClone            = "bigIntClone"
	BigIntToString         = "bigIntToString"

	// big floats
	BigFloatNew          = "bigFloatNew"
	BigFloatNewFromParts = "bigFloatNewFromParts"
	BigFloatNewFromFrac  = "bigFloatNewFromFrac"
	BigFloatNewFromSci   = "bigFloatNewFromSci"
	BigFloatAdd          = "bigFloatAdd"
	BigFloatSub          = "bigFloatSub"
	BigFloatMul          = "bigFloatMul"
	BigFloatDiv          = "bigFloatDiv"
	BigFloatNeg          = "bigFloatNeg"
	BigFloatClone        = "bigFloatClone"
	BigFloatCmp          = "bigFloatCmp"
	BigFloatAbs          = "bigFloatAbs"
	BigFloatSign         = "bigFloatSign"
	BigFloatSqrt         = "bigFloatSqrt"
	BigFloatPow          = "bigFloatPow"
	BigFloatFloor        = "bigFloatFloor"
	BigFloatCeil         = "bigFloatCeil"
	BigFloatTruncate     = "bigFloatTruncate"
	BigFloatSetInt64     = "bigFloatSetInt64"
	BigFloatIsInt        = "bigFloatIsInt"
	BigFloatSetBigInt    = "bigFloatSetBigInt"
	BigFloatGetConstPi   = "bigFloatGetConstPi"
	BigFloatGetConstE    = "bigFloatGetConstE"
	BufferToBigFloat     = "mBufferToBigFloat"
	BufferFromBigFloat   = "mBufferFromBigFloat"

	// buffers and vecs
	BufferNew          = "mBufferNew"
	BufferNewFromBytes = "mBufferNewFromBytes"
	BufferGetLength    = "mBufferGetLength"
	BufferGetBytes     = "mBufferGetBytes"
	BufferCopySlice    = "mBufferCopyByteSlice"
	BufferEq           = "mBufferEq"
	BufferSetBytes     = "mBufferSetBytes"
	BufferSetSlice     = "mBufferSetByteSlice"
	BufferAppend       = "mBufferAppend"
	BufferAppendBytes  = "mBufferAppendBytes"
	BufferSetRandom    = "mBufferSetRandom"
	VecLen             = "managedVecLen"
	VecGet             = "managedVecGet"
	VecPush            = "managedVecPush"

	// managed maps
	MapNew      = "managedMapNew"
	MapPut      = "managedMapPut"
	MapGet      = "managedMapGet"
	MapRemove   = "managedMapRemove"
	MapContains = "managedMapContains"
	MapLen      = "managedMapLen"

	// crypto
	Sha256                = "managedSha256"
	Keccak256             = "managedKeccak256"
	Ripemd160             = "managedRipemd160"
	Blake2b               = "managedBlake2b256"
	VerifyEd25519         = "managedVerifyEd25519"
	VerifyBLS             = "managedVerifyBLS"
	VerifyBLSAggregated   = "managedVerifyBLSAggregatedSignature"
	VerifySecp256k1       = "managedVerifySecp256k1"
	VerifyCustomSecp256k1 = "managedVerifyCustomSecp256k1"
	VerifySecp256r1       = "managedVerifySecp256r1"
	CreateEC              = "managedCreateEC"
	AddEC                 = "managedAddEC"
	DoubleEC              = "managedDoubleEC"
	IsOnCurveEC           = "managedIsOnCurveEC"
	ScalarBaseMultEC      = "managedScalarBaseMultEC"
	ScalarMultEC          = "managedScalarMultEC"
	MarshalEC             = "managedMarshalEC"
	MarshalCompressedEC   = "managedMarshalCompressedEC"
	UnmarshalEC           = "managedUnmarshalEC"
	UnmarshalCompressedEC = "managedUnmarshalCompressedEC"
	GenerateKeyEC         = "managedGenerateKeyEC"

	// storage
	StorageStore           = "mBufferStorageStore"
	StorageLoad            = "mBufferStorageLoad"
	StorageLoadLength      = "storageLoadLength"
	StorageLoadFromAddress = "mBufferStorageLoadFromAddress"

	// logs
	WriteLog                   = "managedWriteLog"
	WriteEventLog              = "managedWriteEventLog"
	WriteLogWithAdditionalData = "managedWriteLogWithAdditionalData"

	// calls
	AsyncCall                     = "managedAsyncCall"
	TransferValueExecute          = "managedTransferValueExecute"
	MultiTransferESDTNFTExecute   = "managedMultiTransferESDTNFTExecute"
	ExecuteOnDestContext          = "managedExecuteOnDestContext"
	ExecuteOnDestContextErrReturn = "managedExecuteOnDestContextWithErrorReturn"
	ExecuteReadOnly               = "managedExecuteReadOnly"
	CreateContract                = "managedCreateContract"
	DeployFromSourceContract      = "managedDeployFromSourceContract"
	UpgradeContract               = "managedUpgradeContract"
	UpgradeFromSourceContract     = "managedUpgradeFromSourceContract"
)

var catalogue = map[string]Category{}

func register(c Category, names ...string) {
	for _, n := range names {
		catalogue[n] = c
	}
}

func init() {
	register(CategoryBase,
		GetCallValue, CheckNoPayment, GetNumESDTTransfers, GetESDTValueByIndex,
		GetESDTTokenNameByIndex, GetESDTTokenNonceByIndex, GetMultiESDTCallValue,
		GetNumArguments, GetArgumentLength, GetArgument, GetArgumentsBuffer,
		GetUnsignedArgument, GetSignedArgument, SmallIntGetUnsignedArgument,
		SmallIntGetSignedArgument, GetFunction, Finish, FinishMany,
		SmallIntFinishUnsigned, SmallIntFinishSigned, BigIntFinishUnsigned,
		BigIntFinishSigned, SignalError, SignalExit,
		GetSCAddress, GetCaller, GetOwnerAddress, GetShardOfAddress, IsSmartContract,
		GetBlockNonce, GetBlockRound, GetBlockEpoch, GetBlockTimestamp, GetBlockRandomSeed,
		GetPrevBlockNonce, GetPrevBlockRound, GetPrevBlockEpoch, GetPrevBlockTimestamp,
		GetPrevBlockRandomSeed, GetOriginalTxHash, GetPrevTxHash, GetGasLeft,
		GetExternalBalance, GetCodeMetadata, GetCodeHash, IsBuiltinFunction,
		GetNumReturnData, GetReturnData, CleanReturnData, DeleteFromReturnData,
		GetESDTTokenData, GetESDTBalance, IsESDTFrozen, IsESDTPaused,
		IsESDTLimitedTransfer, GetESDTLocalRoles,
	)
	register(CategoryBigInt,
		BigIntNew, BigIntNewFromBytes, BigIntSetInt64, BigIntGetInt64, BigIntIsInt64,
		BigIntGetUnsignedBytes, BigIntSetUnsignedBytes, BigIntGetSignedBytes,
		BigIntSetSignedBytes, BigIntSign, BigIntCmp, BigIntAdd, BigIntSub, BigIntMul,
		BigIntTDiv, BigIntTMod, BigIntAbs, BigIntNeg, BigIntSqrt, BigIntPow, BigIntLog2,
		BigIntAnd, BigIntOr, BigIntXor, BigIntShl, BigIntShr, BigIntClone, BigIntToString,
	)
	register(CategoryBigFloat,
		BigFloatNew, BigFloatNewFromParts, BigFloatNewFromFrac, BigFloatNewFromSci, BigFloatAdd,
		BigFloatSub, BigFloatMul, BigFloatDiv, BigFloatNeg, BigFloatClone, BigFloatCmp,
		BigFloatAbs, BigFloatSign, BigFloatSqrt, BigFloatPow, BigFloatFloor, BigFloatCeil,
		BigFloatTruncate, BigFloatSetInt64, BigFloatIsInt, BigFloatSetBigInt,
		BigFloatGetConstPi, BigFloatGetConstE, BufferToBigFloat, BufferFromBigFloat,
	)
	register(CategoryBuffer,
		BufferNew, BufferNewFromBytes, BufferGetLength, BufferGetBytes, BufferCopySlice,
		BufferEq, BufferSetBytes, BufferSetSlice, BufferAppend, BufferAppendBytes,
		BufferSetRandom, VecLen, VecGet, VecPush,
	)
	register(CategoryMap, MapNew, MapPut, MapGet, MapRemove, MapContains, MapLen)
	register(CategoryCrypto,
		Sha256, Keccak256, Ripemd160, Blake2b, VerifyEd25519, VerifyBLS,
		VerifyBLSAggregated, VerifySecp256k1, VerifyCustomSecp256k1, VerifySecp256r1,
		CreateEC, AddEC, DoubleEC, IsOnCurveEC, ScalarBaseMultEC, ScalarMultEC,
		MarshalEC, MarshalCompressedEC, UnmarshalEC, UnmarshalCompressedEC, GenerateKeyEC,
	)
	register(CategoryStorage, StorageStore, StorageLoad, StorageLoadLength, StorageLoadFromAddress)
	register(CategoryLog, WriteLog, WriteEventLog, WriteLogWithAdditionalData)
	register(CategoryCall,
		AsyncCall, TransferValueExecute, MultiTransferESDTNFTExecute, ExecuteOnDestContext,
		ExecuteOnDestContextErrReturn, ExecuteReadOnly, CreateContract,
		DeployFromSourceContract, UpgradeContract, UpgradeFromSourceContract,
	)
}

// CategoryOf returns the category of a hook and whether the hook is known.
func CategoryOf(hook string) (Category, bool) {
	c, ok := catalogue[hook]
	return c, ok
}

// Hooks returns every hook name in the catalogue, sorted.
func Hooks() []string {
	names := make([]string, 0, len(catalogue))
	for n := range catalogue {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
