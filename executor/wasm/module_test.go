package wasm

import "github.com/govm-net/hookvm/gas"

const (
	i32 = 0x7f
	i64 = 0x7e
)

type signature struct {
	params, results []byte
}

var signatures = map[string]signature{
	gas.SmallIntFinishUnsigned:      {params: []byte{i64}},
	gas.BufferNewFromBytes:          {params: []byte{i32, i32}, results: []byte{i32}},
	gas.SignalError:                 {params: []byte{i32}},
	gas.StorageStore:                {params: []byte{i32, i32}, results: []byte{i32}},
	gas.GetNumArguments:             {results: []byte{i32}},
	gas.SmallIntGetUnsignedArgument: {params: []byte{i32}, results: []byte{i64}},
	gas.BufferGetBytes:              {params: []byte{i32, i32}, results: []byte{i32}},
}

type testFunc struct {
	export string
	body   []byte
}

// testModule assembles a wasm binary. Imported functions come first in
// the function index space, in the order listed.
type testModule struct {
	importModule string
	imports      []string
	funcs        []testFunc
	data         []byte
	noMemory     bool
}

func uleb(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
			continue
		}
		return append(out, b)
	}
}

func sleb(v int64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func name(s string) []byte {
	return append(uleb(uint64(len(s))), s...)
}

func vector(items ...[]byte) []byte {
	out := uleb(uint64(len(items)))
	for _, it := range items {
		out = append(out, it...)
	}
	return out
}

func section(id byte, content []byte) []byte {
	out := append([]byte{id}, uleb(uint64(len(content)))...)
	return append(out, content...)
}

func funcType(s signature) []byte {
	out := []byte{0x60}
	out = append(out, vector(splitBytes(s.params)...)...)
	return append(out, vector(splitBytes(s.results)...)...)
}

func splitBytes(b []byte) [][]byte {
	out := make([][]byte, len(b))
	for i := range b {
		out[i] = b[i : i+1]
	}
	return out
}

func (m testModule) bytes() []byte {
	module := m.importModule
	if module == "" {
		module = envModule
	}
	n := len(m.imports)

	var types, imports, funcs, exports, bodies [][]byte
	for i, imp := range m.imports {
		types = append(types, funcType(signatures[imp]))
		entry := append(name(module), name(imp)...)
		imports = append(imports, append(append(entry, 0x00), uleb(uint64(i))...))
	}
	types = append(types, funcType(signature{}))

	if !m.noMemory {
		exports = append(exports, append(name("memory"), 0x02, 0x00))
	}
	for i, f := range m.funcs {
		funcs = append(funcs, uleb(uint64(n)))
		if f.export != "" {
			exports = append(exports, append(append(name(f.export), 0x00), uleb(uint64(n+i))...))
		}
		body := append([]byte{0x00}, f.body...)
		body = append(body, 0x0b)
		bodies = append(bodies, append(uleb(uint64(len(body))), body...))
	}

	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	out = append(out, section(1, vector(types...))...)
	if n > 0 {
		out = append(out, section(2, vector(imports...))...)
	}
	out = append(out, section(3, vector(funcs...))...)
	if !m.noMemory {
		out = append(out, section(5, vector([]byte{0x00, 0x01}))...)
	}
	out = append(out, section(7, vector(exports...))...)
	out = append(out, section(10, vector(bodies...))...)
	if m.data != nil && !m.noMemory {
		segment := []byte{0x00, 0x41, 0x00, 0x0b}
		segment = append(segment, uleb(uint64(len(m.data)))...)
		segment = append(segment, m.data...)
		out = append(out, section(11, vector(segment))...)
	}
	return out
}

func i32Const(v int32) []byte { return append([]byte{0x41}, sleb(int64(v))...) }
func i64Const(v int64) []byte { return append([]byte{0x42}, sleb(v)...) }
func call(index int) []byte   { return append([]byte{0x10}, uleb(uint64(index))...) }

const (
	opDrop        = 0x1a
	opUnreachable = 0x00
	opExtendU     = 0xad
)

func code(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
