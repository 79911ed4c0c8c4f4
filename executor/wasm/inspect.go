package wasm

import (
	"context"
	"fmt"
	"sort"
)

// Import is one function a module imports.
type Import struct {
	Module string
	Name   string
}

func (i Import) String() string {
	return i.Module + "." + i.Name
}

// ModuleInfo describes a compiled contract.
type ModuleInfo struct {
	// Endpoints are the exported functions a transaction can call.
	Endpoints []string
	// Other exported functions, which take parameters or return values.
	Other   []string
	Imports []Import
	// Unknown lists the imports the VM does not provide.
	Unknown   []Import
	HasMemory bool
}

// Inspect compiles code without caching it and reports its exports and
// imports. Unlike Validate it does not reject unknown imports.
func (e *Executor) Inspect(code []byte) (*ModuleInfo, error) {
	if len(code) == 0 {
		return nil, ErrEmptyCode
	}
	ctx := context.Background()
	m, err := e.runtime.CompileModule(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to compile contract: %w", err)
	}
	defer m.Close(ctx)

	info := &ModuleInfo{}
	for name, def := range m.ExportedFunctions() {
		if isEndpoint(def) {
			info.Endpoints = append(info.Endpoints, name)
		} else {
			info.Other = append(info.Other, name)
		}
	}
	sort.Strings(info.Endpoints)
	sort.Strings(info.Other)

	for _, f := range m.ImportedFunctions() {
		module, name, _ := f.Import()
		imp := Import{Module: module, Name: name}
		info.Imports = append(info.Imports, imp)
		if _, ok := e.imports[name]; (module == envModule && !ok) || (module != envModule && module != wasiModule) {
			info.Unknown = append(info.Unknown, imp)
		}
	}
	_, info.HasMemory = m.ExportedMemories()["memory"]
	return info, nil
}
