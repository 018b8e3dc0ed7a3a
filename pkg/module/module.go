// Package module implements the module-loader protocol named by §6: a
// module exposes an entry point that registers variables, exports
// (callable both from expressions and as a construct), and filters
// (callable only from expressions) into a ModuleEnvironment, which the
// construct dispatcher then merges into the current frame. Grounded on the
// teacher's pkg/stdlib/registry.go Registry{funcs map[string]StdlibFunc}
// pattern, generalized so modules register themselves at `.import_module`
// time rather than at process init — Protein modules are not a fixed
// stdlib, they are host-provided collaborators named in the specification
// as "the host scripting runtime".
package module

import (
	"github.com/proteinlang/protein/pkg/errors"
	"github.com/proteinlang/protein/pkg/node"
)

// Environment is the ModuleEnvironment object a module's entry point
// populates.
type Environment struct {
	Variables *node.Mapping
	Exports   *node.Mapping
	Filters   *node.Mapping
}

func NewEnvironment() *Environment {
	return &Environment{
		Variables: node.NewMapping(),
		Exports:   node.NewMapping(),
		Filters:   node.NewMapping(),
	}
}

// SetVariable implements `env.variables[name] = value`.
func (e *Environment) SetVariable(name string, value node.Node) {
	e.Variables.Set(name, value)
}

// Export implements `@env.export`: adds a callable usable both in
// expressions and as a dotted construct.
func (e *Environment) Export(name string, fn node.HostCallable) {
	e.Exports.Set(name, node.NewHostCallable(fn))
}

// Filter implements `@env.filter`: adds a callable usable only via the
// template engine's filter-pipe.
func (e *Environment) Filter(name string, fn node.HostFilter) {
	e.Filters.Set(name, node.NewHostFilter(fn))
}

// Module is a host-provided collaborator loadable via `.import_module`/
// `.module`.
type Module interface {
	// Name is the logical name used to address this module, independent
	// of any file extension a `.import_module: path` might carry.
	Name() string
	// Register populates env with this module's variables, exports, and
	// filters.
	Register(env *Environment) error
}

// Registry resolves logical module names to Module implementations.
type Registry struct {
	modules map[string]Module
}

func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]Module)}
}

func (r *Registry) Add(m Module) {
	r.modules[m.Name()] = m
}

// Load resolves name (after stripping a directory path and extension, so
// `.import_module: ./lib/servers.py` and `.import_module: servers` both
// address the same module), registers it, and merges its bindings into
// target: variables as plain Nodes, exports as HostCallable, filters as
// HostFilter.
func (r *Registry) Load(rawName string, line int, target *node.Mapping) error {
	name := logicalName(rawName)
	mod, ok := r.modules[name]
	if !ok {
		return errors.IO(line, "module %q not found", rawName)
	}
	env := NewEnvironment()
	if err := mod.Register(env); err != nil {
		return errors.Wrap(errors.ErrIO, line, err, "loading module %q", rawName)
	}
	env.Variables.Each(func(k string, v node.Node) bool {
		target.Set(k, v)
		return true
	})
	env.Exports.Each(func(k string, v node.Node) bool {
		target.Set(k, v)
		return true
	})
	env.Filters.Each(func(k string, v node.Node) bool {
		target.Set(k, v)
		return true
	})
	return nil
}

func logicalName(raw string) string {
	name := raw
	if i := lastIndexAny(name, "/\\"); i >= 0 {
		name = name[i+1:]
	}
	if i := lastIndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	return name
}

func lastIndexAny(s, chars string) int {
	for i := len(s) - 1; i >= 0; i-- {
		for j := 0; j < len(chars); j++ {
			if s[i] == chars[j] {
				return i
			}
		}
	}
	return -1
}

func lastIndexByte(s string, c byte) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == c {
			return i
		}
	}
	return -1
}
