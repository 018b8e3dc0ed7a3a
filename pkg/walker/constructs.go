package walker

import (
	"strings"

	"github.com/proteinlang/protein/pkg/errors"
	"github.com/proteinlang/protein/pkg/node"
)

// dispatchConstruct routes one dotted key to its handler. `.local` never
// reaches here: walkMapping intercepts it before dispatch, since it needs
// access to the containing mapping's sibling keys, not just its own value.
func (i *Interpreter) dispatchConstruct(key string, value node.Node, line int) (node.Node, error) {
	switch key {
	case ".define", ".context":
		return i.handleDefine(value, line)
	case ".do":
		return i.handleDo(value, line)
	case ".if":
		return i.handleIf(value, line)
	case ".switch":
		return i.handleSwitch(value, line)
	case ".foreach":
		return i.handleForeach(value, line)
	case ".function":
		return i.handleFunction(value, line)
	case ".call":
		return i.handleCall(value, line)
	case ".import_module", ".module":
		return i.handleImportModule(value, line)
	case ".load":
		return i.handleLoad(value, line)
	case ".export":
		return i.handleExport(value, line)
	case ".print":
		return i.handlePrint(value, line)
	case ".exit":
		return i.handleExit(value, line)
	case ".def_sql":
		return i.handleDefSQL(value, line)
	case ".exec_sql":
		return i.handleExecSQL(value, line)
	case ".load_sql":
		return i.handleLoadSQL(value, line)
	case ".open_buffer":
		return i.handleOpenBuffer(value, line)
	case ".write_buffer":
		return i.handleWriteBuffer(value, line)
	case ".save_buffer":
		return i.handleSaveBuffer(value, line)
	case ".write":
		return i.handleWrite(value, line)
	}

	name := strings.TrimPrefix(key, ".")
	if callableNode, ok := i.Stack.Resolve(name); ok && callableNode.Kind() == node.KindHostCallable {
		positional, named, err := i.evalArgs(value, line)
		if err != nil {
			return node.Node{}, err
		}
		args := flattenArgs(positional, named)
		result, err := callableNode.AsHostCallable()(args)
		if err != nil {
			return node.Node{}, errors.Wrap(errors.ErrType, line, err, "construct %q failed", key)
		}
		if !result.IsPureData() {
			return node.Node{}, errors.Type(line, "construct %q produced a non-data value", key)
		}
		return result, nil
	}
	return node.Node{}, errors.UnknownConstruct(line, key)
}

// flattenArgs reduces a bound argument set to the positional []Node shape a
// HostCallable accepts: positional args pass straight through; named args
// (no formal parameter list is known for an arbitrary host function) are
// flattened in the mapping's declared order.
func flattenArgs(positional []node.Node, named *node.Mapping) []node.Node {
	if named == nil {
		return positional
	}
	out := make([]node.Node, 0, named.Len())
	named.Each(func(_ string, v node.Node) bool {
		out = append(out, v)
		return true
	})
	return out
}
