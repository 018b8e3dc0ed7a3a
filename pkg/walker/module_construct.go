package walker

import (
	"github.com/proteinlang/protein/pkg/node"
)

// handleImportModule implements `.import_module: <path>` / `.module: <path>`.
func (i *Interpreter) handleImportModule(value node.Node, line int) (node.Node, error) {
	path, err := evalName(value, line, i.Stack)
	if err != nil {
		return node.Node{}, err
	}
	if err := i.checkCanceled(line); err != nil {
		return node.Node{}, err
	}
	if err := i.Modules.Load(path, line, i.Stack.Current()); err != nil {
		return node.Node{}, err
	}
	return node.Null, nil
}
