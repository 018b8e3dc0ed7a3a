package walker

import (
	"github.com/proteinlang/protein/pkg/errors"
	"github.com/proteinlang/protein/pkg/node"
	"github.com/proteinlang/protein/pkg/sqlengine"
)

// handleDefSQL implements `.def_sql { .name, .url }`: opens an engine and
// binds it into the current frame under .name.
func (i *Interpreter) handleDefSQL(value node.Node, line int) (node.Node, error) {
	if value.Kind() != node.KindMapping {
		return node.Node{}, errors.Type(line, ".def_sql requires a mapping")
	}
	m := value.AsMapping()

	nameNode, ok := m.Get(".name")
	if !ok {
		return node.Node{}, errors.Arg(line, ".def_sql requires .name")
	}
	name, err := evalName(nameNode, line, i.Stack)
	if err != nil {
		return node.Node{}, err
	}

	urlNode, ok := m.Get(".url")
	if !ok {
		return node.Node{}, errors.Arg(line, ".def_sql requires .url")
	}
	url, err := evalName(urlNode, line, i.Stack)
	if err != nil {
		return node.Node{}, err
	}

	if err := i.checkCanceled(line); err != nil {
		return node.Node{}, err
	}
	eng, err := sqlengine.Open(url)
	if err != nil {
		return node.Node{}, errors.Wrap(errors.ErrSQL, line, err, "opening sql engine %q", name)
	}
	i.Stack.SetTop(name, node.NewSQLEngine(eng))
	return node.Null, nil
}

// handleExecSQL implements `.exec_sql { .name, .statement, .args? }`.
func (i *Interpreter) handleExecSQL(value node.Node, line int) (node.Node, error) {
	eng, stmt, args, err := i.resolveSQLCall(value, line, ".exec_sql", ".statement")
	if err != nil {
		return node.Node{}, err
	}
	if err := eng.Exec(i.Context, stmt, args); err != nil {
		return node.Node{}, errors.Wrap(errors.ErrSQL, line, err, "executing statement")
	}
	return node.Null, nil
}

// handleLoadSQL implements `.load_sql { .name, .query, .args? }`.
func (i *Interpreter) handleLoadSQL(value node.Node, line int) (node.Node, error) {
	eng, query, args, err := i.resolveSQLCall(value, line, ".load_sql", ".query")
	if err != nil {
		return node.Node{}, err
	}
	rows, err := eng.Query(i.Context, query, args)
	if err != nil {
		return node.Node{}, errors.Wrap(errors.ErrSQL, line, err, "executing query")
	}
	return node.NewSequence(rows).WithLine(line), nil
}

// resolveSQLCall shares the `.name`/statement-or-query/`.args` extraction
// between `.exec_sql` and `.load_sql`.
func (i *Interpreter) resolveSQLCall(value node.Node, line int, construct, textField string) (node.SQLEngine, string, []node.Node, error) {
	if value.Kind() != node.KindMapping {
		return nil, "", nil, errors.Type(line, "%s requires a mapping", construct)
	}
	m := value.AsMapping()

	nameNode, ok := m.Get(".name")
	if !ok {
		return nil, "", nil, errors.Arg(line, "%s requires .name", construct)
	}
	name, err := evalName(nameNode, line, i.Stack)
	if err != nil {
		return nil, "", nil, err
	}
	engineVal, ok := i.Stack.Resolve(name)
	if !ok || engineVal.Kind() != node.KindSQLEngine {
		return nil, "", nil, errors.Undefined(line, name)
	}

	textNode, ok := m.Get(textField)
	if !ok {
		return nil, "", nil, errors.Arg(line, "%s requires %s", construct, textField)
	}
	text, err := evalName(textNode, line, i.Stack)
	if err != nil {
		return nil, "", nil, err
	}

	var args []node.Node
	if argsNode, ok := m.Get(".args"); ok {
		if argsNode.Kind() != node.KindSequence {
			return nil, "", nil, errors.Arg(line, "%s .args must be a sequence of bind parameters", construct)
		}
		for _, a := range argsNode.AsSequence() {
			walked, err := i.Walk(a)
			if err != nil {
				return nil, "", nil, err
			}
			args = append(args, walked)
		}
	}

	return engineVal.AsSQLEngine(), text, args, nil
}
