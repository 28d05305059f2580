package corpus

import (
	"encoding/json"
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/causalbio/sdk/statement"
)

// ExpressionFilter keeps statements matching a compiled CEL expression.
// The expression sees each statement as:
//
//	type    string                 statement type, e.g. "Phosphorylation"
//	belief  double                 assembled belief score
//	agents  list of agent objects  agents in role order, null for unfilled roles
//	stmt    full statement object  the serialized statement fields
//
// Example expressions:
//
//	type == "Phosphorylation" && belief > 0.9
//	agents.exists(a, a != null && a.name == "MAPK1")
//	has(stmt.residue) && stmt.residue == "T"
type ExpressionFilter struct {
	source string
	prg    cel.Program
}

// NewExpressionFilter compiles a CEL expression into a filter. The
// expression must evaluate to a boolean.
func NewExpressionFilter(expr string) (*ExpressionFilter, error) {
	env, err := cel.NewEnv(
		cel.Variable("type", cel.StringType),
		cel.Variable("belief", cel.DoubleType),
		cel.Variable("agents", cel.ListType(cel.DynType)),
		cel.Variable("stmt", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("create expression env: %w", err)
	}
	ast, iss := env.Compile(expr)
	if iss.Err() != nil {
		return nil, fmt.Errorf("compile expression %q: %w", expr, iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("expression %q evaluates to %s, want bool", expr, ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("build expression program: %w", err)
	}
	return &ExpressionFilter{source: expr, prg: prg}, nil
}

// String returns the source expression.
func (f *ExpressionFilter) String() string {
	return f.source
}

// Keep evaluates the expression against one statement.
func (f *ExpressionFilter) Keep(st statement.Statement) (bool, error) {
	data, err := statement.Marshal(st)
	if err != nil {
		return false, fmt.Errorf("serialize statement for expression: %w", err)
	}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return false, fmt.Errorf("serialize statement for expression: %w", err)
	}
	agents := make([]any, 0, len(st.AgentList()))
	for _, ag := range st.AgentList() {
		if ag == nil {
			agents = append(agents, nil)
			continue
		}
		raw, err := json.Marshal(ag)
		if err != nil {
			return false, fmt.Errorf("serialize agent for expression: %w", err)
		}
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			return false, fmt.Errorf("serialize agent for expression: %w", err)
		}
		agents = append(agents, m)
	}
	out, _, err := f.prg.Eval(map[string]any{
		"type":   st.Type().String(),
		"belief": st.Info().Belief,
		"agents": agents,
		"stmt":   obj,
	})
	if err != nil {
		return false, fmt.Errorf("evaluate expression %q: %w", f.source, err)
	}
	keep, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression %q returned %T, want bool", f.source, out.Value())
	}
	return keep, nil
}

// FilterByExpression keeps statements matching a CEL expression,
// compiling it once for the whole corpus.
func FilterByExpression(stmts []statement.Statement, expr string) ([]statement.Statement, error) {
	f, err := NewExpressionFilter(expr)
	if err != nil {
		return nil, err
	}
	out := make([]statement.Statement, 0, len(stmts))
	for _, st := range stmts {
		keep, err := f.Keep(st)
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, st)
		}
	}
	log().Info("filtered by expression", "expr", expr, "in", len(stmts), "out", len(out))
	return out, nil
}
