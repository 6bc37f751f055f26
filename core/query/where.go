package query

import (
	"github.com/google/cel-go/cel"

	"github.com/asaidimu/go-lego/core/record"
)

// recordVariable is the name a record is bound to inside Where expressions.
const recordVariable = "record"

// Where keeps the records for which a CEL expression evaluates to true. The
// record is visible to the expression as `record`, a map(string, dyn):
//
//	Where(`record.age >= 18 && record.country == "KE"`)
//
// The expression is compiled once here; a compile error or a non-bool result
// type returns ErrInvalidArgument. Failures while evaluating a record, such as
// reading a missing key, abort the query with ErrEvaluation.
func Where(expression string) (Transformation, error) {
	if expression == "" {
		return Transformation{}, invalidArgument(KindWhere, "expression can't be empty")
	}

	env, err := cel.NewEnv(
		cel.Variable(recordVariable, cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return Transformation{}, invalidArgument(KindWhere, "error creating CEL environment: %v", err)
	}

	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return Transformation{}, invalidArgument(KindWhere, "error compiling %q: %v", expression, issues.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return Transformation{}, invalidArgument(KindWhere, "expression %q must evaluate to bool, got %s", expression, out)
	}

	program, err := env.Program(ast)
	if err != nil {
		return Transformation{}, invalidArgument(KindWhere, "error creating program for %q: %v", expression, err)
	}

	return NewTransformation(KindWhere, func(c record.Collection) (record.Collection, error) {
		out := make(record.Collection, 0, len(c))
		for i, r := range c {
			val, _, err := program.Eval(map[string]any{recordVariable: map[string]any(r)})
			if err != nil {
				return nil, evaluationError(KindWhere, "record %d: %v", i, err)
			}
			keep, ok := val.Value().(bool)
			if !ok {
				return nil, evaluationError(KindWhere, "record %d: expression returned %T, want bool", i, val.Value())
			}
			if keep {
				out = append(out, r)
			}
		}
		return out, nil
	}), nil
}
