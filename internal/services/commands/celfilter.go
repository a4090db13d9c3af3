package commandsvc

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/cel-go/cel"
	"github.com/rzbill/cmdring/internal/device"
)

// celFilter wraps a compiled CEL program evaluated against stored commands.
// When disabled, Eval always returns true.
type celFilter struct {
	prog    cel.Program
	enabled bool
}

func newCELFilter(expr string) (celFilter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return celFilter{}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("index", cel.IntType),
		cel.Variable("offset", cel.IntType),
		cel.Variable("size", cel.IntType),
		cel.Variable("id", cel.StringType),
		cel.Variable("ts_ms", cel.IntType),
		// Command bytes without the trailing terminator.
		cel.Variable("text", cel.StringType),
		// Parsed JSON command, null when the command is not JSON.
		cel.Variable("json", cel.DynType),
		cel.Variable("now_ms", cel.IntType),
	)
	if err != nil {
		return celFilter{}, err
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return celFilter{}, iss.Err()
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return celFilter{}, &FilterTypeError{Expr: expr, Type: ast.OutputType().String()}
	}
	prog, err := env.Program(ast)
	if err != nil {
		return celFilter{}, err
	}
	return celFilter{prog: prog, enabled: true}, nil
}

// Eval reports whether c matches. Evaluation errors count as no match.
func (f celFilter) Eval(c device.Command, terminator byte, now time.Time) bool {
	if !f.enabled {
		return true
	}
	text := strings.TrimSuffix(string(c.Data), string([]byte{terminator}))
	var jsonObj any
	_ = json.Unmarshal([]byte(text), &jsonObj)
	out, _, err := f.prog.Eval(map[string]any{
		"index":  int64(c.Index),
		"offset": c.Offset,
		"size":   int64(c.Size),
		"id":     c.ID.String(),
		"ts_ms":  c.ID.Time().UnixMilli(),
		"text":   text,
		"json":   jsonObj,
		"now_ms": now.UnixMilli(),
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
