package datasheet

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

var mathContext = &hcl.EvalContext{
	Functions: map[string]function.Function{
		"abs":   stdlib.AbsoluteFunc,
		"ceil":  stdlib.CeilFunc,
		"floor": stdlib.FloorFunc,
		"log":   stdlib.LogFunc,
		"max":   stdlib.MaxFunc,
		"min":   stdlib.MinFunc,
		"pow":   stdlib.PowFunc,
	},
}

// Eval evaluates an arithmetic expression to a float. Operators, parentheses
// and the functions abs, ceil, floor, log, max, min and pow are available.
func Eval(src string) (float64, error) {
	src = strings.TrimSpace(src)
	expr, diags := hclsyntax.ParseExpression([]byte(src), "datasheet.hcl", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return 0, fmt.Errorf("parse %q: %s", src, diags.Error())
	}
	val, diags := expr.Value(mathContext)
	if diags.HasErrors() {
		return 0, fmt.Errorf("evaluate %q: %s", src, diags.Error())
	}
	if val.IsNull() || !val.IsKnown() || val.Type() != cty.Number {
		return 0, fmt.Errorf("evaluate %q: expected a number, got %s", src, val.Type().FriendlyName())
	}
	f, _ := val.AsBigFloat().Float64()
	return f, nil
}
