package filter

import (
	"strings"

	"github.com/Knetic/govaluate"

	"amtconsole/internal/model"
)

// Expr is an optional boolean refinement over row fields, e.g.
// completed == 'True' && type == 'img'.
type Expr struct {
	src  string
	expr *govaluate.EvaluableExpression
}

// NewExpr compiles src. An empty source yields a nil Expr, which matches all.
func NewExpr(src string) (*Expr, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, nil
	}
	e, err := govaluate.NewEvaluableExpression(src)
	if err != nil {
		return nil, err
	}
	return &Expr{src: src, expr: e}, nil
}

func (e *Expr) String() string {
	if e == nil {
		return ""
	}
	return e.src
}

// Match evaluates the expression with the row fields as parameters. Errors,
// including references to fields the row lacks, count as no match.
func (e *Expr) Match(row model.Row) bool {
	if e == nil {
		return true
	}
	params := make(map[string]any, len(row))
	for k, v := range row {
		params[k] = v
	}
	result, err := e.expr.Evaluate(params)
	if err != nil {
		return false
	}
	b, ok := result.(bool)
	return ok && b
}
