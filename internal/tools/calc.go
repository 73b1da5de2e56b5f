package tools

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/expr-lang/expr"
)

const CalcToolName = "calculator"

var errZeroBase = errors.New("base value is zero")

// CalcTool evaluates arithmetic over figures pulled from a document, e.g.
// debt-to-equity or margin calculations.
type CalcTool struct{}

func (c *CalcTool) Name() string {
	return CalcToolName
}

func (c *CalcTool) Description() string {
	return "Evaluate arithmetic expressions for financial ratios. Supports +, -, *, /, %, ^, comparisons, " +
		"abs(), max(), min(), round(), plus growth(previous, current) and margin(part, whole), both in percent."
}

func (c *CalcTool) Execute(_ context.Context, input string) (string, error) {
	program, err := expr.Compile(input,
		expr.Function("growth", percentOf(func(prev, curr float64) (float64, float64) { return curr - prev, prev })),
		expr.Function("margin", percentOf(func(part, whole float64) (float64, float64) { return part, whole })),
	)
	if err != nil {
		return "", fmt.Errorf("expression error: %w", err)
	}

	result, err := expr.Run(program, nil)
	if err != nil {
		return "", fmt.Errorf("evaluation error: %w", err)
	}

	if f, ok := result.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	}
	return fmt.Sprintf("%v", result), nil
}

// percentOf builds a two-argument function returning num/den as a percentage
func percentOf(split func(a, b float64) (num, den float64)) func(params ...any) (any, error) {
	return func(params ...any) (any, error) {
		if len(params) != 2 {
			return nil, fmt.Errorf("expected 2 arguments, got %d", len(params))
		}
		a, err := toFloat(params[0])
		if err != nil {
			return nil, err
		}
		b, err := toFloat(params[1])
		if err != nil {
			return nil, err
		}
		num, den := split(a, b)
		if den == 0 {
			return nil, errZeroBase
		}
		return num / den * 100, nil
	}
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return 0, fmt.Errorf("not a number: %v", v)
	}
}
