// Package filter selects SDK records with expr-lang boolean expressions.
//
// Record fields are exposed by their Go names (State, SKU, Quantity,
// ShippingDetail.Country) next to a small set of helper functions:
//
//	State == "APPROVED" and Quantity > 1
//	contains(ProductName, "shirt") and daysSince(OrderTime) < 7
//	hasTag("summer")
package filter

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/mitchellh/mapstructure"

	"github.com/s0up4200/wishmerchant/wish"
)

// DefaultCacheSize is the number of compiled expressions kept by Compile.
const DefaultCacheSize = 64

var programs = newLRUCache[*Filter](DefaultCacheSize)

// dateLayouts are the timestamp formats the API emits.
var dateLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01-02-2006",
}

// Filter is a compiled expression. It is safe for concurrent use.
type Filter struct {
	expression string
	program    *vm.Program
}

// Compile compiles expression, reusing a cached program when the same
// expression was compiled before.
func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if cached, ok := programs.Get(expression); ok {
		return cached, nil
	}

	program, err := expr.Compile(expression,
		expr.Env(helperFunctions()),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	f := &Filter{expression: expression, program: program}
	programs.Put(expression, f)
	return f, nil
}

// Expression returns the source expression.
func (f *Filter) Expression() string {
	return f.expression
}

// Match reports whether record satisfies the filter.
func (f *Filter) Match(record any) (bool, error) {
	env, err := runtimeEnvironment(record)
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			Record:     fmt.Sprintf("%T", record),
			Reason:     "failed to build environment",
			Err:        err,
		}
	}

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			Record:     fmt.Sprintf("%T", record),
			Reason:     "failed to run expression",
			Err:        err,
		}
	}

	// AsBool guarantees the result type
	return result.(bool), nil
}

// Apply returns the records matching f in their original order. A nil
// filter keeps everything.
func Apply[T any](f *Filter, records []T) ([]T, error) {
	if f == nil {
		return records, nil
	}

	matched := make([]T, 0, len(records))
	for _, record := range records {
		ok, err := f.Match(record)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, record)
		}
	}
	return matched, nil
}

func helperFunctions() map[string]any {
	funcs := make(map[string]any, 16)
	addHelperFunctions(funcs)
	return funcs
}

func addHelperFunctions(env map[string]any) {
	// Date helpers
	env["parseDate"] = parseDate
	env["daysSince"] = func(s string) int {
		t := parseDate(s)
		if t.IsZero() {
			return -1
		}
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["now"] = time.Now
	// String helpers
	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["endsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	// Record helpers, replaced per record where they apply
	env["hasTag"] = func(string) bool { return false }
	env["totalInventory"] = func() int { return 0 }
}

// parseDate returns the zero time for unparseable input.
func parseDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func runtimeEnvironment(record any) (map[string]any, error) {
	fields := make(map[string]any, 32)
	if err := mapstructure.Decode(record, &fields); err != nil {
		return nil, err
	}

	env := make(map[string]any, len(fields)+16)
	addHelperFunctions(env)
	maps.Copy(env, fields)

	switch r := record.(type) {
	case wish.Product:
		env["hasTag"] = hasTagFunc(r.Tags)
		env["totalInventory"] = totalInventoryFunc(r.Variations)
	case *wish.Product:
		env["hasTag"] = hasTagFunc(r.Tags)
		env["totalInventory"] = totalInventoryFunc(r.Variations)
	}

	return env, nil
}

func hasTagFunc(tags []wish.Tag) func(string) bool {
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = strings.ToLower(tag.Name)
	}
	return func(name string) bool {
		return slices.Contains(names, strings.ToLower(name))
	}
}

func totalInventoryFunc(variations []wish.Variation) func() int {
	total := 0
	for _, v := range variations {
		total += v.Inventory
	}
	return func() int { return total }
}
