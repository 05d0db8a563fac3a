package visibility

// Evaluator decides whether a catalog node is drawn visible for the current
// pass, given its rule and the resolved widget values.
type Evaluator interface {
	Eval(nodeID, rule string, ctx Context) (bool, error)
}

// Context provides inputs to an Evaluator. Values holds the resolved widget
// values keyed by identifier. Extras holds one-pass flags such as
// "submitted.<form>" and "pressed.<button>", plus anything a host injects.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(nodeID, rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(nodeID, rule string, ctx Context) (bool, error) {
	return fn(nodeID, rule, ctx)
}

// Always is an Evaluator that shows every node.
var Always Evaluator = EvaluatorFunc(func(string, string, Context) (bool, error) { return true, nil })
