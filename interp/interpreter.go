package interp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	ai "github.com/spetersoncode/codeagent"
)

// Interpreter evaluates generated code against a fixed set of callable
// bindings. An Interpreter holds no per-run state and is safe for
// concurrent use.
type Interpreter struct {
	maxToolCalls int
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithMaxToolCalls bounds the number of binding invocations per Evaluate
// call. Zero or less means unlimited.
func WithMaxToolCalls(n int) Option {
	return func(in *Interpreter) {
		in.maxToolCalls = n
	}
}

// New creates an Interpreter.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Evaluate runs code with an unconfigured Interpreter.
func Evaluate(ctx context.Context, code string, bindings map[string]ai.Callable, state map[string]any) (any, error) {
	return New().Evaluate(ctx, code, bindings, state)
}

// Evaluate parses and runs code. Names resolve from state first, then from
// bindings; assignments are written back into state. Calls resolve from
// bindings only. The value of the last statement is returned.
//
// A panic while running the code is returned as a CodeError.
func (in *Interpreter) Evaluate(ctx context.Context, code string, bindings map[string]ai.Callable, state map[string]any) (result any, err error) {
	defer func() {
		if p := recover(); p != nil {
			result, err = nil, &CodeError{Message: fmt.Sprintf("RuntimeError: %v", p)}
		}
	}()

	prog, err := Parse(code)
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = make(map[string]any)
	}

	r := &run{ctx: ctx, bindings: bindings, state: state, maxCalls: in.maxToolCalls}
	for _, stmt := range prog.Statements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err = r.exec(stmt)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// run holds the state of one Evaluate call.
type run struct {
	ctx      context.Context
	bindings map[string]ai.Callable
	state    map[string]any
	maxCalls int
	calls    int
}

// wrap attaches the node position to an error from a value operation.
func wrap(node Node, err error) error {
	var ce *CodeError
	if errors.As(err, &ce) {
		return err
	}
	line, col := node.Pos()
	return &CodeError{Message: err.Error(), Line: line, Column: col}
}

func (r *run) exec(stmt Statement) (any, error) {
	switch s := stmt.(type) {
	case *ExpressionStatement:
		return r.eval(s.Expression)

	case *AssignStatement:
		value, err := r.eval(s.Value)
		if err != nil {
			return nil, err
		}
		for _, target := range s.Targets {
			if err := r.assign(target, value); err != nil {
				return nil, err
			}
		}
		return value, nil

	case *AugAssignStatement:
		current, err := r.eval(s.Target)
		if err != nil {
			return nil, err
		}
		operand, err := r.eval(s.Value)
		if err != nil {
			return nil, err
		}
		value, err := Binary(s.Operator, current, operand)
		if err != nil {
			return nil, wrap(s, err)
		}
		return value, r.assign(s.Target, value)
	}
	return nil, errorAt(stmt, "SyntaxError: unsupported statement")
}

func (r *run) assign(target Expression, value any) error {
	switch t := target.(type) {
	case *Name:
		r.state[t.Value] = value
		return nil

	case *IndexExpression:
		obj, err := r.eval(t.Object)
		if err != nil {
			return err
		}
		key, err := r.eval(t.Index)
		if err != nil {
			return err
		}
		if err := SetItem(obj, key, value); err != nil {
			return wrap(t, err)
		}
		return nil

	case *TupleLiteral:
		return r.assignEach(t, t.Elements, value)
	case *ListLiteral:
		return r.assignEach(t, t.Elements, value)
	}
	return errorAt(target, "SyntaxError: cannot assign to expression")
}

func (r *run) assignEach(node Node, targets []Expression, value any) error {
	values, err := unpack(value, len(targets))
	if err != nil {
		return wrap(node, err)
	}
	for i, target := range targets {
		if err := r.assign(target, values[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) lookup(name string) (any, bool) {
	if v, ok := r.state[name]; ok {
		return normalize(v), true
	}
	if fn, ok := r.bindings[name]; ok {
		return fn, true
	}
	return nil, false
}

func (r *run) eval(expr Expression) (any, error) {
	switch e := expr.(type) {
	case *Name:
		if v, ok := r.lookup(e.Value); ok {
			return v, nil
		}
		return nil, errorAt(e, "NameError: name '%s' is not defined", e.Value)
	case *IntLiteral:
		return e.Value, nil
	case *FloatLiteral:
		return e.Value, nil
	case *StringLiteral:
		return e.Value, nil
	case *BoolLiteral:
		return e.Value, nil
	case *NoneLiteral:
		return nil, nil
	case *FString:
		return r.evalFString(e)
	case *ListLiteral:
		return r.evalItems(e.Elements)
	case *TupleLiteral:
		items, err := r.evalItems(e.Elements)
		return Tuple(items), err
	case *DictLiteral:
		return r.evalDict(e)
	case *UnaryExpression:
		operand, err := r.eval(e.Operand)
		if err != nil {
			return nil, err
		}
		if e.Operator == "not" {
			return !Truthy(operand), nil
		}
		v, err := Unary(e.Operator, operand)
		if err != nil {
			return nil, wrap(e, err)
		}
		return v, nil
	case *BinaryExpression:
		return r.evalBinary(e)
	case *CompareExpression:
		return r.evalCompare(e)
	case *ConditionalExpression:
		test, err := r.eval(e.Test)
		if err != nil {
			return nil, err
		}
		if Truthy(test) {
			return r.eval(e.Body)
		}
		return r.eval(e.OrElse)
	case *CallExpression:
		return r.evalCall(e)
	case *IndexExpression:
		obj, err := r.eval(e.Object)
		if err != nil {
			return nil, err
		}
		key, err := r.eval(e.Index)
		if err != nil {
			return nil, err
		}
		v, err := GetItem(obj, key)
		if err != nil {
			return nil, wrap(e, err)
		}
		return v, nil
	case *SliceExpression:
		return r.evalSlice(e)
	}
	return nil, errorAt(expr, "SyntaxError: unsupported expression")
}

func (r *run) evalItems(exprs []Expression) ([]any, error) {
	items := make([]any, 0, len(exprs))
	for _, expr := range exprs {
		v, err := r.eval(expr)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

func (r *run) evalDict(e *DictLiteral) (any, error) {
	dict := make(map[string]any, len(e.Entries))
	for _, entry := range e.Entries {
		key, err := r.eval(entry.Key)
		if err != nil {
			return nil, err
		}
		k, ok := key.(string)
		if !ok {
			return nil, errorAt(entry.Key, "TypeError: dict keys must be str, not %s", TypeName(key))
		}
		value, err := r.eval(entry.Value)
		if err != nil {
			return nil, err
		}
		dict[k] = value
	}
	return dict, nil
}

func (r *run) evalFString(e *FString) (any, error) {
	var sb strings.Builder
	for _, part := range e.Parts {
		if part.Expr == nil {
			sb.WriteString(part.Literal)
			continue
		}
		v, err := r.eval(part.Expr)
		if err != nil {
			return nil, err
		}
		switch part.Conversion {
		case 'r', 'a':
			v = Repr(v)
		case 's':
			v = Str(v)
		}
		s, err := formatValue(v, part.Spec)
		if err != nil {
			return nil, wrap(part.Expr, err)
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

func (r *run) evalBinary(e *BinaryExpression) (any, error) {
	left, err := r.eval(e.Left)
	if err != nil {
		return nil, err
	}
	switch e.Operator {
	case "and":
		if !Truthy(left) {
			return left, nil
		}
		return r.eval(e.Right)
	case "or":
		if Truthy(left) {
			return left, nil
		}
		return r.eval(e.Right)
	}

	right, err := r.eval(e.Right)
	if err != nil {
		return nil, err
	}
	v, err := Binary(e.Operator, left, right)
	if err != nil {
		return nil, wrap(e, err)
	}
	return v, nil
}

func (r *run) evalCompare(e *CompareExpression) (any, error) {
	left, err := r.eval(e.Left)
	if err != nil {
		return nil, err
	}
	for i, op := range e.Operators {
		right, err := r.eval(e.Comparators[i])
		if err != nil {
			return nil, err
		}
		ok, err := Compare(op, left, right)
		if err != nil {
			return nil, wrap(e, err)
		}
		if !ok {
			return false, nil
		}
		left = right
	}
	return true, nil
}

func (r *run) evalSlice(e *SliceExpression) (any, error) {
	obj, err := r.eval(e.Object)
	if err != nil {
		return nil, err
	}
	var lo, hi any
	if e.Low != nil {
		if lo, err = r.eval(e.Low); err != nil {
			return nil, err
		}
	}
	if e.High != nil {
		if hi, err = r.eval(e.High); err != nil {
			return nil, err
		}
	}
	v, err := Slice(obj, lo, hi)
	if err != nil {
		return nil, wrap(e, err)
	}
	return v, nil
}

// evalCall invokes a binding. The callee must be a name in the binding
// set; state is never consulted, so values in state cannot be called and
// cannot hide a tool. Errors returned by the binding propagate unchanged,
// except position-less CodeErrors which get the call position.
func (r *run) evalCall(e *CallExpression) (any, error) {
	name, ok := e.Function.(*Name)
	if !ok {
		return nil, errorAt(e.Function, "calling %s is not permitted: only the provided tools can be called by name", e.Function.String())
	}
	fn, found := r.bindings[name.Value]
	if !found || fn == nil {
		return nil, errorAt(name, "calling %q is not permitted: only the provided tools can be called", name.Value)
	}

	args := ai.Args{}
	if len(e.Arguments) > 0 {
		positional, err := r.evalItems(e.Arguments)
		if err != nil {
			return nil, err
		}
		args.Positional = positional
	}
	if len(e.Keywords) > 0 {
		args.Keyword = make(map[string]any, len(e.Keywords))
		for _, kw := range e.Keywords {
			v, err := r.eval(kw.Value)
			if err != nil {
				return nil, err
			}
			args.Keyword[kw.Name] = v
		}
	}

	if r.maxCalls > 0 && r.calls >= r.maxCalls {
		line, col := e.Function.Pos()
		return nil, &CodeError{
			Message: fmt.Sprintf("tool call limit of %d exceeded", r.maxCalls),
			Line:    line,
			Column:  col,
			Err:     ErrLimitExceeded,
		}
	}
	r.calls++

	result, err := fn(r.ctx, args)
	if err != nil {
		var ce *CodeError
		if errors.As(err, &ce) && ce.Line == 0 {
			located := *ce
			located.Line, located.Column = e.Function.Pos()
			return nil, &located
		}
		return nil, err
	}
	return normalize(result), nil
}
