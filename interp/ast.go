package interp

import (
	"strings"
)

// Node represents a node in the AST
type Node interface {
	// Pos returns the line and column where the node starts.
	Pos() (line, column int)
	String() string
}

// Statement represents a statement node
type Statement interface {
	Node
	statementNode()
}

// Expression represents an expression node
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node of every AST
type Program struct {
	Statements []Statement
}

func (p *Program) String() string {
	lines := make([]string, len(p.Statements))
	for i, s := range p.Statements {
		lines[i] = s.String()
	}
	return strings.Join(lines, "\n")
}

// base carries the source position shared by every node.
type base struct {
	Token Token
}

func (b base) Pos() (int, int) { return b.Token.Line, b.Token.Column }

// AssignStatement binds a value to one or more targets: a = b = value
type AssignStatement struct {
	base
	Targets []Expression
	Value   Expression
}

func (s *AssignStatement) statementNode() {}
func (s *AssignStatement) String() string {
	parts := make([]string, 0, len(s.Targets)+1)
	for _, t := range s.Targets {
		parts = append(parts, t.String())
	}
	parts = append(parts, s.Value.String())
	return strings.Join(parts, " = ")
}

// AugAssignStatement updates a target in place: a += value
type AugAssignStatement struct {
	base
	Target   Expression
	Operator string // "+", "-", "*" or "/"
	Value    Expression
}

func (s *AugAssignStatement) statementNode() {}
func (s *AugAssignStatement) String() string {
	return s.Target.String() + " " + s.Operator + "= " + s.Value.String()
}

// ExpressionStatement is an expression evaluated for its value or effect
type ExpressionStatement struct {
	base
	Expression Expression
}

func (s *ExpressionStatement) statementNode() {}
func (s *ExpressionStatement) String() string { return s.Expression.String() }

// Name references a variable or a bound callable
type Name struct {
	base
	Value string
}

func (e *Name) expressionNode() {}
func (e *Name) String() string  { return e.Value }

// IntLiteral is an integer constant
type IntLiteral struct {
	base
	Value int64
}

func (e *IntLiteral) expressionNode() {}
func (e *IntLiteral) String() string  { return e.Token.Literal }

// FloatLiteral is a floating point constant
type FloatLiteral struct {
	base
	Value float64
}

func (e *FloatLiteral) expressionNode() {}
func (e *FloatLiteral) String() string  { return e.Token.Literal }

// StringLiteral is a string constant
type StringLiteral struct {
	base
	Value string
}

func (e *StringLiteral) expressionNode() {}
func (e *StringLiteral) String() string  { return Repr(e.Value) }

// FStringPart is either literal text or an interpolated expression.
type FStringPart struct {
	Literal    string
	Expr       Expression
	Conversion rune   // 0, 'r', 's' or 'a'
	Spec       string // format spec after ':'
}

// FString is an interpolated string: f"The answer is {result}"
type FString struct {
	base
	Parts []FStringPart
}

func (e *FString) expressionNode() {}
func (e *FString) String() string {
	var sb strings.Builder
	sb.WriteString(`f"`)
	for _, p := range e.Parts {
		if p.Expr == nil {
			sb.WriteString(strings.NewReplacer("{", "{{", "}", "}}").Replace(p.Literal))
			continue
		}
		sb.WriteString("{" + p.Expr.String())
		if p.Conversion != 0 {
			sb.WriteString("!" + string(p.Conversion))
		}
		if p.Spec != "" {
			sb.WriteString(":" + p.Spec)
		}
		sb.WriteString("}")
	}
	sb.WriteString(`"`)
	return sb.String()
}

// BoolLiteral is True or False
type BoolLiteral struct {
	base
	Value bool
}

func (e *BoolLiteral) expressionNode() {}
func (e *BoolLiteral) String() string  { return e.Token.Literal }

// NoneLiteral is None
type NoneLiteral struct {
	base
}

func (e *NoneLiteral) expressionNode() {}
func (e *NoneLiteral) String() string  { return "None" }

// ListLiteral is [a, b]
type ListLiteral struct {
	base
	Elements []Expression
}

func (e *ListLiteral) expressionNode() {}
func (e *ListLiteral) String() string  { return "[" + joinNodes(e.Elements) + "]" }

// TupleLiteral is (a, b) or a bare a, b
type TupleLiteral struct {
	base
	Elements []Expression
}

func (e *TupleLiteral) expressionNode() {}
func (e *TupleLiteral) String() string {
	if len(e.Elements) == 1 {
		return "(" + e.Elements[0].String() + ",)"
	}
	return "(" + joinNodes(e.Elements) + ")"
}

// DictEntry is one key: value pair of a dict literal
type DictEntry struct {
	Key   Expression
	Value Expression
}

// DictLiteral is {k: v}
type DictLiteral struct {
	base
	Entries []DictEntry
}

func (e *DictLiteral) expressionNode() {}
func (e *DictLiteral) String() string {
	parts := make([]string, len(e.Entries))
	for i, entry := range e.Entries {
		parts[i] = entry.Key.String() + ": " + entry.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// UnaryExpression is -x, +x or not x
type UnaryExpression struct {
	base
	Operator string
	Operand  Expression
}

func (e *UnaryExpression) expressionNode() {}
func (e *UnaryExpression) String() string {
	if e.Operator == "not" {
		return "(not " + e.Operand.String() + ")"
	}
	return "(" + e.Operator + e.Operand.String() + ")"
}

// BinaryExpression is an arithmetic or boolean operation
type BinaryExpression struct {
	base
	Left     Expression
	Operator string
	Right    Expression
}

func (e *BinaryExpression) expressionNode() {}
func (e *BinaryExpression) String() string {
	return "(" + e.Left.String() + " " + e.Operator + " " + e.Right.String() + ")"
}

// CompareExpression is a comparison chain: a < b <= c
type CompareExpression struct {
	base
	Left        Expression
	Operators   []string
	Comparators []Expression
	grouped     bool
}

func (e *CompareExpression) expressionNode() {}
func (e *CompareExpression) String() string {
	var sb strings.Builder
	sb.WriteString("(" + e.Left.String())
	for i, op := range e.Operators {
		sb.WriteString(" " + op + " " + e.Comparators[i].String())
	}
	sb.WriteString(")")
	return sb.String()
}

// ConditionalExpression is body if test else orElse
type ConditionalExpression struct {
	base
	Body   Expression
	Test   Expression
	OrElse Expression
}

func (e *ConditionalExpression) expressionNode() {}
func (e *ConditionalExpression) String() string {
	return "(" + e.Body.String() + " if " + e.Test.String() + " else " + e.OrElse.String() + ")"
}

// Keyword is a name=value argument
type Keyword struct {
	Name  string
	Value Expression
}

// CallExpression is f(a, b=c)
type CallExpression struct {
	base
	Function  Expression
	Arguments []Expression
	Keywords  []Keyword
}

func (e *CallExpression) expressionNode() {}
func (e *CallExpression) String() string {
	parts := make([]string, 0, len(e.Arguments)+len(e.Keywords))
	for _, a := range e.Arguments {
		parts = append(parts, a.String())
	}
	for _, k := range e.Keywords {
		parts = append(parts, k.Name+"="+k.Value.String())
	}
	return e.Function.String() + "(" + strings.Join(parts, ", ") + ")"
}

// IndexExpression is x[i]
type IndexExpression struct {
	base
	Object Expression
	Index  Expression
}

func (e *IndexExpression) expressionNode() {}
func (e *IndexExpression) String() string {
	return e.Object.String() + "[" + e.Index.String() + "]"
}

// SliceExpression is x[lo:hi]; either bound may be nil
type SliceExpression struct {
	base
	Object Expression
	Low    Expression
	High   Expression
}

func (e *SliceExpression) expressionNode() {}
func (e *SliceExpression) String() string {
	var lo, hi string
	if e.Low != nil {
		lo = e.Low.String()
	}
	if e.High != nil {
		hi = e.High.String()
	}
	return e.Object.String() + "[" + lo + ":" + hi + "]"
}

func joinNodes(nodes []Expression) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, ", ")
}
