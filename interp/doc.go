// Package interp evaluates the short programs a code-generating model
// writes to compose tools.
//
// The language is a small, statement-only subset of Python:
//
//	answer = tool_0(text=question)
//	caption, score = tool_1(image), 0.5
//	print(f"The answer is {answer!r} ({score:.0%})")
//
// Supported statements are assignments (including tuple unpacking and
// subscript targets), augmented assignments and expression statements,
// separated by newlines or semicolons. Expressions cover literals, lists,
// tuples, dicts, f-strings, subscripts and slices, arithmetic, comparison
// chains, membership tests, boolean operators and conditional expressions.
//
// There are no definitions, loops, imports or attribute access. The only
// callable values are the bindings handed to Evaluate, so generated code
// can reach the outside world through the provided tools and nothing else.
//
// Parse and runtime failures are reported as *CodeError, which matches
// ErrCodeExecution with errors.Is. Errors returned by a binding propagate
// unchanged.
package interp
