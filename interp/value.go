package interp

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode"

	ai "github.com/spetersoncode/codeagent"
)

// Values produced by the evaluator use these Go types:
//
//	None   nil
//	bool   bool
//	int    int64
//	float  float64
//	str    string
//	list   []any
//	tuple  Tuple
//	dict   map[string]any
//
// Values coming from tools or state are normalized on read: other integer
// and float kinds widen to int64 and float64, and other slice and
// string-keyed map types are readable as lists and dicts.

// Tuple is an immutable sequence produced by tuple expressions.
type Tuple []any

// TypeName returns the name generated code would use for the value's type.
func TypeName(v any) string {
	switch normalize(v).(type) {
	case nil:
		return "NoneType"
	case bool:
		return "bool"
	case int64:
		return "int"
	case float64:
		return "float"
	case string:
		return "str"
	case Tuple:
		return "tuple"
	case []any:
		return "list"
	case map[string]any:
		return "dict"
	case ai.Callable, func(context.Context, ai.Args) (any, error):
		return "function"
	}
	if _, ok := asList(v); ok {
		return "list"
	}
	if _, ok := asDict(v); ok {
		return "dict"
	}
	return reflect.TypeOf(v).String()
}

// normalize widens numeric kinds to int64 and float64.
func normalize(v any) any {
	switch x := v.(type) {
	case nil, bool, int64, float64, string, []any, Tuple, map[string]any:
		return v
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint:
		if uint64(x) <= math.MaxInt64 {
			return int64(x)
		}
		return float64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		if x <= math.MaxInt64 {
			return int64(x)
		}
		return float64(x)
	case float32:
		return float64(x)
	}
	return v
}

// asList returns the elements of any list-like value.
func asList(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case Tuple:
		return x, true
	case nil, string, []byte:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// asDict returns the entries of any string-keyed map.
func asDict(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Truthy reports the truth value of v.
func Truthy(v any) bool {
	switch x := normalize(v).(type) {
	case nil:
		return false
	case bool:
		return x
	case int64:
		return x != 0
	case float64:
		return x != 0
	case string:
		return x != ""
	}
	if l, ok := asList(v); ok {
		return len(l) > 0
	}
	if d, ok := asDict(v); ok {
		return len(d) > 0
	}
	return true
}

// Str renders v the way print does.
func Str(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return Repr(v)
}

// Repr renders v as a literal.
func Repr(v any) string {
	switch x := normalize(v).(type) {
	case nil:
		return "None"
	case bool:
		if x {
			return "True"
		}
		return "False"
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return formatFloat(x)
	case string:
		return quote(x)
	case Tuple:
		if len(x) == 1 {
			return "(" + Repr(x[0]) + ",)"
		}
		return "(" + reprItems(x) + ")"
	case ai.Callable, func(context.Context, ai.Args) (any, error):
		return "<function>"
	}
	if l, ok := asList(v); ok {
		return "[" + reprItems(l) + "]"
	}
	if d, ok := asDict(v); ok {
		parts := make([]string, 0, len(d))
		for _, k := range sortedKeys(d) {
			parts = append(parts, quote(k)+": "+Repr(d[k]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v)
}

func reprItems(items []any) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = Repr(item)
	}
	return strings.Join(parts, ", ")
}

// formatFloat renders the shortest repr, switching to exponent notation
// outside 1e-4 <= |f| < 1e16.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	exp := strings.SplitN(strconv.FormatFloat(f, 'e', -1, 64), "e", 2)[1]
	e, _ := strconv.Atoi(exp)
	if f != 0 && (e < -4 || e >= 16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// quote renders s as a single-quoted literal, switching to double quotes
// when s contains single quotes but no double quotes.
func quote(s string) string {
	q := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}
	var sb strings.Builder
	sb.WriteRune(q)
	for _, r := range s {
		switch {
		case r == q || r == '\\':
			sb.WriteRune('\\')
			sb.WriteRune(r)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case !unicode.IsPrint(r):
			switch {
			case r < 0x100:
				fmt.Fprintf(&sb, `\x%02x`, r)
			case r < 0x10000:
				fmt.Fprintf(&sb, `\u%04x`, r)
			default:
				fmt.Fprintf(&sb, `\U%08x`, r)
			}
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteRune(q)
	return sb.String()
}

// number classifies v as an int or float operand; bools count as ints.
func number(v any) (i int64, f float64, isFloat, ok bool) {
	switch x := normalize(v).(type) {
	case bool:
		if x {
			return 1, 1, false, true
		}
		return 0, 0, false, true
	case int64:
		return x, float64(x), false, true
	case float64:
		return 0, x, true, true
	}
	return 0, 0, false, false
}

// Equal reports whether a == b.
func Equal(a, b any) bool {
	a, b = normalize(a), normalize(b)
	ia, fa, aFloat, aNum := number(a)
	ib, fb, bFloat, bNum := number(b)
	if aNum && bNum {
		if aFloat || bFloat {
			return fa == fb
		}
		return ia == ib
	}
	if aNum != bNum {
		return false
	}

	switch x := a.(type) {
	case nil:
		return b == nil
	case string:
		y, ok := b.(string)
		return ok && x == y
	case Tuple:
		y, ok := b.(Tuple)
		return ok && equalItems(x, y)
	}
	if _, ok := b.(Tuple); ok {
		return false
	}
	if x, ok := asList(a); ok {
		y, ok := asList(b)
		return ok && equalItems(x, y)
	}
	if x, ok := asDict(a); ok {
		y, ok := asDict(b)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

func equalItems(x, y []any) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if !Equal(x[i], y[i]) {
			return false
		}
	}
	return true
}

// Compare evaluates one comparison operator.
func Compare(op string, a, b any) (bool, error) {
	switch op {
	case "==":
		return Equal(a, b), nil
	case "!=":
		return !Equal(a, b), nil
	case "in":
		return contains(b, a)
	case "not in":
		found, err := contains(b, a)
		return !found, err
	}

	c, err := order(a, b)
	if err != nil {
		return false, fmt.Errorf("TypeError: '%s' not supported between instances of '%s' and '%s'", op, TypeName(a), TypeName(b))
	}
	switch op {
	case "<":
		return c < 0, nil
	case ">":
		return c > 0, nil
	case "<=":
		return c <= 0, nil
	case ">=":
		return c >= 0, nil
	}
	return false, fmt.Errorf("SyntaxError: unknown comparison %q", op)
}

var errUnordered = errors.New("unordered")

// order returns -1, 0 or 1 for numbers, strings, and same-kind sequences.
func order(a, b any) (int, error) {
	a, b = normalize(a), normalize(b)
	ia, fa, aFloat, aNum := number(a)
	ib, fb, bFloat, bNum := number(b)
	if aNum && bNum {
		if aFloat || bFloat {
			return cmpFloat(fa, fb), nil
		}
		switch {
		case ia < ib:
			return -1, nil
		case ia > ib:
			return 1, nil
		}
		return 0, nil
	}
	if x, ok := a.(string); ok {
		if y, ok := b.(string); ok {
			return strings.Compare(x, y), nil
		}
		return 0, errUnordered
	}
	_, aTuple := a.(Tuple)
	_, bTuple := b.(Tuple)
	x, xok := asList(a)
	y, yok := asList(b)
	if !xok || !yok || aTuple != bTuple {
		return 0, errUnordered
	}
	for i := 0; i < len(x) && i < len(y); i++ {
		if Equal(x[i], y[i]) {
			continue
		}
		return order(x[i], y[i])
	}
	switch {
	case len(x) < len(y):
		return -1, nil
	case len(x) > len(y):
		return 1, nil
	}
	return 0, nil
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// contains implements item in container.
func contains(container, item any) (bool, error) {
	container = normalize(container)
	if s, ok := container.(string); ok {
		sub, ok := item.(string)
		if !ok {
			return false, fmt.Errorf("TypeError: 'in <string>' requires string as left operand, not %s", TypeName(item))
		}
		return strings.Contains(s, sub), nil
	}
	if l, ok := asList(container); ok {
		for _, v := range l {
			if Equal(v, item) {
				return true, nil
			}
		}
		return false, nil
	}
	if d, ok := asDict(container); ok {
		key, ok := item.(string)
		if !ok {
			return false, nil
		}
		_, found := d[key]
		return found, nil
	}
	return false, fmt.Errorf("TypeError: argument of type '%s' is not iterable", TypeName(container))
}

// Binary evaluates an arithmetic operator.
func Binary(op string, a, b any) (any, error) {
	a, b = normalize(a), normalize(b)
	ia, fa, aFloat, aNum := number(a)
	ib, fb, bFloat, bNum := number(b)

	if aNum && bNum {
		if aFloat || bFloat || op == "/" {
			return floatOp(op, fa, fb)
		}
		return intOp(op, ia, ib)
	}

	switch op {
	case "+":
		if x, ok := a.(string); ok {
			if y, ok := b.(string); ok {
				return x + y, nil
			}
		}
		if x, ok := a.(Tuple); ok {
			if y, ok := b.(Tuple); ok {
				return append(append(Tuple{}, x...), y...), nil
			}
		}
		_, aTuple := a.(Tuple)
		_, bTuple := b.(Tuple)
		if x, ok := asList(a); ok && !aTuple && !bTuple {
			if y, ok := asList(b); ok {
				return append(append([]any{}, x...), y...), nil
			}
		}
	case "*":
		if aNum && !aFloat && !bNum {
			if out, ok, err := repeat(b, ia); ok {
				return out, err
			}
		}
		if bNum && !bFloat && !aNum {
			if out, ok, err := repeat(a, ib); ok {
				return out, err
			}
		}
	}
	return nil, fmt.Errorf("TypeError: unsupported operand type(s) for %s: '%s' and '%s'", op, TypeName(a), TypeName(b))
}

// maxRepeatLen bounds the length of a string or sequence built by *.
const maxRepeatLen = 1 << 24

// repeat evaluates seq * n. ok reports whether seq is a repeatable type.
func repeat(seq any, n int64) (out any, ok bool, err error) {
	if n < 0 {
		n = 0
	}
	tooLarge := func(length int) bool {
		return length > 0 && n > int64(maxRepeatLen/length)
	}
	switch x := seq.(type) {
	case string:
		if tooLarge(len(x)) {
			return nil, true, fmt.Errorf("MemoryError: repeated string would exceed %d bytes", maxRepeatLen)
		}
		return strings.Repeat(x, int(n)), true, nil
	case Tuple:
		if tooLarge(len(x)) {
			return nil, true, fmt.Errorf("MemoryError: repeated tuple would exceed %d items", maxRepeatLen)
		}
		out := make(Tuple, 0, len(x)*int(n))
		for i := int64(0); i < n && len(x) > 0; i++ {
			out = append(out, x...)
		}
		return out, true, nil
	}
	if l, ok := asList(seq); ok {
		if tooLarge(len(l)) {
			return nil, true, fmt.Errorf("MemoryError: repeated list would exceed %d items", maxRepeatLen)
		}
		out := make([]any, 0, len(l)*int(n))
		for i := int64(0); i < n && len(l) > 0; i++ {
			out = append(out, l...)
		}
		return out, true, nil
	}
	return nil, false, nil
}

var errIntOverflow = errors.New("OverflowError: integer overflow")

func addInt(a, b int64) (int64, error) {
	c := a + b
	if (a^c)&(b^c) < 0 {
		return 0, errIntOverflow
	}
	return c, nil
}

func subInt(a, b int64) (int64, error) {
	c := a - b
	if (a^b)&(a^c) < 0 {
		return 0, errIntOverflow
	}
	return c, nil
}

func mulInt(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	c := a * b
	if c/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, errIntOverflow
	}
	return c, nil
}

func intOp(op string, a, b int64) (any, error) {
	switch op {
	case "+":
		return wrapInt(addInt(a, b))
	case "-":
		return wrapInt(subInt(a, b))
	case "*":
		return wrapInt(mulInt(a, b))
	case "//":
		if b == 0 {
			return nil, fmt.Errorf("ZeroDivisionError: integer division or modulo by zero")
		}
		if a == math.MinInt64 && b == -1 {
			return nil, errIntOverflow
		}
		q := a / b
		if (a%b != 0) && ((a < 0) != (b < 0)) {
			q--
		}
		return q, nil
	case "%":
		if b == 0 {
			return nil, fmt.Errorf("ZeroDivisionError: integer division or modulo by zero")
		}
		m := a % b
		if m != 0 && ((m < 0) != (b < 0)) {
			m += b
		}
		return m, nil
	case "**":
		if b < 0 {
			if a == 0 {
				return nil, fmt.Errorf("ZeroDivisionError: 0.0 cannot be raised to a negative power")
			}
			return math.Pow(float64(a), float64(b)), nil
		}
		result, base := int64(1), a
		var err error
		for b > 0 {
			if b&1 == 1 {
				if result, err = mulInt(result, base); err != nil {
					return nil, err
				}
			}
			b >>= 1
			if b > 0 {
				if base, err = mulInt(base, base); err != nil {
					return nil, err
				}
			}
		}
		return result, nil
	}
	return nil, fmt.Errorf("SyntaxError: unknown operator %q", op)
}

// wrapInt adapts a checked integer result to intOp's return type.
func wrapInt(v int64, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

func floatOp(op string, a, b float64) (any, error) {
	switch op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		if b == 0 {
			return nil, fmt.Errorf("ZeroDivisionError: division by zero")
		}
		return a / b, nil
	case "//":
		if b == 0 {
			return nil, fmt.Errorf("ZeroDivisionError: float floor division by zero")
		}
		return math.Floor(a / b), nil
	case "%":
		if b == 0 {
			return nil, fmt.Errorf("ZeroDivisionError: float modulo")
		}
		m := math.Mod(a, b)
		if m != 0 && ((m < 0) != (b < 0)) {
			m += b
		}
		return m, nil
	case "**":
		if a == 0 && b < 0 {
			return nil, fmt.Errorf("ZeroDivisionError: 0.0 cannot be raised to a negative power")
		}
		return math.Pow(a, b), nil
	}
	return nil, fmt.Errorf("SyntaxError: unknown operator %q", op)
}

// Unary evaluates -x and +x.
func Unary(op string, v any) (any, error) {
	i, f, isFloat, ok := number(v)
	if !ok {
		return nil, fmt.Errorf("TypeError: bad operand type for unary %s: '%s'", op, TypeName(v))
	}
	if op == "-" {
		if isFloat {
			return -f, nil
		}
		if i == math.MinInt64 {
			return nil, errIntOverflow
		}
		return -i, nil
	}
	if isFloat {
		return f, nil
	}
	return i, nil
}

// index converts a subscript to a position in a sequence of length n.
func index(v any, n int, what string) (int, error) {
	i, _, isFloat, ok := number(v)
	if !ok || isFloat {
		return 0, fmt.Errorf("TypeError: %s indices must be integers, not %s", what, TypeName(v))
	}
	if i < 0 {
		i += int64(n)
	}
	if i < 0 || i >= int64(n) {
		return 0, fmt.Errorf("IndexError: %s index out of range", what)
	}
	return int(i), nil
}

// GetItem evaluates obj[key].
func GetItem(obj, key any) (any, error) {
	obj = normalize(obj)
	if s, ok := obj.(string); ok {
		runes := []rune(s)
		i, err := index(key, len(runes), "string")
		if err != nil {
			return nil, err
		}
		return string(runes[i]), nil
	}
	if l, ok := asList(obj); ok {
		what := "list"
		if _, isTuple := obj.(Tuple); isTuple {
			what = "tuple"
		}
		i, err := index(key, len(l), what)
		if err != nil {
			return nil, err
		}
		return normalize(l[i]), nil
	}
	if d, ok := asDict(obj); ok {
		k, ok := key.(string)
		if !ok {
			return nil, fmt.Errorf("KeyError: %s", Repr(key))
		}
		v, found := d[k]
		if !found {
			return nil, fmt.Errorf("KeyError: %s", Repr(key))
		}
		return normalize(v), nil
	}
	return nil, fmt.Errorf("TypeError: '%s' object is not subscriptable", TypeName(obj))
}

// SetItem evaluates obj[key] = value.
func SetItem(obj, key, value any) error {
	switch x := obj.(type) {
	case []any:
		i, err := index(key, len(x), "list")
		if err != nil {
			return fmt.Errorf("%s", strings.Replace(err.Error(), "list index", "list assignment index", 1))
		}
		x[i] = value
		return nil
	case map[string]any:
		k, ok := key.(string)
		if !ok {
			return fmt.Errorf("TypeError: dict keys must be str, not %s", TypeName(key))
		}
		x[k] = value
		return nil
	}
	return fmt.Errorf("TypeError: '%s' object does not support item assignment", TypeName(obj))
}

// Slice evaluates obj[lo:hi]; nil bounds default to the ends.
func Slice(obj, lo, hi any) (any, error) {
	obj = normalize(obj)
	var n int
	var runes []rune
	var items []any
	if s, ok := obj.(string); ok {
		runes = []rune(s)
		n = len(runes)
	} else if l, ok := asList(obj); ok {
		items = l
		n = len(l)
	} else {
		return nil, fmt.Errorf("TypeError: '%s' object is not subscriptable", TypeName(obj))
	}

	start, err := bound(lo, n, 0)
	if err != nil {
		return nil, err
	}
	end, err := bound(hi, n, n)
	if err != nil {
		return nil, err
	}
	if end < start {
		end = start
	}

	switch obj.(type) {
	case string:
		return string(runes[start:end]), nil
	case Tuple:
		return append(Tuple{}, items[start:end]...), nil
	}
	return append([]any{}, items[start:end]...), nil
}

func bound(v any, n, def int) (int, error) {
	if v == nil {
		return def, nil
	}
	i, _, isFloat, ok := number(v)
	if !ok || isFloat {
		return 0, fmt.Errorf("TypeError: slice indices must be integers or None, not %s", TypeName(v))
	}
	if i < 0 {
		i += int64(n)
	}
	if i < 0 {
		i = 0
	}
	if i > int64(n) {
		i = int64(n)
	}
	return int(i), nil
}

// unpack splits v into exactly n values for a, b = v.
func unpack(v any, n int) ([]any, error) {
	v = normalize(v)
	var items []any
	if s, ok := v.(string); ok {
		for _, r := range s {
			items = append(items, string(r))
		}
	} else if l, ok := asList(v); ok {
		items = l
	} else {
		return nil, fmt.Errorf("TypeError: cannot unpack non-iterable %s object", TypeName(v))
	}
	switch {
	case len(items) < n:
		return nil, fmt.Errorf("ValueError: not enough values to unpack (expected %d, got %d)", n, len(items))
	case len(items) > n:
		return nil, fmt.Errorf("ValueError: too many values to unpack (expected %d)", n)
	}
	out := make([]any, n)
	for i, item := range items {
		out[i] = normalize(item)
	}
	return out, nil
}
