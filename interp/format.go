package interp

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// formatSpec is a parsed f-string format spec:
// [[fill]align][sign][#][0][width][,|_][.precision][type]
type formatSpec struct {
	fill      rune
	align     rune
	sign      rune
	alt       bool
	zero      bool
	width     int
	grouping  rune
	precision int
	verb      rune
}

// maxFormatWidth bounds the width and precision of a format spec.
const maxFormatWidth = 1 << 16

func parseFormatNumber(digits []rune) (int, error) {
	n, err := strconv.Atoi(string(digits))
	if err != nil || n > maxFormatWidth {
		return 0, fmt.Errorf("ValueError: too many decimal digits in format string")
	}
	return n, nil
}

func isAlign(r rune) bool {
	return r == '<' || r == '>' || r == '^' || r == '='
}

func parseFormatSpec(spec string) (formatSpec, error) {
	fs := formatSpec{precision: -1}
	r := []rune(spec)
	i := 0

	switch {
	case len(r) >= 2 && isAlign(r[1]):
		fs.fill, fs.align = r[0], r[1]
		i = 2
	case len(r) >= 1 && isAlign(r[0]):
		fs.align = r[0]
		i = 1
	}
	if i < len(r) && (r[i] == '+' || r[i] == '-' || r[i] == ' ') {
		fs.sign = r[i]
		i++
	}
	if i < len(r) && r[i] == '#' {
		fs.alt = true
		i++
	}
	if i < len(r) && r[i] == '0' {
		fs.zero = true
		i++
	}
	start := i
	for i < len(r) && isDigit(r[i]) {
		i++
	}
	if i > start {
		width, err := parseFormatNumber(r[start:i])
		if err != nil {
			return fs, err
		}
		fs.width = width
	}
	if i < len(r) && (r[i] == ',' || r[i] == '_') {
		fs.grouping = r[i]
		i++
	}
	if i < len(r) && r[i] == '.' {
		i++
		start = i
		for i < len(r) && isDigit(r[i]) {
			i++
		}
		if i == start {
			return fs, fmt.Errorf("ValueError: format specifier missing precision")
		}
		precision, err := parseFormatNumber(r[start:i])
		if err != nil {
			return fs, err
		}
		fs.precision = precision
	}
	if i < len(r) {
		fs.verb = r[i]
		i++
	}
	if i != len(r) {
		return fs, fmt.Errorf("ValueError: invalid format specifier %q", spec)
	}
	return fs, nil
}

// formatValue applies an f-string format spec to v.
func formatValue(v any, spec string) (string, error) {
	if spec == "" {
		return Str(v), nil
	}
	fs, err := parseFormatSpec(spec)
	if err != nil {
		return "", err
	}

	v = normalize(v)
	switch x := v.(type) {
	case bool:
		if fs.verb == 0 || fs.verb == 's' {
			return formatString(Str(x), fs)
		}
		if x {
			return formatInt(1, fs)
		}
		return formatInt(0, fs)
	case int64:
		return formatInt(x, fs)
	case float64:
		return formatFloatSpec(x, fs)
	case string:
		return formatString(x, fs)
	}
	if fs.verb == 0 || fs.verb == 's' {
		return formatString(Str(v), fs)
	}
	return "", fmt.Errorf("TypeError: unsupported format string passed to %s.__format__", TypeName(v))
}

func formatString(s string, fs formatSpec) (string, error) {
	if fs.verb != 0 && fs.verb != 's' {
		return "", fmt.Errorf("ValueError: Unknown format code '%c' for object of type 'str'", fs.verb)
	}
	if fs.sign != 0 {
		return "", fmt.Errorf("ValueError: Sign not allowed in string format specifier")
	}
	if fs.align == '=' {
		return "", fmt.Errorf("ValueError: '=' alignment not allowed in string format specifier")
	}
	if fs.precision >= 0 && utf8.RuneCountInString(s) > fs.precision {
		s = string([]rune(s)[:fs.precision])
	}
	if fs.zero && fs.fill == 0 {
		fs.fill = '0'
	}
	if fs.align == 0 {
		fs.align = '<'
	}
	return pad("", s, fs), nil
}

func formatInt(n int64, fs formatSpec) (string, error) {
	var body, prefix string
	abs := uint64(n)
	if n < 0 {
		abs = uint64(-n)
	}
	switch fs.verb {
	case 0, 'd', 'n':
		body = strconv.FormatUint(abs, 10)
	case 'x', 'X':
		body = strconv.FormatUint(abs, 16)
		prefix = "0x"
		if fs.verb == 'X' {
			body = strings.ToUpper(body)
			prefix = "0X"
		}
	case 'o':
		body = strconv.FormatUint(abs, 8)
		prefix = "0o"
	case 'b':
		body = strconv.FormatUint(abs, 2)
		prefix = "0b"
	case 'c':
		return formatString(string(rune(n)), formatSpec{fill: fs.fill, align: fs.align, width: fs.width, precision: -1})
	case 'e', 'E', 'f', 'F', 'g', 'G', '%':
		return formatFloatSpec(float64(n), fs)
	default:
		return "", fmt.Errorf("ValueError: Unknown format code '%c' for object of type 'int'", fs.verb)
	}
	if fs.precision >= 0 {
		return "", fmt.Errorf("ValueError: Precision not allowed in integer format specifier")
	}
	if fs.grouping != 0 {
		size := 3
		if prefix != "" {
			size = 4
		}
		body = group(body, fs.grouping, size)
	}
	if !fs.alt {
		prefix = ""
	}
	return pad(signOf(n < 0, fs)+prefix, body, fs), nil
}

func formatFloatSpec(f float64, fs formatSpec) (string, error) {
	negative := math.Signbit(f) && !math.IsNaN(f)
	abs := math.Abs(f)
	prec := fs.precision

	var body string
	switch fs.verb {
	case 0:
		switch {
		case prec < 0:
			body = formatFloat(abs)
		default:
			if prec == 0 {
				prec = 1
			}
			body = strconv.FormatFloat(abs, 'g', prec, 64)
			if !strings.ContainsAny(body, ".e") && !math.IsInf(abs, 0) && !math.IsNaN(abs) {
				body += ".0"
			}
		}
	case 'f', 'F', 'e', 'E', 'g', 'G':
		if prec < 0 {
			prec = 6
		}
		verb := byte(fs.verb)
		if verb == 'F' {
			verb = 'f'
		}
		body = strconv.FormatFloat(abs, verb, prec, 64)
		if fs.alt && !strings.ContainsRune(body, '.') {
			body += "."
		}
	case '%':
		if prec < 0 {
			prec = 6
		}
		body = strconv.FormatFloat(abs*100, 'f', prec, 64) + "%"
	case 'd':
		return "", fmt.Errorf("ValueError: Unknown format code 'd' for object of type 'float'")
	default:
		return "", fmt.Errorf("ValueError: Unknown format code '%c' for object of type 'float'", fs.verb)
	}

	switch {
	case math.IsInf(abs, 0):
		body = "inf"
	case math.IsNaN(abs):
		body = "nan"
	}
	if fs.verb == 'F' || fs.verb == 'E' || fs.verb == 'G' {
		body = strings.ToUpper(body)
	}
	if fs.grouping != 0 {
		body = group(body, fs.grouping, 3)
	}
	return pad(signOf(negative, fs), body, fs), nil
}

func signOf(negative bool, fs formatSpec) string {
	switch {
	case negative:
		return "-"
	case fs.sign == '+':
		return "+"
	case fs.sign == ' ':
		return " "
	}
	return ""
}

// group inserts sep every size digits in the leading run of digits.
func group(body string, sep rune, size int) string {
	isGroupDigit := isDigit
	if size == 4 {
		isGroupDigit = isHexDigit
	}
	end := strings.IndexFunc(body, func(r rune) bool { return !isGroupDigit(r) })
	if end < 0 {
		end = len(body)
	}
	digits := body[:end]
	if len(digits) <= size {
		return body
	}
	var sb strings.Builder
	lead := len(digits) % size
	if lead > 0 {
		sb.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += size {
		if sb.Len() > 0 {
			sb.WriteRune(sep)
		}
		sb.WriteString(digits[i : i+size])
	}
	return sb.String() + body[end:]
}

// pad applies width, fill and alignment. Numbers default to right
// alignment; a 0 flag without explicit alignment pads after the sign.
func pad(sign, body string, fs formatSpec) string {
	fill := fs.fill
	align := fs.align
	if fs.zero && fill == 0 {
		fill = '0'
		if align == 0 {
			align = '='
		}
	}
	if fill == 0 {
		fill = ' '
	}
	if align == 0 {
		align = '>'
	}

	n := fs.width - utf8.RuneCountInString(sign) - utf8.RuneCountInString(body)
	if n <= 0 {
		return sign + body
	}
	padding := strings.Repeat(string(fill), n)
	switch align {
	case '<':
		return sign + body + padding
	case '^':
		left := strings.Repeat(string(fill), n/2)
		return left + sign + body + strings.Repeat(string(fill), n-n/2)
	case '=':
		return sign + padding + body
	}
	return padding + sign + body
}
