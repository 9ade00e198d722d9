package interp

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	ai "github.com/spetersoncode/codeagent"
)

// Print returns the print binding: positional arguments are rendered with
// Str, joined by sep and followed by end, then written to w.
func Print(w io.Writer) ai.Callable {
	return func(_ context.Context, args ai.Args) (any, error) {
		sep, end := " ", "\n"
		for name, value := range args.Keyword {
			switch name {
			case "sep", "end":
				if value == nil {
					continue
				}
				s, ok := value.(string)
				if !ok {
					return nil, &CodeError{Message: fmt.Sprintf("TypeError: %s must be None or a string, not %s", name, TypeName(value))}
				}
				if name == "sep" {
					sep = s
				} else {
					end = s
				}
			case "flush":
			default:
				return nil, &CodeError{Message: fmt.Sprintf("TypeError: '%s' is an invalid keyword argument for print()", name)}
			}
		}

		parts := lo.Map(args.Positional, func(v any, _ int) string { return Str(v) })
		if _, err := io.WriteString(w, strings.Join(parts, sep)+end); err != nil {
			return nil, fmt.Errorf("print: %w", err)
		}
		return nil, nil
	}
}
