package tool

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	ai "github.com/spetersoncode/codeagent"
)

// Validator is implemented by argument types that check themselves after
// decoding.
type Validator interface {
	Validate() error
}

// Func creates a tool from a typed function.
//
// When T is a struct, keyword arguments are decoded into its fields with
// mapstructure (field names match case-insensitively, or use a
// `mapstructure:"name"` tag) and positional arguments fill the exported
// fields in declaration order. Any other T takes exactly one argument.
// If T implements Validator it is validated before fn runs.
//
// Example:
//
//	type TranslateArgs struct {
//	    Text string `mapstructure:"text"`
//	    To   string `mapstructure:"to"`
//	}
//
//	translate := tool.Func("translates `text` into the language `to`",
//	    func(ctx context.Context, args TranslateArgs) (string, error) {
//	        return translator.Translate(ctx, args.Text, args.To)
//	    })
func Func[T, R any](description string, fn func(context.Context, T) (R, error)) ai.Tool {
	fields := fieldNames(reflect.TypeFor[T]())

	return ai.NewTool(description, func(ctx context.Context, args ai.Args) (any, error) {
		var input T
		if err := decode(args, fields, &input); err != nil {
			return nil, &ErrInvalidArguments{Err: err}
		}

		if v, ok := any(input).(Validator); ok {
			if err := v.Validate(); err != nil {
				return nil, &ErrInvalidArguments{Err: err}
			}
		}

		return fn(ctx, input)
	})
}

// fieldNames returns the argument name of each exported field of a struct
// type in declaration order, or nil for non-struct types.
func fieldNames(t reflect.Type) []string {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var names []string
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		switch name {
		case "-":
			continue
		case "":
			name = f.Name
		}
		names = append(names, name)
	}
	return names
}

func decode(args ai.Args, fields []string, out any) error {
	if fields == nil && !isStruct(out) {
		return decodeSingle(args, out)
	}

	if len(args.Positional) > len(fields) {
		return fmt.Errorf("takes %d positional arguments but %d were given", len(fields), len(args.Positional))
	}

	input := make(map[string]any, args.Len())
	for i, v := range args.Positional {
		input[fields[i]] = v
	}
	for k, v := range args.Keyword {
		for _, f := range fields[:len(args.Positional)] {
			if strings.EqualFold(f, k) {
				return fmt.Errorf("got multiple values for argument %q", k)
			}
		}
		input[k] = v
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

func decodeSingle(args ai.Args, out any) error {
	if args.Len() != 1 {
		return fmt.Errorf("takes exactly one argument but %d were given", args.Len())
	}
	var value any
	if len(args.Positional) == 1 {
		value = args.Positional[0]
	}
	for _, v := range args.Keyword {
		value = v
	}
	return mapstructure.Decode(value, out)
}

func isStruct(out any) bool {
	return reflect.TypeOf(out).Elem().Kind() == reflect.Struct
}
