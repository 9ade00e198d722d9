// Package tool builds tools that generated code can call.
//
// Generated code calls a tool as tool_i(...) with positional and keyword
// arguments. Func turns a typed Go function into such a tool by decoding
// those arguments into a struct:
//
//	type SearchArgs struct {
//	    Query string `mapstructure:"query"`
//	    Limit int    `mapstructure:"limit"`
//	}
//
//	search := tool.Func("searches the web for `query` and returns up to `limit` result titles",
//	    func(ctx context.Context, args SearchArgs) ([]string, error) {
//	        return index.Search(ctx, args.Query, args.Limit)
//	    })
//
// Both search(query="go", limit=3) and search("go", 3) reach the function
// with the same SearchArgs.
//
// # Tool Sets
//
// A Set keeps tools in the order they are exposed to the model:
//
//	tools := tool.NewSet(search, tool.ReadFile(tool.WithBasePath("docs")))
//	result, err := agent.Perform(ctx, task, tools.Tools(), nil)
//
// # Built-in Tools
//
//   - HTTPGet fetches a URL, with host allow and block lists, a size limit and a timeout.
//   - ReadFile reads a text file confined to a base path, with an extension allow list.
package tool
