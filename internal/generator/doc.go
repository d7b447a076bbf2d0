// Package generator provides the file operations roost commits to disk,
// conflict resolution for files it replaces, diffs and template rendering.
//
// # Operations
//
// Every change to the project is an Operation over a billy filesystem.
// Execute validates all of them before touching anything, then runs them
// inside a Transaction:
//
//	ops := []generator.Operation{
//	    &generator.MkdirOp{FS: fs, Path: "src/app/ui"},
//	    &generator.WriteFileOp{FS: fs, Path: "src/app/core/core.ts", Content: src, Mode: 0644},
//	}
//	if err := generator.Execute(ctx, ops, generator.ExecuteOptions{}); err != nil {
//	    // operations already executed have been undone
//	    return err
//	}
//
// # Templates
//
// Templates use <% and %> as delimiters so Angular interpolation ({{ }})
// passes through untouched.
package generator
