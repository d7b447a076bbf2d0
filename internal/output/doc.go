// Package output prints styled progress messages for the roost CLI.
//
// Messages are written to a package-level writer (stdout by default) so
// that commands can redirect them, for example when run under tests:
//
//	output.SetWriter(stdout)
//	output.Success("Applied enterprise-structure")
//	output.Action("CREATE", "src/app/core/core.ts", 1843)
//
// Styling:
//
//   - Success: 🪺 green bold
//   - Error: ❌ red bold
//   - Info: ℹ️ cyan
//   - Step: indented gray
//   - Verbose: 🔍 gray (when enabled)
//   - Action: colored verb (CREATE green, UPDATE cyan, SKIP gray) followed by path and size
package output
