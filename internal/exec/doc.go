// Package exec runs external commands (package managers) for roost.
//
// Commands honor context cancellation and can show a spinner while they
// run. The command constructor is swappable so tests can substitute a
// helper process:
//
//	e := exec.NewExecutor(&exec.Options{Dir: projectRoot})
//	err := e.RunWithSpinner(ctx, "Installing @ngrx/store", "npm", "install", "@ngrx/store")
package exec
