// Package roost scaffolds an enterprise folder layout, core providers,
// guards, interceptors and environment configuration into Angular
// workspaces.
package roost

// Version is the current roost release.
const Version = "0.1.0"
