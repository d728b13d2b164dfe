// Package preflight provides readiness checks for the binaries, credentials,
// and directories shortgen depends on.
//
// The CLI "shortgen doctor" command runs RunAll and prints the results. Online
// checks that contact the script provider only run when asked for.
package preflight
