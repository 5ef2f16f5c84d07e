// Package preflight provides readiness checks for the directories, binaries
// and endpoints a queue run depends on.
//
// The CLI "lotoqueue doctor" command runs RunAll and prints each result;
// "lotoqueue run" does not call it, since store failures already surface as
// startup errors.
package preflight
