// Package gates sequences build, vet, test, and audit commands against
// a project directory and reports per-gate pass/fail plus a JSON
// summary suitable for CI artifacts.
package gates
