// Command gauntlet orchestrates a project's compile, style-check, and
// test pipeline: it builds the packages, runs the configured checkers,
// invokes the unit tests with optional coverage and quick/network
// modes, and records run outcomes for later inspection.
package main

func main() {
	Execute()
}
