// Package gauntlet exposes build-level metadata shared by the CLI and
// the magefiles.
package gauntlet

// Version is the gauntlet release version.
const Version = "0.3.0"
