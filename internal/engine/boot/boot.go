// Released under an MIT license. See LICENSE.

// Package boot provides the prelude evaluated by every new engine.
package boot

import _ "embed" // Blank import required by embed.

//go:embed boot.scm
var script string //nolint:gochecknoglobals

// Script returns the prelude.
func Script() string {
	return script
}
