// Package coreext imports every core extension so that each VM created
// afterward has their natives.
package coreext

import (
	// importing for side effects
	_ "github.com/zephyrtronium/mu/coreext/clock"
	_ "github.com/zephyrtronium/mu/coreext/path"
)
