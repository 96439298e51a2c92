/*

	Mnemonic:	logging
	Abstract:	Package level log sink for the simulation. One bleater (sheep) per
				actor role, all chained under a root sheep so that a single
				verbosity knob affects every role the way tegu's gizmos/init.go
				chains the object package's sheep under main's.

	Date:		29 July 2026
*/

package logging

import (
	"os"
	"sync"

	"github.com/att/gopkgs/bleater"
)

// Role tags named by spec section 6.
const (
	PortManager     = "PORT_MANAGER"
	FerryManager    = "FERRY_MANAGER"
	Passenger       = "PASSENGER"
	SecurityManager = "SECURITY_MANAGER"
)

var (
	once     sync.Once
	root     *bleater.Bleater
	level    uint
	children = map[string]*bleater.Bleater{}
	mu       sync.Mutex
)

// Init allocates the root sheep. Safe to call more than once; only the
// first call takes effect, matching the package-init idiom gizmos used.
func Init(v uint) {
	once.Do(func() {
		level = v
		root = bleater.Mk_bleater(level, os.Stderr)
		root.Set_prefix("ferrysim")
	})
}

// For returns (creating if necessary) the sheep for a given role, attached
// as a child of root so Set_level on root cascades to every role.
func For(role string) *bleater.Bleater {
	mu.Lock()
	defer mu.Unlock()

	if root == nil {
		Init(1)
	}

	sheep, ok := children[role]
	if !ok {
		sheep = bleater.Mk_bleater(level, os.Stderr)
		sheep.Set_prefix(role)
		root.Add_child(sheep)
		children[role] = sheep
	}
	return sheep
}

// SetLevel adjusts the root verbosity; cascades to every role sheep
// already handed out via For.
func SetLevel(v uint) {
	mu.Lock()
	defer mu.Unlock()
	level = v
	if root == nil {
		return
	}
	root.Set_level(v)
	for _, sheep := range children {
		sheep.Set_level(v)
	}
}

// Log is the core's synchronous log sink contract from spec section 6:
// log(role, id, formatted_message). It is advisory; failures are not
// possible since bleater only ever writes to os.Stderr.
func Log(role string, id string, level uint, format string, args ...interface{}) {
	sheep := For(role)
	if id != "" {
		format = "[" + id + "] " + format
	}
	sheep.Baa(level, format, args...)
}
