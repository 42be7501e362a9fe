// internal/locking/hostname.go
package locking

import (
	"os"
	"sync"
)

const unknownHost = "unknown-host"

var hostname = sync.OnceValue(func() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return unknownHost
	}
	return name
})

// Hostname returns the local host identity, computed once per process. It is
// stored as the lock entry value for ownership inspection and plays no role
// in correctness.
func Hostname() string {
	return hostname()
}
