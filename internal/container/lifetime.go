package container

import "fmt"

// Lifetime specifies how a module instance is produced.
type Lifetime uint8

const (
	// Singleton modules are created once during Bootstrap and shared.
	Singleton Lifetime = iota

	// Factory modules are created by calling their factory each time one is needed.
	Factory
)

func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "Singleton"
	case Factory:
		return "Factory"
	default:
		return fmt.Sprintf("Unknown Lifetime %d", l)
	}
}
