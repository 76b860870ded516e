// Package profile loads Vulkan Profile JSON documents and resolves them
// against a loaded registry: merging each profile's named capability
// fragments into one set of resolved capabilities, computing its
// compile-time requirements (API version + extension guards), and
// validating that every structure it references is actually reachable
// through those requirements.
package profile

import (
	"github.com/elliotchance/orderedmap/v3"

	"github.com/gogpu/vpgen/internal/value"
)

// Capabilities is the fully merged capability set of a profile: every
// fragment it names, combined via deep-merge (§4.3).
type Capabilities struct {
	Extensions         *orderedmap.OrderedMap[string, value.Value] // name -> specVersion
	InstanceExtensions *orderedmap.OrderedMap[string, value.Value]
	DeviceExtensions   *orderedmap.OrderedMap[string, value.Value]
	Features           value.Value // object: structName -> member values
	Properties         value.Value // object: structName -> member values
	Formats            value.Value // object: formatName -> member values
	QueueFamilies      []value.Value
	MemoryProperties   value.Value // object
}

// Fragment is a single named capability fragment as it appears under the
// profile file's top-level "capabilities" key.
type Fragment struct {
	Name string
	Data value.Value // object with optional extensions/features/properties/formats/queueFamiliesProperties/memoryProperties keys
}

// Profile is a fully resolved Vulkan Profile.
type Profile struct {
	Name         string
	Version      string // profile's own revision, e.g. "1"
	APIVersion   string // e.g. "1.3.204"
	Fallback     []string
	Requirements []string // guard macro names: the API version feature name, then each extension name
	Capabilities Capabilities
}
