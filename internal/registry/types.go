// Package registry loads a Khronos-style Vulkan API registry XML document
// into an in-memory model: platforms, versions, extensions, and structs,
// cross-linked so the profile resolver can answer "which version or
// extension defines this struct".
package registry

import (
	"github.com/elliotchance/orderedmap/v3"
)

// Platform is a named preprocessor guard a version or extension may be
// gated behind (e.g. "win32" guarded by "VK_USE_PLATFORM_WIN32_KHR").
type Platform struct {
	Name    string
	Protect string
}

// StructMember is one field of a Struct, carrying the limit-comparison
// semantics (§8 property 7) the code emitter uses to pick a predicate.
type StructMember struct {
	Name      string
	Type      string
	LimitType string // "", "IGNORE", "bitmask", "max", "min", "range", "noauto", "struct"
	IsArray   bool
}

// Struct is a Vulkan structure the registry knows about: its chainable
// sType (if any), what it extends, its ordered member table, the set of
// names it is also known by (itself plus any aliases), and the version or
// extensions that first introduced it.
type Struct struct {
	Name                string
	SType               string // empty if not chainable
	Extends             []string
	Members             *orderedmap.OrderedMap[string, *StructMember]
	Aliases             []string
	DefinedByVersion    string // "" if not defined by a core version
	DefinedByExtensions []string
}

// DefinitionScope is embedded by Version and Extension: both can declare
// sType aliases for structures whose chainable enumerant was renamed when
// the structure itself was promoted or aliased.
type DefinitionScope struct {
	STypeAliases map[string]string // baseSType -> aliasSType
}

// Version is a core API feature level, e.g. "1.2".
type Version struct {
	DefinitionScope
	Name   string // e.g. "VK_VERSION_1_2"
	Number string // e.g. "1.2"
}

// Extension is a registered Vulkan extension.
type Extension struct {
	DefinitionScope
	Name          string
	UpperCaseName string // the *_EXTENSION_NAME enum prefix, minus the suffix
	Type          string // "instance" or "device"
	Platform      string // platform name this extension is guarded by, if any
}

// Registry is the fully loaded and cross-linked model of a vk.xml document.
type Registry struct {
	Platforms  map[string]*Platform
	Versions   *orderedmap.OrderedMap[string, *Version]   // keyed by Number, insertion order = document order
	Extensions *orderedmap.OrderedMap[string, *Extension] // keyed by Name
	Structs    *orderedmap.OrderedMap[string, *Struct]     // keyed by Name
}
