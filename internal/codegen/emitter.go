// Package codegen synthesizes the three generated artifacts
// (vulkan_profiles.h, vulkan_profiles.hpp, vulkan_profiles.cpp) describing
// a resolved set of Vulkan Profiles, purely from an immutable registry and
// profile model. No hidden state is accumulated between the gen* helpers;
// each takes what it needs and returns a string.
package codegen

import (
	"bytes"
	"fmt"

	"github.com/elliotchance/orderedmap/v3"

	"github.com/gogpu/vpgen/internal/profile"
	"github.com/gogpu/vpgen/internal/registry"
)

// Options toggles emission of optional artifacts.
type Options struct {
	// IncludeMemoryTypes gates emission of the memory-type requirement
	// tables and vpGetProfileMemoryTypes. Default false, matching the
	// upstream tooling's own commented-out default (§9 Open Question 2).
	IncludeMemoryTypes bool
}

// Emitter synthesizes generated source from a fixed registry and profile
// set. It holds no per-call state; every method is a pure function of its
// arguments plus the fields captured at construction.
type Emitter struct {
	Registry *registry.Registry
	Profiles *orderedmap.OrderedMap[string, *profile.Profile]
	Options  Options
}

// New constructs an Emitter bound to reg and profiles.
func New(reg *registry.Registry, profiles *orderedmap.OrderedMap[string, *profile.Profile], opts Options) *Emitter {
	return &Emitter{Registry: reg, Profiles: profiles, Options: opts}
}

// EmitHeader produces the contents of vulkan_profiles.h.
func (e *Emitter) EmitHeader() (string, error) {
	var buf bytes.Buffer
	buf.WriteString(generatedBanner)
	buf.WriteString(hHeader)
	defs, err := e.genProfileDefs()
	if err != nil {
		return "", err
	}
	buf.WriteString(defs)
	buf.WriteString(apiDefs)
	buf.WriteString(hFooter)
	return buf.String(), nil
}

// EmitInlineHeader produces the contents of vulkan_profiles.hpp: the same
// declarations as the header, plus the full inline implementation body.
func (e *Emitter) EmitInlineHeader() (string, error) {
	var buf bytes.Buffer
	buf.WriteString(generatedBanner)
	buf.WriteString(hppHeader)

	defs, err := e.genProfileDefs()
	if err != nil {
		return "", err
	}
	buf.WriteString(defs)
	buf.WriteString(apiDefs)

	body, err := e.genImplementationBody()
	if err != nil {
		return "", err
	}
	buf.WriteString(body)

	buf.WriteString(hppFooter)
	return buf.String(), nil
}

// EmitImplementation produces the contents of vulkan_profiles.cpp: the
// same implementation body as the inline header, but as a standalone
// translation unit including the generated header instead of declaring it.
func (e *Emitter) EmitImplementation() (string, error) {
	var buf bytes.Buffer
	buf.WriteString(generatedBanner)
	buf.WriteString(cppHeader)

	body, err := e.genImplementationBody()
	if err != nil {
		return "", err
	}
	buf.WriteString(body)
	return buf.String(), nil
}

func (e *Emitter) genImplementationBody() (string, error) {
	var buf bytes.Buffer

	propLists, err := e.genStructPropLists()
	if err != nil {
		return "", err
	}
	buf.WriteString(propLists)

	buf.WriteString(e.genFormatLists())

	if e.Options.IncludeMemoryTypes {
		buf.WriteString(e.genMemoryTypeLists())
	}

	buf.WriteString(e.genQueueFamilyLists())

	privateImpl, err := e.genPrivateImpl()
	if err != nil {
		return "", err
	}
	buf.WriteString(privateImpl)

	publicImpl, err := e.genPublicImpl()
	if err != nil {
		return "", err
	}
	buf.WriteString(publicImpl)

	return buf.String(), nil
}

// genProfileDefs emits the #define prerequisite block for every profile:
// a guarded #if defined(...) chain over its requirements, then the four
// fixed macros (enable flag, name, spec version, min API version).
func (e *Emitter) genProfileDefs() (string, error) {
	var buf bytes.Buffer
	for entry := e.Profiles.Front(); entry != nil; entry = entry.Next() {
		name, p := entry.Key, entry.Value
		uname := upper(name)
		buf.WriteString("\n")

		if len(p.Requirements) > 0 {
			for i, req := range p.Requirements {
				if i == 0 {
					buf.WriteString("#if ")
				} else {
					buf.WriteString("    ")
				}
				fmt.Fprintf(&buf, "defined(%s)", req)
				if i < len(p.Requirements)-1 {
					buf.WriteString(" && \\\n")
				} else {
					buf.WriteString("\n")
				}
			}
		}

		fmt.Fprintf(&buf, "#define %s 1\n", name)
		fmt.Fprintf(&buf, "#define %s_NAME \"%s\"\n", uname, name)
		fmt.Fprintf(&buf, "#define %s_SPEC_VERSION %s\n", uname, p.Version)
		triple, err := vkMakeVersionArgs(p.APIVersion)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&buf, "#define %s_MIN_API_VERSION VK_MAKE_VERSION(%s)\n", uname, triple)

		if len(p.Requirements) > 0 {
			buf.WriteString("#endif\n")
		}
	}
	return buf.String(), nil
}
