package profile

import (
	"regexp"

	"github.com/elliotchance/orderedmap/v3"

	"github.com/gogpu/vpgen/internal/registry"
	"github.com/gogpu/vpgen/internal/value"
	"github.com/gogpu/vpgen/internal/vperrors"
)

var apiVersionRe = regexp.MustCompile(`^([1-9][0-9]*\.[0-9]+)[^0-9].*$`)

func resolveProfile(reg *registry.Registry, name string, data value.Value, fragments map[string]value.Value) (*Profile, error) {
	if data.Kind != value.KindObject {
		return nil, &vperrors.ParseError{Source: name, Reason: "profile entry is not a JSON object"}
	}

	p := &Profile{Name: name}

	if v, ok := data.Object.Get("version"); ok {
		p.Version = v.Scalar
	}
	if v, ok := data.Object.Get("api-version"); ok {
		p.APIVersion = v.Scalar
	}
	if v, ok := data.Object.Get("fallback"); ok {
		for _, fb := range v.List {
			p.Fallback = append(p.Fallback, fb.Scalar)
		}
	}

	capNames, ok := data.Object.Get("capabilities")
	if !ok {
		return nil, &vperrors.ParseError{Source: name, Reason: `profile is missing "capabilities"`}
	}

	caps, err := mergeCapabilities(reg, name, capNames, fragments)
	if err != nil {
		return nil, err
	}
	p.Capabilities = caps

	if err := collectRequirements(reg, p); err != nil {
		return nil, err
	}
	if err := validateStructDependencies(reg, p); err != nil {
		return nil, err
	}

	return p, nil
}

func mergeCapabilities(reg *registry.Registry, profileName string, capNames value.Value, fragments map[string]value.Value) (Capabilities, error) {
	caps := Capabilities{
		Extensions:         orderedmap.NewOrderedMap[string, value.Value](),
		InstanceExtensions: orderedmap.NewOrderedMap[string, value.Value](),
		DeviceExtensions:   orderedmap.NewOrderedMap[string, value.Value](),
		Features:           value.NewObject(),
		Properties:         value.NewObject(),
		Formats:            value.NewObject(),
		MemoryProperties:   value.NewObject(),
	}

	for _, nameVal := range capNames.List {
		fragName := nameVal.Scalar
		frag, ok := fragments[fragName]
		if !ok {
			return Capabilities{}, &vperrors.ProfileDependency{
				Profile: profileName,
				Subject: "capability " + fragName,
				Reason:  "missing from fragment pool",
			}
		}
		if err := mergeFragment(reg, profileName, &caps, frag); err != nil {
			return Capabilities{}, err
		}
	}

	return caps, nil
}

func mergeFragment(reg *registry.Registry, profileName string, caps *Capabilities, frag value.Value) error {
	if frag.Kind != value.KindObject {
		return &vperrors.ProfileConflict{Profile: profileName, Path: "capabilities", Reason: "fragment is not an object"}
	}

	if exts, ok := frag.Object.Get("extensions"); ok {
		for e := exts.Object.Front(); e != nil; e = e.Next() {
			extName, specVer := e.Key, e.Value
			extInfo, ok := reg.Extensions.Get(extName)
			if !ok {
				return &vperrors.ProfileDependency{Profile: profileName, Subject: "extension " + extName, Reason: "does not exist"}
			}
			caps.Extensions.Set(extName, specVer)
			switch extInfo.Type {
			case "instance":
				caps.InstanceExtensions.Set(extName, specVer)
			case "device":
				caps.DeviceExtensions.Set(extName, specVer)
			default:
				return &vperrors.RegistryConsistency{Subject: "extension " + extName, Reason: "invalid type " + extInfo.Type}
			}
		}
	}

	if v, ok := frag.Object.Get("features"); ok {
		if err := value.Merge(&caps.Features, v, profileName, "features"); err != nil {
			return err
		}
	}
	if v, ok := frag.Object.Get("properties"); ok {
		if err := value.Merge(&caps.Properties, v, profileName, "properties"); err != nil {
			return err
		}
	}
	if v, ok := frag.Object.Get("formats"); ok {
		if err := value.Merge(&caps.Formats, v, profileName, "formats"); err != nil {
			return err
		}
	}
	if v, ok := frag.Object.Get("queueFamiliesProperties"); ok {
		caps.QueueFamilies = append(caps.QueueFamilies, v.List...)
	}
	if v, ok := frag.Object.Get("memoryProperties"); ok {
		if err := value.Merge(&caps.MemoryProperties, v, profileName, "memoryProperties"); err != nil {
			return err
		}
	}

	return nil
}

// collectRequirements builds the compile-time guard list: the API
// version's feature name first, then every extension the profile's
// merged capabilities reference, in capability-merge order.
func collectRequirements(reg *registry.Registry, p *Profile) error {
	match := apiVersionRe.FindStringSubmatch(p.APIVersion)
	if match == nil {
		return &vperrors.ProfileDependency{Profile: p.Name, Subject: "api-version " + p.APIVersion, Reason: "invalid version number"}
	}
	ver, ok := reg.Versions.Get(match[1])
	if !ok {
		return &vperrors.ProfileDependency{Profile: p.Name, Subject: "version " + match[1], Reason: "not found in registry"}
	}
	p.Requirements = append(p.Requirements, ver.Name)

	for e := p.Capabilities.Extensions.Front(); e != nil; e = e.Next() {
		extName := e.Key
		if _, ok := reg.Extensions.Get(extName); !ok {
			return &vperrors.ProfileDependency{Profile: p.Name, Subject: "extension " + extName, Reason: "does not exist"}
		}
		p.Requirements = append(p.Requirements, extName)
	}

	return nil
}

// validateStructDependencies ensures every struct referenced by the
// profile's features/properties/queue-family/memory capabilities is
// actually reachable through the profile's own API version or one of its
// required extensions (§4.3, §8 property 6).
func validateStructDependencies(reg *registry.Registry, p *Profile) error {
	for e := p.Capabilities.Features.Object.Front(); e != nil; e = e.Next() {
		if err := validateStructDependency(reg, p, e.Key); err != nil {
			return err
		}
	}
	for e := p.Capabilities.Properties.Object.Front(); e != nil; e = e.Next() {
		if err := validateStructDependency(reg, p, e.Key); err != nil {
			return err
		}
	}
	for _, qf := range p.Capabilities.QueueFamilies {
		if qf.Kind != value.KindObject {
			continue
		}
		for e := qf.Object.Front(); e != nil; e = e.Next() {
			if err := validateStructDependency(reg, p, e.Key); err != nil {
				return err
			}
		}
	}
	for e := p.Capabilities.MemoryProperties.Object.Front(); e != nil; e = e.Next() {
		if err := validateStructDependency(reg, p, e.Key); err != nil {
			return err
		}
	}
	return nil
}

func validateStructDependency(reg *registry.Registry, p *Profile, structName string) error {
	structDef, ok := reg.Structs.Get(structName)
	if !ok {
		return &vperrors.ProfileDependency{Profile: p.Name, Subject: "struct " + structName, Reason: "does not exist in the registry"}
	}

	if structDef.DefinedByVersion != "" {
		if reachableByVersion(structDef.DefinedByVersion, p.APIVersion) {
			return nil
		}
	}
	for _, definedByExt := range structDef.DefinedByExtensions {
		if _, ok := p.Capabilities.Extensions.Get(definedByExt); ok {
			return nil
		}
	}

	return &vperrors.ProfileDependency{Profile: p.Name, Subject: "struct " + structName, Reason: "unexpected: not reachable by api-version or any required extension"}
}

// reachableByVersion reports whether a registry "X.Y" defining version is
// at or below the profile's "X.Y.Z" api-version, compared numerically via
// semver rather than the original's string-prefix comparison (Open
// Question 1).
func reachableByVersion(definedByVersion, apiVersion string) bool {
	dv, err1 := normalizedSemver(definedByVersion)
	av, err2 := normalizedSemver(apiVersion)
	if err1 != nil || err2 != nil {
		return false
	}
	return dv.Compare(av) <= 0
}
