package codegen

import (
	"strings"
	"testing"

	"github.com/elliotchance/orderedmap/v3"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/vpgen/internal/profile"
	"github.com/gogpu/vpgen/internal/registry"
	"github.com/gogpu/vpgen/internal/value"
)

func decodeVal(t *testing.T, s string) value.Value {
	t.Helper()
	v, err := value.Decode(strings.NewReader(s), "test")
	require.NoError(t, err)
	return v
}

func baselineRegistry() *registry.Registry {
	reg := &registry.Registry{
		Platforms:  map[string]*registry.Platform{},
		Versions:   orderedmap.NewOrderedMap[string, *registry.Version](),
		Extensions: orderedmap.NewOrderedMap[string, *registry.Extension](),
		Structs:    orderedmap.NewOrderedMap[string, *registry.Struct](),
	}
	reg.Versions.Set("1.2", &registry.Version{Name: "VK_VERSION_1_2", Number: "1.2"})

	features2 := &registry.Struct{
		Name:  "VkPhysicalDeviceFeatures2",
		SType: "VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_FEATURES_2",
	}
	reg.Structs.Set("VkPhysicalDeviceFeatures2", features2)

	features := &registry.Struct{
		Name:    "VkPhysicalDeviceFeatures",
		Extends: []string{"VkPhysicalDeviceFeatures2"},
		Members: orderedmap.NewOrderedMap[string, *registry.StructMember](),
	}
	features.Members.Set("geometryShader", &registry.StructMember{Name: "geometryShader", Type: "VkBool32"})
	features.Members.Set("tessellationShader", &registry.StructMember{Name: "tessellationShader", Type: "VkBool32"})
	reg.Structs.Set("VkPhysicalDeviceFeatures", features)

	limits := &registry.Struct{
		Name:    "VkPhysicalDeviceLimits",
		Members: orderedmap.NewOrderedMap[string, *registry.StructMember](),
	}
	limits.Members.Set("pointSizeRange", &registry.StructMember{Name: "pointSizeRange", Type: "float", LimitType: "range", IsArray: true})
	reg.Structs.Set("VkPhysicalDeviceLimits", limits)

	props2 := &registry.Struct{
		Name:  "VkPhysicalDeviceProperties2",
		SType: "VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_PROPERTIES_2",
	}
	reg.Structs.Set("VkPhysicalDeviceProperties2", props2)

	return reg
}

func newProfile(name, apiVersion string) *profile.Profile {
	return &profile.Profile{
		Name:         name,
		Version:      "1",
		APIVersion:   apiVersion,
		Requirements: []string{"VK_VERSION_1_2"},
		Capabilities: profile.Capabilities{
			Extensions:         orderedmap.NewOrderedMap[string, value.Value](),
			InstanceExtensions: orderedmap.NewOrderedMap[string, value.Value](),
			DeviceExtensions:   orderedmap.NewOrderedMap[string, value.Value](),
			Features:           value.NewObject(),
			Properties:         value.NewObject(),
			Formats:            value.NewObject(),
			MemoryProperties:   value.NewObject(),
		},
	}
}

// S1: api-version "1.2.0" and no extensions produces a header whose guard
// is "#if defined(VK_VERSION_1_2)" and a VK_MAKE_VERSION(1, 2, 0) macro.
func TestScenarioS1HeaderGuardAndVersion(t *testing.T) {
	reg := baselineRegistry()
	p := newProfile("VP_TEST_baseline", "1.2.0")
	profiles := orderedmap.NewOrderedMap[string, *profile.Profile]()
	profiles.Set(p.Name, p)

	e := New(reg, profiles, Options{})
	header, err := e.EmitHeader()
	require.NoError(t, err)

	require.True(t, strings.Contains(header, "#if defined(VK_VERSION_1_2)"))
	require.True(t, strings.Contains(header, "VP_TEST_BASELINE_MIN_API_VERSION VK_MAKE_VERSION(1, 2, 0)"))
}

// S2 (emission side): a VkPhysicalDeviceFeatures capability holding both
// members, as merging two fragments leaves it, emits an assignment for each
// member. The merge itself is covered by the profile and value tests.
func TestScenarioS2MergedFeatureAssignment(t *testing.T) {
	reg := baselineRegistry()
	p := newProfile("VP_TEST_merge", "1.2.0")
	p.Capabilities.Features = decodeVal(t, `{"VkPhysicalDeviceFeatures": {"geometryShader": true, "tessellationShader": true}}`)
	profiles := orderedmap.NewOrderedMap[string, *profile.Profile]()
	profiles.Set(p.Name, p)

	e := New(reg, profiles, Options{})
	impl, err := e.EmitImplementation()
	require.NoError(t, err)

	require.True(t, strings.Contains(impl, "features->geometryShader = VK_TRUE;"))
	require.True(t, strings.Contains(impl, "features->tessellationShader = VK_TRUE;"))
}

// S4: a range-limittype array member emits the two-predicate pair against
// indices [0] and [1].
func TestScenarioS4RangeComparisonPair(t *testing.T) {
	reg := baselineRegistry()
	structDef, _ := reg.Structs.Get("VkPhysicalDeviceLimits")
	values := decodeVal(t, `{"pointSizeRange": [1.0, 64.0]}`)

	e := New(reg, orderedmap.NewOrderedMap[string, *profile.Profile](), Options{})
	out, err := e.genCompare("%s\n", structDef, "d.", "p.", values)
	require.NoError(t, err)

	require.True(t, strings.Contains(out, "(d.pointSizeRange[0] <= p.pointSizeRange[0])"))
	require.True(t, strings.Contains(out, "(d.pointSizeRange[1] >= p.pointSizeRange[1])"))
}

// A profile referencing two distinct feature structs must declare a
// chained device/profile variable pair per struct, not just compare
// everything against the base VkPhysicalDeviceFeatures2.
func TestScenarioFeatureSupportCheckChainsMultipleStructs(t *testing.T) {
	reg := baselineRegistry()
	vulkan11 := &registry.Struct{
		Name:    "VkPhysicalDeviceVulkan11Features",
		SType:   "VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_VULKAN_1_1_FEATURES",
		Extends: []string{"VkPhysicalDeviceFeatures2"},
		Members: orderedmap.NewOrderedMap[string, *registry.StructMember](),
	}
	vulkan11.Members.Set("multiview", &registry.StructMember{Name: "multiview", Type: "VkBool32"})
	reg.Structs.Set("VkPhysicalDeviceVulkan11Features", vulkan11)

	p := newProfile("VP_TEST_chain", "1.2.0")
	p.Capabilities.Features = decodeVal(t, `{
		"VkPhysicalDeviceFeatures": {"geometryShader": true},
		"VkPhysicalDeviceVulkan11Features": {"multiview": true}
	}`)

	e := New(reg, orderedmap.NewOrderedMap[string, *profile.Profile](), Options{})
	out, err := e.genFeatureSupportCheck(p)
	require.NoError(t, err)

	require.True(t, strings.Contains(out, "VkPhysicalDeviceFeatures2 devicePhysicalDeviceFeatures2{ VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_FEATURES_2 };"))
	require.True(t, strings.Contains(out, "VkPhysicalDeviceVulkan11Features devicePhysicalDeviceVulkan11Features{ VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_VULKAN_1_1_FEATURES };"))
	require.True(t, strings.Contains(out, "devicePhysicalDeviceFeatures2.pNext = &devicePhysicalDeviceVulkan11Features;"))

	require.True(t, strings.Contains(out, "VkPhysicalDeviceFeatures2 profilePhysicalDeviceFeatures2{ VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_FEATURES_2 };"))
	require.True(t, strings.Contains(out, "VkPhysicalDeviceVulkan11Features profilePhysicalDeviceVulkan11Features{ VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_VULKAN_1_1_FEATURES };"))
	require.True(t, strings.Contains(out, "profilePhysicalDeviceVulkan11Features.pNext = &profilePhysicalDeviceFeatures2;"))

	require.True(t, strings.Contains(out, "vkGetPhysicalDeviceFeatures2(physicalDevice, &devicePhysicalDeviceFeatures2);"))
	require.True(t, strings.Contains(out, "vpGetProfileStructures(pProfile, &profilePhysicalDeviceVulkan11Features);"))

	require.True(t, strings.Contains(out, "(devicePhysicalDeviceFeatures2.features.geometryShader == profilePhysicalDeviceFeatures2.features.geometryShader)"))
	require.True(t, strings.Contains(out, "(devicePhysicalDeviceVulkan11Features.multiview == profilePhysicalDeviceVulkan11Features.multiview)"))
}

// Property 7: the comparison predicate mapping table.
func TestComparisonPredicateMapping(t *testing.T) {
	reg := &registry.Registry{Structs: orderedmap.NewOrderedMap[string, *registry.Struct]()}
	s := &registry.Struct{Name: "Synthetic", Members: orderedmap.NewOrderedMap[string, *registry.StructMember]()}
	s.Members.Set("mBitmask", &registry.StructMember{Name: "mBitmask", LimitType: "bitmask"})
	s.Members.Set("mMax", &registry.StructMember{Name: "mMax", LimitType: "max"})
	s.Members.Set("mMin", &registry.StructMember{Name: "mMin", LimitType: "min"})
	s.Members.Set("mRange", &registry.StructMember{Name: "mRange", LimitType: "range", IsArray: true})
	s.Members.Set("mEq", &registry.StructMember{Name: "mEq", LimitType: "noauto"})
	s.Members.Set("mIgnore", &registry.StructMember{Name: "mIgnore", LimitType: "IGNORE"})
	reg.Structs.Set("Synthetic", s)

	values := decodeVal(t, `{"mBitmask": 1, "mMax": 2, "mMin": 3, "mRange": [4, 5], "mEq": 6, "mIgnore": 7}`)

	e := New(reg, orderedmap.NewOrderedMap[string, *profile.Profile](), Options{})
	out, err := e.genCompare("%s\n", s, "d.", "p.", values)
	require.NoError(t, err)

	for _, want := range []string{
		"((d.mBitmask & p.mBitmask) == p.mBitmask)",
		"(d.mMax >= p.mMax)",
		"(d.mMin <= p.mMin)",
		"(d.mRange[0] <= p.mRange[0])",
		"(d.mRange[1] >= p.mRange[1])",
		"(d.mEq == p.mEq)",
	} {
		require.True(t, strings.Contains(out, want), "missing predicate %q in:\n%s", want, out)
	}
	require.False(t, strings.Contains(out, "mIgnore"))
}

// Property 1: determinism — emitting twice from the same inputs yields
// byte-identical output.
func TestEmitIsDeterministic(t *testing.T) {
	reg := baselineRegistry()
	p := newProfile("VP_TEST_determinism", "1.2.0")
	p.Capabilities.Features = decodeVal(t, `{"VkPhysicalDeviceFeatures": {"geometryShader": true}}`)
	profiles := orderedmap.NewOrderedMap[string, *profile.Profile]()
	profiles.Set(p.Name, p)

	e1 := New(reg, profiles, Options{})
	out1, err := e1.EmitImplementation()
	require.NoError(t, err)

	e2 := New(reg, profiles, Options{})
	out2, err := e2.EmitImplementation()
	require.NoError(t, err)

	if diff := cmp.Diff(out1, out2); diff != "" {
		t.Fatalf("emission not deterministic (-first +second):\n%s", diff)
	}
}
