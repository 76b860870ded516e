package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const fixtureXML = `<?xml version="1.0" encoding="UTF-8"?>
<registry>
  <platforms>
    <platform name="win32" protect="VK_USE_PLATFORM_WIN32_KHR"/>
  </platforms>
  <types>
    <type category="struct" name="VkPhysicalDeviceFeatures2" structextends="">
      <member values="VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_FEATURES_2"><type>VkStructureType</type><name>sType</name></member>
      <member><type>void</type><name>pNext</name></member>
      <member><type>VkPhysicalDeviceFeatures</type><name>features</name></member>
    </type>
    <type category="struct" name="VkPhysicalDeviceFeatures">
      <member><type>VkBool32</type><name>geometryShader</name></member>
      <member><type>VkBool32</type><name>tessellationShader</name></member>
    </type>
    <type category="struct" name="VkPhysicalDeviceLimits">
      <member limittype="bitmask"><type>VkBool32</type><name>strictLines</name></member>
      <member limittype="min"><type>float</type><name>pointSizeRange</name>[2]</member>
    </type>
    <type category="struct" name="VkPhysicalDeviceMaintenance3Properties" structextends="VkPhysicalDeviceProperties2">
      <member values="VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_MAINTENANCE_3_PROPERTIES"><type>VkStructureType</type><name>sType</name></member>
      <member><type>void</type><name>pNext</name></member>
      <member><type>uint32_t</type><name>maxPerSetDescriptors</name></member>
    </type>
    <type category="struct" name="VkPhysicalDeviceMaintenance4Properties" alias="VkPhysicalDeviceMaintenance3Properties"/>
  </types>
  <feature name="VK_VERSION_1_1" number="1.1">
    <require>
      <type name="VkPhysicalDeviceMaintenance3Properties"/>
    </require>
  </feature>
  <feature name="VK_VERSION_1_3" number="1.3">
    <require>
      <type name="VkPhysicalDeviceMaintenance4Properties"/>
      <enum name="VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_MAINTENANCE_4_PROPERTIES" alias="VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_MAINTENANCE_3_PROPERTIES"/>
    </require>
  </feature>
  <extensions>
    <extension name="VK_KHR_surface" type="instance" supported="vulkan">
      <require>
        <enum name="VK_KHR_SURFACE_SPEC_VERSION" value="25"/>
        <enum name="VK_KHR_SURFACE_NAME_STRING" value="&quot;VK_KHR_surface&quot;"/>
        <enum name="VK_KHR_SURFACE_EXTENSION_NAME" value="&quot;VK_KHR_surface&quot;"/>
      </require>
    </extension>
    <extension name="VK_EXT_NOT_SUPPORTED" type="instance" supported="disabled">
      <require>
        <enum name="VK_EXT_NOT_SUPPORTED_EXTENSION_NAME" value="&quot;VK_EXT_NOT_SUPPORTED&quot;"/>
      </require>
    </extension>
  </extensions>
</registry>
`

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "vk.xml")
	require.NoError(t, os.WriteFile(path, []byte(fixtureXML), 0o644))
	return path
}

func TestLoadParsesPlatformsVersionsExtensionsStructs(t *testing.T) {
	reg, err := Load(writeFixture(t), nil)
	require.NoError(t, err)

	require.Contains(t, reg.Platforms, "win32")
	require.Equal(t, "VK_USE_PLATFORM_WIN32_KHR", reg.Platforms["win32"].Protect)

	_, ok := reg.Versions.Get("1.1")
	require.True(t, ok)
	_, ok = reg.Versions.Get("1.3")
	require.True(t, ok)

	ext, ok := reg.Extensions.Get("VK_KHR_surface")
	require.True(t, ok)
	require.Equal(t, "VK_KHR_SURFACE", ext.UpperCaseName)
	require.Equal(t, "instance", ext.Type)

	_, ok = reg.Extensions.Get("VK_EXT_NOT_SUPPORTED")
	require.False(t, ok, "extensions with supported!=vulkan must be skipped")
}

// findExtensionNameEnum must require both the quoted literal match and the
// _EXTENSION_NAME suffix, never just the first enum in the require block.
func TestFindExtensionNameEnumQuirk(t *testing.T) {
	reg, err := Load(writeFixture(t), nil)
	require.NoError(t, err)

	ext, ok := reg.Extensions.Get("VK_KHR_surface")
	require.True(t, ok)
	require.Equal(t, "VK_KHR_SURFACE", ext.UpperCaseName)
}

// Property 4: alias closure — an aliased struct inherits the base struct's
// members, extends list, and resolved sType, walking the alias chain through
// the defining-version's STypeAliases table.
func TestAliasClosureResolvesSTypeAndMembers(t *testing.T) {
	reg, err := Load(writeFixture(t), nil)
	require.NoError(t, err)

	aliasDef, ok := reg.Structs.Get("VkPhysicalDeviceMaintenance4Properties")
	require.True(t, ok)

	require.Equal(t, "VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_MAINTENANCE_4_PROPERTIES", aliasDef.SType)
	require.Contains(t, aliasDef.Extends, "VkPhysicalDeviceProperties2")

	base, ok := reg.Structs.Get("VkPhysicalDeviceMaintenance3Properties")
	require.True(t, ok)
	_, hasMember := aliasDef.Members.Get("maxPerSetDescriptors")
	require.True(t, hasMember)
	require.Same(t, base.Members, aliasDef.Members)
}

// Array-tail detection: a member whose <name> is followed by a literal
// "[N]" tail is flagged IsArray, independent of its limittype.
func TestArrayTailDetection(t *testing.T) {
	reg, err := Load(writeFixture(t), nil)
	require.NoError(t, err)

	limits, ok := reg.Structs.Get("VkPhysicalDeviceLimits")
	require.True(t, ok)

	m, ok := limits.Members.Get("pointSizeRange")
	require.True(t, ok)
	require.True(t, m.IsArray)

	m2, ok := limits.Members.Get("strictLines")
	require.True(t, ok)
	require.False(t, m2.IsArray)
}

// Property 5 / 8: workarounds are idempotent and rewrite every
// bitmask+VkBool32 member to noauto, on top of the fixed correction table.
func TestApplyWorkaroundsIsIdempotentAndRewritesBoolBitmasks(t *testing.T) {
	reg, err := Load(writeFixture(t), nil)
	require.NoError(t, err)

	limits, ok := reg.Structs.Get("VkPhysicalDeviceLimits")
	require.True(t, ok)

	m, ok := limits.Members.Get("strictLines")
	require.True(t, ok)
	require.Equal(t, "noauto", m.LimitType)

	rangeM, ok := limits.Members.Get("pointSizeRange")
	require.True(t, ok)
	require.Equal(t, "min", rangeM.LimitType)

	reg.applyWorkarounds()
	m2, _ := limits.Members.Get("strictLines")
	require.Equal(t, "noauto", m2.LimitType)
}

func TestLoadRejectsUnreadableFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.xml"), nil)
	require.Error(t, err)
}
