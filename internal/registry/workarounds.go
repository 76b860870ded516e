package registry

// limitTypeFix corrects a single member's limittype annotation. vk.xml
// carries a handful of wrong or missing limittype values that can't be
// fixed in the registry itself without a Khronos-side change, so they are
// patched here instead, after the raw parse and before anything reads
// LimitType.
type limitTypeFix struct {
	structName string
	memberName string
	limitType  string
}

// knownLimitTypeFixes is the fixed correction table. Each entry documents
// what the "correct" semantic would be where it differs from what's
// applied, matching the upstream tooling's own inline notes.
var knownLimitTypeFixes = []limitTypeFix{
	{"VkPhysicalDeviceLimits", "bufferImageGranularity", "min"},           // should be maxalign
	{"VkPhysicalDeviceLimits", "subPixelPrecisionBits", "max"},
	{"VkPhysicalDeviceLimits", "subTexelPrecisionBits", "max"},
	{"VkPhysicalDeviceLimits", "mipmapPrecisionBits", "max"},
	{"VkPhysicalDeviceLimits", "viewportSubPixelBits", "max"},
	{"VkPhysicalDeviceLimits", "minMemoryMapAlignment", "max"},            // should be minalign
	{"VkPhysicalDeviceLimits", "minTexelBufferOffsetAlignment", "min"},    // should be maxalign
	{"VkPhysicalDeviceLimits", "minUniformBufferOffsetAlignment", "min"},  // should be maxalign
	{"VkPhysicalDeviceLimits", "minStorageBufferOffsetAlignment", "min"},  // should be maxalign
	{"VkPhysicalDeviceLimits", "subPixelInterpolationOffsetBits", "max"},
	{"VkPhysicalDeviceLimits", "timestampPeriod", "IGNORE"},
	{"VkPhysicalDeviceLimits", "nonCoherentAtomSize", "min"},              // should be maxalign
	{"VkPhysicalDeviceLimits", "maxColorAttachments", "max"},              // vk.xml says bitmask
	{"VkPhysicalDeviceLimits", "pointSizeGranularity", "min"},             // should be maxmul
	{"VkPhysicalDeviceLimits", "lineWidthGranularity", "min"},             // should be maxmul
	{"VkPhysicalDeviceVulkan11Properties", "subgroupSize", "IGNORE"},
	{"VkPhysicalDevicePortabilitySubsetPropertiesKHR", "minVertexInputBindingStrideAlignment", "min"}, // should be maxalign
}

// applyWorkarounds patches the fixed table above, then rewrites every
// member whose limittype is "bitmask" but whose type is "VkBool32" — such
// members are booleans misclassified as bitmasks in vk.xml, so they're
// remapped to "noauto" (equality compare) instead. The "VkBool32" string
// check is intentionally a literal match, not a type-system lookup: it is
// a behavior-preserving port of the same brittle check upstream, not a
// generalization of it.
func (r *Registry) applyWorkarounds() {
	for _, fix := range knownLimitTypeFixes {
		s, ok := r.Structs.Get(fix.structName)
		if !ok {
			continue
		}
		if m, ok := s.Members.Get(fix.memberName); ok {
			m.LimitType = fix.limitType
		}
	}

	for entry := r.Structs.Front(); entry != nil; entry = entry.Next() {
		for memberEntry := entry.Value.Members.Front(); memberEntry != nil; memberEntry = memberEntry.Next() {
			m := memberEntry.Value
			if m.LimitType == "bitmask" && m.Type == "VkBool32" {
				m.LimitType = "noauto"
			}
		}
	}
}
