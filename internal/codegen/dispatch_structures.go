package codegen

import (
	"bytes"
	"fmt"
)

// genVpGetProfileStructures emits the pNext-chain walker that materializes
// a profile's required feature/property values into whatever chainable
// structures the caller has linked in.
func (e *Emitter) genVpGetProfileStructures() (string, error) {
	var buf bytes.Buffer
	buf.WriteString("\nVPAPI_ATTR void vpGetProfileStructures(const VpProfileProperties *pProfile, void *pNext) {\n")
	buf.WriteString("    if (pProfile == nullptr || pNext == nullptr) return;\n")
	buf.WriteString("    VkBaseOutStructure* p = static_cast<VkBaseOutStructure*>(pNext);\n")

	for entry := e.Profiles.Front(); entry != nil; entry = entry.Next() {
		name, p := entry.Key, entry.Value
		uname := upper(name)
		fmt.Fprintf(&buf, "#ifdef %s\n    if (strcmp(pProfile->profileName, %s_NAME) == 0) {\n        while (p != nullptr) {\n            switch (p->sType) {\n", name, uname)

		for fe := p.Capabilities.Features.Object.Front(); fe != nil; fe = fe.Next() {
			structName, values := fe.Key, fe.Value
			lookup := structName
			if structName == "VkPhysicalDeviceFeatures" {
				buf.WriteString("                case VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_FEATURES_2: {\n")
				buf.WriteString("                    VkPhysicalDeviceFeatures2* wrap = reinterpret_cast<VkPhysicalDeviceFeatures2*>(p);\n")
				buf.WriteString("                    VkPhysicalDeviceFeatures* features = &wrap->features;\n")
			} else {
				structDef, ok := e.Registry.Structs.Get(lookup)
				if !ok {
					return "", notFoundErr(lookup)
				}
				fmt.Fprintf(&buf, "                case %s: {\n", structDef.SType)
				fmt.Fprintf(&buf, "                    %s* features = reinterpret_cast<%s*>(p);\n", structName, structName)
			}
			structDef, ok := e.Registry.Structs.Get(lookup)
			if !ok {
				return "", notFoundErr(lookup)
			}
			assign, err := e.genAssign(structDef, "                    features->", values)
			if err != nil {
				return "", err
			}
			buf.WriteString(assign)
			buf.WriteString("                } break;\n")
		}

		for pe := p.Capabilities.Properties.Object.Front(); pe != nil; pe = pe.Next() {
			structName, values := pe.Key, pe.Value
			lookup := structName
			if structName == "VkPhysicalDeviceProperties" {
				buf.WriteString("                case VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_PROPERTIES_2: {\n")
				buf.WriteString("                    VkPhysicalDeviceProperties2* wrap = reinterpret_cast<VkPhysicalDeviceProperties2*>(p);\n")
				buf.WriteString("                    VkPhysicalDeviceProperties* props = &wrap->properties;\n")
			} else {
				structDef, ok := e.Registry.Structs.Get(lookup)
				if !ok {
					return "", notFoundErr(lookup)
				}
				fmt.Fprintf(&buf, "                case %s: {\n", structDef.SType)
				fmt.Fprintf(&buf, "                    %s* props = reinterpret_cast<%s*>(p);\n", structName, structName)
			}
			structDef, ok := e.Registry.Structs.Get(lookup)
			if !ok {
				return "", notFoundErr(lookup)
			}
			assign, err := e.genAssign(structDef, "                    props->", values)
			if err != nil {
				return "", err
			}
			buf.WriteString(assign)
			buf.WriteString("                } break;\n")
		}

		buf.WriteString("                default: break;\n            }\n            p = p->pNext;\n        }\n    } else\n#endif\n")
	}

	buf.WriteString("    {\n        return;\n    }\n}\n")
	return buf.String(), nil
}

// genVpGetProfileStructureProperties emits the accessor returning the
// static VpStructureProperties array built by genStructPropLists.
func (e *Emitter) genVpGetProfileStructureProperties() string {
	var buf bytes.Buffer
	buf.WriteString("\nVPAPI_ATTR VkResult vpGetProfileStructureProperties(const VpProfileProperties *pProfile, uint32_t *pPropertyCount,\n                                                    VpStructureProperties *pProperties) {\n    VkResult result = VK_SUCCESS;\n")

	for entry := e.Profiles.Front(); entry != nil; entry = entry.Next() {
		name, p := entry.Key, entry.Value
		if p.Capabilities.Features.Object.Len() == 0 && p.Capabilities.Properties.Object.Len() == 0 {
			continue
		}
		uname := upper(name)
		fmt.Fprintf(&buf, "#ifdef %s\n    if (strcmp(pProfile->profileName, %s_NAME) == 0) {\n        result = _vpArrayCopy(_%s_STRUCTURE_PROPERTIES, pPropertyCount, pProperties);\n    } else\n#endif\n",
			name, uname, uname)
	}

	buf.WriteString("    {\n        *pPropertyCount = 0;\n    }\n    return result;\n}\n")
	return buf.String()
}

// genVpGetProfileFormats emits the accessor returning the list of format
// names a profile requires.
func (e *Emitter) genVpGetProfileFormats() string {
	var buf bytes.Buffer
	buf.WriteString("\nVPAPI_ATTR VkResult vpGetProfileFormats(const VpProfileProperties *pProfile, uint32_t *pFormatCount, VkFormat *pFormats) {\n    VkResult result = VK_SUCCESS;\n")

	for entry := e.Profiles.Front(); entry != nil; entry = entry.Next() {
		name, p := entry.Key, entry.Value
		if p.Capabilities.Formats.Object.Len() == 0 {
			continue
		}
		uname := upper(name)
		fmt.Fprintf(&buf, "#ifdef %s\n    if (strcmp(pProfile->profileName, %s_NAME) == 0) {\n        result = _vpArrayCopyFormats(_%s_FORMATS, pFormatCount, pFormats);\n    } else\n#endif\n",
			name, uname, uname)
	}

	buf.WriteString("    {\n        *pFormatCount = 0;\n    }\n    return result;\n}\n")
	return buf.String()
}

// genVpGetProfileFormatProperties emits the accessor that fills the
// caller's pNext chain with the requirements of a single format.
func (e *Emitter) genVpGetProfileFormatProperties() string {
	var buf bytes.Buffer
	buf.WriteString("\nVPAPI_ATTR void vpGetProfileFormatProperties(const VpProfileProperties *pProfile, VkFormat format, void *pNext) {\n")
	buf.WriteString("    if (pProfile == nullptr || pNext == nullptr) return;\n")

	for entry := e.Profiles.Front(); entry != nil; entry = entry.Next() {
		name, p := entry.Key, entry.Value
		if p.Capabilities.Formats.Object.Len() == 0 {
			continue
		}
		uname := upper(name)
		fmt.Fprintf(&buf, "#ifdef %s\n    if (strcmp(pProfile->profileName, %s_NAME) == 0) {\n        _vpApplyFormatProperties(_%s_FORMATS, format, pNext);\n    }\n#endif\n",
			name, uname, uname)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// genVpGetProfileMemoryTypes emits the accessor returning the list of
// required memory property flag sets. Only reached when
// Options.IncludeMemoryTypes is set.
func (e *Emitter) genVpGetProfileMemoryTypes() string {
	var buf bytes.Buffer
	buf.WriteString("\nVPAPI_ATTR VkResult vpGetProfileMemoryTypes(const VpProfileProperties *pProfile, uint32_t *pPropertyCount, VkMemoryPropertyFlags *pMemoryTypes) {\n    VkResult result = VK_SUCCESS;\n")

	for entry := e.Profiles.Front(); entry != nil; entry = entry.Next() {
		name, p := entry.Key, entry.Value
		memProps, ok := p.Capabilities.MemoryProperties.Object.Get("VkPhysicalDeviceMemoryProperties")
		if !ok {
			continue
		}
		memTypes, ok := memProps.Object.Get("memoryTypes")
		if !ok || len(memTypes.List) == 0 {
			continue
		}
		uname := upper(name)
		fmt.Fprintf(&buf, "#ifdef %s\n    if (strcmp(pProfile->profileName, %s_NAME) == 0) {\n        result = _vpArrayCopy(_%s_MEMORY_TYPES, pPropertyCount, pMemoryTypes);\n    } else\n#endif\n",
			name, uname, uname)
	}

	buf.WriteString("    {\n        *pPropertyCount = 0;\n    }\n    return result;\n}\n")
	return buf.String()
}

// genVpGetProfileQueueFamilies emits the accessor returning the list of
// required queue family property sets.
func (e *Emitter) genVpGetProfileQueueFamilies() string {
	var buf bytes.Buffer
	buf.WriteString("\nVPAPI_ATTR VkResult vpGetProfileQueueFamilies(const VpProfileProperties *pProfile, uint32_t *pPropertyCount, VkQueueFamilyProperties *pProperties) {\n    VkResult result = VK_SUCCESS;\n")

	for entry := e.Profiles.Front(); entry != nil; entry = entry.Next() {
		name, p := entry.Key, entry.Value
		if len(p.Capabilities.QueueFamilies) == 0 {
			continue
		}
		uname := upper(name)
		fmt.Fprintf(&buf, "#ifdef %s\n    if (strcmp(pProfile->profileName, %s_NAME) == 0) {\n        result = _vpArrayCopy(_%s_QUEUE_FAMILY_PROPERTIES, pPropertyCount, pProperties);\n    } else\n#endif\n",
			name, uname, uname)
	}

	buf.WriteString("    {\n        *pPropertyCount = 0;\n    }\n    return result;\n}\n")
	return buf.String()
}
