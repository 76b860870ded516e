package codegen

import (
	"bytes"
	"fmt"

	"github.com/gogpu/vpgen/internal/profile"
	"github.com/gogpu/vpgen/internal/vperrors"
)

// genPrivateImpl emits the internal linkage section shared by the cpp and
// hpp outputs: per-profile extension-name tables and the driver table
// (_vpProfiles) the public API iterates over.
func (e *Emitter) genPrivateImpl() (string, error) {
	var buf bytes.Buffer
	buf.WriteString(privateImplPrelude)

	for entry := e.Profiles.Front(); entry != nil; entry = entry.Next() {
		name, p := entry.Key, entry.Value
		uname := upper(name)
		fmt.Fprintf(&buf, "\n#ifdef %s\nnamespace %s {\n", name, uname)
		buf.WriteString(e.genExtensionData(p, "instance"))
		buf.WriteString(e.genExtensionData(p, "device"))
		fmt.Fprintf(&buf, "\n} // namespace %s\n#endif\n", uname)
	}

	buf.WriteString(e.genProfileDescTable())
	return buf.String(), nil
}

func (e *Emitter) genExtensionData(p *profile.Profile, kind string) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "\nstatic const VkExtensionProperties _%sExtensions[] = {\n", kind)

	found := false
	for ee := p.Capabilities.Extensions.Front(); ee != nil; ee = ee.Next() {
		extName, specVer := ee.Key, ee.Value
		extInfo, ok := e.Registry.Extensions.Get(extName)
		if !ok || extInfo.Type != kind {
			continue
		}
		fmt.Fprintf(&buf, "    VkExtensionProperties{ %s_EXTENSION_NAME, %s },\n", extInfo.UpperCaseName, specVer.Scalar)
		found = true
	}
	buf.WriteString("};\n")
	if !found {
		return ""
	}
	return buf.String()
}

func (e *Emitter) genProfileDescTable() string {
	var buf bytes.Buffer
	buf.WriteString("\nstatic const _vpProfileDesc _vpProfiles[] = {\n")

	for entry := e.Profiles.Front(); entry != nil; entry = entry.Next() {
		name, p := entry.Key, entry.Value
		uname := upper(name)
		fmt.Fprintf(&buf, "#ifdef %s\n    _vpProfileDesc{\n        %s_NAME,\n        %s_SPEC_VERSION,\n        %s_MIN_API_VERSION,\n",
			name, uname, uname, uname)

		if p.Capabilities.InstanceExtensions.Len() > 0 {
			fmt.Fprintf(&buf, "        &%s::_instanceExtensions[0], _vpArraySize(%s::_instanceExtensions),\n", uname, uname)
		} else {
			buf.WriteString("        nullptr, 0,\n")
		}
		if p.Capabilities.DeviceExtensions.Len() > 0 {
			fmt.Fprintf(&buf, "        &%s::_deviceExtensions[0], _vpArraySize(%s::_deviceExtensions)\n", uname, uname)
		} else {
			buf.WriteString("        nullptr, 0\n")
		}
		buf.WriteString("    },\n#endif\n")
	}

	buf.WriteString("    _vpProfileDesc{ nullptr }\n};\n")
	return buf.String()
}

// genPublicImpl emits the public API function definitions, in the order
// declared by apiDefs. vpGetInstanceProfileSupport, vpCreateInstance,
// vpGetProfileInstanceExtensionProperties and
// vpGetProfileDeviceExtensionProperties are declared by apiDefs, but no
// definition is emitted for them.
func (e *Emitter) genPublicImpl() (string, error) {
	var buf bytes.Buffer
	buf.WriteString(publicImplPrelude)
	buf.WriteString(e.genVpGetProfileFallbacks())

	support, err := e.genVpGetDeviceProfileSupport()
	if err != nil {
		return "", err
	}
	buf.WriteString(support)

	create, err := e.genVpCreateDevice()
	if err != nil {
		return "", err
	}
	buf.WriteString(create)

	structures, err := e.genVpGetProfileStructures()
	if err != nil {
		return "", err
	}
	buf.WriteString(structures)

	buf.WriteString(e.genVpGetProfileStructureProperties())
	buf.WriteString(e.genVpGetProfileFormats())
	buf.WriteString(e.genVpGetProfileFormatProperties())

	if e.Options.IncludeMemoryTypes {
		buf.WriteString(e.genVpGetProfileMemoryTypes())
	}

	buf.WriteString(e.genVpGetProfileQueueFamilies())
	return buf.String(), nil
}

// genVpGetProfileFallbacks emits per-profile fallback property arrays and
// the dispatch that returns them by name (§3 Profile.Fallback, recovered
// feature #2 in SPEC_FULL.md).
func (e *Emitter) genVpGetProfileFallbacks() string {
	var buf bytes.Buffer
	buf.WriteString("\nVPAPI_ATTR VkResult vpGetProfileFallbacks(const VpProfileProperties *pProfile, uint32_t *pPropertyCount, VpProfileProperties *pProperties) {\n    VkResult result = VK_SUCCESS;\n")

	for entry := e.Profiles.Front(); entry != nil; entry = entry.Next() {
		name, p := entry.Key, entry.Value
		if len(p.Fallback) == 0 {
			continue
		}
		uname := upper(name)
		fmt.Fprintf(&buf, "#ifdef %s\n    if (strcmp(pProfile->profileName, %s_NAME) == 0) {\n        static const VpProfileProperties %s_fallbacks[] = {\n", name, uname, uname)
		for _, fb := range p.Fallback {
			fmt.Fprintf(&buf, "            { %s_NAME, %s_SPEC_VERSION },\n", upper(fb), upper(fb))
		}
		fmt.Fprintf(&buf, "        };\n\n        if (pProperties == nullptr) {\n            *pPropertyCount = _vpArraySize(%s_fallbacks);\n        } else {\n            if (*pPropertyCount < _vpArraySize(%s_fallbacks)) {\n                result = VK_INCOMPLETE;\n            } else {\n                *pPropertyCount = _vpArraySize(%s_fallbacks);\n            }\n            for (uint32_t i = 0; i < *pPropertyCount; ++i) {\n                pProperties[i] = %s_fallbacks[i];\n            }\n        }\n    } else\n#endif\n",
			uname, uname, uname, uname)
	}

	buf.WriteString("    {\n        *pPropertyCount = 0;\n    }\n    return result;\n}\n")
	return buf.String()
}

// genVpGetDeviceProfileSupport emits the per-profile device-extension,
// feature, property, and queue-family support checks.
func (e *Emitter) genVpGetDeviceProfileSupport() (string, error) {
	var buf bytes.Buffer
	buf.WriteString("\nVPAPI_ATTR VkResult vpGetDeviceProfileSupport(VkPhysicalDevice physicalDevice, const VpProfileProperties *pProfile, VkBool32 *pSupported) {\n")
	buf.WriteString("    assert(pProfile != nullptr);\n    assert(pSupported != nullptr);\n\n    VkResult result = VK_SUCCESS;\n\n")
	buf.WriteString("    uint32_t extCount;\n    result = vkEnumerateDeviceExtensionProperties(physicalDevice, nullptr, &extCount, nullptr);\n    if (result != VK_SUCCESS) return result;\n")
	buf.WriteString("    std::vector<VkExtensionProperties> ext(extCount);\n    result = vkEnumerateDeviceExtensionProperties(physicalDevice, nullptr, &extCount, ext.data());\n    if (result != VK_SUCCESS) return result;\n\n")
	buf.WriteString("    VkPhysicalDeviceProperties devProps;\n    vkGetPhysicalDeviceProperties(physicalDevice, &devProps);\n\n    *pSupported = VK_FALSE;\n\n")

	for entry := e.Profiles.Front(); entry != nil; entry = entry.Next() {
		name, p := entry.Key, entry.Value
		uname := upper(name)
		fmt.Fprintf(&buf, "#ifdef %s\n    if (strcmp(pProfile->profileName, %s_NAME) == 0) {\n        if (%s_SPEC_VERSION < pProfile->specVersion) return result;\n        if (VK_VERSION_PATCH(devProps.apiVersion) < VK_VERSION_PATCH(%s_MIN_API_VERSION)) return result;\n",
			name, uname, uname, uname)

		if p.Capabilities.DeviceExtensions.Len() > 0 {
			fmt.Fprintf(&buf, "\n        for (uint32_t i = 0; i < _vpArraySize(%s::_deviceExtensions); ++i) {\n            if (!_vpCheckExtension(ext.data(), ext.size(), %s::_deviceExtensions[i].extensionName)) return result;\n        }\n", uname, uname)
		}

		if p.Capabilities.Features.Object.Len() > 0 {
			checkBody, err := e.genFeatureSupportCheck(p)
			if err != nil {
				return "", err
			}
			buf.WriteString(checkBody)
		}
		if p.Capabilities.Properties.Object.Len() > 0 {
			checkBody, err := e.genPropertySupportCheck(p)
			if err != nil {
				return "", err
			}
			buf.WriteString(checkBody)
		}
		if len(p.Capabilities.QueueFamilies) > 0 {
			fmt.Fprintf(&buf, "\n        uint32_t queueFamilyCount = 0;\n        vkGetPhysicalDeviceQueueFamilyProperties(physicalDevice, &queueFamilyCount, nullptr);\n        std::vector<VkQueueFamilyProperties> queueFamilies(queueFamilyCount);\n        vkGetPhysicalDeviceQueueFamilyProperties(physicalDevice, &queueFamilyCount, queueFamilies.data());\n\n        bool queueFamiliesSupported = true;\n        for (uint32_t i = 0; i < _vpArraySize(_%s_QUEUE_FAMILY_PROPERTIES); ++i) {\n            if (!_vpCheckQueueFamilyProperty(&queueFamilies[0], queueFamilyCount, _%s_QUEUE_FAMILY_PROPERTIES[i])) {\n                queueFamiliesSupported = false;\n                break;\n            }\n        }\n        if (!queueFamiliesSupported) return result;\n",
				uname, uname)
		}
		if e.Options.IncludeMemoryTypes {
			if memProps, ok := p.Capabilities.MemoryProperties.Object.Get("VkPhysicalDeviceMemoryProperties"); ok {
				if memTypes, ok := memProps.Object.Get("memoryTypes"); ok && len(memTypes.List) > 0 {
					fmt.Fprintf(&buf, "\n        VkPhysicalDeviceMemoryProperties memoryProperties;\n        vkGetPhysicalDeviceMemoryProperties(physicalDevice, &memoryProperties);\n\n        bool memoryTypesSupported = true;\n        for (uint32_t i = 0; i < _vpArraySize(_%s_MEMORY_TYPES); ++i) {\n            if (!_vpCheckMemoryProperty(memoryProperties, _%s_MEMORY_TYPES[i])) {\n                memoryTypesSupported = false;\n                break;\n            }\n        }\n        if (!memoryTypesSupported) return result;\n",
						uname, uname)
				}
			}
		}

		buf.WriteString("    } else\n#endif\n")
	}

	buf.WriteString("    {\n        return result;\n    }\n\n    *pSupported = VK_TRUE;\n    return result;\n}\n")
	return buf.String(), nil
}

// genFeatureSupportCheck emits, for every distinct feature structure the
// profile references, a chained device-side and profile-side variable and
// compares each member-by-member. VkPhysicalDeviceFeatures is special-cased:
// it's wrapped inside VkPhysicalDeviceFeatures2 rather than pNext-chained
// alongside it, matching how vkGetPhysicalDeviceFeatures2 itself works.
func (e *Emitter) genFeatureSupportCheck(p *profile.Profile) (string, error) {
	var def bytes.Buffer
	check := bytes.NewBufferString("        bool featuresSupported = true;\n")

	var pNextDevice, pNextProfile string
	hasBase := false

	for fe := p.Capabilities.Features.Object.Front(); fe != nil; fe = fe.Next() {
		structName, values := fe.Key, fe.Value
		structDef, ok := e.Registry.Structs.Get(structName)
		if !ok {
			return "", notFoundErr(structName)
		}

		wrapName, varSuffix, sType := structName, ".", structDef.SType
		if structName == "VkPhysicalDeviceFeatures" {
			wrapName, varSuffix, sType = "VkPhysicalDeviceFeatures2", ".features.", "VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_FEATURES_2"
		}
		if structName == "VkPhysicalDeviceFeatures" || structName == "VkPhysicalDeviceFeatures2" {
			hasBase = true
		}

		deviceVar := "device" + wrapName[2:]
		fmt.Fprintf(&def, "        %s %s{ %s };\n", wrapName, deviceVar, sType)
		if wrapName != "VkPhysicalDeviceFeatures2" {
			if pNextDevice != "" {
				fmt.Fprintf(&def, "        %s.pNext = &%s;\n", deviceVar, pNextDevice)
			}
			pNextDevice = deviceVar
		}

		profileVar := "profile" + wrapName[2:]
		fmt.Fprintf(&def, "        %s %s{ %s };\n", wrapName, profileVar, sType)
		if pNextProfile != "" {
			fmt.Fprintf(&def, "        %s.pNext = &%s;\n", profileVar, pNextProfile)
		}
		pNextProfile = profileVar

		cmp, err := e.genCompare("        featuresSupported = featuresSupported && %s;\n", structDef,
			deviceVar+varSuffix, profileVar+varSuffix, values)
		if err != nil {
			return "", err
		}
		check.WriteString(cmp)
	}

	if !hasBase {
		def.WriteString("        VkPhysicalDeviceFeatures2 devicePhysicalDeviceFeatures2{ VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_FEATURES_2 };\n")
	}
	if pNextDevice != "" {
		fmt.Fprintf(&def, "        devicePhysicalDeviceFeatures2.pNext = &%s;\n", pNextDevice)
	}

	var buf bytes.Buffer
	buf.WriteString("\n")
	buf.Write(def.Bytes())
	buf.WriteString("        vkGetPhysicalDeviceFeatures2(physicalDevice, &devicePhysicalDeviceFeatures2);\n")
	fmt.Fprintf(&buf, "        vpGetProfileStructures(pProfile, &%s);\n", pNextProfile)
	buf.Write(check.Bytes())
	buf.WriteString("        if (!featuresSupported) return result;\n")
	return buf.String(), nil
}

// genPropertySupportCheck is genFeatureSupportCheck's mirror for properties,
// chaining through VkPhysicalDeviceProperties2 instead.
func (e *Emitter) genPropertySupportCheck(p *profile.Profile) (string, error) {
	var def bytes.Buffer
	check := bytes.NewBufferString("        bool propertiesSupported = true;\n")

	var pNextDevice, pNextProfile string
	hasBase := false

	for pe := p.Capabilities.Properties.Object.Front(); pe != nil; pe = pe.Next() {
		structName, values := pe.Key, pe.Value
		structDef, ok := e.Registry.Structs.Get(structName)
		if !ok {
			return "", notFoundErr(structName)
		}

		wrapName, varSuffix, sType := structName, ".", structDef.SType
		if structName == "VkPhysicalDeviceProperties" {
			wrapName, varSuffix, sType = "VkPhysicalDeviceProperties2", ".properties.", "VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_PROPERTIES_2"
		}
		if structName == "VkPhysicalDeviceProperties" || structName == "VkPhysicalDeviceProperties2" {
			hasBase = true
		}

		deviceVar := "device" + wrapName[2:]
		fmt.Fprintf(&def, "        %s %s{ %s };\n", wrapName, deviceVar, sType)
		if wrapName != "VkPhysicalDeviceProperties2" {
			if pNextDevice != "" {
				fmt.Fprintf(&def, "        %s.pNext = &%s;\n", deviceVar, pNextDevice)
			}
			pNextDevice = deviceVar
		}

		profileVar := "profile" + wrapName[2:]
		fmt.Fprintf(&def, "        %s %s{ %s };\n", wrapName, profileVar, sType)
		if pNextProfile != "" {
			fmt.Fprintf(&def, "        %s.pNext = &%s;\n", profileVar, pNextProfile)
		}
		pNextProfile = profileVar

		cmp, err := e.genCompare("        propertiesSupported = propertiesSupported && %s;\n", structDef,
			deviceVar+varSuffix, profileVar+varSuffix, values)
		if err != nil {
			return "", err
		}
		check.WriteString(cmp)
	}

	if !hasBase {
		def.WriteString("        VkPhysicalDeviceProperties2 devicePhysicalDeviceProperties2{ VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_PROPERTIES_2 };\n")
	}
	if pNextDevice != "" {
		fmt.Fprintf(&def, "        devicePhysicalDeviceProperties2.pNext = &%s;\n", pNextDevice)
	}

	var buf bytes.Buffer
	buf.WriteString("\n")
	buf.Write(def.Bytes())
	buf.WriteString("        vkGetPhysicalDeviceProperties2(physicalDevice, &devicePhysicalDeviceProperties2);\n")
	fmt.Fprintf(&buf, "        vpGetProfileStructures(pProfile, &%s);\n", pNextProfile)
	buf.Write(check.Bytes())
	buf.WriteString("        if (!propertiesSupported) return result;\n")
	return buf.String(), nil
}

// genVpCreateDevice emits a VkDevice creation helper that merges the
// profile's device extensions into the caller's VkDeviceCreateInfo before
// delegating to vkCreateDevice. The profile's feature structures are not
// chained into the create info, and pCreateInfo->flags is not consulted.
func (e *Emitter) genVpCreateDevice() (string, error) {
	var buf bytes.Buffer
	buf.WriteString("\nVPAPI_ATTR VkResult vpCreateDevice(VkPhysicalDevice physicalDevice, const VpDeviceCreateInfo *pCreateInfo,\n")
	buf.WriteString("                                   const VkAllocationCallbacks *pAllocator, VkDevice *pDevice) {\n")
	buf.WriteString("    assert(pCreateInfo != nullptr);\n\n")
	buf.WriteString("    if (pCreateInfo->pCreateInfo == nullptr) return VK_ERROR_INITIALIZATION_FAILED;\n\n")
	buf.WriteString("    VkDeviceCreateInfo deviceCreateInfo = *pCreateInfo->pCreateInfo;\n")
	buf.WriteString("    std::vector<const char*> extensions(deviceCreateInfo.ppEnabledExtensionNames,\n")
	buf.WriteString("        deviceCreateInfo.ppEnabledExtensionNames + deviceCreateInfo.enabledExtensionCount);\n\n")

	for entry := e.Profiles.Front(); entry != nil; entry = entry.Next() {
		name, p := entry.Key, entry.Value
		if p.Capabilities.DeviceExtensions.Len() == 0 {
			continue
		}
		uname := upper(name)
		fmt.Fprintf(&buf, "#ifdef %s\n    if (pCreateInfo->pProfile != nullptr && strcmp(pCreateInfo->pProfile->profileName, %s_NAME) == 0) {\n", name, uname)
		fmt.Fprintf(&buf, "        for (uint32_t i = 0; i < _vpArraySize(%s::_deviceExtensions); ++i) {\n", uname)
		buf.WriteString("            bool found = false;\n")
		buf.WriteString("            for (auto ext : extensions) { if (strcmp(ext, " + uname + "::_deviceExtensions[i].extensionName) == 0) { found = true; break; } }\n")
		fmt.Fprintf(&buf, "            if (!found) extensions.push_back(%s::_deviceExtensions[i].extensionName);\n", uname)
		buf.WriteString("        }\n    }\n#endif\n")
	}

	buf.WriteString("\n    deviceCreateInfo.enabledExtensionCount = static_cast<uint32_t>(extensions.size());\n")
	buf.WriteString("    deviceCreateInfo.ppEnabledExtensionNames = extensions.data();\n\n")
	buf.WriteString("    return vkCreateDevice(physicalDevice, &deviceCreateInfo, pAllocator, pDevice);\n}\n")
	return buf.String(), nil
}

func notFoundErr(name string) error {
	return &vperrors.EmitterError{Subject: "structure " + name, Reason: "does not exist"}
}
