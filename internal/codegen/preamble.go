package codegen

// generatedBanner is emitted at the top of every output file, following
// the teacher's own generated-code convention.
const generatedBanner = "// Code generated by vpgen. DO NOT EDIT.\n"

const hHeader = `
#ifndef VULKAN_PROFILES_
#define VULKAN_PROFILES_ 1

#define VPAPI_ATTR

#ifdef __cplusplus
extern "C" {
#endif

#include <vulkan/vulkan_core.h>
#ifdef VK_ENABLE_BETA_EXTENSIONS
#include <vulkan/vulkan_beta.h>
#endif
`

const hFooter = `
#ifdef __cplusplus
}
#endif

#endif // VULKAN_PROFILES_
`

const cppHeader = `
#include <vulkan/vulkan_profiles.h>
#include <stddef.h>
#include <string.h>
#include <assert.h>
#include <stdint.h>
#include <vector>
#include <algorithm>

#define _vpArraySize(arr) static_cast<uint32_t>(sizeof(arr) / sizeof(arr[0]))
`

const hppHeader = `
#ifndef VULKAN_PROFILES_
#define VULKAN_PROFILES_ 1

#define VPAPI_ATTR inline

#include <vulkan/vulkan_core.h>
#ifdef VK_ENABLE_BETA_EXTENSIONS
#include <vulkan/vulkan_beta.h>
#endif
#include <stddef.h>
#include <string.h>
#include <assert.h>
#include <stdint.h>
#include <vector>
#include <algorithm>

#define _vpArraySize(arr) static_cast<uint32_t>(sizeof(arr) / sizeof(arr[0]))
`

const hppFooter = `
#endif // VULKAN_PROFILES_
`

// apiDefs is the fixed public API surface declared once per header
// (vulkan_profiles.h and vulkan_profiles.hpp share it).
const apiDefs = `
#define VP_MAX_PROFILE_NAME_SIZE 256U

typedef struct VpProfileProperties {
    char        profileName[VP_MAX_PROFILE_NAME_SIZE];
    uint32_t    specVersion;
} VpProfileProperties;

typedef enum VpInstanceCreateFlagBits {
    VP_INSTANCE_CREATE_MERGE_EXTENSIONS_BIT = 0x00000001,
    VP_INSTANCE_CREATE_OVERRIDE_EXTENSIONS_BIT = 0x00000002,
    VP_INSTANCE_CREATE_OVERRIDE_API_VERSION_BIT = 0x00000004,

    VP_INSTANCE_CREATE_FLAG_BITS_MAX_ENUM = 0x7FFFFFFF
} VpInstanceCreateFlagBits;
typedef VkFlags VpInstanceCreateFlags;

typedef struct VpInstanceCreateInfo {
    const VkInstanceCreateInfo* pCreateInfo;
    const VpProfileProperties*  pProfile;
    VpInstanceCreateFlags       flags;
} VpInstanceCreateInfo;

typedef enum VpDeviceCreateFlagBits {
    VP_DEVICE_CREATE_DISABLE_ROBUST_BUFFER_ACCESS_BIT = 0x00000001,
    VP_DEVICE_CREATE_DISABLE_ROBUST_IMAGE_ACCESS_BIT = 0x00000002,
    VP_DEVICE_CREATE_MERGE_EXTENSIONS_BIT = 0x00000004,
    VP_DEVICE_CREATE_OVERRIDE_EXTENSIONS_BIT = 0x00000008,

    VP_DEVICE_CREATE_DISABLE_ROBUST_ACCESS_BIT =
        VP_DEVICE_CREATE_DISABLE_ROBUST_BUFFER_ACCESS_BIT | VP_DEVICE_CREATE_DISABLE_ROBUST_IMAGE_ACCESS_BIT,
    VP_DEVICE_CREATE_FLAG_BITS_MAX_ENUM = 0x7FFFFFFF
} VpDeviceCreateFlagBits;
typedef VkFlags VpDeviceCreateFlags;

typedef struct VpDeviceCreateInfo {
    const VkDeviceCreateInfo*   pCreateInfo;
    const VpProfileProperties*  pProfile;
    VpDeviceCreateFlags         flags;
} VpDeviceCreateInfo;

VPAPI_ATTR VkResult vpGetProfiles(uint32_t *pPropertyCount, VpProfileProperties *pProperties);
VPAPI_ATTR VkResult vpGetProfileFallbacks(const VpProfileProperties *pProfile, uint32_t *pPropertyCount, VpProfileProperties *pProperties);
VPAPI_ATTR VkResult vpGetInstanceProfileSupport(const char *pLayerName, const VpProfileProperties *pProfile, VkBool32 *pSupported);
VPAPI_ATTR VkResult vpCreateInstance(const VpInstanceCreateInfo *pCreateInfo,
                                     const VkAllocationCallbacks *pAllocator, VkInstance *pInstance);
VPAPI_ATTR VkResult vpGetDeviceProfileSupport(VkPhysicalDevice physicalDevice, const VpProfileProperties *pProfile, VkBool32 *pSupported);
VPAPI_ATTR VkResult vpCreateDevice(VkPhysicalDevice physicalDevice, const VpDeviceCreateInfo *pCreateInfo,
                                   const VkAllocationCallbacks *pAllocator, VkDevice *pDevice);
VPAPI_ATTR VkResult vpGetProfileInstanceExtensionProperties(const VpProfileProperties *pProfile, uint32_t *pPropertyCount,
                                                            VkExtensionProperties *pProperties);
VPAPI_ATTR VkResult vpGetProfileDeviceExtensionProperties(const VpProfileProperties *pProfile, uint32_t *pPropertyCount,
                                                          VkExtensionProperties *pProperties);
VPAPI_ATTR void vpGetProfileStructures(const VpProfileProperties *pProfile, void *pNext);

typedef enum VpStructureArea {
    VP_STRUCTURE_FEATURES = 0,
    VP_STRUCTURE_PROPERTIES
} VpStructureArea;

typedef struct VpStructureProperties {
    VkStructureType type;
    VpStructureArea area;
} VpStructureProperties;

VPAPI_ATTR VkResult vpGetProfileStructureProperties(const VpProfileProperties *pProfile, uint32_t *pPropertyCount,
                                                    VpStructureProperties *pProperties);
VPAPI_ATTR VkResult vpGetProfileFormats(const VpProfileProperties *pProfile, uint32_t *pFormatCount, VkFormat *pFormats);
VPAPI_ATTR void vpGetProfileFormatProperties(const VpProfileProperties *pProfile, VkFormat format, void *pNext);
VPAPI_ATTR VkResult vpGetProfileQueueFamilies(const VpProfileProperties *pProfile, uint32_t *pPropertyCount, VkQueueFamilyProperties *pProperties);
`

const privateImplPrelude = `
struct _vpProfileDesc {
    const char*                     name;
    uint32_t                        specVersion;
    uint32_t                        minApiVersion;
    const VkExtensionProperties*    instanceExtensions;
    uint32_t                        instanceExtensionCount;
    const VkExtensionProperties*    deviceExtensions;
    uint32_t                        deviceExtensionCount;
};

static bool _vpCheckExtension(const VkExtensionProperties *supportedProperties, size_t supportedSize,
                               const char *requestedExtension) {
    for (size_t i = 0; i < supportedSize; ++i) {
        if (strcmp(supportedProperties[i].extensionName, requestedExtension) == 0) {
            return true;
        }
    }
    return false;
}

template <typename T, size_t N>
static VkResult _vpArrayCopy(const T (&src)[N], uint32_t *pCount, T *pDst) {
    if (pDst == nullptr) {
        *pCount = static_cast<uint32_t>(N);
        return VK_SUCCESS;
    }
    VkResult result = VK_SUCCESS;
    if (*pCount < N) {
        result = VK_INCOMPLETE;
    } else {
        *pCount = static_cast<uint32_t>(N);
    }
    for (uint32_t i = 0; i < *pCount; ++i) pDst[i] = src[i];
    return result;
}

template <size_t N>
static VkResult _vpArrayCopyFormats(const VpFormatProperties (&src)[N], uint32_t *pCount, VkFormat *pDst) {
    if (pDst == nullptr) {
        *pCount = static_cast<uint32_t>(N);
        return VK_SUCCESS;
    }
    VkResult result = VK_SUCCESS;
    if (*pCount < N) {
        result = VK_INCOMPLETE;
    } else {
        *pCount = static_cast<uint32_t>(N);
    }
    for (uint32_t i = 0; i < *pCount; ++i) pDst[i] = src[i].format;
    return result;
}

template <size_t N>
static void _vpApplyFormatProperties(const VpFormatProperties (&src)[N], VkFormat format, void *pNext) {
    for (size_t i = 0; i < N; ++i) {
        if (src[i].format != format) continue;
        VkBaseOutStructure *p = static_cast<VkBaseOutStructure*>(pNext);
        while (p != nullptr) {
            if (p->sType == VK_STRUCTURE_TYPE_FORMAT_PROPERTIES_3) {
                VkFormatProperties3 *fp = reinterpret_cast<VkFormatProperties3*>(p);
                fp->linearTilingFeatures = src[i].linearTilingFeatures;
                fp->optimalTilingFeatures = src[i].optimalTilingFeatures;
                fp->bufferFeatures = src[i].bufferFeatures;
            }
            p = p->pNext;
        }
    }
}

static bool _vpCheckQueueFamilyProperty(const VkQueueFamilyProperties *supported, uint32_t supportedCount,
                                        const VkQueueFamilyProperties &requested) {
    for (uint32_t i = 0; i < supportedCount; ++i) {
        if ((supported[i].queueFlags & requested.queueFlags) != requested.queueFlags) continue;
        if (supported[i].queueCount < requested.queueCount) continue;
        if (supported[i].timestampValidBits < requested.timestampValidBits) continue;
        return true;
    }
    return false;
}

static bool _vpCheckMemoryProperty(const VkPhysicalDeviceMemoryProperties &supported, VkMemoryPropertyFlags requested) {
    for (uint32_t i = 0; i < supported.memoryTypeCount; ++i) {
        if ((supported.memoryTypes[i].propertyFlags & requested) == requested) return true;
    }
    return false;
}
`

const publicImplPrelude = `
VPAPI_ATTR VkResult vpGetProfiles(uint32_t *pPropertyCount, VpProfileProperties *pProperties) {
    VkResult result = VK_SUCCESS;

    if (pProperties == nullptr) {
        uint32_t count = 0;
        for (const auto *p = &_vpProfiles[0]; p->name != nullptr; ++p) ++count;
        *pPropertyCount = count;
        return result;
    }

    uint32_t written = 0;
    for (const auto *p = &_vpProfiles[0]; p->name != nullptr && written < *pPropertyCount; ++p, ++written) {
        strncpy(pProperties[written].profileName, p->name, VP_MAX_PROFILE_NAME_SIZE);
        pProperties[written].specVersion = p->specVersion;
    }
    *pPropertyCount = written;
    return result;
}
`
