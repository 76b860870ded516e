package codegen

import (
	"bytes"
	"fmt"

	"github.com/gogpu/vpgen/internal/value"
	"github.com/gogpu/vpgen/internal/vperrors"
)

// genStructPropLists emits, per profile, a VpStructureProperties array
// listing the sType/area pair of every feature and property structure the
// profile references, validating each one is chainable and extends the
// expected root structure (VkPhysicalDeviceFeatures2 / Properties2).
func (e *Emitter) genStructPropLists() (string, error) {
	var buf bytes.Buffer

	for entry := e.Profiles.Front(); entry != nil; entry = entry.Next() {
		name, p := entry.Key, entry.Value
		features := p.Capabilities.Features
		properties := p.Capabilities.Properties
		if features.Object.Len() == 0 && properties.Object.Len() == 0 {
			continue
		}

		fmt.Fprintf(&buf, "\n#ifdef %s\nstatic const VpStructureProperties _%s_STRUCTURE_PROPERTIES[] = {\n", name, upper(name))

		for fe := features.Object.Front(); fe != nil; fe = fe.Next() {
			sType, err := e.chainableSType(fe.Key, "VkPhysicalDeviceFeatures", "VkPhysicalDeviceFeatures2")
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&buf, "    { %s, VP_STRUCTURE_FEATURES },\n", sType)
		}
		for pe := properties.Object.Front(); pe != nil; pe = pe.Next() {
			sType, err := e.chainableSType(pe.Key, "VkPhysicalDeviceProperties", "VkPhysicalDeviceProperties2")
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&buf, "    { %s, VP_STRUCTURE_PROPERTIES },\n", sType)
		}

		buf.WriteString("};\n#endif\n")
	}

	return buf.String(), nil
}

func (e *Emitter) chainableSType(structName, wrappedName, rootName string) (string, error) {
	lookup := structName
	if structName == wrappedName {
		lookup = rootName
	}
	structDef, ok := e.Registry.Structs.Get(lookup)
	if !ok {
		return "", &vperrors.EmitterError{Subject: "structure " + lookup, Reason: "does not exist"}
	}
	if structDef.SType == "" {
		return "", &vperrors.EmitterError{Subject: "structure " + lookup, Reason: "is not chainable"}
	}
	extendsRoot := structDef.Name == rootName
	for _, ext := range structDef.Extends {
		if ext == rootName {
			extendsRoot = true
		}
	}
	if !extendsRoot {
		return "", &vperrors.EmitterError{Subject: "structure " + lookup, Reason: "does not extend " + rootName}
	}
	return structDef.SType, nil
}

// genFormatLists emits, per profile, a static VpFormatProperties array
// describing the tiling/buffer feature requirements of every format the
// profile names with a VkFormatProperties entry. Formats without one are
// skipped, and any other structure listed under a format is ignored
// without an error.
func (e *Emitter) genFormatLists() string {
	var buf bytes.Buffer
	buf.WriteString("\nstruct VpFormatProperties {\n    VkFormat format;\n    VkFlags64 linearTilingFeatures;\n    VkFlags64 optimalTilingFeatures;\n    VkFlags64 bufferFeatures;\n};\n")

	for entry := e.Profiles.Front(); entry != nil; entry = entry.Next() {
		name, p := entry.Key, entry.Value
		formats := p.Capabilities.Formats
		if formats.Object.Len() == 0 {
			continue
		}

		fmt.Fprintf(&buf, "\n#ifdef %s\nstatic const VpFormatProperties _%s_FORMATS[] = {\n", name, upper(name))
		for fe := formats.Object.Front(); fe != nil; fe = fe.Next() {
			formatName, props := fe.Key, fe.Value
			fp, ok := props.Object.Get("VkFormatProperties")
			if !ok {
				continue
			}
			linear := fieldEnumList(fp, "linearTilingFeatures")
			optimal := fieldEnumList(fp, "optimalTilingFeatures")
			bufferF := fieldEnumList(fp, "bufferFeatures")
			fmt.Fprintf(&buf, "    {\n        %s,\n        %s,\n        %s,\n        %s,\n    },\n", formatName, linear, optimal, bufferF)
		}
		buf.WriteString("};\n#endif\n")
	}

	return buf.String()
}

// genQueueFamilyLists emits, per profile, a static VkQueueFamilyProperties
// array describing the queue family requirements the profile names.
func (e *Emitter) genQueueFamilyLists() string {
	var buf bytes.Buffer

	for entry := e.Profiles.Front(); entry != nil; entry = entry.Next() {
		name, p := entry.Key, entry.Value
		if len(p.Capabilities.QueueFamilies) == 0 {
			continue
		}

		fmt.Fprintf(&buf, "\n#ifdef %s\nstatic const VkQueueFamilyProperties _%s_QUEUE_FAMILY_PROPERTIES[] = {\n", name, upper(name))
		for _, qf := range p.Capabilities.QueueFamilies {
			props, ok := qf.Object.Get("VkQueueFamilyProperties")
			if !ok {
				continue
			}
			flags := genListValue(fieldList(props, "queueFlags"), true)
			count := fieldScalar(props, "queueCount")
			tsBits := fieldScalar(props, "timestampValidBits")
			gran, _ := props.Object.Get("minImageTransferGranularity")
			w := fieldScalar(gran, "width")
			h := fieldScalar(gran, "height")
			d := fieldScalar(gran, "depth")
			fmt.Fprintf(&buf, "    { %s, %s, %s, { %s, %s, %s } },\n", flags, count, tsBits, w, h, d)
		}
		buf.WriteString("};\n#endif\n")
	}

	return buf.String()
}

// genMemoryTypeLists emits, per profile, a static VkMemoryPropertyFlags
// array, one entry per required memory type. Only reached when
// Options.IncludeMemoryTypes is set (§9 Open Question 2).
func (e *Emitter) genMemoryTypeLists() string {
	var buf bytes.Buffer

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

		fmt.Fprintf(&buf, "\n#ifdef %s\nstatic const VkMemoryPropertyFlags _%s_MEMORY_TYPES[] = {\n", name, upper(name))
		for _, mt := range memTypes.List {
			flags := fieldList(mt, "propertyFlags")
			fmt.Fprintf(&buf, "    %s,\n", genListValue(flags, true))
		}
		buf.WriteString("};\n#endif\n")
	}

	return buf.String()
}

func fieldScalar(v value.Value, name string) string {
	f, ok := v.Object.Get(name)
	if !ok {
		return "0"
	}
	return f.Scalar
}

func fieldList(v value.Value, name string) []value.Value {
	f, ok := v.Object.Get(name)
	if !ok {
		return nil
	}
	return f.List
}

func fieldEnumList(v value.Value, name string) string {
	return genListValue(fieldList(v, name), true)
}
