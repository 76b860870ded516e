package codegen

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gogpu/vpgen/internal/registry"
	"github.com/gogpu/vpgen/internal/value"
	"github.com/gogpu/vpgen/internal/vperrors"
)

// genAssign materializes a profile's required values into a C struct:
// nested objects recurse into the member's own struct type, array values
// with isArray=true become per-index element assignments, array values
// with isArray=false become either an enum-or'd flag expression (first
// element a string) or a brace-init list, bools become VK_TRUE/VK_FALSE,
// and everything else is emitted as a bare literal.
func (e *Emitter) genAssign(structDef *registry.Struct, varPrefix string, values value.Value) (string, error) {
	var buf bytes.Buffer

	for entry := values.Object.Front(); entry != nil; entry = entry.Next() {
		member, v := entry.Key, entry.Value

		memberDef, ok := structDef.Members.Get(member)
		if !ok {
			return "", &vperrors.EmitterError{Subject: "struct " + structDef.Name, Reason: "no member " + member}
		}

		switch v.Kind {
		case value.KindObject:
			nestedDef, ok := e.Registry.Structs.Get(memberDef.Type)
			if !ok {
				return "", &vperrors.EmitterError{Subject: "struct " + structDef.Name, Reason: "member " + member + " is not a struct"}
			}
			nested, err := e.genAssign(nestedDef, varPrefix+member+".", v)
			if err != nil {
				return "", err
			}
			buf.WriteString(nested)

		case value.KindArray, value.KindEnumList:
			if memberDef.IsArray {
				for i, el := range v.List {
					fmt.Fprintf(&buf, "%s%s[%d] = %s;\n", varPrefix, member, i, el.Scalar)
				}
			} else {
				isEnum := v.Kind == value.KindEnumList
				fmt.Fprintf(&buf, "%s%s = %s;\n", varPrefix, member, genListValue(v.List, isEnum))
			}

		case value.KindBool:
			lit := "VK_FALSE"
			if v.Bool {
				lit = "VK_TRUE"
			}
			fmt.Fprintf(&buf, "%s%s = %s;\n", varPrefix, member, lit)

		default:
			fmt.Fprintf(&buf, "%s%s = %s;\n", varPrefix, member, v.Scalar)
		}
	}

	return buf.String(), nil
}

// genListValue renders a non-array list member: an enum-flag OR chain
// when isEnum (bare identifiers joined by " | ", "0" if empty), or a
// brace-initializer list of comma-separated literals otherwise.
func genListValue(values []value.Value, isEnum bool) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.Scalar
	}

	if isEnum {
		if len(values) == 0 {
			return "0"
		}
		return strings.Join(parts, " | ")
	}

	return "{ " + strings.Join(parts, ", ") + " }"
}
