package codegen

import (
	"bytes"
	"fmt"

	"github.com/gogpu/vpgen/internal/registry"
	"github.com/gogpu/vpgen/internal/value"
	"github.com/gogpu/vpgen/internal/vperrors"
)

// comparePredicate returns the device/profile predicate text for a given
// limittype (§8 property 7). "range" returns two formats, one per index,
// since a range member compares its lower bound with <= and its upper
// bound with >=.
func comparePredicate(limitType string) (single string, rangePair [2]string, skip bool, err error) {
	switch limitType {
	case "IGNORE":
		return "", [2]string{}, true, nil
	case "bitmask":
		return "((%s & %s) == %s)", [2]string{}, false, nil
	case "max":
		return "(%s >= %s)", [2]string{}, false, nil
	case "min":
		return "(%s <= %s)", [2]string{}, false, nil
	case "range":
		return "", [2]string{"(%s <= %s)", "(%s >= %s)"}, false, nil
	case "", "noauto", "struct":
		return "(%s == %s)", [2]string{}, false, nil
	default:
		return "", [2]string{}, false, &vperrors.EmitterError{Reason: "unsupported limittype " + limitType}
	}
}

// genCompare synthesizes, for every member named in values, a comparison
// expression formatted via fmt into each occurrence of the caller's line
// template (exactly one "%s" placeholder standing in for the predicate
// expression).
func (e *Emitter) genCompare(lineFmt string, structDef *registry.Struct, deviceVar, profileVar string, values value.Value) (string, error) {
	var buf bytes.Buffer

	for entry := values.Object.Front(); entry != nil; entry = entry.Next() {
		member, v := entry.Key, entry.Value

		memberDef, ok := structDef.Members.Get(member)
		if !ok {
			return "", &vperrors.EmitterError{Subject: "struct " + structDef.Name, Reason: "no member " + member}
		}

		single, rangePair, skip, err := comparePredicate(memberDef.LimitType)
		if err != nil {
			return "", err
		}
		if skip {
			continue
		}

		// Bitmask predicate has the profile operand appear twice (d & p) == p.
		expand := func(predFmt, d, p string) string {
			if memberDef.LimitType == "bitmask" {
				return fmt.Sprintf(predFmt, d, p, p)
			}
			return fmt.Sprintf(predFmt, d, p)
		}

		switch v.Kind {
		case value.KindObject:
			nestedDef, ok := e.Registry.Structs.Get(memberDef.Type)
			if !ok {
				return "", &vperrors.EmitterError{Subject: "struct " + structDef.Name, Reason: "member " + member + " is not a struct"}
			}
			nested, err := e.genCompare(lineFmt, nestedDef, deviceVar+member+".", profileVar+member+".", v)
			if err != nil {
				return "", err
			}
			buf.WriteString(nested)

		case value.KindArray, value.KindEnumList:
			if memberDef.IsArray {
				for i := range v.List {
					d := fmt.Sprintf("%s%s[%d]", deviceVar, member, i)
					p := fmt.Sprintf("%s%s[%d]", profileVar, member, i)
					if memberDef.LimitType == "range" {
						fmt.Fprintf(&buf, lineFmt, expand(rangePair[i], d, p))
					} else {
						fmt.Fprintf(&buf, lineFmt, expand(single, d, p))
					}
				}
			} else {
				d := deviceVar + member
				p := profileVar + member
				fmt.Fprintf(&buf, lineFmt, expand(single, d, p))
			}

		default:
			d := deviceVar + member
			p := profileVar + member
			fmt.Fprintf(&buf, lineFmt, expand(single, d, p))
		}
	}

	return buf.String(), nil
}
