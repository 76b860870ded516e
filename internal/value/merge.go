package value

import (
	"fmt"

	"github.com/gogpu/vpgen/internal/vperrors"
)

// Merge deep-merges src into dst in place: object values recurse key by
// key, array values (both KindArray and KindEnumList) concatenate, and
// scalar/bool values overwrite — unless dst already holds a value of a
// different Kind, which is a fatal capability conflict (§7
// ProfileConflict), since it means two capability fragments disagree
// about what shape a value should have.
func Merge(dst *Value, src Value, profile, path string) error {
	if dst.IsZero() {
		*dst = src
		return nil
	}

	if dst.Kind != src.Kind {
		return &vperrors.ProfileConflict{
			Profile: profile,
			Path:    path,
			Reason:  fmt.Sprintf("type mismatch (existing kind %v, incoming kind %v)", dst.Kind, src.Kind),
		}
	}

	switch src.Kind {
	case KindObject:
		for entry := src.Object.Front(); entry != nil; entry = entry.Next() {
			key, val := entry.Key, entry.Value
			childPath := path + "." + key
			existing, ok := dst.Object.Get(key)
			if !ok {
				dst.Object.Set(key, val)
				continue
			}
			if err := Merge(&existing, val, profile, childPath); err != nil {
				return err
			}
			dst.Object.Set(key, existing)
		}
		return nil

	case KindArray, KindEnumList:
		dst.List = append(dst.List, src.List...)
		return nil

	default:
		// Scalars and bools: last fragment merged wins, matching the
		// original's plain dict-key overwrite semantics.
		*dst = src
		return nil
	}
}

// MergeField merges src into the named field of an object-typed dst,
// creating the field as an empty object of the right kind if absent. This
// mirrors mergeProfileCapData's "if not key in dst: dst[key] = dict()/[]"
// initialization step.
func MergeField(dst *Value, name string, src Value, profile string) error {
	if dst.Kind != KindObject {
		return &vperrors.ProfileConflict{Profile: profile, Path: name, Reason: "destination is not an object"}
	}
	existing, ok := dst.Object.Get(name)
	if !ok {
		dst.Object.Set(name, src)
		return nil
	}
	if err := Merge(&existing, src, profile, name); err != nil {
		return err
	}
	dst.Object.Set(name, existing)
	return nil
}
