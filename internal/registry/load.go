package registry

import (
	"encoding/xml"
	"os"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/elliotchance/orderedmap/v3"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/gogpu/vpgen/internal/vperrors"
)

var (
	versionNumberRe = regexp.MustCompile(`^[1-9][0-9]*\.[0-9]+$`)
	sTypeAliasNameRe = regexp.MustCompile(`^VK_STRUCTURE_TYPE_.*`)
	arrayTailRe      = regexp.MustCompile(`</name>\s*\[`)
)

// Load reads and parses a vk.xml-shaped registry document, in the exact
// order the original tooling does: platforms, versions, extensions,
// structs, prerequisites (defined-by provenance), aliases, then the fixed
// workaround corrections.
func Load(path string, log *logrus.Logger) (*Registry, error) {
	if log == nil {
		log = discardLogger()
	}
	log.Infof("loading registry file: %q", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &vperrors.ParseError{Source: path, Reason: "reading file", Err: err}
	}

	var doc xmlRegistry
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &vperrors.ParseError{Source: path, Reason: "decoding XML", Err: err}
	}

	reg := &Registry{
		Platforms:  map[string]*Platform{},
		Versions:   orderedmap.NewOrderedMap[string, *Version](),
		Extensions: orderedmap.NewOrderedMap[string, *Extension](),
		Structs:    orderedmap.NewOrderedMap[string, *Struct](),
	}

	if err := reg.parsePlatformInfo(doc); err != nil {
		return nil, err
	}
	if err := reg.parseVersionInfo(doc); err != nil {
		return nil, err
	}
	if err := reg.parseExtensionInfo(doc, log); err != nil {
		return nil, err
	}
	if err := reg.parseStructInfo(doc); err != nil {
		return nil, err
	}
	reg.parsePrerequisites(doc)
	if err := reg.parseAliases(doc); err != nil {
		return nil, err
	}
	reg.applyWorkarounds()

	return reg, nil
}

func (r *Registry) parsePlatformInfo(doc xmlRegistry) error {
	for _, p := range doc.Platforms {
		r.Platforms[p.Name] = &Platform{Name: p.Name, Protect: p.Protect}
	}
	return nil
}

func (r *Registry) parseVersionInfo(doc xmlRegistry) error {
	for _, f := range doc.Features {
		if !versionNumberRe.MatchString(f.Number) {
			return &vperrors.RegistryConsistency{
				Subject: "feature " + f.Name,
				Reason:  "unsupported feature number " + f.Number,
			}
		}
		v := &Version{Name: f.Name, Number: f.Number}
		v.STypeAliases = parseSTypeAliases(f.Requires)
		r.Versions.Set(f.Number, v)
	}
	return nil
}

func (r *Registry) parseExtensionInfo(doc xmlRegistry, log *logrus.Logger) error {
	for _, ext := range doc.Extensions {
		if ext.Supported != "vulkan" {
			continue
		}
		upper, err := findExtensionNameEnum(ext)
		if err != nil {
			return err
		}
		e := &Extension{
			Name:          ext.Name,
			UpperCaseName: upper,
			Type:          ext.Type,
			Platform:      ext.Platform,
		}
		e.STypeAliases = parseSTypeAliases(ext.Requires)
		r.Extensions.Set(ext.Name, e)
	}
	return nil
}

// findExtensionNameEnum replicates the original's quirky lookup: scan the
// extension's <require><enum> children for one whose quoted string value
// equals the extension name, and whose own enumerant name ends in
// "_EXTENSION_NAME" — not just the first enum encountered, since some
// registry entries define more than one enum sharing that literal string.
func findExtensionNameEnum(ext xmlExtension) (string, error) {
	want := `"` + ext.Name + `"`
	for _, req := range ext.Requires {
		for _, e := range req.Enums {
			if e.Value == want && strings.HasSuffix(e.Name, "_EXTENSION_NAME") {
				return strings.TrimSuffix(e.Name, "_EXTENSION_NAME"), nil
			}
		}
	}
	return "", &vperrors.RegistryConsistency{
		Subject: "extension " + ext.Name,
		Reason:  "cannot find name enum",
	}
}

func parseSTypeAliases(requires []xmlRequire) map[string]string {
	out := map[string]string{}
	for _, req := range requires {
		for _, e := range req.Enums {
			if e.Alias != "" && sTypeAliasNameRe.MatchString(e.Name) {
				out[e.Alias] = e.Name
			}
		}
	}
	return out
}

func (r *Registry) parseStructInfo(doc xmlRegistry) error {
	for _, t := range doc.Types {
		if t.Category != "struct" {
			continue
		}
		s := &Struct{
			Name:    t.Name,
			Aliases: []string{t.Name},
			Members: orderedmap.NewOrderedMap[string, *StructMember](),
		}
		if t.StructExtends != "" {
			s.Extends = strings.Split(t.StructExtends, ",")
		}

		for _, m := range t.Members {
			if m.Name == "sType" {
				s.SType = m.Values
				continue
			}
			if m.Name == "pNext" {
				continue
			}
			member := &StructMember{
				Name:      m.Name,
				Type:      m.Type,
				LimitType: m.LimitType,
				IsArray:   arrayTailRe.MatchString(m.Raw),
			}
			s.Members.Set(m.Name, member)
		}

		r.Structs.Set(t.Name, s)
	}
	return nil
}

func (r *Registry) parsePrerequisites(doc xmlRegistry) {
	for _, f := range doc.Features {
		for _, req := range f.Requires {
			for _, ty := range req.Types {
				if s, ok := r.Structs.Get(ty.Name); ok && s.DefinedByVersion == "" {
					s.DefinedByVersion = f.Number
				}
			}
		}
	}
	for _, ext := range doc.Extensions {
		if ext.Supported != "vulkan" {
			continue
		}
		for _, req := range ext.Requires {
			for _, ty := range req.Types {
				if s, ok := r.Structs.Get(ty.Name); ok {
					s.DefinedByExtensions = append(s.DefinedByExtensions, ext.Name)
				}
			}
		}
	}
}

func (r *Registry) parseAliases(doc xmlRegistry) error {
	for _, t := range doc.Types {
		if t.Category != "struct" || t.Alias == "" {
			continue
		}
		base, ok := r.Structs.Get(t.Alias)
		if !ok {
			return &vperrors.RegistryConsistency{
				Subject: "struct " + t.Name,
				Reason:  "failed to find alias " + t.Alias,
			}
		}
		aliasDef, ok := r.Structs.Get(t.Name)
		if !ok {
			return &vperrors.RegistryConsistency{
				Subject: "struct " + t.Name,
				Reason:  "alias struct missing from registry",
			}
		}

		aliasDef.Extends = base.Extends
		aliasDef.Members = base.Members
		aliasDef.Aliases = base.Aliases
		aliasDef.Aliases = append(aliasDef.Aliases, t.Name)

		if base.SType == "" {
			continue
		}

		sTypeAlias, err := r.findSTypeAlias(base, aliasDef)
		if err != nil {
			return errors.Wrapf(err, "resolving sType alias of %s", t.Alias)
		}
		if sTypeAlias == "" {
			return &vperrors.RegistryConsistency{
				Subject: "alias " + t.Alias + " of struct " + t.Name,
				Reason:  "could not find sType enum of alias",
			}
		}
		aliasDef.SType = sTypeAlias
	}
	return nil
}

// findSTypeAlias mirrors the original's two-pass search: first across core
// versions at or below the alias's defining version (numeric, via semver,
// resolving Open Question 1 about the original's string-prefix
// comparison), then across the alias's defining extensions.
func (r *Registry) findSTypeAlias(base, alias *Struct) (string, error) {
	if alias.DefinedByVersion != "" {
		aliasVer, err := normalizeVersion(alias.DefinedByVersion)
		if err != nil {
			return "", err
		}
		for entry := r.Versions.Front(); entry != nil; entry = entry.Next() {
			verNum, err := normalizeVersion(entry.Key)
			if err != nil {
				return "", err
			}
			if verNum.Compare(aliasVer) <= 0 {
				if s := entry.Value.STypeAliases[base.SType]; s != "" {
					return s, nil
				}
			}
		}
	}

	for _, extName := range alias.DefinedByExtensions {
		ext, ok := r.Extensions.Get(extName)
		if !ok {
			continue
		}
		if s := ext.STypeAliases[base.SType]; s != "" {
			return s, nil
		}
	}

	return "", nil
}

func normalizeVersion(v string) (*semver.Version, error) {
	full := v
	if strings.Count(v, ".") == 1 {
		full = v + ".0"
	}
	sv, err := semver.NewVersion(full)
	if err != nil {
		return nil, &vperrors.ParseError{Source: v, Reason: "invalid version number", Err: err}
	}
	return sv, nil
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(discardWriter{})
	return l
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
