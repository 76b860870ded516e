package profile

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/elliotchance/orderedmap/v3"
	"github.com/sirupsen/logrus"

	"github.com/gogpu/vpgen/internal/registry"
	"github.com/gogpu/vpgen/internal/value"
	"github.com/gogpu/vpgen/internal/vperrors"
)

// LoadDir walks dir for *.json profile files, parses each one, and resolves
// every profile it declares against reg, using that same file's
// "capabilities" fragment pool (pools are not shared between files). The
// returned map preserves the order profiles were first encountered across
// files (processed in directory listing order).
func LoadDir(reg *registry.Registry, dir string, log *logrus.Logger) (*orderedmap.OrderedMap[string, *Profile], error) {
	if log == nil {
		log = discardLogger()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &vperrors.ParseError{Source: dir, Reason: "listing profiles directory", Err: err}
	}

	profiles := orderedmap.NewOrderedMap[string, *Profile]()

	for _, entry := range entries {
		if entry.IsDir() || strings.ToLower(filepath.Ext(entry.Name())) != ".json" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		log.Infof("loading profile file: %q", entry.Name())

		if err := loadProfileFile(reg, path, profiles); err != nil {
			return nil, err
		}
	}

	return profiles, nil
}

func loadProfileFile(reg *registry.Registry, path string, out *orderedmap.OrderedMap[string, *Profile]) error {
	f, err := os.Open(path)
	if err != nil {
		return &vperrors.ParseError{Source: path, Reason: "opening profile file", Err: err}
	}
	defer f.Close()

	doc, err := value.Decode(f, path)
	if err != nil {
		return err
	}
	if doc.Kind != value.KindObject {
		return &vperrors.ParseError{Source: path, Reason: "profile file is not a JSON object"}
	}

	capsData, _ := doc.Object.Get("capabilities")
	profilesData, ok := doc.Object.Get("profiles")
	if !ok {
		return &vperrors.ParseError{Source: path, Reason: `missing top-level "profiles" key`}
	}

	fragments := map[string]value.Value{}
	if capsData.Kind == value.KindObject {
		for e := capsData.Object.Front(); e != nil; e = e.Next() {
			fragments[e.Key] = e.Value
		}
	}

	if profilesData.Kind != value.KindObject {
		return &vperrors.ParseError{Source: path, Reason: `"profiles" is not a JSON object`}
	}

	for e := profilesData.Object.Front(); e != nil; e = e.Next() {
		name := e.Key
		if _, exists := out.Get(name); exists {
			return &vperrors.ParseError{Source: path, Reason: "duplicate profile name " + name}
		}

		p, err := resolveProfile(reg, name, e.Value, fragments)
		if err != nil {
			return err
		}
		out.Set(name, p)
	}

	return nil
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(discardWriter{})
	return l
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
