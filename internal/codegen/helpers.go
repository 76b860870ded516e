package codegen

import (
	"strings"

	"github.com/gogpu/vpgen/internal/vperrors"
)

func upper(s string) string { return strings.ToUpper(s) }

// vkMakeVersionArgs turns a profile's "X.Y.Z" api-version into the three
// comma-separated arguments VK_MAKE_VERSION expects, the same string
// transform the original tooling applies (profile.apiVersion.replace(".", ", ")).
func vkMakeVersionArgs(apiVersion string) (string, error) {
	parts := strings.Split(apiVersion, ".")
	if len(parts) != 3 {
		return "", &vperrors.EmitterError{Subject: "api-version " + apiVersion, Reason: "expected three dot-separated components"}
	}
	return strings.Join(parts, ", "), nil
}
