package value

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gogpu/vpgen/internal/vperrors"
)

func decodeString(t *testing.T, s string) Value {
	t.Helper()
	v, err := Decode(strings.NewReader(s), "test")
	require.NoError(t, err)
	return v
}

func TestDecodePreservesObjectOrder(t *testing.T) {
	v := decodeString(t, `{"c": 1, "a": 2, "b": 3}`)
	require.Equal(t, KindObject, v.Kind)

	var keys []string
	for e := v.Object.Front(); e != nil; e = e.Next() {
		keys = append(keys, e.Key)
	}
	require.Equal(t, []string{"c", "a", "b"}, keys)
}

func TestDecodeEnumListVsArray(t *testing.T) {
	enumList := decodeString(t, `["VK_CULL_MODE_BACK_BIT", "VK_CULL_MODE_FRONT_BIT"]`)
	require.Equal(t, KindEnumList, enumList.Kind)
	require.Len(t, enumList.List, 2)
	require.True(t, enumList.List[0].IsString)

	numArray := decodeString(t, `[1, 2, 3]`)
	require.Equal(t, KindArray, numArray.Kind)
	require.Equal(t, "1", numArray.List[0].Scalar)
}

func TestDecodeNumberFormatting(t *testing.T) {
	v := decodeString(t, `{"a": 4, "b": 0.5}`)
	a, _ := v.Object.Get("a")
	b, _ := v.Object.Get("b")
	require.Equal(t, "4", a.Scalar)
	require.Equal(t, "0.5", b.Scalar)
}

func TestMergeObjectRecursesAndOverwrites(t *testing.T) {
	dst := decodeString(t, `{"features": {"robustBufferAccess": true}}`)
	src := decodeString(t, `{"features": {"robustBufferAccess": false, "samplerAnisotropy": true}}`)

	require.NoError(t, Merge(&dst, src, "p", "root"))

	features, ok := dst.Object.Get("features")
	require.True(t, ok)
	require.Equal(t, 2, features.Object.Len())

	rba, ok := features.Object.Get("robustBufferAccess")
	require.True(t, ok)
	require.False(t, rba.Bool)
}

func TestMergeArrayConcatenates(t *testing.T) {
	dst := decodeString(t, `{"formats": [1, 2]}`)
	src := decodeString(t, `{"formats": [3]}`)

	require.NoError(t, Merge(&dst, src, "p", "root"))

	formats, _ := dst.Object.Get("formats")
	require.Len(t, formats.List, 3)
}

func TestMergeTypeMismatchConflicts(t *testing.T) {
	dst := decodeString(t, `{"limit": 4}`)
	src := decodeString(t, `{"limit": {"nested": true}}`)

	err := Merge(&dst, src, "p", "root")
	require.Error(t, err)

	var conflict *vperrors.ProfileConflict
	require.True(t, errors.As(err, &conflict))
}
