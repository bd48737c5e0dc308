package index

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utkarsh5026/rgit/pkg/common/errs"
	"github.com/utkarsh5026/rgit/pkg/objects"
	"github.com/utkarsh5026/rgit/pkg/repository/scpath"
)

var (
	digestHello = objects.ComputeDigest([]byte("hello"))
	digestMain  = objects.ComputeDigest([]byte("fn main(){}"))
)

func TestIndex_RecordReplaces(t *testing.T) {
	idx := NewIndex()

	require.NoError(t, idx.Record("README", digestHello, KindFile))
	require.NoError(t, idx.Record("README", digestMain, KindFile))

	assert.Equal(t, 1, idx.Count())
	e, ok := idx.Get("README")
	require.True(t, ok)
	assert.Equal(t, digestMain, e.Digest)
	assert.Equal(t, KindFile, e.Kind)
}

func TestIndex_RecordRejects(t *testing.T) {
	tests := []struct {
		name   string
		path   scpath.RelativePath
		digest objects.Digest
		kind   Kind
	}{
		{"directory kind", "src", digestHello, KindDirectory},
		{"empty path", "", digestHello, KindFile},
		{"absolute path", "/etc/passwd", digestHello, KindFile},
		{"parent escape", "../x", digestHello, KindFile},
		{"unclean path", "a//b", digestHello, KindFile},
		{"newline", "a\nb", digestHello, KindFile},
		{"carriage return", "a\rb", digestHello, KindFile},
		{"nul", "a\x00b", digestHello, KindFile},
		{"metadata", ".rgit/HEAD", digestHello, KindFile},
		{"bad digest", "a", "xyz", KindFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := NewIndex()
			err := idx.Record(tt.path, tt.digest, tt.kind)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errs.ErrInvalidInput), "got %v", err)
			assert.True(t, idx.IsEmpty())
		})
	}
}

func TestIndex_RecordFileDirectoryConflict(t *testing.T) {
	idx := NewIndex()

	require.NoError(t, idx.Record("a", digestHello, KindFile))
	require.NoError(t, idx.Record("a/b", digestMain, KindFile))

	assert.False(t, idx.Has("a"), "file a must give way to directory a")
	assert.True(t, idx.Has("a/b"))

	require.NoError(t, idx.Record("a/c/d", digestMain, KindFile))
	require.NoError(t, idx.Record("a", digestHello, KindFile))

	assert.Equal(t, []Entry{{Path: "a", Digest: digestHello, Kind: KindFile}}, idx.Entries())
}

func TestIndex_PathsWithSpaces(t *testing.T) {
	idx := NewIndex()
	require.NoError(t, idx.Record("my docs/read me.txt", digestHello, KindFile))

	parsed, err := Parse(idx.Serialize())
	require.NoError(t, err)

	e, ok := parsed.Get("my docs/read me.txt")
	require.True(t, ok)
	assert.Equal(t, digestHello, e.Digest)
}

func TestIndex_SerializeSorted(t *testing.T) {
	idx := NewIndex()
	require.NoError(t, idx.Record("src/main", digestMain, KindFile))
	require.NoError(t, idx.Record("README", digestHello, KindFile))
	require.NoError(t, idx.Record("a b", digestHello, KindFile))

	want := digestHello.String() + " README\n" +
		digestHello.String() + " a b\n" +
		digestMain.String() + " src/main\n"
	assert.Equal(t, want, string(idx.Serialize()))
}

func TestIndex_RemoveUnder(t *testing.T) {
	idx := NewIndex()
	for _, p := range []scpath.RelativePath{"src/a", "src/b/c", "srcx", "README"} {
		require.NoError(t, idx.Record(p, digestHello, KindFile))
	}

	removed := idx.RemoveUnder("src")
	assert.Equal(t, []scpath.RelativePath{"src/a", "src/b/c"}, removed)
	assert.True(t, idx.Has("srcx"))
	assert.True(t, idx.Has("README"))

	assert.True(t, idx.Remove("README"))
	assert.False(t, idx.Remove("README"))
	assert.Equal(t, 1, idx.Count())

	idx.Clear()
	assert.True(t, idx.IsEmpty())
}

func TestParse(t *testing.T) {
	line := func(d objects.Digest, p string) string { return d.String() + " " + p + "\n" }

	for _, data := range []string{"", "\n", "\n\n", " \t\n"} {
		t.Run(fmt.Sprintf("empty %q", data), func(t *testing.T) {
			idx, err := Parse([]byte(data))
			require.NoError(t, err)
			assert.True(t, idx.IsEmpty())
		})
	}

	t.Run("missing final newline", func(t *testing.T) {
		idx, err := Parse([]byte(digestHello.String() + " README"))
		require.NoError(t, err)
		assert.True(t, idx.Has("README"))
	})

	corruptCases := map[string]string{
		"blank line":        line(digestHello, "a") + "\n" + line(digestMain, "b"),
		"short digest":      "abc README\n",
		"no path":           digestHello.String() + "\n",
		"empty path":        digestHello.String() + " \n",
		"no separator":      digestHello.String() + "README\n",
		"upper-case digest": "AAF4C61DDCC5E8A2DABEDE0F3B482CD9AEA9434D README\n",
		"duplicate":         line(digestHello, "README") + line(digestMain, "README"),
		"absolute path":     line(digestHello, "/README"),
		"escaping path":     line(digestHello, "../README"),
		"file and dir":      line(digestHello, "a") + line(digestMain, "a/b"),
		"metadata path":     line(digestHello, ".rgit/index"),
	}

	for name, data := range corruptCases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errs.ErrIndexCorrupt), "got %v", err)
		})
	}
}

func TestIndex_ConcurrentRecord(t *testing.T) {
	idx := NewIndex()
	done := make(chan struct{})

	for i := 0; i < 50; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			p := scpath.RelativePath("dir/file" + string(rune('a'+i%26)) + string(rune('a'+i/26)))
			assert.NoError(t, idx.Record(p, digestHello, KindFile))
		}()
	}
	for i := 0; i < 50; i++ {
		<-done
	}

	assert.Equal(t, 50, idx.Count())
}
