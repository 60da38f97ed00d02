package testdata

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePattern(t *testing.T) {
	for _, p := range Patterns() {
		parsed, err := ParsePattern(string(p))
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}

	_, err := ParsePattern("zeroes")
	require.Error(t, err)
}

func TestGenerateSizes(t *testing.T) {
	for _, p := range Patterns() {
		for _, size := range []int64{0, 1, 7, 1024, 10240} {
			data := p.Generate(size)
			assert.Len(t, data, int(size), "pattern %s size %d", p, size)
		}
	}
}

func TestRepetitivePattern(t *testing.T) {
	data := Repetitive.Generate(2048)
	assert.Equal(t, []byte("ABCDEFGH"), data[:8])
	assert.Equal(t, data[:1024], data[1024:2048])
}

func TestWriteFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	dir := "/bench/input"

	require.NoError(t, WriteFiles(fs, dir, 5, 512, Text))

	for i := 0; i < 5; i++ {
		name := filepath.Join(dir, fmt.Sprintf("testfile_%04d.dat", i))
		info, err := fs.Stat(name)
		require.NoError(t, err)
		assert.Equal(t, int64(512), info.Size())
	}
}
