package testdata

// Synthetic input generation for benchmark workloads.

import (
	"bytes"
	crand "crypto/rand"
	"fmt"
	mrand "math/rand"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Pattern selects the shape of generated data. The set is closed: anything
// else is rejected by ParsePattern, so downstream dispatch never needs a
// fallback branch.
type Pattern string

const (
	Random     Pattern = "random"     // incompressible binary data
	Text       Pattern = "text"       // word soup, compresses reasonably
	Repetitive Pattern = "repetitive" // fixed byte pattern, compresses best
)

func Patterns() []Pattern {
	return []Pattern{Random, Text, Repetitive}
}

func ParsePattern(s string) (Pattern, error) {
	switch Pattern(s) {
	case Random, Text, Repetitive:
		return Pattern(s), nil
	}
	return "", fmt.Errorf("unknown data pattern %q (expected one of: random, text, repetitive)", s)
}

var loremWords = []string{
	"lorem", "ipsum", "dolor", "sit", "amet", "consectetur",
	"adipiscing", "elit", "sed", "do", "eiusmod", "tempor",
}

// Generate returns size bytes of data in the given pattern.
func (p Pattern) Generate(size int64) []byte {
	switch p {
	case Random:
		data := make([]byte, size)
		crand.Read(data)
		return data
	case Text:
		var b strings.Builder
		b.Grow(int(size) + 16)
		for int64(b.Len()) < size {
			b.WriteString(loremWords[mrand.Intn(len(loremWords))])
			b.WriteByte(' ')
		}
		return []byte(b.String()[:size])
	case Repetitive:
		pattern := bytes.Repeat([]byte("ABCDEFGH"), 128)
		repeated := bytes.Repeat(pattern, int(size/int64(len(pattern)))+1)
		return repeated[:size]
	}
	// unreachable for patterns produced by ParsePattern
	panic(fmt.Sprintf("invalid data pattern %q", string(p)))
}

// WriteFiles generates numFiles files of fileSize bytes each under dir,
// creating the directory if needed. File names follow testfile_NNNN.dat.
func WriteFiles(fs afero.Fs, dir string, numFiles int, fileSize int64, pattern Pattern) error {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create input directory: %w", err)
	}
	for i := 0; i < numFiles; i++ {
		name := filepath.Join(dir, fmt.Sprintf("testfile_%04d.dat", i))
		if err := afero.WriteFile(fs, name, pattern.Generate(fileSize), 0o644); err != nil {
			return fmt.Errorf("could not write %s: %w", name, err)
		}
	}
	return nil
}
