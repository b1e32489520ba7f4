package rand

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLetterString(t *testing.T) {
	name := LetterString(20)
	assert.Len(t, name, 20)
	assert.Regexp(t, regexp.MustCompile(`^[a-z0-9]+$`), name)
	assert.NotEqual(t, name, LetterString(20))
}

func benchmarkRandLetterBytes(b *testing.B, size int) {
	for n := 0; n < b.N; n++ {
		_ = randLetterBytes(size)
	}
}

func BenchmarkRandLetterBytes20(b *testing.B)   { benchmarkRandLetterBytes(b, 20) }
func BenchmarkRandLetterBytes1000(b *testing.B) { benchmarkRandLetterBytes(b, 1000) }
