package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeBioStripsMarkup(t *testing.T) {
	assert.Equal(t, "hello", SanitizeBio("<script>alert(1)</script>hello"))
	assert.Equal(t, "I love fractions", SanitizeBio("I love <b>fractions</b>"))
	assert.Equal(t, "", SanitizeBio(""))
}
