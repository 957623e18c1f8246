package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	d := NewDetector([]string{"es", "en"}, "es")

	assert.Equal(t, "es",
		d.Detect("El perro de mi vecino ladra todas las noches cuando la luna está llena y nadie puede dormir en la calle."))
	assert.Equal(t, "en",
		d.Detect("The quick brown fox jumps over the lazy dog while the farmer is sleeping in the old wooden house."))
}

func TestDetectFallback(t *testing.T) {
	d := NewDetector([]string{"es", "en"}, "es")

	assert.Equal(t, "es", d.Detect(""))
	assert.Equal(t, "es", d.Detect("   "))
	assert.Equal(t, "es", d.Detect("1234 5678"))
}

func TestByCode(t *testing.T) {
	l, ok := byCode(" ES ")
	assert.True(t, ok)
	assert.Equal(t, "es", l.Iso6391())

	_, ok = byCode("xx")
	assert.False(t, ok)
}
