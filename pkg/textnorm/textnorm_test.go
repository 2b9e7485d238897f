package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestASCII(t *testing.T) {
	assert.Equal(t, "Penalosa Nunez", ASCII("Peñalosa Núñez"))
	assert.Equal(t, "Almacen Lima", ASCII("Almacén Lima"))
	assert.Equal(t, "plain", ASCII("plain"))
	assert.Equal(t, "?", ASCII("€"))
}
