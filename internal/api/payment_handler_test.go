package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceToSen(t *testing.T) {
	assert.Equal(t, int64(120000), priceToSen(1200))
	assert.Equal(t, int64(9999), priceToSen(99.99))
	assert.Equal(t, int64(10), priceToSen(0.1))
	assert.Equal(t, int64(0), priceToSen(0))
}
