package id

import (
	"testing"

	"github.com/asaskevich/govalidator"
	"github.com/stretchr/testify/assert"
)

func TestTraceID(t *testing.T) {
	a, b := GenTraceID(), GenTraceID()
	assert.NotEqual(t, a, b)
	assert.True(t, govalidator.IsUUID(a))

	from := TraceIDFrom("price-btc-100")
	assert.Equal(t, from, TraceIDFrom("price-btc-100"))
	assert.NotEqual(t, from, TraceIDFrom("price-btc-101"))
	assert.True(t, govalidator.IsUUID(from))
}
