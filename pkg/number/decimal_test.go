package number

import (
	"testing"

	"github.com/bmizerany/assert"
)

func TestCeil(t *testing.T) {
	data := map[string]string{
		"0.10304":     "0.11",
		"0.100000001": "0.11",
		"0.108":       "0.11",
		"0.1":         "0.1",
	}

	for k, v := range data {
		t.Run(k, func(t *testing.T) {
			c := Ceil(Decimal(k), 2)
			assert.Equal(t, v, c.String(), "should be ceil")
		})
	}
}

func TestDecimal(t *testing.T) {
	assert.Equal(t, "0.10304", Decimal("0.10304").String())
	assert.Equal(t, "0", Decimal("not a number").String())
}
