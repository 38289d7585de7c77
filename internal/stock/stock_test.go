package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func count(n int64) *int64 { return &n }

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		count *int64
		want  Status
	}{
		{"nil count", nil, StatusOutOfStock},
		{"zero", count(0), StatusOutOfStock},
		{"negative", count(-3), StatusOutOfStock},
		{"one", count(1), StatusLowStock},
		{"at threshold", count(2), StatusLowStock},
		{"above threshold", count(3), StatusInStock},
		{"plenty", count(50), StatusInStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.count))
		})
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Currently sold out", Message(nil))
	assert.Equal(t, "Currently sold out", Message(count(0)))
	assert.Equal(t, "Only 1 left in stock", Message(count(1)))
	assert.Equal(t, "Only 2 left in stock", Message(count(2)))
	assert.Equal(t, "In stock", Message(count(5)))
}

func TestClassifyIsPure(t *testing.T) {
	c := count(1)
	first := Classify(c)
	second := Classify(c)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), *c, "input must not be mutated")
}
