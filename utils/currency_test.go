package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatRupees(t *testing.T) {
	cases := map[float64]string{
		0:         "Rs. 0.00",
		999:       "Rs. 999.00",
		1000:      "Rs. 1,000.00",
		150000:    "Rs. 1,50,000.00",
		1234567.5: "Rs. 12,34,567.50",
		-2500:     "-Rs. 2,500.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatRupees(in), "amount %v", in)
	}
}
