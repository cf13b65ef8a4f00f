package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		in   string
		want []int
	}{
		{"", nil},
		{",,", nil},
		{"5", []int{5}},
		{"1,3", []int{1, 3}},
		{"4-6", []int{4, 5, 6}},
		{"1, 4-6 ,9", []int{1, 4, 5, 6, 9}},
		{"0x10-0x12", []int{16, 17, 18}},
		{"7-", []int{7}},
		{"6-4", nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInvalid(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseInvalidErrors(t *testing.T) {
	for _, in := range []string{"1-2-3", "abc", "4-x", "1,-"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseInvalid(in)
			var cerr *ConfigError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, in, cerr.Value)
		})
	}
}

func TestConfigErrorMessage(t *testing.T) {
	err := &ConfigError{Feature: "Gain", Value: "x", Message: "bad"}
	assert.Equal(t, `feature Gain: bad "x"`, err.Error())

	err = &ConfigError{Value: "x", Message: "bad"}
	assert.Equal(t, `bad "x"`, err.Error())
}
