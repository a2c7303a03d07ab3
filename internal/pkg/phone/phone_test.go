package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"(650) 253-0000", "+16502530000"},
		{"650.253.0000", "+16502530000"},
		{"+1 650 253 0000", "+16502530000"},
		{"+44 20 7031 3000", "+442070313000"},
	}

	for _, tc := range cases {
		got, err := Normalize(tc.in, "")
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestNormalize_Rejects(t *testing.T) {
	for _, in := range []string{"", "   ", "12", "not a phone"} {
		_, err := Normalize(in, "")
		assert.Error(t, err, in)
	}
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "(650) 253-0000", Display("+16502530000"))
	assert.Equal(t, "+44 20 7031 3000", Display("+442070313000"))
	assert.Equal(t, "garbage", Display("garbage"))
}
