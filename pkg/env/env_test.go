package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", []string{}},
		{"only separators", " , ,, ", []string{}},
		{"trimmed", " http://a , http://b", []string{"http://a", "http://b"}},
		{"single", "http://a", []string{"http://a"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SplitList(tc.raw))
		})
	}
}

func TestGetEnvDefaults(t *testing.T) {
	t.Setenv("GW_TEST_INT", "42")
	t.Setenv("GW_TEST_BAD_INT", "forty")
	t.Setenv("GW_TEST_BOOL", "false")
	t.Setenv("GW_TEST_DURATION", "750ms")
	t.Setenv("GW_TEST_BLANK", "   ")

	assert.Equal(t, 42, GetEnvIntOrDefault("GW_TEST_INT", 1))
	assert.Equal(t, 1, GetEnvIntOrDefault("GW_TEST_BAD_INT", 1))
	assert.False(t, GetEnvBoolOrDefault("GW_TEST_BOOL", true))
	assert.Equal(t, 750*time.Millisecond, GetEnvDurationOrDefault("GW_TEST_DURATION", time.Second))
	assert.Equal(t, "fallback", GetEnvStringOrDefault("GW_TEST_BLANK", "fallback"))
	assert.Equal(t, "fallback", GetEnvStringOrDefault("GW_TEST_UNSET", "fallback"))
}
