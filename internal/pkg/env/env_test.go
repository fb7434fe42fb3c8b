package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv_PrefersLoadedMap(t *testing.T) {
	t.Setenv("GATEWAYKIT_TEST_KEY", "from-os")
	Env = map[string]string{"GATEWAYKIT_TEST_KEY": "from-file"}
	t.Cleanup(func() { Env = nil })

	assert.Equal(t, "from-file", GetEnv("GATEWAYKIT_TEST_KEY", "default"))
}

func TestGetEnv_FallsBackToOSThenDefault(t *testing.T) {
	Env = map[string]string{}
	t.Cleanup(func() { Env = nil })

	t.Setenv("GATEWAYKIT_TEST_KEY", "from-os")
	assert.Equal(t, "from-os", GetEnv("GATEWAYKIT_TEST_KEY", "default"))
	assert.Equal(t, "default", GetEnv("GATEWAYKIT_MISSING_KEY", "default"))
}

func TestGetEnvInt(t *testing.T) {
	Env = map[string]string{
		"GOOD": "42",
		"BAD":  "forty-two",
	}
	t.Cleanup(func() { Env = nil })

	assert.Equal(t, 42, GetEnvInt("GOOD", 7))
	assert.Equal(t, 7, GetEnvInt("BAD", 7))
	assert.Equal(t, 7, GetEnvInt("MISSING", 7))
}
