package stealth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatchesJS(t *testing.T) {
	require.NotEmpty(t, PatchesJS, "embedded patch script must be present")

	// The script must neutralize every runtime property the known bot checks
	// inspect.
	for _, marker := range []string{"webdriver", "plugins", "languages", "window.chrome"} {
		assert.Contains(t, PatchesJS, marker)
	}

	t.Run("script is an IIFE that leaks nothing", func(t *testing.T) {
		trimmed := strings.TrimSpace(PatchesJS)
		assert.True(t, strings.HasSuffix(trimmed, "})();"))
	})
}

func TestAllocatorOptions(t *testing.T) {
	opts := AllocatorOptions("Mozilla/5.0 (test)", "en-US", 1280, 800, true)
	// Defaults plus the stealth and identity flags.
	assert.Greater(t, len(opts), 10)

	t.Run("headed mode still yields a full option set", func(t *testing.T) {
		headed := AllocatorOptions("Mozilla/5.0 (test)", "en-US", 1280, 800, false)
		assert.Greater(t, len(headed), 10)
	})
}

func TestPrime(t *testing.T) {
	tasks := Prime("Mozilla/5.0 (test)", "en-US")
	assert.Len(t, tasks, 2)
}
