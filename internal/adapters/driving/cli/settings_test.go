package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/placemap/internal/core/domain"
	"github.com/custodia-labs/placemap/internal/core/ports/driving"
)

func TestSettingsShowCmd(t *testing.T) {
	ms := newMockSettingsService()
	ms.list = []driving.Setting{
		{Key: "cache.backend", Value: "sqlite"},
		{Key: "cache.path", Value: "", IsDefault: true},
		{Key: "browser.settle_ms", Value: "500", IsDefault: true},
	}
	setupServices(t, &Services{Settings: ms})

	out, err := execute(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "[cache]")
	assert.Contains(t, out, "cache.backend = sqlite\n")
	assert.Contains(t, out, "cache.path = (not set) (default)")
	assert.Contains(t, out, "[browser]")
	assert.Contains(t, out, "browser.settle_ms = 500 (default)")
}

func TestSettingsCmd_DefaultsToShow(t *testing.T) {
	ms := newMockSettingsService()
	ms.list = []driving.Setting{{Key: "isolation.metric", Value: "planar", IsDefault: true}}
	setupServices(t, &Services{Settings: ms})

	out, err := execute(t, "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Current Settings")
	assert.Contains(t, out, "isolation.metric = planar")
}

func TestSettingsSetCmd(t *testing.T) {
	ms := newMockSettingsService()
	setupServices(t, &Services{Settings: ms})

	out, err := execute(t, "settings", "set", "browser.consent_labels", "I agree,Accept all")

	require.NoError(t, err)
	assert.Equal(t, "I agree,Accept all", ms.set["browser.consent_labels"])
	assert.Contains(t, out, "Set browser.consent_labels")
}

func TestSettingsSetCmd_Error(t *testing.T) {
	ms := newMockSettingsService()
	ms.setErr = domain.ErrInvalidInput
	setupServices(t, &Services{Settings: ms})

	_, err := execute(t, "settings", "set", "cache.backend", "redis")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsSetCmd_PromptsForChoice(t *testing.T) {
	ms := newMockSettingsService()
	setupServices(t, &Services{Settings: ms})
	rootCmd.SetIn(strings.NewReader("2\n"))

	out, err := execute(t, "settings", "set", "isolation.metric")

	require.NoError(t, err)
	assert.Contains(t, out, "1. planar")
	assert.Equal(t, "great_circle", ms.set["isolation.metric"])
}

func TestSettingsSetCmd_PromptDefault(t *testing.T) {
	ms := newMockSettingsService()
	setupServices(t, &Services{Settings: ms})
	rootCmd.SetIn(strings.NewReader("\n"))

	_, err := execute(t, "settings", "set", "cache.backend")

	require.NoError(t, err)
	assert.Equal(t, "json", ms.set["cache.backend"])
}

func TestSettingsSetCmd_MissingValue(t *testing.T) {
	setupServices(t, &Services{Settings: newMockSettingsService()})

	_, err := execute(t, "settings", "set", "browser.settle_ms")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsSetCmd_LongListsKeys(t *testing.T) {
	assert.Contains(t, settingsSetCmd.Long, "browser.rate_per_second")
	assert.Contains(t, settingsSetCmd.Long, "isolation.metric")
}

func TestSettingsCmds_NotConfigured(t *testing.T) {
	setupServices(t, nil)

	_, err := execute(t, "settings", "show")
	assert.ErrorIs(t, err, errNotConfigured)

	_, err = execute(t, "settings", "set", "cache.backend", "json")
	assert.ErrorIs(t, err, errNotConfigured)
}

// Test helper functions in settings.go

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{"Empty input returns default", "", 5, 1, 1},
		{"Valid choice within range", "3", 5, 1, 3},
		{"Choice below minimum returns default", "0", 5, 1, 1},
		{"Choice above maximum returns default", "6", 5, 1, 1},
		{"Invalid input returns default", "abc", 5, 2, 2},
		{"Negative number returns default", "-1", 5, 1, 1},
		{"Maximum value is valid", "5", 5, 1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseChoice(tt.input, tt.maxVal, tt.defaultVal))
		})
	}
}

func TestSettingChoices(t *testing.T) {
	assert.Equal(t, []string{"json", "sqlite", "memory"}, settingChoices("cache.backend"))
	assert.Equal(t, []string{"planar", "great_circle"}, settingChoices("isolation.metric"))
	assert.Nil(t, settingChoices("browser.headless"))
}
