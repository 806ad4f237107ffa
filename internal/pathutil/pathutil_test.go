package pathutil

import (
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	table := []struct {
		env        string
		wantConfig string
		wantDB     string
		wantLog    string
	}{
		{
			wantConfig: "config.yml",
			wantDB:     "cadence.db",
			wantLog:    "cadence.log",
		},
		{
			env:        "dev",
			wantConfig: "config_dev.yml",
			wantDB:     "cadence_dev.db",
			wantLog:    "cadence_dev.log",
		},
	}

	for _, tc := range table {
		t.Run("env="+tc.env, func(t *testing.T) {
			configHome := t.TempDir()
			dataHome := t.TempDir()

			t.Setenv("XDG_CONFIG_HOME", configHome)
			t.Setenv("XDG_DATA_HOME", dataHome)
			t.Setenv("CADENCE_ENV", tc.env)

			xdg.Reload()

			p, err := newPaths()
			require.NoError(t, err)

			assert.Equal(t, filepath.Join(configHome, appDir, tc.wantConfig), p.configFilePath)
			assert.Equal(t, filepath.Join(dataHome, appDir, tc.wantDB), p.dbFilePath)
			assert.Equal(t, filepath.Join(dataHome, appDir, "log", tc.wantLog), p.logFilePath)
			assert.Equal(t, filepath.Join(dataHome, appDir), filepath.Dir(p.statusFilePath))
		})
	}
}
