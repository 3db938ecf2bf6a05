package pathutil

import (
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setXDG(t *testing.T) (configHome, dataHome string) {
	t.Helper()

	dir := t.TempDir()
	configHome = filepath.Join(dir, "config")
	dataHome = filepath.Join(dir, "data")

	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("XDG_DATA_HOME", dataHome)
	xdg.Reload()

	t.Cleanup(xdg.Reload)

	return configHome, dataHome
}

func TestNewPaths(t *testing.T) {
	configHome, dataHome := setXDG(t)

	tests := []struct {
		name string
		env  string
		want Paths
	}{
		{
			name: "default",
			want: Paths{
				configFilePath: filepath.Join(configHome, "autoblock", "config.yml"),
				dbFilePath:     filepath.Join(dataHome, "autoblock", "autoblock.db"),
				logFilePath:    filepath.Join(dataHome, "autoblock", "log", "autoblock.log"),
				lockFilePath:   filepath.Join(dataHome, "autoblock", "autoblock.lock"),
			},
		},
		{
			name: "environment override",
			env:  " dev ",
			want: Paths{
				configFilePath: filepath.Join(configHome, "autoblock", "config_dev.yml"),
				dbFilePath:     filepath.Join(dataHome, "autoblock", "autoblock_dev.db"),
				logFilePath:    filepath.Join(dataHome, "autoblock", "log", "autoblock_dev.log"),
				lockFilePath:   filepath.Join(dataHome, "autoblock", "autoblock_dev.lock"),
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := newPaths(tc.env)
			require.NoError(t, err)

			assert.Equal(t, tc.want.configFilePath, p.configFilePath)
			assert.Equal(t, tc.want.dbFilePath, p.dbFilePath)
			assert.Equal(t, tc.want.logFilePath, p.logFilePath)
			assert.Equal(t, tc.want.lockFilePath, p.lockFilePath)
			assert.DirExists(t, filepath.Join(dataHome, "autoblock"))
		})
	}
}
