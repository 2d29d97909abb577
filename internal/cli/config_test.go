package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/musikspil/internal/factory"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server: http://quiz.local:9000
storage: redis
redis_url: redis://cache:6379
display: ":8090"
poll_interval: 2s
verbose: true
`)

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFile(path, true))

	assert.Equal(t, "http://quiz.local:9000", cfg.ServerURL)
	assert.Equal(t, factory.StorageTypeRedis, cfg.Storage)
	assert.Equal(t, "redis://cache:6379", cfg.RedisURL)
	assert.Equal(t, ":8090", cfg.DisplayAddr)
	assert.Equal(t, 2*time.Second, cfg.Poll)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, factory.OutputText, cfg.Output, "unset keys keep defaults")
}

func TestLoadFile_Missing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	cfg := DefaultConfig()
	assert.NoError(t, cfg.LoadFile(missing, false))
	assert.Error(t, cfg.LoadFile(missing, true))
}

func TestLoadFile_Malformed(t *testing.T) {
	path := writeConfig(t, "server: [unterminated")

	assert.Error(t, DefaultConfig().LoadFile(path, true))
}

func TestLoadEnv(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LoadEnv(envMap(map[string]string{
		EnvServer:      "http://env.local",
		EnvStorage:     "memory",
		EnvDisplayAddr: "",
	}))

	assert.Equal(t, "http://env.local", cfg.ServerURL)
	assert.Equal(t, factory.StorageTypeMemory, cfg.Storage)
	assert.Empty(t, cfg.DisplayAddr, "empty values are ignored")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "bad output", mutate: func(c *Config) { c.Output = "yaml" }, wantErr: true},
		{name: "bad log format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: true},
		{name: "bad storage", mutate: func(c *Config) { c.Storage = "cookie" }, wantErr: true},
		{name: "redis without url", mutate: func(c *Config) { c.Storage = factory.StorageTypeRedis }, wantErr: true},
		{name: "redis with url", mutate: func(c *Config) {
			c.Storage = factory.StorageTypeRedis
			c.RedisURL = "redis://localhost:6379"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFactoryConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage = factory.StorageTypeRedis
	cfg.RedisURL = "redis://cache:6379"

	fc := cfg.FactoryConfig()
	require.NotNil(t, fc.RedisConfig)
	assert.Equal(t, "redis://cache:6379", fc.RedisConfig.URL)
	assert.Equal(t, cfg.ServerURL, fc.ServerURL)

	cfg.Storage = factory.StorageTypeFile
	assert.Nil(t, cfg.FactoryConfig().RedisConfig)
}

// Flags beat the environment, which beats the config file
func TestResolveConfig_Precedence(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, "server: http://file.local\noutput: json\nstorage: memory\n")

	var resolved *Config
	flags := DefaultConfig()
	configFile := ""

	cmd := &cobra.Command{
		Use: "musikspil",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			resolved, err = resolveConfig(cmd, flags, configFile, envMap(map[string]string{
				EnvConfig: path,
				EnvServer: "http://env.local",
			}))
			return err
		},
	}
	cmd.Flags().StringVar(&flags.Storage, "storage", flags.Storage, "")
	cmd.Flags().StringVar(&flags.ServerURL, "server", flags.ServerURL, "")
	cmd.SetArgs([]string{"--storage", "file"})
	require.NoError(t, cmd.Execute())

	require.NotNil(t, resolved)
	assert.Equal(t, "http://env.local", resolved.ServerURL, "env over file")
	assert.Equal(t, factory.StorageTypeFile, resolved.Storage, "flag over file")
	assert.Equal(t, "json", resolved.Output, "file over default")
	assert.Equal(t, path, resolved.ConfigFile)
}
