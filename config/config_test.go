package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchrh/protocol-interaction/internal/entity"
)

const testHolder = "0x7a16fF8270133F063aAb6C9977183D9e72835428"

func TestResolve_Defaults(t *testing.T) {
	cfg, err := resolve([]string{"--impersonated-address", testHolder}, envDefaults{})
	require.NoError(t, err)

	assert.Equal(t, DefaultRPCURL, cfg.RPCURL)
	assert.Equal(t, testHolder, cfg.ImpersonatedAddress)
	assert.Equal(t, int64(DefaultBurnBps), cfg.BurnBps)
	assert.Equal(t, DefaultReceiptTimeout, cfg.ReceiptTimeout)
	assert.False(t, cfg.DryRun)
	assert.Equal(t, PoolAddress, cfg.PoolAddress)
	assert.Equal(t, AssetAddress, cfg.AssetAddress)
	assert.Equal(t, int64(SlippageBufferBps), cfg.SlippageBufferBps)
	assert.Equal(t, uint64(MaxCoinsToProbe), cfg.MaxCoinsToProbe)
}

func TestResolve_EnvOverridesDefaults(t *testing.T) {
	env := envDefaults{
		RPCURL:              "http://127.0.0.1:9999",
		ImpersonatedAddress: testHolder,
		BurnBps:             "250",
	}
	cfg, err := resolve(nil, env)
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:9999", cfg.RPCURL)
	assert.Equal(t, testHolder, cfg.ImpersonatedAddress)
	assert.Equal(t, int64(250), cfg.BurnBps)
}

func TestResolve_FlagsOverrideEnv(t *testing.T) {
	env := envDefaults{
		RPCURL:              "http://127.0.0.1:9999",
		ImpersonatedAddress: "0x0000000000000000000000000000000000000001",
		BurnBps:             "250",
	}
	args := []string{
		"--rpc-url", "http://127.0.0.1:8545",
		"--impersonated-address", testHolder,
		"--burn-bps", "500",
		"--dry-run",
	}
	cfg, err := resolve(args, env)
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8545", cfg.RPCURL)
	assert.Equal(t, testHolder, cfg.ImpersonatedAddress)
	assert.Equal(t, int64(500), cfg.BurnBps)
	assert.True(t, cfg.DryRun)
}

func TestResolve_YamlFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := "rpc_url: http://127.0.0.1:7777\nimpersonated_address: " + testHolder + "\nburn_bps: 300\ndry_run: true\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	t.Run("yaml overrides defaults", func(t *testing.T) {
		cfg, err := resolve([]string{"--config", path}, envDefaults{})
		require.NoError(t, err)
		assert.Equal(t, "http://127.0.0.1:7777", cfg.RPCURL)
		assert.Equal(t, testHolder, cfg.ImpersonatedAddress)
		assert.Equal(t, int64(300), cfg.BurnBps)
		assert.True(t, cfg.DryRun)
		assert.Equal(t, DefaultReceiptTimeout, cfg.ReceiptTimeout)
	})

	t.Run("env overrides yaml", func(t *testing.T) {
		cfg, err := resolve([]string{"--config", path}, envDefaults{BurnBps: "42"})
		require.NoError(t, err)
		assert.Equal(t, int64(42), cfg.BurnBps)
		assert.Equal(t, "http://127.0.0.1:7777", cfg.RPCURL)
	})

	t.Run("flags override yaml and env", func(t *testing.T) {
		cfg, err := resolve([]string{"--config", path, "--burn-bps", "77"}, envDefaults{BurnBps: "42"})
		require.NoError(t, err)
		assert.Equal(t, int64(77), cfg.BurnBps)
	})

	t.Run("missing file is a usage error", func(t *testing.T) {
		_, err := resolve([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml")}, envDefaults{})
		require.Error(t, err)
		assert.Equal(t, entity.KindUsage, entity.KindOf(err))
	})

	t.Run("explicit zero burn_bps is rejected, not defaulted", func(t *testing.T) {
		zeroPath := filepath.Join(t.TempDir(), "config.yaml")
		zeroRaw := "impersonated_address: " + testHolder + "\nburn_bps: 0\n"
		require.NoError(t, os.WriteFile(zeroPath, []byte(zeroRaw), 0o600))

		_, err := resolve([]string{"--config", zeroPath}, envDefaults{})
		require.Error(t, err)
		assert.Equal(t, entity.KindUsage, entity.KindOf(err))
	})
}

func TestResolve_Validation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  envDefaults
	}{
		{name: "missing address", args: []string{"--burn-bps", "100"}},
		{name: "bps below range", args: []string{"--impersonated-address", testHolder, "--burn-bps", "0"}},
		{name: "bps above range", args: []string{"--impersonated-address", testHolder, "--burn-bps", "10001"}},
		{name: "zero bps from env", env: envDefaults{ImpersonatedAddress: testHolder, BurnBps: "0"}},
		{name: "negative bps from env", env: envDefaults{ImpersonatedAddress: testHolder, BurnBps: "-5"}},
		{name: "non-numeric bps from env", env: envDefaults{ImpersonatedAddress: testHolder, BurnBps: "one percent"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolve(tt.args, tt.env)
			require.Error(t, err)
			assert.Equal(t, entity.KindUsage, entity.KindOf(err))
		})
	}
}

func TestResolve_ReceiptTimeoutFromYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := "impersonated_address: " + testHolder + "\nreceipt_timeout: 30000000000\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	cfg, err := resolve([]string{"--config", path}, envDefaults{})
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.ReceiptTimeout)
}
