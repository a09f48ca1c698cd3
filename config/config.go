package config

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mchrh/protocol-interaction/internal/entity"
)

// Defaults and protocol-compatibility constants. Pool and asset addresses
// must match the deployed contracts on the fork exactly or coin-index
// resolution fails.
const (
	DefaultRPCURL = "http://127.0.0.1:8545"

	// Curve USDC/crvUSD pool, which is also its own LP token.
	PoolAddress  = "0x4DEcE678ceceb27446b35C672dC7d61F30bAD69E"
	AssetAddress = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"

	// SlippageBufferBps keeps a 1% buffer against the estimated output.
	// Note: the formula divides by 100, not 10000, so despite the name
	// this is a percent-style parameter. Changing the constant without
	// touching the divisor will not do what the name suggests.
	SlippageBufferBps = 99

	MaxCoinsToProbe = 4
	MinBurnBps      = 1
	MaxBurnBps      = 10000
	DefaultBurnBps  = 100

	DefaultReceiptTimeout = 2 * time.Minute
)

// Config is the frozen run configuration: it is constructed once at
// process start and passed to every component, nothing reads flags or
// env vars after that.
type Config struct {
	RPCURL              string
	ImpersonatedAddress string
	BurnBps             int64
	DryRun              bool
	Confirm             bool
	ReceiptTimeout      time.Duration

	PoolAddress       string
	AssetAddress      string
	SlippageBufferBps int64
	MaxCoinsToProbe   uint64
}

// envDefaults is the environment layer of the resolution, matching the
// variable names the original tooling documents. BurnBps stays a string
// so a set-but-invalid value (including 0) reaches validation instead of
// being mistaken for "unset".
type envDefaults struct {
	RPCURL              string `envconfig:"RPC_URL"`
	ImpersonatedAddress string `envconfig:"IMPERSONATED_ADDRESS"`
	BurnBps             string `envconfig:"BURN_BPS"`
}

// fileConfig is the optional YAML layer, selected with --config. BurnBps
// is a pointer for the same reason the env field is a string: burn_bps: 0
// must be rejected, not defaulted.
type fileConfig struct {
	RPCURL              string        `yaml:"rpc_url"`
	ImpersonatedAddress string        `yaml:"impersonated_address"`
	BurnBps             *int64        `yaml:"burn_bps"`
	DryRun              bool          `yaml:"dry_run"`
	ReceiptTimeout      time.Duration `yaml:"receipt_timeout"`
}

// Resolve merges, in precedence order, explicit flags over environment
// variables over the optional YAML file over built-in defaults, and
// validates the result. Any failure here is a usage error, reported
// before the tool talks to the node.
func Resolve(args []string) (Config, error) {
	var env envDefaults
	if err := envconfig.Process("", &env); err != nil {
		return Config{}, entity.Usage(errors.Wrap(err, "failed to process environment variables"))
	}
	return resolve(args, env)
}

func resolve(args []string, env envDefaults) (Config, error) {
	fs := flag.NewFlagSet("withdraw", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to yaml config")
	rpcURL := fs.String("rpc-url", "", "RPC URL of the local fork (default: "+DefaultRPCURL+" or $RPC_URL)")
	impersonated := fs.String("impersonated-address", "", "address of an LP holder to impersonate (or set $IMPERSONATED_ADDRESS)")
	burnBps := fs.Int64("burn-bps", 0, "basis points of the LP balance to burn (default: 100 = 1%)")
	dryRun := fs.Bool("dry-run", false, "only estimate outputs and print balances without sending a transaction")
	confirm := fs.Bool("confirm", false, "ask for interactive confirmation before sending the withdrawal")

	if err := fs.Parse(args); err != nil {
		return Config{}, entity.Usage(err)
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg := Config{
		RPCURL:            DefaultRPCURL,
		BurnBps:           DefaultBurnBps,
		ReceiptTimeout:    DefaultReceiptTimeout,
		PoolAddress:       PoolAddress,
		AssetAddress:      AssetAddress,
		SlippageBufferBps: SlippageBufferBps,
		MaxCoinsToProbe:   MaxCoinsToProbe,
	}

	if *configPath != "" {
		file, err := loadYaml(*configPath)
		if err != nil {
			return Config{}, err
		}
		if file.RPCURL != "" {
			cfg.RPCURL = file.RPCURL
		}
		if file.ImpersonatedAddress != "" {
			cfg.ImpersonatedAddress = file.ImpersonatedAddress
		}
		if file.BurnBps != nil {
			cfg.BurnBps = *file.BurnBps
		}
		if file.ReceiptTimeout != 0 {
			cfg.ReceiptTimeout = file.ReceiptTimeout
		}
		cfg.DryRun = file.DryRun
	}

	if env.RPCURL != "" {
		cfg.RPCURL = env.RPCURL
	}
	if env.ImpersonatedAddress != "" {
		cfg.ImpersonatedAddress = env.ImpersonatedAddress
	}
	if env.BurnBps != "" {
		bps, err := strconv.ParseInt(env.BurnBps, 10, 64)
		if err != nil {
			return Config{}, entity.Usagef("invalid $BURN_BPS value %q, must be an integer", env.BurnBps)
		}
		cfg.BurnBps = bps
	}

	if set["rpc-url"] {
		cfg.RPCURL = *rpcURL
	}
	if set["impersonated-address"] {
		cfg.ImpersonatedAddress = *impersonated
	}
	if set["burn-bps"] {
		cfg.BurnBps = *burnBps
	}
	if set["dry-run"] {
		cfg.DryRun = *dryRun
	}
	if set["confirm"] {
		cfg.Confirm = *confirm
	}

	if cfg.ImpersonatedAddress == "" {
		return Config{}, entity.Usagef("missing --impersonated-address (or set $IMPERSONATED_ADDRESS)")
	}
	if cfg.BurnBps < MinBurnBps || cfg.BurnBps > MaxBurnBps {
		return Config{}, entity.Usagef("--burn-bps must be between %d and %d, got %d", MinBurnBps, MaxBurnBps, cfg.BurnBps)
	}

	return cfg, nil
}

func loadYaml(path string) (fileConfig, error) {
	var file fileConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, entity.Usage(errors.Wrapf(err, "failed to read config file %s", path))
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fileConfig{}, entity.Usage(errors.Wrapf(err, "malformed config file %s", path))
	}
	return file, nil
}
