package config

import (
	"bytes"
	_ "embed"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/quantumauth-io/ledger-client/internal/ledger-client/chains"
)

//go:embed config.yaml
var EmbeddedConfigYAML []byte

const envPrefix = "LEDGER"

type ClientSettings struct {
	LocalHost      string
	Port           int
	AllowedOrigins []string
}

type LedgerSettings struct {
	Network         string
	Contract        string
	MinDeposit      string
	DefaultReferrer string
	ReferralOrigin  string
	PreferredRPC    string
}

type RefreshSettings struct {
	GlobalInterval time.Duration
	HeadInterval   time.Duration
	FetchTimeout   time.Duration
}

type ConfirmationSettings struct {
	PollInterval time.Duration
	// Timeout of zero waits for a receipt until shutdown.
	Timeout       time.Duration
	Confirmations uint64
}

type RPCSettings struct {
	RequestsPerSecond float64
	Burst             int
	BreakerFailures   uint32
	BreakerTimeout    time.Duration
}

type WalletSettings struct {
	KeystorePath  string
	PassphraseEnv string
	HexKeyEnv     string
	Prompt        bool
}

type NotificationSettings struct {
	Limit int
}

type Config struct {
	ClientSettings ClientSettings
	Ledger         LedgerSettings
	Refresh        RefreshSettings
	Confirmation   ConfirmationSettings
	RPC            RPCSettings
	Networks       map[string]chains.NetworkConfig
	Wallet         WalletSettings
	Notifications  NotificationSettings
}

func Load() (*Config, error) {
	home, _ := os.UserHomeDir()
	paths := []string{
		filepath.Join(home, ".config", "ledger-client"),
		filepath.Join(home, "config"),
		".",
	}
	return LoadFrom(paths)
}

// LoadFrom reads the embedded defaults, merges the first config.yaml found in
// paths and applies LEDGER_* environment overrides, e.g. LEDGER_LEDGER_CONTRACT.
func LoadFrom(paths []string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(EmbeddedConfigYAML)); err != nil {
		return nil, errors.Wrap(err, "read embedded config")
	}

	v.SetConfigName("config")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config file")
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if _, err := chains.NumericChainID(c.Ledger.Network); err != nil {
		return errors.Wrap(err, "Ledger.Network")
	}
	if !isAddress(c.Ledger.Contract) {
		return errors.Newf("Ledger.Contract %q is not an address", c.Ledger.Contract)
	}
	if !isAddress(c.Ledger.DefaultReferrer) {
		return errors.Newf("Ledger.DefaultReferrer %q is not an address", c.Ledger.DefaultReferrer)
	}

	minDeposit, err := decimal.NewFromString(strings.TrimSpace(c.Ledger.MinDeposit))
	if err != nil {
		return errors.Wrapf(err, "Ledger.MinDeposit %q", c.Ledger.MinDeposit)
	}
	if minDeposit.IsNegative() {
		return errors.Newf("Ledger.MinDeposit %s is negative", minDeposit)
	}

	if c.ClientSettings.Port <= 0 || c.ClientSettings.Port > 65535 {
		return errors.Newf("ClientSettings.Port %d out of range", c.ClientSettings.Port)
	}
	if c.Refresh.GlobalInterval < time.Second {
		return errors.Newf("Refresh.GlobalInterval %s is below one second", c.Refresh.GlobalInterval)
	}
	if c.Confirmation.Timeout < 0 {
		return errors.New("Confirmation.Timeout is negative")
	}
	return nil
}

func (c *Config) ContractAddress() common.Address {
	return common.HexToAddress(strings.TrimSpace(c.Ledger.Contract))
}

func (c *Config) DefaultReferrer() common.Address {
	return common.HexToAddress(strings.TrimSpace(c.Ledger.DefaultReferrer))
}

// MinDeposit is only valid after Validate succeeded.
func (c *Config) MinDeposit() decimal.Decimal {
	return decimal.RequireFromString(strings.TrimSpace(c.Ledger.MinDeposit))
}

func (c *Config) ResolverConfig() chains.ResolverConfig {
	return chains.ResolverConfig{
		Selector:         c.Ledger.Network,
		PreferredRPCName: c.Ledger.PreferredRPC,
		Networks:         c.Networks,
	}
}

func isAddress(raw string) bool {
	raw = strings.TrimSpace(raw)
	return common.IsHexAddress(raw) && common.HexToAddress(raw) != (common.Address{})
}
