package cli

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/impactriver/pkg/pipeline"
)

// Configuration keys. Each is a flag name, a key in .impactriver.toml and,
// upper-cased with an IMPACTRIVER_ prefix, an environment variable.
const (
	keyConfig      = "config"
	keyVerbose     = "verbose"
	keyNoCache     = "no-cache"
	keyCacheDir    = "cache-dir"
	keyRedisAddr   = "redis-addr"
	keyFormat      = "format"
	keyBucketDays  = "bucket-days"
	keyMaxBuckets  = "max-buckets"
	keyAliases     = "aliases"
	keyLabelAnchor = "label-anchor"
	keyListen      = "listen"
)

const (
	configName = ".impactriver"
	envPrefix  = "IMPACTRIVER"

	defaultListen = "127.0.0.1:8080"
)

// Config is the resolved configuration: defaults, then config file, then
// environment, then flags.
type Config struct {
	Verbose     bool   `mapstructure:"verbose"`
	NoCache     bool   `mapstructure:"no-cache"`
	CacheDir    string `mapstructure:"cache-dir"`
	RedisAddr   string `mapstructure:"redis-addr"`
	Format      string `mapstructure:"format"`
	BucketDays  int    `mapstructure:"bucket-days"`
	MaxBuckets  int    `mapstructure:"max-buckets"`
	Aliases     string `mapstructure:"aliases"`
	LabelAnchor string `mapstructure:"label-anchor"`
	Listen      string `mapstructure:"listen"`
}

// loadConfig binds cmd's flags and resolves c.config.
func (c *CLI) loadConfig(cmd *cobra.Command) error {
	v := c.v
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	if file := v.GetString(keyConfig); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(keyFormat, pipeline.DefaultFormat)
	v.SetDefault(keyBucketDays, pipeline.DefaultBucketDays)
	v.SetDefault(keyLabelAnchor, pipeline.DefaultLabelAnchor)
	v.SetDefault(keyListen, defaultListen)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return fmt.Errorf("read config file: %w", err)
		}
	} else {
		c.Logger.Debug("loaded config", "file", v.ConfigFileUsed())
	}

	if err := v.Unmarshal(&c.config); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// pipelineOptions maps the resolved configuration onto pipeline options.
func (c *CLI) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		BucketDays:  c.config.BucketDays,
		MaxBuckets:  c.config.MaxBuckets,
		AliasFile:   c.config.Aliases,
		LabelAnchor: c.config.LabelAnchor,
		Formats:     parseFormats(c.config.Format),
		Logger:      c.Logger,
	}
}
