package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/rmedved/concord/internal/model"
)

// configCmd represents the config command group
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and initialize configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig()
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to ~/.concord/config.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("find home directory: %w", err)
		}

		dir := filepath.Join(home, ".concord")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}

		path := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}

		data, err := yaml.Marshal(model.DefaultConfig())
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write config: %w", err)
		}

		fmt.Printf("✓ Wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

// buildConfig assembles the effective configuration: defaults, then config
// file and CONCORD_* env values via viper, then command flags.
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	applyViper(cfg)

	// Flag overrides
	cfg.HTTP.Timeout = timeout
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.HTTP.InsecureTLS = insecureTLS
	cfg.Cache.Enabled = cfg.Cache.Enabled && !noCache
	cfg.Concurrency.ClaimWorkers = claimWorkers
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter
	if budgetLimit > 0 {
		cfg.Budget.LimitUSD = budgetLimit
	}

	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
		if llmProvider == "openai" {
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		}
	}

	return cfg, nil
}

// applyViper layers config-file and env values over the defaults. Only keys
// actually set are applied, so zero values in a sparse config file never
// clobber defaults.
func applyViper(cfg *model.Config) {
	if viper.IsSet("cache.dir") {
		cfg.Cache.Dir = viper.GetString("cache.dir")
	}
	if viper.IsSet("cache.enabled") {
		cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	}
	if viper.IsSet("rate_limit.requests_per_second") {
		cfg.RateLimit.RequestsPerSecond = viper.GetFloat64("rate_limit.requests_per_second")
	}
	if viper.IsSet("rate_limit.burst_size") {
		cfg.RateLimit.BurstSize = viper.GetInt("rate_limit.burst_size")
	}
	if viper.IsSet("thresholds.strong_consensus_ratio") {
		cfg.Thresholds.StrongConsensusRatio = viper.GetFloat64("thresholds.strong_consensus_ratio")
	}
	if viper.IsSet("thresholds.moderate_consensus_ratio") {
		cfg.Thresholds.ModerateConsensusRatio = viper.GetFloat64("thresholds.moderate_consensus_ratio")
	}
	if viper.IsSet("thresholds.minimum_quality_studies") {
		cfg.Thresholds.MinimumQualityStudies = viper.GetInt("thresholds.minimum_quality_studies")
	}
	if viper.IsSet("thresholds.emerging_research_years") {
		cfg.Thresholds.EmergingResearchYears = viper.GetInt("thresholds.emerging_research_years")
	}
	if viper.IsSet("sources.tier1_domains") {
		cfg.Sources.Tier1Domains = viper.GetStringSlice("sources.tier1_domains")
	}
	if viper.IsSet("sources.tier2_domains") {
		cfg.Sources.Tier2Domains = viper.GetStringSlice("sources.tier2_domains")
	}
	if viper.IsSet("sources.tier3_domains") {
		cfg.Sources.Tier3Domains = viper.GetStringSlice("sources.tier3_domains")
	}
	if viper.IsSet("sources.domain_map") {
		cfg.Sources.DomainMap = viper.GetStringMapString("sources.domain_map")
	}
	if viper.IsSet("llm.provider") {
		cfg.LLM.Provider = viper.GetString("llm.provider")
	}
	if viper.IsSet("llm.model") {
		cfg.LLM.Model = viper.GetString("llm.model")
	}
	if viper.IsSet("budget.limit_usd") {
		cfg.Budget.LimitUSD = viper.GetFloat64("budget.limit_usd")
	}
}
