package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pigeonhole-ngx/pigeonhole/internal/engine"
	"github.com/pigeonhole-ngx/pigeonhole/internal/llm"
	"github.com/pigeonhole-ngx/pigeonhole/internal/paperless"
	"github.com/pigeonhole-ngx/pigeonhole/internal/reconcile"
)

// Reconcile builds the reconciliation config from viper, starting from the
// compiled-in defaults. Every tunable can be overridden from the config
// file or environment.
func Reconcile() (reconcile.Config, error) {
	cfg := reconcile.DefaultConfig()

	if v := viper.GetFloat64("reconcile.similarity_threshold"); v > 0 {
		cfg.SimilarityThreshold = v
	}
	if v := viper.GetFloat64("reconcile.type_confidence_threshold"); v > 0 {
		cfg.TypeConfidenceThreshold = v
	}
	if v := viper.GetInt("reconcile.document_type_cap"); v > 0 {
		cfg.DocumentTypeCap = v
	}
	if v := viper.GetInt("reconcile.max_tags"); v > 0 {
		cfg.MaxTags = v
	}

	if aliases := viper.GetStringMapString("normalize.aliases"); len(aliases) > 0 {
		cfg.Normalizer.Aliases = aliases
	}
	if suffixes := viper.GetStringSlice("normalize.legal_suffixes"); len(suffixes) > 0 {
		cfg.Normalizer.LegalSuffixes = suffixes
	}

	if names := viper.GetStringSlice("reconcile.generic_names"); len(names) > 0 {
		cfg.GenericNames = names
	}
	if types := viper.GetStringSlice("reconcile.generic_types"); len(types) > 0 {
		cfg.GenericTypes = types
	}
	if tags := viper.GetStringSlice("reconcile.generic_tags"); len(tags) > 0 {
		cfg.GenericTags = tags
	}

	if viper.IsSet("tags.color_rules") {
		var rules []reconcile.ColorRule
		if err := viper.UnmarshalKey("tags.color_rules", &rules); err != nil {
			return cfg, fmt.Errorf("invalid tags.color_rules: %w", err)
		}
		cfg.TagColorRules = rules
	}
	if color := viper.GetString("tags.default_color"); color != "" {
		cfg.DefaultTagColor = color
	}

	return cfg, nil
}

// Paperless builds the document store client config from viper.
func Paperless() paperless.Config {
	return paperless.Config{
		BaseURL:    viper.GetString("paperless.url"),
		Token:      viper.GetString("paperless.token"),
		InboxTagID: viper.GetInt("paperless.inbox_tag_id"),
		PageSize:   viper.GetInt("paperless.page_size"),
		Timeout:    viper.GetDuration("paperless.timeout"),
	}
}

// LLM builds the classifier provider config from viper.
func LLM() llm.Config {
	return llm.Config{
		Provider:    viper.GetString("llm.provider"),
		APIKey:      viper.GetString("llm.api_key"),
		Model:       viper.GetString("llm.model"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
		Timeout:     viper.GetDuration("llm.timeout"),
	}
}

// CustomFields reads the archive's custom-field id mapping from viper.
func CustomFields() engine.CustomFieldIDs {
	return engine.CustomFieldIDs{
		ObligationType: viper.GetInt("custom_fields.obligation_type_id"),
		RiskLevel:      viper.GetInt("custom_fields.risk_level_id"),
	}
}

// DatabasePath returns the expanded run-history database location.
func DatabasePath() string {
	path := viper.GetString("database.path")
	if path == "" {
		path = "$HOME/.local/share/pigeonhole/pigeonhole.db"
	}
	return ExpandPath(path)
}
