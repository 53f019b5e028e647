package cmd

import (
	"os"

	"github.com/spf13/viper"

	"github.com/joescharf/reviewgate/internal/llm"
	"github.com/joescharf/reviewgate/internal/pipeline"
)

// newReviewClient creates the LLM client from config/env. A missing API key
// is a configuration error reported before any file is reviewed, distinct
// from a per-file service failure.
func newReviewClient() (*llm.Client, error) {
	apiKey := viper.GetString("anthropic.api_key")
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, &pipeline.ConfigError{
			Reason: "no API key: set anthropic.api_key in the config file or the ANTHROPIC_API_KEY environment variable",
		}
	}
	return llm.NewClient(apiKey, viper.GetString("anthropic.model")), nil
}

// gateConfig assembles the immutable pipeline configuration from viper.
func gateConfig() pipeline.Config {
	return pipeline.Config{
		Threshold:   viper.GetInt("threshold"),
		Extensions:  viper.GetStringSlice("extensions"),
		Concurrency: viper.GetInt("concurrency"),
		Timeout:     viper.GetDuration("timeout"),
		FailOpen:    viper.GetBool("fail_open"),
	}
}
