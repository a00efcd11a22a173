package main

import (
	"fmt"

	"github.com/jamesainslie/dupescan/pkg/dupescan/config"
	"github.com/jamesainslie/dupescan/pkg/dupescan/pipeline"
	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
	"github.com/spf13/viper"
)

// buildPipelineOptions assembles pipeline options from the merged
// flag/config/env view. Human-readable sizes are parsed here so bad
// values fail before any filesystem work starts.
func buildPipelineOptions(roots []string) (pipeline.Options, error) {
	opts := pipeline.DefaultOptions()
	opts.Roots = roots

	minSizeStr := viper.GetString("min_size")
	if minSizeStr != "" {
		minSize, err := types.ParseSize(minSizeStr)
		if err != nil {
			return pipeline.Options{}, fmt.Errorf("invalid min-size %q: %w", minSizeStr, err)
		}
		opts.MinSize = minSize
	}

	opts.IncludeHidden = viper.GetBool("include_hidden")
	opts.FollowSymlinks = viper.GetBool("follow_symlinks")
	opts.SkipHardlinks = viper.GetBool("skip_hardlinks")
	opts.Ignore = effectiveIgnores()
	opts.Workers = viper.GetInt("workers")

	if alg := viper.GetString("hash.algorithm"); alg != "" {
		opts.Algorithm = alg
	}

	quickSampleStr := viper.GetString("hash.quick_sample")
	if quickSampleStr != "" {
		quickSample, err := types.ParseSize(quickSampleStr)
		if err != nil {
			return pipeline.Options{}, fmt.Errorf("invalid quick-sample %q: %w", quickSampleStr, err)
		}
		opts.QuickSample = quickSample
	}

	quickBufferStr := viper.GetString("hash.quick_buffer")
	if quickBufferStr != "" {
		quickBuffer, err := types.ParseSize(quickBufferStr)
		if err != nil {
			return pipeline.Options{}, fmt.Errorf("invalid quick-buffer %q: %w", quickBufferStr, err)
		}
		opts.QuickBuffer = int(quickBuffer)
	}

	fullBufferStr := viper.GetString("hash.full_buffer")
	if fullBufferStr != "" {
		fullBuffer, err := types.ParseSize(fullBufferStr)
		if err != nil {
			return pipeline.Options{}, fmt.Errorf("invalid full-buffer %q: %w", fullBufferStr, err)
		}
		opts.FullBuffer = int(fullBuffer)
	}

	return opts, nil
}

// effectiveIgnores combines the built-in ignore names with any the
// user supplied. User entries append to the built-ins;
// --no-default-ignores drops the built-ins entirely.
func effectiveIgnores() []string {
	var ignores []string
	if !viper.GetBool("no_default_ignores") {
		ignores = append(ignores, config.DefaultIgnores...)
	}
	return append(ignores, viper.GetStringSlice("ignore")...)
}
