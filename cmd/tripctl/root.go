package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/tripfinder/internal/version"
	tripfinder "github.com/kailas-cloud/tripfinder/pkg/sdk"
)

type rootOptions struct {
	redis   string
	baseURL string
	model   string
	keyEnv  string
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "tripctl",
		Short:        "Search the tripfinder catalog with natural language",
		Version:      version.String(),
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.redis, "redis", "", "Redis address for cache state (default: in-memory)")
	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "OpenAI-compatible API base URL")
	cmd.PersistentFlags().StringVar(&opts.model, "model", "gpt-4o-mini", "chat completion model")
	cmd.PersistentFlags().StringVar(&opts.keyEnv, "api-key-env", "OPENAI_API_KEY", "environment variable holding the API key")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 15*time.Second, "LLM call timeout")

	cmd.AddCommand(newSearchCmd(opts), newInventoryCmd(opts))
	return cmd
}

// client builds an SDK client from the persistent flags.
func (o *rootOptions) client(ctx context.Context, extra ...tripfinder.Option) (*tripfinder.Client, error) {
	opts := []tripfinder.Option{
		tripfinder.WithOpenAI(o.baseURL, o.model, o.keyEnv),
		tripfinder.WithTimeout(o.timeout),
	}
	if o.redis != "" {
		opts = append(opts, tripfinder.WithRedis(o.redis, ""), tripfinder.WithStandalone())
	}
	return tripfinder.New(ctx, append(opts, extra...)...)
}
