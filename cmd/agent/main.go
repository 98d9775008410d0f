package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rebecaborsan/code-editing-agent/internal/agent"
	"github.com/rebecaborsan/code-editing-agent/internal/config"
	"github.com/rebecaborsan/code-editing-agent/internal/llm"
	"github.com/rebecaborsan/code-editing-agent/internal/llmfactory"
	"github.com/rebecaborsan/code-editing-agent/internal/logging"
	"github.com/rebecaborsan/code-editing-agent/internal/observability"
	"github.com/rebecaborsan/code-editing-agent/internal/repl"
	"github.com/rebecaborsan/code-editing-agent/internal/tools"
	"github.com/rebecaborsan/code-editing-agent/internal/tools/local"
	"github.com/rebecaborsan/code-editing-agent/internal/tools/local/editfile"
	"github.com/rebecaborsan/code-editing-agent/internal/tools/local/listfiles"
	"github.com/rebecaborsan/code-editing-agent/internal/tools/local/readfile"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load(os.Getenv("AGENT_CONFIG"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, cleanup := logging.Setup(cfg.Logging.Level, cfg.Logging.File)
	defer cleanup()

	shutdownOtel, err := observability.Setup(ctx, observability.DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to setup observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOtel(shutdownCtx); err != nil {
			logger.Warn("observability shutdown failed", "error", err)
		}
	}()

	mc, err := cfg.LLM.CurrentModel()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := config.ValidateAPIKeys(mc); err != nil {
		return err
	}

	// newAdapter builds an instrumented adapter for a provider/model pair,
	// used both at startup and by /model switches.
	newAdapter := func(ctx context.Context, provider, model string) (llm.Adapter, error) {
		adapter, err := llmfactory.NewAdapter(ctx, config.ModelConfig{Provider: provider, Model: model})
		if err != nil {
			return nil, err
		}
		return llm.NewInstrumentedAdapter(adapter, logger, provider, model), nil
	}

	adapter, err := newAdapter(ctx, mc.Provider, mc.Model)
	if err != nil {
		return fmt.Errorf("failed to create LLM adapter: %w", err)
	}

	anchor, err := local.NewAnchor(cfg.Agent.AnchorDir)
	if err != nil {
		return fmt.Errorf("failed to resolve anchor directory: %w", err)
	}

	registry := tools.NewRegistry()
	for _, tool := range []tools.Tool{
		readfile.New(anchor),
		listfiles.New(anchor),
		editfile.New(anchor),
	} {
		if err := registry.Register(tool); err != nil {
			return fmt.Errorf("failed to register tool: %w", err)
		}
	}

	executor := tools.NewExecutor(registry, logger)

	ag := agent.New(adapter, executor, registry, cfg.Agent.SystemPrompt,
		agent.WithMaxTokens(cfg.LLM.MaxTokens),
		agent.WithLogger(logger),
		agent.WithAdapterFactory(newAdapter),
		agent.WithCurrentModelName(cfg.LLM.Current),
	)

	logger.Info("agent ready",
		"provider", mc.Provider,
		"model", mc.Model,
		"anchor_dir", anchor.Root(),
	)

	return repl.New(ag, cfg).Run(ctx)
}
