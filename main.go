package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	jsoniter "github.com/json-iterator/go"

	"concierge/pkg/agent"
	"concierge/pkg/channels/telegram"
	"concierge/pkg/config"
	"concierge/pkg/llm"
	_ "concierge/pkg/llm/autoload"
	"concierge/pkg/monitor"
	"concierge/pkg/plugins"
	"concierge/pkg/server"
	"concierge/pkg/tasks"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	cfg, sysCfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	monitor.Startup(sysCfg.LogLevel)
	slog.Info("==========================================")
	slog.Info("Starting assistant gateway")

	client, err := llm.NewFromConfig(cfg.LLM, sysCfg)
	if err != nil {
		slog.Error("Failed to init LLM client", "error", err)
		os.Exit(1)
	}

	store := tasks.NewStore()

	registry := plugins.NewRegistry()
	pluginTimeout := time.Duration(sysCfg.PluginTimeoutMs) * time.Millisecond
	for _, p := range plugins.Defaults(store, pluginTimeout) {
		if err := registry.Register(p); err != nil {
			slog.Error("Failed to register plugin", "name", p.Descriptor.Name, "error", err)
			os.Exit(1)
		}
	}
	registry.Freeze()
	slog.Info("Plugin registry frozen", "count", registry.Len())

	mon := monitor.NewCLIMonitor()
	if err := mon.Start(); err != nil {
		slog.Warn("Failed to start CLI monitor", "error", err)
	}

	engine := agent.NewEngine(client, registry, sysCfg, cfg.SystemPrompt, mon)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := server.New(engine, registry, sysCfg)
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("Web channel failed", "error", err)
			cancel()
		}
	}()

	var tg *telegram.Channel
	if raw, ok := cfg.Channels["telegram"]; ok {
		var tgCfg telegram.TelegramConfig
		if err := json.Unmarshal(raw, &tgCfg); err != nil || tgCfg.Token == "" {
			slog.Warn("Telegram channel configured but invalid, skipping", "error", err)
		} else if tg, err = telegram.NewChannel(tgCfg, engine); err != nil {
			slog.Warn("Failed to start telegram channel", "error", err)
		} else {
			tg.Start(ctx)
		}
	}

	// Hot-reload the log level when system.json changes.
	reloadCh := config.WatchConfig(ctx, "system.json")
	go func() {
		for range reloadCh {
			fresh := config.LoadSystemConfig("system.json")
			monitor.SetLogLevel(fresh.LogLevel)
			slog.Info("Log level reloaded", "level", fresh.LogLevel)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		slog.Info("Received shutdown signal. Stopping services...")
	case <-ctx.Done():
	}

	cancel()
	if tg != nil {
		tg.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Web channel shutdown failed", "error", err)
	}

	if err := mon.Stop(); err != nil {
		slog.Warn("Monitor stop failed", "error", err)
	}
	slog.Info("Bye!")
}
