package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/yndnr/chatmesh/internal/core/service"
	"github.com/yndnr/chatmesh/internal/infra/buildinfo"
	"github.com/yndnr/chatmesh/internal/infra/confloader"
	"github.com/yndnr/chatmesh/internal/infra/shutdown"
	"github.com/yndnr/chatmesh/internal/infra/tlsroots"
	"github.com/yndnr/chatmesh/internal/provider/openai"
	"github.com/yndnr/chatmesh/internal/server/config"
	"github.com/yndnr/chatmesh/internal/server/httpserver"
	"github.com/yndnr/chatmesh/internal/server/localserver"
	"github.com/yndnr/chatmesh/internal/storage/memory"
	"github.com/yndnr/chatmesh/internal/telemetry/logger"
	"github.com/yndnr/chatmesh/internal/telemetry/metric"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		addr        = flag.String("addr", "", "Listen address (overrides server.http.addr)")
		logLevel    = flag.String("log-level", "", "Log level (overrides log.level)")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("chatmesh-server %s\n", buildinfo.String())
		return nil
	}

	overrides := map[string]any{}
	if *addr != "" {
		overrides["server.http.addr"] = *addr
	}
	if *logLevel != "" {
		overrides["log.level"] = *logLevel
	}

	cfg, err := loadConfig(*configFile, overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	info := buildinfo.Get()
	log.Info("starting chatmesh-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", *configFile,
	)
	log.Debug("effective configuration", "config", config.Sanitize(cfg))

	registry := metric.NewRegistry()

	tokenStore := memory.NewTokenStore()
	sessionStore := memory.NewSessionStore()
	if err := registry.Register(metric.NewStoreCollector(tokenStore, sessionStore)); err != nil {
		return fmt.Errorf("register store metrics: %w", err)
	}

	client, err := initProvider(cfg, log)
	if err != nil {
		return fmt.Errorf("init provider: %w", err)
	}

	opts := []service.Option{
		service.WithRecorder(registry),
		service.WithTokenTTL(cfg.Auth.TokenTTL),
	}
	tokenSvc := service.NewTokenService(tokenStore, opts...)
	sessionSvc := service.NewSessionService(sessionStore, opts...)
	chatSvc := service.NewChatService(tokenSvc, sessionSvc, service.NewIrregularPolicy(opts...), client, opts...)

	trustedProxies, err := cfg.Server.TrustedProxyPrefixes()
	if err != nil {
		return err
	}

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		TokenService:       tokenSvc,
		SessionService:     sessionSvc,
		ChatService:        chatSvc,
		Logger:             log,
		Metrics:            registry,
		MetricsHandler:     registry.Handler(),
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		TrustedProxies:     trustedProxies,
		RateLimit:          cfg.Server.RateLimit.RPS,
		RateBurst:          cfg.Server.RateLimit.Burst,
	})

	serverOpts := httpserver.Options{
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
		IdleTimeout:  cfg.Server.HTTP.IdleTimeout,
		Logger:       log,
	}

	shutdownHandler := shutdown.NewHandler(cfg.Server.HTTP.ShutdownTimeout, shutdown.WithLogger(log))

	// Hooks run in reverse order of registration.
	if cfg.Server.HTTP.TLSEnabled() {
		reloader, err := tlsroots.NewCertReloader(cfg.Server.HTTP.TLSCertFile, cfg.Server.HTTP.TLSKeyFile,
			tlsroots.WithLogger(log))
		if err != nil {
			return fmt.Errorf("load tls certificate: %w", err)
		}
		reloader.StartAsync()
		shutdownHandler.OnShutdown("tls-reloader", func(context.Context) error {
			reloader.Stop()
			return nil
		})
		serverOpts.TLSConfig = reloader.TLSConfig()
	}

	if *configFile != "" {
		watcher, err := watchConfig(*configFile, overrides, log)
		if err != nil {
			log.Warn("config hot reload disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown("config-watcher", func(context.Context) error {
				return watcher.Stop()
			})
		}
	}

	httpServer := httpserver.New(cfg.Server.HTTP.Addr, router, serverOpts)
	shutdownHandler.OnShutdown("http", httpServer.Shutdown)

	if cfg.Server.Admin.Socket != "" {
		handlerCfg := localserver.HandlerConfig{
			Tokens:   tokenStore,
			Sessions: sessionStore,
			Shutdown: shutdownHandler.Trigger,
		}
		if *configFile != "" {
			handlerCfg.Reload = func() error {
				return reloadConfig(*configFile, overrides, log)
			}
		}
		admin := localserver.New(cfg.Server.Admin.Socket, localserver.NewHandler(handlerCfg),
			localserver.WithLogger(log))
		if err := admin.Listen(); err != nil {
			return err
		}
		shutdownHandler.OnShutdown("admin", admin.Shutdown)
		go func() {
			if err := admin.Serve(); err != nil {
				log.Error("admin socket error", "error", err)
			}
		}()
	}

	go func() {
		log.Info("HTTP server listening",
			"addr", cfg.Server.HTTP.Addr,
			"tls", cfg.Server.HTTP.TLSEnabled(),
		)

		var err error
		if serverOpts.TLSConfig != nil {
			err = httpServer.ListenAndServeTLS("", "")
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil {
			log.Error("HTTP server error", "error", err)
			shutdownHandler.Trigger("http server error")
		}
	}()

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads defaults, the config file, environment and flag
// overrides, then validates the result.
func loadConfig(configFile string, overrides map[string]any) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{confloader.WithOverrides(overrides)}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}
	cfg.ApplyFallbacks(os.LookupEnv)

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// initProvider builds the completion client. A missing API key is not an
// error: the server runs with the echo fallback only.
func initProvider(cfg *config.ServerConfig, log logger.Logger) (service.CompletionClient, error) {
	o := cfg.Provider.OpenAI
	client, err := openai.New(openai.Config{
		APIKey:      o.APIKey,
		BaseURL:     o.BaseURL,
		Model:       o.Model,
		Temperature: o.Temperature,
		MaxTokens:   o.MaxTokens,
		Timeout:     o.Timeout,
		CAFile:      o.CAFile,
	})
	if errors.Is(err, openai.ErrNoAPIKey) {
		log.Warn("no OpenAI API key configured, chat turns will echo their input")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	log.Info("completion provider configured", "provider", "openai", "model", client.Model())
	return client, nil
}

// watchConfig reloads the config file on change and applies a changed
// log level. Other settings need a restart.
func watchConfig(configFile string, overrides map[string]any, log logger.Logger) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(configFile); err != nil {
		_ = watcher.Stop()
		return nil, err
	}

	watcher.OnChange(func(path string) {
		if err := reloadConfig(configFile, overrides, log); err != nil {
			log.Warn("config reload rejected", "path", path, "error", err)
		}
	})
	watcher.StartAsync()
	return watcher, nil
}

// reloadConfig re-reads the config file and applies a changed log level.
func reloadConfig(configFile string, overrides map[string]any, log logger.Logger) error {
	cfg, err := loadConfig(configFile, overrides)
	if err != nil {
		return err
	}
	level := strings.ToLower(cfg.Log.Level)
	if level != logger.GetLevel() {
		log.Info("log level changed", "from", logger.GetLevel(), "to", level)
		logger.SetLevel(level)
	}
	return nil
}
