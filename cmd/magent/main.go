package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/magent/internal/agent"
	"github.com/dusk-indust/magent/internal/config"
	"github.com/dusk-indust/magent/internal/coordinator"
	"github.com/dusk-indust/magent/internal/mcptools"
	"github.com/dusk-indust/magent/internal/telemetry"
)

// CLI flags parsed from command line.
type cliFlags struct {
	Role      string
	Host      string
	Port      int
	ConfigDir string
	Agents    string
	ServeMCP  bool
	MCPAddr   string
	LogLevel  string
	LogFormat string
	Version   bool
}

// version is set by the linker at build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var flags cliFlags

	fs := flag.NewFlagSet("magent", flag.ContinueOnError)
	fs.StringVar(&flags.Role, "role", "coordinator", "process role: coordinator, echo, math, or all")
	fs.StringVar(&flags.Host, "host", "", "bind host (overrides config)")
	fs.IntVar(&flags.Port, "port", 0, "bind port (overrides config)")
	fs.StringVar(&flags.ConfigDir, "config", ".", "directory containing magent.yml")
	fs.StringVar(&flags.Agents, "agents", "", "comma-separated agent base URLs to register at startup")
	fs.BoolVar(&flags.ServeMCP, "serve-mcp", false, "expose coordinator commands as MCP tools")
	fs.StringVar(&flags.MCPAddr, "mcp-addr", "", "listen address for the MCP server (overrides config)")
	fs.StringVar(&flags.LogLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	fs.StringVar(&flags.LogFormat, "log-format", "", "log format: json or text (overrides config)")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if flags.Version {
		fmt.Println(version)
		return nil
	}

	cfg, err := config.Load(flags.ConfigDir)
	if err != nil {
		return err
	}
	applyFlags(cfg, flags)

	telemetry.SetupLogger(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch flags.Role {
	case "coordinator":
		return runCoordinator(ctx, cfg, nil)
	case "echo", "math":
		return runAgent(ctx, cfg, agent.Role(flags.Role), flags)
	case "all":
		return runAll(ctx, cfg)
	default:
		return fmt.Errorf("unknown role %q (want coordinator, echo, math, or all)", flags.Role)
	}
}

// applyFlags merges non-zero flag values over the loaded config.
func applyFlags(cfg *config.Config, flags cliFlags) {
	if flags.Host != "" {
		cfg.Coordinator.Host = flags.Host
	}
	if flags.Port != 0 {
		cfg.Coordinator.Port = flags.Port
	}
	if flags.Agents != "" {
		for _, u := range strings.Split(flags.Agents, ",") {
			if u = strings.TrimSpace(u); u != "" {
				cfg.Coordinator.SeedAgents = append(cfg.Coordinator.SeedAgents, u)
			}
		}
	}
	if flags.ServeMCP {
		cfg.MCP.Enabled = true
	}
	if flags.MCPAddr != "" {
		cfg.MCP.Addr = flags.MCPAddr
	}
	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
	}
	if flags.LogFormat != "" {
		cfg.Log.Format = flags.LogFormat
	}
}

// runCoordinator serves the coordinator until the context is cancelled.
// extraSeeds is appended to the configured seed agent URLs.
func runCoordinator(ctx context.Context, cfg *config.Config, extraSeeds []string) error {
	coord := coordinator.New(coordinator.Config{
		Name:            cfg.Coordinator.Name,
		DelegateTimeout: cfg.DelegateTimeout(),
	})

	addr := fmt.Sprintf("%s:%d", cfg.Coordinator.Host, cfg.Coordinator.Port)
	if err := coord.Start(ctx, addr); err != nil {
		return err
	}
	slog.Info("coordinator started", "addr", addr)

	seeds := append(append([]string{}, cfg.Coordinator.SeedAgents...), extraSeeds...)
	coord.SeedAgents(ctx, seeds)

	g, gctx := errgroup.WithContext(ctx)

	if cfg.MCP.Enabled {
		g.Go(func() error {
			slog.Info("mcp server started", "addr", cfg.MCP.Addr)
			return mcptools.RunMCPServer(gctx, mcptools.NewCoordinatorService(coord), cfg.MCP.Addr)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return coord.Stop(sctx)
	})

	return g.Wait()
}

// runAgent serves a single specialized agent until the context is cancelled.
func runAgent(ctx context.Context, cfg *config.Config, role agent.Role, flags cliFlags) error {
	reg := agent.NewRegistry()
	ag, err := reg.Spawn(role)
	if err != nil {
		return err
	}

	host := cfg.Agents.Host
	port := cfg.Agents.BasePort
	if flags.Host != "" {
		host = flags.Host
	}
	if flags.Port != 0 {
		port = flags.Port
	}

	addr := fmt.Sprintf("%s:%d", host, port)
	if err := ag.Start(ctx, addr); err != nil {
		return err
	}
	slog.Info("agent started", "name", ag.Card().Name, "addr", addr)

	<-ctx.Done()

	sctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return ag.Stop(sctx)
}

// runAll spawns the specialized agents and the coordinator in one process,
// registering the local agents with the coordinator at startup.
func runAll(ctx context.Context, cfg *config.Config) error {
	reg := agent.NewRegistry()
	agents, err := reg.SpawnAll(ctx, cfg.Agents.BasePort)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		reg.StopAll(sctx)
	}()

	seeds := make([]string, 0, len(agents))
	for i, ag := range agents {
		url := fmt.Sprintf("http://127.0.0.1:%d", cfg.Agents.BasePort+i)
		slog.Info("agent started", "name", ag.Card().Name, "url", url)
		seeds = append(seeds, url)
	}

	return runCoordinator(ctx, cfg, seeds)
}
