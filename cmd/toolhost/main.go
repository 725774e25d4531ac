package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"goa.design/clue/log"

	"github.com/jbdamask/toolhost/pkg/config"
	"github.com/jbdamask/toolhost/pkg/server"
	"github.com/jbdamask/toolhost/pkg/telemetry"
	"github.com/jbdamask/toolhost/pkg/ui"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("toolhost", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printHelp(stderr) }
	configPath := fs.String("config", "", "path to a YAML config file")
	debug := fs.Bool("debug", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cmd, rest := "serve", fs.Args()
	if len(rest) > 0 {
		cmd, rest = rest[0], rest[1:]
	}

	switch cmd {
	case "help", "--help", "-h":
		printHelp(stdout)
		return 0
	case "version", "--version", "-v":
		fmt.Fprintf(stdout, "toolhost v%s\n", version)
		return 0
	case "serve", "tools", "call", "models":
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", cmd)
		printHelp(stderr)
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}
	if *debug {
		cfg.Debug = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = telemetry.Context(ctx, telemetry.LogOptions{
		Output: stderr,
		Debug:  cfg.Debug,
		JSON:   cfg.LogJSON || !isatty.IsTerminal(os.Stderr.Fd()),
	})

	a := newApp(cfg)

	switch cmd {
	case "tools":
		ui.RenderToolList(stdout, a.registry.List())
	case "call":
		return handleCall(ctx, a, rest, stdout, stderr)
	case "models":
		results := a.resolver.ProbeAll(ctx)
		selected := ""
		for _, r := range results {
			if r.OK() {
				selected = r.Candidate
				break
			}
		}
		ui.RenderProbeReport(stdout, results, selected)
	default:
		log.Info(ctx,
			log.KV{K: "msg", V: "starting toolhost"},
			log.KV{K: "version", V: version},
			log.KV{K: "tools", V: len(a.registry.List())},
			log.KV{K: "providers", V: a.providers()},
			log.KV{K: "candidates", V: strings.Join(cfg.Models, ",")},
		)
		if err := server.Run(ctx, server.New(a.registry, version)); err != nil {
			log.Error(ctx, err, log.KV{K: "msg", V: "server stopped"})
			return 1
		}
	}
	return 0
}

func handleCall(ctx context.Context, a *app, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(stderr, "Usage: toolhost call <tool> ['<json arguments>']")
		return 2
	}
	callArgs := map[string]interface{}{}
	if len(args) == 2 && strings.TrimSpace(args[1]) != "" {
		if err := json.Unmarshal([]byte(args[1]), &callArgs); err != nil {
			fmt.Fprintf(stderr, "Error parsing arguments: %v\n", err)
			return 2
		}
	}
	fmt.Fprintln(stdout, a.registry.Call(ctx, args[0], callArgs))
	return 0
}

func printHelp(w io.Writer) {
	fmt.Fprint(w, `toolhost - MCP server with everyday assistant tools

Usage:
  toolhost [flags] [command]

Commands:
  serve                          Serve the tools over stdio (default)
  tools                          List the available tools
  call <tool> '<json>'           Run one tool and print its result
  models                         Probe every model candidate and report
  version                        Show version
  help                           Show this help message

Flags:
  --config <path>                YAML config file (default ./toolhost.yaml)
  --debug                        Enable debug logging

Environment:
  GEMINI_API_KEY, ANTHROPIC_API_KEY, OPENAI_API_KEY
  OPENWEATHER_API_KEY, NEWS_API_KEY
  TOOLHOST_MODELS, TOOLHOST_NOTES_FILE, TOOLHOST_DEBUG, TOOLHOST_CONFIG

Examples:
  toolhost call get_weather '{"city":"Lisbon"}'
  toolhost call convert_currency '{"amount":120,"from_currency":"USD","to_currency":"EUR"}'
  TOOLHOST_MODELS=claude-haiku-4-5,gemini-2.5-flash toolhost models
`)
}
