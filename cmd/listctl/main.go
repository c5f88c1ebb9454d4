package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"

	"github.com/pthm/listctl"
	"github.com/pthm/listctl/lib/declare"
	"github.com/pthm/listctl/lib/encoding"
)

const version = "0.1.0"

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		printUsage(stderr)
		return errUsage
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "render":
		return runRender(args, stdout, stderr)
	case "summary":
		return runSummary(args, stdout, stderr)
	case "token":
		return runToken(args, stdout, stderr)
	case "version":
		fmt.Fprintf(stdout, "listctl version %s\n", version)
		return nil
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n", cmd)
		printUsage(stderr)
		return errUsage
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `listctl - list controls toolbar builder

Usage:
  listctl <command> [options] <tree.yaml> [query]

Commands:
  render    Bind a declared tree to a query and print its state
  summary   Print the active controls for a query
  token     Print the state token preserving a query
  version   Print version
  help      Show this help

Options:
  --config file      YAML config file (format, log_level, key, sensitive, indent)
  --format format    State format for render: json or msgpack
  --indent           Indent JSON output

Examples:
  listctl render controls.yaml 'layout=list&color=red'
  listctl render --format msgpack controls.yaml > state.bin
  listctl summary controls.yaml 'q=shoes&in_stock=1'`)
}

type invocation struct {
	cfg   *Config
	tree  *declare.Tree
	query listctl.Query
	log   *slog.Logger
}

func parseInvocation(name string, args []string, stderr io.Writer) (*invocation, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML config file")
	format := fs.String("format", "", "state format (json or msgpack)")
	indent := fs.Bool("indent", false, "indent JSON output")
	if err := fs.Parse(args); err != nil {
		return nil, errUsage
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		printUsage(stderr)
		return nil, errUsage
	}

	cfg := &Config{}
	if *configPath != "" {
		loaded, err := LoadConfigFile(*configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	cfg.defaults()
	if *format != "" {
		cfg.Format = *format
	}
	if *indent {
		cfg.Indent = true
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.level()}))

	tree, err := declare.LoadFile(fs.Arg(0))
	if err != nil {
		return nil, err
	}
	logger.Debug("tree loaded", "path", fs.Arg(0))

	return &invocation{
		cfg:   cfg,
		tree:  tree,
		query: listctl.ParseQuery(fs.Arg(1)),
		log:   logger,
	}, nil
}

func (inv *invocation) bind() (*listctl.Binder, error) {
	b := listctl.NewBinder(inv.tree, listctl.WithLogger(inv.log))
	if err := b.Bind(inv.query); err != nil {
		return nil, err
	}
	return b, nil
}

func runRender(args []string, stdout, stderr io.Writer) error {
	inv, err := parseInvocation("render", args, stderr)
	if err != nil {
		return err
	}
	format, err := encoding.ParseFormat(inv.cfg.Format)
	if err != nil {
		return err
	}
	b, err := inv.bind()
	if err != nil {
		return err
	}

	if format == encoding.FormatJSON && inv.cfg.Indent {
		state, err := listctl.InitialState(b)
		if err != nil {
			return err
		}
		return writeJSON(stdout, state, true)
	}
	data, err := listctl.MarshalState(b, format)
	if err != nil {
		return err
	}
	_, err = stdout.Write(data)
	return err
}

type summaryLine struct {
	Name         string `json:"name"`
	Label        string `json:"label"`
	DisplayValue string `json:"displayValue"`
	Value        string `json:"value"`
}

func runSummary(args []string, stdout, stderr io.Writer) error {
	inv, err := parseInvocation("summary", args, stderr)
	if err != nil {
		return err
	}
	b, err := inv.bind()
	if err != nil {
		return err
	}

	lines := []summaryLine{}
	for _, e := range b.Summary() {
		lines = append(lines, summaryLine{
			Name:         e.Name,
			Label:        e.Label,
			DisplayValue: e.DisplayValue,
			Value:        e.Value,
		})
	}
	return writeJSON(stdout, lines, inv.cfg.Indent)
}

func runToken(args []string, stdout, stderr io.Writer) error {
	inv, err := parseInvocation("token", args, stderr)
	if err != nil {
		return err
	}
	if inv.cfg.Key == "" {
		return errors.New("token: no key configured (set key in the config file or LISTCTL_KEY)")
	}
	enc, err := listctl.NewEncoder([]byte(inv.cfg.Key))
	if err != nil {
		return err
	}
	b, err := inv.bind()
	if err != nil {
		return err
	}
	token, err := listctl.StateToken(enc, b, url.Values(inv.query), inv.cfg.Sensitive)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, token)
	return nil
}

func writeJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
