package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/veighnsche/scrolltile/internal/config"
	"github.com/veighnsche/scrolltile/internal/daemon"
	"github.com/veighnsche/scrolltile/internal/ipc"
	"github.com/veighnsche/scrolltile/internal/mcp"
	"github.com/veighnsche/scrolltile/internal/platform"
	"github.com/veighnsche/scrolltile/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "rows":
		os.Exit(runRows(os.Args[2:]))
	case "windows":
		os.Exit(runWindows(os.Args[2:]))
	case "msg":
		os.Exit(runMsg(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "sim":
		os.Exit(runSim(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: scrolltile <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Start the scrolltile daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  rows                List populated rows")
	fmt.Fprintln(w, "  windows             List managed windows")
	fmt.Fprintln(w, "  msg <action>        Run a layout command on the daemon")
	fmt.Fprintln(w, "  reload              Reload the daemon's configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  sim                 Interactive layout simulator (no X needed)")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'scrolltile <command> --help' for command-specific options.")
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/scrolltile/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: scrolltile run [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Start the daemon: manage windows on the active display in scrollable")
		fmt.Fprintln(os.Stderr, "rows of columns. SIGHUP reloads the configuration in place.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))

	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		logger.Error("failed to connect to display", "error", err)
		return 1
	}
	defer backend.Disconnect()

	d, err := daemon.New(backend, cfg, daemon.Options{
		Logger:     logger,
		ConfigPath: *path,
	})
	if err != nil {
		logger.Error("failed to initialize daemon", "error", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		for sig := range sigCh {
			switch sig {
			case syscall.SIGHUP:
				logger.Info("received SIGHUP, reloading config")
				if err := d.Reload(); err != nil {
					logger.Error("config reload failed", "error", err)
				}
			case os.Interrupt, syscall.SIGTERM:
				logger.Info("shutting down")
				cancel()
				return
			}
		}
	}()

	if err := d.Run(ctx); err != nil {
		logger.Error("daemon failed", "error", err)
		return 1
	}
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: scrolltile status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient("")
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("window_count:   %d\n", status.WindowCount)
	fmt.Printf("row_count:      %d\n", status.RowCount)
	fmt.Printf("active_row:     %d\n", status.ActiveRow)
	if status.FocusedWindow != 0 {
		fmt.Printf("focused_window: %d\n", status.FocusedWindow)
	}
	fmt.Printf("animating:      %v\n", status.Animating)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	return 0
}

func runRows(args []string) int {
	fs := flag.NewFlagSet("rows", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	jsonOut := fs.Bool("json", false, "Output as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: scrolltile rows [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List populated rows top to bottom. Index 0 is the origin row.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient("")
	data, err := client.GetRows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *jsonOut {
		return printJSON(data)
	}
	for _, r := range data.Rows {
		marker := " "
		if r.Active {
			marker = "*"
		}
		name := r.Name
		if name == "" {
			name = "-"
		}
		urgent := ""
		if r.Urgent {
			urgent = "  urgent"
		}
		fmt.Printf("%s %3d  %-16s %d columns%s\n", marker, r.Index, name, r.Columns, urgent)
	}
	return 0
}

func runWindows(args []string) int {
	fs := flag.NewFlagSet("windows", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	jsonOut := fs.Bool("json", false, "Output as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: scrolltile windows [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List managed windows with their current frame rectangles.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient("")
	data, err := client.GetWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *jsonOut {
		return printJSON(data)
	}
	for _, w := range data.Windows {
		marker := " "
		if w.Focused {
			marker = "*"
		}
		kind := "tiled"
		if w.Floating {
			kind = "float"
		}
		fmt.Printf("%s %8d  row %3d  %s  %.0fx%.0f at %.0f,%.0f\n",
			marker, w.ID, w.Row, kind, w.Width, w.Height, w.X, w.Y)
	}
	return 0
}

func runMsg(args []string) int {
	fs := flag.NewFlagSet("msg", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	direction := fs.String("direction", "", "Direction argument: left, right, up, down")
	fraction := fs.Float64("fraction", 0, "Fractional size argument in (0,1]")
	pixels := fs.Int("pixels", 0, "Pixel size argument")
	rowName := fs.String("row-name", "", "Named row argument")
	rowIndex := fs.Int("row-index", 0, "Row index argument")
	windowID := fs.Uint64("window-id", 0, "Window id argument")
	x := fs.Float64("x", 0, "Pointer x coordinate or delta")
	y := fs.Float64("y", 0, "Pointer y coordinate or delta")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: scrolltile msg [flags] <action>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run a named layout command on the daemon. Common actions:")
		fmt.Fprintln(os.Stderr, "  focus, focus-window, focus-row, focus-first, focus-last")
		fmt.Fprintln(os.Stderr, "  move-column, move-to-row, consume, expel, toggle-tabbed, toggle-floating")
		fmt.Fprintln(os.Stderr, "  set-column-width, set-tile-height, cycle-column-width, cycle-tile-height")
		fmt.Fprintln(os.Stderr, "  name-row, unname-row, remove-named-row, close-window, switch-layer")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Examples:")
		fmt.Fprintln(os.Stderr, "  scrolltile msg --direction right focus")
		fmt.Fprintln(os.Stderr, "  scrolltile msg --fraction 0.5 set-column-width")
		fmt.Fprintln(os.Stderr, "  scrolltile msg --row-name mail focus-row")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "msg requires exactly one <action>")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient("")
	err := client.Do(ipc.ActionPayload{
		Name:      fs.Arg(0),
		Direction: *direction,
		Fraction:  *fraction,
		Pixels:    *pixels,
		RowName:   *rowName,
		RowIndex:  *rowIndex,
		WindowID:  *windowID,
		X:         *x,
		Y:         *y,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runReload(args []string) int {
	fs := flag.NewFlagSet("reload", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: scrolltile reload")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Ask the daemon to re-read its configuration. No window is destroyed.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient("")
	if err := client.Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runSim(args []string) int {
	fs := flag.NewFlagSet("sim", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/scrolltile/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: scrolltile sim [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive layout simulator driving the engine against synthetic")
		fmt.Fprintln(os.Stderr, "windows. Useful for trying out configs without a display server.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  n/N       Spawn a tiled / floating window")
		fmt.Fprintln(os.Stderr, "  x         Close the focused window")
		fmt.Fprintln(os.Stderr, "  h/j/k/l   Move focus (arrows work too)")
		fmt.Fprintln(os.Stderr, "  H/J/K/L   Move the active column")
		fmt.Fprintln(os.Stderr, "  c/e       Consume / expel")
		fmt.Fprintln(os.Stderr, "  t/f/tab   Tabbed column, floating toggle, layer switch")
		fmt.Fprintln(os.Stderr, "  w/s       Cycle width / height presets")
		fmt.Fprintln(os.Stderr, "  -/+       Resize the active column")
		fmt.Fprintln(os.Stderr, "  [/]       Scroll the row")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C Quit")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := tui.Run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runMCP(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage: scrolltile mcp serve")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Start the MCP server on stdio. Tools control the running daemon")
		fmt.Fprintln(os.Stderr, "through its IPC socket.")
		if len(args) == 0 {
			return 2
		}
		return 0
	}
	if args[0] != "serve" {
		fmt.Fprintf(os.Stderr, "Unknown mcp subcommand: %s\n", args[0])
		return 2
	}

	server := mcp.NewServer(ipc.NewClient(""))
	if err := server.Run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  scrolltile config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  scrolltile config print [--path PATH] [--defaults]")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/scrolltile/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		if _, err := loadConfig(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/scrolltile/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			var err error
			cfg, err = loadConfig(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func printJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
