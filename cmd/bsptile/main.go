package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/bsptile/internal/config"
	"github.com/1broseidon/bsptile/internal/daemon"
	"github.com/1broseidon/bsptile/internal/hotkeys"
	"github.com/1broseidon/bsptile/internal/ipc"
	"github.com/1broseidon/bsptile/internal/mcp"
	"github.com/1broseidon/bsptile/internal/platform"
	"github.com/1broseidon/bsptile/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		if len(os.Args) > 2 {
			fmt.Fprintln(os.Stderr, "daemon takes no arguments")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Usage: bsptile daemon")
			os.Exit(2)
		}
		runDaemon()
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "windows":
		os.Exit(runWindows(os.Args[2:]))
	case "focus":
		os.Exit(runFocus(os.Args[2:]))
	case "retile":
		os.Exit(runRetile(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "preview":
		os.Exit(runPreview(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
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
	fmt.Fprintln(w, "Usage: bsptile <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the bsptile daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  windows             List managed windows in layout order")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  focus next          Focus the next window in layout order")
	fmt.Fprintln(w, "  focus prev          Focus the previous window in layout order")
	fmt.Fprintln(w, "  retile              Force an immediate layout pass")
	fmt.Fprintln(w, "  reload              Reload daemon configuration from disk")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print effective configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  preview             Preview the partition layout in the terminal")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'bsptile <command> --help' for command-specific options.")
}

func runDaemon() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Configuration loaded (padding: %dpx, resync: %ds)", cfg.ScreenPadding, cfg.ResyncSeconds)

	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer backend.Disconnect()

	d := daemon.New(backend, cfg)

	// Window events flow in through root property changes; each one just
	// kicks the daemon into a sync pass.
	if err := backend.WatchRoot(d.Kick); err != nil {
		log.Printf("Warning: window event watching unavailable: %v", err)
	}

	hotkeyHandler, err := hotkeys.NewHandler(backend)
	if err != nil {
		log.Printf("Warning: hotkeys unavailable: %v", err)
	} else {
		registerHotkey(hotkeyHandler, "focus_next", cfg.Hotkeys.FocusNext, func() {
			if _, err := d.FocusNext(); err != nil {
				log.Printf("Focus next failed: %v", err)
			}
		})
		registerHotkey(hotkeyHandler, "focus_prev", cfg.Hotkeys.FocusPrev, func() {
			if _, err := d.FocusPrev(); err != nil {
				log.Printf("Focus prev failed: %v", err)
			}
		})
		registerHotkey(hotkeyHandler, "retile", cfg.Hotkeys.Retile, d.Kick)
	}

	ipcServer, err := ipc.NewServer(d)
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		for sig := range sigs {
			switch sig {
			case syscall.SIGHUP:
				log.Println("SIGHUP received, reloading configuration")
				newCfg, err := config.Load()
				if err != nil {
					log.Printf("Warning: config reload failed: %v", err)
					continue
				}
				d.UpdateConfig(newCfg)
			default:
				log.Printf("%v received, shutting down", sig)
				cancel()
				backend.Quit()
				return
			}
		}
	}()

	log.Println("bsptile daemon started")
	backend.EventLoop()
}

func registerHotkey(h *hotkeys.Handler, name, sequence string, callback func()) {
	if sequence == "" {
		return
	}
	if err := h.Register(sequence, callback); err != nil {
		log.Printf("Warning: failed to register %s hotkey %q: %v", name, sequence, err)
		return
	}
	log.Printf("Hotkey registered: %s = %s", name, sequence)
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: bsptile status")
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Printf("Display:  %s\n", status.DisplayName)
	fmt.Printf("Windows:  %d\n", status.WindowCount)
	fmt.Printf("Screen:   %dx%d at (%d,%d)\n", status.ScreenWidth, status.ScreenHeight, status.ScreenX, status.ScreenY)
	fmt.Printf("Uptime:   %ds\n", status.UptimeSeconds)
	return 0
}

func runWindows(args []string) int {
	fs := flag.NewFlagSet("windows", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: bsptile windows")
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	data, err := ipc.NewClient().GetWindows()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if len(data.Windows) == 0 {
		fmt.Println("No managed windows")
		return 0
	}
	for i, w := range data.Windows {
		fmt.Printf("%2d  0x%08x  %-20s %s\n", i+1, w.ID, w.Class, w.Title)
	}
	return 0
}

func runFocus(args []string) int {
	if len(args) != 1 || (args[0] != "next" && args[0] != "prev") {
		fmt.Fprintln(os.Stderr, "Usage: bsptile focus next|prev")
		return 2
	}

	client := ipc.NewClient()
	var id uint32
	var err error
	if args[0] == "next" {
		id, err = client.FocusNext()
	} else {
		id, err = client.FocusPrev()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Printf("Activated window 0x%08x\n", id)
	return 0
}

func runRetile(args []string) int {
	fs := flag.NewFlagSet("retile", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: bsptile retile")
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if err := ipc.NewClient().Retile(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Println("Retiled")
	return 0
}

func runReload(args []string) int {
	fs := flag.NewFlagSet("reload", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: bsptile reload")
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if err := ipc.NewClient().Reload(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Println("Configuration reloaded")
	return 0
}

func runConfig(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: bsptile config validate|print")
		return 2
	}

	switch args[0] {
	case "validate":
		if _, err := config.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			return 1
		}
		fmt.Println("Configuration is valid")
		return 0

	case "print":
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		os.Stdout.Write(data)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		fmt.Fprintln(os.Stderr, "Usage: bsptile config validate|print")
		return 2
	}
}

func runPreview(args []string) int {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	count := fs.Int("windows", 4, "number of windows to preview")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: bsptile preview [--windows N]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if err := tui.Run(*count); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runMCP(args []string) int {
	if len(args) < 1 || args[0] != "serve" {
		fmt.Fprintln(os.Stderr, "Usage: bsptile mcp serve")
		return 2
	}

	// MCP protocol owns stdout; keep logging on stderr.
	log.SetOutput(os.Stderr)

	server := mcp.NewServer(nil)
	if err := server.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
		return 1
	}
	return 0
}
