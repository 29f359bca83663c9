package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	syscontrol "github.com/ming198921/arbitrage-control"
)

func newRootCmd() *cobra.Command {
	var configPath string
	var verbose bool
	var facade *syscontrol.Facade

	root := &cobra.Command{
		Use:           "arbctl",
		Short:         "Control the arbitrage system across deployment backends",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			facade, err = newFacade(configPath, verbose)
			return err
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to control configuration YAML")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newLifecycleCmd("start", "Start the named modules", func(ctx context.Context, modules []string) map[string]syscontrol.ControlResponse {
			return facade.StartAll(ctx, modules)
		}),
		newLifecycleCmd("stop", "Stop the named modules", func(ctx context.Context, modules []string) map[string]syscontrol.ControlResponse {
			return facade.StopAll(ctx, modules)
		}),
		newRestartCmd(&facade),
		newStatusCmd(&facade),
		newLogsCmd(&facade),
		newConfigPushCmd(&facade),
		newWaitCmd(&facade),
		newWatchCmd(&facade),
		newVersionCmd(),
	)

	return root
}

func newLifecycleCmd(verb, short string, run func(context.Context, []string) map[string]syscontrol.ControlResponse) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <module>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := run(cmd.Context(), args)

			failed := 0
			for _, module := range args {
				resp := results[module]
				printResponse(module, resp)
				if !resp.Success {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d modules failed", failed, len(args))
			}
			return nil
		},
	}
}

func newRestartCmd(facade **syscontrol.Facade) *cobra.Command {
	return &cobra.Command{
		Use:   "restart <module>...",
		Short: "Restart the named modules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, module := range args {
				resp := (*facade).Restart(cmd.Context(), module)
				printResponse(module, resp)
				if !resp.Success {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d modules failed", failed, len(args))
			}
			return nil
		},
	}
}

func newStatusCmd(facade **syscontrol.Facade) *cobra.Command {
	return &cobra.Command{
		Use:   "status <module>...",
		Short: "Show module status snapshots",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshots := (*facade).AllStatuses(cmd.Context(), args)
			for _, s := range snapshots {
				line := fmt.Sprintf("%-16s %-9s %-10s", s.Name, s.State, s.Health)
				if s.Metrics != nil {
					line += fmt.Sprintf("  cpu=%.1f mem=%.1f req=%.1f", s.Metrics.CPU, s.Metrics.Memory, s.Metrics.Requests)
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}

func newLogsCmd(facade **syscontrol.Facade) *cobra.Command {
	var lines int
	var output string

	cmd := &cobra.Command{
		Use:   "logs <module>",
		Short: "Fetch recent log lines for a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := (*facade).Logs(cmd.Context(), args[0], lines)

			if output == "" {
				for _, line := range out {
					fmt.Println(line)
				}
				return nil
			}

			// Atomic write: a crash mid-dump never leaves a torn file
			data := strings.Join(out, "\n") + "\n"
			return renameio.WriteFile(output, []byte(data), 0o644)
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", syscontrol.DefaultLogLines, "number of log lines to fetch")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the log snapshot to a file instead of stdout")
	return cmd
}

func newConfigPushCmd(facade **syscontrol.Facade) *cobra.Command {
	var file string
	var watch bool

	cmd := &cobra.Command{
		Use:   "config-push <module>",
		Short: "Push module configuration from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module := args[0]

			push := func() error {
				config, err := readConfigPayload(file)
				if err != nil {
					return err
				}
				resp := (*facade).UpdateConfig(cmd.Context(), module, config)
				printResponse(module, resp)
				if !resp.Success {
					return fmt.Errorf("config push failed: %s", resp.Message)
				}
				return nil
			}

			if err := push(); err != nil {
				return err
			}
			if !watch {
				return nil
			}

			return watchAndRepush(cmd.Context(), file, push)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file holding the module configuration")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep running and re-push whenever the file changes")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// watchAndRepush re-pushes the config whenever the file is written,
// until ctx ends or an interrupt arrives
func watchAndRepush(ctx context.Context, file string, push func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(file); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	fmt.Fprintln(os.Stderr, "watching", file, "for changes, interrupt to stop")
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) {
				if err := push(); err != nil {
					fmt.Fprintln(os.Stderr, "re-push failed:", err)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, "watch error:", err)
		}
	}
}

func newWaitCmd(facade **syscontrol.Facade) *cobra.Command {
	var state string

	cmd := &cobra.Command{
		Use:   "wait <module>",
		Short: "Block until a module reaches the given state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, ok := parseState(state)
			if !ok {
				return fmt.Errorf("unknown state %q", state)
			}

			snapshot, err := (*facade).Wait(cmd.Context(), args[0], target)
			if err != nil {
				return err
			}
			fmt.Printf("%s reached %s (health %s)\n", snapshot.Name, snapshot.State, snapshot.Health)
			return nil
		},
	}

	cmd.Flags().StringVarP(&state, "state", "s", "running", "state to wait for")
	return cmd
}

func newWatchCmd(facade **syscontrol.Facade) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <module>",
		Short: "Stream state changes for a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			events, cleanup := (*facade).Watch(ctx, args[0])
			defer func() { _ = cleanup() }()

			for {
				select {
				case <-ctx.Done():
					return nil
				case event, ok := <-events:
					if !ok {
						return nil
					}
					fmt.Printf("%s: %s (health %s)\n", event.Module.Name, event.Module.State, event.Module.Health)
				}
			}
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := syscontrol.GetVersion()
			fmt.Printf("arbctl %s (backends: %s)\n", info.Version, strings.Join(info.Backends, ", "))
			return nil
		},
	}
}

// parseState maps the --state flag onto a ModuleState
func parseState(raw string) (syscontrol.ModuleState, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "stopped":
		return syscontrol.StateStopped, true
	case "starting":
		return syscontrol.StateStarting, true
	case "running":
		return syscontrol.StateRunning, true
	case "stopping":
		return syscontrol.StateStopping, true
	case "error":
		return syscontrol.StateError, true
	default:
		return syscontrol.StateUnknown, false
	}
}

// readConfigPayload loads a YAML file into the generic config map the
// controllers push
func readConfigPayload(file string) (map[string]any, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var payload map[string]any
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", file, err)
	}
	return payload, nil
}

func printResponse(module string, resp syscontrol.ControlResponse) {
	marker := "ok"
	if !resp.Success {
		marker = "FAILED"
	}
	fmt.Printf("%-16s %-7s %s\n", module, marker, resp.Message)
}
