package main

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	if err := LoadEnv(); err != nil {
		Logger.Warnf("failed to load .env: %v", err)
	}
	cfg := ConfigFromEnv()
	if err := rootCommand(&cfg).Execute(); err != nil {
		os.Exit(1)
	}
	Logger.Sync()
}

func rootCommand(cfg *Config) *cobra.Command {
	root := &cobra.Command{
		Use:          "ptmbench",
		Short:        "sweep persistent-memory benchmarks over engines, workloads and thread counts",
		SilenceUsage: true,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&cfg.Duration, "duration", cfg.Duration, "duration of each run, passed as {duration}")
	flags.IntVar(&cfg.Retries, "retries", cfg.Retries, "max attempts per grid point while the benchmark exits with 42")
	flags.DurationVar(&cfg.Cooldown, "cooldown", cfg.Cooldown, "pause between reset and invocation")
	flags.StringVar(&cfg.Reset, "reset", cfg.Reset, "command that clears persistent-memory state")
	flags.StringSliceVar(&cfg.ShmGlobs, "remove", cfg.ShmGlobs, "backing files removed on every reset")
	flags.BoolVar(&cfg.DropCaches, "drop-caches", cfg.DropCaches, "drop fs caches on every reset")
	flags.StringVar(&cfg.OutputDir, "output-dir", cfg.OutputDir, "directory for result files")
	flags.StringVar(&cfg.ResultsDB, "results-db", cfg.ResultsDB, "libsql url or sqlite file mirroring every result")
	flags.BoolVar(&cfg.Echo, "echo", cfg.Echo, "also print captured output to the console")
	flags.BoolVar(&cfg.Aggregate, "aggregate", cfg.Aggregate, "record every target into a result file")
	flags.StringSliceVar(&cfg.Targets, "targets", cfg.Targets, "restrict the sweep to these targets")

	for _, name := range PresetNames() {
		root.AddCommand(presetCommand(cfg, name))
	}
	root.AddCommand(generateCommand(cfg))
	root.AddCommand(fileCommand(cfg))
	root.AddCommand(planCommand(cfg))
	return root
}

func presetCommand(cfg *Config, name string) *cobra.Command {
	var generate bool
	cmd := &cobra.Command{
		Use:   name,
		Short: presets[name].description,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			specs, err := loadSpecs(*cfg, name)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if generate {
				if err := DefaultWorkloadGenerator().Generate(ctx, NewInvoker(false)); err != nil {
					return err
				}
			}
			return runSweeps(ctx, *cfg, specs)
		},
	}
	if name == "ycsb" {
		cmd.Flags().BoolVar(&generate, "generate", false, "generate and relocate YCSB workloads first")
	}
	return cmd
}

func generateCommand(cfg *Config) *cobra.Command {
	generator := DefaultWorkloadGenerator()
	cmd := &cobra.Command{
		Use:   "gen-ycsb",
		Short: "generate YCSB workload files and move them to the workload directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return generator.Generate(ctx, NewInvoker(cfg.Echo))
		},
	}
	cmd.Flags().StringVar(&generator.Binary, "generator", generator.Binary, "workload generator binary")
	cmd.Flags().StringSliceVar(&generator.Workloads, "workloads", generator.Workloads, "workloads to generate")
	cmd.Flags().StringSliceVar(&generator.Threads, "threads", generator.Threads, "thread counts to generate for")
	cmd.Flags().StringVar(&generator.SourceDir, "from", generator.SourceDir, "directory the generator writes to")
	cmd.Flags().StringVar(&generator.DestDir, "to", generator.DestDir, "directory the workloads are moved to")
	return cmd
}

func fileCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "run <sweep.hcl>",
		Short: "run the sweeps declared in an HCL file, in file order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			specs, err := loadSpecs(*cfg, args[0])
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runSweeps(ctx, *cfg, specs)
		},
	}
}

func planCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <preset|sweep.hcl>",
		Short: "print the command lines a sweep would run, without running them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			specs, err := loadSpecs(*cfg, args[0])
			if err != nil {
				return err
			}
			return printPlan(cmd.OutOrStdout(), specs)
		},
	}
}

func loadSpecs(cfg Config, source string) ([]SweepSpec, error) {
	var specs []SweepSpec
	if _, ok := presets[source]; ok {
		spec, err := Preset(source, cfg.Settings())
		if err != nil {
			return nil, err
		}
		specs = []SweepSpec{spec}
	} else {
		loaded, err := LoadSweepFile(source, cfg.Settings())
		if err != nil {
			return nil, err
		}
		specs = loaded
	}
	for i := range specs {
		selected, err := specs[i].Select(cfg.Targets)
		if err != nil {
			return nil, err
		}
		specs[i] = selected
	}
	owners := make(map[string]string)
	for _, spec := range specs {
		for _, target := range spec.Targets {
			if !target.Aggregate() {
				continue
			}
			owner := spec.Name + "/" + target.Name
			if other, ok := owners[target.ResultFile]; ok {
				return nil, fmt.Errorf("%v and %v both write %v", other, owner, target.ResultFile)
			}
			owners[target.ResultFile] = owner
		}
	}
	return specs, nil
}

func printPlan(w io.Writer, specs []SweepSpec) error {
	for _, spec := range specs {
		for _, target := range spec.Targets {
			destination := "console"
			if target.Aggregate() {
				destination = target.ResultFile
			}
			if _, err := fmt.Fprintf(w, "# %v/%v -> %v\n", spec.Name, target.Name, destination); err != nil {
				return err
			}
			for point := range spec.Points(target) {
				if _, err := fmt.Fprintln(w, spec.CommandLine(point)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func runSweeps(ctx context.Context, cfg Config, specs []SweepSpec) error {
	info := HostStat()
	Logger.Infof("host stat: %+v", info)

	var recorder Recorder
	var ledger *Ledger
	if cfg.ResultsDB != "" {
		var err error
		ledger, err = OpenLedger(cfg.ResultsDB)
		if err != nil {
			return err
		}
		defer ledger.Close()
		recorder = ledger
	}

	resetter := &StateResetter{
		Command:    cfg.Reset,
		Globs:      cfg.ShmGlobs,
		DropCaches: cfg.DropCaches,
	}
	for _, spec := range specs {
		if ledger != nil {
			meta := info.Meta()
			maps.Copy(meta, map[string]any{
				"retries":  spec.RetryCap,
				"cooldown": spec.Cooldown,
				"duration": spec.Duration,
				"command":  spec.Command,
			})
			if err := ledger.Init(ctx, spec.Name, meta); err != nil {
				return fmt.Errorf("failed to initialize ledger %v: %w", cfg.ResultsDB, err)
			}
		}
		resetter.Cooldown = spec.Cooldown
		system := NewSystem(NewInvoker(cfg.Echo), resetter, FileSinks{}, recorder)
		summary, err := system.Run(ctx, spec)
		if err != nil {
			return fmt.Errorf("sweep %v interrupted after %v points: %w", spec.Name, summary.Points, err)
		}
	}
	return nil
}
