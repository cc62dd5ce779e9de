package main

import (
	"context"
	"errors"
	goflag "flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/antoninbas/jsonbench/filter"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

type newRunnerFunc func(c *Configuration, stdout, stderr io.Writer) Runner

func newDefaultRunner(c *Configuration, stdout, stderr io.Writer) Runner {
	return newJMHRunner(c, stdout, stderr)
}

type launcher struct {
	configPath  string
	dryRun      bool
	forks       int
	warmup      int
	measurement int
	newRunner   newRunnerFunc
}

// usageError marks errors caused by how the command was invoked.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand(newDefaultRunner).ExecuteContext(ctx)
	stop()
	klog.Flush()
	if err != nil {
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var selErr *filter.InvalidSelectionError
	var usageErr *usageError
	if errors.As(err, &selErr) || errors.As(err, &usageErr) {
		return 2
	}
	return 1
}

func newRootCommand(newRunner newRunnerFunc) *cobra.Command {
	l := &launcher{newRunner: newRunner}
	rootCmd := &cobra.Command{
		Use:          "jsonbench",
		Short:        "Benchmark JSON libraries",
		Long:         "Runs the JMH benchmarks comparing JSON libraries, selected by API style and library.",
		SilenceUsage: true,
		Args:         rootArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	flags := rootCmd.PersistentFlags()
	flags.IntVarP(&l.forks, "forks", "f", 1, "JMH: number of forks")
	flags.IntVarP(&l.warmup, "warmup", "w", 5, "JMH: number of warm up iterations")
	flags.IntVarP(&l.measurement, "measurement", "m", 5, "JMH: number of measurement iterations")
	flags.StringVar(&l.configPath, "config", "", "path to a YAML configuration file")
	flags.BoolVar(&l.dryRun, "dry-run", false, "print the selected benchmarks and the runner command without running it")

	klogFlags := goflag.NewFlagSet("klog", goflag.ContinueOnError)
	klog.InitFlags(klogFlags)
	flags.AddGoFlag(klogFlags.Lookup("v"))

	rootCmd.AddCommand(
		newBenchCommand(l, filter.Serialize, "ser", "Runs the serialization benchmarks"),
		newBenchCommand(l, filter.Deserialize, "deser", "Runs the deserialization benchmarks"),
	)
	return rootCmd
}

// rootArgs rejects anything that did not resolve to a subcommand.
func rootArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return &usageError{err: fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())}
	}
	return nil
}

func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return &usageError{err: err}
	}
	return nil
}

func newBenchCommand(l *launcher, mode filter.Mode, use, short string) *cobra.Command {
	var apis, libraries string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return l.run(cmd, mode, apis, libraries)
		},
	}
	var apiNames []string
	for _, a := range filter.APIs {
		apiNames = append(apiNames, string(a))
	}
	cmd.Flags().StringVar(&apis, "apis", "", "APIs to benchmark (csv). Defaults to all. Available: "+strings.Join(apiNames, ", "))
	cmd.Flags().StringVar(&libraries, "libraries", "", "Libraries to test (csv). Defaults to all. Available: "+strings.Join(filter.Libraries, ", "))
	return cmd
}

// configuration layers explicit flags over the configuration file over the
// built-in defaults.
func (l *launcher) configuration(cmd *cobra.Command, apis, libraries string) (*Configuration, error) {
	fileConfiguration, err := loadConfiguration(l.configPath)
	if err != nil {
		return nil, err
	}
	flagConfiguration := &Configuration{APIs: apis, Libraries: libraries}
	flags := cmd.Flags()
	if flags.Changed("forks") {
		flagConfiguration.Forks = intPtr(l.forks)
	}
	if flags.Changed("warmup") {
		flagConfiguration.WarmupIterations = intPtr(l.warmup)
	}
	if flags.Changed("measurement") {
		flagConfiguration.MeasurementIterations = intPtr(l.measurement)
	}
	return flagConfiguration.applyDefaults(fileConfiguration).applyDefaults(defaultConfiguration()), nil
}

func (l *launcher) run(cmd *cobra.Command, mode filter.Mode, apis, libraries string) error {
	c, err := l.configuration(cmd, apis, libraries)
	if err != nil {
		return err
	}

	plan, err := filter.Plan(mode, c.APIs, c.Libraries)
	if err != nil {
		return err
	}
	opts := Options{
		Forks:                 *c.Forks,
		WarmupIterations:      *c.WarmupIterations,
		MeasurementIterations: *c.MeasurementIterations,
	}
	for _, s := range plan {
		opts.Includes = append(opts.Includes, s.Pattern)
	}

	if l.dryRun {
		showPlan(cmd.OutOrStdout(), plan, newJMHRunner(c, nil, nil).commandLine(opts))
		return nil
	}

	ctx := cmd.Context()
	if err := checkJavaVersion(ctx, c.Command, c.JavaVersion); err != nil {
		return err
	}

	if rev, err := currentRevision("."); err != nil {
		klog.V(1).InfoS("Not recording git revision", "err", err)
	} else {
		klog.InfoS("Benchmarked revision", "hash", rev.Hash, "dirty", rev.Dirty)
	}

	klog.InfoS("Run Benchmark", "mode", mode, "includes", opts.Includes,
		"forks", opts.Forks, "warmupIterations", opts.WarmupIterations, "measurementIterations", opts.MeasurementIterations)
	if err := l.newRunner(c, cmd.OutOrStdout(), cmd.ErrOrStderr()).Run(ctx, opts); err != nil {
		return fmt.Errorf("failed to run benchmarks: %w", err)
	}
	return nil
}
