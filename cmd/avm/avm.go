package main

import (
	"avm/builtins"
	"avm/conformance"
	"avm/config"
	"avm/eval"
	"avm/loader"
	"avm/logging"
	"avm/types"
	"avm/version"
	"fmt"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
)

// options are the persistent flags shared by every command
type options struct {
	configPath  string
	logToStderr bool
	verbose     int
	trace       bool
	traceFilter string
}

// NewAvmCmd builds the root command. The returned cleanup flushes logs.
func NewAvmCmd() (*cobra.Command, func()) {
	var opts options

	cmd := &cobra.Command{
		Use:           "avm",
		Short:         "Abstract virtual machine for a pattern-matching language",
		SilenceErrors: true,
		SilenceUsage:  true,
		Long: "avm runs programs given as YAML node trees.\n" +
			"\n" +
			"    $ avm run program.yaml    : run a program\n" +
			"    $ avm check program.yaml  : load a program and check its functions\n" +
			"    $ avm test [dir]          : run the conformance suites\n",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.InitLogging(opts.logToStderr, opts.verbose)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"Read settings from a YAML config file")
	cmd.PersistentFlags().BoolVar(&opts.logToStderr, "logtostderr", false,
		"Log to stderr instead of to files")
	cmd.PersistentFlags().IntVarP(&opts.verbose, "verbose", "v", 0,
		"Enable verbose logging (e.g., v=3); anything >3 is very verbose")
	cmd.PersistentFlags().BoolVar(&opts.trace, "trace", false,
		"Trace function calls, clause selection and exceptions to stderr")
	cmd.PersistentFlags().StringVar(&opts.traceFilter, "trace-filter", "",
		"Only trace function bodies matching these globs (e.g., 'fact*,sum')")

	cmd.AddCommand(newRunCmd(&opts))
	cmd.AddCommand(newCheckCmd(&opts))
	cmd.AddCommand(newTestCmd(&opts))
	cmd.AddCommand(newVersionCmd())

	return cmd, logging.Flush
}

// loadConfig reads the config file and applies flag overrides
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("trace") {
		cfg.Trace = opts.trace
	}
	if cmd.Flags().Changed("trace-filter") {
		cfg.TraceFilter = opts.traceFilter
	}
	cfg.InitTrace(cmd.ErrOrStderr())
	return cfg, nil
}

// newState builds a machine configured by cfg, writing program output to the
// command's stdout
func newState(cmd *cobra.Command, cfg *config.Config, withBuiltins bool) *eval.State {
	st := eval.NewState()
	cfg.Apply(st)
	st.Stdout = cmd.OutOrStdout()
	if withBuiltins {
		builtins.Install(st)
	}
	return st
}

// exit reports err on stdout the way the machine does and turns it into an
// exit code
func exit(cmd *cobra.Command, st *eval.State, err error) error {
	if code := st.Exit(err, cmd.OutOrStdout()); code != 0 {
		return exitError{code: code}
	}
	return nil
}

func newRunCmd(opts *options) *cobra.Command {
	var printResult bool
	var noBuiltins bool

	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Run a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			st := newState(cmd, cfg, !noBuiltins)

			prog, err := loader.LoadFile(args[0])
			if err != nil {
				return exit(cmd, st, err)
			}
			glog.V(1).Infof("loaded %s: %d functions, %d statements",
				prog.Name, len(prog.Functions), len(prog.Statements))

			result, err := prog.Run(st)
			if err != nil {
				return exit(cmd, st, err)
			}
			glog.V(2).Infof("allocations: %s", st.Arena.Stats())
			if printResult {
				fmt.Fprintln(cmd.OutOrStdout(), types.Display(result))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&printResult, "print", "p", false,
		"Print the value of the last statement")
	cmd.Flags().BoolVar(&noBuiltins, "no-builtins", false,
		"Do not install the builtin functions")
	return cmd
}

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE",
		Short: "Load a program and check its functions for redundant clauses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			st := newState(cmd, cfg, true)
			st.CheckRedundancy = true

			prog, err := loader.LoadFile(args[0])
			if err != nil {
				return exit(cmd, st, err)
			}
			if err := prog.Define(st); err != nil {
				return exit(cmd, st, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d functions, %d statements ok\n",
				prog.Name, len(prog.Functions), len(prog.Statements))
			return nil
		},
	}
}

func newTestCmd(opts *options) *cobra.Command {
	var showSkipped bool

	cmd := &cobra.Command{
		Use:   "test [DIR]",
		Short: "Run the YAML conformance suites",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			dir := cfg.Conformance
			if len(args) == 1 {
				dir = args[0]
			}

			out := cmd.OutOrStdout()
			tests, err := conformance.LoadDir(dir)
			if err != nil {
				if len(tests) == 0 {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}

			results := conformance.NewRunner().RunAll(tests)
			for _, r := range results {
				switch {
				case r.Skipped:
					if showSkipped {
						fmt.Fprintf(out, "SKIP %s/%s: %s\n", r.Test.File, r.Test.Test.Name, r.SkipReason)
					}
				case !r.Passed:
					fmt.Fprintf(out, "FAIL %s/%s: %v\n", r.Test.File, r.Test.Test.Name, r.Error)
				}
			}

			stats := conformance.ComputeStats(results)
			fmt.Fprintln(out, conformance.FormatStats(stats))
			if stats.Failed > 0 {
				return exitError{code: 1}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showSkipped, "show-skipped", false, "List skipped tests")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the avm version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "avm %s\n", version.Version)
		},
	}
}
