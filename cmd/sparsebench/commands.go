package main

import (
	"fmt"

	"github.com/notargets/SparseKernel/harness"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// addCaseFlags registers one flag per harness.Arguments field
func addCaseFlags(fs *pflag.FlagSet) {
	d := harness.DefaultArguments()
	fs.StringP("function", "f", d.Function, "Routine to test: csr2hyb, roti, roti_inverse")
	fs.StringP("precision", "r", d.Precision, "Value precision: s or d")
	fs.IntP("rows", "m", d.M, "Matrix rows")
	fs.IntP("cols", "n", d.N, "Matrix columns, or dense vector length for roti")
	fs.IntP("nnz", "z", d.Nnz, "Sparse vector nonzeros for roti")
	fs.Float64("alpha", d.Alpha, "Rotation cosine c")
	fs.Float64("beta", d.Beta, "Rotation sine s")
	fs.Int("base", d.BaseA, "Index base, 0 or 1")
	fs.String("partition", d.Part, "HYB partition: auto, user or max")
	fs.Int("ell-width", d.EllWidth, fmt.Sprintf("ELL width for the user partition (%d: nnz/m)", harness.EllWidthDefault))
	fs.String("file", "", "Matrix file (.mtx, .mtx.zst, .mtx.lz4, .bin) instead of a random matrix")
	fs.Int("iters", d.Iters, "Timed iterations")
	fs.Bool("unit-check", d.UnitCheck, "Compare results to the host reference")
	fs.Bool("timing", d.Timing, "Measure and report throughput")
}

// caseArguments reads the case flags through viper, so environment and
// config file values apply.
func caseArguments() harness.Arguments {
	return harness.Arguments{
		Function:  viper.GetString("function"),
		Precision: viper.GetString("precision"),
		M:         viper.GetInt("rows"),
		N:         viper.GetInt("cols"),
		Nnz:       viper.GetInt("nnz"),
		Alpha:     viper.GetFloat64("alpha"),
		Beta:      viper.GetFloat64("beta"),
		BaseA:     viper.GetInt("base"),
		Part:      viper.GetString("partition"),
		EllWidth:  viper.GetInt("ell-width"),
		Filename:  viper.GetString("file"),
		Iters:     viper.GetInt("iters"),
		UnitCheck: viper.GetBool("unit-check"),
		Timing:    viper.GetBool("timing"),
	}
}

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a single case described by flags",
		RunE: func(cmd *cobra.Command, _ []string) error {
			args := caseArguments()
			if err := args.Validate(); err != nil {
				return err
			}
			env, done, err := newEnv()
			if err != nil {
				return err
			}
			defer done()

			r := newReporter(env.Log)
			r.run(args.Function, func() error {
				return harness.RunCase(r, env, args)
			})
			return r.err()
		},
	}
	addCaseFlags(cmd.Flags())
	return cmd
}

func newBadArgCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bad-arg",
		Short: "Probe a routine with invalid arguments in both precisions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			function := viper.GetString("function")
			env, done, err := newEnv()
			if err != nil {
				return err
			}
			defer done()

			r := newReporter(env.Log)
			for _, precision := range []string{"s", "d"} {
				name := function + "-bad-arg-" + precision
				r.run(name, func() error {
					return harness.RunBadArg(r, env, function, precision)
				})
			}
			return r.err()
		},
	}
	cmd.Flags().StringP("function", "f", "csr2hyb", "Routine to probe: csr2hyb or roti")
	return cmd
}

func newSuiteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suite FILE",
		Short: "Run every case of a YAML suite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			suite, err := harness.LoadSuite(args[0])
			if err != nil {
				return err
			}
			env, done, err := newEnv()
			if err != nil {
				return err
			}
			defer done()

			logrus.WithFields(logrus.Fields{
				"suite": suite.Name,
				"cases": len(suite.Cases),
			}).Info("running suite")

			r := newReporter(env.Log)
			for _, c := range suite.Cases {
				r.run(c.Name, func() error {
					return harness.RunCase(r, env, c.Arguments)
				})
			}
			return r.err()
		},
	}
	return cmd
}
