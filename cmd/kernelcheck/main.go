// Command kernelcheck is a thin demonstration CLI over the design
// kernel: it builds a kernel, runs phases from mission through a
// requested target, and prints the status summary. Grounded in the
// teacher's cmd/root.go + cmd/validate.go cobra wiring style.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/quasar/internal/kconfig"
	"github.com/papapumpkin/quasar/internal/kernel"
)

var rootCmd = &cobra.Command{
	Use:   "kernelcheck",
	Short: "Exercise the design kernel from the command line",
}

var runCmd = &cobra.Command{
	Use:   "run [phase]",
	Short: "Run phases from mission through the named phase (or all phases if omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRun,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().String("config", "", "config file (default .kernelcheck.yaml)")
	rootCmd.AddCommand(runCmd)
}

func initConfig() {
	viper.SetEnvPrefix("KERNELCHECK")
	viper.AutomaticEnv()
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".kernelcheck")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}
	_ = viper.ReadInConfig()
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := kconfig.Load()

	k, err := kernel.New(cfg.DesignName)
	if err != nil {
		return fmt.Errorf("building kernel: %w", err)
	}
	k.RegisterDefaultValidators()

	ctx := context.Background()
	if len(args) == 1 {
		if _, err := k.RunToPhase(ctx, args[0]); err != nil {
			return fmt.Errorf("running to phase %q: %w", args[0], err)
		}
	} else if _, err := k.RunAllPhases(ctx, true); err != nil {
		return fmt.Errorf("running all phases: %w", err)
	}

	summary, err := k.RunMetaValidation()
	if err != nil {
		return fmt.Errorf("meta validation: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "status: %s\n", k.GetStatusSummary()["status"])
	fmt.Fprintf(cmd.OutOrStdout(), "meta validation: %s — %s\n", summary.State, summary.Message)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
