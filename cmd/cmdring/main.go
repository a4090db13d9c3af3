package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	clientcmd "github.com/rzbill/cmdring/internal/cmd/client"
	serverrun "github.com/rzbill/cmdring/internal/cmd/server"
	cfgpkg "github.com/rzbill/cmdring/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := clientcmd.NewRoot()
	rootCmd.Short = "cmdring runtime CLI"
	rootCmd.Long = "cmdring is a single-binary command ring device. This CLI runs the server and drives the device."

	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverCmd.AddCommand(newServerStartCommand())
	rootCmd.AddCommand(serverCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newServerStartCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "start",
		Short:   "Start the cmdring server (gRPC and HTTP)",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			dataDir, _ := cmd.Flags().GetString("data-dir")
			grpcAddr, _ := cmd.Flags().GetString("grpc")
			httpAddr, _ := cmd.Flags().GetString("http")

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			if err := serverrun.Run(ctx, serverrun.Options{
				DataDir:  dataDir,
				GRPCAddr: grpcAddr,
				HTTPAddr: httpAddr,
				Config:   cfg,
			}); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().String("data-dir", "", "Data directory (overrides dataDir and CMDRING_DATA_DIR; default is the per-user data directory)")
	cmd.Flags().String("config", os.Getenv("CMDRING_CONFIG"), "Path to a JSON config file")
	cmd.Flags().String("grpc", ":50051", "gRPC listen address (empty disables)")
	cmd.Flags().String("http", ":8080", "HTTP listen address (empty disables)")
	cmd.Flags().Int("capacity", 0, "Number of commands the ring retains")
	cmd.Flags().String("terminator", "", `Command terminator byte, e.g. "\n" or "\x00"`)
	cmd.Flags().Int("max-command-bytes", 0, "Largest pending command accepted (0 = unlimited)")
	cmd.Flags().String("split-policy", "", "Terminators honored per write: first|every")
	cmd.Flags().Bool("archive", false, "Archive evicted commands under <data-dir>/archive")
	cmd.Flags().String("fsync", "", "Archive fsync mode: always|interval|never")
	cmd.Flags().Uint64("archive-max-entries", 0, "Archive entries retained (0 = unlimited)")
	cmd.Flags().String("log-level", "", "Log level: debug|info|warn|error")
	cmd.Flags().String("log-format", "", "Log format: text|json")
	return cmd
}

// loadConfig layers the config file, CMDRING_* variables and explicitly
// set flags, in that order.
func loadConfig(cmd *cobra.Command) (cfgpkg.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := cfgpkg.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	cfgpkg.FromEnv(&cfg)

	f := cmd.Flags()
	if f.Changed("capacity") {
		cfg.Capacity, _ = f.GetInt("capacity")
	}
	if f.Changed("terminator") {
		cfg.Terminator, _ = f.GetString("terminator")
	}
	if f.Changed("max-command-bytes") {
		cfg.MaxCommandBytes, _ = f.GetInt("max-command-bytes")
	}
	if f.Changed("split-policy") {
		cfg.SplitPolicy, _ = f.GetString("split-policy")
	}
	if f.Changed("archive") {
		cfg.Archive.Enabled, _ = f.GetBool("archive")
	}
	if f.Changed("fsync") {
		cfg.Archive.Fsync, _ = f.GetString("fsync")
	}
	if f.Changed("archive-max-entries") {
		cfg.Archive.MaxEntries, _ = f.GetUint64("archive-max-entries")
	}
	if f.Changed("log-level") {
		cfg.Log.Level, _ = f.GetString("log-level")
	}
	if f.Changed("log-format") {
		cfg.Log.Format, _ = f.GetString("log-format")
	}
	return cfg, cfg.Validate()
}
