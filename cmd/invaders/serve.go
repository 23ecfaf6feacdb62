package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-invaders/internal/config"
	"github.com/vovakirdan/tui-invaders/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the invaders SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own session with the title menu.
Scores are stored per-server (all users share the same leaderboard).

Settings come from the environment and can be overridden by flags:
  INVADERS_SSH_ADDR       --ssh           (default :2222)
  INVADERS_HOST_KEY       --host-key      (default ~/.ssh/invaders_ed25519, generated if missing)
  INVADERS_DB             --db
  INVADERS_IDLE_TIMEOUT   --idle-timeout  (default 30m)

Examples:
  invaders serve
  invaders serve --ssh :2323 --idle-timeout 10m
  INVADERS_DB=/var/lib/invaders/scores.db invaders serve

Users can connect with:
  ssh localhost -p 2222`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (generated if missing)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting")
}

func runServe(cmd *cobra.Command, _ []string) {
	gameConfig()

	senv, err := config.LoadServerEnv()
	exitOnError(err)

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = senv.Addr
	cfg.HostKeyPath = senv.HostKeyPath
	cfg.IdleTimeout = senv.IdleTimeout
	cfg.TickRate = flagFPS
	cfg.DBPath = flagDBPath

	// Explicit flags win over the environment
	flags := cmd.Flags()
	if flags.Changed("ssh") {
		cfg.Address = flagSSHAddr
	}
	if flags.Changed("host-key") {
		cfg.HostKeyPath = flagHostKey
	}
	if flags.Changed("idle-timeout") {
		cfg.IdleTimeout = flagIdleTimeout
	}
	if senv.DBPath != "" && !flags.Changed("db") {
		cfg.DBPath = senv.DBPath
	}

	server, err := tui.NewSSHServer(cfg, logger.WithPrefix("invaders-ssh"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting invaders SSH server on %s\n", cfg.Address)
	if _, port, err := net.SplitHostPort(cfg.Address); err == nil {
		fmt.Printf("Connect with: ssh localhost -p %s\n", port)
	}
	fmt.Println("Press Ctrl+C to stop")

	exitOnError(server.ListenAndServe())
}
