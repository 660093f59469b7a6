package cli

import (
	"fmt"

	"github.com/mobile-next/displaycli/commands"
	"github.com/mobile-next/displaycli/config"
	"github.com/mobile-next/displaycli/daemon"
	"github.com/mobile-next/displaycli/devices"
	"github.com/mobile-next/displaycli/server"
	"github.com/mobile-next/displaycli/utils"
	"github.com/spf13/cobra"
)

// shutdownHook is set by main so signals stop a running server cleanly
var shutdownHook *devices.ShutdownHook

// SetShutdownHook registers the hook the server adds its cleanup to
func SetShutdownHook(hook *devices.ShutdownHook) {
	shutdownHook = hook
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Server management commands",
	Long:  `Commands for managing the displaycli JSON-RPC server.`,
}

// listenAddress prefers the --listen flag over the config file
func listenAddress(cmd *cobra.Command) string {
	// GetString cannot fail for defined flags
	listenAddr, _ := cmd.Flags().GetString("listen")
	if listenAddr == "" {
		listenAddr = cfg.Server.Listen
	}
	return listenAddr
}

var serverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the displaycli server",
	Long:  `Starts the JSON-RPC server. Requests are accepted over HTTP at /rpc and over WebSocket at /ws.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		listenAddr := listenAddress(cmd)

		// GetBool cannot fail for defined flags
		enableCORS, _ := cmd.Flags().GetBool("cors")
		enableCORS = enableCORS || cfg.Server.CORS
		restoreOnExit, _ := cmd.Flags().GetBool("restore-on-exit")
		restoreOnExit = restoreOnExit || cfg.Display.RestoreOnExit
		isDaemon, _ := cmd.Flags().GetBool("daemon")

		if isDaemon && !daemon.IsChild() {
			normalized, err := utils.NormalizeListenAddress(listenAddr)
			if err != nil {
				return err
			}

			if !utils.IsPortAvailable(normalized) {
				return fmt.Errorf("address %s is already in use", listenAddr)
			}

			_, err = daemon.Daemonize()
			if err != nil {
				return fmt.Errorf("failed to start daemon: %w", err)
			}

			fmt.Printf("Server daemon spawned, attempting to listen on %s\n", listenAddr)
			return nil
		}

		if restoreOnExit && shutdownHook != nil {
			commands.RestoreOnShutdown(shutdownHook)
		}

		return server.StartServer(listenAddr, enableCORS, shutdownHook)
	},
}

var serverKillCmd = &cobra.Command{
	Use:   "kill",
	Short: "Stop the daemonized displaycli server",
	Long:  `Connects to the server and sends a shutdown command via JSON-RPC.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := listenAddress(cmd)

		err := daemon.KillServer(addr)
		if err != nil {
			return err
		}

		fmt.Printf("Server shutdown command sent successfully\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.AddCommand(serverStartCmd)
	serverCmd.AddCommand(serverKillCmd)

	serverStartCmd.Flags().String("listen", "", fmt.Sprintf("Address to listen on (e.g., 'localhost:12000' or '0.0.0.0:13000', default: %s)", config.DefaultListenAddress))
	serverStartCmd.Flags().Bool("cors", false, "Enable CORS support")
	serverStartCmd.Flags().BoolP("daemon", "d", false, "Run server in daemon mode (background)")
	serverStartCmd.Flags().Bool("restore-on-exit", false, "Restore device refresh rate settings when the server stops")

	serverKillCmd.Flags().String("listen", "", fmt.Sprintf("Address of server to kill (default: %s)", config.DefaultListenAddress))
}
