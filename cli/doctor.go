package cli

import (
	"github.com/mobile-next/displaycli/commands"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run system diagnostics",
	Long:  `Performs system diagnostics for better troubleshooting`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(commands.DoctorCommand(GetVersion(), configPath))
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
