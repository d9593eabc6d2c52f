// Package cmd implements the authectl subcommands.
package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	authe "github.com/authe-me/authe-go"
)

var logo = "\n" +
	"              _   _\n" +
	"   __ _ _   _| |_| |__   ___\n" +
	"  / _` | | | | __| '_ \\ / _ \\\n" +
	" | (_| | |_| | |_| | | |  __/\n" +
	"  \\__,_|\\__,_|\\__|_| |_|\\___|\n"

var rootCmd = &cobra.Command{
	Use:   "authectl",
	Short: "authectl - authe.me agent observability CLI",
	Long:  color.CyanString(logo) + "\nDiagnostics for the authe.me agent observability service.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(sendCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("authe-go SDK v%s\n", authe.Version)
	},
}

func printHeader(title string) {
	fmt.Println(color.CyanString(logo))
	if title != "" {
		fmt.Println(title)
		fmt.Println("─────────────────────")
	}
}
