package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	authe "github.com/authe-me/authe-go"
)

var pingDebug bool

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Verify credentials and reachability of the collection service",
	RunE:  runPing,
}

func init() {
	pingCmd.Flags().BoolVar(&pingDebug, "debug", false, "Enable debug logging")
}

func runPing(cmd *cobra.Command, args []string) error {
	printHeader("📡 authe.me Ping")

	c, err := authe.Init(authe.Options{Debug: pingDebug})
	if err != nil {
		return err
	}
	defer authe.Shutdown()

	fmt.Printf("Session: %s\n", c.SessionID())
	if !c.Identified() {
		fmt.Println(color.RedString("✗ could not resolve agent identity (offline mode)"))
		fmt.Println("  Check AUTHE_API_KEY and AUTHE_BASE_URL.")
		return nil
	}
	fmt.Printf("%s agent id %s\n", color.GreenString("✓"), c.AgentID())
	return nil
}
