package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	authe "github.com/authe-me/authe-go"
	"github.com/authe-me/authe-go/client"
)

var (
	sendTool  string
	sendType  string
	sendInput string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Record and deliver one manual test action",
	RunE:  runSend,
}

func init() {
	sendCmd.Flags().StringVarP(&sendTool, "tool", "t", "authectl.test", "Tool name for the action")
	sendCmd.Flags().StringVar(&sendType, "type", "tool_call", "Action type")
	sendCmd.Flags().StringVarP(&sendInput, "input", "i", "{}", "Action input as JSON object")
}

func runSend(cmd *cobra.Command, args []string) error {
	printHeader("📨 authe.me Send")

	var input map[string]any
	if err := json.Unmarshal([]byte(sendInput), &input); err != nil {
		return fmt.Errorf("--input must be a JSON object: %w", err)
	}

	c, err := authe.Init(authe.Options{})
	if err != nil {
		return err
	}
	defer authe.Shutdown()

	c.Track(client.TrackOptions{
		Tool:  sendTool,
		Type:  sendType,
		Input: input,
	})
	c.Flush()

	if c.Pending() > 0 {
		fmt.Println(color.YellowString("! action buffered but not delivered"))
		return nil
	}
	fmt.Printf("%s action delivered (tool=%s)\n", color.GreenString("✓"), sendTool)
	return nil
}
