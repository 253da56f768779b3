package cmd

import (
	"os"

	"github.com/killallgit/conduit/pkg/controllers"
	"github.com/spf13/cobra"
)

var (
	agentGraphID      string
	agentName         string
	agentDescription  string
	agentSystemPrompt string
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Manage agents on the runtime",
}

var agentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all agents",
	RunE: func(cmd *cobra.Command, args []string) error {
		controller := controllers.NewAgentsController(newAPIClient())
		return controller.ListAgents(cmd.Context(), os.Stdout)
	},
}

var agentsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new agent",
	RunE: func(cmd *cobra.Command, args []string) error {
		controller := controllers.NewAgentsController(newAPIClient())
		return controller.CreateAgent(cmd.Context(), os.Stdout, agentGraphID, agentName, agentDescription, agentSystemPrompt)
	},
}

func init() {
	agentsCreateCmd.Flags().StringVar(&agentGraphID, "graph", "", "graph id the agent runs")
	agentsCreateCmd.Flags().StringVar(&agentName, "name", "", "agent name")
	agentsCreateCmd.Flags().StringVar(&agentDescription, "description", "", "agent description")
	agentsCreateCmd.Flags().StringVar(&agentSystemPrompt, "system-prompt", "", "system prompt for the agent")
	_ = agentsCreateCmd.MarkFlagRequired("graph")
	_ = agentsCreateCmd.MarkFlagRequired("name")

	agentsCmd.AddCommand(agentsListCmd)
	agentsCmd.AddCommand(agentsCreateCmd)
	rootCmd.AddCommand(agentsCmd)
}
