package controllers

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/killallgit/conduit/pkg/api"
	"github.com/killallgit/conduit/pkg/logger"
)

// AgentClient is the slice of the API client the agents controller needs.
type AgentClient interface {
	ListAssistants(ctx context.Context) ([]api.Assistant, error)
	CreateAssistant(ctx context.Context, req api.CreateAssistantRequest) (*api.Assistant, error)
}

type AgentsController struct {
	client AgentClient
}

func NewAgentsController(client AgentClient) *AgentsController {
	return &AgentsController{
		client: client,
	}
}

// ListAgents writes a table of all assistants to the writer.
func (ac *AgentsController) ListAgents(ctx context.Context, writer io.Writer) error {
	log := logger.WithComponent("agents_controller")
	log.Debug("Listing assistants")

	assistants, err := ac.client.ListAssistants(ctx)
	if err != nil {
		log.Error("ListAssistants failed", "error", err)
		return fmt.Errorf("failed to list agents: %w", err)
	}

	if len(assistants) == 0 {
		fmt.Fprintln(writer, "No agents found")
		return nil
	}

	w := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tGRAPH\tDESCRIPTION")
	for _, assistant := range assistants {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			assistant.AssistantID,
			assistant.Name,
			assistant.GraphID,
			assistant.Description)
	}
	return w.Flush()
}

// CreateAgent registers a new assistant and prints its id.
func (ac *AgentsController) CreateAgent(ctx context.Context, writer io.Writer, graphID, name, description, systemPrompt string) error {
	log := logger.WithComponent("agents_controller")

	req := api.CreateAssistantRequest{
		GraphID:     graphID,
		Name:        name,
		Description: description,
	}
	if systemPrompt != "" {
		req.Context = map[string]any{"system_prompt": systemPrompt}
	}

	assistant, err := ac.client.CreateAssistant(ctx, req)
	if err != nil {
		log.Error("CreateAssistant failed", "error", err)
		return fmt.Errorf("failed to create agent: %w", err)
	}

	log.Info("Created assistant", "assistant_id", assistant.AssistantID)
	fmt.Fprintf(writer, "Created agent %s (%s)\n", assistant.Name, assistant.AssistantID)
	return nil
}
