package mcptools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/magent/internal/coordinator"
	"github.com/dusk-indust/magent/internal/magent"
)

// --- MCP Tool Input Types ---
// These structs define the JSON schema for each MCP tool's input.
// The MCP Go SDK auto-generates JSON schemas from struct tags.

// RegisterAgentInput is the input for the register_agent MCP tool.
type RegisterAgentInput struct {
	URL string `json:"url" jsonschema:"base URL of the agent to register (must start with http:// or https://)"`
}

// ListAgentsInput is the input for the list_agents MCP tool.
type ListAgentsInput struct{}

// DelegateInput is the input for the delegate MCP tool.
type DelegateInput struct {
	Agent string `json:"agent" jsonschema:"name of the registered agent to delegate to"`
	Input string `json:"input" jsonschema:"text to send to the agent"`
}

// ListTasksInput is the input for the list_tasks MCP tool.
type ListTasksInput struct{}

// CancelTaskInput is the input for the cancel_task MCP tool.
type CancelTaskInput struct {
	TaskID string `json:"taskId" jsonschema:"id of the task to cancel"`
}

// CommandReply is the structured output shared by all coordinator tools.
type CommandReply struct {
	Reply string `json:"reply" jsonschema:"the coordinator's reply text"`
}

// CoordinatorService adapts a coordinator message handler to MCP tools.
// Each tool forwards the equivalent command text through HandleMessage, so
// MCP callers and HTTP callers share identical semantics.
type CoordinatorService struct {
	handler magent.Handler
}

// NewCoordinatorService creates a CoordinatorService around the handler.
func NewCoordinatorService(handler magent.Handler) *CoordinatorService {
	return &CoordinatorService{handler: handler}
}

// RegisterAgent implements the register_agent MCP tool.
func (s *CoordinatorService) RegisterAgent(ctx context.Context, req *mcp.CallToolRequest, in RegisterAgentInput) (*mcp.CallToolResult, CommandReply, error) {
	return s.command(ctx, coordinator.CmdRegisterAgent+" "+in.URL)
}

// ListAgents implements the list_agents MCP tool.
func (s *CoordinatorService) ListAgents(ctx context.Context, req *mcp.CallToolRequest, in ListAgentsInput) (*mcp.CallToolResult, CommandReply, error) {
	return s.command(ctx, coordinator.CmdListAgents)
}

// Delegate implements the delegate MCP tool.
func (s *CoordinatorService) Delegate(ctx context.Context, req *mcp.CallToolRequest, in DelegateInput) (*mcp.CallToolResult, CommandReply, error) {
	return s.command(ctx, coordinator.CmdDelegate+" "+in.Agent+" "+in.Input)
}

// ListTasks implements the list_tasks MCP tool.
func (s *CoordinatorService) ListTasks(ctx context.Context, req *mcp.CallToolRequest, in ListTasksInput) (*mcp.CallToolResult, CommandReply, error) {
	return s.command(ctx, coordinator.CmdListTasks)
}

// CancelTask implements the cancel_task MCP tool.
func (s *CoordinatorService) CancelTask(ctx context.Context, req *mcp.CallToolRequest, in CancelTaskInput) (*mcp.CallToolResult, CommandReply, error) {
	return s.command(ctx, coordinator.CmdCancelTask+" "+in.TaskID)
}

// command feeds the command text through the coordinator and returns its
// reply text as structured tool output.
func (s *CoordinatorService) command(ctx context.Context, text string) (*mcp.CallToolResult, CommandReply, error) {
	reply, err := s.handler.HandleMessage(ctx, magent.NewTextMessage(magent.RoleUser, text))
	if err != nil {
		return nil, CommandReply{}, err
	}
	out, ok := reply.Text()
	if !ok {
		return nil, CommandReply{}, fmt.Errorf("mcptools: coordinator reply contained no text part")
	}
	return nil, CommandReply{Reply: out}, nil
}
