package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewCoordinatorMCPServer creates an MCP server with all 5 coordinator
// command tools registered.
func NewCoordinatorMCPServer(svc *CoordinatorService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "magent-coordinator",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "register_agent",
		Description: "Register a specialized agent with the coordinator by fetching its agent card from the well-known discovery endpoint at the given base URL.",
	}, svc.RegisterAgent)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_agents",
		Description: "List all agents currently registered with the coordinator, with their names and URLs in registration order.",
	}, svc.ListAgents)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delegate",
		Description: "Delegate a piece of text work to a registered agent by name. Creates a tracked task, forwards the text, and reports the agent's reply.",
	}, svc.Delegate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_tasks",
		Description: "List all delegation tasks the coordinator has tracked, with their states and outcome details, in creation order.",
	}, svc.ListTasks)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "cancel_task",
		Description: "Cancel a tracked task by id. Cancelling a task that already completed, failed, or was cancelled is an acknowledged no-op.",
	}, svc.CancelTask)

	return server
}

// RunMCPServer starts an HTTP server exposing the coordinator MCP tools.
func RunMCPServer(ctx context.Context, svc *CoordinatorService, addr string) error {
	server := NewCoordinatorMCPServer(svc)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
