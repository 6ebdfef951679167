package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dusk-indust/magent/internal/magent"
	"github.com/dusk-indust/magent/internal/telemetry"
)

// Command keywords. Matching is exact and case-sensitive.
const (
	CmdRegisterAgent = "REGISTER_AGENT"
	CmdListAgents    = "LIST_AGENTS"
	CmdDelegate      = "DELEGATE"
	CmdListTasks     = "LIST_TASKS"
	CmdCancelTask    = "CANCEL_TASK"
)

const usageText = "Coordinator: Unknown command. Try 'LIST_AGENTS', " +
	"'REGISTER_AGENT <AgentFullURL>', 'DELEGATE <AgentName> <TaskText>', " +
	"'LIST_TASKS', or 'CANCEL_TASK <TaskID>'."

// Compile-time interface check.
var _ magent.Handler = (*Coordinator)(nil)

// Config holds coordinator construction options. Zero values fall back to
// sensible defaults.
type Config struct {
	Name            string
	Description     string
	DelegateTimeout time.Duration
	Client          magent.Client
	Logger          *slog.Logger
}

// Coordinator manages the registry of specialized agents and delegates
// tasks to them. It implements magent.Handler and mounts itself on a
// magent.Server, so it is reachable exactly like any other agent.
type Coordinator struct {
	card    magent.AgentCard
	server  *magent.Server
	client  magent.Client
	agents  *Registry
	tasks   *TaskStore
	timeout time.Duration
	log     *slog.Logger
}

// New creates a Coordinator from the given config.
func New(cfg Config) *Coordinator {
	if cfg.Name == "" {
		cfg.Name = "CoordinatorAgent"
	}
	if cfg.Description == "" {
		cfg.Description = "Manages tasks and delegates to specialized agents."
	}
	if cfg.DelegateTimeout <= 0 {
		cfg.DelegateTimeout = 10 * time.Second
	}
	if cfg.Client == nil {
		cfg.Client = magent.NewHTTPClient(magent.WithTimeout(cfg.DelegateTimeout))
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	c := &Coordinator{
		card: magent.AgentCard{
			Name:               cfg.Name,
			Description:        cfg.Description,
			DefaultInputModes:  []string{"text"},
			DefaultOutputModes: []string{"text"},
		},
		client:  cfg.Client,
		agents:  NewRegistry(),
		tasks:   NewTaskStore(),
		timeout: cfg.DelegateTimeout,
		log:     cfg.Logger,
	}
	c.server = magent.NewServer(c.card, c)
	return c
}

// Card returns the coordinator's agent card.
func (c *Coordinator) Card() magent.AgentCard {
	return c.server.Card()
}

// Agents returns the agent registry.
func (c *Coordinator) Agents() *Registry {
	return c.agents
}

// Tasks returns the task store.
func (c *Coordinator) Tasks() *TaskStore {
	return c.tasks
}

// Start launches the coordinator's HTTP server on the given address.
func (c *Coordinator) Start(ctx context.Context, addr string) error {
	return c.server.Start(ctx, addr)
}

// Stop gracefully shuts down the coordinator.
func (c *Coordinator) Stop(ctx context.Context) error {
	return c.server.Stop(ctx)
}

// SeedAgents registers the given agent base URLs by feeding the
// coordinator its own REGISTER_AGENT command. Failures are logged and do
// not stop the remaining registrations.
func (c *Coordinator) SeedAgents(ctx context.Context, urls []string) {
	for _, u := range urls {
		reply, err := c.HandleMessage(ctx, magent.NewTextMessage(magent.RoleUser, CmdRegisterAgent+" "+u))
		if err != nil {
			c.log.Error("seed registration failed", "url", u, "error", err)
			continue
		}
		text, _ := reply.Text()
		c.log.Info("seed registration", "url", u, "reply", text)
	}
}

// HandleMessage dispatches the command carried in the first text part of
// the incoming message and returns the coordinator's reply.
func (c *Coordinator) HandleMessage(ctx context.Context, in magent.Message) (magent.Message, error) {
	text, ok := in.Text()
	if !ok {
		return c.reply(in, "", "Coordinator: Received a non-text message part. Please send text commands."), nil
	}

	cmd, args := splitCommand(text)

	switch cmd {
	case CmdListAgents:
		return c.listAgents(in), nil
	case CmdRegisterAgent:
		return c.registerAgent(ctx, in, args), nil
	case CmdDelegate:
		return c.delegate(ctx, in, args), nil
	case CmdListTasks:
		return c.listTasks(in), nil
	case CmdCancelTask:
		return c.cancelTask(in, args), nil
	default:
		return c.reply(in, "", usageText), nil
	}
}

// splitCommand separates the command keyword from its argument text.
func splitCommand(text string) (cmd, args string) {
	fields := strings.SplitN(strings.TrimSpace(text), " ", 2)
	cmd = fields[0]
	if len(fields) > 1 {
		args = strings.TrimSpace(fields[1])
	}
	return cmd, args
}

// reply builds the coordinator's response message. The inbound context id
// is always propagated; taskID overrides the inbound task id when a task
// is involved in the exchange.
func (c *Coordinator) reply(in magent.Message, taskID, text string) magent.Message {
	if taskID == "" {
		taskID = in.TaskID
	}
	return magent.Message{
		MessageID: magent.NewID(),
		ContextID: in.ContextID,
		TaskID:    taskID,
		Role:      magent.RoleAgent,
		Parts:     []magent.Part{magent.NewTextPart(text)},
	}
}

func (c *Coordinator) listAgents(in magent.Message) magent.Message {
	cards := c.agents.List()
	if len(cards) == 0 {
		return c.reply(in, "", "Coordinator: No specialized agents registered.")
	}

	lines := make([]string, 0, len(cards))
	for _, card := range cards {
		lines = append(lines, fmt.Sprintf("- %s (%s)", card.Name, card.URL))
	}
	return c.reply(in, "", "Coordinator: Registered Agents:\n"+strings.Join(lines, "\n"))
}

func (c *Coordinator) registerAgent(ctx context.Context, in magent.Message, args string) magent.Message {
	if args == "" {
		return c.reply(in, "", usageText)
	}
	if !strings.HasPrefix(args, "http://") && !strings.HasPrefix(args, "https://") {
		return c.reply(in, "", "Coordinator: Invalid URL format for REGISTER_AGENT. Must start with http:// or https://.")
	}

	baseURL := strings.TrimRight(args, "/")

	dctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	card, err := c.client.Discover(dctx, baseURL)
	if err != nil {
		c.log.Error("agent discovery failed", "url", baseURL, "error", err)
		return c.reply(in, "", fmt.Sprintf("Coordinator: Could not fetch agent card from %s. Error: %v", args, err))
	}
	if card.URL == "" {
		card.URL = baseURL
	}

	c.agents.Upsert(*card)
	telemetry.Metrics.RegisteredAgents.Set(float64(c.agents.Len()))
	c.log.Info("agent registered", "name", card.Name, "url", card.URL)

	return c.reply(in, "", fmt.Sprintf("Coordinator: Successfully registered agent '%s' from %s.", card.Name, card.URL))
}

func (c *Coordinator) delegate(ctx context.Context, in magent.Message, args string) magent.Message {
	parts := strings.SplitN(args, " ", 2)
	if args == "" || len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
		return c.reply(in, "", "Coordinator: DELEGATE command requires AgentName and Task Text. Usage: DELEGATE <AgentName> <TextForAgent>")
	}
	agentName, payload := parts[0], parts[1]

	card, ok := c.agents.Get(agentName)
	if !ok {
		return c.reply(in, "", fmt.Sprintf("Coordinator: Agent '%s' not recognized.", agentName))
	}

	task := magent.Task{
		ID:        magent.NewID(),
		AgentName: agentName,
		ContextID: in.ContextID,
		Status: magent.TaskStatus{
			State:  magent.TaskStateSubmitted,
			Detail: "Task submitted for delegation to " + agentName + ".",
		},
		CreatedAt: time.Now(),
	}
	if err := c.tasks.Create(task); err != nil {
		return c.reply(in, "", fmt.Sprintf("Coordinator: Could not create task: %v", err))
	}
	_ = c.tasks.UpdateStatus(task.ID, magent.TaskStateWorking, "Task delegated to "+agentName+".")

	outbound := magent.Message{
		MessageID: magent.NewID(),
		ContextID: in.ContextID,
		TaskID:    task.ID,
		Role:      magent.RoleAgent,
		Parts:     []magent.Part{magent.NewTextPart(payload)},
	}
	c.log.Info("delegating task", "task_id", task.ID, "agent", agentName)

	dctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	agentReply, err := c.client.Invoke(dctx, card.URL, outbound)
	if err != nil {
		return c.finishTask(in, task.ID, agentName, magent.TaskStateFailed, err.Error(),
			fmt.Sprintf("Task %s failed. Coordinator: Error contacting agent %s.", task.ID, agentName))
	}

	replyText, ok := agentReply.Text()
	if !ok {
		return c.finishTask(in, task.ID, agentName, magent.TaskStateFailed,
			"reply from "+agentName+" contained no text part",
			fmt.Sprintf("Task %s failed. Coordinator: Reply from %s contained no text part.", task.ID, agentName))
	}

	return c.finishTask(in, task.ID, agentName, magent.TaskStateCompleted, replyText,
		fmt.Sprintf("Task %s completed. Response from %s: %s", task.ID, agentName, replyText))
}

// finishTask records the delegation outcome and builds the reply. If the
// task went terminal while the call was in flight (a concurrent cancel),
// the write is refused and the reply reports the discarded result.
func (c *Coordinator) finishTask(in magent.Message, taskID, agentName string, state magent.TaskState, detail, text string) magent.Message {
	err := c.tasks.UpdateStatus(taskID, state, detail)
	if errors.Is(err, ErrTaskTerminal) {
		task, _ := c.tasks.Get(taskID)
		telemetry.Metrics.DelegationsTotal.WithLabelValues(agentName, "discarded").Inc()
		c.log.Warn("delegation result discarded", "task_id", taskID, "state", task.Status.State)
		return c.reply(in, taskID,
			fmt.Sprintf("Task %s was %s while the delegation to %s was in flight; result discarded.",
				taskID, task.Status.State, agentName))
	}

	telemetry.Metrics.DelegationsTotal.WithLabelValues(agentName, string(state)).Inc()
	if state == magent.TaskStateFailed {
		c.log.Error("delegation failed", "task_id", taskID, "agent", agentName, "detail", detail)
	} else {
		c.log.Info("delegation completed", "task_id", taskID, "agent", agentName)
	}
	return c.reply(in, taskID, text)
}

func (c *Coordinator) listTasks(in magent.Message) magent.Message {
	tasks := c.tasks.List()
	if len(tasks) == 0 {
		return c.reply(in, "", "Coordinator: No active tasks.")
	}

	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		lines = append(lines, fmt.Sprintf("- Task ID: %s, Agent: %s, Status: %s, Details: %s",
			t.ID, t.AgentName, t.Status.State, t.Status.Detail))
	}
	return c.reply(in, "", "Coordinator: Active Tasks:\n"+strings.Join(lines, "\n"))
}

func (c *Coordinator) cancelTask(in magent.Message, args string) magent.Message {
	if args == "" {
		return c.reply(in, "", usageText)
	}
	taskID := strings.TrimSpace(args)

	err := c.tasks.UpdateStatus(taskID, magent.TaskStateCancelled, "Task marked as cancelled by user.")
	switch {
	case errors.Is(err, ErrTaskNotFound):
		return c.reply(in, "", fmt.Sprintf("Coordinator: Task ID '%s' not found.", taskID))
	case errors.Is(err, ErrTaskTerminal):
		task, _ := c.tasks.Get(taskID)
		return c.reply(in, taskID,
			fmt.Sprintf("Coordinator: Task %s is already %s; cancellation ignored.", taskID, task.Status.State))
	default:
		c.log.Info("task cancelled", "task_id", taskID)
		return c.reply(in, taskID, fmt.Sprintf("Coordinator: Task %s marked as cancelled.", taskID))
	}
}
