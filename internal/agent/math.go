package agent

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dusk-indust/magent/internal/magent"
)

const mathUsage = "MathAgent: Could not process request. Usage: <add|subtract|multiply|divide> <num1> <num2>"

// MathAgent is a specialized agent that performs simple arithmetic on two
// operands. Input problems are reported in the reply text rather than as
// errors, so a malformed expression is still a successful exchange at the
// protocol level.
type MathAgent struct {
	*BaseAgent
}

// NewMathAgent creates a new MathAgent with its agent card and process
// function wired up.
func NewMathAgent() *MathAgent {
	ma := &MathAgent{}
	card := magent.AgentCard{
		Name:               "SimpleMathAgent",
		Description:        "Performs simple arithmetic: add, subtract, multiply, divide. Usage: <operation> <num1> <num2>",
		DefaultInputModes:  []string{"text"},
		DefaultOutputModes: []string{"text"},
	}
	ma.BaseAgent = NewBaseAgent(card, ma.processMessage)
	return ma
}

func (ma *MathAgent) processMessage(_ context.Context, msg magent.Message) (string, error) {
	text, ok := msg.Text()
	if !ok {
		return mathUsage, nil
	}

	fields := strings.Fields(strings.ToLower(strings.TrimSpace(text)))
	if len(fields) != 3 {
		return mathUsage, nil
	}
	op := fields[0]

	a, errA := strconv.ParseFloat(fields[1], 64)
	b, errB := strconv.ParseFloat(fields[2], 64)
	if errA != nil || errB != nil {
		return "MathAgent: Error - Invalid numbers provided.", nil
	}

	var result float64
	switch op {
	case "add":
		result = a + b
	case "subtract":
		result = a - b
	case "multiply":
		result = a * b
	case "divide":
		if b == 0 {
			return "MathAgent: Error - Division by zero.", nil
		}
		result = a / b
	default:
		return fmt.Sprintf("MathAgent: Unknown operation '%s'. Choose add, subtract, multiply, or divide.", op), nil
	}

	return fmt.Sprintf("MathAgent: Result of %s is %s",
		strings.Join(fields, " "), strconv.FormatFloat(result, 'g', -1, 64)), nil
}
