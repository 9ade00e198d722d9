package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spetersoncode/codeagent/interp"
)

// RunCmd performs a single task.
type RunCmd struct {
	AgentFlags `group:"Agent Options"`

	State map[string]string `short:"s" long:"state" key-value-delimiter:"=" description:"variable visible to the generated code, as key=value (repeatable)"`
	Quiet bool              `short:"q" long:"quiet" description:"only print the result, not the generated code"`
}

// Execute runs the task given as the remaining arguments.
func (c *RunCmd) Execute(args []string) error {
	task := strings.TrimSpace(strings.Join(args, " "))
	if task == "" {
		return errors.New("run: a task is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var output io.Writer = os.Stdout
	if c.Quiet {
		output = io.Discard
	}

	s, err := newSession(ctx, &c.AgentFlags, c.State, output)
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := s.agent.Run(ctx, task, s.tools.Tools(), s.cfg.InitialState())
	if err != nil {
		return err
	}

	if c.Quiet && result.Output != "" {
		fmt.Print(result.Output)
	}
	if result.Value != nil {
		fmt.Println(interp.Str(result.Value))
	}
	return nil
}
