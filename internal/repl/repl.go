// Package repl implements the interactive prompt loop: read one line from
// stdin, run the agent turn, print the answer.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rebecaborsan/code-editing-agent/internal/agent"
	"github.com/rebecaborsan/code-editing-agent/internal/config"
)

var ErrExit = errors.New("exit requested")

var (
	userStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12")) // bright blue
	modelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // bright yellow
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // bright red
)

// REPL implements the read-eval-print loop for interactive mode.
type REPL struct {
	agent   *agent.Agent
	config  *config.Config
	session *agent.Session
	in      io.Reader
	out     io.Writer
}

// New creates a new REPL with the given agent and config.
func New(a *agent.Agent, cfg *config.Config) *REPL {
	return &REPL{
		agent:   a,
		config:  cfg,
		session: agent.NewSession(),
		in:      os.Stdin,
		out:     os.Stdout,
	}
}

// Run starts the prompt loop. It reads one line at a time, runs the agent
// turn, and prints the final answer. An error during a turn is printed as a
// single line and the loop keeps accepting input; end-of-input (Ctrl+D)
// terminates cleanly.
func (r *REPL) Run(ctx context.Context) error {
	fmt.Fprintln(r.out, "Chat with the model (use Ctrl+D or /exit to quit, /help for commands)")
	fmt.Fprintln(r.out)

	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprintf(r.out, "%s: ", userStyle.Render("You"))

		if !scanner.Scan() {
			// EOF (Ctrl+D) or read error
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if err := r.handleCommand(ctx, input); err != nil {
				if errors.Is(err, ErrExit) {
					fmt.Fprintln(r.out, "Goodbye.")
					break
				}
				fmt.Fprintf(r.out, "%s: %v\n", errorStyle.Render("Error"), err)
			}
			fmt.Fprintln(r.out)
			continue
		}

		response, err := r.agent.Run(ctx, r.session, input)
		if err != nil {
			fmt.Fprintf(r.out, "%s: %v\n", errorStyle.Render("Error"), err)
			fmt.Fprintln(r.out)
			continue
		}

		fmt.Fprintf(r.out, "%s: %s\n", modelStyle.Render(r.modelLabel()), response)
		fmt.Fprintln(r.out)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}

	return nil
}

func (r *REPL) modelLabel() string {
	if name := r.agent.CurrentModelName(); name != "" {
		return name
	}
	return "Model"
}

// handleCommand processes commands starting with /.
func (r *REPL) handleCommand(ctx context.Context, input string) error {
	cmd := strings.TrimPrefix(input, "/")
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return nil
	}

	switch parts[0] {
	case "model":
		return r.handleModelCommand(ctx)
	case "clear":
		r.session.Clear()
		fmt.Fprintln(r.out, "Conversation cleared.")
		return nil
	case "help":
		return r.handleHelpCommand()
	case "exit", "quit":
		return ErrExit
	default:
		return fmt.Errorf("unknown command: /%s. Type /help for available commands", parts[0])
	}
}

// handleModelCommand shows an interactive model selector and switches models.
func (r *REPL) handleModelCommand(ctx context.Context) error {
	models := r.config.LLM.ModelNames()
	current := r.config.LLM.Current

	if len(models) == 0 {
		fmt.Fprintln(r.out, "No models configured")
		return nil
	}

	if len(models) == 1 {
		fmt.Fprintf(r.out, "Only one model configured: %s\n", current)
		return nil
	}

	selected, err := runModelSelector(models, current)
	if err != nil {
		return fmt.Errorf("failed to run selector: %w", err)
	}

	if selected == "" {
		fmt.Fprintln(r.out, "Cancelled")
		return nil
	}

	if selected == current {
		fmt.Fprintf(r.out, "Already using %s\n", current)
		return nil
	}

	modelCfg, ok := r.config.LLM.Available[selected]
	if !ok {
		return fmt.Errorf("model %s not found in config", selected)
	}

	if err := r.agent.SwitchModel(ctx, modelCfg.Provider, modelCfg.Model, selected); err != nil {
		return fmt.Errorf("failed to switch model: %w", err)
	}

	r.config.LLM.Current = selected

	fmt.Fprintf(r.out, "\nSwitched to %s (%s/%s)\n", selected, modelCfg.Provider, modelCfg.Model)
	return nil
}

// handleHelpCommand displays available commands.
func (r *REPL) handleHelpCommand() error {
	help := `Available commands:
  /model    - Switch LLM model
  /clear    - Clear the conversation history
  /help     - Show this help
  /exit     - Quit (or use Ctrl+D)
`
	fmt.Fprint(r.out, help)
	return nil
}
