// Package console is a line-oriented front end for the search controller.
// It plays the role of the page: form fields, the search button and the
// like/dislike buttons of each rendered result.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/compass/internal/backend"
	"github.com/UnknownOlympus/compass/internal/controller"
	"github.com/UnknownOlympus/compass/internal/form"
	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/UnknownOlympus/compass/internal/render"
	"github.com/UnknownOlympus/compass/internal/ui"
)

const helpText = `commands:
  search                 run a search with the current form values
  set <field> [value]    change a form field (query, user_id, lat, lng, radius_m, max_results, categories)
  show                   print the form
  like <n>               like result n
  dislike <n>            dislike result n
  forget                 clear all feedback of the current user
  help                   print this help
  quit                   exit`

// Forgetter clears the feedback recorded for a user.
type Forgetter interface {
	ClearFeedback(ctx context.Context, userID string) error
}

// Console reads commands from in and drives the controller.
type Console struct {
	in        io.Reader
	out       io.Writer
	form      *form.Values
	ctrl      *controller.Controller
	renderer  *render.Renderer
	forgetter Forgetter
	status    ui.Status
	prompter  ui.Prompter
	log       *slog.Logger
}

func New(
	in io.Reader,
	out io.Writer,
	values *form.Values,
	ctrl *controller.Controller,
	renderer *render.Renderer,
	forgetter Forgetter,
	status ui.Status,
	prompter ui.Prompter,
	log *slog.Logger,
) *Console {
	return &Console{
		in:        in,
		out:       out,
		form:      values,
		ctrl:      ctrl,
		renderer:  renderer,
		forgetter: forgetter,
		status:    status,
		prompter:  prompter,
		log:       log,
	}
}

// Run starts the initial search and then executes commands until quit,
// end of input or cancellation. It waits for background work before returning.
func (c *Console) Run(ctx context.Context) error {
	defer c.ctrl.Wait()

	c.ctrl.Trigger(ctx)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if c.Execute(ctx, line) {
				return nil
			}
		}
	}
}

// Execute runs a single command line and reports whether the console should exit.
func (c *Console) Execute(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch cmd, args := strings.ToLower(fields[0]), fields[1:]; cmd {
	case "search", "s":
		c.ctrl.Trigger(ctx)
	case "set":
		c.set(args)
	case "show":
		c.show()
	case "like":
		c.feedback(ctx, models.ActionLike, args)
	case "dislike":
		c.feedback(ctx, models.ActionDislike, args)
	case "forget":
		c.forget(ctx)
	case "help", "?":
		fmt.Fprintln(c.out, helpText)
	case "quit", "exit", "q":
		return true
	default:
		fmt.Fprintf(c.out, "unknown command %q, type help\n", cmd)
	}

	return false
}

func (c *Console) set(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(c.out, "usage: set <field> [value]")
		return
	}

	field := form.Field(strings.ToLower(args[0]))
	value := strings.Join(args[1:], " ")
	if err := c.form.Set(field, value); err != nil {
		fmt.Fprintln(c.out, err)
		return
	}
	fmt.Fprintf(c.out, "%s = %q\n", field, value)
}

func (c *Console) show() {
	for _, f := range form.Fields() {
		fmt.Fprintf(c.out, "%-12s %q\n", f, c.form.Get(f))
	}
}

func (c *Console) feedback(ctx context.Context, action models.Action, args []string) {
	if len(args) != 1 {
		fmt.Fprintf(c.out, "usage: %s <n>\n", action)
		return
	}

	n, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(c.out, "invalid result number %q\n", args[0])
		return
	}

	control, err := c.renderer.Control(n-1, action)
	if err != nil {
		fmt.Fprintln(c.out, err)
		return
	}

	c.ctrl.Go(ctx, func(ctx context.Context) {
		if err := control.Activate(ctx); err != nil && !errors.Is(err, render.ErrMissingUserID) {
			c.log.DebugContext(ctx, "Feedback activation failed", "place", control.PlaceID, "error", err)
		}
	})
}

func (c *Console) forget(ctx context.Context) {
	userID := strings.TrimSpace(c.form.UserID())
	if userID == "" {
		c.prompter.Prompt(render.MissingUserPrompt)
		return
	}

	c.ctrl.Go(ctx, func(ctx context.Context) {
		if err := c.forgetter.ClearFeedback(ctx, userID); err != nil {
			c.log.ErrorContext(ctx, "Failed to clear feedback", "user", userID, "error", err)
			c.status.SetStatus("Error: " + backend.ErrorMessage(err))
			return
		}
		c.status.SetStatus("Feedback cleared for " + userID)
	})
}
