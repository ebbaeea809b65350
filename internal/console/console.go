// Package console is the line-oriented admin front end. It composes the
// notification store, the moderation view and the shared product filter into
// panels that render to a writer and react to typed commands.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"photojay_admin/internal/filter"
	"photojay_admin/internal/gateway"
	"photojay_admin/internal/moderation"
	"photojay_admin/internal/notification"
	"photojay_admin/internal/session"
)

var (
	// ErrUnknownCommand is returned for input no panel understands.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrAccessDenied is returned when a non-admin uses a moderation command.
	ErrAccessDenied = errors.New("access denied: admin role required")
)

// Deps are the collaborators a Console is built from.
type Deps struct {
	Claims        session.Claims
	Notifications gateway.NotificationGateway
	Moderation    gateway.ModerationGateway
	Filter        *filter.Broadcast
	Out           io.Writer
	Logger        *log.Logger
}

// Console owns one panel per concern and routes commands to them.
type Console struct {
	out    io.Writer
	claims session.Claims

	navbar  *Navbar
	admin   *AdminPanel // nil for non-admin users
	filters *FilterPanel
}

// New builds a Console. The admin panel only exists for admin claims.
func New(deps Deps) *Console {
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}
	if deps.Filter == nil {
		deps.Filter = filter.New()
	}

	c := &Console{
		out:     deps.Out,
		claims:  deps.Claims,
		navbar:  NewNavbar(deps.Claims, notification.NewStore(deps.Notifications, logger), deps.Out),
		filters: NewFilterPanel(deps.Filter, deps.Out),
	}
	if deps.Claims.IsAdmin() {
		c.admin = NewAdminPanel(moderation.NewView(deps.Moderation, logger), deps.Out)
	}
	return c
}

// Start loads the initial data for every panel and renders the header.
func (c *Console) Start(ctx context.Context) error {
	var errs []error
	if err := c.navbar.Load(ctx); err != nil {
		errs = append(errs, err)
	}
	c.navbar.Render()

	if c.admin == nil {
		fmt.Fprintln(c.out, ErrAccessDenied.Error())
		return errors.Join(errs...)
	}
	if err := c.admin.Load(ctx); err != nil {
		errs = append(errs, err)
	}
	c.admin.Render()
	return errors.Join(errs...)
}

// Execute runs one command line.
func (c *Console) Execute(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	if cmd == "help" {
		c.printHelp()
		return nil
	}
	if handled, err := c.navbar.Handle(ctx, cmd, args); handled {
		return err
	}
	if handled, err := c.filters.Handle(cmd, args); handled {
		return err
	}
	if adminCommands[cmd] {
		if c.admin == nil {
			return ErrAccessDenied
		}
		_, err := c.admin.Handle(ctx, cmd, args, strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0])))
		return err
	}
	return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
}

// Run reads commands from in until EOF, "quit" or ctx is done.
// Command errors are printed and the loop continues. Lines are read on a
// separate goroutine so cancellation does not wait for the next Enter; that
// goroutine may stay blocked in in.Read after Run returns.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		fmt.Fprint(c.out, "> ")
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out)
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(c.out)
				return <-readErr
			}
			line = strings.TrimSpace(line)
			if line == "quit" || line == "exit" {
				return nil
			}
			if err := c.Execute(ctx, line); err != nil {
				fmt.Fprintf(c.out, "error: %v\n", err)
			}
		}
	}
}

// Close releases every panel's subscriptions.
func (c *Console) Close() {
	c.navbar.Close()
	c.filters.Close()
	if c.admin != nil {
		c.admin.Close()
	}
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, "notifications | read <id> | readall | badge")
	fmt.Fprintln(c.out, "category <id|none> | toggle | showall on|off | filters")
	if c.admin != nil {
		fmt.Fprintln(c.out, "stats | pending | all | sort <field> | next | prev | page | reload")
		fmt.Fprintln(c.out, "approve <id> | reject <id> | reason <text> | confirm | cancel | vip <id> | show <id> | close")
	}
	fmt.Fprintln(c.out, "help | quit")
}
