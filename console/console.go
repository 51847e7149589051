// Package console is the line-oriented command interface to the truth service.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-aletheia/aletheia"
	"github.com/jrsteele09/go-aletheia/content"
	"github.com/jrsteele09/go-aletheia/flow"
	apperrors "github.com/jrsteele09/go-aletheia/internal/errors"
)

const (
	Prompt = "aletheia> "

	maxLineLength = 64 * 1024
)

const helpText = `commands:
  evaluate <statement>      evaluate "<subject> is [not] <value>."
  fact <subject> <value>    record a fact
  facts                     list known facts
  auth <user_id> <secret>   open a session
  list [glob]               list visible content
  reveal <id>               show a content payload
  ask <question>            consult the oracle
  observe <text>            submit an observation
  events                    list activation events
  districts                 list aligned districts
  flow                      show the flow state map
  resonate <district>       resonate with a district by name
  node <id> <state>         report the state of a flow node
  help                      show this help
  quit                      leave the console
`

// Console reads one command per line and writes plain text replies. It holds
// at most one session, replaced by every successful auth.
type Console struct {
	service *aletheia.Service
	in      io.Reader
	out     io.Writer
	session string
	userID  string
}

func New(service *aletheia.Service, in io.Reader, out io.Writer) *Console {
	return &Console{
		service: service,
		in:      in,
		out:     out,
	}
}

// Run processes commands until quit, end of input or ctx is cancelled.
// Command failures are printed, never returned.
func (c *Console) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(c.in)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLength)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if _, err := io.WriteString(c.out, Prompt); err != nil {
			return errors.Wrap(err, "[Console.Run] write prompt")
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return errors.Wrap(err, "[Console.Run] read command")
			}
			return nil
		}
		if !c.dispatch(ctx, scanner.Text()) {
			return nil
		}
	}
}

// dispatch runs a single command line and reports whether to keep going.
func (c *Console) dispatch(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}

	verb, args, _ := strings.Cut(line, " ")
	args = strings.TrimSpace(args)

	switch strings.ToLower(verb) {
	case "quit", "exit":
		c.println("goodbye")
		return false
	case "help":
		c.print(helpText)
	case "evaluate":
		c.evaluate(args)
	case "fact":
		c.fact(args)
	case "facts":
		c.facts()
	case "auth":
		c.auth(args)
	case "list":
		c.list(args)
	case "reveal":
		c.reveal(args)
	case "ask":
		c.ask(ctx, args)
	case "observe":
		c.observe(args)
	case "events":
		c.events()
	case "districts":
		c.districts()
	case "flow":
		c.flowMap()
	case "resonate":
		c.resonate(args)
	case "node":
		c.node(args)
	default:
		c.printf("unknown command %q, type \"help\" for a list of commands\n", verb)
	}
	return true
}

func (c *Console) evaluate(args string) {
	if args == "" {
		c.println("usage: evaluate <statement>")
		return
	}
	c.printf("%t\n", c.service.Evaluate(args))
}

func (c *Console) fact(args string) {
	subject, value, _ := strings.Cut(args, " ")
	value = strings.TrimSpace(value)
	if subject == "" || value == "" {
		c.println("usage: fact <subject> <value>")
		return
	}
	f := c.service.AddFact(subject, value)
	c.printf("fact recorded: %s is %s\n", f.Subject, f.Value)
}

func (c *Console) facts() {
	list := c.service.Facts()
	if len(list) == 0 {
		c.println("no facts")
		return
	}
	for _, f := range list {
		c.printf("%s is %s\n", f.Subject, f.Value)
	}
}

func (c *Console) auth(args string) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		c.println("usage: auth <user_id> <secret>")
		return
	}
	token, err := c.service.Authenticate(fields[0], fields[1])
	if err != nil {
		c.println("access denied")
		return
	}
	c.session, c.userID = token, fields[0]
	c.printf("authenticated as %s\n", c.userID)
}

func (c *Console) list(pattern string) {
	var (
		items []content.Summary
		err   error
	)
	if pattern == "" {
		items, err = c.service.ListContent(c.session)
	} else {
		items, err = c.service.SearchContent(c.session, pattern)
	}
	if err != nil {
		c.printErr(err)
		return
	}
	if len(items) == 0 {
		c.println("no visible content")
		return
	}
	for _, item := range items {
		c.printf("%s (level %d)\n", item.ID, item.RequiredLevel)
	}
}

func (c *Console) reveal(id string) {
	if id == "" {
		c.println("usage: reveal <id>")
		return
	}
	payload, err := c.service.RevealContent(c.session, id)
	if err != nil {
		c.printErr(err)
		return
	}
	c.println(payload)
}

func (c *Console) ask(ctx context.Context, question string) {
	if question == "" {
		c.println("usage: ask <question>")
		return
	}
	c.println(c.service.Ask(ctx, question))
}

func (c *Console) observe(text string) {
	if text == "" {
		c.println("usage: observe <text>")
		return
	}
	if _, err := c.service.Observe(c.session, text); err != nil {
		c.printErr(err)
		return
	}
	c.println("observation recorded")
}

func (c *Console) events() {
	events, err := c.service.ActivationEvents(c.session)
	if err != nil {
		c.printErr(err)
		return
	}
	if len(events) == 0 {
		c.println("no activation events")
		return
	}
	for _, e := range events {
		c.printf("%s: %s (%s)\n", e.ID, e.Name, e.Status)
	}
}

func (c *Console) districts() {
	districts, err := c.service.Districts(c.session)
	if err != nil {
		c.printErr(err)
		return
	}
	if len(districts) == 0 {
		c.println("no aligned districts")
		return
	}
	for _, d := range districts {
		c.printf("%s: %d%% (%s)\n", d.Name, d.Percent(), d.Status)
	}
}

func (c *Console) flowMap() {
	m, err := c.service.FlowMap(c.session)
	if err != nil {
		c.printErr(err)
		return
	}
	c.printf("overall alignment: %d%%\n", flow.Percent(m.OverallAlignment))
	if m.LastUpdated == nil {
		c.println("last updated: never")
	} else {
		c.printf("last updated: %s\n", m.LastUpdated.Format(time.RFC3339))
	}
	c.printf("districts: %d\n", len(m.Districts))
	c.printf("nodes: %d\n", len(m.Nodes))
	for _, n := range m.Nodes {
		c.printf("  %s: %s\n", n.ID, n.State)
	}
}

func (c *Console) resonate(district string) {
	if district == "" {
		c.println("usage: resonate <district>")
		return
	}
	r, err := c.service.Resonate(c.session, district)
	if apperrors.Is(err, apperrors.ErrNotFound) {
		c.printf("district %q not found or not aligned\n", district)
		return
	}
	if err != nil {
		c.printErr(err)
		return
	}
	c.println(r.Message)
	c.printf("activation event: %s\n", r.ActivationEvent)
	c.printf("flow realignment: %s\n", r.FlowRealignment)
}

func (c *Console) node(args string) {
	id, state, _ := strings.Cut(args, " ")
	state = strings.TrimSpace(state)
	if id == "" || state == "" {
		c.println("usage: node <id> <state>")
		return
	}
	n, err := c.service.UpdateFlowNode(c.session, id, state)
	if err != nil {
		c.printErr(err)
		return
	}
	c.printf("node %s is %s\n", n.ID, n.State)
}

// printErr reduces an error to the short message a user is meant to see.
func (c *Console) printErr(err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrAccessDenied):
		c.println("access denied")
	case apperrors.Is(err, apperrors.ErrNotFound):
		c.println("not found")
	case apperrors.Is(err, apperrors.ErrInvalidPattern):
		c.println("invalid pattern")
	case apperrors.Is(err, apperrors.ErrInvalidRequest):
		c.println("invalid request")
	default:
		log.Err(err).Msg("Console command failed")
		c.println("error")
	}
}

func (c *Console) print(s string) {
	_, _ = io.WriteString(c.out, s)
}

func (c *Console) println(s string) {
	_, _ = io.WriteString(c.out, s+"\n")
}

func (c *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}
