// Package console is the interactive front end of a console session.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/viant/wfconsole"
	"github.com/viant/wfconsole/i18n"
	"github.com/viant/wfconsole/internal/command"
	"github.com/viant/wfconsole/model"
	"github.com/viant/wfconsole/policy"
	"github.com/viant/wfconsole/service/prompt"
	"github.com/viant/wfconsole/service/router"
)

const usage = `commands:
  personas                              list personas
  persona <key>                         act as persona (key or user id)
  whoami                                show the acting identity
  tab [start|approval|manual|status]    show or switch the active tab
  start [approver] [executor] [json]    start a process
  tasks [approver|executor]             reload a task queue
  approve|reject [-y] <taskId>          decide an approval task
  complete [-y] <taskId>                complete a manual task
                                        (-y takes the default comment or reason)
  status [processInstanceId]            fetch process status
  log [n]                               show the activity log, newest first
  stats                                 show session counters
  help                                  show this help
  quit                                  leave the console
`

var errQuit = errors.New("quit")

// Console runs commands against a session and echoes new activity entries.
type Console struct {
	service *wfconsole.Service
	input   *prompt.Console
	out     io.Writer
	seen    int
}

// Run reads commands until quit, EOF or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	t := c.service.Translator()
	fmt.Fprintln(c.out, t("app.title", nil))
	c.whoami()
	for ctx.Err() == nil {
		fmt.Fprintf(c.out, "%s@%s> ", c.service.Identity().UserID, c.service.Router().Active())
		line, err := c.input.ReadLine()
		if err != nil {
			if err == io.EOF {
				fmt.Fprintln(c.out)
				return nil
			}
			return err
		}
		if err = c.Execute(ctx, line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			fmt.Fprintf(c.out, "error: %s\n", model.Describe(err))
		}
	}
	return ctx.Err()
}

// Execute runs one input line and echoes activity recorded meanwhile.
func (c *Console) Execute(ctx context.Context, line string) error {
	cmd, err := command.Parse([]byte(line))
	if err != nil || cmd == nil {
		return err
	}
	defer c.echoActivity()
	switch cmd.Name {
	case "help":
		fmt.Fprint(c.out, usage)
	case "quit", "exit":
		return errQuit
	case "personas":
		c.personas()
	case "persona":
		if cmd.Arg(0) == "" {
			return model.NewValidationError("persona key is required")
		}
		if err = c.service.SwitchPersona(ctx, cmd.Arg(0)); model.KindOf(err) == model.KindValidation {
			return err
		}
		c.whoami()
		c.renderActiveQueue()
		return nil
	case "whoami":
		c.whoami()
	case "tab":
		return c.tab(ctx, cmd)
	case "start":
		return c.start(ctx, cmd)
	case "tasks":
		return c.tasks(ctx, cmd)
	case "approve", "reject", "complete":
		return c.decide(ctx, cmd)
	case "status":
		return c.status(ctx, cmd)
	case "log":
		return c.activity(cmd)
	case "stats":
		c.stats()
	default:
		return model.NewValidationError("unknown command %q, type help", cmd.Name)
	}
	return nil
}

func (c *Console) personas() {
	t := c.service.Translator()
	active := c.service.ActivePersona()
	for _, persona := range c.service.Personas() {
		marker := " "
		if persona == active {
			marker = "*"
		}
		identity := persona.Identity(t)
		fmt.Fprintf(c.out, "%s %-10s %-12s %s (%s)\n", marker, persona.Key, identity.UserID, identity.Name(), identity.Roles.Join())
	}
}

func (c *Console) whoami() {
	identity := c.service.Identity()
	fmt.Fprintf(c.out, "%s: %s (%s) roles: %s\n", c.service.Translator()("app.currentIdentity", nil),
		identity.Name(), identity.UserID, identity.Roles.Join())
}

func (c *Console) tab(ctx context.Context, cmd *command.Command) error {
	t := c.service.Translator()
	if cmd.Arg(0) == "" {
		active := c.service.Router().Active()
		for _, tab := range router.Tabs {
			marker := " "
			if tab == active {
				marker = "*"
			}
			fmt.Fprintf(c.out, "%s %-9s %s\n", marker, tab, t(tab.LabelKey(), nil))
		}
		return nil
	}
	tab, err := router.ParseTab(cmd.Arg(0))
	if err != nil {
		return err
	}
	// queue tabs render their own load failures
	_ = c.service.SelectTab(ctx, tab)
	switch tab {
	case router.TabStart:
		form := c.service.Launcher().Form()
		identity := c.service.Identity()
		fmt.Fprintln(c.out, t("start.description", i18n.Params{"name": identity.Name(), "userId": identity.UserID}))
		fmt.Fprintf(c.out, "approver: %s\nexecutor: %s\npayload:\n%s\n", form.ApproverID, form.ExecutorID, form.PayloadText)
	case router.TabStatus:
		c.renderStatus()
	default:
		c.renderActiveQueue()
	}
	return nil
}

func (c *Console) start(ctx context.Context, cmd *command.Command) error {
	form := c.service.Launcher().Form()
	if len(cmd.Args) > 0 {
		form.ApproverID = cmd.Arg(0)
	}
	if len(cmd.Args) > 1 {
		form.ExecutorID = cmd.Arg(1)
	}
	if len(cmd.Args) > 2 {
		form.PayloadText = strings.Join(cmd.Args[2:], " ")
	}
	// failures are reported through the launcher message
	_, _ = c.service.StartProcess(ctx, form)
	renderMessage(c.out, c.service.Launcher().Message())
	return nil
}

func (c *Console) tasks(ctx context.Context, cmd *command.Command) error {
	role, err := c.queueRole(cmd.Arg(0))
	if err != nil {
		return err
	}
	_ = c.service.LoadQueue(ctx, role)
	c.renderQueue(role)
	return nil
}

func (c *Console) decide(ctx context.Context, cmd *command.Command) error {
	decision, _ := model.ParseDecision(cmd.Name)
	var taskID string
	for _, arg := range cmd.Args {
		switch arg {
		case "-y", "--yes":
			ctx = policy.WithPolicy(ctx, &policy.Policy{Mode: policy.ModeAuto})
		default:
			if taskID == "" {
				taskID = arg
			}
		}
	}
	if taskID == "" {
		return model.NewValidationError("task id is required")
	}
	role := model.RoleApprover
	if decision == model.DecisionComplete {
		role = model.RoleExecutor
	}
	if c.service.Queue(role).Task(taskID) == nil {
		// the queue may not be loaded yet in this session
		if err := c.service.LoadQueue(ctx, role); err != nil {
			c.renderQueue(role)
			return nil
		}
	}
	_ = c.service.Decide(ctx, role, taskID, decision)
	c.renderQueue(role)
	return nil
}

func (c *Console) status(ctx context.Context, cmd *command.Command) error {
	id := cmd.Arg(0)
	if id == "" {
		id = c.service.Viewer().ProcessInstanceID()
	}
	if err := c.service.FetchStatus(ctx, id); err != nil {
		renderMessage(c.out, c.service.Viewer().Message())
		return nil
	}
	renderMessage(c.out, c.service.Viewer().Message())
	c.renderStatus()
	return nil
}

func (c *Console) activity(cmd *command.Command) error {
	entries := c.service.Log().Entries()
	if arg := cmd.Arg(0); arg != "" {
		limit, err := strconv.Atoi(arg)
		if err != nil || limit < 0 {
			return model.NewValidationError("invalid entry count %q", arg)
		}
		if limit < len(entries) {
			entries = entries[:limit]
		}
	}
	t := c.service.Translator()
	fmt.Fprintln(c.out, t("log.title", nil))
	if len(entries) == 0 {
		fmt.Fprintln(c.out, "  "+t("log.empty", nil))
		return nil
	}
	renderEntries(c.out, entries)
	return nil
}

func (c *Console) stats() {
	counters := c.service.Progress()
	fmt.Fprintf(c.out, "since %s: started %d, approved %d, rejected %d, completed %d, failed %d\n",
		counters.StartedAt.Format(timeLayout), counters.Started, counters.Approved, counters.Rejected, counters.Completed, counters.Failed)
}

func (c *Console) queueRole(name string) (model.Role, error) {
	if name == "" {
		if role, ok := c.service.Router().Active().QueueRole(); ok {
			return role, nil
		}
		return model.RoleApprover, nil
	}
	role := model.ParseRole(name)
	if c.service.Queue(role) == nil {
		return "", model.NewValidationError("role %q has no task queue", name)
	}
	return role, nil
}

func (c *Console) renderActiveQueue() {
	if role, ok := c.service.Router().Active().QueueRole(); ok {
		c.renderQueue(role)
	}
}

func (c *Console) renderQueue(role model.Role) {
	controller := c.service.Queue(role)
	t := c.service.Translator()
	heading := "tasks.heading.approval"
	if role == model.RoleExecutor {
		heading = "tasks.heading.manual"
	}
	message := controller.Message()
	if message != nil && message.Tone == model.ToneError {
		fmt.Fprintln(c.out, t(heading, nil))
		renderMessage(c.out, message)
		return
	}
	renderTasks(c.out, t, heading, controller.Tasks())
	if message != nil && message.Text != t("tasks.empty", nil) {
		renderMessage(c.out, message)
	}
}

func (c *Console) renderStatus() {
	viewer := c.service.Viewer()
	renderStatus(c.out, c.service.Translator(), viewer.Status(), viewer.Changes())
}

// echoActivity prints entries appended since the last call, oldest first.
func (c *Console) echoActivity() {
	entries := c.service.Log().Entries()
	fresh := len(entries) - c.seen
	c.seen = len(entries)
	for i := fresh - 1; i >= 0; i-- {
		fmt.Fprintf(c.out, "  > [%s] %s\n", entries[i].Timestamp, entries[i].Message)
	}
}

// New creates a console over service. input should be the prompt the
// session was created with so comments and commands share one reader.
func New(service *wfconsole.Service, input *prompt.Console) *Console {
	ret := &Console{service: service, input: input, out: input.Writer()}
	ret.seen = service.Log().Len()
	return ret
}
