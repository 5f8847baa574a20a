package main

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/mattn/go-shellwords"

	"github.com/vango-dev/connect/internal/errors"
	"github.com/vango-dev/connect/pkg/connect"
	"github.com/vango-dev/connect/pkg/server"
	"github.com/vango-dev/connect/pkg/vdom"
)

// replCommand is a command of the run prompt.
type replCommand struct {
	name  string
	args  string
	short string
}

var replCommands = []replCommand{
	{"show", "", "Render pending updates and print the page"},
	{"click", "<label>", "Click the button labelled label"},
	{"next", "", "Go to the next slide"},
	{"prev", "", "Go to the previous slide"},
	{"first", "", "Go to the first slide"},
	{"last", "", "Go to the last slide"},
	{"event", "<hid> <event> [value]", "Send an event to an element"},
	{"wait", "<duration>", "Let streams run, then print the page"},
	{"mount", "<demo>", "Replace the mounted component"},
	{"unmount", "", "Unmount the component and release its streams"},
	{"latest", "", "Print the latest stream values"},
	{"demos", "", "List demos"},
	{"stats", "", "Print session counters"},
	{"help", "", "Show this help"},
	{"quit", "", "Leave"},
}

// repl drives a session from text commands. The session runs inline: every
// command flushes it on the calling goroutine.
type repl struct {
	session *server.Session
	out     io.Writer
	build   func(name string) (vdom.Component, error)

	name string
	inst *server.ComponentInstance
}

func newREPL(session *server.Session, out io.Writer, build func(string) (vdom.Component, error)) *repl {
	return &repl{session: session, out: out, build: build}
}

// exec runs one command line. quit reports whether the prompt should end.
func (r *repl) exec(line string) (quit bool, err error) {
	args, err := shellwords.Parse(line)
	if err != nil {
		return false, errors.New("E400").WithDetail(err.Error())
	}
	if len(args) == 0 {
		return false, nil
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "quit", "exit":
		return true, nil
	case "help", "?":
		r.help()
	case "show":
		r.show()
	case "click":
		if len(rest) == 0 {
			return false, usage("click <label>")
		}
		return false, r.click(strings.Join(rest, " "))
	case "next", "prev", "first", "last":
		return false, r.click(cmd)
	case "event":
		if len(rest) < 2 {
			return false, usage("event <hid> <event> [value]")
		}
		ev := server.Event{HID: rest[0], Event: rest[1]}
		if len(rest) > 2 {
			ev.Value = strings.Join(rest[2:], " ")
		}
		if err := r.session.QueueEvent(ev); err != nil {
			return false, err
		}
		r.show()
	case "wait":
		if len(rest) != 1 {
			return false, usage("wait <duration>")
		}
		d, err := time.ParseDuration(rest[0])
		if err != nil || d < 0 {
			return false, usage("wait <duration>").WithDetailf("invalid duration %q", rest[0])
		}
		r.wait(d)
		r.show()
	case "mount":
		if len(rest) != 1 {
			return false, usage("mount <demo>")
		}
		return false, r.mount(rest[0])
	case "unmount":
		r.unmount()
		r.show()
	case "latest":
		r.latest()
	case "demos":
		for _, name := range demoNames() {
			marker := " "
			if name == r.name {
				marker = "*"
			}
			fmt.Fprintf(r.out, "%s %s\n", marker, name)
		}
	case "stats":
		st := r.session.Stats()
		fmt.Fprintf(r.out, "session %s: %d events, %d renders, up %s\n",
			st.ID, st.Events, st.Renders, time.Since(st.CreatedAt).Round(time.Second))
	default:
		return false, errors.New("E400").
			WithDetailf("unknown command %q", cmd).
			WithSuggestion("Type help for a list of commands")
	}
	return false, nil
}

func usage(u string) *errors.CodedError {
	return errors.New("E400").WithSuggestion("Usage: " + u)
}

// mount replaces the mounted component with the demo called name. A setup
// error is reported but the component stays mounted.
func (r *repl) mount(name string) error {
	c, err := r.build(name)
	if err != nil {
		return err
	}
	r.unmount()

	inst, err := r.session.Mount(c, nil)
	if inst == nil {
		return err
	}
	r.name, r.inst = name, inst
	r.show()
	return err
}

func (r *repl) unmount() {
	if r.inst == nil {
		return
	}
	r.session.Unmount(r.inst)
	r.name, r.inst = "", nil
}

func (r *repl) show() {
	r.session.Flush()
	fmt.Fprintln(r.out, r.session.HTML())
}

var buttonPattern = regexp.MustCompile(`<button[^>]*data-hid="(h\d+)"[^>]*>\s*([^<]*?)\s*</button>`)

// findButton returns the HID of the enabled button labelled label.
func findButton(html, label string) (string, bool) {
	for _, m := range buttonPattern.FindAllStringSubmatch(html, -1) {
		if m[2] == label {
			return m[1], true
		}
	}
	return "", false
}

func (r *repl) click(label string) error {
	r.session.Flush()
	hid, ok := findButton(r.session.HTML(), label)
	if !ok {
		return errors.New("E400").WithDetailf("no enabled button labelled %q", label)
	}
	if err := r.session.QueueEvent(server.Event{HID: hid, Event: "onclick"}); err != nil {
		return err
	}
	r.show()
	return nil
}

// wait flushes the session repeatedly for d so that interval sources get
// delivered.
func (r *repl) wait(d time.Duration) {
	deadline := time.Now().Add(d)
	for {
		r.session.Flush()
		left := time.Until(deadline)
		if left <= 0 {
			return
		}
		time.Sleep(min(left, 10*time.Millisecond))
	}
}

func (r *repl) latest() {
	if r.inst == nil {
		fmt.Fprintln(r.out, "nothing mounted")
		return
	}
	m, ok := r.inst.Mounted().(connect.Mounted)
	if !ok {
		fmt.Fprintf(r.out, "%s has no stream bindings of its own\n", r.inst.Name)
		return
	}
	latest := m.Latest()
	for _, key := range latest.Keys() {
		fmt.Fprintf(r.out, "%s = %v\n", key, latest[key])
	}
	fmt.Fprintf(r.out, "%d active subscriptions\n", m.Active())
	if err := m.Err(); err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
	}
}

func (r *repl) help() {
	for _, c := range replCommands {
		fmt.Fprintf(r.out, "  %-30s %s\n", strings.TrimSpace(c.name+" "+c.args), c.short)
	}
}

// complete completes command names and demo names.
func complete(line string) []string {
	var out []string
	if name, ok := strings.CutPrefix(line, "mount "); ok {
		for _, demo := range demoNames() {
			if strings.HasPrefix(demo, name) {
				out = append(out, "mount "+demo)
			}
		}
		return out
	}
	for _, c := range replCommands {
		if strings.HasPrefix(c.name, line) {
			out = append(out, c.name)
		}
	}
	return out
}
