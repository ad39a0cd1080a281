package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/GriffinCanCode/CanvasAI/backend/internal/connection"
	"github.com/GriffinCanCode/CanvasAI/backend/internal/protocol"
)

const (
	formatText = "text"
	formatYAML = "yaml"
)

var errQuit = errors.New("quit")

// sender is the part of connection.Manager the console drives.
type sender interface {
	Send(prompt, mode string) error
	ResetResponse()
}

// console turns stdin lines into sends and published state into output.
type console struct {
	conn   sender
	out    io.Writer
	mode   string
	format string

	last connection.State
}

func newConsole(conn sender, out io.Writer, mode, format string) *console {
	return &console{
		conn:   conn,
		out:    out,
		mode:   protocol.NormalizeMode(mode),
		format: format,
	}
}

// readLoop feeds lines from in until EOF or /quit.
func (c *console) readLoop(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := c.handleLine(scanner.Text()); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			return err
		}
	}
	return scanner.Err()
}

// handleLine runs one command or sends one prompt. Only errQuit is returned.
// Rejections the manager publishes are printed by render; the rest here.
func (c *console) handleLine(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	if strings.HasPrefix(line, "/") {
		return c.command(line)
	}

	if err := c.conn.Send(line, c.mode); err != nil && !published(err) {
		c.println(errorStyle.Render("✗ " + err.Error()))
	}
	return nil
}

// published reports whether the manager also surfaces err in State.Err.
func published(err error) bool {
	return !errors.Is(err, connection.ErrBusy) && !errors.Is(err, connection.ErrDisposed)
}

func (c *console) command(line string) error {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/quit", "/exit":
		return errQuit
	case "/reset":
		c.conn.ResetResponse()
		c.println(hintStyle.Render("response cleared"))
	case "/mode":
		if arg == "" {
			c.println(hintStyle.Render("mode: " + c.mode))
			return nil
		}
		c.mode = protocol.NormalizeMode(arg)
		msg := "mode set to " + c.mode
		if !protocol.IsKnownMode(c.mode) {
			msg += " (rendered with the general prompt)"
		}
		c.println(hintStyle.Render(msg))
	case "/help":
		c.println(hintStyle.Render(usage()))
	default:
		c.println(errorStyle.Render("unknown command " + name + ", try /help"))
	}
	return nil
}

// render prints what changed between the last snapshot and s.
func (c *console) render(s connection.State) {
	prev := c.last
	c.last = s

	if s.Connected != prev.Connected {
		if s.Connected {
			c.println(connectedStyle.Render("● connected"))
		} else {
			c.println(disconnectedStyle.Render("○ disconnected, reconnecting"))
		}
	}
	if s.Processing && !prev.Processing {
		c.println(processingStyle.Render("… processing"))
	}
	if s.Err != "" && s.Err != prev.Err {
		c.println(errorStyle.Render("✗ " + s.Err))
	}
	if s.Response != nil && s.Response != prev.Response {
		c.printResponse(s.Response)
	}
}

func (c *console) printResponse(r *protocol.AIResponse) {
	if c.format == formatYAML {
		data, err := yaml.Marshal(responseView{AIResponse: *r, ShapeCount: len(r.Shapes)})
		if err != nil {
			c.println(errorStyle.Render("✗ " + err.Error()))
			return
		}
		c.print(string(data))
		return
	}

	// Text already leads with the title and description
	c.println(r.Text)
	c.println(hintStyle.Render(fmt.Sprintf("%d shapes · id %s", len(r.Shapes), r.ID)))
}

// responseView adds the shape count to the YAML form; shapes themselves are
// opaque and left out.
type responseView struct {
	protocol.AIResponse `yaml:",inline"`
	ShapeCount          int `yaml:"shapes"`
}

func (c *console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *console) print(s string) {
	fmt.Fprint(c.out, s)
}

func usage() string {
	return strings.Join([]string{
		"type a prompt and press enter to draw it",
		"/mode <name>  switch mode (" + strings.Join(protocol.Modes(), ", ") + ")",
		"/reset        clear the last response",
		"/quit         exit",
	}, "\n")
}
