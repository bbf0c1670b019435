// Package serial implements the maintenance console on the CDC interface.
// It is a line-oriented command loop: status queries, forced reboots,
// debug toggling, and settings persistence.
package serial

import (
	"fmt"

	"github.com/google/shlex"
)

// Port is the byte stream the console runs on. machine.Serial satisfies it.
type Port interface {
	ReadByte() (byte, error)
	Write(p []byte) (n int, err error)
}

// Commands are the operations the console can invoke.
type Commands struct {
	Status   func() string
	Reboot   func()
	SetDebug func(on bool)
	Save     func() error
	Wipe     func() error
}

// Console reads commands one byte per poll so it can share the main loop.
type Console struct {
	port     Port
	cmds     Commands
	inIndex  int
	inBuffer [128]byte
}

func NewConsole(port Port, cmds Commands) Console {
	return Console{
		port: port,
		cmds: cmds,
	}
}

// Poll consumes at most one input byte. Call once per main loop iteration.
func (c *Console) Poll() {
	b, err := c.port.ReadByte()
	if err != nil {
		return
	}

	if b == '\r' {
		return
	}
	if b != '\n' {
		if c.inIndex == len(c.inBuffer) {
			// Overlong line; start over.
			c.inIndex = 0
		}
		c.inBuffer[c.inIndex] = b
		c.inIndex++
		return
	}

	line := string(c.inBuffer[:c.inIndex])
	c.inIndex = 0
	if line != "" {
		c.dispatch(line)
	}
}

func (c *Console) dispatch(line string) {
	args, err := shlex.Split(line)
	if err != nil || len(args) == 0 {
		c.write("error: bad command line")
		return
	}

	switch args[0] {
	case "help":
		c.write("commands: help status reboot debug save wipe")

	case "status":
		c.write(c.cmds.Status())

	case "reboot":
		c.write("rebooting keyboard")
		c.cmds.Reboot()

	case "debug":
		if len(args) != 2 || (args[1] != "on" && args[1] != "off") {
			c.write("usage: debug on|off")
			return
		}
		c.cmds.SetDebug(args[1] == "on")
		c.write("debug " + args[1])

	case "save":
		if err := c.cmds.Save(); err != nil {
			c.write("error: " + err.Error())
			return
		}
		c.write("settings saved")

	case "wipe":
		if err := c.cmds.Wipe(); err != nil {
			c.write("error: " + err.Error())
			return
		}
		c.write("settings wiped")

	default:
		c.write(fmt.Sprintf("unknown command %q", args[0]))
	}
}

func (c *Console) write(out string) {
	c.port.Write([]byte(out + "\r\n"))
}
