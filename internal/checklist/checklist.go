// Package checklist turns a free-form checklist reply into ordered, checkable tasks.
//
// Parsing is best effort: it never fails, and a reply with no usable lines simply yields an
// empty checklist, which callers treat as "no checklist".
package checklist

import (
	"fmt"
	"strings"
)

// Item is one task and its completion flag.
type Item struct {
	Task string
	Done bool
}

// Checklist is an ordered task list. Order is fixed at creation; only Done flags change.
type Checklist struct {
	items []Item
}

// New creates a checklist of incomplete tasks, in the given order.
func New(tasks []string) *Checklist {
	items := make([]Item, len(tasks))
	for i, task := range tasks {
		items[i] = Item{Task: task}
	}
	return &Checklist{items: items}
}

// FromText parses a model reply into a checklist.
func FromText(text string) *Checklist {
	return New(Extract(text))
}

// Extract splits text into task strings. Blank lines and markdown headings are dropped,
// leading bullet markers and checkboxes are stripped, numbering like "1." is kept.
func Extract(text string) []string {
	var tasks []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isHeading(line) {
			continue
		}
		task := stripMarkers(line)
		if task == "" {
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks
}

// isHeading matches ATX headings: one to six '#' followed by whitespace or nothing.
// "#1 priority" is a task, not a heading.
func isHeading(line string) bool {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n == 0 || n > 6 {
		return false
	}
	return n == len(line) || line[n] == ' ' || line[n] == '\t'
}

// Dashes and dots are bullets even when glued to the text ("-Buy cups"). A star needs a
// following space since "*word*" is emphasis.
var (
	bullets      = []string{"-", "•", "+"}
	spacedBullet = []string{"* ", "*\t"}
)

func stripMarkers(line string) string {
	// Horizontal rules and lone bullets carry no task.
	if strings.Trim(line, "-*_•+= \t") == "" {
		return ""
	}
	for stripped := true; stripped; {
		stripped = false
		for _, b := range bullets {
			if strings.HasPrefix(line, b) {
				line = strings.TrimLeft(line[len(b):], " \t")
				stripped = true
			}
		}
		for _, b := range spacedBullet {
			if strings.HasPrefix(line, b) {
				line = strings.TrimLeft(line[len(b):], " \t")
				stripped = true
			}
		}
	}
	for _, box := range []string{"[ ]", "[x]", "[X]"} {
		if strings.HasPrefix(line, box) {
			line = line[len(box):]
			break
		}
	}
	return strings.TrimSpace(line)
}

// Len returns the number of tasks.
func (c *Checklist) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Empty reports whether there is nothing to display.
func (c *Checklist) Empty() bool {
	return c.Len() == 0
}

// Items returns a copy of the tasks in order.
func (c *Checklist) Items() []Item {
	if c == nil {
		return nil
	}
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Toggle flips the completion flag of task i and returns the new value.
func (c *Checklist) Toggle(i int) (bool, error) {
	if err := c.check(i); err != nil {
		return false, err
	}
	c.items[i].Done = !c.items[i].Done
	return c.items[i].Done, nil
}

// Set marks task i as done or not done.
func (c *Checklist) Set(i int, done bool) error {
	if err := c.check(i); err != nil {
		return err
	}
	c.items[i].Done = done
	return nil
}

// Completed returns the number of finished tasks.
func (c *Checklist) Completed() int {
	n := 0
	for _, it := range c.Items() {
		if it.Done {
			n++
		}
	}
	return n
}

// Progress returns Completed/Len, or 0 for an empty checklist.
func (c *Checklist) Progress() float64 {
	total := c.Len()
	if total == 0 {
		return 0
	}
	return float64(c.Completed()) / float64(total)
}

// Caption renders "<completed>/<total> tasks completed".
func (c *Checklist) Caption() string {
	return fmt.Sprintf("%d/%d tasks completed", c.Completed(), c.Len())
}

func (c *Checklist) check(i int) error {
	if i < 0 || i >= c.Len() {
		return fmt.Errorf("task index %d out of range [0,%d)", i, c.Len())
	}
	return nil
}
