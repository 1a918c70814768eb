// Package editor is the command boundary between a client and the edit
// history.
//
// A Controller owns at most one history.Session. Clients open an image,
// call Apply with a command name from the dispatch table and its arguments,
// and read back a Snapshot of the new current state. Undo, Reset and Save
// complete the surface.
//
// Parameter handling follows one rule: nothing a client sends for a known
// command fails the edit. Values are clamped to the effect's range, and an
// even blur size is dropped as a no-op. Only unknown commands, missing
// arguments and file errors are reported back.
package editor

import (
	"errors"
	"fmt"
	"image"
	"log"
	"sort"
	"sync"

	"github.com/ironsheep/image-edit-mcp/internal/config"
	"github.com/ironsheep/image-edit-mcp/internal/history"
	"github.com/ironsheep/image-edit-mcp/internal/imaging"
)

var (
	// ErrNoImage is returned by edits attempted before an image is opened.
	ErrNoImage = errors.New("no image loaded")

	// ErrUnknownCommand is returned by Apply for names not in the table.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrMissingArgument is returned when a required argument is absent.
	ErrMissingArgument = errors.New("missing argument")
)

// Controller drives a history session from named commands. It is safe for
// concurrent use; every call holds the controller's lock for its duration.
type Controller struct {
	mu       sync.Mutex
	cfg      config.Config
	session  *history.Session
	source   string
	commands map[string]Command
}

// New creates a controller with no image loaded.
func New(cfg config.Config) *Controller {
	c := &Controller{
		cfg:      cfg,
		commands: make(map[string]Command, len(commandTable)),
	}
	for _, cmd := range commandTable {
		c.commands[cmd.Name] = cmd
	}
	return c
}

// Commands returns the dispatch table sorted by name.
func (c *Controller) Commands() []Command {
	out := make([]Command, 0, len(c.commands))
	for _, cmd := range c.commands {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Open decodes the image at path and starts a fresh session on it. On
// failure the error is logged and returned, and any current session is kept.
func (c *Controller) Open(path string) (Snapshot, error) {
	img, err := imaging.Load(path)
	if err != nil {
		log.Printf("Open %s: %v", path, err)
		return Snapshot{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.start(img, path)
	c.debugf("opened %s (%dx%d)", path, img.Bounds().Dx(), img.Bounds().Dy())
	return c.snapshot(false), nil
}

// Load starts a fresh session on an in-memory image. The image is copied
// into an opaque working buffer first.
func (c *Controller) Load(img image.Image, source string) Snapshot {
	buf := imaging.Flatten(img)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.start(buf, source)
	return c.snapshot(false)
}

func (c *Controller) start(img *image.RGBA, source string) {
	c.session = history.New(img)
	c.source = source
}

// Apply runs the named command with its arguments.
//
// Sticky commands whose effect is already applied, and blur with an even
// size, leave the history untouched; the returned snapshot then has
// Changed set to false. Every other accepted command pushes exactly one
// state.
func (c *Controller) Apply(name string, p Params) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return Snapshot{}, ErrNoImage
	}

	cmd, ok := c.commands[name]
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	if cmd.build == nil {
		discarded := c.session.Depth() > 1
		c.session.Reset()
		c.debugf("reset")
		return c.snapshot(discarded), nil
	}

	step, err := cmd.build(c, p)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", name, err)
	}

	_, pushed, err := c.session.Apply(step)
	if errors.Is(err, imaging.ErrInvalidParameter) {
		c.debugf("%s ignored: %v", name, err)
		return c.snapshot(false), nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", name, err)
	}

	c.debugf("%s applied=%t depth=%d", name, pushed, c.session.Depth())
	return c.snapshot(pushed), nil
}

// Undo steps back one state. At the seed state it changes nothing.
func (c *Controller) Undo() (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return Snapshot{}, ErrNoImage
	}
	_, popped := c.session.Undo()
	return c.snapshot(popped), nil
}

// Reset discards every edit.
func (c *Controller) Reset() (Snapshot, error) {
	return c.Apply("reset", nil)
}

// Save writes the current image to path as PNG or JPEG. Failures are logged
// and returned; the session is not affected either way.
func (c *Controller) Save(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return ErrNoImage
	}
	if err := imaging.Save(c.session.Current().Image, path, c.cfg.JPEGQuality); err != nil {
		log.Printf("Save %s: %v", path, err)
		return err
	}
	c.debugf("saved %s", path)
	return nil
}

// Current returns the current state, including its image.
func (c *Controller) Current() (history.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return history.State{}, ErrNoImage
	}
	return c.session.Current(), nil
}

// Snapshot summarises the current state without changing anything.
func (c *Controller) Snapshot() (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return Snapshot{}, ErrNoImage
	}
	return c.snapshot(false), nil
}

func (c *Controller) snapshot(changed bool) Snapshot {
	return newSnapshot(c.source, c.session.Current(), c.session.Depth(), changed)
}

func (c *Controller) debugf(format string, args ...interface{}) {
	if c.cfg.Debug() {
		log.Printf("[editor] "+format, args...)
	}
}
