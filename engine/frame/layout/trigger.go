package layout

import (
	"errors"
	"fmt"

	"github.com/npillmayer/folio/core"
	"github.com/npillmayer/folio/engine/frame"
	"golang.org/x/net/html"
)

// Action is what a trigger does to its referenced elements.
type Action uint8

// Trigger actions
const (
	ActionShow Action = iota
	ActionHide
	ActionPlay
	ActionPause
	ActionResume
	ActionMute
	ActionUnmute
)

var actionNames = [...]string{"show", "hide", "play", "pause", "resume", "mute", "unmute"}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", a)
}

// ParseAction returns the action for its name.
func ParseAction(name string) (Action, error) {
	for i, n := range actionNames {
		if n == name {
			return Action(i), nil
		}
	}
	return 0, core.Error(core.EINVALID, "unknown trigger action %q", name)
}

// Trigger connects an event at an observer element to an action on a
// referenced element. Observer and Ref are element IDs.
type Trigger struct {
	Observer string
	Event    string
	Action   Action
	Ref      string
}

// ParseTrigger creates a trigger from textual values.
func ParseTrigger(observer, event, action, ref string) (Trigger, error) {
	a, err := ParseAction(action)
	if err != nil {
		return Trigger{}, err
	}
	return Trigger{Observer: observer, Event: event, Action: a, Ref: ref}, nil
}

// ErrNoMediaController is returned by media actions on pages without a
// media controller.
var ErrNoMediaController = errors.New("page has no media controller")

// MediaController plays audio and video elements. It is provided by the
// rendering backend.
type MediaController interface {
	Seek(elem *html.Node, seconds float64) error
	Play(elem *html.Node) error
	Pause(elem *html.Node) error
}

type actionFunc func(page *Page, elem *html.Node) error

var actionTable = [...]actionFunc{
	ActionShow: func(_ *Page, elem *html.Node) error {
		frame.SetStyleProperty(elem, "visibility", "visible")
		return nil
	},
	ActionHide: func(_ *Page, elem *html.Node) error {
		frame.SetStyleProperty(elem, "visibility", "hidden")
		return nil
	},
	ActionPlay: func(page *Page, elem *html.Node) error {
		if page.Media == nil {
			return ErrNoMediaController
		}
		if err := page.Media.Seek(elem, 0); err != nil {
			return err
		}
		return page.Media.Play(elem)
	},
	ActionPause: func(page *Page, elem *html.Node) error {
		if page.Media == nil {
			return ErrNoMediaController
		}
		return page.Media.Pause(elem)
	},
	ActionResume: func(page *Page, elem *html.Node) error {
		if page.Media == nil {
			return ErrNoMediaController
		}
		return page.Media.Play(elem)
	},
	ActionMute: func(_ *Page, elem *html.Node) error {
		frame.SetAttr(elem, "muted", "")
		return nil
	},
	ActionUnmute: func(_ *Page, elem *html.Node) error {
		frame.RemoveAttr(elem, "muted")
		return nil
	},
}

// MakeListener creates a listener applying action to all refs. A failing
// ref does not keep the action from being applied to the others.
func MakeListener(page *Page, refs []*html.Node, action Action) Listener {
	if int(action) >= len(actionTable) {
		return nil
	}
	fn := actionTable[action]
	return func(*Event) error {
		for _, ref := range refs {
			if err := fn(page, ref); err != nil {
				tracer().Errorf("trigger action %v failed: %v", action, err)
			}
		}
		return nil
	}
}
