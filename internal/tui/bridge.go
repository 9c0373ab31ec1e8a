package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/parkerhale/stagehand/internal/workflow"
)

// EventBridge converts workflow.TransitionEvent values from the engine's
// event channel into TUI messages that the Bubble Tea runtime can dispatch
// to the App model.
//
// All methods are goroutine-safe: the returned tea.Cmd blocks on the channel
// when executed by the runtime and respects the provided context for
// cancellation.
type EventBridge struct{}

// NewEventBridge creates a new EventBridge. No internal state is maintained;
// the struct exists to provide a namespaced API for the bridge helpers.
func NewEventBridge() EventBridge {
	return EventBridge{}
}

// TransitionCmd returns a tea.Cmd that reads a single TransitionEvent from
// ch and converts it to a TransitionMsg. The command sends nil when the
// channel is closed or ctx is done.
//
// Usage: call repeatedly inside App.Update to keep draining the channel:
//
//	case TransitionMsg:
//	    // handle...
//	    return a, bridge.TransitionCmd(ctx, ch)
func (b EventBridge) TransitionCmd(ctx context.Context, ch <-chan workflow.TransitionEvent) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			return TransitionMsg{Event: ev}
		}
	}
}
