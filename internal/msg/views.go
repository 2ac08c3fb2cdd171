package msg

import (
	"context"
	"fmt"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Built-in view names.
const (
	DefaultView = "msg/all"
	RoarView    = "msg/roar"
)

// RoarScriptID is the element id of the script block written by RoarView.
const RoarScriptID = "msg-roar"

// View turns a non-empty message list into markup.
type View func(messages []Message) templ.Component

// Views maps view names to views.
type Views map[string]View

// DefaultViews returns the msg/all and msg/roar views.
func DefaultViews() Views {
	return Views{
		DefaultView: AllView,
		RoarView:    RoarScriptView,
	}
}

// Clone returns a copy that can be extended without touching v.
func (v Views) Clone() Views {
	out := make(Views, len(v))
	for name, view := range v {
		out[name] = view
	}
	return out
}

func kindClass(kind Kind) string {
	return "msg-" + string(kind)
}

type roarMessage struct {
	Kind  Kind   `json:"kind"`
	Label string `json:"label"`
	Text  string `json:"text"`
	Data  any    `json:"data,omitempty"`
}

// RoarScriptView emits the messages as a JSON script block for a client-side
// toast widget. Each entry carries a title-cased label such as "Error!".
func RoarScriptView(messages []Message) templ.Component {
	title := cases.Title(language.Und)
	payload := make([]roarMessage, 0, len(messages))
	for _, m := range messages {
		entry := roarMessage{
			Kind:  m.Kind,
			Label: title.String(string(m.Kind)) + "!",
			Text:  m.Text,
		}
		if m.HasData() {
			entry.Data = m.Data
		}
		payload = append(payload, entry)
	}
	return templ.JSONScript(RoarScriptID, payload)
}

type renderOptions struct {
	keep bool
	view string
}

// RenderOption configures Render.
type RenderOption func(*renderOptions)

// Keep leaves rendered messages in the channel.
func Keep() RenderOption {
	return func(o *renderOptions) {
		o.keep = true
	}
}

// WithView renders through the named view.
func WithView(name string) RenderOption {
	return func(o *renderOptions) {
		o.view = strings.TrimSpace(name)
	}
}

// Render fetches the messages matching filter, consuming them unless Keep is
// given, and renders them through a view. It returns "" when nothing matches.
func (s *Store) Render(ctx context.Context, filter Filter, opts ...RenderOption) (string, error) {
	o := renderOptions{view: s.view}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.view == "" {
		o.view = s.view
	}
	view, ok := s.views[o.view]
	if !ok || view == nil {
		return "", configurationError(fmt.Sprintf("unknown view %q", o.view), nil)
	}

	messages, err := s.Get(filter, Delete(!o.keep))
	if err != nil {
		return "", err
	}
	if len(messages) == 0 {
		return "", nil
	}

	if ctx == nil {
		ctx = context.Background()
	}
	var b strings.Builder
	if err := view(messages).Render(ctx, &b); err != nil {
		return "", fmt.Errorf("render view %s: %w", o.view, err)
	}
	return b.String(), nil
}
