package msg

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/message"
)

// Printer interpolates values into message text. *message.Printer from
// golang.org/x/text satisfies it.
type Printer interface {
	Sprintf(key message.Reference, args ...any) string
}

// Store reads and writes the messages of one channel.
type Store struct {
	name    string
	backend Backend
	printer Printer
	views   Views
	view    string
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithPrinter interpolates Values through p instead of fmt.Sprintf.
func WithPrinter(p Printer) StoreOption {
	return func(s *Store) {
		s.printer = p
	}
}

// WithViews registers extra views Render can select by name. A view named
// like a built-in replaces it for this store only.
func WithViews(views Views) StoreOption {
	return func(s *Store) {
		if len(views) == 0 {
			return
		}
		merged := s.views.Clone()
		for name, view := range views {
			merged[name] = view
		}
		s.views = merged
	}
}

// WithDefaultView sets the view Render uses when none is requested.
func WithDefaultView(name string) StoreOption {
	return func(s *Store) {
		if name = strings.TrimSpace(name); name != "" {
			s.view = name
		}
	}
}

// NewStore returns a store for channel name backed by backend.
func NewStore(name string, backend Backend, opts ...StoreOption) *Store {
	s := &Store{
		name:    name,
		backend: backend,
		views:   DefaultViews(),
		view:    DefaultView,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Name returns the channel name.
func (s *Store) Name() string {
	return s.name
}

type setOptions struct {
	values  []any
	data    any
	hasData bool
}

// SetOption configures Set.
type SetOption func(*setOptions)

// Values interpolates args into the text printf-style. Without args the text
// is stored verbatim.
func Values(args ...any) SetOption {
	return func(o *setOptions) {
		o.values = append(o.values, args...)
	}
}

// Data attaches v, encoded as JSON, to the message.
func Data(v any) SetOption {
	return func(o *setOptions) {
		o.data = v
		o.hasData = true
	}
}

// Set appends one message of kind to the channel.
func (s *Store) Set(kind Kind, text string, opts ...SetOption) error {
	var o setOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	m, err := s.newMessage(kind, text, o)
	if err != nil {
		return err
	}
	return s.append(m)
}

// SetAll appends one message of kind per text, in order.
func (s *Store) SetAll(kind Kind, texts []string) error {
	if len(texts) == 0 {
		return nil
	}
	batch := make([]Message, 0, len(texts))
	for _, text := range texts {
		m, err := s.newMessage(kind, text, setOptions{})
		if err != nil {
			return err
		}
		batch = append(batch, m)
	}
	return s.append(batch...)
}

func (s *Store) newMessage(kind Kind, text string, o setOptions) (Message, error) {
	if kind == "" {
		return Message{}, argumentError("message kind is required", nil)
	}
	if !kind.Valid() {
		return Message{}, argumentError(fmt.Sprintf("unknown message kind %q", kind), nil)
	}
	if text == "" {
		return Message{}, argumentError("message text is required", nil)
	}
	if len(o.values) > 0 {
		text = s.sprintf(text, o.values...)
	}
	m := Message{Kind: kind, Text: text}
	if o.hasData && o.data != nil {
		raw, err := json.Marshal(o.data)
		if err != nil {
			return Message{}, argumentError("message data is not JSON encodable", err)
		}
		m.Data = raw
	}
	return m, nil
}

func (s *Store) sprintf(format string, args ...any) string {
	if s.printer != nil {
		return s.printer.Sprintf(format, args...)
	}
	return fmt.Sprintf(format, args...)
}

func (s *Store) append(batch ...Message) error {
	current, err := s.backend.Load()
	if err != nil {
		return fmt.Errorf("load channel %s: %w", s.name, err)
	}
	next := make([]Message, 0, len(current)+len(batch))
	next = append(next, current...)
	next = append(next, batch...)
	if err := s.backend.Persist(next); err != nil {
		return fmt.Errorf("persist channel %s: %w", s.name, err)
	}
	return nil
}

type getOptions struct {
	fallback []Message
	delete   bool
}

// GetOption configures Get.
type GetOption func(*getOptions)

// Default sets what Get returns when no message matches.
func Default(messages []Message) GetOption {
	return func(o *getOptions) {
		o.fallback = messages
	}
}

// Delete removes the returned messages from the channel when remove is true.
func Delete(remove bool) GetOption {
	return func(o *getOptions) {
		o.delete = remove
	}
}

// Get returns the messages matching filter in insertion order. When none
// match it returns the Default, nil unless overridden, never an empty slice.
func (s *Store) Get(filter Filter, opts ...GetOption) ([]Message, error) {
	var o getOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	messages, err := s.backend.Load()
	if err != nil {
		return nil, fmt.Errorf("load channel %s: %w", s.name, err)
	}
	if len(messages) == 0 {
		return o.fallback, nil
	}

	var remainder []Message
	if !filter.IsZero() {
		var matched []Message
		for _, m := range messages {
			if filter.Match(m.Kind) {
				matched = append(matched, m)
			} else {
				remainder = append(remainder, m)
			}
		}
		if len(matched) == 0 {
			return o.fallback, nil
		}
		messages = matched
	}

	if o.delete {
		if filter.IsZero() || len(remainder) == 0 {
			err = s.backend.Clear()
		} else {
			err = s.backend.Persist(remainder)
		}
		if err != nil {
			return nil, fmt.Errorf("delete from channel %s: %w", s.name, err)
		}
	}
	return messages, nil
}

// GetOnce is Get with Delete(true).
func (s *Store) GetOnce(filter Filter, opts ...GetOption) ([]Message, error) {
	return s.Get(filter, append(opts, Delete(true))...)
}

// Delete removes the messages matching filter; the zero filter clears the
// channel.
func (s *Store) Delete(filter Filter) error {
	if filter.IsZero() {
		if err := s.backend.Clear(); err != nil {
			return fmt.Errorf("clear channel %s: %w", s.name, err)
		}
		return nil
	}
	_, err := s.Get(filter, Delete(true))
	return err
}
