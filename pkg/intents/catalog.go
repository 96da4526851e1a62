package intents

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Intent names of the built-in table.
const (
	Greeting  = "greeting"
	Time      = "time"
	Help      = "help"
	Identity  = "identity"
	Joke      = "joke"
	Calc      = "calc"
	TodoAdd   = "todo_add"
	TodoClear = "todo_clear"
	TodoList  = "todo_list"
)

// Order is the priority order of the built-in intents. TodoClear precedes TodoList
// so "todo sıfırla" is not shadowed by the general "todo" trigger.
var Order = []string{Greeting, Time, Help, Identity, Joke, Calc, TodoAdd, TodoClear, TodoList}

//go:embed catalog.yaml
var defaultCatalog []byte

// Entry carries the triggers and texts of one intent.
// Reply may contain a single %s verb for intents that format a value.
type Entry struct {
	Triggers []string `yaml:"triggers"`
	Reply    string   `yaml:"reply"`
	Prompt   string   `yaml:"prompt,omitempty"`
	Empty    string   `yaml:"empty,omitempty"`
	Error    string   `yaml:"error,omitempty"`
}

// FAQEntry answers any input containing Key.
type FAQEntry struct {
	Key    string `yaml:"key"`
	Answer string `yaml:"answer"`
}

// Catalog holds every static text the responder can say.
type Catalog struct {
	Intents   map[string]Entry `yaml:"intents"`
	Mood      Entry            `yaml:"mood"`
	FAQ       []FAQEntry       `yaml:"faq"`
	Fallback  string           `yaml:"fallback"`
	Welcome   string           `yaml:"welcome"`
	Goodbye   string           `yaml:"goodbye"`
	ExitWords []string         `yaml:"exit_words"`
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// Parse decodes a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return &c, nil
}

// LoadCatalog reads an override file and merges it over the defaults.
// An empty path or a missing file yields the defaults.
func LoadCatalog(path string) (*Catalog, error) {
	base := Default()
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return base, nil
		}
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	override, err := Parse(data)
	if err != nil {
		return nil, err
	}
	for name := range override.Intents {
		if _, known := base.Intents[name]; !known {
			return nil, fmt.Errorf("catalog: unknown intent %q", name)
		}
	}
	base.Merge(override)
	return base, nil
}

// Merge copies every non-empty field of other over c.
func (c *Catalog) Merge(other *Catalog) {
	if c.Intents == nil {
		c.Intents = make(map[string]Entry)
	}
	for name, e := range other.Intents {
		c.Intents[name] = mergeEntry(c.Intents[name], e)
	}
	c.Mood = mergeEntry(c.Mood, other.Mood)
	if len(other.FAQ) > 0 {
		c.FAQ = other.FAQ
	}
	if other.Fallback != "" {
		c.Fallback = other.Fallback
	}
	if other.Welcome != "" {
		c.Welcome = other.Welcome
	}
	if other.Goodbye != "" {
		c.Goodbye = other.Goodbye
	}
	if len(other.ExitWords) > 0 {
		c.ExitWords = other.ExitWords
	}
}

func mergeEntry(base, over Entry) Entry {
	if len(over.Triggers) > 0 {
		base.Triggers = over.Triggers
	}
	if over.Reply != "" {
		base.Reply = over.Reply
	}
	if over.Prompt != "" {
		base.Prompt = over.Prompt
	}
	if over.Empty != "" {
		base.Empty = over.Empty
	}
	if over.Error != "" {
		base.Error = over.Error
	}
	return base
}

// Entry returns the texts of a built-in intent.
func (c *Catalog) Entry(name string) Entry {
	return c.Intents[name]
}

// IsExit reports whether raw input asks to leave the conversation.
func (c *Catalog) IsExit(raw string) bool {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for _, w := range c.ExitWords {
		if raw == w {
			return true
		}
	}
	return false
}

// MoodReply answers inputs that mention a bad mood.
func (c *Catalog) MoodReply(text string) (string, bool) {
	for _, trigger := range c.Mood.Triggers {
		if trigger != "" && strings.Contains(text, trigger) {
			return c.Mood.Reply, true
		}
	}
	return "", false
}

// FAQReply returns the answer of the first FAQ key contained in text.
func (c *Catalog) FAQReply(text string) (string, bool) {
	for _, f := range c.FAQ {
		if f.Key != "" && strings.Contains(text, f.Key) {
			return f.Answer, true
		}
	}
	return "", false
}

// FormatTasks renders items as a 1-indexed enumeration, or the empty message.
func (c *Catalog) FormatTasks(items []string) string {
	entry := c.Entry(TodoList)
	if len(items) == 0 {
		return entry.Empty
	}
	var b strings.Builder
	b.WriteString(entry.Reply)
	for i, item := range items {
		fmt.Fprintf(&b, "\n- %d. %s", i+1, item)
	}
	return b.String()
}
