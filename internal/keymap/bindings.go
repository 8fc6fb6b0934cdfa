// Package keymap maps context-scoped key presses onto named commands. The
// app resolves a key through the active context first, then the global
// context.
package keymap

// Binding associates a key with a command in a given context.
type Binding struct {
	Key     string
	Command string
	Context string
}

// DefaultBindings returns the default key bindings.
func DefaultBindings() []Binding {
	return []Binding{
		// Global bindings
		{Key: "ctrl+c", Command: "quit", Context: "global"},
		{Key: "tab", Command: "next-pane", Context: "global"},
		{Key: "shift+tab", Command: "prev-pane", Context: "global"},
		{Key: "esc", Command: "cancel", Context: "global"},
		{Key: "ctrl+l", Command: "clear-conversation", Context: "global"},
		{Key: "ctrl+y", Command: "copy-reply", Context: "global"},

		// Provider list context
		{Key: "j", Command: "cursor-down", Context: "providers"},
		{Key: "down", Command: "cursor-down", Context: "providers"},
		{Key: "k", Command: "cursor-up", Context: "providers"},
		{Key: "up", Command: "cursor-up", Context: "providers"},
		{Key: "enter", Command: "select-provider", Context: "providers"},

		// Model list context
		{Key: "j", Command: "cursor-down", Context: "models"},
		{Key: "down", Command: "cursor-down", Context: "models"},
		{Key: "k", Command: "cursor-up", Context: "models"},
		{Key: "up", Command: "cursor-up", Context: "models"},
		{Key: "enter", Command: "select-model", Context: "models"},

		// API key input context
		{Key: "enter", Command: "save-key", Context: "apikey"},

		// Message input context
		{Key: "enter", Command: "send", Context: "message"},

		// Transcript context
		{Key: "j", Command: "scroll-down", Context: "transcript"},
		{Key: "down", Command: "scroll-down", Context: "transcript"},
		{Key: "k", Command: "scroll-up", Context: "transcript"},
		{Key: "up", Command: "scroll-up", Context: "transcript"},
		{Key: "ctrl+d", Command: "page-down", Context: "transcript"},
		{Key: "ctrl+u", Command: "page-up", Context: "transcript"},
	}
}

// Registry resolves key presses to commands.
type Registry struct {
	byContext map[string]map[string]string
	overrides map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byContext: make(map[string]map[string]string),
		overrides: make(map[string]string),
	}
}

// RegisterBinding adds a binding, replacing any previous binding for the
// same key in the same context.
func (r *Registry) RegisterBinding(b Binding) {
	ctx := r.byContext[b.Context]
	if ctx == nil {
		ctx = make(map[string]string)
		r.byContext[b.Context] = ctx
	}
	ctx[b.Key] = b.Command
}

// SetUserOverride binds a key to a command ahead of every context. User
// overrides come from the config file's keymap section.
func (r *Registry) SetUserOverride(key, command string) {
	r.overrides[key] = command
}

// Lookup resolves a key: user overrides first, then the given context,
// then the global context. Returns the command name and whether a binding
// matched.
func (r *Registry) Lookup(context, key string) (string, bool) {
	if cmd, ok := r.overrides[key]; ok {
		return cmd, true
	}
	if cmd, ok := r.byContext[context][key]; ok {
		return cmd, true
	}
	cmd, ok := r.byContext["global"][key]
	return cmd, ok
}

// RegisterDefaults registers all default bindings with the registry.
func RegisterDefaults(r *Registry) {
	for _, b := range DefaultBindings() {
		r.RegisterBinding(b)
	}
}
