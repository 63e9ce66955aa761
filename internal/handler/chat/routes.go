package chat

// Mode selects which upstream endpoint a route forwards to.
type Mode int

const (
	// ModeChat forwards a message list to chat completions.
	ModeChat Mode = iota
	// ModeResponses flattens the conversation into the responses endpoint.
	ModeResponses
)

// Route describes one chat-proxy endpoint.
type Route struct {
	Path string
	// Lenient accepts any content type and digs a JSON object out of
	// wrapped or malformed bodies.
	Lenient bool
	// PersonaAware reads personaId and context and echoes the persona back.
	PersonaAware bool
	Mode         Mode
}

// APIRoutes are mounted under /api.
var APIRoutes = []Route{
	{Path: "/openai/chat", Mode: ModeChat},
}

// CompatRoutes are mounted at the root for clients built against the
// upstream SDK paths.
var CompatRoutes = []Route{
	{Path: "/openai/chat", Lenient: true, PersonaAware: true, Mode: ModeChat},
	{Path: "/openai/v1/chat/completions", Lenient: true, PersonaAware: true, Mode: ModeChat},
	{Path: "/v1/chat/completions", Lenient: true, PersonaAware: true, Mode: ModeChat},
	{Path: "/openai/chat/completions", Lenient: true, PersonaAware: true, Mode: ModeChat},
	{Path: "/openai/responses", Lenient: true, PersonaAware: true, Mode: ModeResponses},
	{Path: "/v1/responses", Lenient: true, PersonaAware: true, Mode: ModeResponses},
}
