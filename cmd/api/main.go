// Command api runs the voice-companion backend: it mints short-lived speech
// API tokens and proxies chat completions with optional persona prompts.
//
// Usage:
//
//	# Start the HTTP server (default action)
//	api serve
//
//	# Print the persona listing served by GET /api/personas
//	api personas
package main

func main() {
	Execute()
}
