package datasources

import "context"

// ChatCompleter is the external text-generation capability: one structured
// prompt in, one string out that must parse as JSON matching the calling
// stage's contract. Failures propagate to the calling stage.
type ChatCompleter interface {
	CompleteJSON(ctx context.Context, system, prompt string) (string, error)
}
