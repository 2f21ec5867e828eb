package bulletin

import "errors"

// Run failures fall into a small fixed taxonomy. All of them are terminal for
// the current run; nothing is retried and nothing is delivered unless the
// full report was rendered first.
var (
	// ErrMissingParameter reports a bad invocation (no destinations).
	ErrMissingParameter = errors.New("missing parameter")
	// ErrConfig reports a malformed or unusable options source.
	ErrConfig = errors.New("config error")
	// ErrTemplateLoad reports a missing or unreadable template file.
	ErrTemplateLoad = errors.New("template load error")
	// ErrCatalog reports a query or load failure from the file catalog.
	ErrCatalog = errors.New("catalog error")
	// ErrNotInitialized signals the first-run checkpoint bootstrap: the
	// watermark was just created, the next scheduled run will report.
	ErrNotInitialized = errors.New("checkpoint initialized, try again next scheduled run")
	// ErrDelivery reports a destination send failure.
	ErrDelivery = errors.New("delivery error")
)
