package types

// Model is one entry of the local runtime catalog (`<runtime> list`).
type Model struct {
	// Full identifier including tag, as passed to the runtime.
	// example: llama3:8b
	ID string `json:"id" example:"llama3:8b"`
	// Display name: the identifier without its tag.
	// example: llama3
	Name string `json:"name" example:"llama3"`
	// Tag part of the identifier, empty when untagged.
	// example: 8b
	Tag string `json:"tag,omitempty" example:"8b"`
	// Content digest reported by the runtime.
	// example: 365c0bd3c000
	Digest string `json:"digest,omitempty" example:"365c0bd3c000"`
	// Human-readable size as reported by the runtime.
	// example: 4.7 GB
	Size string `json:"size,omitempty" example:"4.7 GB"`
	// Human-readable modification age as reported by the runtime.
	// example: 2 weeks ago
	Modified string `json:"modified,omitempty" example:"2 weeks ago"`
}
