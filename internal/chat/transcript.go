package chat

import (
	"github.com/equipo25/ragcli/internal/ragapi"
	"github.com/google/uuid"
)

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Entry is one turn in the conversation. Streaming is true only while the
// entry is still receiving chunks; at most the last entry can be in that
// state, all earlier entries are terminal.
type Entry struct {
	ID        string
	Sender    Sender
	Text      string
	Streaming bool
}

// Transcript is the append-only log of exchange turns for one chat session,
// plus the citations attached to the most recent completed answer. Entries
// are never removed or reordered. The transcript lives and dies with its
// session; it is never persisted.
type Transcript struct {
	entries []Entry
	sources []ragapi.SourceCitation
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

// Entries returns a copy of the log so callers can render without racing
// appends.
func (t *Transcript) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *Transcript) Len() int {
	return len(t.entries)
}

// Sources returns the citations for the latest completed non-streaming
// answer. Empty for streaming answers; source data is not interleaved in the
// text stream.
func (t *Transcript) Sources() []ragapi.SourceCitation {
	out := make([]ragapi.SourceCitation, len(t.sources))
	copy(out, t.sources)
	return out
}

func (t *Transcript) append(sender Sender, text string, streaming bool) {
	t.finalizeLast()
	t.entries = append(t.entries, Entry{
		ID:        uuid.NewString(),
		Sender:    sender,
		Text:      text,
		Streaming: streaming,
	})
}

func (t *Transcript) appendTerminal(sender Sender, text string) {
	t.append(sender, text, false)
}

// appendPlaceholder starts an assistant entry that will accumulate chunks.
func (t *Transcript) appendPlaceholder() {
	t.append(SenderAssistant, "", true)
}

// appendChunk concatenates text onto the in-progress placeholder. Chunks are
// applied strictly in call order. A chunk arriving with no placeholder open
// is dropped; that only happens after an abandoned stream was finalized.
func (t *Transcript) appendChunk(text string) {
	last := len(t.entries) - 1
	if last < 0 || !t.entries[last].Streaming {
		return
	}
	t.entries[last].Text += text
}

func (t *Transcript) finalizeLast() {
	if last := len(t.entries) - 1; last >= 0 {
		t.entries[last].Streaming = false
	}
}

func (t *Transcript) replaceSources(sources []ragapi.SourceCitation) {
	t.sources = sources
}

func (t *Transcript) clearSources() {
	t.sources = nil
}
