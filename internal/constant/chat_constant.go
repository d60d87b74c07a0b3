package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	// Returned verbatim when the AI backend is unreachable so the
	// conversation record stays consistent even on failure.
	ChatFallbackResponse = "I'm sorry, I'm having trouble reaching my language model right now. Please try again in a moment."

	// EditRewritePrompt asks the model for a full replacement body.
	// %s slots: note title, current content, edit instructions.
	EditRewritePrompt = `You are editing a personal note titled "%s".

CURRENT CONTENT:
%s

EDIT INSTRUCTIONS:
%s

Rewrite the note applying the instructions. Output ONLY the new note content, no preamble, no commentary.`

	// QueryContextPrompt frames retrieved notes for a question.
	// %s slots: formatted note context, user question.
	QueryContextPrompt = `Answer the user's question using ONLY the notes below. If the notes do not contain the answer, say you have no information about that in the notes.

=== NOTES ===
%s

QUESTION: %s`

	// EditPreviewTemplate is the assistant reply shown when a draft is ready.
	// %s slot: target note title.
	EditPreviewTemplate = `Here is the proposed new version of "%s". Review it and apply or cancel the edit.`
)
