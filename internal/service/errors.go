package service

import "errors"

var (
	ErrNoteNotFound         = errors.New("note not found")
	ErrSessionNotFound      = errors.New("session not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNoDraft              = errors.New("session has no draft to apply")
	ErrEmptyEdit            = errors.New("instructions, proposed title, or proposed content is required")
)
