package assistant

import "errors"

var (
	ErrAssistantDisabled = errors.New("assistant is not configured")
	ErrEmptyConversation = errors.New("conversation is empty")
	ErrEmptyReply        = errors.New("assistant returned no text")
)
