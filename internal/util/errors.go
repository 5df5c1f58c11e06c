package util

import "errors"

var (
	ErrEmailRegistered    = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrChatNotFound       = errors.New("chat history not found or not authorized")
	ErrUnknownTable       = errors.New("unknown table")
)
