package chat

import "errors"

var (
	ErrRoomNotFound        = errors.New("chat room not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrMessageNotFound     = errors.New("message not found")
	ErrInvalidTransition   = errors.New("invalid room status transition")
	ErrRoomNotActive       = errors.New("chat room is not active")
	ErrRoomFull            = errors.New("chat room is full")
	ErrAlreadyJoined       = errors.New("user already joined this room")
	ErrAlreadyExists       = errors.New("chat room already exists for this event")
	ErrChatNotEnabled      = errors.New("chat is not enabled for this event")
	ErrForbidden           = errors.New("operation is not allowed")
	ErrProvisioningFailed  = errors.New("runtime provisioning failed")
)
