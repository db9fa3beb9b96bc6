package errors

import "errors"

var (
	ErrInvalidRoomInput  = errors.New("room id and asset are required")
	ErrInvalidRoomAmount = errors.New("room amount must be positive")
	ErrInsufficientPool  = errors.New("room pool balance is insufficient")
)
