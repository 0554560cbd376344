package model

import "github.com/pkg/errors"

var (
	//ErrInvalidArgument malformed input to a construction call
	ErrInvalidArgument = errors.New("invalid argument")

	//ErrIndexOutOfRange reference to a row or column that does not exist
	ErrIndexOutOfRange = errors.New("index out of range")
)
