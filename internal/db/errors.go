package db

import "errors"

// ErrKeyNotFound is returned for a missing or expired key.
var ErrKeyNotFound = errors.New("db: key not found")

// Op names the command that failed.
const (
	OpGet    = "GET"
	OpSet    = "SET"
	OpDel    = "DEL"
	OpUnlink = "UNLINK"
	OpScan   = "SCAN"
	OpHSet   = "HSET"
	OpHGet   = "HGETALL"
	OpHDel   = "HDEL"
	OpExpire = "EXPIRE"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
