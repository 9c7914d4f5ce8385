package game

import "errors"

// TableStatus represents the current state of a table
type TableStatus string

const (
	StatusInProgress TableStatus = "IN_PROGRESS"
	StatusResolved   TableStatus = "RESOLVED" // black ball settled, waiting for a new rack
	StatusFinished   TableStatus = "FINISHED"
)

var (
	ErrTableNotFound = errors.New("table not found")
	ErrTableFinished = errors.New("table is finished")
	ErrRackOver      = errors.New("rack is over, start a new game")
	ErrTooManyTables = errors.New("too many open tables")
	ErrWrongPIN      = errors.New("wrong pin")
)
