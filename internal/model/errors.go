package model

import "errors"

var ErrNoRecord = errors.New("no record")
var ErrAlreadyExists = errors.New("entity already exists")

// ErrReadOnly is returned for mutations targeting admin-assigned events.
var ErrReadOnly = errors.New("event is read-only")

// ErrExternalEvent is returned for mutations targeting imported
// external-calendar events.
var ErrExternalEvent = errors.New("event belongs to an external calendar")
