package domain

import "errors"

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrDuplicateUserName  = errors.New("username already taken")
	ErrUnknownCollection  = errors.New("unknown account collection")
	ErrUnknownPortal      = errors.New("unknown portal")
	ErrViewNotFound       = errors.New("view description not found")
	ErrMalformedView      = errors.New("malformed view description")
	ErrInvalidViewName    = errors.New("invalid view name")
	ErrUnknownController  = errors.New("unknown controller")
	ErrViewNotLinked      = errors.New("view is not reachable from the current view")
	ErrRouterNotBound     = errors.New("router has no rendering surface")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
