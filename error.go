package switchboard

import "errors"

var (
	ErrBadConfig        = errors.New("bad config")
	ErrDecode           = errors.New("cannot decode")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotValid         = errors.New("invalid")
	ErrOverride         = errors.New("override misconfigured")
	ErrTransport        = errors.New("transport failed")
	ErrUnexpected       = errors.New("unexpected")
	ErrUnimplemented    = errors.New("unimplemented")
)
