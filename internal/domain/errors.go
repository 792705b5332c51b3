package domain

import "errors"

var (
	// ErrProbe wraps failures reading local media state
	ErrProbe = errors.New("media probe failed")
	// ErrConnection wraps failures opening the presence connection
	ErrConnection = errors.New("presence connection failed")
	// ErrPush wraps failures sending an update over an open connection
	ErrPush = errors.New("presence update failed")
	// ErrResolver wraps catalog lookup failures
	ErrResolver = errors.New("metadata lookup failed")

	// ErrNoSession is returned when no Discord client is listening
	ErrNoSession = errors.New("discord is not running")
	// ErrNotConnected is returned by sink operations before Connect
	ErrNotConnected = errors.New("not connected")
	// ErrUnsupported is returned by probes on platforms without a media API
	ErrUnsupported = errors.New("not supported on this platform")
)
