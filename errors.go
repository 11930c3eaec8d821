package ormbridge

import "errors"

var (
	// ErrUnsupportedBackend no backend is known for a configured driver
	ErrUnsupportedBackend = errors.New("unsupported database backend")
	// ErrConnectionFailed bootstrap could not open a configured connection
	ErrConnectionFailed = errors.New("connection failed")
	// ErrNotGenerated the model was never mirrored in this run
	ErrNotGenerated = errors.New("model not generated")
	// ErrNotInitialized the connection layer has not been initialized
	ErrNotInitialized = errors.New("not initialized")
)
