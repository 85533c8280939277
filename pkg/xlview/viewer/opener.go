package viewer

import "github.com/skratchdot/open-golang/open"

// Opener hands a file to the host's default application.
type Opener interface {
	Open(path string) error
}

// SystemOpener opens files with the operating system's file association.
type SystemOpener struct{}

// Open starts the associated application without waiting for it to exit.
func (SystemOpener) Open(path string) error {
	return open.Start(path)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(path string) error

func (f OpenerFunc) Open(path string) error { return f(path) }
