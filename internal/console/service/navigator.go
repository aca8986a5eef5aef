package service

import (
	"fmt"
	"io"
	"net/url"
	"sync"
)

// Navigator is the presentation layer's location. The terminator reads the
// current path to build a redirect intent and then sends the user to login.
type Navigator interface {
	CurrentPath() string
	Navigate(target string)
}

// ConsoleNavigator treats the running command as the current location and
// prints a sign-in hint when sent to the login surface.
type ConsoleNavigator struct {
	out io.Writer

	mu   sync.Mutex
	path string
}

var _ Navigator = (*ConsoleNavigator)(nil)

func NewConsoleNavigator(out io.Writer, path string) *ConsoleNavigator {
	return &ConsoleNavigator{out: out, path: path}
}

func (n *ConsoleNavigator) CurrentPath() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}

// SetPath records the location the user is working on.
func (n *ConsoleNavigator) SetPath(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.path = path
}

func (n *ConsoleNavigator) Navigate(target string) {
	path, redirect := target, ""
	if u, err := url.Parse(target); err == nil {
		path = u.Path
		redirect = u.Query().Get("redirect")
	}

	n.SetPath(path)

	if n.out == nil {
		return
	}
	if redirect != "" {
		fmt.Fprintf(n.out, "Sign in again with `botadmin login` to continue with %s.\n", redirect)
		return
	}
	fmt.Fprintln(n.out, "Sign in again with `botadmin login`.")
}
