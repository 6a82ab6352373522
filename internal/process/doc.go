// Package process terminates the headless browser launched for rendering.
// Closing the DevTools connection is not always enough: Chrome forks helper
// processes that outlive the parent when it is killed on its own.
package process
