// Package conversation waits for a specific user to answer a prompt in a specific place.
package conversation

import (
	"errors"
	"slices"
	"strings"
	"sync"
)

// ErrAlreadyWaiting is returned when the user already has an open prompt of the same mode in the channel.
var ErrAlreadyWaiting = errors.New("already waiting for an answer from this user in this channel")

type mode int

const (
	modeText mode = iota
	modeChoice
)

type key struct {
	channelID string
	userID    string
	mode      mode
}

type waiter struct {
	// messageID is the prompt message. Empty until the prompt has been sent.
	messageID string

	// options restricts the accepted choices. Empty accepts anything.
	options []string

	answer chan string
}

// Registry holds the open prompts. It is fed by the platform event handlers.
type Registry struct {
	mtx     sync.Mutex
	waiters map[key]*waiter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		waiters: make(map[key]*waiter),
	}
}

func (r *Registry) register(k key, options []string) (*waiter, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if _, ok := r.waiters[k]; ok {
		return nil, ErrAlreadyWaiting
	}

	w := &waiter{
		options: options,
		answer:  make(chan string, 1),
	}
	r.waiters[k] = w
	return w, nil
}

func (r *Registry) bind(k key, w *waiter, messageID string) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.waiters[k] == w {
		w.messageID = messageID
	}
}

func (r *Registry) unregister(k key, w *waiter) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.waiters[k] == w {
		delete(r.waiters, k)
	}
}

// DeliverText offers a message to the prompts. It reports whether the message answered one.
func (r *Registry) DeliverText(channelID, userID, content string) bool {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	k := key{channelID: channelID, userID: userID, mode: modeText}
	w, ok := r.waiters[k]
	if !ok {
		return false
	}

	delete(r.waiters, k)
	w.answer <- strings.TrimSpace(content)
	return true
}

// DeliverChoice offers a reaction or a menu selection made on a message. It reports whether the choice
// answered a prompt. Choices on other messages, and choices outside the offered options, are ignored.
func (r *Registry) DeliverChoice(channelID, messageID, userID, value string) bool {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	k := key{channelID: channelID, userID: userID, mode: modeChoice}
	w, ok := r.waiters[k]
	if !ok {
		return false
	}

	if w.messageID != "" && w.messageID != messageID {
		return false
	}

	if len(w.options) > 0 && !slices.Contains(w.options, value) {
		return false
	}

	delete(r.waiters, k)
	w.answer <- value
	return true
}

// Pending returns the number of open prompts.
func (r *Registry) Pending() int {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return len(r.waiters)
}
