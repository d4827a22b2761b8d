// Package workflow defines the error taxonomy shared by the ticket, setup and subject workflows.
package workflow

import (
	"errors"
	"fmt"
)

// Kind is the category of a workflow failure.
type Kind int

const (
	// KindRemote is a failed call to the chat platform or the data store.
	KindRemote Kind = iota

	// KindPrecondition is a wrong actor, wrong channel or unconfigured server.
	KindPrecondition

	// KindTimeout is a conversational wait that reached its deadline. The user has already been notified.
	KindTimeout

	// KindValidation is malformed user input. UserMessage holds the text to reply with.
	KindValidation
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindRemote:
		return "remote"
	case KindPrecondition:
		return "precondition"
	case KindTimeout:
		return "timeout"
	case KindValidation:
		return "validation"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a failure raised by a workflow component.
type Error struct {
	// Kind is the category of the failure.
	Kind Kind

	// Component is the component that raised the error (tickets, setup, subjects...).
	Component string

	// Step is the step of the workflow that failed.
	Step string

	// ChannelID is the channel the workflow was running in, if any.
	ChannelID string

	// UserMessage is the message that should be shown to the user, if any.
	UserMessage string

	// Err is the underlying cause.
	Err error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s failed (%s)", e.Component, e.Step, e.Kind)
	if e.ChannelID != "" {
		msg += " in channel " + e.ChannelID
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	} else if e.UserMessage != "" {
		msg += ": " + e.UserMessage
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Remote wraps a failed platform or store call.
func Remote(component, step, channelID string, err error) error {
	return &Error{
		Kind:      KindRemote,
		Component: component,
		Step:      step,
		ChannelID: channelID,
		Err:       err,
	}
}

// Timeout reports a conversational wait that timed out.
func Timeout(component, step, channelID string) error {
	return &Error{
		Kind:      KindTimeout,
		Component: component,
		Step:      step,
		ChannelID: channelID,
	}
}

// Validation reports malformed user input.
func Validation(component, step, userMessage string) error {
	return &Error{
		Kind:        KindValidation,
		Component:   component,
		Step:        step,
		UserMessage: userMessage,
	}
}

// Precondition reports a call made by the wrong actor or in the wrong place.
func Precondition(component, step, channelID string) error {
	return &Error{
		Kind:      KindPrecondition,
		Component: component,
		Step:      step,
		ChannelID: channelID,
	}
}

// KindOf returns the kind of err. Errors that were not raised by a workflow are remote failures.
func KindOf(err error) Kind {
	var we *Error
	if errors.As(err, &we) {
		return we.Kind
	}
	return KindRemote
}

// IsTimeout reports whether err is a workflow timeout.
func IsTimeout(err error) bool {
	return err != nil && KindOf(err) == KindTimeout
}

// UserMessage returns the user facing message carried by err, if any.
func UserMessage(err error) string {
	var we *Error
	if errors.As(err, &we) {
		return we.UserMessage
	}
	return ""
}
