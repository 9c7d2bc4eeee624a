package vm

import (
	"errors"
	"fmt"

	"github.com/digitalocean/go-libvirt"
)

// Reason classifies why a lifecycle transition was refused.
type Reason string

const (
	// ReasonAlreadyRunning means start was requested on a running domain.
	ReasonAlreadyRunning Reason = "already running"
	// ReasonInvalidState means the domain is not in a state the requested
	// transition is valid from.
	ReasonInvalidState Reason = "invalid state"
	// ReasonStillRunning means undefine was requested before the domain
	// reached Shutoff.
	ReasonStillRunning Reason = "still running"
	// ReasonDaemonRejected means the daemon refused an otherwise valid
	// request.
	ReasonDaemonRejected Reason = "daemon rejected"
)

// NotFoundError reports a stale handle or an unknown domain name. This is an
// expected, recoverable outcome for callers racing other actors on the same
// connection or domain name.
type NotFoundError struct {
	Name string
	Err  error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("domain %q not found: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("domain %q not found", e.Name)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// DefinitionError reports that the daemon rejected a domain definition,
// typically a name collision or a rejected wire document.
type DefinitionError struct {
	Name string
	Err  error
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("failed to define domain %q: %v", e.Name, e.Err)
}

func (e *DefinitionError) Unwrap() error { return e.Err }

// LifecycleError reports a refused or failed state transition. Name, Op and
// Reason carry enough context for an actionable message.
type LifecycleError struct {
	Name   string
	Op     string
	Reason Reason
	State  State
	Err    error
}

func (e *LifecycleError) Error() string {
	msg := fmt.Sprintf("cannot %s domain %q: %s (state: %s)", e.Op, e.Name, e.Reason, e.State)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LifecycleError) Unwrap() error { return e.Err }

// isNoDomain reports whether err is the daemon's unknown-domain error, as
// opposed to a transport or daemon failure. Only the former means a stale
// handle or a bad name.
func isNoDomain(err error) bool {
	var lvErr libvirt.Error
	return errors.As(err, &lvErr) && lvErr.Code == uint32(libvirt.ErrNoDomain)
}
