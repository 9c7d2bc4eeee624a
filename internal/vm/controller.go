package vm

import (
	"fmt"
	"log"

	"github.com/mfinch/virtadm/internal/domain"
)

// Controller drives domain state transitions against one connection.
//
// Every method is a single synchronous request/response exchange with the
// daemon; nothing runs in the background. A Controller is not safe for
// concurrent use: callers needing concurrency should hold one connection
// (and one Controller) per actor.
type Controller struct {
	lv libvirtClient
}

// NewController returns a Controller operating on the given connection.
func NewController(lv libvirtClient) *Controller {
	return &Controller{lv: lv}
}

// Define serializes the descriptor and registers it with the daemon without
// starting it. The daemon enforces name uniqueness; a collision or a
// rejected wire document is reported as *DefinitionError.
func (c *Controller) Define(desc *domain.Descriptor) (Handle, error) {
	xml, err := desc.XML()
	if err != nil {
		return Handle{}, &DefinitionError{Name: desc.Name(), Err: err}
	}

	dom, err := c.lv.DomainDefineXML(xml)
	if err != nil {
		return Handle{}, &DefinitionError{Name: desc.Name(), Err: err}
	}

	log.Printf("Domain %q defined", desc.Name())
	return Handle{dom: dom}, nil
}

// Start transitions a domain from Shutoff to Running. A freshly defined,
// never-started domain reports Shutoff, so "Defined" and "stopped" are the
// same precondition here.
func (c *Controller) Start(h Handle) error {
	state, err := c.state(h)
	if err != nil {
		return err
	}

	switch state {
	case StateRunning:
		return &LifecycleError{Name: h.Name(), Op: "start", Reason: ReasonAlreadyRunning, State: state}
	case StateShutoff:
		// valid transition
	default:
		return &LifecycleError{Name: h.Name(), Op: "start", Reason: ReasonInvalidState, State: state}
	}

	if err := c.lv.DomainCreate(h.dom); err != nil {
		return &LifecycleError{Name: h.Name(), Op: "start", Reason: ReasonDaemonRejected, State: state, Err: err}
	}

	log.Printf("Domain %q started", h.Name())
	return nil
}

// Stop requests a graceful guest shutdown. The request is cooperative: the
// guest OS may take unbounded time to honor it, and this call returns as
// soon as the daemon accepts the request. Callers needing confirmation must
// poll the Inspector until the domain reports Shutoff.
func (c *Controller) Stop(h Handle) error {
	state, err := c.state(h)
	if err != nil {
		return err
	}

	if state != StateRunning {
		return &LifecycleError{Name: h.Name(), Op: "stop", Reason: ReasonInvalidState, State: state}
	}

	if err := c.lv.DomainShutdown(h.dom); err != nil {
		return &LifecycleError{Name: h.Name(), Op: "stop", Reason: ReasonDaemonRejected, State: state, Err: err}
	}

	log.Printf("Domain %q shutdown requested", h.Name())
	return nil
}

// Destroy force-stops a domain immediately, equivalent to pulling the power
// cord. There is no client-side state gate: the daemon's own refusal (for
// example destroying an already-Shutoff domain) is surfaced, not swallowed.
func (c *Controller) Destroy(h Handle) error {
	if err := c.lv.DomainDestroy(h.dom); err != nil {
		return &LifecycleError{Name: h.Name(), Op: "destroy", Reason: ReasonDaemonRejected, Err: err}
	}

	log.Printf("Domain %q destroyed", h.Name())
	return nil
}

// Undefine removes the persisted definition of a Shutoff domain. The daemon
// call alone does not guard against undefining an active domain, so the
// state check here is mandatory: any state other than Shutoff is refused
// with ReasonStillRunning and the definition is left untouched.
func (c *Controller) Undefine(h Handle) error {
	state, err := c.state(h)
	if err != nil {
		return err
	}

	if state != StateShutoff {
		return &LifecycleError{Name: h.Name(), Op: "undefine", Reason: ReasonStillRunning, State: state}
	}

	if err := c.lv.DomainUndefine(h.dom); err != nil {
		return &LifecycleError{Name: h.Name(), Op: "undefine", Reason: ReasonDaemonRejected, State: state, Err: err}
	}

	log.Printf("Domain %q undefined", h.Name())
	return nil
}

// state queries the daemon for the handle's current state. The daemon's
// unknown-domain error means the handle has gone stale; anything else is a
// transport or daemon failure and must not masquerade as "not found".
func (c *Controller) state(h Handle) (State, error) {
	code, _, err := c.lv.DomainGetState(h.dom, 0)
	if err != nil {
		if isNoDomain(err) {
			return StateUnknown, &NotFoundError{Name: h.Name(), Err: err}
		}
		return StateUnknown, fmt.Errorf("failed to get state of domain %q: %w", h.Name(), err)
	}
	return StateFromCode(code), nil
}
