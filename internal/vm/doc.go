// Package vm drives the domain lifecycle state machine and inspects
// domain runtime state.
//
// The Controller handles transitions:
//
//	Undefined → Defined → Running → Shutoff → Undefined
//
// Define registers a descriptor without starting it; Start is valid from
// Shutoff; Stop requests a cooperative guest shutdown; Destroy force-stops
// from any active state; Undefine removes the persisted definition and is
// refused while the domain is not Shutoff. Blocked, Paused and Crashed are
// daemon-observed sub-states reported through the Inspector, never driven
// by the Controller.
//
// Error Handling:
//
// Every refused or failed operation returns a typed error (*LifecycleError,
// *DefinitionError, *NotFoundError) carrying the domain name, the requested
// operation and the observed state. Nothing is recovered silently: a daemon
// refusal always reaches the caller. The one place partial failure is
// tolerated is Inspector.List, whose snapshot semantics make entries
// disappearing mid-listing an expected outcome.
//
// Concurrency:
//
// Controller and Inspector issue blocking calls on a single connection and
// do not serialize access; use one connection per concurrent actor.
package vm
