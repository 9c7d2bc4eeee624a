package vm

import "github.com/digitalocean/go-libvirt"

// State classifies the runtime state of a domain.
//
// The set is closed and the mapping from daemon state codes is total: any
// code this package does not recognize classifies as StateUnknown, never an
// error.
type State int

const (
	StateUnknown State = iota
	StateRunning
	StateBlocked
	StatePaused
	StateShutdown
	StateShutoff
	StateCrashed
)

// StateFromCode maps a raw daemon state code to a State.
func StateFromCode(code int32) State {
	switch libvirt.DomainState(code) {
	case libvirt.DomainRunning:
		return StateRunning
	case libvirt.DomainBlocked:
		return StateBlocked
	case libvirt.DomainPaused:
		return StatePaused
	case libvirt.DomainShutdown:
		return StateShutdown
	case libvirt.DomainShutoff:
		return StateShutoff
	case libvirt.DomainCrashed:
		return StateCrashed
	default:
		return StateUnknown
	}
}

// String returns the display name of the state.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "Running"
	case StateBlocked:
		return "Blocked"
	case StatePaused:
		return "Paused"
	case StateShutdown:
		return "Shutdown"
	case StateShutoff:
		return "Shutoff"
	case StateCrashed:
		return "Crashed"
	default:
		return "Unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so summaries serialize the
// state name in JSON and YAML output.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
