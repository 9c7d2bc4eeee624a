package vm

import (
	"fmt"
	"log"

	"github.com/digitalocean/go-libvirt"
)

// Summary describes one domain in a listing snapshot.
type Summary struct {
	Name      string `json:"name" yaml:"name"`
	State     State  `json:"state" yaml:"state"`
	MemoryMiB uint64 `json:"memory_mib" yaml:"memory_mib"`
}

// Inspector queries and classifies domain runtime state.
type Inspector struct {
	lv libvirtClient
}

// NewInspector returns an Inspector operating on the given connection.
func NewInspector(lv libvirtClient) *Inspector {
	return &Inspector{lv: lv}
}

// Lookup resolves a domain name to a Handle. An unknown name is
// *NotFoundError; transport and daemon failures are reported as themselves.
func (i *Inspector) Lookup(name string) (Handle, error) {
	dom, err := i.lv.DomainLookupByName(name)
	if err != nil {
		if isNoDomain(err) {
			return Handle{}, &NotFoundError{Name: name, Err: err}
		}
		return Handle{}, fmt.Errorf("failed to look up domain %q: %w", name, err)
	}
	return Handle{dom: dom}, nil
}

// GetState returns the domain's classified state. Unrecognized daemon state
// codes classify as StateUnknown; a stale handle is *NotFoundError.
func (i *Inspector) GetState(h Handle) (State, error) {
	code, _, err := i.lv.DomainGetState(h.dom, 0)
	if err != nil {
		if isNoDomain(err) {
			return StateUnknown, &NotFoundError{Name: h.Name(), Err: err}
		}
		return StateUnknown, fmt.Errorf("failed to get state of domain %q: %w", h.Name(), err)
	}
	return StateFromCode(code), nil
}

// List enumerates all domains visible to the connection at call time.
//
// The result is a snapshot: state may change between listing and later
// inspection of an individual entry, and callers must tolerate
// *NotFoundError on entries that have since disappeared. Entries whose
// details cannot be read are skipped with a warning rather than failing the
// whole listing.
func (i *Inspector) List() ([]Summary, error) {
	// NeedResults: 1 means populate the domains slice
	// Flags: 0 means all domains (active and inactive)
	domains, _, err := i.lv.ConnectListAllDomains(1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}

	if len(domains) == 0 {
		return []Summary{}, nil
	}

	summaries := make([]Summary, 0, len(domains))
	for _, dom := range domains {
		s, err := i.summarize(dom)
		if err != nil {
			log.Printf("Warning: failed to get info for domain %s: %v", dom.Name, err)
			continue
		}
		summaries = append(summaries, s)
	}

	return summaries, nil
}

// summarize collects name, state and memory for one domain.
func (i *Inspector) summarize(dom libvirt.Domain) (Summary, error) {
	state, _, err := i.lv.DomainGetState(dom, 0)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to get domain state: %w", err)
	}

	_, _, memoryKiB, _, _, err := i.lv.DomainGetInfo(dom)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to get domain info: %w", err)
	}

	return Summary{
		Name:      dom.Name,
		State:     StateFromCode(state),
		MemoryMiB: memoryKiB / 1024,
	}, nil
}
