package vm

import (
	"github.com/digitalocean/go-libvirt"
)

// libvirtClient defines the libvirt operations needed for domain lifecycle
// management and inspection. This wraps operations from *libvirt.Libvirt to
// allow for testing.
//
// In production, this is satisfied by *libvirt.Libvirt directly.
// In tests, this is satisfied by mock implementations.
type libvirtClient interface {
	// DomainLookupByName looks up a domain by name
	DomainLookupByName(name string) (libvirt.Domain, error)

	// DomainDefineXML defines a domain from XML without starting it
	DomainDefineXML(xml string) (libvirt.Domain, error)

	// DomainCreate starts a defined domain
	DomainCreate(dom libvirt.Domain) error

	// DomainGetState gets the raw state code of a domain
	DomainGetState(dom libvirt.Domain, flags uint32) (state int32, reason int32, err error)

	// DomainGetInfo gets state, memory and vCPU details of a domain
	DomainGetInfo(dom libvirt.Domain) (state uint8, maxMem uint64, memory uint64, nrVirtCPU uint16, cpuTime uint64, err error)

	// DomainShutdown requests a graceful guest shutdown
	DomainShutdown(dom libvirt.Domain) error

	// DomainDestroy force-stops a domain
	DomainDestroy(dom libvirt.Domain) error

	// DomainUndefine removes a persisted domain definition
	DomainUndefine(dom libvirt.Domain) error

	// ConnectListAllDomains enumerates domains known to the connection
	ConnectListAllDomains(needResults int32, flags libvirt.ConnectListAllDomainsFlags) ([]libvirt.Domain, uint32, error)
}

// Handle references a domain known to a connection. Handles are cheap to
// hold but weak: they become stale the instant another actor undefines the
// same domain, at which point operations fail with *NotFoundError.
type Handle struct {
	dom libvirt.Domain
}

// Name returns the domain name the handle refers to.
func (h Handle) Name() string {
	return h.dom.Name
}
