// Package libvirt owns the connection to the hypervisor daemon.
//
// It wraps github.com/digitalocean/go-libvirt and adds endpoint fallback:
// ConnectFirst walks an ordered list of endpoints (by default qemu:///system
// then qemu:///session) and binds to the first daemon that answers. Each
// endpoint is dialed exactly once per call; a total failure is reported as a
// *ConnectError carrying every attempted endpoint and its cause.
//
//	client, err := libvirt.ConnectFirst(nil, 0)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
// Consumer-Side Interfaces:
//
// This package does not define interfaces. Consumers (internal/vm) define
// their own small interfaces specifying only the operations they need; the
// *libvirt.Libvirt value returned by Client.Libvirt() satisfies them
// implicitly, enabling clean dependency injection in tests.
package libvirt
