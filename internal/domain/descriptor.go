// Package domain builds validated libvirt domain descriptors and their
// XML wire representation.
//
// A Descriptor is constructed once via New, is immutable afterwards, and
// does not touch the libvirt daemon. Serialization goes through
// libvirt.org/go/libvirtxml, so attribute and element escaping is owned by
// the XML marshaller rather than by string concatenation.
package domain

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"libvirt.org/go/libvirtxml"
)

// ValidationError reports a rejected descriptor parameter.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid descriptor: %s %s", e.Field, e.Reason)
}

// Params are the inputs to New. EmulatorPath and DiskPath must already be
// resolved; New validates structure only and never checks the filesystem.
type Params struct {
	Name         string
	Type         Type
	MemoryMiB    uint
	VCPUs        uint
	EmulatorPath string
	DiskPath     string

	// SeedISOPath optionally attaches a cloud-init seed ISO as a read-only
	// cdrom. Empty means no seed device.
	SeedISOPath string
}

// Descriptor is the logical description of a VM, ready to be defined
// against a connection.
type Descriptor struct {
	name         string
	domainType   Type
	uid          string
	memoryMiB    uint
	vcpus        uint
	emulatorPath string
	diskPath     string
	seedISOPath  string
}

// New validates params and returns an immutable Descriptor.
func New(p Params) (*Descriptor, error) {
	if p.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if p.MemoryMiB == 0 {
		return nil, &ValidationError{Field: "memory", Reason: "must be > 0 MiB"}
	}
	if p.VCPUs == 0 {
		return nil, &ValidationError{Field: "vcpus", Reason: "must be > 0"}
	}
	if p.EmulatorPath == "" {
		return nil, &ValidationError{Field: "emulator", Reason: "must not be empty"}
	}

	return &Descriptor{
		name:         p.Name,
		domainType:   p.Type,
		uid:          uuid.New().String(),
		memoryMiB:    p.MemoryMiB,
		vcpus:        p.VCPUs,
		emulatorPath: p.EmulatorPath,
		diskPath:     p.DiskPath,
		seedISOPath:  p.SeedISOPath,
	}, nil
}

// Name returns the domain name.
func (d *Descriptor) Name() string { return d.name }

// Type returns the virtualization driver.
func (d *Descriptor) Type() Type { return d.domainType }

// UUID returns the generated domain UUID.
func (d *Descriptor) UUID() string { return d.uid }

// MemoryMiB returns the memory size in MiB.
func (d *Descriptor) MemoryMiB() uint { return d.memoryMiB }

// VCPUs returns the virtual CPU count.
func (d *Descriptor) VCPUs() uint { return d.vcpus }

// DiskPath returns the backing disk image path.
func (d *Descriptor) DiskPath() string { return d.diskPath }

// XML serializes the descriptor to the libvirt domain XML document.
// It never fails for a descriptor produced by New; the error return exists
// for the underlying marshaller contract.
func (d *Descriptor) XML() (string, error) {
	dom := &libvirtxml.Domain{
		Type: d.domainType.WireTag(),
		Name: d.name,
		UUID: d.uid,
		Memory: &libvirtxml.DomainMemory{
			Value: d.memoryMiB,
			Unit:  "MiB",
		},
		VCPU: &libvirtxml.DomainVCPU{
			Value: d.vcpus,
		},
		OS: &libvirtxml.DomainOS{
			Type: &libvirtxml.DomainOSType{
				Arch: "x86_64",
				Type: "hvm",
			},
			BootDevices: []libvirtxml.DomainBootDevice{
				{Dev: "hd"},
			},
		},
		Features: &libvirtxml.DomainFeatureList{
			ACPI: &libvirtxml.DomainFeature{},
			APIC: &libvirtxml.DomainFeatureAPIC{},
		},
		Devices: &libvirtxml.DomainDeviceList{
			Emulator: d.emulatorPath,
			Disks: []libvirtxml.DomainDisk{
				{
					Device: "disk",
					Driver: &libvirtxml.DomainDiskDriver{
						Name: "qemu",
						Type: "qcow2",
					},
					Source: &libvirtxml.DomainDiskSource{
						File: &libvirtxml.DomainDiskSourceFile{
							File: d.diskPath,
						},
					},
					Target: &libvirtxml.DomainDiskTarget{
						Dev: "vda",
						Bus: "virtio",
					},
				},
			},
			Interfaces: []libvirtxml.DomainInterface{
				{
					Source: &libvirtxml.DomainInterfaceSource{
						Network: &libvirtxml.DomainInterfaceSourceNetwork{
							Network: "default",
						},
					},
					Model: &libvirtxml.DomainInterfaceModel{
						Type: "virtio",
					},
				},
			},
			Consoles: []libvirtxml.DomainConsole{
				{
					Source: &libvirtxml.DomainChardevSource{
						Pty: &libvirtxml.DomainChardevSourcePty{},
					},
				},
			},
			Graphics: []libvirtxml.DomainGraphic{
				{
					VNC: &libvirtxml.DomainGraphicVNC{
						Port:     -1,
						AutoPort: "yes",
					},
				},
			},
		},
	}

	if d.seedISOPath != "" {
		dom.Devices.Disks = append(dom.Devices.Disks, libvirtxml.DomainDisk{
			Device: "cdrom",
			Driver: &libvirtxml.DomainDiskDriver{
				Name: "qemu",
				Type: "raw",
			},
			Source: &libvirtxml.DomainDiskSource{
				File: &libvirtxml.DomainDiskSourceFile{
					File: d.seedISOPath,
				},
			},
			Target: &libvirtxml.DomainDiskTarget{
				Dev: "sda",
				Bus: "sata",
			},
			ReadOnly: &libvirtxml.DomainDiskReadOnly{},
		})
	}

	xml, err := dom.Marshal()
	if err != nil {
		return "", fmt.Errorf("failed to marshal domain XML: %w", err)
	}

	return xml, nil
}

// DiskPaths chooses where a domain's disk image lives. Both directories are
// configuration, not constants, so tests can substitute synthetic paths.
type DiskPaths struct {
	// UserDir is relative to the user's home directory.
	UserDir string
	// SystemDir is the system-wide fallback.
	SystemDir string
}

// DefaultDiskPaths returns the conventional libvirt image directories.
func DefaultDiskPaths() DiskPaths {
	return DiskPaths{
		UserDir:   ".local/share/libvirt/images",
		SystemDir: "/var/lib/libvirt/images",
	}
}

// Resolve returns the qcow2 image path for a domain name. When home is
// non-empty the image is placed under the user-scoped directory, otherwise
// under the system-wide one.
func (p DiskPaths) Resolve(home, name string) string {
	if home != "" {
		return filepath.Join(home, p.UserDir, name+".qcow2")
	}
	return filepath.Join(p.SystemDir, name+".qcow2")
}

// SeedISOPath returns the path the cloud-init seed ISO is written to,
// alongside the disk image.
func (p DiskPaths) SeedISOPath(home, name string) string {
	if home != "" {
		return filepath.Join(home, p.UserDir, name+"-seed.iso")
	}
	return filepath.Join(p.SystemDir, name+"-seed.iso")
}
