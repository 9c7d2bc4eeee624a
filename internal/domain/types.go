package domain

import "fmt"

// Type identifies the virtualization driver a domain runs under.
//
// The set is closed: new drivers are added as new constants with a case in
// WireTag, never as free-form strings.
type Type int

const (
	// TypeQEMU is full emulation via QEMU (TCG).
	TypeQEMU Type = iota
	// TypeKVM is hardware-accelerated virtualization via KVM.
	TypeKVM
)

// WireTag returns the lowercase tag used in the domain XML type attribute.
func (t Type) WireTag() string {
	switch t {
	case TypeQEMU:
		return "qemu"
	case TypeKVM:
		return "kvm"
	default:
		return "qemu"
	}
}

// String returns the same tag as WireTag for display purposes.
func (t Type) String() string {
	return t.WireTag()
}

// ParseType converts a user-supplied driver name to a Type.
func ParseType(s string) (Type, error) {
	switch s {
	case "qemu":
		return TypeQEMU, nil
	case "kvm":
		return TypeKVM, nil
	default:
		return 0, fmt.Errorf("unknown domain type %q (supported: qemu, kvm)", s)
	}
}
