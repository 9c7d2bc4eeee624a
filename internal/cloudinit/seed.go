// Package cloudinit generates NoCloud seed ISO images for newly defined
// domains.
//
// The seed contains user-data and meta-data following the cloud-init
// NoCloud datasource specification; the guest picks it up from a cdrom with
// the CIDATA volume label.
//
// See https://cloudinit.readthedocs.io/en/latest/reference/datasources/nocloud.html
package cloudinit

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
	"github.com/kdomanski/iso9660"
	"gopkg.in/yaml.v3"
)

// UserData is the cloud-config user-data structure, marshaled to YAML and
// prefixed with the "#cloud-config" header.
type UserData struct {
	Hostname          string   `yaml:"hostname"`
	SSHAuthorizedKeys []string `yaml:"ssh_authorized_keys,omitempty"`
	SSHPasswordAuth   bool     `yaml:"ssh_pwauth"`
}

// MetaData is the cloud-init instance metadata structure.
type MetaData struct {
	InstanceID    string `yaml:"instance-id"`
	LocalHostname string `yaml:"local-hostname"`
}

// GenerateUserData renders the cloud-config document for a domain.
func GenerateUserData(hostname string, sshKeys []string) (string, error) {
	if hostname == "" {
		return "", fmt.Errorf("hostname cannot be empty")
	}

	userData := UserData{
		Hostname:          hostname,
		SSHAuthorizedKeys: sshKeys,
	}

	data, err := yaml.Marshal(&userData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal user-data: %w", err)
	}

	return "#cloud-config\n" + string(data), nil
}

// GenerateMetaData renders the instance metadata document. The instance-id
// is freshly generated, so redefining a domain re-runs cloud-init.
func GenerateMetaData(hostname string) (string, error) {
	if hostname == "" {
		return "", fmt.Errorf("hostname cannot be empty")
	}

	metaData := MetaData{
		InstanceID:    uuid.New().String(),
		LocalHostname: hostname,
	}

	data, err := yaml.Marshal(&metaData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal meta-data: %w", err)
	}

	return string(data), nil
}

// GenerateSeedISO builds the NoCloud seed ISO for a domain.
//
// Returns the ISO image as a byte slice, ready to be written next to the
// domain's disk image.
func GenerateSeedISO(hostname string, sshKeys []string) ([]byte, error) {
	userData, err := GenerateUserData(hostname, sshKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to generate user-data: %w", err)
	}

	metaData, err := GenerateMetaData(hostname)
	if err != nil {
		return nil, fmt.Errorf("failed to generate meta-data: %w", err)
	}

	writer, err := iso9660.NewWriter()
	if err != nil {
		return nil, fmt.Errorf("failed to create ISO writer: %w", err)
	}
	defer func() {
		_ = writer.Cleanup()
	}()

	if err := writer.AddFile(bytes.NewReader([]byte(userData)), "user-data"); err != nil {
		return nil, fmt.Errorf("failed to add user-data: %w", err)
	}

	if err := writer.AddFile(bytes.NewReader([]byte(metaData)), "meta-data"); err != nil {
		return nil, fmt.Errorf("failed to add meta-data: %w", err)
	}

	var buf bytes.Buffer

	// The CIDATA volume label is required by the NoCloud datasource and
	// must be uppercase.
	if err := writer.WriteTo(&buf, "CIDATA"); err != nil {
		return nil, fmt.Errorf("failed to write ISO image: %w", err)
	}

	return buf.Bytes(), nil
}
