package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mfinch/virtadm/internal/cloudinit"
	"github.com/mfinch/virtadm/internal/config"
	"github.com/mfinch/virtadm/internal/domain"
	"github.com/mfinch/virtadm/internal/emulator"
	"github.com/mfinch/virtadm/internal/libvirt"
	"github.com/mfinch/virtadm/internal/output"
	"github.com/mfinch/virtadm/internal/vm"
)

var (
	version = "dev"
	commit  = "unknown"
)

var (
	configPath string

	defineType     string
	defineMemory   uint
	defineVCPUs    uint
	defineDisk     string
	defineEmulator string
	defineSSHKeys  []string

	outputFormat string
	noHeaders    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "virtadm",
	Short: "virtadm - Libvirt domain lifecycle tool",
	Long: `virtadm manages the lifecycle of libvirt domains: define, start,
stop, destroy, undefine and inspect virtual machines without hand-writing
domain XML.

It connects to the system libvirt daemon first and falls back to the
per-user session daemon.`,
	Version: fmt.Sprintf("%s (commit: %s)", version, commit),
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (optional)")

	defineCmd.Flags().StringVar(&defineType, "type", "kvm", "domain type (qemu, kvm)")
	defineCmd.Flags().UintVar(&defineMemory, "memory", 1024, "memory size in MiB")
	defineCmd.Flags().UintVar(&defineVCPUs, "vcpus", 2, "virtual CPU count")
	defineCmd.Flags().StringVar(&defineDisk, "disk", "", "disk image path (default: resolved image directory)")
	defineCmd.Flags().StringVar(&defineEmulator, "emulator", "", "emulator binary path (default: probe standard locations)")
	defineCmd.Flags().StringArrayVar(&defineSSHKeys, "ssh-key", nil, "SSH public key to inject via a cloud-init seed ISO (repeatable)")

	listCmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "output format (table, json, yaml)")
	listCmd.Flags().BoolVar(&noHeaders, "no-headers", false, "omit table headers")

	rootCmd.AddCommand(defineCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(destroyCmd)
	rootCmd.AddCommand(undefineCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(testConnCmd)
}

// loadConfig returns the configuration from --config, or defaults.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(configPath)
}

// connect opens a connection using the configured endpoint fallback order.
func connect(cfg *config.Config) (*libvirt.Client, error) {
	client, err := libvirt.ConnectFirst(cfg.LibvirtEndpoints(), cfg.ConnectTimeout())
	if err != nil {
		return nil, err
	}
	return client, nil
}

// closeClient releases a connection, warning on failure.
func closeClient(client *libvirt.Client) {
	if err := client.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close libvirt connection: %v\n", err)
	}
}

var defineCmd = &cobra.Command{
	Use:   "define <name>",
	Short: "Define a new domain without starting it",
	Long: `Define a new domain from the given name and resource flags.

The disk image is expected to exist already (create it with qemu-img); the
emulator binary is located by probing standard paths, falling back to the
system PATH lookup. The definition is registered with the daemon but the
domain is not started.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		domainType, err := domain.ParseType(defineType)
		if err != nil {
			return err
		}

		emulatorPath := defineEmulator
		if emulatorPath == "" {
			emulatorPath, err = emulator.Find(cfg.EmulatorCandidates, nil)
			if err != nil {
				return err
			}
		}

		home, _ := os.UserHomeDir()
		diskPath := defineDisk
		if diskPath == "" {
			diskPath = cfg.DiskPaths().Resolve(home, name)
		}

		seedPath := ""
		if len(defineSSHKeys) > 0 {
			iso, err := cloudinit.GenerateSeedISO(name, defineSSHKeys)
			if err != nil {
				return fmt.Errorf("failed to generate cloud-init seed: %w", err)
			}
			seedPath = cfg.DiskPaths().SeedISOPath(home, name)
			if err := os.MkdirAll(filepath.Dir(seedPath), 0o755); err != nil {
				return fmt.Errorf("failed to create image directory: %w", err)
			}
			if err := os.WriteFile(seedPath, iso, 0o644); err != nil {
				return fmt.Errorf("failed to write cloud-init seed: %w", err)
			}
		}

		desc, err := domain.New(domain.Params{
			Name:         name,
			Type:         domainType,
			MemoryMiB:    defineMemory,
			VCPUs:        defineVCPUs,
			EmulatorPath: emulatorPath,
			DiskPath:     diskPath,
			SeedISOPath:  seedPath,
		})
		if err != nil {
			return err
		}

		client, err := connect(cfg)
		if err != nil {
			return err
		}
		defer closeClient(client)

		controller := vm.NewController(client.Libvirt())
		if _, err := controller.Define(desc); err != nil {
			return err
		}

		fmt.Printf("✓ Domain %q defined (disk: %s)\n", name, diskPath)
		return nil
	},
}

// withHandle looks up a domain by name and runs op against its handle.
func withHandle(name string, op func(*vm.Controller, vm.Handle) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := connect(cfg)
	if err != nil {
		return err
	}
	defer closeClient(client)

	inspector := vm.NewInspector(client.Libvirt())
	handle, err := inspector.Lookup(name)
	if err != nil {
		return err
	}

	return op(vm.NewController(client.Libvirt()), handle)
}

var startCmd = &cobra.Command{
	Use:   "start <name>",
	Short: "Start a defined domain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := withHandle(args[0], func(c *vm.Controller, h vm.Handle) error {
			return c.Start(h)
		}); err != nil {
			return err
		}
		fmt.Printf("✓ Domain %q started\n", args[0])
		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop <name>",
	Short: "Request a graceful shutdown of a running domain",
	Long: `Request a graceful shutdown via ACPI.

The guest OS decides when (and whether) to honor the request; use
"virtadm state" to confirm the domain reached Shutoff, or "virtadm destroy"
to force it off.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := withHandle(args[0], func(c *vm.Controller, h vm.Handle) error {
			return c.Stop(h)
		}); err != nil {
			return err
		}
		fmt.Printf("✓ Shutdown of %q requested\n", args[0])
		return nil
	},
}

var destroyCmd = &cobra.Command{
	Use:   "destroy <name>",
	Short: "Force-stop a domain immediately",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := withHandle(args[0], func(c *vm.Controller, h vm.Handle) error {
			return c.Destroy(h)
		}); err != nil {
			return err
		}
		fmt.Printf("✓ Domain %q destroyed\n", args[0])
		return nil
	},
}

var undefineCmd = &cobra.Command{
	Use:   "undefine <name>",
	Short: "Remove the persisted definition of a shut-off domain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := withHandle(args[0], func(c *vm.Controller, h vm.Handle) error {
			return c.Undefine(h)
		}); err != nil {
			return err
		}
		fmt.Printf("✓ Domain %q undefined\n", args[0])
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all domains",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := output.ValidateFormat(outputFormat); err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		client, err := connect(cfg)
		if err != nil {
			return err
		}
		defer closeClient(client)

		summaries, err := vm.NewInspector(client.Libvirt()).List()
		if err != nil {
			return err
		}

		formatter, err := output.NewFormatter(output.Options{
			Format:    output.Format(outputFormat),
			NoHeaders: noHeaders,
		})
		if err != nil {
			return err
		}

		text, err := formatter.FormatSummaries(summaries)
		if err != nil {
			return err
		}

		fmt.Print(text)
		return nil
	},
}

var stateCmd = &cobra.Command{
	Use:   "state <name>",
	Short: "Show the current state of a domain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		client, err := connect(cfg)
		if err != nil {
			return err
		}
		defer closeClient(client)

		inspector := vm.NewInspector(client.Libvirt())
		handle, err := inspector.Lookup(name)
		if err != nil {
			return err
		}

		state, err := inspector.GetState(handle)
		if err != nil {
			return err
		}

		fmt.Printf("%s: %s\n", name, state)
		return nil
	},
}

var testConnCmd = &cobra.Command{
	Use:   "test-conn",
	Short: "Test libvirt connectivity",
	Long:  `Walk the endpoint fallback order and display daemon information for the first endpoint that answers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Testing libvirt connection...")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		client, err := connect(cfg)
		if err != nil {
			return err
		}
		defer closeClient(client)

		fmt.Printf("✓ Connected to %s\n", client.Endpoint().URI)

		if err := client.Ping(); err != nil {
			return fmt.Errorf("connection test failed: %w", err)
		}

		// libvirt returns the version as an integer like 8006000 for 8.6.0
		version, err := client.Libvirt().ConnectGetLibVersion()
		if err != nil {
			return fmt.Errorf("failed to get libvirt version: %w", err)
		}
		fmt.Printf("✓ Libvirt version: %d.%d.%d\n", version/1000000, (version%1000000)/1000, version%1000)

		hostname, err := client.Libvirt().ConnectGetHostname()
		if err != nil {
			return fmt.Errorf("failed to get hostname: %w", err)
		}
		fmt.Printf("✓ Hypervisor hostname: %s\n", hostname)

		fmt.Println("\nConnection test successful!")
		return nil
	},
}
