// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"promptcraft-studio/pkg/registry"
)

const defaultRegistryPath = "pkg/registry/flows.json"

var validStatuses = map[string]bool{
	"planned":     true,
	"in-progress": true,
	"completed":   true,
	"verified":    true,
}

func main() {
	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	if err := run(os.Args[1], os.Args[2:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(command string, args []string, out io.Writer) error {
	switch command {
	case "add":
		fs := flag.NewFlagSet("add", flag.ContinueOnError)
		path := fs.String("path", defaultRegistryPath, "Path to registry file")
		id := fs.String("id", "", "Flow ID (e.g., rewrite-prompt)")
		displayName := fs.String("displayName", "", "Display Name (e.g., Rewrite Prompt)")
		description := fs.String("description", "", "Description")
		category := fs.String("category", "", "Category (e.g., analysis)")
		version := fs.String("version", "1.0.0", "Version")
		status := fs.String("status", "planned", "Implementation Status (planned, in-progress, completed, verified)")
		timeout := fs.String("timeout", "60s", "Flow timeout")
		tags := fs.String("tags", "", "Comma separated tags")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *id == "" || *displayName == "" || *description == "" || *category == "" {
			fs.Usage()
			return fmt.Errorf("id, displayName, description and category are required for add")
		}
		flow := registry.Flow{
			ID:                   *id,
			DisplayName:          *displayName,
			Description:          *description,
			Category:             *category,
			Version:              *version,
			ImplementationStatus: *status,
			InputSchema:          map[string]interface{}{"type": "object"},
			OutputSchema:         map[string]interface{}{"type": "object"},
			ErrorCodes:           []string{"INPUT_VALIDATION_FAILED"},
			Timeout:              *timeout,
			Tags:                 splitTags(*tags),
		}
		if err := addFlow(*path, flow); err != nil {
			return err
		}
		fmt.Fprintf(out, "Added flow: %s\n", *id)

	case "update":
		fs := flag.NewFlagSet("update", flag.ContinueOnError)
		path := fs.String("path", defaultRegistryPath, "Path to registry file")
		id := fs.String("id", "", "Flow ID to update")
		field := fs.String("field", "", "Field to update (status, version, displayName, description, category, timeout, tags)")
		value := fs.String("value", "", "New value for the field")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *id == "" || *field == "" || *value == "" {
			fs.Usage()
			return fmt.Errorf("id, field and value are required for update")
		}
		if err := updateFlow(*path, *id, *field, *value); err != nil {
			return err
		}
		fmt.Fprintf(out, "Updated flow %s, field %s to %s\n", *id, *field, *value)

	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		path := fs.String("path", defaultRegistryPath, "Path to registry file")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if err := validateRegistry(*path); err != nil {
			return fmt.Errorf("registry validation failed: %w", err)
		}
		fmt.Fprintln(out, "Registry validation passed.")

	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		path := fs.String("path", defaultRegistryPath, "Path to registry file")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return listFlows(*path, out)

	case "help":
		help()

	default:
		help()
		return fmt.Errorf("unknown command %q", command)
	}

	return nil
}

func addFlow(path string, flow registry.Flow) error {
	if !validStatuses[flow.ImplementationStatus] {
		return fmt.Errorf("invalid status %q", flow.ImplementationStatus)
	}

	reg, err := registry.LoadRegistry(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		reg = &registry.FlowRegistry{
			Version: "1.0.0",
			Flows:   []registry.Flow{},
		}
	}

	if _, exists := reg.Get(flow.ID); exists {
		return fmt.Errorf("flow with ID %s already exists", flow.ID)
	}

	reg.Flows = append(reg.Flows, flow)
	return save(reg, path)
}

func updateFlow(path, id, field, value string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	idx := -1
	for i := range reg.Flows {
		if reg.Flows[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("flow with ID %s not found", id)
	}

	flow := &reg.Flows[idx]
	switch field {
	case "status":
		if !validStatuses[value] {
			return fmt.Errorf("invalid status %q", value)
		}
		flow.ImplementationStatus = value
	case "version":
		flow.Version = value
	case "displayName":
		flow.DisplayName = value
	case "description":
		flow.Description = value
	case "category":
		flow.Category = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout value: %w", err)
		}
		flow.Timeout = value
	case "tags":
		flow.Tags = splitTags(value)
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	return save(reg, path)
}

func validateRegistry(path string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return err
	}
	for _, flow := range reg.Flows {
		if !validStatuses[flow.ImplementationStatus] {
			return fmt.Errorf("flow %s has invalid status %q", flow.ID, flow.ImplementationStatus)
		}
	}
	return nil
}

func listFlows(path string, out io.Writer) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCATEGORY\tVERSION\tSTATUS\tTIMEOUT")
	for _, flow := range reg.Flows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", flow.ID, flow.Category, flow.Version, flow.ImplementationStatus, flow.Timeout)
	}
	return w.Flush()
}

func save(reg *registry.FlowRegistry, path string) error {
	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	return reg.Save(path)
}

func splitTags(s string) []string {
	tags := []string{}
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func help() {
	fmt.Println("Usage: registry-updater <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  add       Add a new flow to the registry")
	fmt.Println("  update    Update a field of an existing flow")
	fmt.Println("  validate  Validate the registry file and its schemas")
	fmt.Println("  list      Print the flows in the registry")
	fmt.Println("  help      Show this help message")
	fmt.Println()
	fmt.Println("Every command accepts -path (default " + defaultRegistryPath + ").")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  registry-updater add -id rewrite-prompt -displayName \"Rewrite Prompt\" -description \"Rewrites a prompt\" -category analysis")
	fmt.Println("  registry-updater update -id rewrite-prompt -field status -value completed")
	fmt.Println("  registry-updater validate")
}
