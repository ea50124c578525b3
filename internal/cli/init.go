package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/photondrift/adrscan/internal/config"
)

const adrTemplateContent = `---
id: "0001"
title: "[Short, Descriptive Title]"
status: "Proposed"
date: "[YYYY-MM-DD]"
deciders: []
tags: []
---

# [ADR Title]

## Context

[Describe the problem or context that requires a decision.]

## Decision

[Clearly state the decision and any rules or constraints it imposes.]

## Consequences

[Describe the expected outcomes, both positive and negative.]
`

// newInitCommand adapts the teacher's runInit prompt flow (directory
// creation, optional ADR_TEMPLATE.md, config scaffold, .gitignore entry) to
// this spec's config shape and default paths.
func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Scaffold an ADR directory and adrscan.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit()
		},
	}
}

func runInit() error {
	defaults := config.Default()
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Printf("Enter ADR directory path [%s]: ", defaults.AdrDir)
	scanner.Scan()
	adrPath := strings.TrimSpace(scanner.Text())
	if adrPath == "" {
		adrPath = defaults.AdrDir
	}

	createdDir := false
	if _, err := os.Stat(adrPath); os.IsNotExist(err) {
		fmt.Printf("Directory %q does not exist. Create it now? (y/n): ", adrPath)
		scanner.Scan()
		if strings.EqualFold(strings.TrimSpace(scanner.Text()), "y") {
			if err := (&config.Config{AdrDir: adrPath}).EnsureADRDir(); err != nil {
				return fmt.Errorf("failed to create ADR directory: %w", err)
			}
			fmt.Printf("Created directory: %s\n", adrPath)
			createdDir = true
		} else {
			fmt.Println("Skipping directory creation.")
		}
	}

	if createdDir {
		fmt.Print("Include a starter ADR_TEMPLATE.md? (y/n): ")
		scanner.Scan()
		if strings.EqualFold(strings.TrimSpace(scanner.Text()), "y") {
			templatePath := filepath.Join(adrPath, "ADR_TEMPLATE.md")
			if err := os.WriteFile(templatePath, []byte(adrTemplateContent), 0644); err != nil {
				return fmt.Errorf("failed to create ADR template: %w", err)
			}
			fmt.Printf("Created template: %s\n", templatePath)
		}
	}

	if _, err := os.Stat(cfgPath); err == nil {
		fmt.Printf("%s already exists. Overwrite with defaults? (y/n): ", cfgPath)
		scanner.Scan()
		if !strings.EqualFold(strings.TrimSpace(scanner.Text()), "y") {
			fmt.Println("Initialization cancelled.")
			return nil
		}
	}

	defaults.AdrDir = adrPath
	data, err := config.Marshal(defaults)
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	if err := os.WriteFile(cfgPath, data, 0644); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Printf("Created config: %s\n", cfgPath)

	if err := os.MkdirAll(".adrscan/ml", 0755); err != nil {
		return fmt.Errorf("failed to create .adrscan directory: %w", err)
	}

	if err := ensureGitignore(); err != nil {
		return fmt.Errorf("failed to update .gitignore: %w", err)
	}

	fmt.Println("\nadrscan initialized successfully!")
	fmt.Println("Next steps:")
	fmt.Println("  1. Add your ADR files to", adrPath)
	fmt.Println("  2. Run: adrscan inventory")
	fmt.Println("  3. Run: adrscan diff")
	return nil
}

func ensureGitignore() error {
	const path = ".gitignore"
	const entry = ".adrscan/"

	content, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == entry {
			return nil
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if len(content) > 0 && content[len(content)-1] != '\n' {
		if _, err := f.WriteString("\n"); err != nil {
			return err
		}
	}
	_, err = f.WriteString(entry + "\n")
	return err
}
