package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stubro-ai/stubro/internal/content"
	"github.com/stubro-ai/stubro/internal/levelgen"
)

var chaptersCmd = &cobra.Command{
	Use:   "chapters [query]",
	Short: "List the built-in chapters",
	Long: `Shows the chapters that ship with StuBro. An optional query filters by
title, subject or class.

Examples:
  stubro chapters
  stubro chapters physics`,
	Args: cobra.MaximumNArgs(1),
	Run:  runChapters,
}

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List level generator backends",
	Args:  cobra.NoArgs,
	RunE:  runBackends,
}

func runChapters(_ *cobra.Command, args []string) {
	chapters := content.Chapters()
	if len(args) == 1 {
		chapters = content.Search(args[0])
	}

	if len(chapters) == 0 {
		fmt.Println("No chapters found.")
		return
	}

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, c := range chapters {
		maxIDLen = max(maxIDLen, len(c.ID))
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Chapter")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-------")
	for _, c := range chapters {
		fmt.Printf("  %-*s  %s\n", maxIDLen, c.ID, c.Summary())
	}

	fmt.Println()
	fmt.Println("Run 'stubro play --chapter <id>' to play a chapter.")
}

func runBackends(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	backends := levelgen.List()

	maxNameLen := 4 // "Name" header
	for _, b := range backends {
		maxNameLen = max(maxNameLen, len(b.Name))
	}

	fmt.Printf("  %-*s  %s\n", maxNameLen, "Name", "Description")
	fmt.Printf("  %-*s  %s\n", maxNameLen, strings.Repeat("-", 4), "-----------")
	for _, b := range backends {
		marker := ""
		if b.Name == cfg.Generator.Backend {
			marker = " (default)"
		}
		fmt.Printf("  %-*s  %s%s\n", maxNameLen, b.Name, b.Description, marker)
	}
	return nil
}
