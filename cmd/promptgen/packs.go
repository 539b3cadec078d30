package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/promptgen/internal/output"
	"github.com/jackzampolin/promptgen/internal/pack"
)

var packsCmd = &cobra.Command{
	Use:   "packs",
	Short: "Inspect vocabulary packs",
}

// packList renders registry sources as a table with -o table.
type packList []pack.Source

func (l packList) TableHeader() []string { return []string{"NAME", "SOURCE", "PATH"} }

func (l packList) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, s := range l {
		src := "user"
		if s.Embedded {
			src = "embedded"
		}
		rows = append(rows, []string{s.Name, src, s.Path})
	}
	return rows
}

// packInfo is the summary printed by packs show and packs validate.
type packInfo struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Domain      string         `json:"domain" yaml:"domain"`
	Language    string         `json:"language" yaml:"language"`
	Brand       pack.Brand     `json:"brand" yaml:"brand"`
	Slots       map[string]int `json:"slots" yaml:"slots"`
	Categories  []string       `json:"categories" yaml:"categories"`
	Templates   map[string]int `json:"templates" yaml:"templates"`
	Warnings    []string       `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

func describePack(p *pack.Pack) packInfo {
	info := packInfo{
		Name:        p.Name,
		Description: p.Description,
		Domain:      p.Domain,
		Language:    p.Language,
		Brand:       p.Brand,
		Slots:       make(map[string]int, len(p.Slots)),
		Templates:   make(map[string]int, 9),
		Warnings:    p.Lint(),
	}
	for name, values := range p.Slots {
		info.Slots[name] = len(values)
	}
	for _, c := range p.Categories {
		info.Categories = append(info.Categories, c.Label)
	}
	for _, c := range pack.AllCells() {
		ts, _ := p.Cell(c.Intent, c.Difficulty)
		info.Templates[c.String()] = len(ts)
	}
	return info
}

func newRegistry() (*pack.Registry, error) {
	dir := cfgManager.Get().Generation.PacksDir
	if dir == "" {
		dir = homeDirectory.PacksDir()
	}
	return pack.NewRegistry(dir, logger)
}

var packsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List embedded and user packs",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := newRegistry()
		if err != nil {
			return err
		}
		return output.Print(packList(reg.List()))
	},
}

var packsShowCmd = &cobra.Command{
	Use:   "show <name|path>",
	Short: "Show a pack's vocabulary and template counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := newRegistry()
		if err != nil {
			return err
		}
		p, err := reg.Load(args[0])
		if err != nil {
			return err
		}
		return output.Print(describePack(p))
	},
}

var packsValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a pack file against the schema and its templates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := pack.LoadFile(args[0])
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		info := describePack(p)
		for _, w := range info.Warnings {
			logger.Warn("pack lint", "pack", p.Name, "warning", w)
		}
		return output.Print(info)
	},
}

func init() {
	packsCmd.AddCommand(packsListCmd)
	packsCmd.AddCommand(packsShowCmd)
	packsCmd.AddCommand(packsValidateCmd)

	rootCmd.AddCommand(packsCmd)
}
