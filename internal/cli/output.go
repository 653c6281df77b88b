package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/TimurManjosov/rulesetweekly/internal/publisher"
	"github.com/TimurManjosov/rulesetweekly/internal/rules"
	"github.com/TimurManjosov/rulesetweekly/internal/ruleset"
	"github.com/TimurManjosov/rulesetweekly/internal/snapshot"
	"github.com/TimurManjosov/rulesetweekly/internal/technique"
)

// OutputFormat specifies the output format for CLI commands
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// Printer writes command results in one format.
type Printer struct {
	W      io.Writer
	Format OutputFormat
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer, format OutputFormat) *Printer {
	return &Printer{W: w, Format: format}
}

func (p *Printer) structured(data interface{}, table func() error) error {
	switch p.Format {
	case FormatJSON:
		return p.printJSON(data)
	case FormatYAML:
		return p.printYAML(data)
	case FormatTable:
		return table()
	default:
		return fmt.Errorf("unsupported format: %s", p.Format)
	}
}

// PrintSnapshot outputs a resolved ruleset with its metadata.
func (p *Printer) PrintSnapshot(s *snapshot.Snapshot) error {
	return p.structured(s, func() error {
		fmt.Fprintf(p.W, "%s (%s, base %s, seed %d)\n", s.DisplayName, s.Kind, s.BaseID, s.Seed)
		table := tablewriter.NewWriter(p.W)
		table.Header("Technique", "Legality")
		for _, e := range s.Ruleset.Entries() {
			table.Append(string(e.Technique), e.Legality.String())
		}
		return table.Render()
	})
}

// PrintHistory outputs stored snapshot summaries.
func (p *Printer) PrintHistory(list []snapshot.Summary) error {
	return p.structured(map[string][]snapshot.Summary{"snapshots": list}, func() error {
		table := tablewriter.NewWriter(p.W)
		table.Header("ID", "Kind", "Name", "Day", "ETag", "Created At")
		for _, s := range list {
			table.Append(
				s.ID,
				string(s.Kind),
				s.DisplayName,
				strconv.FormatInt(s.Day, 10),
				s.ETag,
				s.CreatedAt.Format("2006-01-02 15:04"),
			)
		}
		return table.Render()
	})
}

// PrintComparisons outputs subject next to every compared base. In table form a base
// cell is marked with "*" where it differs from the subject.
func (p *Printer) PrintComparisons(subject string, comparisons []publisher.Comparison) error {
	data := struct {
		Subject     string                 `json:"subject" yaml:"subject"`
		Comparisons []publisher.Comparison `json:"comparisons" yaml:"comparisons"`
	}{subject, comparisons}

	return p.structured(data, func() error {
		if len(comparisons) == 0 {
			return nil
		}
		header := []any{"Technique", subject}
		for _, c := range comparisons {
			header = append(header, c.Name)
		}

		table := tablewriter.NewWriter(p.W)
		table.Header(header...)
		for i, row := range comparisons[0].Rows {
			cells := []any{string(row.Technique), row.Subject.String()}
			for _, c := range comparisons {
				r := c.Rows[i]
				cell := r.Comparison.String()
				if !r.Same {
					cell += " *"
				}
				cells = append(cells, cell)
			}
			table.Append(cells...)
		}

		footer := []any{"Changed", ""}
		for _, c := range comparisons {
			footer = append(footer, strconv.Itoa(c.Changed))
		}
		table.Footer(footer...)
		return table.Render()
	})
}

// PrintTechniques outputs the technique catalogue in draw order.
func (p *Printer) PrintTechniques() error {
	return p.structured(map[string][]string{"techniques": technique.Names()}, func() error {
		table := tablewriter.NewWriter(p.W)
		table.Header("#", "Technique")
		for i, name := range technique.Names() {
			table.Append(strconv.Itoa(i+1), name)
		}
		return table.Render()
	})
}

type baseView struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Allowed     int             `json:"allowed" yaml:"allowed"`
	Disallowed  int             `json:"disallowed" yaml:"disallowed"`
	Unspecified int             `json:"unspecified" yaml:"unspecified"`
	Ruleset     ruleset.Ruleset `json:"ruleset" yaml:"ruleset"`
}

// PrintBases outputs the base rulesets with their legality counts.
func (p *Printer) PrintBases(bases []ruleset.Base) error {
	views := make([]baseView, 0, len(bases))
	for _, b := range bases {
		views = append(views, baseView{
			ID:          b.ID,
			Name:        b.Ruleset.Name(),
			Allowed:     b.Ruleset.Count(rules.Allowed),
			Disallowed:  b.Ruleset.Count(rules.Disallowed),
			Unspecified: b.Ruleset.Count(rules.Unspecified),
			Ruleset:     b.Ruleset,
		})
	}

	return p.structured(map[string][]baseView{"bases": views}, func() error {
		table := tablewriter.NewWriter(p.W)
		table.Header("ID", "Name", "Allowed", "Disallowed", "Unspecified")
		for _, v := range views {
			table.Append(v.ID, v.Name, strconv.Itoa(v.Allowed), strconv.Itoa(v.Disallowed), strconv.Itoa(v.Unspecified))
		}
		return table.Render()
	})
}

// PrintSupplemental outputs the supplemental rulings.
func (p *Printer) PrintSupplemental(rulings []ruleset.Ruling) error {
	return p.structured(map[string][]ruleset.Ruling{"supplemental": rulings}, func() error {
		table := tablewriter.NewWriter(p.W)
		table.Header("Ruling", "Legality")
		for _, r := range rulings {
			table.Append(r.Name, r.Legality.String())
		}
		return table.Render()
	})
}

func (p *Printer) printJSON(data interface{}) error {
	encoder := json.NewEncoder(p.W)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func (p *Printer) printYAML(data interface{}) error {
	encoder := yaml.NewEncoder(p.W)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(data)
}
