package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/five82/kiosk/internal/app"
	"github.com/five82/kiosk/internal/catalog"
)

type listedRating struct {
	Rate  json.Number `json:"rate" yaml:"rate"`
	Count int         `json:"count" yaml:"count"`
}

type listedItem struct {
	ID          int           `json:"id" yaml:"id"`
	Title       string        `json:"title" yaml:"title"`
	Price       json.Number   `json:"price" yaml:"price"`
	Category    string        `json:"category,omitempty" yaml:"category,omitempty"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Image       string        `json:"image,omitempty" yaml:"image,omitempty"`
	Rating      *listedRating `json:"rating,omitempty" yaml:"rating,omitempty"`
}

func toListed(items []catalog.Item) []listedItem {
	out := make([]listedItem, 0, len(items))
	for _, it := range items {
		li := listedItem{
			ID:          it.ID,
			Title:       it.Title,
			Price:       json.Number(it.Price.String()),
			Category:    it.Category,
			Description: it.Description,
			Image:       it.Image,
		}
		if it.Rating != nil {
			li.Rating = &listedRating{Rate: json.Number(it.Rating.Rate.String()), Count: it.Rating.Count}
		}
		out = append(out, li)
	}
	return out
}

func newListCmd(root *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Fetch the catalog once and print it",
		Example: `  kiosk list
  kiosk list --format json | jq '.[].title'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			render, ok := listRenderers[format]
			if !ok {
				return fmt.Errorf("unsupported format %q (want table, json or yaml)", format)
			}

			session, err := app.Open(root.appOptions())
			if err != nil {
				return err
			}
			defer func() {
				if cerr := session.Close(); cerr != nil && err == nil {
					err = cerr
				}
			}()

			if err := session.Catalog.FetchAll(cmd.Context()); err != nil {
				return fmt.Errorf("list catalog: %w", err)
			}
			return render(cmd.OutOrStdout(), session.Catalog.Items())
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json or yaml")

	return cmd
}

var listRenderers = map[string]func(io.Writer, []catalog.Item) error{
	"table": writeTable,
	"json":  writeJSON,
	"yaml":  writeYAML,
}

func writeJSON(w io.Writer, items []catalog.Item) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toListed(items))
}

func writeYAML(w io.Writer, items []catalog.Item) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toListed(items)); err != nil {
		return err
	}
	return enc.Close()
}

func writeTable(w io.Writer, items []catalog.Item) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "PRICE", "RATING", "CATEGORY")
	for _, it := range items {
		rating := "-"
		if it.Rating != nil {
			rating = it.Rating.Rate.StringFixed(1) + " (" + strconv.Itoa(it.Rating.Count) + ")"
		}
		t.Row(strconv.Itoa(it.ID), it.Title, it.Price.StringFixed(2), rating, it.Category)
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
