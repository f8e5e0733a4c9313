// Package render writes the aggregated, already-ordered source groups as a
// markdown report or as JSON. It performs no sorting of its own; groups
// arrive in final display order from the pipeline.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/explorastur/explorastur/internal/pipeline"
)

// Format specifies the output document format.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
)

// Document bundles everything the renderers need.
type Document struct {
	Title       string                 `json:"title"`
	GeneratedAt time.Time              `json:"generated_at"`
	Groups      []pipeline.SourceGroup `json:"groups"`
}

// Write renders the document in the requested format.
func Write(w io.Writer, doc Document, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, doc)
	case FormatMarkdown:
		return writeMarkdown(w, doc)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func writeMarkdown(w io.Writer, doc Document) error {
	fmt.Fprintf(w, "# %s\n\n", doc.Title)
	fmt.Fprintf(w, "_Actualizado: %s_\n\n", doc.GeneratedAt.Format("02/01/2006"))

	total := 0
	for _, group := range doc.Groups {
		fmt.Fprintf(w, "## %s\n\n", group.Name)
		if len(group.Events) == 0 {
			fmt.Fprintf(w, "_Sin eventos._\n\n")
			continue
		}
		for _, evt := range group.Events {
			if evt.Time != "" {
				fmt.Fprintf(w, "- **%s** - %s (%s)\n", evt.Title, evt.DateText, evt.Time)
			} else {
				fmt.Fprintf(w, "- **%s** - %s\n", evt.Title, evt.DateText)
			}
			if evt.Location != "" {
				fmt.Fprintf(w, "  - Lugar: %s\n", evt.Location)
			}
			if evt.URL != "" {
				fmt.Fprintf(w, "  - Link: %s\n", evt.URL)
			}
		}
		fmt.Fprintln(w)
		total += len(group.Events)
	}

	fmt.Fprintf(w, "_%d eventos en %d fuentes._\n", total, len(doc.Groups))
	return nil
}
