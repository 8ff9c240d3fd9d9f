// Command gen_snapshots_table refreshes the README gallery of integration
// test reference frames.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli"
)

const (
	startMarker = "<!-- SNAPSHOTS:START -->"
	endMarker   = "<!-- SNAPSHOTS:END -->"
)

type snapshot struct {
	Name    string
	Encoded string
}

func main() {
	app := cli.NewApp()
	app.Name = "gen_snapshots_table"
	app.Usage = "rewrite the snapshot table between the README markers"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "readme", Value: "README.md", Usage: "README file to update in place"},
		cli.StringFlag{Name: "snapshots", Value: filepath.Join("test", "integration", "testdata", "snapshots"), Usage: "Snapshots directory"},
		cli.IntFlag{Name: "cols", Value: 4, Usage: "Number of columns per row"},
		cli.IntFlag{Name: "width", Value: 128, Usage: "Image width in pixels"},
	}
	app.Action = func(c *cli.Context) error {
		items, err := listSnapshots(c.String("snapshots"))
		if err != nil {
			return err
		}
		readme := c.String("readme")
		content, err := os.ReadFile(readme)
		if err != nil {
			return fmt.Errorf("reading %s: %w", readme, err)
		}
		out, err := splice(string(content), buildTable(items, c.Int("cols"), c.Int("width")))
		if err != nil {
			return fmt.Errorf("%s: %w", readme, err)
		}
		slog.Info("Updated snapshot table", "readme", readme, "snapshots", len(items))
		return os.WriteFile(readme, []byte(out), 0o644)
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("gen_snapshots_table failed", "error", err)
		os.Exit(1)
	}
}

// listSnapshots returns the reference PNGs, skipping *_actual.png failure
// dumps.
func listSnapshots(dir string) ([]snapshot, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var items []snapshot
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.EqualFold(filepath.Ext(name), ".png") || strings.Contains(name, "_actual.") {
			continue
		}
		items = append(items, snapshot{Name: strings.TrimSuffix(name, filepath.Ext(name)), Encoded: url.PathEscape(name)})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func buildTable(items []snapshot, cols, width int) string {
	if cols <= 0 {
		cols = 3
	}

	var sb strings.Builder
	sb.WriteString("<table>\n")
	for i := 0; i < len(items); i += cols {
		sb.WriteString("  <tr>\n")
		for c := 0; c < cols; c++ {
			if i+c >= len(items) {
				sb.WriteString("    <td></td>\n")
				continue
			}
			it := items[i+c]
			src := path.Join("test", "integration", "testdata", "snapshots", it.Encoded)
			fmt.Fprintf(&sb, "    <td align=\"center\"><img src=\"%s\" width=\"%d\" style=\"image-rendering:pixelated\" /><br><sub>%s</sub></td>\n", src, width, it.Name)
		}
		sb.WriteString("  </tr>\n")
	}
	sb.WriteString("</table>\n")
	return sb.String()
}

// splice replaces whatever sits between the markers with table.
func splice(content, table string) (string, error) {
	start := strings.Index(content, startMarker)
	end := strings.Index(content, endMarker)
	if start == -1 || end == -1 || end < start {
		return "", errors.New("snapshot markers not found")
	}

	var sb strings.Builder
	sb.WriteString(content[:start+len(startMarker)])
	sb.WriteString("\n")
	sb.WriteString(table)
	after := content[end:]
	if !strings.HasPrefix(after, "\n") && !strings.HasSuffix(table, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString(after)
	return sb.String(), nil
}
