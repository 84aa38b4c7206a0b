package catalog

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

const (
	nameWidth = 60
	rule      = "----------------"
)

// Print writes the track listing, marking current and showing its full path.
func (c *Catalog) Print(w io.Writer, current int) error {
	c.mu.RLock()
	entries := c.entries
	c.mu.RUnlock()

	var b strings.Builder
	b.WriteString("\n--- Playlist ---\n")
	if len(entries) == 0 {
		b.WriteString("No tracks found\n")
		b.WriteString(rule + "\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	for i, e := range entries {
		marker := "   "
		if i == current {
			marker = " > "
		}
		fmt.Fprintf(&b, "%s%2d: %s\n", marker, i+1, runewidth.Truncate(e.name, nameWidth, "…"))
		if i == current {
			fmt.Fprintf(&b, "     Path: %s\n", joinRoot(c.root, e.path))
		}
	}
	fmt.Fprintf(&b, "Total: %d tracks\n", len(entries))
	b.WriteString(rule + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// Summary describes the catalog size, e.g. "12 tracks, 48 MB".
func (c *Catalog) Summary() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var total uint64
	for _, e := range c.entries {
		if e.size > 0 {
			total += uint64(e.size)
		}
	}
	return fmt.Sprintf("%s tracks, %s", humanize.Comma(int64(len(c.entries))), humanize.Bytes(total))
}

func joinRoot(root, p string) string {
	if root == "" {
		return p
	}
	return strings.TrimSuffix(root, "/") + "/" + p
}
