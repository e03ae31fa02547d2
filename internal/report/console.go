package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ChadFarrow/greatesthits/internal/errors"
	"github.com/ChadFarrow/greatesthits/internal/playlist"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// Format selects how statistics are printed.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ValidFormats returns the accepted format names.
func ValidFormats() []string {
	return []string{string(FormatText), string(FormatJSON), string(FormatYAML)}
}

// ParseFormat validates a format name. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want one of: %s)",
			errors.ErrInvalidInput, s, strings.Join(ValidFormats(), ", "))
	}
}

// Console prints progress diagnostics and statistics for a run.
// Progress lines go to diag; statistics go to out in the chosen format.
type Console struct {
	out     io.Writer
	diag    io.Writer
	format  Format
	styled  bool
	numbers *message.Printer
}

var _ playlist.Progress = (*Console)(nil)

// ConsoleOptions configures a Console.
type ConsoleOptions struct {
	Out io.Writer
	// Diag receives progress lines. Nil uses Out.
	Diag   io.Writer
	Format Format
	// Styled enables ANSI colors; callers enable it for terminals only.
	Styled bool
}

// NewConsole creates a Console.
func NewConsole(opts ConsoleOptions) *Console {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Diag == nil {
		opts.Diag = opts.Out
	}
	if opts.Format == "" {
		opts.Format = FormatText
	}
	return &Console{
		out:     opts.Out,
		diag:    opts.Diag,
		format:  opts.Format,
		styled:  opts.Styled,
		numbers: message.NewPrinter(language.English),
	}
}

// Processing announces how many playlists will be read.
func (c *Console) Processing(n int) {
	fmt.Fprintf(c.diag, "Processing %d musicL playlists...\n\n", n)
}

// SourceRead implements playlist.Progress.
func (c *Console) SourceRead(name string, songs int) {
	fmt.Fprintf(c.diag, "  %s %s: %d songs\n", c.paint(successStyle, "✓"), name, songs)
}

// SourceFailed implements playlist.Progress.
func (c *Console) SourceFailed(name string, err error) {
	mark := c.paint(errorStyle, "✗")
	if errors.Is(err, errors.ErrSourceNotFound) {
		fmt.Fprintf(c.diag, "  %s %s: File not found\n", mark, name)
		return
	}
	fmt.Fprintf(c.diag, "  %s Error parsing %s: %v\n", mark, name, rootCause(err))
}

// rootCause strips the SourceError wrapper so the path is not repeated.
func rootCause(err error) error {
	var srcErr *errors.SourceError
	if errors.As(err, &srcErr) {
		return srcErr.Err
	}
	return err
}

// NoSongs explains that nothing was found and no playlist will be written.
func (c *Console) NoSongs(dir string) {
	if dir == "" {
		dir = "the source"
	}
	fmt.Fprintf(c.diag, "\n%s No songs found. Check that playlist files exist in %s directory.\n",
		c.paint(errorStyle, "✗"), dir)
}

// Generated reports the written output file.
func (c *Console) Generated(path string) {
	fmt.Fprintf(c.diag, "\nGenerated: %s\n", path)
}

// DryRun reports that path was not written.
func (c *Console) DryRun(path string) {
	fmt.Fprintf(c.diag, "\n%s dry run: %s not written\n", c.paint(warningStyle, "!"), path)
}

// Complete prints the closing line of a successful run.
func (c *Console) Complete() {
	fmt.Fprintf(c.diag, "\n%s Greatest Hits playlist generation complete!\n", c.paint(successStyle, "✓"))
}

// Stats prints s in the console's format.
func (c *Console) Stats(s Stats) error {
	switch c.format {
	case FormatJSON:
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case FormatYAML:
		enc := yaml.NewEncoder(c.out)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	default:
		c.printText(s)
		return nil
	}
}

func (c *Console) printText(s Stats) {
	n := func(v int) string { return c.numbers.Sprintf("%d", v) }

	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "Total song references: %s\n", n(s.TotalReferences))
	fmt.Fprintf(c.out, "Unique songs: %s\n", n(s.UniqueSongs))
	fmt.Fprintf(c.out, "Songs with %d+ plays: %s\n", s.MinPlays, n(s.FilteredSongs))

	if s.FilteredSongs == 0 {
		return
	}
	fmt.Fprintf(c.out, "Frequency range: %d-%d plays\n", s.MinCount, s.MaxCount)

	fmt.Fprintf(c.out, "\n%s\n", c.paint(headerStyle, "Frequency Distribution:"))
	for _, b := range s.Distribution {
		if b.Songs == 0 {
			continue
		}
		fmt.Fprintf(c.out, "  %s plays: %s songs\n", b.Label, c.paint(mutedStyle, n(b.Songs)))
	}
}
