package playlist

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ChadFarrow/greatesthits/internal/errors"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Channel holds the fixed metadata of the generated playlist.
type Channel struct {
	Author      string
	Title       string
	Description string
	Link        string
	// SourceFeed is emitted as <podcast:txt purpose="source-feed">. Empty
	// falls back to Link.
	SourceFeed string
	Language   string
	ImageURL   string
	Medium     string
}

// Writer serializes FrequencyGroups as a musicL RSS document.
type Writer struct {
	Channel Channel
	// Clock supplies pubDate and lastBuildDate.
	Clock clockwork.Clock
	// NewID supplies the podcast:guid of the document.
	NewID func() string
}

// NewWriter returns a Writer using the wall clock and random v4 UUIDs.
func NewWriter(ch Channel) *Writer {
	return &Writer{
		Channel: ch,
		Clock:   clockwork.NewRealClock(),
		NewID:   uuid.NewString,
	}
}

const podcastPrefix = "podcast:"

func name(local string) xml.Name {
	return xml.Name{Local: local}
}

func podcastName(local string) xml.Name {
	return xml.Name{Local: podcastPrefix + local}
}

// tokenWriter keeps the first encoding error so element helpers stay terse.
type tokenWriter struct {
	enc *xml.Encoder
	err error
}

func (w *tokenWriter) token(t xml.Token) {
	if w.err != nil {
		return
	}
	w.err = w.enc.EncodeToken(t)
}

func (w *tokenWriter) start(n xml.Name, attrs ...xml.Attr) {
	w.token(xml.StartElement{Name: n, Attr: attrs})
}

func (w *tokenWriter) end(n xml.Name) {
	w.token(xml.EndElement{Name: n})
}

func (w *tokenWriter) text(n xml.Name, value string, attrs ...xml.Attr) {
	w.start(n, attrs...)
	w.token(xml.CharData(value))
	w.end(n)
}

func attr(key, value string) xml.Attr {
	return xml.Attr{Name: name(key), Value: value}
}

// Encode writes the playlist for groups to out: channel metadata, then for
// each play count (highest first) a playcount marker followed by its remote
// items.
func (w *Writer) Encode(out io.Writer, groups FrequencyGroups) error {
	if _, err := io.WriteString(out, xml.Header); err != nil {
		return err
	}

	enc := xml.NewEncoder(out)
	enc.Indent("", "  ")
	tw := &tokenWriter{enc: enc}

	ch := w.Channel
	sourceFeed := ch.SourceFeed
	if sourceFeed == "" {
		sourceFeed = ch.Link
	}
	built := w.Clock.Now().UTC().Format(time.RFC1123Z)

	rss := name("rss")
	channel := name("channel")
	tw.start(rss, attr("version", "2.0"), attr("xmlns:podcast", PodcastNamespace))
	tw.start(channel)

	tw.text(name("author"), ch.Author)
	tw.text(name("title"), ch.Title)
	tw.text(name("description"), ch.Description)
	tw.text(name("link"), ch.Link)
	tw.text(podcastName("txt"), sourceFeed, attr("purpose", "source-feed"))
	tw.text(name("language"), ch.Language)
	tw.text(name("pubDate"), built)
	tw.text(name("lastBuildDate"), built)

	image := name("image")
	tw.start(image)
	tw.text(name("url"), ch.ImageURL)
	tw.end(image)

	tw.text(podcastName("medium"), ch.Medium)
	tw.text(podcastName("guid"), w.NewID())

	remoteItem := podcastName("remoteItem")
	for _, level := range groups.Levels() {
		tw.text(podcastName("txt"), playCountLabel(level), attr("purpose", "playcount"))
		for _, p := range groups[level] {
			tw.start(remoteItem, attr("feedGuid", p.FeedGUID), attr("itemGuid", p.ItemGUID))
			tw.end(remoteItem)
		}
	}

	tw.end(channel)
	tw.end(rss)

	if tw.err != nil {
		return tw.err
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(out, "\n")
	return err
}

func playCountLabel(count int) string {
	return strconv.Itoa(count) + " plays"
}

// WriteFile encodes groups and replaces path with the result. Parent
// directories are created as needed. The file is written to a temporary
// sibling first so a failed run never leaves a truncated playlist behind.
func (w *Writer) WriteFile(path string, groups FrequencyGroups) error {
	var buf bytes.Buffer
	if err := w.Encode(&buf, groups); err != nil {
		return errors.NewOutputError(path, fmt.Errorf("encode: %w", err))
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.NewOutputError(path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.NewOutputError(path, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return errors.NewOutputError(path, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.NewOutputError(path, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return errors.NewOutputError(path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return errors.NewOutputError(path, err)
	}
	return nil
}
