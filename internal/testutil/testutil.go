// Package testutil provides testing utilities for greatesthits tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// RemoteItem is a podcast:remoteItem entry written into fixture playlists.
// Empty fields are omitted from the element.
type RemoteItem struct {
	Feed string
	Item string
}

// Item is shorthand for RemoteItem{Feed: feed, Item: item}.
func Item(feed, item string) RemoteItem {
	return RemoteItem{Feed: feed, Item: item}
}

// PlaylistXML renders a minimal musicL playlist containing items.
func PlaylistXML(title string, items ...RemoteItem) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sb.WriteString(`<rss version="2.0" xmlns:podcast="https://podcastindex.org/namespace/1.0">` + "\n")
	sb.WriteString("  <channel>\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", title)
	sb.WriteString("    <podcast:medium>musicL</podcast:medium>\n")
	for _, it := range items {
		sb.WriteString("    <podcast:remoteItem")
		if it.Feed != "" {
			fmt.Fprintf(&sb, ` feedGuid="%s"`, it.Feed)
		}
		if it.Item != "" {
			fmt.Fprintf(&sb, ` itemGuid="%s"`, it.Item)
		}
		sb.WriteString("/>\n")
	}
	sb.WriteString("  </channel>\n")
	sb.WriteString("</rss>\n")
	return sb.String()
}

// WritePlaylist writes a fixture playlist named name into dir and returns
// its path.
func WritePlaylist(t *testing.T, dir, name string, items ...RemoteItem) string {
	t.Helper()
	return WriteFile(t, dir, name, PlaylistXML(strings.TrimSuffix(name, ".xml"), items...))
}

// WriteFile writes content to dir/name, creating parent directories, and
// returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file %s: %v", name, err)
	}
	return path
}

// Chdir changes the working directory for the duration of the test.
func Chdir(t *testing.T, dir string) {
	t.Helper()

	original, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to change to %s: %v", dir, err)
	}
	t.Cleanup(func() {
		os.Chdir(original)
	})
}
