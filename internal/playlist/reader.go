package playlist

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ChadFarrow/greatesthits/internal/errors"
	"github.com/ChadFarrow/greatesthits/internal/logging"
	"golang.org/x/net/html/charset"
)

// PodcastNamespace is the Podcasting 2.0 namespace URI.
const PodcastNamespace = "https://podcastindex.org/namespace/1.0"

// legacyPodcastNamespace is the GitHub docs URL some older generated
// playlists declared for the podcast prefix.
const legacyPodcastNamespace = "https://github.com/Podcastindex-org/podcast-namespace/blob/main/docs/1.0.md"

// Decode extracts every podcast:remoteItem pair from r. Remote items may
// appear anywhere in the document. Items missing either GUID are skipped;
// repeated items are returned as many times as they occur.
//
// The document must have exactly one root element; anything but whitespace,
// comments or processing instructions outside it is an error. Non-UTF-8
// encodings are decoded according to the XML declaration.
func Decode(r io.Reader) ([]Pair, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var pairs []Pair
	depth := 0
	sawRoot := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 && sawRoot {
				return nil, fmt.Errorf("junk after document element: <%s>", t.Name.Local)
			}
			sawRoot = true
			depth++
			if !isRemoteItem(t.Name) {
				continue
			}
			if p := pairFromAttrs(t.Attr); p.Valid() {
				pairs = append(pairs, p)
			}
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				if sawRoot {
					return nil, fmt.Errorf("junk after document element")
				}
				return nil, fmt.Errorf("text before document element")
			}
		}
	}

	if !sawRoot {
		return nil, fmt.Errorf("no element found")
	}
	return pairs, nil
}

func isRemoteItem(name xml.Name) bool {
	if name.Local != "remoteItem" {
		return false
	}
	return name.Space == PodcastNamespace || name.Space == legacyPodcastNamespace
}

func pairFromAttrs(attrs []xml.Attr) Pair {
	var p Pair
	for _, attr := range attrs {
		if attr.Name.Space != "" {
			continue
		}
		switch attr.Name.Local {
		case "feedGuid":
			p.FeedGUID = attr.Value
		case "itemGuid":
			p.ItemGUID = attr.Value
		}
	}
	return p
}

// ReadFile returns the remote item pairs of the playlist at path.
// A missing file yields a SourceError wrapping ErrSourceNotFound, an
// unparseable one a SourceError wrapping ErrSourceMalformed. No pairs are
// returned on error.
func ReadFile(path string) ([]Pair, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewSourceError("open", path, errors.ErrSourceNotFound)
		}
		return nil, errors.NewSourceError("open", path, err)
	}
	defer f.Close()

	pairs, err := Decode(f)
	if err != nil {
		return nil, errors.NewSourceError("parse", path, fmt.Errorf("%w: %v", errors.ErrSourceMalformed, err))
	}
	return pairs, nil
}

// SourceResult records the outcome of reading one source playlist.
type SourceResult struct {
	Path  string
	Songs int
	Err   error
}

// Name is the file name shown in diagnostics.
func (r SourceResult) Name() string {
	return filepath.Base(r.Path)
}

// OK reports whether the source was read successfully.
func (r SourceResult) OK() bool {
	return r.Err == nil
}

// Progress receives one diagnostic per source as it is read.
type Progress interface {
	SourceRead(name string, songs int)
	SourceFailed(name string, err error)
}

type nopProgress struct{}

func (nopProgress) SourceRead(string, int)     {}
func (nopProgress) SourceFailed(string, error) {}

// Reader reads a list of source playlists, reporting on each one.
type Reader struct {
	progress Progress
	logger   *logging.Logger
}

// NewReader creates a Reader. Nil arguments disable the respective output.
func NewReader(progress Progress, logger *logging.Logger) *Reader {
	if progress == nil {
		progress = nopProgress{}
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Reader{progress: progress, logger: logger}
}

// ReadAll reads every path in order and returns the concatenation of their
// pairs. Failing sources contribute nothing and never stop the run.
func (r *Reader) ReadAll(paths []string) ([]Pair, []SourceResult) {
	var all []Pair
	results := make([]SourceResult, 0, len(paths))

	for _, path := range paths {
		pairs, err := ReadFile(path)
		res := SourceResult{Path: path, Songs: len(pairs), Err: err}
		results = append(results, res)

		log := r.logger.WithSource(path)
		if err != nil {
			log.Warn("source skipped", "error", err.Error())
			r.progress.SourceFailed(res.Name(), err)
			continue
		}

		log.Debug("source read", "songs", len(pairs))
		r.progress.SourceRead(res.Name(), len(pairs))
		all = append(all, pairs...)
	}

	return all, results
}
