// Package jmdict reads the JMdict_e XML distribution and flattens each entry
// into the compact shape the dictionary store keeps: one expression, one
// reading, up to three glosses, a part-of-speech tag, and a commonness flag.
package jmdict

import (
	"bufio"
	"compress/gzip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jusunglee/kanadeck/internal/dict"
)

const maxGlosses = 3

type kEle struct {
	Keb   string   `xml:"keb"`
	KePri []string `xml:"ke_pri"`
}

type rEle struct {
	Reb   string   `xml:"reb"`
	RePri []string `xml:"re_pri"`
}

type sense struct {
	Pos   []string `xml:"pos"`
	Gloss []string `xml:"gloss"`
}

type xmlEntry struct {
	EntSeq int64   `xml:"ent_seq"`
	KEle   []kEle  `xml:"k_ele"`
	REle   []rEle  `xml:"r_ele"`
	Sense  []sense `xml:"sense"`
}

// Open opens a JMdict file, transparently ungzipping when the file starts
// with the gzip magic bytes (the distribution ships both ways, sometimes
// without an extension).
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	br := bufio.NewReader(f)
	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		f.Close()
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("ungzipping %s: %w", path, err)
		}
		return &gzipReadCloser{gz: gz, f: f}, nil
	}

	return &plainReadCloser{r: br, f: f}, nil
}

type gzipReadCloser struct {
	gz *gzip.Reader
	f  *os.File
}

func (g *gzipReadCloser) Read(p []byte) (int, error) { return g.gz.Read(p) }
func (g *gzipReadCloser) Close() error {
	g.gz.Close()
	return g.f.Close()
}

type plainReadCloser struct {
	r *bufio.Reader
	f *os.File
}

func (p *plainReadCloser) Read(b []byte) (int, error) { return p.r.Read(b) }
func (p *plainReadCloser) Close() error               { return p.f.Close() }

// Parse streams <entry> elements from r, calling fn for each usable entry.
// Entries with no ent_seq or with neither kanji nor reading are skipped,
// never fatal. fn returning an error stops the stream.
func Parse(r io.Reader, fn func(dict.Entry) error) error {
	d := xml.NewDecoder(r)
	// JMdict declares its part-of-speech entities in an inline DTD, which
	// encoding/xml does not read. Non-strict mode keeps them as literal
	// &name; text, cleaned up in flatten.
	d.Strict = false

	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading XML token: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "entry" {
			continue
		}

		var xe xmlEntry
		if err := d.DecodeElement(&xe, &start); err != nil {
			return fmt.Errorf("decoding entry: %w", err)
		}

		entry, ok := flatten(xe)
		if !ok {
			continue
		}
		if err := fn(entry); err != nil {
			return err
		}
	}
}

func flatten(xe xmlEntry) (dict.Entry, bool) {
	if xe.EntSeq == 0 {
		return dict.Entry{}, false
	}

	e := dict.Entry{EntSeq: xe.EntSeq}

	if len(xe.REle) > 0 {
		e.Reading = xe.REle[0].Reb
	}
	if len(xe.KEle) > 0 {
		e.Expression = xe.KEle[0].Keb
	} else {
		// Kana-only entry: the reading doubles as the written form.
		e.Expression = e.Reading
	}
	if e.Expression == "" {
		return dict.Entry{}, false
	}

	for _, s := range xe.Sense {
		for _, g := range s.Gloss {
			if g == "" {
				continue
			}
			e.Glosses = append(e.Glosses, g)
			if len(e.Glosses) == maxGlosses {
				break
			}
		}
		if len(e.Glosses) == maxGlosses {
			break
		}
	}

	for _, s := range xe.Sense {
		if len(s.Pos) > 0 {
			e.Pos = cleanEntity(s.Pos[0])
			break
		}
	}

	for _, k := range xe.KEle {
		if len(k.KePri) > 0 {
			e.Common = true
		}
	}
	for _, r := range xe.REle {
		if len(r.RePri) > 0 {
			e.Common = true
		}
	}

	return e, true
}

// cleanEntity turns an unexpanded "&n;" into "n". Already-plain text is
// returned as-is.
func cleanEntity(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "&")
	s = strings.TrimSuffix(s, ";")
	return s
}
