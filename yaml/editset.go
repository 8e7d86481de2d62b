// Package yaml parses edit sets written in YAML.
//
// An edit set looks like:
//
//	edits:
//	  - block: sec-1-text-1
//	    text: Summer sale
//	  - block: sec-1-link-1
//	    href: https://example.com/buy
//	assets:
//	  override:
//	    images/hero.png: ./new-hero.png
//	  add:
//	    images/badge.png: ./badge.png
package yaml

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/fwojciec/lpedit"
	"gopkg.in/yaml.v3"
)

type editSetDoc struct {
	Edits  []editDoc `yaml:"edits"`
	Assets struct {
		Override map[string]string `yaml:"override"`
		Add      map[string]string `yaml:"add"`
	} `yaml:"assets"`
}

type editDoc struct {
	Block string  `yaml:"block"`
	Text  *string `yaml:"text"`
	Href  *string `yaml:"href"`
	Src   *string `yaml:"src"`
	Alt   *string `yaml:"alt"`
}

// ParseEditSet decodes an edit set. Unknown keys and edits without a block
// ID yield EINVALID. An empty document is an empty edit set.
func ParseEditSet(r io.Reader) (*lpedit.EditSet, error) {
	var doc editSetDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, lpedit.Errorf(lpedit.EINVALID, "invalid edit set: %v", err)
	}

	set := &lpedit.EditSet{
		AssetOverrides: doc.Assets.Override,
		NewAssets:      doc.Assets.Add,
	}
	for i, e := range doc.Edits {
		if e.Block == "" {
			return nil, lpedit.Errorf(lpedit.EINVALID, "edit %d: block required", i+1)
		}
		set.Edits = append(set.Edits, lpedit.Edit{
			BlockID: e.Block,
			Text:    e.Text,
			Href:    e.Href,
			Src:     e.Src,
			Alt:     e.Alt,
		})
	}
	return set, nil
}

// ParseEditSetFile reads an edit set from path. Relative asset file paths
// are resolved against the directory holding the edit set.
// Returns ENOTFOUND if the file does not exist.
func ParseEditSetFile(path string) (*lpedit.EditSet, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, lpedit.Errorf(lpedit.ENOTFOUND, "edit set %q not found", path)
	} else if err != nil {
		return nil, err
	}
	defer f.Close()

	set, err := ParseEditSet(f)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	resolveLocal(set.AssetOverrides, dir)
	resolveLocal(set.NewAssets, dir)
	return set, nil
}

func resolveLocal(m map[string]string, dir string) {
	for k, p := range m {
		if !filepath.IsAbs(p) {
			m[k] = filepath.Join(dir, p)
		}
	}
}
