// Package cli implements the ahpgraph commands on top of the devicegraph
// packages. cmd/ahpgraph only parses flags.
package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/devicegraph/pkg/datasheet"
	"github.com/aretw0/devicegraph/pkg/graph"
	"github.com/aretw0/devicegraph/pkg/loader"
)

// Options are the settings shared by every command.
type Options struct {
	// Path is the architecture file.
	Path string
	// Datasheets overlay the datasheets the file names, in order.
	Datasheets []string
	// Ranks is the number of ranks the graph is split over.
	Ranks int
	// Rank selects one rank; a negative rank means all of them.
	Rank int
}

// Project is a parsed architecture file. Each call to Graph builds a fresh
// graph, since a compiled graph only serves one rank.
type Project struct {
	Name string

	doc    *loader.Document
	dir    string
	sheets datasheet.Datasheet
}

// Open parses the architecture file and the extra datasheets of opts.
func Open(opts Options) (*Project, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("no architecture file given")
	}
	doc, err := loader.ParseFile(opts.Path)
	if err != nil {
		return nil, err
	}

	var sheets datasheet.Datasheet
	for _, p := range opts.Datasheets {
		ds, err := datasheet.Load(p)
		if err != nil {
			return nil, err
		}
		sheets = datasheet.Merge(sheets, ds)
	}

	name := doc.Name
	if name == "" {
		base := filepath.Base(opts.Path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return &Project{
		Name:   name,
		doc:    doc,
		dir:    filepath.Dir(opts.Path),
		sheets: sheets,
	}, nil
}

// ProgramOptions returns the program options declared by the file.
func (p *Project) ProgramOptions() map[string]any {
	return p.doc.ProgramOptions
}

// Graph builds a new graph from the file.
func (p *Project) Graph(opts ...graph.Option) (*graph.DeviceGraph, error) {
	return p.doc.Build(
		loader.WithBaseDir(p.dir),
		loader.WithDatasheet(p.sheets),
		loader.WithGraphOptions(opts...),
	)
}
