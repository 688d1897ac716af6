package view

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
	"gopkg.in/yaml.v3"

	"github.com/cafeteria/portal-system/internal/core/domain"
	"github.com/cafeteria/portal-system/internal/core/ports"
)

var _ ports.ViewLoader = (*Loader)(nil)

// description is the on-disk shape of a view.
type description struct {
	Title      string   `yaml:"title"`
	Controller string   `yaml:"controller"`
	Body       string   `yaml:"body"`
	Links      []string `yaml:"links"`
}

// Loader builds views from YAML descriptions stored in an fs.FS.
//
// Layout: <name>.yaml for the general portal, admin/<name>.yaml and
// student/<name>.yaml for the scoped ones.
type Loader struct {
	fsys     fs.FS
	registry *Registry
	md       goldmark.Markdown
	log      zerolog.Logger
}

func NewLoader(fsys fs.FS, registry *Registry, log zerolog.Logger) *Loader {
	return &Loader{
		fsys:     fsys,
		registry: registry,
		// Raw HTML in a body is escaped, never passed through.
		md: goldmark.New(
			goldmark.WithExtensions(extension.Table),
			goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps()),
		),
		log: log,
	}
}

// Load reads, parses and renders the description of name and instantiates
// its controller.
func (l *Loader) Load(_ context.Context, portal domain.Portal, name string) (ports.View, error) {
	p, err := Path(portal, name)
	if err != nil {
		return ports.View{}, err
	}

	raw, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ports.View{}, fmt.Errorf("%w: %s", domain.ErrViewNotFound, p)
		}
		return ports.View{}, fmt.Errorf("read %s: %w", p, err)
	}

	desc, err := parse(raw)
	if err != nil {
		return ports.View{}, fmt.Errorf("%w: %s: %v", domain.ErrMalformedView, p, err)
	}

	var body bytes.Buffer
	if err := l.md.Convert([]byte(desc.Body), &body); err != nil {
		return ports.View{}, fmt.Errorf("%w: %s: render body: %v", domain.ErrMalformedView, p, err)
	}

	var ctrl any
	if desc.Controller != "" {
		if ctrl, err = l.registry.New(desc.Controller); err != nil {
			return ports.View{}, err
		}
	}

	l.log.Debug().Str("portal", string(portal)).Str("view", name).Str("controller", desc.Controller).Msg("view built")
	return ports.View{
		Name:       name,
		Scene:      ports.Scene{Title: desc.Title, HTML: body.String()},
		Controller: ctrl,
		Links:      desc.Links,
	}, nil
}

// Path maps a view name to its description file. Names must be a single,
// non-empty path element.
func Path(portal domain.Portal, name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || !fs.ValidPath(name) {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidViewName, name)
	}
	return path.Join(portal.ResourceDir(), name+".yaml"), nil
}

func parse(raw []byte) (description, error) {
	var desc description
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&desc); err != nil {
		if errors.Is(err, io.EOF) {
			return description{}, errors.New("empty description")
		}
		return description{}, err
	}
	if strings.TrimSpace(desc.Title) == "" {
		return description{}, errors.New("missing title")
	}
	for _, link := range desc.Links {
		if _, err := Path(domain.PortalGeneral, link); err != nil {
			return description{}, fmt.Errorf("link: %w", err)
		}
	}
	return desc, nil
}
