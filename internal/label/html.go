package label

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/erazemk/skrinja/internal/imaging"
	"github.com/erazemk/skrinja/web"
)

// Page templates, each rendered inside layout.html.
const (
	pageLabel = "label.html"
	pageSheet = "sheet.html"
)

// Templates holds the parsed HTML label templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"instructions": func() string { return Instructions },
	}
}

// LoadTemplates parses every page template together with the layout and the
// shared label card.
func LoadTemplates() (*Templates, error) {
	tfs := web.TemplatesFS()

	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}
	cardBytes, err := fs.ReadFile(tfs, "card.html")
	if err != nil {
		return nil, fmt.Errorf("reading card template: %w", err)
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range []string{pageLabel, pageSheet} {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		for _, src := range [][]byte{layoutBytes, cardBytes, pageBytes} {
			if tmpl, err = tmpl.Parse(string(src)); err != nil {
				return nil, fmt.Errorf("parsing template %s: %w", page, err)
			}
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render executes a page template with the given data.
func (ts *Templates) Render(w io.Writer, name string, data any) error {
	tmpl, ok := ts.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	return nil
}

// pageData is passed to the page templates.
type pageData struct {
	Title  string
	Labels []cardData
}

type cardData struct {
	Label
	// Image is a PNG data URI of the QR code.
	Image template.URL
}

// WriteHTML writes a standalone HTML document for one label. The QR code is
// rendered at size pixels and inlined.
func (ts *Templates) WriteHTML(w io.Writer, l Label, size int) error {
	card, err := newCard(l, size)
	if err != nil {
		return err
	}
	return ts.Render(w, pageLabel, pageData{Title: l.Name, Labels: []cardData{card}})
}

// WriteSheetHTML writes one HTML document holding every label.
func (ts *Templates) WriteSheetHTML(w io.Writer, labels []Label, size int) error {
	data := pageData{Title: "Container labels"}
	for _, l := range labels {
		card, err := newCard(l, size)
		if err != nil {
			return err
		}
		data.Labels = append(data.Labels, card)
	}
	return ts.Render(w, pageSheet, data)
}

func newCard(l Label, size int) (cardData, error) {
	png, err := imaging.RenderQR(l.Payload, size)
	if err != nil {
		return cardData{}, fmt.Errorf("rendering QR code for %s: %w", l.ContainerID, err)
	}
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	return cardData{Label: l, Image: template.URL(uri)}, nil
}
