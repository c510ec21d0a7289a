package dirres

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/berth-web/berth/pkg/media"
	"github.com/berth-web/berth/pkg/message"
	"github.com/berth-web/berth/pkg/ref"
	"github.com/berth-web/berth/pkg/store"
)

// listingTemplate renders the human-browsable directory page. Entry
// identifiers are relative, so the links resolve against the request
// URI.
var listingTemplate = template.Must(template.New("listing").Parse(`<!DOCTYPE html>
<html>
<head><title>Index of {{.Title}}</title></head>
<body>
<h1>Index of {{.Title}}</h1>
<ul>
{{- range .Entries}}
<li><a href="{{.}}">{{.}}</a></li>
{{- end}}
</ul>
</body>
</html>
`))

// serveListing renders the sorted directory listing in the negotiated
// variant. The reference list is built fresh for this request.
func (d *Directory) serveListing(conf *config, req *message.Request, resp *message.Response, entries []store.Entry) {
	list := ref.NewList(req.ResourceRef)
	for _, e := range entries {
		name := e.Name
		if e.Dir {
			name += "/"
		}
		list.Add(ref.New(name))
	}
	list.Sort(conf.comparator)

	variants := make([]media.Variant, 0, len(conf.indexVariants))
	for _, t := range conf.indexVariants {
		variants = append(variants, media.Variant{Type: t})
	}

	chosen := d.negotiator.Negotiate(variants, req.Accept)
	if chosen == nil {
		resp.SetStatus(message.StatusNotAcceptable)
		return
	}

	entity := indexRepresentation(chosen.Type, list)
	if entity == nil {
		// A requested type we offer no renderer for.
		resp.SetStatus(message.StatusNotAcceptable)
		return
	}
	resp.Entity = entity
	resp.SetStatus(message.StatusOK)
}

// indexRepresentation materializes a listing in the given media type.
// Unknown types yield nil, which the caller reports as not acceptable.
func indexRepresentation(t media.Type, list *ref.List) *media.Representation {
	switch t {
	case media.TypeHTML:
		return webRepresentation(list)
	case media.TypeURIList:
		return textRepresentation(list)
	default:
		return nil
	}
}

// webRepresentation renders the listing as an HTML page.
func webRepresentation(list *ref.List) *media.Representation {
	title := "/"
	if list.Identifier != nil {
		if p := list.Identifier.Path(); p != "" {
			title = p
		}
	}

	data := struct {
		Title   string
		Entries []string
	}{Title: title}
	for _, r := range list.All() {
		data.Entries = append(data.Entries, r.String())
	}

	var buf bytes.Buffer
	if err := listingTemplate.Execute(&buf, data); err != nil {
		return nil
	}
	return media.NewBytes(media.TypeHTML, buf.Bytes())
}

// textRepresentation renders the listing as a text/uri-list document,
// one URI per line.
func textRepresentation(list *ref.List) *media.Representation {
	var b strings.Builder
	for _, r := range list.All() {
		b.WriteString(r.String())
		b.WriteString("\r\n")
	}
	return media.NewBytes(media.TypeURIList, []byte(b.String()))
}
