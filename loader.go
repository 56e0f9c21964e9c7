package binalyzer

import (
	"net/http"
	"os"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/scigolib/binalyzer/internal/binder"
	"github.com/scigolib/binalyzer/internal/utils"
)

// FromString parses a template from an XML string and optionally binds
// it to dataPath (pass "" to leave it unbound). Grounded on
// original_source/binalyzer_template_provider/xml.py's
// XMLTemplateProviderExtension.from_str.
func FromString(xml string, dataPath string) (*Binalyzer, error) {
	doc, err := xmlquery.Parse(strings.NewReader(xml))
	if err != nil {
		return nil, utils.WrapError("parse template", err)
	}
	return fromDoc(doc, dataPath)
}

// FromFile parses a template from templatePath and optionally binds it
// to dataPath (pass "" to leave it unbound; a sibling data file is
// never inferred from templatePath, callers name it explicitly).
func FromFile(templatePath string, dataPath string) (*Binalyzer, error) {
	f, err := os.Open(templatePath)
	if err != nil {
		return nil, utils.WrapError("open template file", err)
	}
	defer f.Close()

	doc, err := xmlquery.Parse(f)
	if err != nil {
		return nil, utils.WrapError("parse template file", err)
	}
	return fromDoc(doc, dataPath)
}

// FromURL fetches a template document over HTTP(S) and optionally binds
// it to dataPath.
func FromURL(url string, dataPath string) (*Binalyzer, error) {
	resp, err := http.Get(url) //nolint:gosec,noctx // url is caller-provided, not derived from untrusted input here
	if err != nil {
		return nil, utils.WrapError("fetch template url", err)
	}
	defer resp.Body.Close()

	doc, err := xmlquery.Parse(resp.Body)
	if err != nil {
		return nil, utils.WrapError("parse template from url", err)
	}
	return fromDoc(doc, dataPath)
}

func fromDoc(doc *xmlquery.Node, dataPath string) (*Binalyzer, error) {
	root, err := binder.Bind(doc)
	if err != nil {
		return nil, utils.WrapError("bind template", err)
	}

	b := New()
	if err := b.SetTemplate(root); err != nil {
		return nil, err
	}

	if dataPath == "" {
		return b, nil
	}

	f, err := os.OpenFile(dataPath, os.O_RDWR, 0)
	if err != nil {
		return nil, utils.WrapError("open data file", err)
	}
	if err := b.SetData(NewFileStream(f)); err != nil {
		return nil, err
	}
	return b, nil
}
