package sitemeta

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func TestExtractMetaPrefersOpenGraph(t *testing.T) {
	doc := docFromHTML(t, `<html><head>
		<title>Fallback Title</title>
		<meta property="og:title" content="Clean Water Fund">
		<meta property="og:description" content="Bringing wells to remote villages.">
		<meta name="description" content="fallback description">
	</head><body></body></html>`)

	meta := extractMeta(doc)
	if meta.Title != "Clean Water Fund" {
		t.Errorf("title = %q, want og:title", meta.Title)
	}
	if meta.Description != "Bringing wells to remote villages." {
		t.Errorf("description = %q, want og:description", meta.Description)
	}
}

func TestExtractMetaFallsBack(t *testing.T) {
	doc := docFromHTML(t, `<html><head>
		<title>  Shelter Aid  </title>
		<meta name="description" content="Housing support programs.">
	</head><body></body></html>`)

	meta := extractMeta(doc)
	if meta.Title != "Shelter Aid" {
		t.Errorf("title = %q, want trimmed <title>", meta.Title)
	}
	if meta.Description != "Housing support programs." {
		t.Errorf("description = %q, want meta description", meta.Description)
	}
}

func TestExtractMetaTruncatesLongValues(t *testing.T) {
	long := strings.Repeat("a", 1000)
	doc := docFromHTML(t, `<html><head><title>`+long+`</title>
		<meta name="description" content="`+long+`"></head></html>`)

	meta := extractMeta(doc)
	if len(meta.Title) != maxTitleLen {
		t.Errorf("title length = %d, want %d", len(meta.Title), maxTitleLen)
	}
	if len(meta.Description) != maxDescriptionLen {
		t.Errorf("description length = %d, want %d", len(meta.Description), maxDescriptionLen)
	}
}

func TestExtractMetaEmptyDocument(t *testing.T) {
	doc := docFromHTML(t, `<html><head></head><body></body></html>`)
	meta := extractMeta(doc)
	if meta.Title != "" || meta.Description != "" {
		t.Errorf("expected empty meta, got %+v", meta)
	}
}
