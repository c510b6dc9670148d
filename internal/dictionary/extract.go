package dictionary

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Extractor turns a raw word page into translation entries. Pages without
// matching blocks yield an empty result and no error.
type Extractor interface {
	Extract(page []byte) ([]Entry, error)
}

func parsePage(page []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}
	return doc, nil
}

// nodeText concatenates the text nodes below node.
func nodeText(node *html.Node) string {
	var buffer bytes.Buffer
	nodeTextRecursive(node, &buffer)
	return buffer.String()
}

func nodeTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		nodeTextRecursive(child, buffer)
	}
}

func firstText(sel *goquery.Selection, selector string) (string, bool) {
	found := sel.Find(selector).First()
	if found.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(found.Text()), true
}

// PairExtractor reads the flat (part of speech, translation) blocks of the
// English to German pages. Blocks are the divs carrying Class.
type PairExtractor struct {
	Class string
}

func (x PairExtractor) Extract(page []byte) ([]Entry, error) {
	if len(bytes.TrimSpace(page)) == 0 {
		return nil, nil
	}

	doc, err := parsePage(page)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	doc.Find("div." + x.Class).Each(func(_ int, block *goquery.Selection) {
		label, ok := firstText(block, "span.pos")
		if !ok {
			slog.Debug("skipping block without part of speech", "class", x.Class)
			return
		}
		translation, ok := firstText(block, "span.trans.dtrans")
		if !ok {
			slog.Debug("skipping block without translation", "class", x.Class, "pos", label)
			return
		}

		entries = append(entries, Entry{
			PartOfSpeech: ParsePartOfSpeech(label),
			Label:        label,
			Translation:  translation,
		})
	})

	return entries, nil
}

// EntryExtractor reads the structured "kdic" entries of the German to English
// pages, including gender, grammatical forms and examples.
//
// Extraction stops at the first entry whose part of speech already occurred on
// the page. Cambridge lists further senses of a word under a repeated heading,
// so those senses are dropped.
type EntryExtractor struct{}

func (EntryExtractor) Extract(page []byte) ([]Entry, error) {
	if len(bytes.TrimSpace(page)) == 0 {
		return nil, nil
	}

	doc, err := parsePage(page)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var entries []Entry

	doc.Find("div.kdic").EachWithBreak(func(_ int, block *goquery.Selection) bool {
		headword, _ := firstText(block, "h2.di-title")

		label, ok := firstText(block, "span.dpos")
		if !ok {
			slog.Debug("skipping entry without part of speech", "headword", headword)
			return true
		}

		key := normalizeLabel(label)
		if seen[key] {
			slog.Debug("repeated part of speech, stopping", "headword", headword, "pos", label)
			return false
		}
		seen[key] = true

		entry := Entry{
			Headword:     headword,
			PartOfSpeech: ParsePartOfSpeech(label),
			Label:        label,
		}

		if entry.PartOfSpeech == Noun {
			gender, _ := firstText(block, "span.gc")
			entry.Gender = Gender(gender)
		}

		entry.Forms = extractForms(block)
		entry.Translation, _ = firstText(block, "span.dtrans")
		entry.Examples = extractExamples(block)

		entries = append(entries, entry)
		return true
	})

	return entries, nil
}

func extractForms(block *goquery.Selection) []Form {
	var forms []Form
	block.Find("span.inf-group").Each(func(_ int, group *goquery.Selection) {
		var form Form
		for _, child := range group.Children().Nodes {
			form = append(form, strings.TrimSpace(nodeText(child)))
		}
		forms = append(forms, form)
	})
	return forms
}

func extractExamples(block *goquery.Selection) []string {
	var examples []string
	block.Find("span.eg.deg").Each(func(_ int, example *goquery.Selection) {
		examples = append(examples, strings.TrimSpace(example.Text()))
	})
	return examples
}
