// Package main scrapes SQL keyword lists and keyword documentation and
// generates Go tables for the dialect and lsp packages.
//
// Usage:
//
//	go run ./scripts/genkeywords -gen=spark -out=pkg/dialect/spark_keywords_gen.go
//	go run ./scripts/genkeywords -gen=docs -out=internal/lsp/keyword_docs_gen.go
//
// The spark generator reads the ANSI compliance page of the Spark docs and
// keeps the keywords marked reserved under ANSI mode. The docs generator
// reads the first paragraph of the matching SQLite language pages and
// converts it to markdown for hover text.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"go/format"
	"io"
	"log"
	"net/http"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
)

const (
	sparkURL   = "https://spark.apache.org/docs/latest/sql-ref-ansi-compliance.html"
	sqliteBase = "https://www.sqlite.org/"
)

var (
	genFlag     = flag.String("gen", "", "what to generate: spark, docs")
	outFlag     = flag.String("out", "", "output file path")
	workersFlag = flag.Int("workers", 8, "number of concurrent workers for fetching docs")
)

// docPages maps a keyword to the SQLite page and anchor documenting it.
// Keywords without an anchor take the first paragraph of the page.
var docPages = map[string]string{
	"SELECT":       "lang_select.html",
	"DISTINCT":     "lang_select.html#distinct",
	"FROM":         "lang_select.html#fromclause",
	"WHERE":        "lang_select.html#whereclause",
	"GROUP BY":     "lang_select.html#resultset",
	"HAVING":       "lang_select.html#resultset",
	"ORDER BY":     "lang_select.html#orderby",
	"LIMIT":        "lang_select.html#limitoffset",
	"OFFSET":       "lang_select.html#limitoffset",
	"UNION":        "lang_select.html#compound",
	"INTERSECT":    "lang_select.html#compound",
	"EXCEPT":       "lang_select.html#compound",
	"VALUES":       "lang_select.html#values",
	"WITH":         "lang_with.html",
	"INSERT":       "lang_insert.html",
	"UPDATE":       "lang_update.html",
	"DELETE":       "lang_delete.html",
	"CREATE":       "lang_createtable.html",
	"DROP":         "lang_droptable.html",
	"CASE":         "lang_expr.html#case",
	"CAST":         "lang_expr.html#castexpr",
	"BETWEEN":      "lang_expr.html#between",
	"EXISTS":       "lang_expr.html#exists_op",
	"LIKE":         "lang_expr.html#like",
	"IN":           "lang_expr.html#in_op",
	"OVER":         "windowfunctions.html",
	"WINDOW":       "windowfunctions.html#named_window_definitions",
	"PARTITION BY": "windowfunctions.html#the_partition_by_clause",
}

var (
	reWhitespace = regexp.MustCompile(`\s+`)
	reLinks      = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
)

func main() {
	flag.Parse()

	if *outFlag == "" {
		log.Fatal("--out flag is required")
	}

	switch *genFlag {
	case "spark":
		generateSparkFile(*outFlag)
	case "docs":
		generateDocsFile(*outFlag)
	default:
		log.Fatalf("unknown -gen value: %q (use: spark, docs)", *genFlag)
	}
}

func generateSparkFile(outPath string) {
	log.Printf("Fetching keywords from %s", sparkURL)

	body, err := fetchURL(sparkURL)
	if err != nil {
		log.Fatalf("failed to fetch keywords page: %v", err)
	}

	reserved, err := parseSparkKeywords(body)
	if err != nil {
		log.Fatalf("failed to parse keywords page: %v", err)
	}
	log.Printf("Extracted %d reserved keywords", len(reserved))

	var b strings.Builder
	b.WriteString("// Code generated by scripts/genkeywords; DO NOT EDIT.\n//\n")
	fmt.Fprintf(&b, "// Source: %s\n//\n", sparkURL)
	b.WriteString("// Keywords reserved by Spark SQL when spark.sql.ansi.enabled is true.\n\n")
	b.WriteString("package dialect\n\nvar sparkReservedKeywords = []string{\n")
	for _, kw := range reserved {
		fmt.Fprintf(&b, "\t%q,\n", kw)
	}
	b.WriteString("}\n")

	writeFormattedCode(outPath, b.String())
}

// parseSparkKeywords reads the keyword table. Each row holds the keyword
// followed by its status in ANSI mode, default mode and SQL-2016.
func parseSparkKeywords(body []byte) ([]string, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	set := make(map[string]bool)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var cells []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && c.Data == "td" {
					cells = append(cells, strings.TrimSpace(extractText(c)))
				}
			}
			if len(cells) >= 2 && strings.EqualFold(cells[1], "reserved") {
				set[strings.ToUpper(cells[0])] = true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(set) == 0 {
		return nil, fmt.Errorf("no reserved keywords found")
	}

	keywords := make([]string, 0, len(set))
	for kw := range set {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)
	return keywords, nil
}

func generateDocsFile(outPath string) {
	pages := make(map[string][]byte)
	for _, ref := range docPages {
		page, _, _ := strings.Cut(ref, "#")
		pages[page] = nil
	}

	log.Printf("Fetching %d pages with %d workers...", len(pages), *workersFlag)
	fetchPages(pages, *workersFlag)

	docs := make(map[string]string)
	for kw, ref := range docPages {
		page, anchor, _ := strings.Cut(ref, "#")
		body := pages[page]
		if body == nil {
			log.Printf("Warning: no content for %s", page)
			continue
		}
		text, err := firstParagraph(body, anchor)
		if err != nil {
			log.Printf("Warning: %s: %v", kw, err)
			continue
		}
		docs[kw] = text
	}
	log.Printf("Extracted documentation for %d keywords", len(docs))

	keys := make([]string, 0, len(docs))
	for kw := range docs {
		keys = append(keys, kw)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("// Code generated by scripts/genkeywords; DO NOT EDIT.\n//\n")
	fmt.Fprintf(&b, "// Source: %slang.html\n//\n", sqliteBase)
	b.WriteString("// Hover and completion documentation for common SQL keywords.\n\n")
	b.WriteString("package lsp\n\nvar keywordDocs = map[string]string{\n")
	for _, kw := range keys {
		fmt.Fprintf(&b, "\t%q: %q,\n", kw, docs[kw])
	}
	b.WriteString("}\n")

	writeFormattedCode(outPath, b.String())
}

func fetchPages(pages map[string][]byte, workers int) {
	var mu sync.Mutex
	jobs := make(chan string)
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for page := range jobs {
				body, err := fetchURL(sqliteBase + page)
				if err != nil {
					log.Printf("Warning: failed to fetch %s: %v", page, err)
					continue
				}
				mu.Lock()
				pages[page] = body
				mu.Unlock()
			}
		}()
	}

	names := make([]string, 0, len(pages))
	for page := range pages {
		names = append(names, page)
	}
	for _, page := range names {
		jobs <- page
	}
	close(jobs)
	wg.Wait()
}

// firstParagraph returns the first <p> after the element with the given id,
// or the first <p> of the page when anchor is empty, as single-line markdown.
func firstParagraph(body []byte, anchor string) (string, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	found := anchor == ""
	var para *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if para != nil {
			return
		}
		if n.Type == html.ElementNode {
			if !found && (attr(n, "id") == anchor || attr(n, "name") == anchor) {
				found = true
			}
			if found && n.Data == "p" && strings.TrimSpace(extractText(n)) != "" {
				para = n
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if para == nil {
		return "", fmt.Errorf("no paragraph after #%s", anchor)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, para); err != nil {
		return "", err
	}
	md, err := htmltomarkdown.ConvertString(buf.String())
	if err != nil {
		return "", err
	}
	md = reLinks.ReplaceAllString(md, "$1")
	return strings.TrimSpace(reWhitespace.ReplaceAllString(md, " ")), nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func extractText(n *html.Node) string {
	var buf bytes.Buffer
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

func fetchURL(url string) ([]byte, error) {
	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	req, err := http.NewRequestWithContext(context.Background(), "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; sqllens-genkeywords/1.0)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

func writeFormattedCode(outPath, code string) {
	formatted, err := format.Source([]byte(code))
	if err != nil {
		log.Printf("Warning: failed to format generated code: %v", err)
		formatted = []byte(code)
	}

	if err := os.WriteFile(outPath, formatted, 0o600); err != nil {
		log.Fatalf("failed to write output: %v", err)
	}

	log.Printf("Generated %s", outPath)
}
