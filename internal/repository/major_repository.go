package repository

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"
)

//go:embed majors.yaml
var majorsYAML []byte

// ErrProgramUnavailable is returned when the catalogue page cannot be fetched.
var ErrProgramUnavailable = errors.New("program catalogue unavailable")

type majorTable struct {
	Programs map[string]int `yaml:"programs"`
}

// MajorRepository resolves majors to catalogue programs and fetches their pages.
// The major table is embedded and read-only.
type MajorRepository struct {
	catalogueURL string
	client       *http.Client
	observer     UpstreamObserver
	programs     map[string]int
}

// NewMajorRepository loads the embedded major table.
func NewMajorRepository(catalogueURL string, client *http.Client, timeout time.Duration, observer UpstreamObserver) (*MajorRepository, error) {
	var table majorTable
	if err := yaml.Unmarshal(majorsYAML, &table); err != nil {
		return nil, fmt.Errorf("load major table: %w", err)
	}
	if client == nil {
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &MajorRepository{
		catalogueURL: catalogueURL,
		client:       client,
		observer:     observer,
		programs:     table.Programs,
	}, nil
}

// ProgramID returns the catalogue program id for a major code.
func (r *MajorRepository) ProgramID(major string) (int, bool) {
	id, ok := r.programs[major]
	return id, ok
}

// ProgramCount returns the number of known majors.
func (r *MajorRepository) ProgramCount() int {
	return len(r.programs)
}

// FetchProgramText downloads a program page and returns its visible text.
func (r *MajorRepository) FetchProgramText(ctx context.Context, programID int) (string, error) {
	params := url.Values{}
	params.Set("poid", strconv.Itoa(programID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.catalogueURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build program request: %w", err)
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		r.observe(http.StatusServiceUnavailable, time.Since(start))
		return "", fmt.Errorf("fetch program %d: %w: %w", programID, ErrProgramUnavailable, err)
	}
	defer resp.Body.Close()
	r.observe(resp.StatusCode, time.Since(start))

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("fetch program %d: %w: status %d", programID, ErrProgramUnavailable, resp.StatusCode)
	}

	text, err := visibleText(io.LimitReader(resp.Body, maxCatalogBody))
	if err != nil {
		return "", fmt.Errorf("parse program %d: %w", programID, err)
	}
	return text, nil
}

func (r *MajorRepository) observe(status int, duration time.Duration) {
	if r.observer != nil {
		r.observer.ObserveUpstreamRequest("catalogue", "program", status, duration)
	}
}

// visibleText concatenates every text node outside script and style elements.
func visibleText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return b.String(), nil
}
