package pages

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/zlnvch/markwiki/models"
)

var ErrPageNotFound = errors.New("page does not exist")

var urlSegmentRegex = regexp.MustCompile(`^[a-zA-Z0-9_][a-zA-Z0-9_-]*$`)

// ValidateURL rejects page paths that would escape the content directory or
// produce unaddressable files. Nested paths like "guides/setup" are allowed.
func ValidateURL(url string) error {
	if url == "" {
		return errors.New("page url must not be empty")
	}
	for _, segment := range strings.Split(url, "/") {
		if !urlSegmentRegex.MatchString(segment) {
			return fmt.Errorf("invalid page url segment: %q", segment)
		}
	}
	return nil
}

// Repository stores wiki pages as markdown files under a content directory.
// Each file starts with a small header block (title and tags lines) followed
// by a blank line and the markdown body.
type Repository struct {
	dir string
}

func NewRepository(dir string) (*Repository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create content directory: %w", err)
	}
	return &Repository{dir: dir}, nil
}

func (r *Repository) path(url string) string {
	return filepath.Join(r.dir, filepath.FromSlash(url)+".md")
}

func (r *Repository) Get(url string) (models.Page, error) {
	if err := ValidateURL(url); err != nil {
		return models.Page{}, err
	}

	data, err := os.ReadFile(r.path(url))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.Page{}, ErrPageNotFound
		}
		return models.Page{}, err
	}

	return parsePage(url, string(data)), nil
}

func (r *Repository) Save(page models.Page) error {
	if err := ValidateURL(page.URL); err != nil {
		return err
	}

	path := r.path(page.URL)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(renderPage(page)), 0o644)
}

func (r *Repository) Delete(url string) error {
	if err := ValidateURL(url); err != nil {
		return err
	}

	if err := os.Remove(r.path(url)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrPageNotFound
		}
		return err
	}
	return nil
}

// Move renames a page. The target must not already exist.
func (r *Repository) Move(url string, newURL string) error {
	if err := ValidateURL(url); err != nil {
		return err
	}
	if err := ValidateURL(newURL); err != nil {
		return err
	}

	if _, err := os.Stat(r.path(url)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrPageNotFound
		}
		return err
	}
	if _, err := os.Stat(r.path(newURL)); err == nil {
		return fmt.Errorf("page %q already exists", newURL)
	}

	if err := os.MkdirAll(filepath.Dir(r.path(newURL)), 0o755); err != nil {
		return err
	}
	return os.Rename(r.path(url), r.path(newURL))
}

// Index returns all pages sorted by url.
func (r *Repository) Index() ([]models.Page, error) {
	var result []models.Page

	err := filepath.WalkDir(r.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}

		rel, err := filepath.Rel(r.dir, path)
		if err != nil {
			return err
		}
		url := filepath.ToSlash(strings.TrimSuffix(rel, ".md"))

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		result = append(result, parsePage(url, string(data)))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(result, func(i, j int) bool { return result[i].URL < result[j].URL })
	return result, nil
}

// Search returns pages whose title or content contains the term.
func (r *Repository) Search(term string, ignoreCase bool) ([]models.Page, error) {
	all, err := r.Index()
	if err != nil {
		return nil, err
	}

	match := func(s string) bool { return strings.Contains(s, term) }
	if ignoreCase {
		lowered := strings.ToLower(term)
		match = func(s string) bool { return strings.Contains(strings.ToLower(s), lowered) }
	}

	var result []models.Page
	for _, page := range all {
		if match(page.Title) || match(page.Content) {
			result = append(result, page)
		}
	}
	return result, nil
}

// ByTag returns pages carrying the given tag.
func (r *Repository) ByTag(tag string) ([]models.Page, error) {
	all, err := r.Index()
	if err != nil {
		return nil, err
	}

	var result []models.Page
	for _, page := range all {
		for _, t := range page.Tags {
			if t == tag {
				result = append(result, page)
				break
			}
		}
	}
	return result, nil
}

// Tags returns every tag in use, sorted.
func (r *Repository) Tags() ([]string, error) {
	all, err := r.Index()
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	for _, page := range all {
		for _, t := range page.Tags {
			seen[t] = struct{}{}
		}
	}

	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags, nil
}

// parsePage splits the header block from the body. Unknown header lines are
// ignored; a missing title falls back to the url.
func parsePage(url string, raw string) models.Page {
	page := models.Page{URL: url, Title: url}

	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	header, body, found := strings.Cut(raw, "\n\n")
	if !found || !isHeader(header) {
		page.Content = raw
		return page
	}

	for _, line := range strings.Split(header, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "title":
			if value != "" {
				page.Title = value
			}
		case "tags":
			page.Tags = strings.Fields(value)
		}
	}
	page.Content = body
	return page
}

func isHeader(block string) bool {
	for _, line := range strings.Split(block, "\n") {
		key, _, ok := strings.Cut(line, ":")
		if !ok {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "title", "tags":
		default:
			return false
		}
	}
	return true
}

func renderPage(page models.Page) string {
	var b strings.Builder
	fmt.Fprintf(&b, "title: %s\n", page.Title)
	if len(page.Tags) > 0 {
		fmt.Fprintf(&b, "tags: %s\n", strings.Join(page.Tags, " "))
	}
	b.WriteString("\n")
	b.WriteString(page.Content)
	return b.String()
}
