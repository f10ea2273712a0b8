package prompt

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hpungsan/shelf/internal/errors"
)

//go:embed data/catalog.yaml
var defaultCatalog []byte

// dateLayout is the preferred created_at format in catalog files.
const dateLayout = "2006-01-02"

// Catalog is the immutable, ordered Item Store. Store order is the
// tie-breaker for every sort, so it is preserved exactly as loaded.
type Catalog struct {
	items []Item
	index map[int]int // id -> position
}

// record is the on-disk shape of one catalog entry.
type record struct {
	ID                int      `yaml:"id"`
	Title             string   `yaml:"title"`
	Description       string   `yaml:"description"`
	Content           string   `yaml:"content"`
	Variables         []string `yaml:"variables"`
	UsageInstructions string   `yaml:"usage_instructions"`
	ExampleOutput     string   `yaml:"example_output"`
	SourceURL         string   `yaml:"source_url"`
	RoleCategory      string   `yaml:"role_category"`
	PurposeCategory   string   `yaml:"purpose_category"`
	Tags              []string `yaml:"tags"`
	Saves             int      `yaml:"saves"`
	IsEditorsPick     bool     `yaml:"is_editors_pick"`
	IsWeeklyHot       bool     `yaml:"is_weekly_hot"`
	CreatedAt         string   `yaml:"created_at"`
}

type catalogFile struct {
	Prompts []record `yaml:"prompts"`
}

// NewCatalog validates items and returns a Catalog holding its own copy.
// Ids must be unique, categories must be known, saves non-negative.
func NewCatalog(items []Item) (*Catalog, error) {
	c := &Catalog{
		items: make([]Item, len(items)),
		index: make(map[int]int, len(items)),
	}
	for i, item := range items {
		if _, dup := c.index[item.ID]; dup {
			return nil, errors.NewInvalidCatalog(fmt.Sprintf("duplicate prompt id %d", item.ID))
		}
		if strings.TrimSpace(item.Title) == "" {
			return nil, errors.NewInvalidCatalog(fmt.Sprintf("prompt %d has empty title", item.ID))
		}
		if !item.RoleCategory.Valid() {
			return nil, errors.NewInvalidCatalog(fmt.Sprintf("prompt %d has unknown role %q", item.ID, item.RoleCategory))
		}
		if !item.PurposeCategory.Valid() {
			return nil, errors.NewInvalidCatalog(fmt.Sprintf("prompt %d has unknown purpose %q", item.ID, item.PurposeCategory))
		}
		if item.Saves < 0 {
			return nil, errors.NewInvalidCatalog(fmt.Sprintf("prompt %d has negative saves", item.ID))
		}
		c.items[i] = item.clone()
		c.index[item.ID] = i
	}
	return c, nil
}

// Load parses a YAML catalog from r.
func Load(r io.Reader) (*Catalog, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if err == io.EOF {
			return NewCatalog(nil)
		}
		return nil, errors.NewInvalidCatalog(fmt.Sprintf("parse catalog: %v", err))
	}

	items := make([]Item, 0, len(file.Prompts))
	for _, rec := range file.Prompts {
		item, err := rec.toItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return NewCatalog(items)
}

// LoadFile parses a YAML catalog from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileNotFound(path)
		}
		return nil, errors.NewInternal(fmt.Errorf("open catalog: %w", err))
	}
	defer f.Close()
	return Load(f)
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

// Open returns the catalog at path, or the embedded one when path is empty.
func Open(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

func (r record) toItem() (Item, error) {
	created, err := ParseDate(r.CreatedAt)
	if err != nil {
		return Item{}, errors.NewInvalidCatalog(fmt.Sprintf("prompt %d: %v", r.ID, err))
	}
	return Item{
		ID:                r.ID,
		Title:             r.Title,
		Description:       r.Description,
		Content:           r.Content,
		Variables:         r.Variables,
		UsageInstructions: r.UsageInstructions,
		ExampleOutput:     r.ExampleOutput,
		SourceURL:         r.SourceURL,
		RoleCategory:      Role(r.RoleCategory),
		PurposeCategory:   Purpose(r.PurposeCategory),
		Tags:              r.Tags,
		Saves:             r.Saves,
		IsEditorsPick:     r.IsEditorsPick,
		IsWeeklyHot:       r.IsWeeklyHot,
		CreatedAt:         created,
	}, nil
}

// ParseDate accepts YYYY-MM-DD or RFC 3339 timestamps.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid created_at %q (want YYYY-MM-DD or RFC 3339)", s)
}

// Items returns the catalog in store order. The returned items are copies;
// callers may reorder or edit them freely.
func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	for i, item := range c.items {
		out[i] = item.clone()
	}
	return out
}

// Get returns a copy of the item with the given id.
func (c *Catalog) Get(id int) (Item, bool) {
	pos, ok := c.index[id]
	if !ok {
		return Item{}, false
	}
	return c.items[pos].clone(), true
}

// clone copies the slice fields so callers cannot reach the stored arrays.
func (item Item) clone() Item {
	item.Tags = slices.Clone(item.Tags)
	item.Variables = slices.Clone(item.Variables)
	return item
}

// Len returns the number of items in the catalog.
func (c *Catalog) Len() int {
	return len(c.items)
}
