package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

type CategoryEntry struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

type BadgeEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type File struct {
	Categories []CategoryEntry `json:"categories"`
	Badges     []BadgeEntry    `json:"badges"`
}

// Registry holds the static categories and badges the store is seeded with.
type Registry struct {
	mu         sync.RWMutex
	categories map[string]*CategoryEntry
	badges     map[string]*BadgeEntry
	order      []string
}

func NewRegistry() *Registry {
	return &Registry{
		categories: make(map[string]*CategoryEntry),
		badges:     make(map[string]*BadgeEntry),
	}
}

func LoadFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	registry := NewRegistry()
	for i := range file.Categories {
		if err := registry.AddCategory(&file.Categories[i]); err != nil {
			return nil, err
		}
	}
	for i := range file.Badges {
		if err := registry.AddBadge(&file.Badges[i]); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func (r *Registry) AddCategory(c *CategoryEntry) error {
	if c.Slug == "" || c.Name == "" {
		return fmt.Errorf("category requires name and slug: %+v", *c)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[c.Slug]; ok {
		return fmt.Errorf("duplicate category slug %q", c.Slug)
	}
	for _, existing := range r.categories {
		if existing.Name == c.Name {
			return fmt.Errorf("duplicate category name %q", c.Name)
		}
	}
	r.categories[c.Slug] = c
	r.order = append(r.order, c.Slug)
	return nil
}

func (r *Registry) AddBadge(b *BadgeEntry) error {
	if b.Name == "" {
		return fmt.Errorf("badge requires a name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.badges[b.Name]; ok {
		return fmt.Errorf("duplicate badge %q", b.Name)
	}
	r.badges[b.Name] = b
	return nil
}

func (r *Registry) Category(slug string) *CategoryEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.categories[slug]
}

func (r *Registry) HasBadge(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.badges[name]
	return ok
}

// Categories returns entries in file order.
func (r *Registry) Categories() []CategoryEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]CategoryEntry, 0, len(r.order))
	for _, slug := range r.order {
		result = append(result, *r.categories[slug])
	}
	return result
}

func (r *Registry) Badges() []BadgeEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]BadgeEntry, 0, len(r.badges))
	for _, b := range r.badges {
		result = append(result, *b)
	}
	return result
}
