package catalog

import (
	"strings"

	"marketplace/internal/api"
)

// DefaultImage is the display token for categories without their own icon.
const DefaultImage = "📦"

// Category is one entry of the configured category set.
type Category struct {
	Name  string
	Image string
}

// DefaultCategories is used when no category set is configured.
var DefaultCategories = []Category{
	{Name: "Electronics", Image: "📱"},
	{Name: "Clothing", Image: "🧥"},
	{Name: "Furniture", Image: "🛋️"},
	{Name: "Sports", Image: "🚴"},
	{Name: "Kids", Image: "🍼"},
	{Name: "Auto", Image: "🚗"},
}

// Categories is an ordered, lookup-friendly category set.
type Categories struct {
	list  []Category
	index map[string]Category
}

// NewCategories builds a set from cs, keeping the first entry for a name.
func NewCategories(cs []Category) *Categories {
	set := &Categories{index: make(map[string]Category, len(cs))}
	for _, c := range cs {
		if c.Name == "" {
			continue
		}
		if _, dup := set.index[c.Name]; dup {
			continue
		}
		if c.Image == "" {
			c.Image = DefaultImage
		}
		set.list = append(set.list, c)
		set.index[c.Name] = c
	}
	return set
}

// ParseCategories reads a comma separated "Name=image" list. Entries without
// an image get the default icon of a matching default category, or
// DefaultImage.
func ParseCategories(list string) *Categories {
	defaults := NewCategories(DefaultCategories)
	var cs []Category
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, image, _ := strings.Cut(part, "=")
		name = strings.TrimSpace(name)
		image = strings.TrimSpace(image)
		if image == "" {
			image = defaults.Image(name)
		}
		cs = append(cs, Category{Name: name, Image: image})
	}
	if len(cs) == 0 {
		return defaults
	}
	return NewCategories(cs)
}

// Contains reports whether name is a configured category.
func (s *Categories) Contains(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Image returns the display token for name.
func (s *Categories) Image(name string) string {
	if c, ok := s.index[name]; ok {
		return c.Image
	}
	return DefaultImage
}

// Names lists category names in configured order.
func (s *Categories) Names() []string {
	names := make([]string, len(s.list))
	for i, c := range s.list {
		names[i] = c.Name
	}
	return names
}

// CategoryCount is the number of listings in a category.
type CategoryCount struct {
	Name  string
	Image string
	Count int
}

// CountByCategory counts listings per configured category, in configured
// order. Listings in unknown categories are not counted.
func (s *Categories) CountByCategory(listings []api.Listing) []CategoryCount {
	counts := make(map[string]int, len(s.list))
	for _, l := range listings {
		counts[l.Category]++
	}
	out := make([]CategoryCount, len(s.list))
	for i, c := range s.list {
		out[i] = CategoryCount{Name: c.Name, Image: c.Image, Count: counts[c.Name]}
	}
	return out
}
