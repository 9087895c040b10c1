package ports

import "context"

// TagDefinition describes a tag known to the catalog. System-managed tags
// are owned by the rule engine; user-managed tags are never touched by it.
type TagDefinition struct {
	Name            string
	IsSystemManaged bool
	IsEnabled       bool
}

// TagCatalog exposes the configured tag definitions.
type TagCatalog interface {
	// GetManagedTagNames returns the names of all enabled system-managed
	// tags. The rule engine only adds or removes tags in this set.
	GetManagedTagNames(ctx context.Context) ([]string, error)

	// GetAll returns every tag definition, enabled or not.
	GetAll(ctx context.Context) ([]TagDefinition, error)
}
