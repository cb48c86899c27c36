package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domain "github.com/mohammadpnp/moodjournal-import/internal/domain/journal"
)

var errTagWithoutName = errors.New("tag has no name")

type optionKey struct {
	category domain.EntityRef
	name     string
}

// TagResolution is the option a tag maps to and what had to be created for it.
type TagResolution struct {
	Category        domain.EntityRef
	Option          domain.EntityRef
	CreatedCategory bool
	CreatedOption   bool
}

// EntityResolver maps tags to categories and options for one import run. It
// is seeded with what the owner already has and remembers everything it
// creates, so a name is materialized at most once per run. In dry-run mode it
// hands out simulated references instead of writing.
//
// An EntityResolver is not safe for concurrent use; a job owns its own.
type EntityResolver struct {
	repo       domain.CategoryRepository
	ownerID    int64
	dryRun     bool
	categories map[string]domain.EntityRef
	options    map[optionKey]domain.EntityRef
	nextHandle int64
}

func NewEntityResolver(ctx context.Context, repo domain.CategoryRepository, ownerID int64, dryRun bool) (*EntityResolver, error) {
	existing, err := repo.ListCategories(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	r := &EntityResolver{
		repo:       repo,
		ownerID:    ownerID,
		dryRun:     dryRun,
		categories: make(map[string]domain.EntityRef),
		options:    make(map[optionKey]domain.EntityRef),
	}
	for _, category := range existing {
		name := normalizeName(category.Name)
		if name == "" {
			continue
		}
		ref, known := r.categories[name]
		if !known {
			ref = domain.PersistedRef(category.ID)
			r.categories[name] = ref
		}
		for _, option := range category.Options {
			optionName := normalizeName(option.Name)
			if optionName == "" {
				continue
			}
			key := optionKey{category: ref, name: optionName}
			if _, ok := r.options[key]; !ok {
				r.options[key] = domain.PersistedRef(option.ID)
			}
		}
	}
	return r, nil
}

func (r *EntityResolver) Resolve(ctx context.Context, tag domain.ResolvedTag) (TagResolution, error) {
	optionName := strings.TrimSpace(tag.Name)
	if optionName == "" {
		return TagResolution{}, errTagWithoutName
	}
	categoryName := strings.TrimSpace(tag.Category)
	if categoryName == "" {
		categoryName = domain.DefaultCategory
	}

	var res TagResolution
	categoryRef, ok := r.categories[normalizeName(categoryName)]
	if !ok {
		ref, created, err := r.createCategory(ctx, categoryName)
		if err != nil {
			return TagResolution{}, err
		}
		categoryRef = ref
		res.CreatedCategory = created
		r.categories[normalizeName(categoryName)] = categoryRef
	}
	res.Category = categoryRef

	key := optionKey{category: categoryRef, name: normalizeName(optionName)}
	optionRef, ok := r.options[key]
	if !ok {
		ref, created, err := r.createOption(ctx, categoryRef, optionName, tag.Icon)
		if err != nil {
			return res, err
		}
		optionRef = ref
		res.CreatedOption = created
		r.options[key] = optionRef
	}
	res.Option = optionRef
	return res, nil
}

func (r *EntityResolver) createCategory(ctx context.Context, name string) (domain.EntityRef, bool, error) {
	if r.dryRun {
		return r.simulate(), true, nil
	}
	id, created, err := r.repo.FindOrCreateCategory(ctx, r.ownerID, name)
	if err != nil {
		return domain.EntityRef{}, false, fmt.Errorf("create category %q: %w", name, err)
	}
	return domain.PersistedRef(id), created, nil
}

func (r *EntityResolver) createOption(ctx context.Context, category domain.EntityRef, name, icon string) (domain.EntityRef, bool, error) {
	categoryID, persisted := category.PersistedID()
	if r.dryRun || !persisted {
		return r.simulate(), true, nil
	}
	id, created, err := r.repo.FindOrCreateOption(ctx, categoryID, name, icon)
	if err != nil {
		return domain.EntityRef{}, false, fmt.Errorf("create option %q: %w", name, err)
	}
	return domain.PersistedRef(id), created, nil
}

func (r *EntityResolver) simulate() domain.EntityRef {
	r.nextHandle++
	return domain.SimulatedRef(r.nextHandle)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
