package daylio

import (
	"errors"
	"time"

	domain "github.com/mohammadpnp/moodjournal-import/internal/domain/journal"
)

var ErrMalformedRecord = errors.New("entry record is not an object")

var (
	timestampProbes = fields(asTimestamp, "created_at", "createdAt", "timestamp", "datetime", "time", "date")
	moodProbes      = fields(asAny, "mood", "moodValue", "value", "moodLevel")
	moodIDProbes    = fields(asText, "moodId", "mood_id")
	contentProbes   = fields(asText, "note", "notes", "content", "text")
	tagRefFields    = []string{"activities", "tags", "activityIds", "tagIds"}
	tagRefIDProbes  = fields(asText, "id", "uuid")
	inlineTagNames  = fields(asText, "name", "label")
)

// moodScale tells whether a backup stores moods as 0..4 or 1..5.
type moodScale int

const (
	oneBasedScale moodScale = iota
	zeroBasedScale
)

// detectMoodScale picks zero-based when a 0 shows up and nothing exceeds 4.
func detectMoodScale(values []int) moodScale {
	sawZero := false
	for _, v := range values {
		if v > 4 {
			return oneBasedScale
		}
		if v == 0 {
			sawZero = true
		}
	}
	if sawZero {
		return zeroBasedScale
	}
	return oneBasedScale
}

func (s moodScale) normalize(value int) int {
	if s == zeroBasedScale && value >= 0 {
		value++
	}
	return domain.ClampMood(value)
}

// rawMood is the first non-null mood field of a record as an integer.
func rawMood(obj map[string]any) (int, bool) {
	raw, ok := probe(obj, moodProbes)
	if !ok {
		return 0, false
	}
	return asInt(raw)
}

type record struct {
	raw   any
	scale moodScale
	moods map[string]int
	tags  map[string]domain.ResolvedTag
	now   func() time.Time
}

// Normalize converts the raw record into a canonical entry. Missing or garbled
// fields fall back to defaults; only a record that is not an object fails.
func (r record) Normalize() (domain.Entry, error) {
	obj, ok := asObject(r.raw)
	if !ok {
		return domain.Entry{}, ErrMalformedRecord
	}

	createdAt, ok := probe(obj, timestampProbes)
	if !ok {
		createdAt = r.now().UTC()
	}

	mood, ok := rawMood(obj)
	if ok {
		mood = r.scale.normalize(mood)
	} else {
		mood = domain.NeutralMood
		if moodID, found := probe(obj, moodIDProbes); found {
			if custom, known := r.moods[moodID]; known {
				mood = custom
			}
		}
	}

	content, _ := probe(obj, contentProbes)

	return domain.Entry{
		Date:      createdAt.Format(time.DateOnly),
		CreatedAt: createdAt,
		Mood:      mood,
		Content:   content,
		Tags:      r.resolveTags(obj),
	}, nil
}

// resolveTags merges inline tag objects with tag ids looked up in the backup's
// tag definitions. Inline tags come first; duplicates are dropped.
func (r record) resolveTags(obj map[string]any) []domain.ResolvedTag {
	var inline []domain.ResolvedTag
	var ids []string
	for _, field := range tagRefFields {
		list, ok := asList(obj[field])
		if !ok {
			continue
		}
		for _, item := range list {
			if tagObj, ok := asObject(item); ok {
				if tag, ok := tagFromInline(tagObj); ok {
					inline = append(inline, tag)
				}
				if id, ok := probe(tagObj, tagRefIDProbes); ok {
					ids = append(ids, id)
				}
				continue
			}
			if id, ok := asText(item); ok {
				ids = append(ids, id)
			}
		}
	}

	seen := make(map[string]struct{})
	var resolved []domain.ResolvedTag
	add := func(tag domain.ResolvedTag) {
		if tag.Name == "" {
			return
		}
		key := tag.Key()
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		resolved = append(resolved, tag)
	}
	for _, tag := range inline {
		add(tag)
	}
	for _, id := range ids {
		if tag, ok := r.tags[id]; ok {
			add(tag)
		}
	}
	return resolved
}

func tagFromInline(obj map[string]any) (domain.ResolvedTag, bool) {
	name, ok := probe(obj, inlineTagNames)
	if !ok {
		return domain.ResolvedTag{}, false
	}
	category, _ := probe(obj, tagCategoryProbes)
	icon, _ := probe(obj, tagIconProbes)
	return domain.NewResolvedTag(name, category, icon), true
}
