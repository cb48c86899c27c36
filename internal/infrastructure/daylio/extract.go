package daylio

import (
	domain "github.com/mohammadpnp/moodjournal-import/internal/domain/journal"
)

var (
	entryListProbes = fields(asList, "dayEntries", "entries", "records", "moodEntries")
	tagListFields   = []string{"tags", "activities", "tagDefinitions"}

	tagIDProbes       = fields(asText, "id", "uuid", "key")
	tagNameProbes     = fields(asText, "name", "label", "title", "text")
	tagCategoryProbes = fields(asText, "group", "category")
	tagIconProbes     = fields(asText, "icon", "emoji")

	customMoodIDProbes    = fields(asText, "id", "uuid")
	customMoodScoreProbes = fields(asInt, "score", "value", "mood", "moodLevel")
)

// extractEntries returns the raw entry list. Non-object items are kept so they
// are reported as failed entries at their own index.
func extractEntries(payload map[string]any) []any {
	entries, ok := probe(payload, entryListProbes)
	if !ok {
		return nil
	}
	return entries
}

// extractTagMap indexes tag definitions by id. Later definitions win.
func extractTagMap(payload map[string]any) map[string]domain.ResolvedTag {
	tagMap := make(map[string]domain.ResolvedTag)
	for _, field := range tagListFields {
		collection, ok := asList(payload[field])
		if !ok {
			continue
		}
		for _, item := range collection {
			tag, ok := asObject(item)
			if !ok {
				continue
			}
			id, ok := probe(tag, tagIDProbes)
			if !ok {
				continue
			}
			resolved, ok := tagFromObject(tag)
			if !ok {
				continue
			}
			tagMap[id] = resolved
		}
	}
	return tagMap
}

func tagFromObject(obj map[string]any) (domain.ResolvedTag, bool) {
	name, ok := probe(obj, tagNameProbes)
	if !ok {
		return domain.ResolvedTag{}, false
	}
	category, _ := probe(obj, tagCategoryProbes)
	icon, _ := probe(obj, tagIconProbes)
	return domain.NewResolvedTag(name, category, icon), true
}

// extractCustomMoods maps custom mood ids to normalized scores. The scale of the
// definitions is detected on their own scores.
func extractCustomMoods(payload map[string]any) map[string]int {
	lookup := make(map[string]int)
	custom, ok := asList(payload["customMoods"])
	if !ok {
		return lookup
	}

	type definition struct {
		id    string
		score int
	}
	definitions := make([]definition, 0, len(custom))
	scores := make([]int, 0, len(custom))
	for _, item := range custom {
		mood, ok := asObject(item)
		if !ok {
			continue
		}
		id, ok := probe(mood, customMoodIDProbes)
		if !ok {
			continue
		}
		score, ok := probe(mood, customMoodScoreProbes)
		if !ok {
			continue
		}
		definitions = append(definitions, definition{id: id, score: score})
		scores = append(scores, score)
	}

	scale := detectMoodScale(scores)
	for _, def := range definitions {
		lookup[def.id] = scale.normalize(def.score)
	}
	return lookup
}
