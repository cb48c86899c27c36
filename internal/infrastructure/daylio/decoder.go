// Package daylio decodes Daylio backups in any of the shapes the app has
// exported over time.
package daylio

import (
	"time"

	domain "github.com/mohammadpnp/moodjournal-import/internal/domain/journal"
)

type Decoder struct {
	now func() time.Time
}

func NewDecoder() *Decoder {
	return &Decoder{now: time.Now}
}

// NewDecoderWithClock is used where the "now" fallback for undated entries
// has to be predictable.
func NewDecoderWithClock(now func() time.Time) *Decoder {
	if now == nil {
		now = time.Now
	}
	return &Decoder{now: now}
}

// Decode extracts the payload and wraps each raw entry in a lazily normalized
// record. Only a payload that cannot be interpreted at all returns an error.
func (d *Decoder) Decode(payload []byte, filename string) (domain.Backup, error) {
	obj, err := ExtractPayload(payload, filename)
	if err != nil {
		return domain.Backup{}, err
	}

	entries := extractEntries(obj)
	tags := extractTagMap(obj)
	moods := extractCustomMoods(obj)

	values := make([]int, 0, len(entries))
	for _, raw := range entries {
		entryObj, ok := asObject(raw)
		if !ok {
			continue
		}
		if mood, ok := rawMood(entryObj); ok {
			values = append(values, mood)
		}
	}
	scale := detectMoodScale(values)

	records := make([]domain.BackupRecord, 0, len(entries))
	for _, raw := range entries {
		records = append(records, record{
			raw:   raw,
			scale: scale,
			moods: moods,
			tags:  tags,
			now:   d.now,
		})
	}
	return domain.Backup{Records: records}, nil
}
