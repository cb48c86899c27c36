package journal

import "strconv"

// EntityRef points at a category or option that is either stored or only
// simulated during a dry run.
type EntityRef struct {
	id        int64
	simulated bool
}

func PersistedRef(id int64) EntityRef {
	return EntityRef{id: id}
}

// SimulatedRef builds a placeholder for an entity a dry run would have created.
// Handles are expected to be positive and unique within one run.
func SimulatedRef(handle int64) EntityRef {
	return EntityRef{id: handle, simulated: true}
}

// PersistedID returns the stored id, or false for simulated references.
func (r EntityRef) PersistedID() (int64, bool) {
	if r.simulated {
		return 0, false
	}
	return r.id, true
}

func (r EntityRef) Simulated() bool {
	return r.simulated
}

func (r EntityRef) String() string {
	if r.simulated {
		return "simulated:-" + strconv.FormatInt(r.id, 10)
	}
	return strconv.FormatInt(r.id, 10)
}
