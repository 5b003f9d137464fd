package processing

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Audit keeps the last raw model output per scene and step so a failed
// pipeline run can be inspected after the fact. Entries expire on their
// own; this is a debugging window, not storage.
type Audit struct {
	c *gocache.Cache
}

// NewAudit builds an audit log whose entries live for ttl.
func NewAudit(ttl time.Duration) *Audit {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Audit{c: gocache.New(ttl, 2*ttl)}
}

func (a *Audit) Record(key, step, raw string) {
	a.c.SetDefault(key+"/"+step, raw)
}

// Last returns the most recent raw output recorded for the key and
// step, if it has not expired.
func (a *Audit) Last(key, step string) (string, bool) {
	v, ok := a.c.Get(key + "/" + step)
	if !ok {
		return "", false
	}
	raw, ok := v.(string)
	return raw, ok
}
