// Package reclaim implements the sample reclaimer: it guarantees that no
// deallocation ever happens on the audio thread by having the editor
// retain a strong reference to every published sample and only release
// it once nothing else, neither song snapshot, nor any voice, still
// holds one.
package reclaim

import "github.com/beatforge/trackerengine/sample"

// Collector is not safe for concurrent use; it is editor-thread-only
// state, invoked only from engine.Manager, never from the audio
// callback.
type Collector struct {
	samples []sample.Handle
}

// AddSample retains h. Callers hand over a handle they already own (or a
// freshly cloned one), the collector does not clone on insertion.
func (c *Collector) AddSample(h sample.Handle) {
	c.samples = append(c.samples, h)
}

// Collect drops every retained handle whose strong count has fallen to
// 1, meaning the collector's own copy is the last one left, so every
// snapshot and voice that once referenced the sample has released it.
// Must only ever be called from the editor thread.
func (c *Collector) Collect() {
	kept := c.samples[:0]
	for _, h := range c.samples {
		if h.StrongCount() == 1 {
			h.Release()
			continue
		}
		kept = append(kept, h)
	}
	c.samples = kept
}

// Len reports how many samples the collector currently retains.
func (c *Collector) Len() int {
	return len(c.samples)
}

// Leaked returns the samples still retained with more than the
// collector's own reference to them, used by engine.Manager on
// shutdown to report anything that didn't come free after every slot was
// cleared and a final Collect ran.
func (c *Collector) Leaked() []sample.Handle {
	out := make([]sample.Handle, 0, len(c.samples))
	out = append(out, c.samples...)
	return out
}
