// Package uitest provides recording fakes for the ui ports, used by the
// controller tests.
package uitest

import (
	"sync"

	"github.com/example/grocery-storefront/internal/notify"
)

// FakePage is an in-memory Page implementation that records every
// mutation for assertions.
type FakePage struct {
	mu sync.Mutex

	Fields         map[string]string
	QuantityInputs map[string]string
	CartLines      map[string]bool

	CartCounts   []int    // every SetCartCount value, in order
	RemovedLines []string // every RemoveCartLine call, in order
	Reloads      int
	Navigations  []string
}

func NewFakePage() *FakePage {
	return &FakePage{
		Fields:         make(map[string]string),
		QuantityInputs: make(map[string]string),
		CartLines:      make(map[string]bool),
	}
}

func (p *FakePage) Field(name string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Fields[name]
}

func (p *FakePage) SetField(name, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Fields[name] = value
}

func (p *FakePage) QuantityInput(productID string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.QuantityInputs[productID]
}

func (p *FakePage) SetQuantityInput(productID, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.QuantityInputs[productID] = value
}

func (p *FakePage) SetCartCount(count int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.CartCounts = append(p.CartCounts, count)
}

func (p *FakePage) RemoveCartLine(productID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.CartLines, productID)
	p.RemovedLines = append(p.RemovedLines, productID)
}

func (p *FakePage) Reload() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Reloads++
}

func (p *FakePage) Navigate(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Navigations = append(p.Navigations, url)
}

// FakeConfirmer answers every prompt with Answer and records prompts.
type FakeConfirmer struct {
	Answer  bool
	Prompts []string
}

func (c *FakeConfirmer) Confirm(prompt string) bool {
	c.Prompts = append(c.Prompts, prompt)
	return c.Answer
}

// FakeRegion records notifications for assertions.
type FakeRegion struct {
	mu      sync.Mutex
	Entries []notify.Notification
	Removed []string
}

func (r *FakeRegion) Append(id string, n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = append(r.Entries, n)
}

func (r *FakeRegion) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Removed = append(r.Removed, id)
}

// Messages returns the recorded notification messages in order.
func (r *FakeRegion) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := make([]string, len(r.Entries))
	for i, n := range r.Entries {
		msgs[i] = n.Message
	}
	return msgs
}
