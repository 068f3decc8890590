package cart

import "sync"

// Cart is one device's selection of products, partitioned by tenant:
// operations on one tenant never observe or mutate another tenant's set.
// Mutations persist through the configured Store; state survives process
// restarts via Load at construction.
type Cart struct {
	mu      sync.Mutex
	tenants map[string][]string
	store   Store
}

// New builds a cart backed by store, hydrating any persisted state.
func New(store Store) (*Cart, error) {
	state, err := store.Load()
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = map[string][]string{}
	}
	return &Cart{tenants: state, store: store}, nil
}

// Add puts a product in the tenant's set. Adding an already present
// product is a no-op.
func (c *Cart) Add(tenantSlug, productID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.contains(tenantSlug, productID) {
		return nil
	}
	c.tenants[tenantSlug] = append(c.tenants[tenantSlug], productID)
	return c.save()
}

// Remove takes a product out of the tenant's set.
func (c *Cart) Remove(tenantSlug, productID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := c.tenants[tenantSlug]
	for i, id := range ids {
		if id == productID {
			c.tenants[tenantSlug] = append(ids[:i], ids[i+1:]...)
			return c.save()
		}
	}
	return nil
}

// Toggle flips a product's membership and reports the new state. It is
// its own inverse: toggling twice restores the prior state.
func (c *Cart) Toggle(tenantSlug, productID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := c.tenants[tenantSlug]
	for i, id := range ids {
		if id == productID {
			c.tenants[tenantSlug] = append(ids[:i], ids[i+1:]...)
			return false, c.save()
		}
	}
	c.tenants[tenantSlug] = append(ids, productID)
	return true, c.save()
}

// Clear empties one tenant's set, leaving every other tenant untouched.
func (c *Cart) Clear(tenantSlug string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tenants, tenantSlug)
	return c.save()
}

// ClearAll empties the whole cart.
func (c *Cart) ClearAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tenants = map[string][]string{}
	return c.save()
}

// Contains reports membership of a product in the tenant's set.
func (c *Cart) Contains(tenantSlug, productID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.contains(tenantSlug, productID)
}

// Count is the size of the tenant's set.
func (c *Cart) Count(tenantSlug string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tenants[tenantSlug])
}

// ProductIDs returns the tenant's set in insertion order.
func (c *Cart) ProductIDs(tenantSlug string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, len(c.tenants[tenantSlug]))
	copy(ids, c.tenants[tenantSlug])
	return ids
}

func (c *Cart) contains(tenantSlug, productID string) bool {
	for _, id := range c.tenants[tenantSlug] {
		if id == productID {
			return true
		}
	}
	return false
}

func (c *Cart) save() error {
	snapshot := make(map[string][]string, len(c.tenants))
	for tenant, ids := range c.tenants {
		cp := make([]string, len(ids))
		copy(cp, ids)
		snapshot[tenant] = cp
	}
	return c.store.Save(snapshot)
}
