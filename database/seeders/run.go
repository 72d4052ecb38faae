// Package seeders registers database seed functions, run via the CLI
// seed command in registration order.
package seeders

import (
	"fmt"
	"sync"

	"gorm.io/gorm"
)

// SeederFunc inserts seed rows. Seeders are expected to be idempotent:
// re-running against a populated database should change nothing.
type SeederFunc func(db *gorm.DB) error

type seeder struct {
	name string
	fn   SeederFunc
}

var (
	mu       sync.Mutex
	registry []seeder
)

// Register adds a seeder. Call from init() in the seeder files.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	registry = append(registry, seeder{name: name, fn: fn})
}

// RunAll executes every registered seeder, stopping on the first error.
func RunAll(db *gorm.DB) error {
	mu.Lock()
	current := make([]seeder, len(registry))
	copy(current, registry)
	mu.Unlock()

	for _, s := range current {
		fmt.Printf("  seeding %s\n", s.name)
		if err := s.fn(db); err != nil {
			return fmt.Errorf("seeder %q: %w", s.name, err)
		}
	}
	return nil
}
