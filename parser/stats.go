package parser

import (
	"sort"
	"sync"

	"github.com/Velocidex/ordereddict"
)

// Stats counts what a parse saw. Its methods may be called while
// another goroutine parses.
type Stats struct {
	mu sync.Mutex

	Lines       int
	BlankLines  int
	Transitions int
	LineKinds   map[LineKind]int
}

func NewStats() *Stats {
	return &Stats{
		LineKinds: make(map[LineKind]int),
	}
}

// Reset clears the counters in place.
func (self *Stats) Reset() {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.Lines = 0
	self.BlankLines = 0
	self.Transitions = 0
	self.LineKinds = make(map[LineKind]int)
}

func (self *Stats) Inc_Lines() {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.Lines++
}

func (self *Stats) Inc_BlankLines() {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.BlankLines++
}

func (self *Stats) Inc_Transitions() {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.Transitions++
}

func (self *Stats) Inc_Kind(kind LineKind) {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.LineKinds[kind]++
}

func (self *Stats) Get_Kind(kind LineKind) int {
	self.mu.Lock()
	defer self.mu.Unlock()

	return self.LineKinds[kind]
}

// ToDict returns the counters with line kinds in name order.
func (self *Stats) ToDict() *ordereddict.Dict {
	self.mu.Lock()
	defer self.mu.Unlock()

	kinds := make([]string, 0, len(self.LineKinds))
	for kind := range self.LineKinds {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)

	counts := ordereddict.NewDict()
	for _, kind := range kinds {
		counts.Set(kind, self.LineKinds[LineKind(kind)])
	}

	return ordereddict.NewDict().
		Set("Lines", self.Lines).
		Set("BlankLines", self.BlankLines).
		Set("Transitions", self.Transitions).
		Set("LineKinds", counts)
}
