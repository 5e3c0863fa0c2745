// Package store holds the named scenarios of a planning session, the
// selected-scenario pointer, and their persisted JSON document.
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/brewery-planner/internal/scenario"
	"github.com/iwvelando/brewery-planner/pkg/constants"
	"go.uber.org/zap"
)

var (
	// ErrScenarioNotFound is returned for names that do not resolve.
	ErrScenarioNotFound = errors.New("scenario not found")

	// ErrScenarioExists is returned when renaming onto a taken name.
	ErrScenarioExists = errors.New("scenario already exists")

	// ErrLastScenario is returned when deleting the only scenario.
	ErrLastScenario = errors.New("cannot delete the last scenario")

	// ErrNoScenarios is returned when the store holds no scenarios.
	ErrNoScenarios = errors.New("store has no scenarios")
)

// Store is an ordered collection of named scenarios plus the selected name.
// Scenarios returned by Get and Current are live; edits to them are kept.
type Store struct {
	logger    *zap.Logger
	names     []string
	scenarios map[string]*scenario.Scenario
	selected  string
}

// New returns a store holding a single default "Base" scenario.
func New(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{logger: logger, scenarios: make(map[string]*scenario.Scenario)}
	s.put(constants.DefaultScenarioName, scenario.Default())
	s.selected = constants.DefaultScenarioName
	return s
}

func empty(logger *zap.Logger) *Store {
	return &Store{logger: logger, scenarios: make(map[string]*scenario.Scenario)}
}

// put inserts or replaces; a replaced name keeps its position.
func (s *Store) put(name string, sc *scenario.Scenario) {
	if _, ok := s.scenarios[name]; !ok {
		s.names = append(s.names, name)
	}
	s.scenarios[name] = sc
}

// Len returns the number of scenarios.
func (s *Store) Len() int {
	return len(s.names)
}

// Names returns the scenario names in order.
func (s *Store) Names() []string {
	return append([]string(nil), s.names...)
}

// Selected returns the selected scenario name.
func (s *Store) Selected() string {
	return s.selected
}

// Has reports whether a scenario exists.
func (s *Store) Has(name string) bool {
	_, ok := s.scenarios[name]
	return ok
}

// Select changes the selected scenario.
func (s *Store) Select(name string) error {
	if !s.Has(name) {
		return fmt.Errorf("select %q: %w", name, ErrScenarioNotFound)
	}
	s.selected = name
	return nil
}

// Current returns the selected scenario and its name.
func (s *Store) Current() (string, *scenario.Scenario, error) {
	if len(s.names) == 0 {
		return "", nil, ErrNoScenarios
	}
	sc, ok := s.scenarios[s.selected]
	if !ok {
		return "", nil, fmt.Errorf("selected %q: %w", s.selected, ErrScenarioNotFound)
	}
	return s.selected, sc, nil
}

// Get returns the named scenario.
func (s *Store) Get(name string) (*scenario.Scenario, error) {
	sc, ok := s.scenarios[name]
	if !ok {
		return nil, fmt.Errorf("get %q: %w", name, ErrScenarioNotFound)
	}
	return sc, nil
}

// uniqueName returns base, or base followed by " 2", " 3", ... until free.
func (s *Store) uniqueName(base string) string {
	name := base
	for i := 2; s.Has(name); i++ {
		name = fmt.Sprintf("%s %d", base, i)
	}
	return name
}

// Create adds a default scenario and selects it. A blank name uses the
// default new-scenario name; taken names receive a numeric suffix. The final
// name is returned.
func (s *Store) Create(name string) string {
	base := strings.TrimSpace(name)
	if base == "" {
		base = constants.NewScenarioName
	}
	final := s.uniqueName(base)
	s.put(final, scenario.Default())
	s.selected = final
	s.logger.Debug(fmt.Sprintf("created scenario %s", final),
		zap.String("op", "store.Create"),
	)
	return final
}

// Duplicate deep-copies the selected scenario as "<name> (cópia)", with a
// numeric suffix when taken, and selects the copy.
func (s *Store) Duplicate() (string, error) {
	cur, sc, err := s.Current()
	if err != nil {
		return "", err
	}
	final := s.uniqueName(cur + constants.CopySuffix)
	s.put(final, sc.Clone())
	s.selected = final
	s.logger.Debug(fmt.Sprintf("duplicated scenario %s as %s", cur, final),
		zap.String("op", "store.Duplicate"),
	)
	return final, nil
}

// Delete removes a scenario. The last remaining scenario cannot be deleted.
// Deleting the selected scenario selects the first remaining one.
func (s *Store) Delete(name string) error {
	if !s.Has(name) {
		return fmt.Errorf("delete %q: %w", name, ErrScenarioNotFound)
	}
	if len(s.names) <= 1 {
		return fmt.Errorf("delete %q: %w", name, ErrLastScenario)
	}
	delete(s.scenarios, name)
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			break
		}
	}
	if s.selected == name {
		s.selected = s.names[0]
	}
	return nil
}

// Rename changes a scenario's name in place, keeping its position and the
// selection.
func (s *Store) Rename(oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("rename %q: %w", oldName, scenario.ErrInvalidName)
	}
	sc, ok := s.scenarios[oldName]
	if !ok {
		return fmt.Errorf("rename %q: %w", oldName, ErrScenarioNotFound)
	}
	if newName == oldName {
		return nil
	}
	if s.Has(newName) {
		return fmt.Errorf("rename %q to %q: %w", oldName, newName, ErrScenarioExists)
	}
	delete(s.scenarios, oldName)
	s.scenarios[newName] = sc
	for i, n := range s.names {
		if n == oldName {
			s.names[i] = newName
			break
		}
	}
	if s.selected == oldName {
		s.selected = newName
	}
	return nil
}

// Put stores a scenario under name, replacing any existing one in place.
func (s *Store) Put(name string, sc *scenario.Scenario) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("put: %w", scenario.ErrInvalidName)
	}
	if sc == nil {
		sc = scenario.Default()
	}
	sc.Recompute()
	s.put(name, sc)
	if s.selected == "" {
		s.selected = name
	}
	return nil
}

// ApplyBulkUpdate replaces the groups supplied in fm on the named scenario.
func (s *Store) ApplyBulkUpdate(name string, fm scenario.FieldMap) error {
	sc, err := s.Get(name)
	if err != nil {
		return err
	}
	sc.ApplyBulk(fm)
	s.logger.Debug(fmt.Sprintf("applied bulk update to scenario %s", name),
		zap.String("op", "store.ApplyBulkUpdate"),
		zap.Int("groups", len(fm)),
	)
	return nil
}

// Export returns every group of the named scenario.
func (s *Store) Export(name string) (scenario.FieldMap, error) {
	sc, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	return scenario.Export(sc), nil
}
