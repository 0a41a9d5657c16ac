package agent

import (
	"errors"
	"fmt"
	"sort"

	"deepchess/game"
	"deepchess/searcher"
)

var ErrDuplicateAgent = errors.New("agent name already registered")

// Step is one move chosen by an agent.
type Step struct {
	Move  game.Move
	State game.State // after Move
	Stats searcher.Stats
}

type Agent interface {
	Name() string
	// Step picks a move for the side to move. A non-zero budget replaces the
	// agent's own search limits.
	Step(state game.State, budget searcher.Budget) (Step, error)
}

// Registry maps engine names to agents. It is filled once at start-up and only
// read afterwards.
type Registry struct {
	agents map[string]Agent
}

func NewRegistry(agents ...Agent) (*Registry, error) {
	r := &Registry{agents: make(map[string]Agent, len(agents))}
	for _, a := range agents {
		if err := r.Register(a); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(a Agent) error {
	if _, ok := r.agents[a.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateAgent, a.Name())
	}
	r.agents[a.Name()] = a
	return nil
}

func (r *Registry) Get(name string) (Agent, bool) {
	a, ok := r.agents[name]
	return a, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.agents))
	for name := range r.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type named struct {
	Agent
	name string
}

// Named serves a under another name.
func Named(name string, a Agent) Agent {
	if a.Name() == name {
		return a
	}
	return named{Agent: a, name: name}
}

func (n named) Name() string {
	return n.name
}
