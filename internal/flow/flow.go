// Package flow defines the step tables of the conversational flows: for
// each step, how to validate the user's answer, how the answer mutates
// the draft, which step comes next, and what to ask the user.
//
// All three flows are built once into a single immutable Registry keyed
// by state id. Steps are declarative and free of delivery concerns, so
// each transition can be tested in isolation.
package flow

import (
	"strings"

	"github.com/petrijr/convo/pkg/api"
)

// InputKind says what kind of answer a step is waiting for.
type InputKind int

const (
	// KindText expects a free-text message.
	KindText InputKind = iota
	// KindChoice expects a callback token from an inline keyboard.
	KindChoice
	// KindConfirm expects a yes/no (or confirm) callback token.
	KindConfirm
)

// Terminal is the next-state value a transition returns when the flow is
// finished and the draft should be handed to the commit stage.
const Terminal = ""

// Router-level tokens, recognized independent of the current step.
const (
	CancelToken = "cancel"
	CancelText  = "/cancel"

	MenuRentToken   = "menu:rent"
	MenuCustomToken = "menu:custom"
	EditTokenPrefix = "edit:"
)

// Step describes one state of a flow: the answer the engine is waiting
// for while the user's state id equals ID.
type Step struct {
	ID   string
	Kind InputKind

	// Validate turns the raw input into a typed value or returns a
	// *api.ValidationError. It never mutates the draft.
	Validate func(d *api.Draft, raw string) (any, error)

	// Apply mutates the draft with the validated value and returns the
	// next state id, or Terminal when the flow is complete. Branching is
	// expressed by returning different ids for different values.
	Apply func(d *api.Draft, v any) string

	// Prompt builds the outbound question for this step.
	Prompt func(d *api.Draft, loc api.Localizer, locale string) api.Prompt
}

// Registry is the immutable table of all steps across all flows, built
// once at startup.
type Registry struct {
	steps map[string]*Step
	order map[api.FlowKind][]string
}

// NewRegistry builds the registry for the rent, custom and edit flows.
func NewRegistry() *Registry {
	r := &Registry{
		steps: make(map[string]*Step),
		order: make(map[api.FlowKind][]string),
	}
	r.add(api.FlowRent, rentSteps())
	r.add(api.FlowCustom, customSteps())
	r.add(api.FlowEdit, editSteps())
	return r
}

func (r *Registry) add(kind api.FlowKind, steps []*Step) {
	for _, s := range steps {
		if _, dup := r.steps[s.ID]; dup {
			panic("flow: duplicate step id " + s.ID)
		}
		r.steps[s.ID] = s
		r.order[kind] = append(r.order[kind], s.ID)
	}
}

// Lookup returns the step owning the given state id.
func (r *Registry) Lookup(stateID string) (*Step, bool) {
	s, ok := r.steps[stateID]
	return s, ok
}

// First returns the entry step of a flow.
func (r *Registry) First(kind api.FlowKind) *Step {
	return r.steps[r.order[kind][0]]
}

// Position returns the 1-based position of a step within its flow and
// the flow's total step count. The ordered token list is the single
// source of truth for "step N of M".
func (r *Registry) Position(stateID string) (n, total int) {
	kind, ok := FlowOf(stateID)
	if !ok {
		return 0, 0
	}
	ids := r.order[kind]
	for i, id := range ids {
		if id == stateID {
			return i + 1, len(ids)
		}
	}
	return 0, len(ids)
}

// PromptFor builds the full prompt for a step, including the
// "step N of M" progress line.
func (r *Registry) PromptFor(stateID string, d *api.Draft, loc api.Localizer, locale string) api.Prompt {
	s, ok := r.Lookup(stateID)
	if !ok {
		return api.Prompt{Text: loc.Localize(locale, "error.unknown_state")}
	}
	p := s.Prompt(d, loc, locale)
	if n, total := r.Position(stateID); n > 0 {
		p.Text = loc.Localize(locale, "prompt.step_of", n, total) + "\n" + p.Text
	}
	return p
}

// FlowOf resolves the owning flow from a state id via the naming prefix
// convention (rent_*, custom_*, edit_*).
func FlowOf(stateID string) (api.FlowKind, bool) {
	switch {
	case strings.HasPrefix(stateID, "rent_"):
		return api.FlowRent, true
	case strings.HasPrefix(stateID, "custom_"):
		return api.FlowCustom, true
	case strings.HasPrefix(stateID, "edit_"):
		return api.FlowEdit, true
	default:
		return "", false
	}
}
