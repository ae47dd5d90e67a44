// Package router drives the conversational state machine: it resolves a
// user's current (state, draft) tuple, dispatches the inbound input to
// the step the engine is waiting on, and persists the transition or
// hands the finished draft to the commit stage.
package router

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/petrijr/convo/internal/commit"
	"github.com/petrijr/convo/internal/flow"
	"github.com/petrijr/convo/pkg/api"
)

// DefaultTTL is the inactivity timeout of a conversation. Every valid
// transition resets the expiry to now+TTL.
const DefaultTTL = 30 * time.Minute

// Config wires a Router.
type Config struct {
	States   api.StateStore
	Records  api.RecordStore
	Locales  api.Localizer
	Observer api.Observer

	// TTL overrides DefaultTTL when > 0.
	TTL time.Duration
}

// Router implements api.Engine.
type Router struct {
	registry *flow.Registry
	states   api.StateStore
	records  api.RecordStore
	commit   *commit.Stage
	loc      api.Localizer
	observer api.Observer
	ttl      time.Duration

	now func() time.Time
}

var _ api.Engine = (*Router)(nil)

// New builds a Router with the full step registry.
func New(cfg Config) *Router {
	obs := cfg.Observer
	if obs == nil {
		obs = api.NoopObserver{}
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Router{
		registry: flow.NewRegistry(),
		states:   cfg.States,
		records:  cfg.Records,
		commit:   commit.New(cfg.Records),
		loc:      cfg.Locales,
		observer: obs,
		ttl:      ttl,
		now:      time.Now,
	}
}

// OnText routes a free-text message.
func (r *Router) OnText(ctx context.Context, ev api.TextEvent) ([]api.DeliveryAction, error) {
	if strings.TrimSpace(ev.Text) == flow.CancelText {
		o, err := r.cancel(ctx, ev.UserID, ev.Locale)
		if err != nil {
			return r.failure(ev.ChatID, ev.ThreadID, ev.Locale), err
		}
		return actions(ev.ChatID, ev.ThreadID, o.Prompt), nil
	}

	st, err := r.loadActive(ctx, ev.UserID)
	if err != nil {
		return r.failure(ev.ChatID, ev.ThreadID, ev.Locale), err
	}
	if st == nil {
		return r.unknownState(ev.ChatID, ev.ThreadID, ev.Locale), nil
	}
	return r.dispatch(ctx, st, ev.ChatID, ev.ThreadID, ev.Locale, ev.Text, true)
}

// OnCallback routes a button press. The cancel token and the menu tokens
// are router-level rules that precede step dispatch.
func (r *Router) OnCallback(ctx context.Context, ev api.CallbackEvent) ([]api.DeliveryAction, error) {
	switch {
	case ev.Token == flow.CancelToken:
		o, err := r.cancel(ctx, ev.UserID, ev.Locale)
		if err != nil {
			return r.failure(ev.ChatID, ev.ThreadID, ev.Locale), err
		}
		return actions(ev.ChatID, ev.ThreadID, o.Prompt), nil
	case ev.Token == flow.MenuRentToken:
		return r.startFlow(ctx, ev, api.NewRentDraft())
	case ev.Token == flow.MenuCustomToken:
		return r.startFlow(ctx, ev, api.NewCustomDraft())
	case strings.HasPrefix(ev.Token, flow.EditTokenPrefix):
		return r.startEdit(ctx, ev, strings.TrimPrefix(ev.Token, flow.EditTokenPrefix))
	}

	st, err := r.loadActive(ctx, ev.UserID)
	if err != nil {
		return r.failure(ev.ChatID, ev.ThreadID, ev.Locale), err
	}
	if st == nil {
		return r.unknownState(ev.ChatID, ev.ThreadID, ev.Locale), nil
	}
	return r.dispatch(ctx, st, ev.ChatID, ev.ThreadID, ev.Locale, ev.Token, false)
}

// PurgeExpired physically deletes expired state rows.
func (r *Router) PurgeExpired(ctx context.Context) (int, error) {
	return r.states.PurgeExpired(ctx, r.now())
}

// loadActive loads the user's state, applying the read-time expiry
// policy: missing and expired rows both come back as nil.
func (r *Router) loadActive(ctx context.Context, userID int64) (*api.ConversationState, error) {
	st, err := r.states.Load(ctx, userID)
	if err != nil {
		if errors.Is(err, api.ErrStateNotFound) {
			return nil, nil
		}
		return nil, api.NewPersistenceError("load state", err)
	}
	if r.now().After(st.ExpiresAt) {
		return nil, nil
	}
	return st, nil
}

// startFlow begins (or restarts) a flow. Any in-flight draft for the
// user is silently discarded: the new first-step state overwrites it.
func (r *Router) startFlow(ctx context.Context, ev api.CallbackEvent, d api.Draft) ([]api.DeliveryAction, error) {
	first := r.registry.First(d.Kind)
	st := &api.ConversationState{
		UserID:    ev.UserID,
		StateID:   first.ID,
		Draft:     d,
		ExpiresAt: r.now().Add(r.ttl),
	}
	if err := r.states.Save(ctx, st); err != nil {
		return r.failure(ev.ChatID, ev.ThreadID, ev.Locale), api.NewPersistenceError("save state", err)
	}
	r.observer.OnFlowStarted(ctx, ev.UserID, d.Kind)

	p := r.registry.PromptFor(first.ID, &st.Draft, r.loc, ev.Locale)
	return actions(ev.ChatID, ev.ThreadID, p), nil
}

// startEdit begins the edit flow after checking the agreement exists and
// belongs to the requesting user.
func (r *Router) startEdit(ctx context.Context, ev api.CallbackEvent, agreementID string) ([]api.DeliveryAction, error) {
	ag, err := r.records.GetAgreement(ctx, agreementID)
	if err != nil {
		if errors.Is(err, api.ErrAgreementNotFound) {
			return r.prompt(ev.ChatID, ev.ThreadID, ev.Locale, "error.agreement_not_found"), nil
		}
		return r.failure(ev.ChatID, ev.ThreadID, ev.Locale), api.NewPersistenceError("get agreement", err)
	}
	if ag.UserID != ev.UserID {
		return r.prompt(ev.ChatID, ev.ThreadID, ev.Locale, "error.agreement_not_found"), nil
	}
	return r.startFlow(ctx, ev, api.NewEditDraft(agreementID))
}

// cancel deletes the user's state if any. Cancelling with no active flow
// is a deliberate no-op: the outcome carries only the notice, no Kind.
func (r *Router) cancel(ctx context.Context, userID int64, locale string) (api.Outcome, error) {
	st, err := r.loadActive(ctx, userID)
	if err != nil {
		return api.Outcome{}, err
	}
	if st == nil {
		return api.Outcome{
			Prompt: api.Prompt{Text: r.loc.Localize(locale, "cancel.nothing")},
		}, nil
	}
	if err := r.states.Clear(ctx, userID); err != nil {
		return api.Outcome{}, api.NewPersistenceError("clear state", err)
	}
	r.observer.OnFlowCancelled(ctx, userID, st.StateID)
	return api.Outcome{
		Kind:   api.OutcomeCancelled,
		Prompt: api.Prompt{Text: r.loc.Localize(locale, "cancel.done")},
	}, nil
}

// dispatch runs the step the user's state addresses against the input
// and renders the resulting Outcome into delivery actions.
func (r *Router) dispatch(ctx context.Context, st *api.ConversationState, chatID, threadID int64, locale, raw string, isText bool) ([]api.DeliveryAction, error) {
	o, err := r.route(ctx, st, locale, raw, isText)
	if err != nil && o.Prompt.Text == "" {
		return r.failure(chatID, threadID, locale), err
	}
	return actions(chatID, threadID, o.Prompt), err
}

// route runs the current step against the input and classifies what
// happened to the flow. Validation happens before any draft mutation, so
// a rejected input leaves the persisted tuple byte-for-byte unchanged.
func (r *Router) route(ctx context.Context, st *api.ConversationState, locale, raw string, isText bool) (api.Outcome, error) {
	started := r.now()

	step, ok := r.registry.Lookup(st.StateID)
	if !ok {
		return api.Outcome{
			Kind:   api.OutcomeRejected,
			Reason: "error.unknown_state",
			Prompt: api.Prompt{Text: r.loc.Localize(locale, "error.unknown_state")},
		}, nil
	}

	if isText != (step.Kind == flow.KindText) {
		key := "error.expected_choice"
		if !isText {
			key = "error.expected_text"
		}
		return r.reject(ctx, st, locale, key), nil
	}

	v, err := step.Validate(&st.Draft, raw)
	if err != nil {
		if verr, ok := api.AsValidationError(err); ok {
			return r.reject(ctx, st, locale, verr.Reason, verr.Args...), nil
		}
		return api.Outcome{}, err
	}

	next := step.Apply(&st.Draft, v)
	if next == flow.Terminal {
		return r.complete(ctx, st, locale)
	}

	from := st.StateID
	st.StateID = next
	st.ExpiresAt = r.now().Add(r.ttl)
	if err := r.states.Save(ctx, st); err != nil {
		return api.Outcome{}, api.NewPersistenceError("save state", err)
	}
	r.observer.OnStepAdvanced(ctx, st.UserID, from, next, r.now().Sub(started))

	return api.Outcome{
		Kind:        api.OutcomeAdvance,
		NextStateID: next,
		Prompt:      r.registry.PromptFor(next, &st.Draft, r.loc, locale),
	}, nil
}

// complete invokes the commit stage. On failure the state row is kept so
// the user can re-drive the terminal step; the error is the operator's
// signal, reported through the observer.
func (r *Router) complete(ctx context.Context, st *api.ConversationState, locale string) (api.Outcome, error) {
	agreementID, err := r.commit.Commit(ctx, st.UserID, &st.Draft)
	if err != nil {
		r.observer.OnCommitFailed(ctx, st.UserID, st.Draft.Kind, err)
		return api.Outcome{
			Prompt: api.Prompt{Text: r.loc.Localize(locale, "error.generic")},
		}, err
	}

	o := api.Outcome{
		Kind:        api.OutcomeCompleted,
		AgreementID: agreementID,
		Prompt:      api.Prompt{Text: r.loc.Localize(locale, "commit.success."+string(st.Draft.Kind))},
	}
	if err := r.states.Clear(ctx, st.UserID); err != nil {
		// Records exist; a stale state row only costs the user a
		// start-over prompt once it expires.
		return o, api.NewPersistenceError("clear state", err)
	}
	r.observer.OnFlowCompleted(ctx, st.UserID, st.Draft.Kind, agreementID)
	return o, nil
}

// reject re-shows the current step's prompt with the validation reason
// on top. No persistence write, no expiry reset.
func (r *Router) reject(ctx context.Context, st *api.ConversationState, locale, reasonKey string, args ...any) api.Outcome {
	reason := r.loc.Localize(locale, reasonKey, args...)
	r.observer.OnInputRejected(ctx, st.UserID, st.StateID, reasonKey)

	p := r.registry.PromptFor(st.StateID, &st.Draft, r.loc, locale)
	p.Text = reason + "\n\n" + p.Text
	return api.Outcome{Kind: api.OutcomeRejected, Reason: reasonKey, Prompt: p}
}

func (r *Router) unknownState(chatID, threadID int64, locale string) []api.DeliveryAction {
	return r.prompt(chatID, threadID, locale, "error.unknown_state")
}

func (r *Router) failure(chatID, threadID int64, locale string) []api.DeliveryAction {
	return r.prompt(chatID, threadID, locale, "error.generic")
}

func (r *Router) prompt(chatID, threadID int64, locale, key string, args ...any) []api.DeliveryAction {
	return actions(chatID, threadID, api.Prompt{Text: r.loc.Localize(locale, key, args...)})
}

func actions(chatID, threadID int64, p api.Prompt) []api.DeliveryAction {
	return []api.DeliveryAction{{
		ChatID:   chatID,
		ThreadID: threadID,
		Text:     p.Text,
		Keyboard: p.Keyboard,
	}}
}
