package state

import (
	"context"
	"fmt"
	"time"

	"warehouse-ops-backend/internal/ai"
	"warehouse-ops-backend/internal/fleet"
	"warehouse-ops-backend/internal/notification"
	"warehouse-ops-backend/internal/parse"
	"warehouse-ops-backend/internal/store"
)

// ExecutionResult summarises what executing a plan changed.
type ExecutionResult struct {
	SuggestionID string      `json:"suggestionId"`
	Bots         []fleet.Bot `json:"bots"`
	Flagged      []string    `json:"flagged"`
}

// BeginSuggestions starts a co-pilot refresh and returns its sequence number.
func (a *App) BeginSuggestions() uint64 {
	return a.suggestions.Begin()
}

// SetSuggestions publishes the result of refresh seq. A result from a refresh
// that has since been superseded is discarded and false is returned.
func (a *App) SetSuggestions(seq uint64, list []ai.Suggestion) bool {
	cp := make([]ai.Suggestion, len(list))
	for i, s := range list {
		cp[i] = s.Clone()
	}
	kept := a.suggestions.Publish(seq, cp)
	if !kept {
		a.log.Debug().Uint64("seq", seq).Msg("discarding superseded co-pilot suggestions")
	}
	return kept
}

// Suggestions returns the current co-pilot plans.
func (a *App) Suggestions() []ai.Suggestion {
	list, _ := a.suggestions.Load()
	out := make([]ai.Suggestion, len(list))
	for i, s := range list {
		out[i] = s.Clone()
	}
	return out
}

// DismissSuggestion drops a plan without applying it.
func (a *App) DismissSuggestion(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.findSuggestion(id); !ok {
		return fmt.Errorf("%w: %s", ErrSuggestionNotFound, id)
	}
	a.removeSuggestion(id)
	return nil
}

// ExecuteSuggestion applies every step of a plan as one change: bot
// assignments go through the task rules and reorder flags are added. Nothing
// is applied if any step fails.
func (a *App) ExecuteSuggestion(ctx context.Context, id string) (ExecutionResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	sug, ok := a.findSuggestion(id)
	if !ok {
		return ExecutionResult{}, fmt.Errorf("%w: %s", ErrSuggestionNotFound, id)
	}
	if !sug.Actionable() {
		return ExecutionResult{}, fmt.Errorf("%w: %s", ErrNotActionable, id)
	}

	now := a.clock()
	bots := append([]fleet.Bot(nil), a.bots...)
	before := map[int]int{} // index -> history length before the plan
	var order []int         // touched bot indices, in step order
	var flagIDs []string

	for _, st := range sug.Steps {
		switch st.ActionType {
		case ai.ActionAssignBot:
			botID, task := st.String("botId"), st.String("task")
			i := fleet.Find(bots, botID)
			if i < 0 {
				return ExecutionResult{}, fmt.Errorf("%w: %s", fleet.ErrBotNotFound, botID)
			}
			if _, seen := before[i]; !seen {
				before[i] = len(bots[i].History)
				order = append(order, i)
			}
			updated, err := fleet.AssignTask(bots[i], task, detailsFor(st, task), now)
			if err != nil {
				return ExecutionResult{}, fmt.Errorf("step %q: %w", st.Description, err)
			}
			bots[i] = updated
		case ai.ActionFlagReorder:
			flagIDs = append(flagIDs, st.ProductIDs()...)
		}
	}

	flags, added, err := a.withFlags(a.reorder, flagIDs)
	if err != nil {
		return ExecutionResult{}, err
	}

	changes := make([]store.BotChange, 0, len(order))
	result := ExecutionResult{SuggestionID: id, Bots: []fleet.Bot{}, Flagged: append([]string{}, added...)}
	for _, i := range order {
		changes = append(changes, store.BotChange{Bot: bots[i], Appended: len(bots[i].History) - before[i]})
		result.Bots = append(result.Bots, bots[i].Clone())
	}
	if err := a.store.SaveBots(ctx, changes); err != nil {
		return ExecutionResult{}, err
	}
	if len(added) > 0 {
		if err := a.saveFlags(ctx, flags); err != nil {
			return ExecutionResult{}, err
		}
	}

	a.bots = bots
	a.reorder = flags
	a.removeSuggestion(id)
	for _, b := range result.Bots {
		a.publish(notification.EntryForTask(b, now))
	}
	a.publish(notification.EntryForPlan(sug.IssueTitle, now))
	a.log.Info().Str("suggestion_id", id).Int("bots", len(changes)).Int("flagged", len(added)).Msg("co-pilot plan executed")
	return result, nil
}

// detailsFor picks the task details from the step, falling back to the text
// after the task prefix.
func detailsFor(st ai.Step, task string) string {
	if d := st.String("details"); d != "" {
		return d
	}
	return parse.DetailsFor(task)
}

func (a *App) findSuggestion(id string) (ai.Suggestion, bool) {
	list, _ := a.suggestions.Load()
	for _, s := range list {
		if s.ID == id {
			return s.Clone(), true
		}
	}
	return ai.Suggestion{}, false
}

func (a *App) removeSuggestion(id string) {
	a.suggestions.Update(func(list []ai.Suggestion) []ai.Suggestion {
		out := make([]ai.Suggestion, 0, len(list))
		for _, s := range list {
			if s.ID != id {
				out = append(out, s)
			}
		}
		return out
	})
}

// BeginDelegation starts a delegation request and returns its sequence number.
func (a *App) BeginDelegation() uint64 {
	return a.delegation.Begin()
}

// SetDelegation publishes a delegation recommendation unless a newer request
// has been issued since seq.
func (a *App) SetDelegation(seq uint64, d ai.Delegation) bool {
	return a.delegation.Publish(seq, d)
}

// Delegation returns the latest delegation recommendation.
func (a *App) Delegation() (ai.Delegation, bool) {
	return a.delegation.Load()
}

// ConfirmDelegation assigns the latest delegation recommendation through the
// normal task rules and consumes it, so a recommendation is applied at most
// once. When the assignment fails the recommendation is kept, unless a newer
// delegation request has started meanwhile.
func (a *App) ConfirmDelegation(ctx context.Context) (fleet.Bot, error) {
	d, seq, ok := a.delegation.Take()
	if !ok {
		return fleet.Bot{}, ErrNoDelegation
	}
	b, err := a.AssignTask(ctx, d.BotID, d.Task, parse.DetailsFor(d.Task))
	if err != nil {
		a.delegation.Publish(seq, d)
		return fleet.Bot{}, err
	}
	a.log.Info().Str("bot_id", d.BotID).Str("task", d.Task).Msg("delegation confirmed")
	return b, nil
}

// Now is the state clock, shared with callers that stamp their own records.
func (a *App) Now() time.Time {
	return a.clock()
}
