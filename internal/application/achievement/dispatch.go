package achievement

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/go-badge-engine/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultRoutes maps each trigger kind to the badges it may make eligible.
func DefaultRoutes() map[domain.TriggerKind][]string {
	return map[domain.TriggerKind][]string{
		domain.TriggerTradeComplete: {
			domain.BadgeFirstDeal, domain.BadgePowerSeller, domain.BadgeTrustedTrader,
			domain.BadgeExplorer, domain.BadgeVeteran,
		},
		domain.TriggerPostCreated:         {domain.BadgeFirstPost, domain.BadgeExplorer, domain.BadgeCommunityStar},
		domain.TriggerCommentCreated:      {domain.BadgeActiveCommenter, domain.BadgeCommunityStar},
		domain.TriggerChatResponded:       {domain.BadgeFastResponder},
		domain.TriggerProductAdded:        {domain.BadgeFirstListing, domain.BadgeShopOwner},
		domain.TriggerVerificationUpdated: {domain.BadgeVerifiedMember, domain.BadgeVeteran},
		domain.TriggerEventParticipated:   {domain.BadgeEventParticipant},
	}
}

// DispatchTable resolves a trigger kind to its evaluators.
type DispatchTable struct {
	routes     map[domain.TriggerKind][]string
	evaluators map[string]RuleEvaluator
}

func NewDispatchTable(routes map[domain.TriggerKind][]string, evaluators map[string]RuleEvaluator) *DispatchTable {
	return &DispatchTable{routes: routes, evaluators: evaluators}
}

// Evaluators returns the evaluators registered for kind.
func (t *DispatchTable) Evaluators(kind domain.TriggerKind) ([]RuleEvaluator, error) {
	keys, ok := t.routes[kind]
	if !ok {
		return nil, fmt.Errorf("%q: %w", kind, domain.ErrUnknownTrigger)
	}
	out := make([]RuleEvaluator, 0, len(keys))
	for _, k := range keys {
		if e, ok := t.evaluators[k]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// Validate checks that every known trigger kind is routed to at least one
// badge and that every routed badge has an evaluator and a catalog entry.
func (t *DispatchTable) Validate() error {
	var errs []error
	for _, kind := range domain.TriggerKinds {
		if len(t.routes[kind]) == 0 {
			errs = append(errs, fmt.Errorf("trigger %q has no evaluators", kind))
		}
	}
	for kind, keys := range t.routes {
		for _, k := range keys {
			if _, ok := t.evaluators[k]; !ok {
				errs = append(errs, fmt.Errorf("trigger %q: badge %s has no evaluator", kind, k))
			}
			if _, ok := domain.CatalogBadge(k); !ok {
				errs = append(errs, fmt.Errorf("trigger %q: badge %s is not in the catalog", kind, k))
			}
		}
	}
	return errors.Join(errs...)
}

// Awarder grants a badge at most once.
type Awarder interface {
	Award(ctx context.Context, userID, badgeKey string) (bool, error)
}

// DispatchReport summarises one Dispatch call.
type DispatchReport struct {
	Trigger     domain.TriggerKind
	UserID      string
	Evaluated   int
	Awarded     []string
	AlreadyHeld []string
	Failed      map[string]error
}

// Dispatcher runs the evaluators selected for a trigger and awards every
// badge that comes out eligible.
type Dispatcher struct {
	table   *DispatchTable
	awarder Awarder
	workers int
	logger  *zap.Logger
}

func NewDispatcher(table *DispatchTable, awarder Awarder, workers int, logger *zap.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	return &Dispatcher{table: table, awarder: awarder, workers: workers, logger: logger}
}

// Dispatch evaluates kind's badges for userID concurrently. A failing
// evaluator or award is recorded in the report and never stops the others.
func (d *Dispatcher) Dispatch(ctx context.Context, kind domain.TriggerKind, userID string) (*DispatchReport, error) {
	evaluators, err := d.table.Evaluators(kind)
	if err != nil {
		return nil, err
	}

	report := &DispatchReport{
		Trigger:     kind,
		UserID:      userID,
		Evaluated:   len(evaluators),
		Awarded:     []string{},
		AlreadyHeld: []string{},
		Failed:      map[string]error{},
	}
	var mu sync.Mutex

	// Plain group: one failure must not cancel its siblings.
	g := new(errgroup.Group)
	g.SetLimit(d.workers)
	for _, e := range evaluators {
		e := e
		g.Go(func() error {
			key := e.BadgeKey()
			eligible, err := e.Evaluate(ctx, userID)
			if err != nil {
				d.logger.Warn("rule evaluation failed",
					zap.String("trigger", string(kind)), zap.String("user_id", userID),
					zap.String("badge_key", key), zap.Error(err))
				mu.Lock()
				report.Failed[key] = err
				mu.Unlock()
				return nil
			}
			if !eligible {
				return nil
			}
			awarded, err := d.awarder.Award(ctx, userID, key)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				d.logger.Error("award failed",
					zap.String("user_id", userID), zap.String("badge_key", key), zap.Error(err))
				report.Failed[key] = err
			case awarded:
				report.Awarded = append(report.Awarded, key)
			default:
				report.AlreadyHeld = append(report.AlreadyHeld, key)
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(report.Awarded)
	sort.Strings(report.AlreadyHeld)
	d.logger.Info("trigger dispatched",
		zap.String("trigger", string(kind)), zap.String("user_id", userID),
		zap.Int("evaluated", report.Evaluated), zap.Strings("awarded", report.Awarded),
		zap.Int("failed", len(report.Failed)))
	return report, nil
}
