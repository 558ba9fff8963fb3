package service

import (
	"context"
	"errors"
	"strings"

	"shipping-distance/internal/core/apperr"
	"shipping-distance/internal/core/logger"
	distance "shipping-distance/internal/features/distance/domain"
	"shipping-distance/internal/features/shipping/domain"
	"shipping-distance/internal/features/shipping/ports"

	"go.uber.org/zap"
)

// Outcome is the terminal state of one calculation.
type Outcome string

const (
	OutcomeNotConfigured       Outcome = "not_configured"
	OutcomeNoOrigin            Outcome = "no_origin"
	OutcomeNoDestination       Outcome = "no_destination"
	OutcomeNothingToShip       Outcome = "nothing_to_ship"
	OutcomeDistanceFetchFailed Outcome = "distance_fetch_failed"
	OutcomeNoRuleMatch         Outcome = "no_rule_match"
	OutcomeFreeShippingApplied Outcome = "free_shipping_applied"
	OutcomeCostComputed        Outcome = "cost_computed"
)

// Result is what a calculation produced. Rate is nil when the rate is withheld,
// in which case Err holds the cause.
type Result struct {
	Outcome Outcome
	Rate    *domain.RateDescriptor
	Err     error
}

// Withheld reports whether no rate is offered.
func (r Result) Withheld() bool {
	return r.Rate == nil
}

// Rates returns the offered rates, empty when withheld.
func (r Result) Rates() []domain.RateDescriptor {
	if r.Rate == nil {
		return []domain.RateDescriptor{}
	}
	return []domain.RateDescriptor{*r.Rate}
}

// ShippingCalculator turns a cart into a distance based shipping rate.
type ShippingCalculator struct {
	settings  ports.SettingsProvider
	distances ports.DistanceFetcher
	override  ports.CostOverride
	log       *zap.Logger
}

// Option customizes a ShippingCalculator.
type Option func(*ShippingCalculator)

// WithCostOverride installs a final cost adjustment.
func WithCostOverride(o ports.CostOverride) Option {
	return func(c *ShippingCalculator) {
		c.override = o
	}
}

// NewShippingCalculator creates a new instance of ShippingCalculator.
func NewShippingCalculator(settings ports.SettingsProvider, distances ports.DistanceFetcher, opts ...Option) *ShippingCalculator {
	c := &ShippingCalculator{
		settings:  settings,
		distances: distances,
		log:       logger.Named("shipping"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Calculate prices the cart. Every failure withholds the rate and is logged;
// none is returned to the caller as an error.
func (c *ShippingCalculator) Calculate(ctx context.Context, cart domain.Cart) Result {
	s := c.settings.Current()
	if s == nil {
		return c.notConfigured("shipping settings are not loaded")
	}

	if s.Origin.IsZero() {
		err := apperr.Configuration("origin is not configured").WithCode("NO_ORIGIN")
		c.log.Warn("Shipping rate withheld", zap.String("outcome", string(OutcomeNoOrigin)), zap.Error(err))
		return Result{Outcome: OutcomeNoOrigin, Err: err}
	}

	if s.Table.Len() == 0 {
		return c.notConfigured("no rate table is configured")
	}

	if err := checkDestination(s, cart.Destination); err != nil {
		c.log.Info("Shipping rate withheld", zap.String("outcome", string(OutcomeNoDestination)), zap.Error(err))
		return Result{Outcome: OutcomeNoDestination, Err: err}
	}

	if len(cart.ShippableLines()) == 0 {
		c.log.Info("Shipping rate withheld", zap.String("outcome", string(OutcomeNothingToShip)))
		return Result{Outcome: OutcomeNothingToShip, Err: domain.ErrNothingToShip}
	}

	dist, err := c.distances.Fetch(ctx, s.DistanceQuery(cart.Destination), s.FetchOptions(cart))
	if err != nil {
		if apperr.CodeOf(err) == "NO_DESTINATION" {
			c.log.Info("Shipping rate withheld", zap.String("outcome", string(OutcomeNoDestination)), zap.Error(err))
			return Result{Outcome: OutcomeNoDestination, Err: err}
		}
		c.log.Error("Shipping rate withheld",
			zap.String("outcome", string(OutcomeDistanceFetchFailed)),
			zap.Stringer("kind", apperr.KindOf(err)),
			zap.Error(err),
		)
		return Result{Outcome: OutcomeDistanceFetchFailed, Err: err}
	}

	summary := cart.Summary()
	rule, err := s.Table.Match(dist.Distance, summary)
	if err != nil {
		c.log.Info("Shipping rate withheld",
			zap.String("outcome", string(OutcomeNoRuleMatch)),
			zap.Float64("distance", dist.Distance),
			zap.Float64("subtotal", summary.Subtotal),
			zap.Int("quantity", summary.Quantity),
		)
		return Result{Outcome: OutcomeNoRuleMatch, Err: err}
	}

	if s.Debug {
		c.log.Info("Rate rule matched",
			zap.Float64("distance", dist.Distance),
			zap.String("distance_label", dist.DistanceLabel),
			zap.Float64("rule_max_distance", rule.MaxDistance),
		)
	}

	if freeShippingFor(s, rule).Qualifies(summary) {
		return Result{
			Outcome: OutcomeFreeShippingApplied,
			Rate: &domain.RateDescriptor{
				ID:    domain.MethodID,
				Label: domain.RateLabel(s, rule, dist, true),
				Cost:  0,
				Metadata: domain.RateMetadata{
					Distance:     dist,
					FreeShipping: true,
					MaxDistance:  rule.MaxDistance,
				},
			},
		}
	}

	cost := domain.ComputeCost(rule, cart.Lines, dist.Distance, s.Defaults)
	if c.override != nil {
		cost = max(c.override.Override(rule, cart, cost), 0)
	}

	return Result{
		Outcome: OutcomeCostComputed,
		Rate: &domain.RateDescriptor{
			ID:    domain.MethodID,
			Label: domain.RateLabel(s, rule, dist, false),
			Cost:  cost,
			Metadata: domain.RateMetadata{
				Distance:      dist,
				MaxDistance:   rule.MaxDistance,
				TotalCostType: rule.TotalCostType.Resolve(s.Defaults.TotalCostType),
			},
		},
	}
}

func (c *ShippingCalculator) notConfigured(message string) Result {
	err := apperr.Configuration(message).WithCode("NOT_CONFIGURED")
	c.log.Error("Shipping rate withheld", zap.String("outcome", string(OutcomeNotConfigured)), zap.Error(err))
	return Result{Outcome: OutcomeNotConfigured, Err: err}
}

// freeShippingFor returns the rule thresholds, or the global ones when the rule sets none.
func freeShippingFor(s *domain.Settings, rule domain.RateRule) domain.FreeShipping {
	if rule.FreeShipping.Enabled() {
		return rule.FreeShipping
	}
	return s.FreeShipping
}

func checkDestination(s *domain.Settings, dest distance.Location) error {
	if dest.IsZero() {
		return apperr.Configuration("destination is missing").WithCode("NO_DESTINATION")
	}
	if err := dest.Validate(); err != nil {
		return apperr.Wrap(apperr.KindConfiguration, "invalid destination", err).WithCode("NO_DESTINATION")
	}
	if missing := s.MissingDestinationFields(dest); len(missing) > 0 {
		fields := make([]string, len(missing))
		for i, f := range missing {
			fields[i] = string(f)
		}
		return apperr.Wrap(apperr.KindConfiguration, "destination is incomplete",
			errors.New("missing "+strings.Join(fields, ", "))).WithCode("NO_DESTINATION")
	}
	return nil
}
