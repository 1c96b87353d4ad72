package validate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zoobzio/clockz"

	"lead-exporter/internal/mapping"
	"lead-exporter/internal/observe"
)

// Validator checks and transforms records against a rule set.
// It holds no per-record state and is safe for concurrent use.
type Validator struct {
	rules    *mapping.RuleSet
	observer observe.Observer
	log      *slog.Logger
	clock    clockz.Clock
}

// New returns a validator for rules.
func New(rules *mapping.RuleSet, opts ...Option) *Validator {
	v := &Validator{
		rules:    rules,
		observer: observe.Nop{},
		log:      slog.Default(),
		clock:    clockz.RealClock,
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Rules returns the rule set the validator applies.
func (v *Validator) Rules() *mapping.RuleSet {
	return v.rules
}

// Validate applies every rule to rec in declaration order.
func (v *Validator) Validate(ctx context.Context, rec Record) Outcome {
	start := v.clock.Now()
	name := rec.Name()

	var errs []string

	out := Output{}

	v.rules.Each(func(rule mapping.MappingRule) {
		ruleStart := v.clock.Now()

		fieldErrs := v.evalRule(ctx, name, rule, rec, out)
		errs = append(errs, fieldErrs...)

		v.observer.Observe(ctx, observe.Stamp(ctx, observe.Event{
			Name:     observe.RuleEvaluated,
			Step:     observe.StepValidateRule,
			Time:     v.clock.Now(),
			Record:   name,
			Field:    rule.SourceField,
			Duration: v.clock.Since(ruleStart),
			Count:    len(fieldErrs),
			OK:       len(fieldErrs) == 0,
			Errors:   fieldErrs,
		}))
	})

	outcome := Outcome{Valid: len(errs) == 0, Errors: errs}
	if outcome.Valid {
		outcome.Output = out
	}

	v.observer.Observe(ctx, observe.Stamp(ctx, observe.Event{
		Name:     observe.RecordValidated,
		Step:     observe.StepValidateRecord,
		Time:     v.clock.Now(),
		Record:   name,
		Duration: v.clock.Since(start),
		Count:    len(errs),
		OK:       outcome.Valid,
		Errors:   errs,
	}))

	return outcome
}

// evalRule runs one rule and commits its value to out. A panic inside the
// rule becomes a field error and the target is set to null.
func (v *Validator) evalRule(ctx context.Context, name string, rule mapping.MappingRule, rec Record, out Output) (errs []string) {
	e := &evaluation{rule: rule, raw: rec[rule.SourceField]}
	e.value = e.raw

	defer func() {
		r := recover()
		if r == nil {
			return
		}

		v.log.ErrorContext(ctx, "unexpected error evaluating rule",
			slog.String("field", rule.SourceField),
			slog.String("record", name),
			slog.Any("panic", r))

		errs = append(e.errs, fmt.Sprintf("Internal error processing field '%s': %v", rule.SourceField, r))
		if rule.HasTarget() {
			out[rule.TargetField] = nil
		}
	}()

	if !e.run() {
		if rule.HasTarget() {
			out[rule.TargetField] = nil
		}

		return e.errs
	}

	if rule.HasTarget() {
		if len(e.errs) == 0 {
			out[rule.TargetField] = cellValue(e.value)
		} else {
			out[rule.TargetField] = nil
		}
	}

	return e.errs
}
