package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/shelterline/shelter-engine/pkg/survivor"
)

// Shared resource pool names.
const (
	ResourceFood     = "food"
	ResourceWater    = "water"
	ResourceSupplies = "supplies"
)

// Bucket groups effect types that share one magnitude band.
type Bucket string

const (
	BucketHealth   Bucket = "health"
	BucketSanity   Bucket = "sanity"
	BucketHunger   Bucket = "hunger"
	BucketThirst   Bucket = "thirst"
	BucketResource Bucket = "resource"
	BucketStatus   Bucket = "status"
)

// MagnitudeBand is the configured numeric range a bucket's intensities
// interpolate across.
type MagnitudeBand struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// MagnitudeTable maps buckets to their configured bands.
type MagnitudeTable map[Bucket]MagnitudeBand

// DefaultMagnitudes returns the built-in band table. Callers override it
// by passing their own table to NewInterpreter.
func DefaultMagnitudes() MagnitudeTable {
	return MagnitudeTable{
		BucketHealth:   {Min: 3, Max: 40},
		BucketSanity:   {Min: 3, Max: 35},
		BucketHunger:   {Min: 5, Max: 40},
		BucketThirst:   {Min: 5, Max: 40},
		BucketResource: {Min: 1, Max: 10},
		BucketStatus:   {Min: 3, Max: 40},
	}
}

// Magnitude interpolates a band linearly over intensity 1..10:
// intensity 1 yields Min, intensity 10 yields Max.
func (b MagnitudeBand) Magnitude(intensity int) int {
	if intensity < IntensityMin {
		intensity = IntensityMin
	}
	if intensity > IntensityMax {
		intensity = IntensityMax
	}
	t := float64(intensity-IntensityMin) / float64(IntensityMax-IntensityMin)
	return int(math.Round(float64(b.Min) + t*float64(b.Max-b.Min)))
}

// SurvivorStore is the character collaborator the interpreter mutates
// through. Find returns (nil, nil) when no survivor has that name.
type SurvivorStore interface {
	Find(ctx context.Context, name string) (*survivor.Survivor, error)
	AllAlive(ctx context.Context) ([]*survivor.Survivor, error)
	Save(ctx context.Context, s *survivor.Survivor) error
}

// ResourceStore is the shared-pool collaborator. Adjust applies a signed
// delta to the named pool, floored at zero, and returns the new level.
type ResourceStore interface {
	Adjust(ctx context.Context, name string, delta int) (int, error)
}

// Interpreter maps symbolic effects onto concrete survivor and resource
// mutations. Effects are applied strictly in list order; callers wanting
// atomicity across concurrent events must serialize calls to Apply.
type Interpreter struct {
	survivors SurvivorStore
	resources ResourceStore
	table     MagnitudeTable
	logger    *slog.Logger
}

// NewInterpreter creates an interpreter. A nil table falls back to
// DefaultMagnitudes.
func NewInterpreter(survivors SurvivorStore, resources ResourceStore, table MagnitudeTable, logger *slog.Logger) *Interpreter {
	if table == nil {
		table = DefaultMagnitudes()
	}
	return &Interpreter{
		survivors: survivors,
		resources: resources,
		table:     table,
		logger:    logger,
	}
}

// Apply interprets each effect in order. Unrecognized effect types are
// logged and skipped; store failures are collected but never stop the
// remaining effects in the list.
func (in *Interpreter) Apply(ctx context.Context, effects []Effect) error {
	var errs []error
	for _, eff := range effects {
		if err := in.applyOne(ctx, eff); err != nil {
			errs = append(errs, fmt.Errorf("effect %s: %w", eff.EffectType, err))
		}
	}
	return errors.Join(errs...)
}

func (in *Interpreter) applyOne(ctx context.Context, eff Effect) error {
	eff.ClampIntensity()

	switch eff.EffectType {
	case AddHP, ReduceHP:
		return in.adjustStat(ctx, eff, BucketHealth)
	case AddSanity, ReduceSanity:
		return in.adjustStat(ctx, eff, BucketSanity)
	case AddHunger, ReduceHunger:
		return in.adjustStat(ctx, eff, BucketHunger)
	case AddThirst, ReduceThirst:
		return in.adjustStat(ctx, eff, BucketThirst)

	case AddFood, ReduceFood:
		return in.adjustResource(ctx, eff, ResourceFood)
	case AddWater, ReduceWater:
		return in.adjustResource(ctx, eff, ResourceWater)
	case AddSupplies, ReduceSupplies:
		return in.adjustResource(ctx, eff, ResourceSupplies)

	case InjureCharacter, HealCharacter, KillCharacter, InfectCharacter, CureCharacter:
		return in.changeStatus(ctx, eff)

	default:
		in.logger.Warn("Skipping unrecognized effect type",
			"effect_type", eff.EffectType,
			"intensity", eff.Intensity,
			"target", eff.Target)
		return nil
	}
}

// sign derives the direction of a numeric effect from its name.
func sign(t EffectType) int {
	switch t {
	case AddHP, AddSanity, AddHunger, AddThirst, AddFood, AddWater, AddSupplies, HealCharacter:
		return 1
	default:
		return -1
	}
}

func (in *Interpreter) adjustStat(ctx context.Context, eff Effect, bucket Bucket) error {
	target, err := in.findTarget(ctx, eff)
	if err != nil || target == nil {
		return err
	}

	delta := sign(eff.EffectType) * in.table[bucket].Magnitude(eff.Intensity)
	switch bucket {
	case BucketHealth:
		target.AdjustHealth(delta)
	case BucketSanity:
		target.AdjustSanity(delta)
	case BucketHunger:
		target.AdjustHunger(delta)
	case BucketThirst:
		target.AdjustThirst(delta)
	}

	in.logger.Debug("Applied stat effect",
		"effect_type", eff.EffectType,
		"target", target.Name,
		"delta", delta)
	return in.survivors.Save(ctx, target)
}

func (in *Interpreter) adjustResource(ctx context.Context, eff Effect, pool string) error {
	delta := sign(eff.EffectType) * in.table[BucketResource].Magnitude(eff.Intensity)
	level, err := in.resources.Adjust(ctx, pool, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust resource %s: %w", pool, err)
	}
	in.logger.Debug("Applied resource effect",
		"effect_type", eff.EffectType,
		"pool", pool,
		"delta", delta,
		"level", level)
	return nil
}

func (in *Interpreter) changeStatus(ctx context.Context, eff Effect) error {
	target, err := in.findTarget(ctx, eff)
	if err != nil || target == nil {
		return err
	}

	severity := survivor.SeverityForIntensity(eff.Intensity)
	magnitude := in.table[BucketStatus].Magnitude(eff.Intensity)

	switch eff.EffectType {
	case InjureCharacter:
		target.Injure(severity, magnitude)
	case HealCharacter:
		target.Heal(magnitude)
	case KillCharacter:
		target.Kill()
	case InfectCharacter:
		target.Infect(severity)
	case CureCharacter:
		target.Cure()
	}

	in.logger.Info("Applied status effect",
		"effect_type", eff.EffectType,
		"target", target.Name,
		"severity", severity)
	return in.survivors.Save(ctx, target)
}

// findTarget resolves a character-directed effect's target. A missing or
// unknown name is logged and skipped rather than failing the event.
func (in *Interpreter) findTarget(ctx context.Context, eff Effect) (*survivor.Survivor, error) {
	if eff.Target == "" {
		in.logger.Warn("Character effect has no target, skipping",
			"effect_type", eff.EffectType)
		return nil, nil
	}
	target, err := in.survivors.Find(ctx, eff.Target)
	if err != nil {
		return nil, fmt.Errorf("failed to look up %q: %w", eff.Target, err)
	}
	if target == nil {
		in.logger.Warn("Effect targets unknown survivor, skipping",
			"effect_type", eff.EffectType,
			"target", eff.Target)
		return nil, nil
	}
	return target, nil
}
