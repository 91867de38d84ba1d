package service

import (
	"math"
	"strings"
	"time"

	"github.com/FabienBounoir/muscouns/internal/domain"

	"github.com/spf13/cast"
)

// SanitizeExercises turns a client-supplied exercises payload (generic decoded JSON)
// into a well-formed exercises array. Anything that is not an array becomes an empty
// array; missing or wrongly typed fields get defaults instead of failing the request.
func SanitizeExercises(raw any, now time.Time, newID func() string) []domain.WorkoutExerciseEntry {
	items, ok := raw.([]any)
	if !ok {
		return []domain.WorkoutExerciseEntry{}
	}

	entries := make([]domain.WorkoutExerciseEntry, 0, len(items))
	for _, item := range items {
		fields, _ := item.(map[string]any)
		entries = append(entries, domain.WorkoutExerciseEntry{
			ID:         idOrNew(fields["id"], newID),
			ExerciseID: stringOr(fields["exerciseId"], ""),
			Name:       stringOr(fields["name"], domain.DefaultExerciseName),
			Target:     stringOr(fields["target"], domain.DefaultTarget),
			Sets:       sanitizeSets(fields["sets"], now, newID),
		})
	}
	return entries
}

func sanitizeSets(raw any, now time.Time, newID func() string) []domain.WorkoutSet {
	items, ok := raw.([]any)
	if !ok {
		return []domain.WorkoutSet{}
	}

	sets := make([]domain.WorkoutSet, 0, len(items))
	for _, item := range items {
		fields, _ := item.(map[string]any)
		sets = append(sets, domain.WorkoutSet{
			ID:        idOrNew(fields["id"], newID),
			Reps:      int(math.Trunc(finiteOrZero(fields["reps"], math.MaxInt32))),
			Weight:    finiteOrZero(fields["weight"], math.MaxFloat64),
			CreatedAt: timeOr(fields["createdAt"], now),
		})
	}
	return sets
}

func idOrNew(v any, newID func() string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return newID()
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fallback
}

// finiteOrZero coerces v to a number. Values that cannot be coerced, are not finite
// or exceed limit in magnitude become 0.
func finiteOrZero(v any, limit float64) float64 {
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > limit {
		return 0
	}
	return f
}

func timeOr(v any, fallback time.Time) time.Time {
	s, ok := v.(string)
	if !ok {
		return fallback
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fallback
	}
	return parsed.UTC()
}
