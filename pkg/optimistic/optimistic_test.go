package optimistic_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funil-crm/funil/pkg/optimistic"
)

func TestExecuteSuccessPath(t *testing.T) {
	ctx := context.Background()
	var visible []string
	successes, failures := 0, 0

	result, err := optimistic.Execute(ctx,
		func(v []string) { visible = v },
		func(context.Context) (string, error) { return "ok", nil },
		[]string{"b", "a"},
		[]string{"a", "b"},
		optimistic.Options[[]string]{
			OnSuccess: func([]string) { successes++ },
			OnError:   func(error) { failures++ },
		})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, []string{"b", "a"}, visible, "optimistic value stays visible")
	assert.Equal(t, 1, successes)
	assert.Zero(t, failures)
}

func TestExecuteFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("store unavailable")
	var visible []string
	var applied [][]string
	var reported error

	_, err := optimistic.Execute(ctx,
		func(v []string) {
			visible = v
			applied = append(applied, v)
		},
		func(context.Context) (struct{}, error) { return struct{}{}, boom },
		[]string{"b", "a"},
		[]string{"a", "b"},
		optimistic.Options[[]string]{
			OnError: func(e error) {
				reported = e
				// Rollback must already be visible when OnError runs.
				assert.Equal(t, []string{"a", "b"}, visible)
			},
		})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, boom, reported)
	require.Len(t, applied, 2, "optimistic apply then rollback apply")
	assert.Equal(t, []string{"b", "a"}, applied[0])
	assert.Equal(t, []string{"a", "b"}, applied[1])
}

func TestExecuteFailureWithoutOnErrorStillReturnsError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("nope")
	value := 0

	_, err := optimistic.Execute(ctx,
		func(v int) { value = v },
		func(context.Context) (int, error) { return 0, boom },
		7, 3,
		optimistic.Options[int]{})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, value)
}

func TestExecuteMarksBusyKey(t *testing.T) {
	ctx := context.Background()
	reg := optimistic.NewRegistry()
	key := optimistic.KeyFor("stage", "01ARZ", "reorder")

	var duringOp bool
	_, err := optimistic.Execute(ctx,
		func(int) {},
		func(context.Context) (int, error) {
			duringOp = reg.Busy(key)
			return 0, nil
		},
		1, 0,
		optimistic.Options[int]{BusyKey: key, Registry: reg})

	require.NoError(t, err)
	assert.True(t, duringOp, "key busy while op runs")
	assert.False(t, reg.Busy(key), "key idle after completion")
}

func TestRegistrySweepAndEvict(t *testing.T) {
	reg := optimistic.NewRegistry()
	k1 := optimistic.KeyFor("pipeline", "a", "reorder")
	k2 := optimistic.KeyFor("pipeline", "b", "reorder")

	reg.Start(k1)
	reg.Start(k2)
	reg.Stop(k1)

	assert.Equal(t, 0, reg.Sweep(time.Hour), "recent entries survive")
	assert.Equal(t, 1, reg.Sweep(-time.Second), "idle entries sweep")
	assert.True(t, reg.Busy(k2), "busy entries never sweep")

	reg.Evict(k2)
	assert.False(t, reg.Busy(k2))
	assert.Equal(t, 0, reg.Len())
}
