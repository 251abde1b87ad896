package poissonblend_test

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pb "github.com/setanarut/poissonblend"
)

func TestPool_RunsAllJobs(t *testing.T) {
	pool := pb.NewPool(4, 64)
	var n atomic.Int32
	for range 50 {
		require.NoError(t, pool.Submit(func() { n.Add(1) }))
	}
	pool.Close()
	assert.Equal(t, int32(50), n.Load())
}

func TestPool_SubmitAllIsAtomic(t *testing.T) {
	pool, release := blockPool(t, 4)
	var n atomic.Int32
	job := func() { n.Add(1) }

	require.NoError(t, pool.SubmitAll(job, job))
	err := pool.SubmitAll(job, job, job)
	assert.True(t, errors.Is(err, pb.ErrQueueFull))
	require.NoError(t, pool.SubmitAll(job, job))

	release()
	pool.Close()
	assert.Equal(t, int32(4), n.Load())
}

func TestPool_PanicKeepsWorker(t *testing.T) {
	pool := pb.NewPool(1, 4)
	done := make(chan struct{})
	require.NoError(t, pool.Submit(func() { panic("boom") }))
	require.NoError(t, pool.Submit(func() { close(done) }))
	<-done
	pool.Close()
}

func TestPool_Closed(t *testing.T) {
	pool := pb.NewPool(1, 4)
	pool.Close()
	pool.Close()
	assert.True(t, errors.Is(pool.Submit(func() {}), pb.ErrPoolClosed))
}
