// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package schemacache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataDog/etw-manifest-decoder/pkg/etw/schema"
)

var (
	kernelProcess = schema.MustParseProviderID("{22FB2CD6-0E7B-422B-A0C7-2FAD1FD0E716}")
	kernelFile    = schema.MustParseProviderID("{EDD08927-9CC4-4E65-B970-C2560FB5C289}")
)

type countingResolver struct {
	calls atomic.Int32
	err   error
	// when set, Resolve blocks until it is closed
	gate chan struct{}
}

func (r *countingResolver) Resolve(provider schema.ProviderID) (*schema.ProviderSchema, error) {
	r.calls.Add(1)
	if r.gate != nil {
		<-r.gate
	}
	if r.err != nil {
		return nil, r.err
	}
	return schema.NewProviderSchemaBuilder(provider).Build(), nil
}

func TestGetCachesSchema(t *testing.T) {
	r := &countingResolver{}
	c := New(r, time.Minute)

	first, err := c.Get(kernelProcess)
	require.NoError(t, err)
	second, err := c.Get(kernelProcess)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), r.calls.Load())
	assert.Equal(t, 1, c.Len())

	other, err := c.Get(kernelFile)
	require.NoError(t, err)
	assert.Equal(t, kernelFile, other.Provider())
	assert.Equal(t, 2, c.Len())
}

func TestGetDoesNotCacheErrors(t *testing.T) {
	r := &countingResolver{err: errors.New("tdh unavailable")}
	c := New(r, time.Minute)

	_, err := c.Get(kernelProcess)
	require.ErrorContains(t, err, "tdh unavailable")
	_, err = c.Get(kernelProcess)
	require.Error(t, err)

	assert.Equal(t, int32(2), r.calls.Load())
	assert.Zero(t, c.Len())
}

func TestConcurrentMissesShareOneResolve(t *testing.T) {
	r := &countingResolver{gate: make(chan struct{})}
	c := New(r, 0)

	const readers = 8
	results := make([]*schema.ProviderSchema, readers)
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ps, err := c.Get(kernelProcess)
			assert.NoError(t, err)
			results[i] = ps
		}(i)
	}
	require.Eventually(t, func() bool { return r.calls.Load() == 1 }, time.Second, time.Millisecond)
	close(r.gate)
	wg.Wait()

	for _, ps := range results {
		assert.Same(t, results[0], ps)
	}
	assert.LessOrEqual(t, r.calls.Load(), int32(readers))
}

func TestInvalidate(t *testing.T) {
	r := &countingResolver{}
	c := New(r, 0)

	before, err := c.Get(kernelProcess)
	require.NoError(t, err)
	c.Invalidate(kernelProcess)
	assert.Zero(t, c.Len())

	after, err := c.Get(kernelProcess)
	require.NoError(t, err)
	assert.NotSame(t, before, after)
	assert.Equal(t, int32(2), r.calls.Load())
}

func TestInvalidateDuringResolveDoesNotPublish(t *testing.T) {
	r := &countingResolver{gate: make(chan struct{})}
	c := New(r, 0)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := c.Get(kernelProcess)
		assert.NoError(t, err)
	}()
	require.Eventually(t, func() bool { return r.calls.Load() == 1 }, time.Second, time.Millisecond)
	c.Invalidate(kernelProcess)
	close(r.gate)
	<-done

	assert.Zero(t, c.Len())
}

func TestExpiry(t *testing.T) {
	r := &countingResolver{}
	c := New(r, 10*time.Millisecond)

	_, err := c.Get(kernelProcess)
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	_, err = c.Get(kernelProcess)
	require.NoError(t, err)

	assert.Equal(t, int32(2), r.calls.Load())
}

func TestFlush(t *testing.T) {
	c := New(ResolverFunc(func(p schema.ProviderID) (*schema.ProviderSchema, error) {
		return schema.NewProviderSchemaBuilder(p).Build(), nil
	}), 0)

	_, err := c.Get(kernelProcess)
	require.NoError(t, err)
	_, err = c.Get(kernelFile)
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	c.Flush()
	assert.Zero(t, c.Len())
}
