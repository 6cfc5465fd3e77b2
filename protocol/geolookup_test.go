// Copyright (c) 2025 privateLINE, LLC.

package protocol

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swapnilsparsh/devsVPN/uiclient/protocol/types"
)

func geoResponse(city string) *types.APIResponse {
	return &types.APIResponse{
		APIPath:      "geo-lookup",
		ResponseData: fmt.Sprintf(`{"ip_address":"1.2.3.4","city":%q,"country_code":"CH","latitude":47.1,"longitude":8.2}`, city),
	}
}

func apiRequestProtocol(req fakeRequest) types.RequiredIPProtocol {
	var r types.APIRequest
	if err := json.Unmarshal(req.Raw, &r); err != nil {
		return types.IPvAny
	}
	return r.IPProtocolRequired
}

func receiveN(t *testing.T, ch <-chan fakeRequest, n int) []fakeRequest {
	var ret []fakeRequest
	for len(ret) < n {
		select {
		case r := <-ch:
			ret = append(ret, r)
		case <-time.After(5 * time.Second):
			t.Fatalf("received %d of %d requests", len(ret), n)
		}
	}
	return ret
}

func TestGeoLookup(t *testing.T) {
	d := newFakeDaemon(t)
	d.handle("APIRequest", func(req fakeRequest) {
		if apiRequestProtocol(req) == types.IPv6 {
			d.reply(req, &types.APIResponse{Error: "No IPv6 support"})
			return
		}
		d.reply(req, geoResponse("Zurich"))
	})
	c := connectedClient(t, d, Options{})

	require.NoError(t, c.GeoLookup(context.Background()))

	loc := c.Store().Location(false)
	require.NotNil(t, loc)
	assert.Equal(t, "Zurich", loc.City)
	assert.True(t, loc.IsRealLocation)
	assert.Nil(t, c.Store().Location(true))

	last := c.Store().LastRealLocation()
	require.NotNil(t, last)
	assert.Equal(t, "Zurich", last.City)
	assert.False(t, c.Store().Snapshot().IsRequestingLocation)
	assert.False(t, c.Store().Snapshot().IsRequestingLocationIPv6)
}

func TestGeoLookupSupersededNeverWrites(t *testing.T) {
	d := newFakeDaemon(t)
	apiRequests := make(chan fakeRequest, 10)
	d.handle("APIRequest", func(req fakeRequest) { apiRequests <- req })
	c := connectedClient(t, d, Options{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.GeoLookup(context.Background())
	}()
	first := receiveN(t, apiRequests, 2)

	secondDone := make(chan struct{})
	go func() {
		defer close(secondDone)
		c.GeoLookup(context.Background())
	}()
	second := receiveN(t, apiRequests, 2)

	for _, r := range second {
		d.reply(r, geoResponse("Second"))
	}
	select {
	case <-secondDone:
	case <-time.After(5 * time.Second):
		t.Fatal("second lookup did not finish")
	}

	// responses of the superseded lookup arrive last
	for _, r := range first {
		d.reply(r, geoResponse("First"))
	}
	wg.Wait()

	for _, isIPv6 := range []bool{false, true} {
		loc := c.Store().Location(isIPv6)
		require.NotNil(t, loc)
		assert.Equal(t, "Second", loc.City)
	}
}

func TestGeoLookupRetries(t *testing.T) {
	var mu sync.Mutex
	failures := 0

	d := newFakeDaemon(t)
	d.handle("APIRequest", func(req fakeRequest) {
		if apiRequestProtocol(req) == types.IPv6 {
			d.reply(req, &types.APIResponse{Error: "no IPv6 support"})
			return
		}
		mu.Lock()
		fail := failures < 1
		failures++
		mu.Unlock()
		if fail {
			d.reply(req, &types.APIResponse{Error: "temporary failure"})
			return
		}
		d.reply(req, geoResponse("Bern"))
	})

	cfg := testConfig()
	cfg.GeoLookup.Retries = 2
	c := connectedClient(t, d, Options{Config: &cfg})

	require.NoError(t, c.GeoLookup(context.Background()))

	loc := c.Store().Location(false)
	require.NotNil(t, loc)
	assert.Equal(t, "Bern", loc.City)

	ipv4, ipv6 := 0, 0
	for _, r := range d.requestsOf("APIRequest") {
		if apiRequestProtocol(r) == types.IPv6 {
			ipv6++
		} else {
			ipv4++
		}
	}
	assert.Equal(t, 2, ipv4)
	assert.Equal(t, 1, ipv6, "no retries when the daemon has no IPv6 support")
}

func TestGeoLookupInvalidLocation(t *testing.T) {
	d := newFakeDaemon(t)
	d.handle("APIRequest", func(req fakeRequest) {
		d.reply(req, &types.APIResponse{ResponseData: `{"city":"Nowhere"}`})
	})
	c := connectedClient(t, d, Options{})

	require.NoError(t, c.GeoLookup(context.Background()))
	assert.Nil(t, c.Store().Location(false))
	assert.Nil(t, c.Store().Location(true))
}
