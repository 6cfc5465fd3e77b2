// Copyright (c) 2025 privateLINE, LLC.

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	api_types "github.com/swapnilsparsh/devsVPN/uiclient/api/types"
	"github.com/swapnilsparsh/devsVPN/uiclient/store"
)

func server(gw string, ping int) store.Server {
	return store.Server{ServerBase: api_types.ServerBase{Gateway: gw}, Ping: ping}
}

func TestSortServers(t *testing.T) {
	servers := []store.Server{server("us", 0), server("de", 90), server("ch", 0), server("nl", 20)}
	sortServers(servers)

	var gateways []string
	for _, s := range servers {
		gateways = append(gateways, s.Gateway)
	}
	assert.Equal(t, []string{"nl", "de", "ch", "us"}, gateways)
}
