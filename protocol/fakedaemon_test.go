// Copyright (c) 2025 privateLINE, LLC.

package protocol

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/nettest"

	api_types "github.com/swapnilsparsh/devsVPN/uiclient/api/types"
	"github.com/swapnilsparsh/devsVPN/uiclient/config"
	"github.com/swapnilsparsh/devsVPN/uiclient/platform"
	"github.com/swapnilsparsh/devsVPN/uiclient/protocol/types"
	"github.com/swapnilsparsh/devsVPN/uiclient/store"
	"github.com/swapnilsparsh/devsVPN/uiclient/transport"
)

const testSecret uint64 = 0xDEADBEEFCAFEBABE

// fakeRequest - a request received by fakeDaemon
type fakeRequest struct {
	Command string
	Idx     int
	Raw     []byte
	conn    net.Conn
}

// fakeDaemon accepts client connections on a local TCP port and answers
// requests the way the daemon does. Handlers override the default answers.
type fakeDaemon struct {
	t  *testing.T
	ln net.Listener

	mu          sync.Mutex
	hello       types.HelloResp
	servers     api_types.ServersInfoResponse
	handlers    map[string]func(req fakeRequest)
	requests    []fakeRequest
	conns       []net.Conn
	splitWrites bool
}

func newFakeDaemon(t *testing.T) *fakeDaemon {
	ln, err := nettest.NewLocalListener("tcp")
	require.NoError(t, err)

	d := &fakeDaemon{
		t:        t,
		ln:       ln,
		hello:    types.HelloResp{Version: "3.14.0"},
		servers:  testServers(),
		handlers: make(map[string]func(req fakeRequest)),
	}
	go d.serve()
	t.Cleanup(d.stop)
	return d
}

func testServers() api_types.ServersInfoResponse {
	srv := func(gw, country string, lat, lon float32, host string) api_types.WireGuardServerInfo {
		return api_types.WireGuardServerInfo{
			ServerBase: api_types.ServerBase{Gateway: gw, CountryCode: country, Latitude: lat, Longitude: lon},
			Hosts:      []api_types.WireGuardServerHostInfo{{Hostname: gw, Host: host, PublicKey: "key-" + country}},
		}
	}
	return api_types.ServersInfoResponse{
		WireguardServers: []api_types.WireGuardServerInfo{
			srv("ch.gw.privateline.io", "CH", 47.37, 8.54, "10.0.0.1"),
			srv("de.gw.privateline.io", "DE", 50.11, 8.68, "10.0.0.2"),
			srv("us.gw.privateline.io", "US", 40.71, -74.0, "10.0.0.3"),
		},
	}
}

func (d *fakeDaemon) port() int {
	return d.ln.Addr().(*net.TCPAddr).Port
}

type staticParams platform.ConnectionParams

func (p staticParams) ConnectionParams() (platform.ConnectionParams, error) {
	return platform.ConnectionParams(p), nil
}

func (d *fakeDaemon) provider() ConnectionParamsProvider {
	return staticParams{Host: "127.0.0.1", Port: d.port(), Secret: fmt.Sprintf("%x", testSecret)}
}

func (d *fakeDaemon) handle(command string, h func(req fakeRequest)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[command] = h
}

func (d *fakeDaemon) setHello(fn func(r *types.HelloResp)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(&d.hello)
}

func (d *fakeDaemon) serve() {
	for {
		conn, err := d.ln.Accept()
		if err != nil {
			return
		}
		d.mu.Lock()
		d.conns = append(d.conns, conn)
		d.mu.Unlock()
		go d.handleConnection(conn)
	}
}

func (d *fakeDaemon) handleConnection(conn net.Conn) {
	defer conn.Close()

	r := bufio.NewReader(conn)
	for {
		line, err := r.ReadBytes('\n')
		if err != nil {
			return
		}
		cb, err := types.GetCommandBase(line)
		if err != nil {
			d.t.Logf("fake daemon: bad request: %v", err)
			continue
		}

		req := fakeRequest{Command: cb.Command, Idx: cb.Idx, Raw: line, conn: conn}
		d.mu.Lock()
		d.requests = append(d.requests, req)
		h := d.handlers[cb.Command]
		d.mu.Unlock()

		if h != nil {
			h(req)
		} else {
			d.defaultHandler(req)
		}
	}
}

func (d *fakeDaemon) defaultHandler(req fakeRequest) {
	switch req.Command {
	case "Hello":
		var hello types.Hello
		if err := json.Unmarshal(req.Raw, &hello); err != nil || uint64(hello.Secret) != testSecret {
			d.reply(req, &types.ErrorResp{ErrorMessage: "Secret verification error"})
			return
		}
		d.mu.Lock()
		hr, servers := d.hello, d.servers
		d.mu.Unlock()
		d.reply(req, &hr)
		d.reply(req, &types.ServerListResp{VpnServers: servers})

	case "APIRequest":
		d.reply(req, &types.APIResponse{Error: "not available"})

	default:
		d.reply(req, &types.EmptyResp{})
	}
}

func (d *fakeDaemon) reply(req fakeRequest, resp types.ICommandBase) {
	d.sendTo(req.conn, resp, req.Idx)
}

// notify sends a message with index 0 to the latest connection
func (d *fakeDaemon) notify(resp types.ICommandBase) {
	d.mu.Lock()
	var conn net.Conn
	if len(d.conns) > 0 {
		conn = d.conns[len(d.conns)-1]
	}
	d.mu.Unlock()
	if conn != nil {
		d.sendTo(conn, resp, 0)
	}
}

func (d *fakeDaemon) sendTo(conn net.Conn, resp types.ICommandBase, idx int) {
	resp.Init(types.GetTypeName(resp), idx)
	data, err := json.Marshal(resp)
	if err != nil {
		d.t.Errorf("fake daemon: %v", err)
		return
	}
	data = append(data, '\n')

	d.mu.Lock()
	split := d.splitWrites
	d.mu.Unlock()

	if split {
		// the separator arrives in a separate chunk
		conn.Write(data[:len(data)-1])
		time.Sleep(10 * time.Millisecond)
		conn.Write(data[len(data)-1:])
		return
	}
	conn.Write(data)
}

func (d *fakeDaemon) requestsOf(command string) []fakeRequest {
	d.mu.Lock()
	defer d.mu.Unlock()
	var ret []fakeRequest
	for _, r := range d.requests {
		if r.Command == command {
			ret = append(ret, r)
		}
	}
	return ret
}

func (d *fakeDaemon) allRequests() []fakeRequest {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]fakeRequest(nil), d.requests...)
}

// waitRequest waits for the n-th (1-based) request of the command
func (d *fakeDaemon) waitRequest(command string, n int) fakeRequest {
	d.t.Helper()
	var ret fakeRequest
	require.Eventually(d.t, func() bool {
		reqs := d.requestsOf(command)
		if len(reqs) < n {
			return false
		}
		ret = reqs[n-1]
		return true
	}, 5*time.Second, 5*time.Millisecond, "no %s request received", command)
	return ret
}

// dropConnections closes all accepted connections
func (d *fakeDaemon) dropConnections() {
	d.mu.Lock()
	conns := d.conns
	d.conns = nil
	d.mu.Unlock()
	for _, c := range conns {
		c.Close()
	}
}

func (d *fakeDaemon) stop() {
	d.ln.Close()
	d.dropConnections()
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Timeouts.DefaultResponse = 5 * time.Second
	cfg.Timeouts.Hello = 5 * time.Second
	cfg.Timeouts.ServersList = 5 * time.Second
	cfg.Timeouts.Dial = 2 * time.Second
	cfg.GeoLookup.Retries = 0
	cfg.GeoLookup.RetryUnit = time.Millisecond
	return cfg
}

func newTestClient(t *testing.T, d *fakeDaemon, opts Options) *Client {
	if opts.Config == nil {
		cfg := testConfig()
		opts.Config = &cfg
	}
	if opts.Store == nil {
		opts.Store = store.New()
	}
	if opts.Provider == nil {
		opts.Provider = d.provider()
	}
	opts.Dialer = &transport.TCPDialer{Timeout: time.Second}

	c, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}
