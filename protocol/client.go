//
//  UI client for privateLINE Connect Desktop
//  https://github.com/swapnilsparsh/devsVPN
//
//  Copyright (c) 2025 privateLINE, LLC.
//
//  This file is part of the privateLINE Connect Desktop.
//
//  The privateLINE Connect Desktop is free software: you can redistribute it and/or
//  modify it under the terms of the GNU General Public License as published by the Free
//  Software Foundation, either version 3 of the License, or (at your option) any later version.
//
//  The privateLINE Connect Desktop is distributed in the hope that it will be useful,
//  but WITHOUT ANY WARRANTY; without even the implied warranty of MERCHANTABILITY
//  or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for more
//  details.
//
//  You should have received a copy of the GNU General Public License
//  along with the privateLINE Connect Desktop. If not, see <https://www.gnu.org/licenses/>.
//

package protocol

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eapache/queue"
	"golang.org/x/sync/singleflight"

	"github.com/swapnilsparsh/devsVPN/uiclient/config"
	"github.com/swapnilsparsh/devsVPN/uiclient/logger"
	"github.com/swapnilsparsh/devsVPN/uiclient/platform"
	"github.com/swapnilsparsh/devsVPN/uiclient/protocol/types"
	"github.com/swapnilsparsh/devsVPN/uiclient/store"
	"github.com/swapnilsparsh/devsVPN/uiclient/transport"
)

var log *logger.Logger

func init() {
	log = logger.NewLogger("prtcl")
}

// ConnectionParamsProvider tells where the daemon listens and which secret it expects
type ConnectionParamsProvider interface {
	ConnectionParams() (platform.ConnectionParams, error)
}

// ConnectionParamsWatcher - provider able to notify when the parameters change (daemon restart)
type ConnectionParamsWatcher interface {
	Watch(ctx context.Context) (<-chan struct{}, error)
}

// AutoConnectPolicy decides if the VPN may be connected automatically after the client starts
type AutoConnectPolicy interface {
	CanAutoConnectForCurrentSSID() bool
}

// Options of a new Client. Only Store is required.
type Options struct {
	Config   *config.Config
	Store    *store.Store
	Provider ConnectionParamsProvider
	Dialer   transport.Dialer
	Metrics  *Metrics

	AutoConnect AutoConnectPolicy
	// called when the connection closes after the daemon reported it is exiting
	OnDaemonExiting func()
}

// Client - the session with the daemon.
// It keeps at most one live connection; requests are correlated with responses by index.
type Client struct {
	cfg         config.Config
	store       *store.Store
	provider    ConnectionParamsProvider
	dialer      transport.Dialer
	metrics     *Metrics
	autoConnect AutoConnectPolicy
	onExiting   func()

	waiters *waiterRegistry

	// never reset, including on reconnect
	_requestIdx             atomic.Int64
	_lastConnID             atomic.Uint64
	_connectionRequestID    atomic.Int64
	_geoLookupLastRequestID atomic.Int64

	_isFirewallEnabledBeforePause atomic.Bool

	handshakeMu sync.Mutex
	connMu      sync.Mutex
	conn        *connection

	queueMu     sync.Mutex
	queue       *queue.Queue
	queueSignal chan struct{}
	stopCh      chan struct{}
	loopDone    chan struct{}
	closeOnce   sync.Once

	pingGroup singleflight.Group
}

// New creates the client and starts its dispatch loop. Call Close to stop it.
func New(opts Options) (*Client, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("store is not defined")
	}

	cfg := config.Default()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("bad configuration: %w", err)
	}

	c := &Client{
		cfg:         cfg,
		store:       opts.Store,
		provider:    opts.Provider,
		dialer:      opts.Dialer,
		metrics:     opts.Metrics,
		autoConnect: opts.AutoConnect,
		onExiting:   opts.OnDaemonExiting,

		queue:       queue.New(),
		queueSignal: make(chan struct{}, 1),
		stopCh:      make(chan struct{}),
		loopDone:    make(chan struct{}),
	}

	if c.provider == nil {
		c.provider = platform.NewPortFile(cfg.PortFile, cfg.DaemonHost)
	}
	if c.dialer == nil {
		d, err := transport.New(cfg)
		if err != nil {
			return nil, err
		}
		c.dialer = d
	}
	if c.metrics == nil {
		c.metrics = NewMetrics(nil, cfg.Metrics.Namespace)
	}
	c.waiters = newWaiterRegistry(c.metrics)
	c._isFirewallEnabledBeforePause.Store(true)

	go c.dispatchLoop()
	return c, nil
}

// Store returns the state the client projects daemon notifications into
func (c *Client) Store() *store.Store {
	return c.store
}

// Close drops the connection and stops the dispatch loop
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		if conn := c.detachConnection(nil); conn != nil {
			conn.close()
			c.waiters.failConnection(conn.id, &TransportError{Op: "close", Err: ErrNotConnected})
			c.setDaemonConnectionState(store.NotConnected)
		}
		close(c.stopCh)
		<-c.loopDone
	})
	return nil
}

// ---------------------------------------------------------------------------
// connection

type connection struct {
	id uint64
	rw io.ReadWriteCloser

	writeMu sync.Mutex

	// ServiceExitingResp was received on this connection
	serviceExiting atomic.Bool
	closeOnce      sync.Once
}

func (conn *connection) logID() string {
	return fmt.Sprintf("[conn%d] ", conn.id)
}

func (conn *connection) write(data []byte) error {
	conn.writeMu.Lock()
	defer conn.writeMu.Unlock()
	_, err := conn.rw.Write(data)
	return err
}

func (conn *connection) close() {
	conn.closeOnce.Do(func() {
		conn.rw.Close()
	})
}

func (c *Client) liveConnection() *connection {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	return c.conn
}

// detachConnection forgets the live connection if it is 'conn' (nil - any) and returns it
func (c *Client) detachConnection(conn *connection) *connection {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	if c.conn == nil || (conn != nil && c.conn != conn) {
		return nil
	}
	ret := c.conn
	c.conn = nil
	return ret
}

func (c *Client) setDaemonConnectionState(s store.DaemonConnectionState) {
	c.metrics.connectionState.Set(float64(s))
	c.store.SetDaemonConnectionState(s)
}

// IsConnected returns true when the handshake with the daemon is complete
func (c *Client) IsConnected() bool {
	return c.liveConnection() != nil && c.store.DaemonConnectionState() == store.Connected
}

// readLoop feeds received chunks to the frame splitter and queues complete frames
func (c *Client) readLoop(conn *connection) {
	var closeErr error
	defer func() {
		if r := recover(); r != nil {
			log.Error(conn.logID(), "PANIC in connection reader!: ", r)
			log.Error(string(debug.Stack()))
			if err, ok := r.(error); ok {
				log.ErrorTrace(err)
			}
			closeErr = fmt.Errorf("reader panic: %v", r)
		}
		c.enqueue(queueItem{conn: conn, isClose: true, closeErr: closeErr})
	}()

	var splitter frameSplitter
	buf := make([]byte, 64*1024)
	for {
		n, err := conn.rw.Read(buf)
		if n > 0 {
			for _, frame := range splitter.Feed(buf[:n]) {
				c.enqueue(queueItem{conn: conn, frame: frame})
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				closeErr = err
			}
			if splitter.Pending() > 0 {
				log.Warning(conn.logID(), fmt.Sprintf("connection closed with %d bytes of an incomplete message", splitter.Pending()))
			}
			return
		}
	}
}

// ---------------------------------------------------------------------------
// dispatch queue: frames, close events and tasks are processed one at a time in arrival order

type queueItem struct {
	conn  *connection
	frame []byte

	isClose  bool
	closeErr error

	task func()
}

func (c *Client) enqueue(it queueItem) {
	c.queueMu.Lock()
	c.queue.Add(it)
	c.queueMu.Unlock()

	select {
	case c.queueSignal <- struct{}{}:
	default:
	}
}

func (c *Client) nextItem() (queueItem, bool) {
	for {
		c.queueMu.Lock()
		if c.queue.Length() > 0 {
			it := c.queue.Remove().(queueItem)
			c.queueMu.Unlock()
			return it, true
		}
		c.queueMu.Unlock()

		select {
		case <-c.queueSignal:
		case <-c.stopCh:
			return queueItem{}, false
		}
	}
}

func (c *Client) dispatchLoop() {
	defer close(c.loopDone)
	for {
		it, ok := c.nextItem()
		if !ok {
			return
		}
		c.processItem(it)
	}
}

func (c *Client) processItem(it queueItem) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("PANIC during processing daemon message!: ", r)
			log.Error(string(debug.Stack()))
			if err, ok := r.(error); ok {
				log.ErrorTrace(err)
			}
		}
	}()

	switch {
	case it.task != nil:
		it.task()
	case it.isClose:
		c.processClose(it.conn, it.closeErr)
	default:
		c.processFrame(it.conn, it.frame)
	}
}

func (c *Client) processFrame(conn *connection, frame []byte) {
	resp, err := decodeFrame(frame)
	if err != nil {
		c.metrics.frameDecodeErrors.Inc()
		log.Error(conn.logID(), "Failed to decode message from the daemon: ", err)
		return
	}
	c.metrics.responsesReceived.WithLabelValues(resp.Command).Inc()

	switch resp.Kind {
	case KindTransferredDataResp, KindHandshakeResp:
		// periodic statistics
	default:
		log.Info("[<--] ", conn.logID(), resp.Command, fmt.Sprintf(" [%d]", resp.Idx))
	}

	if resp.Kind == KindServiceExitingResp {
		conn.serviceExiting.Store(true)
	}

	c.project(resp)
	c.waiters.dispatch(resp)
}

func (c *Client) processClose(conn *connection, closeErr error) {
	if closeErr != nil {
		log.Info(conn.logID(), "Connection closed: ", closeErr)
	} else {
		log.Info(conn.logID(), "Connection closed")
	}

	if conn.serviceExiting.Load() {
		log.Info("The daemon is exiting")
		if c.onExiting != nil {
			c.onExiting()
		}
	}

	if c.detachConnection(conn) != nil {
		c.setDaemonConnectionState(store.NotConnected)
	}
	conn.close()

	if closeErr == nil {
		closeErr = io.EOF
	}
	if n := c.waiters.failConnection(conn.id, &TransportError{Op: "read", Err: closeErr}); n > 0 {
		log.Info(conn.logID(), fmt.Sprintf("%d requests left without response", n))
	}
}

// ---------------------------------------------------------------------------
// sending

func (c *Client) nextIdx() int {
	return int(c._requestIdx.Add(1))
}

func (c *Client) prepare(req types.ICommandBase) ([]byte, error) {
	req.Init(types.GetTypeName(req), c.nextIdx())
	data, err := types.Serialize(req)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize '%s': %w", req.Name(), err)
	}
	return encodeFrame(data), nil
}

func (c *Client) write(conn *connection, req types.ICommandBase, data []byte) error {
	if err := conn.write(data); err != nil {
		return log.ErrorE(&TransportError{Op: "write " + req.Name(), Err: err}, 0)
	}
	c.metrics.requestsSent.WithLabelValues(req.Name()).Inc()
	log.Info(fmt.Sprintf("[-->] %s", conn.logID()), req.Name(), fmt.Sprintf(" [%d]", req.Index()), " ", req.LogExtraInfo())
	return nil
}

// send transmits the request without waiting for a response
func (c *Client) send(req types.ICommandBase) error {
	conn := c.liveConnection()
	if conn == nil {
		return ErrNotConnected
	}
	data, err := c.prepare(req)
	if err != nil {
		return err
	}
	return c.write(conn, req, data)
}

// sendRecv transmits the request and waits for the response with the same index,
// or for any message named in 'waitFor'. Timeout 0 - the default response timeout.
func (c *Client) sendRecv(ctx context.Context, req types.ICommandBase, timeout time.Duration, waitFor ...string) (*Response, error) {
	conn := c.liveConnection()
	if conn == nil {
		return nil, ErrNotConnected
	}
	return c.sendRecvOn(ctx, conn, req, timeout, waitFor...)
}

func (c *Client) sendRecvOn(ctx context.Context, conn *connection, req types.ICommandBase, timeout time.Duration, waitFor ...string) (*Response, error) {
	if timeout <= 0 {
		timeout = c.cfg.Timeouts.DefaultResponse
	}
	data, err := c.prepare(req)
	if err != nil {
		return nil, err
	}

	w := newWaiter(req.Name(), req.Index(), waitFor)
	w.connID = conn.id
	c.waiters.register(w, timeout)

	if err := c.write(conn, req, data); err != nil {
		c.waiters.remove(w)
		return nil, err
	}
	return c.waiters.wait(ctx, w)
}

// request sends 'req' and decodes the response into 'resp'
func (c *Client) request(ctx context.Context, req types.ICommandBase, resp interface{}, timeout time.Duration, waitFor ...string) error {
	r, err := c.sendRecv(ctx, req, timeout, waitFor...)
	if err != nil {
		return err
	}
	if resp == nil {
		return nil
	}
	return r.Decode(resp)
}
