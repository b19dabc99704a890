package tuner

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/venuelab/walkview/common"
	"github.com/venuelab/walkview/engine/light"
	"github.com/venuelab/walkview/engine/render"
	"github.com/venuelab/walkview/engine/scene"
)

// command is one inbound tuning request from a panel client.
type command struct {
	Op    string  `json:"op"`
	Name  string  `json:"name,omitempty"`
	Value float32 `json:"value,omitempty"`

	// ToneMapping carries the requested mode name for the setToneMapping op.
	ToneMapping string `json:"toneMapping,omitempty"`

	// Light carries the full parameter set for the setLight op.
	Light *lightParams `json:"light,omitempty"`
}

// lightParams is the wire form of light.LightParameterSet.
type lightParams struct {
	Intensity float32    `json:"intensity"`
	Color     [3]float32 `json:"color"`
	Distance  float32    `json:"distance"`
	Decay     float32    `json:"decay"`
	Angle     float32    `json:"angle"`
	Penumbra  float32    `json:"penumbra"`
	Visible   bool       `json:"visible"`
}

// lightState is one light's entry in the broadcast state.
type lightState struct {
	Name string `json:"name"`
	Type string `json:"type"`
	lightParams
}

// state is the full tuning panel state, sent on connect and after every
// accepted mutation.
type state struct {
	Render render.Snapshot `json:"render"`
	Lights []lightState    `json:"lights"`
}

// errorReply is sent to the requesting client when a command is rejected.
// Rejected commands never mutate state.
type errorReply struct {
	Error string `json:"error"`
}

// serverImpl is the implementation of the Server interface.
type serverImpl struct {
	mu sync.Mutex

	addr     string
	scene    scene.Scene
	config   render.Config
	upgrader websocket.Upgrader

	clients    map[*websocket.Conn]bool
	httpServer *http.Server
	listener   net.Listener
}

// Server is the live tuning panel. It serves an embedded HTML page and a
// WebSocket endpoint through which clients adjust light parameters and
// post-processing settings at runtime. Every accepted mutation is applied to
// the live scene and the resulting state is broadcast to all clients.
type Server interface {
	// Start binds the listener and begins serving. Non-blocking.
	//
	// Returns:
	//   - error: error if the listener cannot be bound
	Start() error

	// Addr returns the bound listen address. Useful when the configured
	// address uses port 0.
	//
	// Returns:
	//   - string: the listener address, or the configured address before Start
	Addr() string

	// Shutdown closes all client connections and stops the HTTP server.
	//
	// Parameters:
	//   - ctx: bounds the graceful shutdown
	//
	// Returns:
	//   - error: error from the underlying HTTP server shutdown
	Shutdown(ctx context.Context) error
}

var _ Server = &serverImpl{}

// NewServer creates a tuning panel Server over a scene and render config.
// Panics if either is nil.
//
// Parameters:
//   - sc: the scene whose lights are tunable
//   - cfg: the render configuration to expose
//   - options: functional options to configure the server
//
// Returns:
//   - Server: the newly created server
func NewServer(sc scene.Scene, cfg render.Config, options ...ServerOption) Server {
	if sc == nil || cfg == nil {
		panic("tuner requires a scene and a render config")
	}
	s := &serverImpl{
		addr:   "localhost:7474",
		scene:  sc,
		config: cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: map[*websocket.Conn]bool{},
	}
	for _, opt := range options {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.servePanel)
	mux.HandleFunc("/ws", s.handleWebSocket)
	s.httpServer = &http.Server{Handler: mux}
	return s
}

func (s *serverImpl) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("tuner: failed to listen on %s: %w", s.addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("tuner: server error: %v", err)
		}
	}()
	log.Printf("tuner: panel listening on http://%s", ln.Addr())
	return nil
}

func (s *serverImpl) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

func (s *serverImpl) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for conn := range s.clients {
		conn.Close()
	}
	s.clients = map[*websocket.Conn]bool{}
	s.mu.Unlock()
	return s.httpServer.Shutdown(ctx)
}

// servePanel serves the embedded control panel page.
func (s *serverImpl) servePanel(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, panelHTML)
}

// handleWebSocket upgrades the connection, sends the current state, and
// processes commands until the client disconnects.
func (s *serverImpl) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("tuner: websocket upgrade error: %v", err)
		return
	}

	// The state write is registered under the same mutex broadcast holds, so
	// no two goroutines ever write to one connection concurrently.
	s.mu.Lock()
	err = conn.WriteJSON(s.currentState())
	if err == nil {
		s.clients[conn] = true
	}
	s.mu.Unlock()
	if err != nil {
		conn.Close()
		return
	}

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	for {
		var cmd command
		if err := conn.ReadJSON(&cmd); err != nil {
			return
		}
		if err := s.apply(cmd); err != nil {
			s.mu.Lock()
			werr := conn.WriteJSON(errorReply{Error: err.Error()})
			s.mu.Unlock()
			if werr != nil {
				return
			}
			continue
		}
		s.broadcast()
	}
}

// apply executes one command against the live scene and render config.
// A rejected command returns an error and leaves all state untouched.
func (s *serverImpl) apply(cmd command) error {
	switch cmd.Op {
	case "setExposure":
		s.config.SetExposure(cmd.Value)
	case "setBloom":
		s.config.SetBloomStrength(cmd.Value)
	case "setVignette":
		s.config.SetVignetteStrength(cmd.Value)
	case "setOutline":
		s.config.SetOutlineStrength(cmd.Value)
	case "setToneMapping":
		return s.config.SetToneMappingByName(cmd.ToneMapping)
	case "setLight":
		if cmd.Light == nil {
			return fmt.Errorf("setLight requires a light parameter block")
		}
		l := s.scene.Lights().FindByName(cmd.Name)
		if l == nil {
			return fmt.Errorf("no light named %q", cmd.Name)
		}
		light.LightParameterSet{
			Intensity: cmd.Light.Intensity,
			Color:     common.Vec3(cmd.Light.Color),
			Distance:  cmd.Light.Distance,
			Decay:     cmd.Light.Decay,
			Angle:     cmd.Light.Angle,
			Penumbra:  cmd.Light.Penumbra,
			Visible:   cmd.Light.Visible,
		}.Apply(l)
	case "applyPresets":
		for _, l := range s.scene.Lights().All() {
			light.ApplyPresetByName(l)
		}
	default:
		return fmt.Errorf("unknown op %q", cmd.Op)
	}
	return nil
}

// currentState snapshots the render config and every light.
func (s *serverImpl) currentState() state {
	lights := s.scene.Lights().All()
	st := state{
		Render: s.config.Snapshot(),
		Lights: make([]lightState, 0, len(lights)),
	}
	for _, l := range lights {
		p := light.ParameterSetOf(l)
		st.Lights = append(st.Lights, lightState{
			Name: l.Name(),
			Type: l.Type().String(),
			lightParams: lightParams{
				Intensity: p.Intensity,
				Color:     [3]float32(p.Color),
				Distance:  p.Distance,
				Decay:     p.Decay,
				Angle:     p.Angle,
				Penumbra:  p.Penumbra,
				Visible:   p.Visible,
			},
		})
	}
	return st
}

// broadcast sends the current state to every connected client, evicting
// clients whose writes fail.
func (s *serverImpl) broadcast() {
	st := s.currentState()
	data, err := json.Marshal(st)
	if err != nil {
		log.Printf("tuner: error marshaling state: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("tuner: websocket write error: %v", err)
			conn.Close()
			delete(s.clients, conn)
		}
	}
}
