package tuner

import (
	"context"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuelab/walkview/common"
	"github.com/venuelab/walkview/engine/light"
	"github.com/venuelab/walkview/engine/render"
	"github.com/venuelab/walkview/engine/scene"
)

func testScene() scene.Scene {
	root := &scene.Node{Name: "root"}
	return scene.NewScene("venue", root, scene.WithLights([]light.Light{
		light.NewLight(light.LightTypeSpot,
			light.WithName("Spot_purple_01"),
			light.WithIntensity(10),
			light.WithColor(common.Vec3{1, 0, 1}),
		),
		light.NewLight(light.LightTypePoint,
			light.WithName("Fill_01"),
			light.WithIntensity(2),
		),
	}))
}

// startServer brings up a tuner on an ephemeral port and returns a connected
// client with the initial state already consumed.
func startServer(t *testing.T) (Server, *websocket.Conn, render.Config, scene.Scene) {
	t.Helper()
	sc := testScene()
	cfg := render.NewConfig()
	srv := NewServer(sc, cfg, WithAddr("127.0.0.1:0"))
	require.NoError(t, srv.Start())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	})

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+srv.Addr()+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	var st state
	require.NoError(t, conn.ReadJSON(&st))
	require.Len(t, st.Lights, 2)
	return srv, conn, cfg, sc
}

func TestInitialStateListsLights(t *testing.T) {
	sc := testScene()
	cfg := render.NewConfig()
	srv := NewServer(sc, cfg, WithAddr("127.0.0.1:0"))
	require.NoError(t, srv.Start())
	defer srv.Shutdown(context.Background())

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+srv.Addr()+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	var st state
	require.NoError(t, conn.ReadJSON(&st))
	assert.Equal(t, "ACESFilmic", st.Render.ToneMappingName)
	require.Len(t, st.Lights, 2)
	assert.Equal(t, "Spot_purple_01", st.Lights[0].Name)
	assert.Equal(t, "spot", st.Lights[0].Type)
	assert.InDelta(t, 10.0, st.Lights[0].Intensity, 1e-3)
}

func TestSetExposureBroadcastsNewState(t *testing.T) {
	_, conn, cfg, _ := startServer(t)

	require.NoError(t, conn.WriteJSON(command{Op: "setExposure", Value: 1.8}))

	var st state
	require.NoError(t, conn.ReadJSON(&st))
	assert.InDelta(t, 1.8, st.Render.Exposure, 1e-3)
	assert.InDelta(t, 1.8, cfg.Exposure(), 1e-3)
}

func TestSetLightAppliesParameters(t *testing.T) {
	_, conn, _, sc := startServer(t)

	require.NoError(t, conn.WriteJSON(command{
		Op:   "setLight",
		Name: "Spot_purple_01",
		Light: &lightParams{
			Intensity: 25,
			Color:     [3]float32{0.5, 0, 1},
			Distance:  40,
			Decay:     2,
			Angle:     30,
			Penumbra:  0.4,
			Visible:   true,
		},
	}))

	var st state
	require.NoError(t, conn.ReadJSON(&st))

	l := sc.Lights().FindByName("Spot_purple_01")
	require.NotNil(t, l)
	assert.InDelta(t, 25.0, l.Intensity(), 1e-3)
	assert.InDelta(t, 30.0, l.Angle(), 1e-3)
	assert.InDelta(t, 0.4, l.Penumbra(), 1e-3)
	assert.InDelta(t, 40.0, l.Range(), 1e-3)
}

func TestUnknownToneMappingRejectedWithoutStateChange(t *testing.T) {
	_, conn, cfg, _ := startServer(t)
	before := cfg.ToneMapping()

	require.NoError(t, conn.WriteJSON(command{Op: "setToneMapping", ToneMapping: "filmic-ultra"}))

	var reply errorReply
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Contains(t, reply.Error, "filmic-ultra")
	assert.Equal(t, before, cfg.ToneMapping())
}

func TestSetToneMappingCaseInsensitive(t *testing.T) {
	_, conn, cfg, _ := startServer(t)

	require.NoError(t, conn.WriteJSON(command{Op: "setToneMapping", ToneMapping: "reinhard"}))

	var st state
	require.NoError(t, conn.ReadJSON(&st))
	assert.Equal(t, "Reinhard", st.Render.ToneMappingName)
	assert.Equal(t, render.ToneMappingReinhard, cfg.ToneMapping())
}

func TestSetLightUnknownNameRejected(t *testing.T) {
	_, conn, _, _ := startServer(t)

	require.NoError(t, conn.WriteJSON(command{
		Op: "setLight", Name: "ghost", Light: &lightParams{Intensity: 1},
	}))

	var reply errorReply
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Contains(t, reply.Error, "ghost")
}

func TestUnknownOpRejected(t *testing.T) {
	_, conn, _, _ := startServer(t)

	require.NoError(t, conn.WriteJSON(command{Op: "reboot"}))

	var reply errorReply
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Contains(t, reply.Error, "reboot")
}

func TestApplyPresetsMatchesByNameSubstring(t *testing.T) {
	_, conn, _, sc := startServer(t)

	require.NoError(t, conn.WriteJSON(command{Op: "applyPresets"}))

	var st state
	require.NoError(t, conn.ReadJSON(&st))

	// The purple preset keyword matches the spot light's name.
	l := sc.Lights().FindByName("Spot_purple_01")
	require.NotNil(t, l)
	assert.Equal(t, light.MustParseHexColor("#4700ff"), l.Color())
	assert.InDelta(t, 39.0, l.Intensity(), 1e-3)
}

func TestBroadcastReachesAllClients(t *testing.T) {
	srv, conn, _, _ := startServer(t)

	second, _, err := websocket.DefaultDialer.Dial("ws://"+srv.Addr()+"/ws", nil)
	require.NoError(t, err)
	defer second.Close()
	var initial state
	require.NoError(t, second.ReadJSON(&initial))

	require.NoError(t, conn.WriteJSON(command{Op: "setBloom", Value: 0.7}))

	var st state
	require.NoError(t, second.ReadJSON(&st))
	assert.InDelta(t, 0.7, st.Render.BloomStrength, 1e-3)
}
