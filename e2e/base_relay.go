package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"nhooyr.io/websocket"
)

const frameTimeout = 5 * time.Second

// BaseRelaySuite talks to a deployed relay. It is skipped when RELAY_ADDR is unset.
type BaseRelaySuite struct {
	suite.Suite
	Config Config
}

func (s *BaseRelaySuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.RelayAddr == "" {
		s.T().Skip("RELAY_ADDR is not set")
	}
}

// Client is one websocket participant of a scenario.
type Client struct {
	s    *BaseRelaySuite
	name string
	ws   *websocket.Conn
}

func (s *BaseRelaySuite) Connect(name string) *Client {
	header := fmt.Sprintf("  ====== %s connects ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)

	ctx, cancel := context.WithTimeout(context.Background(), frameTimeout)
	defer cancel()
	ws, _, err := websocket.Dial(ctx, s.Config.RelayAddr, nil)
	s.Require().NoError(err, "Failed to connect to relay at "+s.Config.RelayAddr)
	client := &Client{s: s, name: name, ws: ws}
	s.T().Cleanup(func() { _ = ws.CloseNow() })
	return client
}

func (c *Client) Send(frame map[string]any) {
	payload, err := json.Marshal(frame)
	c.s.Require().NoError(err)
	c.s.debug(c.name+" >>", payload)

	ctx, cancel := context.WithTimeout(context.Background(), frameTimeout)
	defer cancel()
	c.s.Require().NoError(c.ws.Write(ctx, websocket.MessageText, payload))
}

func (c *Client) Receive() map[string]any {
	ctx, cancel := context.WithTimeout(context.Background(), frameTimeout)
	defer cancel()
	_, payload, err := c.ws.Read(ctx)
	c.s.Require().NoError(err, c.name+" did not receive a frame")
	c.s.debug(c.name+" <<", payload)

	var frame map[string]any
	c.s.Require().NoError(json.Unmarshal(payload, &frame))
	return frame
}

func (c *Client) Leave() {
	c.s.Require().NoError(c.ws.Close(websocket.StatusNormalClosure, "bye"))
}

func (s *BaseRelaySuite) debug(prefix string, payload []byte) {
	if !s.Config.DebugJSON {
		return
	}
	if s.Config.Colours {
		prefix = color.Cyan.Sprint(prefix)
	}
	s.T().Logf("%s %s", prefix, payload)
}

// WithHealth provides a health client when RELAY_GRPC_ADDR is set.
func (s *BaseRelaySuite) WithHealth(fn func(ctx context.Context, client healthpb.HealthClient)) {
	if s.Config.GrpcAddr == "" {
		s.T().Skip("RELAY_GRPC_ADDR is not set")
	}
	conn, err := grpc.NewClient(s.Config.GrpcAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	s.Require().NoError(err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), frameTimeout)
	defer cancel()
	fn(ctx, healthpb.NewHealthClient(conn))
}
