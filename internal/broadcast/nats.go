package broadcast

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// DefaultSubjectPrefix is used when NATSSink.Prefix is empty.
const DefaultSubjectPrefix = "dominoes.game"

// NATSSink publishes every message as JSON to <Prefix>.<gameId>.
type NATSSink struct {
	conn   *nats.Conn
	Prefix string
}

// ConnectNATS dials url with reconnect handling logged through log.
func ConnectNATS(url string, log zerolog.Logger) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("mathdominoes"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(10*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("disconnected from NATS")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("reconnected to NATS")
		}),
		nats.ClosedHandler(func(*nats.Conn) {
			log.Info().Msg("NATS connection closed")
		}),
	)
}

// NewNATSSink wraps an open connection.
func NewNATSSink(conn *nats.Conn, prefix string) *NATSSink {
	return &NATSSink{conn: conn, Prefix: prefix}
}

// Subject returns the subject messages for gameID are published on.
func (s *NATSSink) Subject(gameID string) string {
	prefix := strings.TrimSuffix(s.Prefix, ".")
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return prefix + "." + gameID
}

// Send publishes m as JSON on the game's subject.
func (s *NATSSink) Send(m Message) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return s.conn.Publish(s.Subject(m.GameID), data)
}

// Close drains the connection.
func (s *NATSSink) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Drain()
}
