package session

import (
	"fmt"

	"github.com/eppproxy/eppproxy/internal/auditlog"
	"github.com/eppproxy/eppproxy/internal/wire"
)

// receiveLoop reads frames off fr until it errors or done is closed, handing
// each decoded message to m.decoded. It runs in its own goroutine for the
// lifetime of one connection, mirroring the read-side half of the
// dial-then-await-reply pattern this module borrows from the teacher's NFSv4
// callback client.
func (m *Manager) receiveLoop(fr *wire.Framer, done chan struct{}) {
	defer m.wg.Done()
	for {
		data, err := fr.Receive()
		if err != nil {
			select {
			case m.connErr <- fmt.Errorf("session: receive: %w", err):
			case <-done:
			}
			return
		}

		m.auditAppend(auditlog.DirectionReceived, []byte(data))

		kind, greeting, resp, err := wire.Decode(data)
		if err != nil {
			select {
			case m.connErr <- fmt.Errorf("session: decode frame: %w", err):
			case <-done:
			}
			return
		}

		msg := decodedMsg{kind: kind, greeting: greeting, resp: resp}
		select {
		case m.decoded <- msg:
		case <-done:
			return
		}
	}
}
