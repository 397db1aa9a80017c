package session

import (
	"fmt"
	"strings"

	"github.com/eppproxy/eppproxy/internal/errors"
	"github.com/eppproxy/eppproxy/internal/feature"
	"github.com/eppproxy/eppproxy/internal/wire"
)

// login performs the <login> exchange. It is not part of the Command
// Registry (spec.md §4.3 explicitly carves login/logout framing out of the
// registry) because its retry semantics are unique: a server that rejects
// the operator's "new" password falls back to the old one exactly once,
// per spec.md §4.6.2 and testable property S7.
func (m *Manager) login(fr *wire.Framer, fset *feature.Set) error {
	pw := m.cfg.Password
	newPW := m.cfg.NewPassword
	usingNew := false
	if newPW != "" {
		pw = newPW
		usingNew = true
	}

	if err := m.sendLogin(fr, pw, "", fset); err != nil {
		return err
	}
	data, err := fr.Receive()
	if err != nil {
		return fmt.Errorf("session: read login response: %w", err)
	}
	kind, _, resp, err := wire.Decode(data)
	if err != nil || kind != wire.KindResponse {
		return fmt.Errorf("session: expected login response, got kind %v (decode err %v)", kind, err)
	}

	code := resp.Code()
	if code == 1000 {
		m.mu.Lock()
		m.usingNewPassword = usingNew
		m.mu.Unlock()
		return nil
	}

	loginErr := errors.FromResultCode(code, resp.Message())

	// A registry that already recorded the operator's new password will
	// reject a login attempting the old one, and vice versa during the
	// rollover window; retry once with the other value before giving up.
	if usingNew && m.cfg.Password != "" && m.cfg.Password != newPW {
		if err := m.sendLogin(fr, m.cfg.Password, "", fset); err != nil {
			return err
		}
		data, err := fr.Receive()
		if err != nil {
			return fmt.Errorf("session: read login retry response: %w", err)
		}
		kind, _, resp, err := wire.Decode(data)
		if err != nil || kind != wire.KindResponse {
			return fmt.Errorf("session: expected login retry response, got kind %v (decode err %v)", kind, err)
		}
		if resp.Code() == 1000 {
			m.mu.Lock()
			m.usingNewPassword = false
			m.mu.Unlock()
			return nil
		}
		return errors.FromResultCode(resp.Code(), resp.Message())
	}

	if loginErr != nil && loginErr.Kind == errors.KindServerInternal {
		return permanentError("login rejected by %s: %s", m.cfg.RegistryID, loginErr.Error())
	}
	return loginErr
}

func (m *Manager) sendLogin(fr *wire.Framer, pw, newPW string, fset *feature.Set) error {
	rec := encodeLogin(m.cfg.LoginID, pw, newPW, fset)
	return fr.Send(wire.EncodeCommand(rec))
}

// encodeLogin builds the <login> command body. Login is framed by hand
// rather than through the Command Registry: it runs while the session is
// still LoginPending, and announces the object and extension URIs of the
// feature set just built from the greeting.
func encodeLogin(clID, pw, newPW string, fset *feature.Set) wire.CommandRecord {
	var b strings.Builder
	b.WriteString("<login>")
	b.WriteString("<clID>")
	b.WriteString(xmlEscape(clID))
	b.WriteString("</clID>")
	b.WriteString("<pw>")
	b.WriteString(xmlEscape(pw))
	b.WriteString("</pw>")
	if newPW != "" {
		b.WriteString("<newPW>")
		b.WriteString(xmlEscape(newPW))
		b.WriteString("</newPW>")
	}
	b.WriteString(`<options><version>1.0</version><lang>`)
	lang := fset.Language
	if lang == "" {
		lang = feature.LangEN
	}
	b.WriteString(xmlEscape(lang))
	b.WriteString(`</lang></options><svcs>`)
	for _, uri := range fset.ObjectURIs() {
		b.WriteString("<objURI>")
		b.WriteString(xmlEscape(uri))
		b.WriteString("</objURI>")
	}
	extURIs := fset.ExtensionURIs()
	if len(extURIs) > 0 {
		b.WriteString("<svcExtension>")
		for _, uri := range extURIs {
			b.WriteString("<extURI>")
			b.WriteString(xmlEscape(uri))
			b.WriteString("</extURI>")
		}
		b.WriteString("</svcExtension>")
	}
	b.WriteString("</svcs></login>")
	return wire.CommandRecord{Action: b.String()}
}
