package transport

import (
	"context"
	"errors"
	"io"
	"net"
	"time"
)

// SOCKS5 protocol constants used by CheckProxy.
const (
	socks5Version       = 0x05
	socks5AuthNone      = 0x00
	socks5AuthPassword  = 0x02
	socks5AuthNoAccept  = 0xFF
	socks5CmdConnect    = 0x01
	socks5AddrTypeDomID = 0x03
	socks5PasswordVer   = 0x01

	// socks5TestDomain is the CONNECT target used to see that the proxy
	// actually answers requests. The outcome of the connect is ignored.
	socks5TestDomain = "example.com"

	checkProxyTimeout = 10 * time.Second
)

// CheckProxy performs a SOCKS5 handshake against address (same formats as
// WithSOCKS5) and issues one CONNECT request. It reports whether the
// proxy is reachable and speaks SOCKS5, so a scan can fail fast instead
// of timing out on every site.
func CheckProxy(ctx context.Context, address string) ProxyStatus {
	addr, auth, err := ParseProxyAddress(address)
	if err != nil {
		return ProxyStatusCannotConnect
	}

	ctx, cancel := context.WithTimeout(ctx, checkProxyTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ProxyStatusTimeout
		}
		return ProxyStatusCannotConnect
	}
	defer conn.Close()

	deadline, _ := ctx.Deadline()
	if err := conn.SetDeadline(deadline); err != nil {
		return ProxyStatusCannotConnect
	}

	greeting := []byte{socks5Version, 0x01, socks5AuthNone}
	if auth != nil {
		greeting = []byte{socks5Version, 0x02, socks5AuthNone, socks5AuthPassword}
	}
	if _, err := conn.Write(greeting); err != nil {
		return ProxyStatusCannotConnect
	}

	authResp := make([]byte, 2)
	if _, err := io.ReadFull(conn, authResp); err != nil {
		return readFailureStatus(err)
	}
	if authResp[0] != socks5Version {
		return ProxyStatusWrongType
	}

	switch authResp[1] {
	case socks5AuthNone:
	case socks5AuthPassword:
		if auth == nil {
			return ProxyStatusWrongType
		}
		if status := passwordAuth(conn, auth.User, auth.Password); status != ProxyStatusOK {
			return status
		}
	default:
		// includes socks5AuthNoAccept
		return ProxyStatusWrongType
	}

	connectReq := []byte{
		socks5Version,
		socks5CmdConnect,
		0x00,
		socks5AddrTypeDomID,
		byte(len(socks5TestDomain)),
	}
	connectReq = append(connectReq, socks5TestDomain...)
	connectReq = append(connectReq, 0x00, 80)

	if _, err := conn.Write(connectReq); err != nil {
		return ProxyStatusCannotConnect
	}

	connectResp := make([]byte, 4)
	if _, err := io.ReadFull(conn, connectResp); err != nil {
		return readFailureStatus(err)
	}
	if connectResp[0] != socks5Version {
		return ProxyStatusWrongType
	}

	return ProxyStatusOK
}

// passwordAuth runs the username/password subnegotiation (RFC 1929).
func passwordAuth(conn net.Conn, user, password string) ProxyStatus {
	if len(user) > 255 || len(password) > 255 {
		return ProxyStatusWrongType
	}
	req := []byte{socks5PasswordVer, byte(len(user))}
	req = append(req, user...)
	req = append(req, byte(len(password)))
	req = append(req, password...)

	if _, err := conn.Write(req); err != nil {
		return ProxyStatusCannotConnect
	}

	resp := make([]byte, 2)
	if _, err := io.ReadFull(conn, resp); err != nil {
		return readFailureStatus(err)
	}
	if resp[1] != 0x00 {
		return ProxyStatusWrongType
	}
	return ProxyStatusOK
}

func readFailureStatus(err error) ProxyStatus {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ProxyStatusTimeout
	}
	return ProxyStatusWrongType
}
