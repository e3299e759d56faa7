// Package vitaclient owns the main loop from spec.md §4.6: it dials the
// Vita's TCP control socket, auto-binds a UDP data socket, drives the
// handshake, and then loops between heartbeat timing and pad-report
// delivery into the translator, grounded on internal/cmd/server.go's
// signal-driven run loop (signal.NotifyContext, blocking read with
// periodic wakeups).
package vitaclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/vitaoxipad/vitaoxipad-go/internal/vlog"
	"github.com/vitaoxipad/vitaoxipad-go/internal/vperr"
	"github.com/vitaoxipad/vitaoxipad-go/psk"
	"github.com/vitaoxipad/vitaoxipad-go/sink"
	"github.com/vitaoxipad/vitaoxipad-go/translator"
	"github.com/vitaoxipad/vitaoxipad-go/vitaconfig"
	"github.com/vitaoxipad/vitaoxipad-go/vitaconn"
)

// connectTimeout bounds both the TCP dial and the handshake-response read,
// fixing the missing-timeout bug spec.md §9 flags (SPEC_FULL.md REDESIGN
// FLAGS).
const connectTimeout = 25 * time.Second

// heartbeatMargin is the fixed safety margin subtracted from heartbeat_freq
// (spec.md §9: "do not shrink it").
const heartbeatMargin = 5 * time.Second

// recvBufSize is the minimum receive buffer spec.md §4.6 calls for
// ("a ≥2 KiB buffer").
const recvBufSize = 2048

// Options configures a single client session.
type Options struct {
	Host                  string
	Port                  uint16
	Config                vitaconfig.Config
	PollingIntervalMicros uint64
	PSK                   []byte
	Logger                *slog.Logger
	Raw                   vlog.RawLogger
}

// Run performs the handshake and drives the steady-state loop until ctx is
// canceled or a fatal error occurs (spec.md §7: all kinds but a timestamp
// regression are fatal).
func Run(ctx context.Context, opts Options, dev sink.Device) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	raw := opts.Raw
	if raw == nil {
		raw = vlog.NewRaw(nil)
	}

	addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)

	tcpConn, err := net.DialTimeout("tcp", addr, connectTimeout)
	if err != nil {
		return vperr.NetworkConnect("dial "+addr, err)
	}
	defer tcpConn.Close()

	if len(opts.PSK) > 0 {
		sessionKey, err := psk.ClientHandshake(tcpConn, opts.PSK)
		if err != nil {
			return vperr.NetworkConnect("psk handshake", err)
		}
		wrapped, err := psk.WrapConn(tcpConn, sessionKey)
		if err != nil {
			return vperr.NetworkConnect("psk session wrap", err)
		}
		tcpConn = wrapped
		logger.Info("control channel encrypted", "cipher", "chacha20poly1305")
	}

	udpConn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4zero, Port: 0})
	if err != nil {
		return vperr.NetworkConnect("bind udp", err)
	}
	defer udpConn.Close()

	serverUDPAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return vperr.NetworkConnect("resolve udp addr", err)
	}

	localUDPPort := uint16(udpConn.LocalAddr().(*net.UDPAddr).Port)
	logger.Info("bound udp data socket", "port", localUDPPort)

	conn := vitaconn.New()
	if err := conn.SendHandshake(localUDPPort); err != nil {
		return vperr.NetworkIO("send handshake", err)
	}
	if err := writeOut(tcpConn, conn, raw); err != nil {
		return vperr.NetworkIO("write handshake", err)
	}

	heartbeatFreq, err := awaitHandshakeResponse(tcpConn, conn, raw)
	if err != nil {
		return err
	}
	logger.Info("handshake established", "heartbeatFreqSeconds", heartbeatFreq)

	// One UDP heartbeat punches a hole through NAT before any pad data
	// arrives (spec.md §4.6).
	if err := conn.SendHeartbeat(); err != nil {
		return vperr.NetworkIO("queue punch-through heartbeat", err)
	}
	if err := writeOutTo(udpConn, serverUDPAddr, conn, raw); err != nil {
		return vperr.NetworkIO("send punch-through heartbeat", err)
	}

	tr, err := translator.New(opts.Config, dev, logger)
	if err != nil {
		return vperr.SinkCreate("translator init", err)
	}

	if opts.PollingIntervalMicros != 0 && opts.PollingIntervalMicros != 6000 {
		if err := conn.SendConfig(opts.PollingIntervalMicros); err != nil {
			return vperr.NetworkIO("queue config", err)
		}
		if err := writeOut(tcpConn, conn, raw); err != nil {
			return vperr.NetworkIO("send config", err)
		}
	}

	return steadyState(ctx, tcpConn, udpConn, conn, tr, heartbeatFreq, logger, raw)
}

func awaitHandshakeResponse(tcpConn net.Conn, conn *vitaconn.Conn, raw vlog.RawLogger) (uint32, error) {
	deadline := time.Now().Add(connectTimeout)
	buf := make([]byte, recvBufSize)
	for {
		if err := tcpConn.SetReadDeadline(deadline); err != nil {
			return 0, vperr.NetworkIO("set read deadline", err)
		}
		n, err := tcpConn.Read(buf)
		if err != nil {
			return 0, vperr.NetworkConnect("handshake response read", err)
		}
		raw.Log(true, buf[:n])

		events, err := conn.Feed(buf[:n])
		if err != nil {
			return 0, vperr.ProtocolDecode("handshake response decode", err)
		}
		for _, ev := range events {
			if hr, ok := ev.(vitaconn.HandshakeResponseReceived); ok {
				return hr.HeartbeatFreqSeconds, nil
			}
		}
	}
}

func steadyState(
	ctx context.Context,
	tcpConn net.Conn,
	udpConn *net.UDPConn,
	conn *vitaconn.Conn,
	tr *translator.Translator,
	heartbeatFreqSeconds uint32,
	logger *slog.Logger,
	raw vlog.RawLogger,
) error {
	heartbeatInterval := time.Duration(heartbeatFreqSeconds)*time.Second - heartbeatMargin
	if heartbeatInterval <= 0 {
		heartbeatInterval = time.Second
	}
	lastHeartbeat := time.Now()
	buf := make([]byte, recvBufSize)

	for {
		if err := ctx.Err(); err != nil {
			logger.Info("shutting down")
			return nil
		}

		waitUntil := lastHeartbeat.Add(heartbeatInterval)
		timeout := time.Until(waitUntil)
		if timeout < 0 {
			timeout = 0
		}

		if err := udpConn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return vperr.NetworkIO("set udp read deadline", err)
		}
		n, _, err := udpConn.ReadFromUDP(buf)

		if time.Now().After(waitUntil) || (err != nil && isTimeout(err)) {
			if err2 := conn.SendHeartbeat(); err2 != nil {
				return vperr.NetworkIO("queue heartbeat", err2)
			}
			if err2 := writeOut(tcpConn, conn, raw); err2 != nil {
				return vperr.NetworkIO("send heartbeat", err2)
			}
			lastHeartbeat = time.Now()
		}

		if err != nil {
			if isTimeout(err) {
				continue
			}
			return vperr.NetworkIO("udp read", err)
		}

		raw.Log(true, buf[:n])
		events, err := conn.Feed(buf[:n])
		if err != nil {
			return vperr.ProtocolDecode("udp packet decode", err)
		}
		for _, ev := range events {
			if pd, ok := ev.(vitaconn.PadDataReceived); ok {
				if err := tr.Process(pd.Pad); err != nil {
					return vperr.SinkWrite("translate pad report", err)
				}
			}
		}
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func writeOut(w net.Conn, conn *vitaconn.Conn, raw vlog.RawLogger) error {
	data := conn.RetrieveOutData()
	if len(data) == 0 {
		return nil
	}
	raw.Log(false, data)
	_, err := w.Write(data)
	return err
}

func writeOutTo(w *net.UDPConn, addr *net.UDPAddr, conn *vitaconn.Conn, raw vlog.RawLogger) error {
	data := conn.RetrieveOutData()
	if len(data) == 0 {
		return nil
	}
	raw.Log(false, data)
	_, err := w.WriteToUDP(data, addr)
	return err
}
