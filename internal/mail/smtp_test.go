package mail

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"
)

func closedPort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	_, port, err := net.SplitHostPort(l.Addr().String())
	require.NoError(t, err)
	require.NoError(t, l.Close())
	p, err := strconv.Atoi(port)
	require.NoError(t, err)
	return p
}

func TestNewSMTPSender_RequiresHost(t *testing.T) {
	_, err := NewSMTPSender(SMTPConfig{Port: 25})
	assert.Error(t, err)
}

func TestSMTPSender_SendFailsWhenRelayUnreachable(t *testing.T) {
	sender, err := NewSMTPSender(SMTPConfig{
		Host:    "127.0.0.1",
		Port:    closedPort(t),
		Timeout: time.Second,
	})
	require.NoError(t, err)

	err = sender.Send(context.Background(), Message{
		From:    "shop@example.com",
		To:      "jane@example.com",
		Subject: "subject",
		Body:    "body",
	})
	assert.Error(t, err)
}

func TestSMTPSender_SendRejectsBadFromAddress(t *testing.T) {
	sender, err := NewSMTPSender(SMTPConfig{Host: "127.0.0.1", Port: 25})
	require.NoError(t, err)

	err = sender.Send(context.Background(), Message{From: "not-an-address", To: "jane@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid from address")
}

func TestTLSPolicy(t *testing.T) {
	assert.Equal(t, gomail.TLSMandatory, tlsPolicy("mandatory"))
	assert.Equal(t, gomail.TLSOpportunistic, tlsPolicy("opportunistic"))
	assert.Equal(t, gomail.NoTLS, tlsPolicy("none"))
	assert.Equal(t, gomail.NoTLS, tlsPolicy(""))
}

// smtpRelay is a loopback server speaking just enough ESMTP for one session.
// dataReply is sent after the message body is received.
type smtpRelay struct {
	port int
	data chan string
}

func startSMTPRelay(t *testing.T, dataReply string) *smtpRelay {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	relay := &smtpRelay{
		port: l.Addr().(*net.TCPAddr).Port,
		data: make(chan string, 1),
	}

	go func() {
		conn, err := l.Accept()
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()
		_ = conn.SetDeadline(time.Now().Add(10 * time.Second))

		r := bufio.NewReader(conn)
		reply := func(line string) { _, _ = conn.Write([]byte(line + "\r\n")) }

		reply("220 localhost ESMTP")
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			cmd := strings.ToUpper(strings.TrimSpace(line))

			switch {
			case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
				reply("250 localhost")
			case cmd == "DATA":
				reply("354 end data with <CR><LF>.<CR><LF>")
				var body strings.Builder
				for {
					dataLine, err := r.ReadString('\n')
					if err != nil {
						return
					}
					if dataLine == ".\r\n" {
						break
					}
					body.WriteString(dataLine)
				}
				relay.data <- body.String()
				reply(dataReply)
			case cmd == "QUIT":
				reply("221 bye")
				return
			default:
				reply("250 OK")
			}
		}
	}()

	return relay
}

func TestSMTPSender_Send(t *testing.T) {
	msg := Message{
		From:    "springshop@email.com",
		To:      "jane@example.com",
		Subject: "Your Order with OrderNumber ORD-1001 is placed successfully",
		Body:    "Hi Jane Doe,\n\nYour order with order number ORD-1001 is now placed successfully.\n",
	}

	tests := []struct {
		name      string
		dataReply string
		wantErr   bool
	}{
		{"relay accepts message", "250 queued", false},
		{"relay rejects message", "554 transaction failed", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			relay := startSMTPRelay(t, tt.dataReply)

			sender, err := NewSMTPSender(SMTPConfig{
				Host:    "127.0.0.1",
				Port:    relay.port,
				TLS:     "none",
				Timeout: 5 * time.Second,
			})
			require.NoError(t, err)

			err = sender.Send(context.Background(), msg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			var data string
			select {
			case data = <-relay.data:
			case <-time.After(5 * time.Second):
				t.Fatal("relay never received DATA")
			}

			assert.Contains(t, data, "Subject: Your Order with OrderNumber ORD-1001 is placed successfully")
			assert.Contains(t, data, "From: <springshop@email.com>")
			assert.Contains(t, data, "To: <jane@example.com>")
			assert.Contains(t, data, "Hi Jane Doe,")
			assert.Contains(t, data, "order number ORD-1001")
		})
	}
}
