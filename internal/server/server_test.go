package server

import (
	"bufio"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rkv-project/rkv/internal/command"
	"github.com/rkv-project/rkv/internal/logging"
	"github.com/rkv-project/rkv/internal/store"
)

func startTestServer(t *testing.T) (addr string, srv *Server) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv = New(store.NewKeyspace(), command.NewRegistry(), logging.New(logging.LevelCritical))
	go srv.Serve(ln)

	t.Cleanup(srv.Shutdown)
	return ln.Addr().String(), srv
}

func dial(t *testing.T, addr string) net.Conn {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	conn.SetDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func readLine(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	return line
}

func TestEndToEndSetGetOverRealSocket(t *testing.T) {
	addr, _ := startTestServer(t)
	conn := dial(t, addr)
	r := bufio.NewReader(conn)

	_, err := conn.Write([]byte("*3\r\n$3\r\nSET\r\n$1\r\nk\r\n$1\r\nv\r\n"))
	require.NoError(t, err)
	require.Equal(t, "+OK\r\n", readLine(t, r))

	_, err = conn.Write([]byte("*2\r\n$3\r\nGET\r\n$1\r\nk\r\n"))
	require.NoError(t, err)
	require.Equal(t, "$1\r\n", readLine(t, r))
	require.Equal(t, "v\r\n", readLine(t, r))
}

func TestEndToEndFragmentedRequestAcrossWrites(t *testing.T) {
	addr, _ := startTestServer(t)
	conn := dial(t, addr)
	r := bufio.NewReader(conn)

	full := "*2\r\n$4\r\nPING\r\n$2\r\nhi\r\n"
	for i := 0; i < len(full); i++ {
		_, err := conn.Write([]byte{full[i]})
		require.NoError(t, err)
	}

	require.Equal(t, "+hi\r\n", readLine(t, r))
}

func TestEndToEndPipelinedRequestsInOneWrite(t *testing.T) {
	addr, _ := startTestServer(t)
	conn := dial(t, addr)
	r := bufio.NewReader(conn)

	_, err := conn.Write([]byte("*1\r\n$4\r\nPING\r\n*1\r\n$4\r\nPING\r\n"))
	require.NoError(t, err)

	require.Equal(t, "+PONG\r\n", readLine(t, r))
	require.Equal(t, "+PONG\r\n", readLine(t, r))
}

func TestEndToEndProtocolErrorClosesConnection(t *testing.T) {
	addr, _ := startTestServer(t)
	conn := dial(t, addr)

	_, err := conn.Write([]byte("+OK\r\n"))
	require.NoError(t, err)

	buf := make([]byte, 16)
	n, err := conn.Read(buf)
	if err == nil {
		t.Fatalf("expected EOF on protocol error, got %d bytes: %q", n, buf[:n])
	}
	require.ErrorIs(t, err, io.EOF)
}

func TestConcurrentClientsDoNotCorruptEachOther(t *testing.T) {
	addr, _ := startTestServer(t)

	const clients = 8
	done := make(chan struct{}, clients)
	for i := 0; i < clients; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			conn := dial(t, addr)
			r := bufio.NewReader(conn)
			key := "k"
			_, _ = conn.Write([]byte("*3\r\n$3\r\nSET\r\n$1\r\n" + key + "\r\n$1\r\nv\r\n"))
			_ = readLine(t, r)
		}(i)
	}
	for i := 0; i < clients; i++ {
		<-done
	}
}
