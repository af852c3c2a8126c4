package grpc

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func TestNewServer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	tests := map[string]struct {
		cfg   *Config
		error error
	}{
		"invalid config": {
			cfg:   &Config{},
			error: errors.New("address required\nport required\nrecordings required"),
		},
		"valid config": {
			cfg: &Config{
				Address:    "127.0.0.1",
				Port:       freePort(t),
				Recordings: NewMockrecordings(ctrl),
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := NewServer(test.cfg)
			req := require.New(t)
			if test.error != nil {
				req.Error(err)
				req.Nil(got)

				req.Equal(test.error.Error(), err.Error())
				return
			}

			req.NoError(err)
			req.NotNil(got)
			req.NoError(got.listener.Close())
		})
	}
}

func TestServer_Name(t *testing.T) {
	s := &Server{}
	require.Equal(t, "gRPC Server", s.Name())
}

func TestServer_Start(t *testing.T) {
	t.Run("successful start", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockServer := NewMockgrpcServer(ctrl)
		ml := &mockListener{}

		mockServer.EXPECT().
			Serve(ml).
			DoAndReturn(func(net.Listener) error {
				// Simulate blocking serve
				time.Sleep(100 * time.Millisecond)
				return nil
			})

		s := &Server{
			address:  "127.0.0.1",
			port:     12345,
			server:   mockServer,
			listener: ml,
		}

		err := s.Start()
		require.NoError(t, err)
	})

	t.Run("serve error on start", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockServer := NewMockgrpcServer(ctrl)
		ml := &mockListener{}

		mockServer.EXPECT().
			Serve(ml).
			Return(errors.New("bind error"))

		s := &Server{
			address:  "127.0.0.1",
			port:     12345,
			server:   mockServer,
			listener: ml,
		}

		err := s.Start()
		require.Error(t, err)
		require.Contains(t, err.Error(), "bind error")
	})
}

func TestServer_Stop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockServer := NewMockgrpcServer(ctrl)
	mockServer.EXPECT().GracefulStop().Times(1)

	s := &Server{
		server: mockServer,
	}

	require.NoError(t, s.Stop())
}

type mockListener struct {
	net.Listener
}

func (m *mockListener) Accept() (net.Conn, error) { return nil, nil }
func (m *mockListener) Close() error              { return nil }
func (m *mockListener) Addr() net.Addr            { return &net.TCPAddr{Port: 12345} }
