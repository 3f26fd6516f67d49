package node_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/NethermindEth/accountcheck/checker"
	"github.com/NethermindEth/accountcheck/mocks"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func dialStream(t *testing.T, h http.Handler, opts *websocket.DialOptions) (*websocket.Conn, error) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	conn, _, err := websocket.Dial(t.Context(), "ws"+strings.TrimPrefix(srv.URL, "http")+"/v1/ws", opts)
	if err == nil {
		t.Cleanup(func() { conn.CloseNow() })
	}
	return conn, err
}

func TestStream(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	gw := mocks.NewMockGateway(mockCtrl)
	gw.EXPECT().ClassHashAt(gomock.Any(), gomock.Any()).Return(nil, nil)

	conn, err := dialStream(t, newHandler(t, gw), nil)
	require.NoError(t, err)

	for _, raw := range []string{"not an address", " " + testAddress + "\n"} {
		require.NoError(t, conn.Write(t.Context(), websocket.MessageText, []byte(raw)))
	}

	var report checker.Report
	require.NoError(t, wsjson.Read(t.Context(), conn, &report))
	assert.Equal(t, checker.KindInvalid, report.Type)
	assert.Equal(t, "not an address", report.Address)

	require.NoError(t, wsjson.Read(t.Context(), conn, &report))
	assert.Equal(t, checker.KindEOA, report.Type)
	assert.Equal(t, testAddress, report.Address)

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, ""))
}

func TestStreamRejectsBinary(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	conn, err := dialStream(t, newHandler(t, mocks.NewMockGateway(mockCtrl)), nil)
	require.NoError(t, err)

	require.NoError(t, conn.Write(t.Context(), websocket.MessageBinary, []byte{0x01}))
	_, _, err = conn.Read(t.Context())
	assert.Equal(t, websocket.StatusUnsupportedData, websocket.CloseStatus(err))
}

func TestStreamOrigins(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	h := newHandler(t, mocks.NewMockGateway(mockCtrl)).WithCORS([]string{"https://app.example"})

	_, err := dialStream(t, h, &websocket.DialOptions{
		HTTPHeader: http.Header{"Origin": []string{"https://evil.example"}},
	})
	require.Error(t, err)

	_, err = dialStream(t, h, &websocket.DialOptions{
		HTTPHeader: http.Header{"Origin": []string{"https://app.example"}},
	})
	require.NoError(t, err)
}
