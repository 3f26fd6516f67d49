package utils_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/NethermindEth/accountcheck/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

var levels = map[string]zapcore.Level{
	"debug": utils.DEBUG,
	"info":  utils.INFO,
	"warn":  utils.WARN,
	"error": utils.ERROR,
}

func TestLogLevel(t *testing.T) {
	for name, level := range levels {
		t.Run(name, func(t *testing.T) {
			l := utils.NewLogLevel(level)
			assert.Equal(t, name, l.String())

			for _, input := range []string{name, strings.ToUpper(name)} {
				set := utils.NewLogLevel(utils.ERROR)
				require.NoError(t, set.Set(input))
				assert.Equal(t, level, set.Level())

				text := new(utils.LogLevel)
				require.NoError(t, text.UnmarshalText([]byte(input)))
				assert.Equal(t, level, text.Level())
			}

			b, err := json.Marshal(l)
			require.NoError(t, err)
			assert.Equal(t, `"`+name+`"`, string(b))

			b, err = yaml.Marshal(l)
			require.NoError(t, err)
			assert.Equal(t, name+"\n", string(b))

			for _, colour := range []bool{true, false} {
				_, err := utils.NewZapLogger(l, colour)
				assert.NoError(t, err)
			}
		})
	}

	t.Run("unknown", func(t *testing.T) {
		assert.ErrorIs(t, new(utils.LogLevel).Set("trace"), utils.ErrUnknownLogLevel)
		assert.ErrorIs(t, new(utils.LogLevel).UnmarshalText([]byte("blah")), utils.ErrUnknownLogLevel)
	})

	assert.Equal(t, "LogLevel", new(utils.LogLevel).Type())
}

func TestZapLoggerFollowsLevelChanges(t *testing.T) {
	logLevel := utils.NewLogLevel(utils.INFO)

	var buf bytes.Buffer
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(&buf),
		logLevel.GetAtomicLevel(),
	)
	logger := utils.NewZapLoggerWithCore(core)

	logger.Debugw("hidden")
	assert.Empty(t, buf.String())

	require.NoError(t, logLevel.Set("debug"))
	logger.Debugw("shown", "key", "value")
	assert.Contains(t, buf.String(), "shown")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestHTTPLogSettings(t *testing.T) {
	logLevel := utils.NewLogLevel(utils.INFO)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.HTTPLogSettings(w, r, logLevel)
	})

	// Cases run in order and share logLevel.
	tests := []struct {
		method, target string
		code           int
		body           string
	}{
		{http.MethodGet, "/log/level", http.StatusOK, "info\n"},
		{http.MethodPut, "/log/level?level=debug", http.StatusOK, "Replaced log level with 'debug' successfully\n"},
		{http.MethodGet, "/log/level", http.StatusOK, "debug\n"},
		{http.MethodPut, "/log/level", http.StatusBadRequest, "missing level query parameter\n"},
		{http.MethodPut, "/log/level?level=invalid", http.StatusBadRequest, utils.ErrUnknownLogLevel.Error() + "\n"},
		{http.MethodPost, "/log/level", http.StatusMethodNotAllowed, "Method not allowed\n"},
	}
	for _, test := range tests {
		req, err := http.NewRequestWithContext(t.Context(), test.method, test.target, http.NoBody)
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, test.code, rr.Code, test.method+" "+test.target)
		assert.Equal(t, test.body, rr.Body.String(), test.method+" "+test.target)
	}
}
