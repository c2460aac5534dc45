package helpers

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer

	assert.Equal(t, logrus.DebugLevel, newLogger(&buf, "app", "development").GetLevel())
	assert.Equal(t, logrus.WarnLevel, newLogger(&buf, "app", "test").GetLevel())

	prod := newLogger(&buf, "app", "production")
	assert.Equal(t, logrus.InfoLevel, prod.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, prod.Formatter)
}

func TestLogError_AddsErrorField(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "app", "production")
	buf.Reset()

	LogError(logger, "boom", errors.New("disk full"), logrus.Fields{"op": "insert"})

	out := buf.String()
	assert.Contains(t, out, `"error":"disk full"`)
	assert.Contains(t, out, `"op":"insert"`)
	assert.Contains(t, out, `"msg":"boom"`)
}

func TestLogHelpers_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		LogError(nil, "x", errors.New("y"), nil)
		LogInfo(nil, "x", nil)
	})
}
