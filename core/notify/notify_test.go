package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockWriter) Close() error {
	return m.Called().Error(0)
}

type recordingNotifier struct {
	sent []Message
	err  error
}

func (r *recordingNotifier) Send(_ context.Context, msg Message) error {
	r.sent = append(r.sent, msg)
	return r.err
}

func sampleMessage() Message {
	return Message{
		ID:       "alert-1",
		Kind:     KindDiscrepancy,
		Severity: SeverityCritical,
		Title:    "inventory discrepancy",
		Body:     "2 of 10 products failed",
		ReportID: "report-1",
		At:       time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestKafkaConfig_BrokerList(t *testing.T) {
	assert.Nil(t, KafkaConfig{}.BrokerList())
	assert.False(t, KafkaConfig{Brokers: " , "}.Enabled())

	cfg := KafkaConfig{Brokers: "a:9092, b:9092,"}
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.BrokerList())
	assert.True(t, cfg.Enabled())
}

func TestKafkaNotifier_Send(t *testing.T) {
	w := new(mockWriter)
	n := &KafkaNotifier{writer: w}

	w.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
		if len(msgs) != 1 || string(msgs[0].Key) != "DISCREPANCY" {
			return false
		}
		var decoded Message
		if err := json.Unmarshal(msgs[0].Value, &decoded); err != nil {
			return false
		}
		return decoded.ReportID == "report-1" && decoded.Severity == SeverityCritical
	})).Return(nil)

	require.NoError(t, n.Send(context.Background(), sampleMessage()))
	w.AssertExpectations(t)
}

func TestKafkaNotifier_SendError(t *testing.T) {
	w := new(mockWriter)
	n := &KafkaNotifier{writer: w}
	w.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	err := n.Send(context.Background(), sampleMessage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestKafkaNotifier_Close(t *testing.T) {
	w := new(mockWriter)
	w.On("Close").Return(nil)

	assert.NoError(t, (&KafkaNotifier{writer: w}).Close())
	w.AssertExpectations(t)
}

func TestLogNotifier_SeverityLevels(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	n := NewLogNotifier(zap.New(core))

	msg := sampleMessage()
	require.NoError(t, n.Send(context.Background(), msg))
	msg.Severity = SeverityWarning
	require.NoError(t, n.Send(context.Background(), msg))
	msg.Severity = SeverityInfo
	require.NoError(t, n.Send(context.Background(), msg))

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[2].Level)
	assert.Equal(t, "DISCREPANCY", entries[0].ContextMap()["kind"])
}

func TestMulti_AttemptsEveryChannel(t *testing.T) {
	failing := &recordingNotifier{err: errors.New("channel a down")}
	working := &recordingNotifier{}

	err := Multi{failing, working}.Send(context.Background(), sampleMessage())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel a down")
	assert.Len(t, failing.sent, 1)
	assert.Len(t, working.sent, 1)
}

func TestMulti_Empty(t *testing.T) {
	assert.NoError(t, Multi{}.Send(context.Background(), sampleMessage()))
}
