package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardParseStatusFixture(t *testing.T) {
	buf := []byte{0xf7, 0xa2, 0x01, 0x23, 0x00, 0x00, 0x00, 0x78, 0x00, 0x00, 0x32, 0x00, 0x00, 0x64, 0x00, 0xfd}

	s := Standard{}.ParseStatus(buf)

	assert.Equal(t, DeviceRunning, s.DeviceState)
	assert.InDelta(t, 3.5, s.SpeedKmh, 0.001)
	assert.Equal(t, ModeStandby, s.ControlMode)
	assert.Equal(t, 120, s.TimeSeconds)
	assert.InDelta(t, 0.5, s.DistanceKm, 0.001)
	assert.Equal(t, 100, s.Steps)
	assert.True(t, s.IsRunning)
}

func TestStandardParseStatusTooShortYieldsDefault(t *testing.T) {
	buf := make([]byte, 15)
	s := Standard{}.ParseStatus(buf)
	assert.Equal(t, DefaultState(), s)

	buf16 := make([]byte, 16)
	buf16[2] = 0x01 // device state: running
	assert.NotEqual(t, DefaultState(), Standard{}.ParseStatus(buf16))
}

func TestStandardSetSpeedFraming(t *testing.T) {
	frame, err := Standard{}.SetSpeed(3.5)
	require.NoError(t, err)

	require.Len(t, frame, 6)
	assert.Equal(t, byte(0xf7), frame[0])
	assert.Equal(t, byte(0xa2), frame[1])
	assert.Equal(t, byte(0xfd), frame[len(frame)-1])

	sum := 0
	for _, b := range frame[1 : len(frame)-2] {
		sum += int(b)
	}
	assert.Equal(t, byte(sum%256), frame[len(frame)-2])
}

func TestStandardSetSpeedBounds(t *testing.T) {
	_, err := Standard{}.SetSpeed(0.5)
	assert.NoError(t, err)
	_, err = Standard{}.SetSpeed(6.0)
	assert.NoError(t, err)

	_, err = Standard{}.SetSpeed(0.4999)
	assert.Error(t, err)
	_, err = Standard{}.SetSpeed(6.0001)
	assert.Error(t, err)
}

func TestStandardFrameChecksumInvariant(t *testing.T) {
	for _, frame := range [][]byte{
		Standard{}.AskStats(),
		Standard{}.Start(),
		Standard{}.Stop(),
	} {
		n := len(frame)
		sum := 0
		for _, b := range frame[1 : n-2] {
			sum += int(b)
		}
		assert.Equal(t, byte(sum%256), frame[n-2])
		assert.Equal(t, byte(0xfd), frame[n-1])
	}
}

func TestStandardRequestControlIsEmpty(t *testing.T) {
	assert.Empty(t, Standard{}.RequestControl())
}
