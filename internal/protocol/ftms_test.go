package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFTMSSetTargetSpeedFraming(t *testing.T) {
	f, err := FTMS{}.SetSpeed(3.5)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0x5e, 0x01}, f)

	f, err = FTMS{}.SetSpeed(6.0)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0x58, 0x02}, f)
}

func TestFTMSSetSpeedBounds(t *testing.T) {
	_, err := FTMS{}.SetSpeed(0.4999)
	assert.Error(t, err)
	_, err = FTMS{}.SetSpeed(6.0001)
	assert.Error(t, err)
}

func TestFTMSParseMinimal(t *testing.T) {
	s := FTMS{}.ParseTreadmillData([]byte{0x00, 0x00, 0x00, 0x00})
	assert.Equal(t, 0.0, s.SpeedKmh)
	assert.False(t, s.IsRunning)
	assert.Equal(t, DeviceIdle, s.DeviceState)
	assert.Equal(t, ModeStandby, s.ControlMode)
	assert.Equal(t, 0, s.Steps)
}

func TestFTMSParseOnlyFlagsYieldsDefault(t *testing.T) {
	s := FTMS{}.ParseTreadmillData([]byte{0x00, 0x00})
	assert.Equal(t, DefaultState(), s)
}

func TestFTMSParseSpeedDistanceTime(t *testing.T) {
	buf := []byte{
		0x04, 0x04, // flags: bit2 (total distance) + bit10 (elapsed time)
		0x64, 0x00, // speed = 100 -> 1.00 km/h
		0xe8, 0x03, 0x00, // distance = 1000 m -> 1.0 km
		0x3c, 0x00, // time = 60 s
	}
	s := FTMS{}.ParseTreadmillData(buf)

	assert.InDelta(t, 1.0, s.SpeedKmh, 0.001)
	assert.InDelta(t, 1.0, s.DistanceKm, 0.001)
	assert.Equal(t, 60, s.TimeSeconds)
	assert.True(t, s.IsRunning)
}

func TestFTMSParseTotalDistanceTruncatedHalts(t *testing.T) {
	buf := []byte{
		0x04, 0x00, // flags: bit2 (total distance) only
		0x64, 0x00, // speed
		0x01, 0x02, // only 2 of the 3 distance bytes present
	}
	s := FTMS{}.ParseTreadmillData(buf)

	assert.InDelta(t, 1.0, s.SpeedKmh, 0.001)
	assert.Equal(t, 0.0, s.DistanceKm)
}

func TestFTMSParseStepsVendorExtension(t *testing.T) {
	buf := []byte{
		0x00, 0x00, // no optional fields
		0x64, 0x00, // speed
		0x2a, 0x00, // steps = 42
	}
	s := FTMS{}.ParseTreadmillData(buf)
	assert.Equal(t, 42, s.Steps)
}

func TestFTMSRequestControlAndCommands(t *testing.T) {
	assert.Equal(t, []byte{0x00}, FTMS{}.RequestControl())
	assert.Equal(t, []byte{0x07}, FTMS{}.Start())
	assert.Equal(t, []byte{0x08, 0x01}, FTMS{}.Stop())
	assert.Nil(t, FTMS{}.AskStats())
}
