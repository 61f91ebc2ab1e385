package clamp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpeed(t *testing.T) {
	assert.Equal(t, 0.0, Speed(-1))
	assert.Equal(t, 0.0, Speed(math.NaN()))
	assert.Equal(t, 0.0, Speed(math.Inf(1)))
	assert.Equal(t, MaxSpeedKmh, Speed(100))
	assert.Equal(t, 3.5, Speed(3.5))
}

func TestTimeFloors(t *testing.T) {
	assert.Equal(t, 12.0, Time(12.9))
	assert.Equal(t, MaxTimeSeconds, Time(1e9))
	assert.Equal(t, 0.0, Time(-5))
}

func TestStepsFloors(t *testing.T) {
	assert.Equal(t, 99.0, Steps(99.9))
	assert.Equal(t, MaxSteps, Steps(1e9))
}

func TestDistance(t *testing.T) {
	assert.Equal(t, MaxDistanceKm, Distance(1e9))
	assert.Equal(t, 0.5, Distance(0.5))
}

func TestDeviceStateAndControlMode(t *testing.T) {
	assert.Equal(t, 0, DeviceState(math.NaN()))
	assert.Equal(t, 3, DeviceState(10))
	assert.Equal(t, 1, DeviceState(1.9))
	assert.Equal(t, 2, ControlMode(10))
}
