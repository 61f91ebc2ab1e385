package protocol

import "github.com/walkingpad/padctl/internal/uuidutil"

// FTMSServiceUUID is the Bluetooth-assigned short-form Fitness Machine
// Service UUID.
const FTMSServiceUUID = "1826"

var (
	standardSingleton Codec = &Standard{}
	ftmsSingleton     Codec = &FTMS{}
)

// StandardCodec returns the process-wide Standard codec instance.
func StandardCodec() Codec { return standardSingleton }

// FTMSCodec returns the process-wide FTMS codec instance.
func FTMSCodec() Codec { return ftmsSingleton }

// Detect chooses a codec from the service UUIDs discovered on a
// peripheral: FTMS if any UUID's short form equals 1826, otherwise the
// standard protocol. The returned Codec is a memoized singleton — always
// the same reference for a given variant.
func Detect(serviceUUIDs []string) Codec {
	for _, u := range serviceUUIDs {
		if uuidutil.Matches(u, FTMSServiceUUID) {
			return ftmsSingleton
		}
	}
	return standardSingleton
}
