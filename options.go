package walkingpad

import "github.com/walkingpad/padctl/internal/ble"

// FTMSServiceUUID and the two legacy service UUIDs make up the default
// optional-services whitelist (spec §6).
const (
	FTMSServiceUUID    = "1826"
	LegacyServiceUUIDA = "fe00"
	LegacyServiceUUIDB = "fff0"
)

// DefaultNamePrefixes is the default device-picker name-prefix filter.
var DefaultNamePrefixes = []string{"Walking", "KS"}

// DefaultOptionalServices is the default optional-services whitelist
// passed to the BLE stack's device picker.
var DefaultOptionalServices = []string{FTMSServiceUUID, LegacyServiceUUIDA, LegacyServiceUUIDB}

// ConnectOptions configures a Connect or Reconnect call. The zero value
// is valid and selects every documented default.
type ConnectOptions struct {
	// RememberDevice persists the chosen device id on successful connect.
	RememberDevice bool

	// PollIntervalMs is the legacy-protocol poll cadence; ignored for
	// FTMS. Must be finite and > 0; 0 selects poll.DefaultInterval.
	PollIntervalMs float64

	// Filters overrides the default device-picker name-prefix filters.
	Filters []ble.Filter

	// OptionalServices overrides the default service whitelist.
	OptionalServices []string

	// ConnectionTimeout, WriteTimeout, NotificationTimeout override the
	// respective deadlines (spec §5); zero selects each package's
	// default. WriteTimeout applies only to the request-control write sent
	// during connect; Start/Stop/SetSpeed and poll writes always use
	// transport.DefaultWriteTimeout.
	ConnectionTimeout   durationMs
	WriteTimeout        durationMs
	NotificationTimeout durationMs
}

// durationMs is a millisecond count (an alias of float64, not a distinct
// type); a 0 means "use the default", unlike time.Duration's nanosecond
// values elsewhere in the library.
type durationMs = float64

func defaultFilters(opts ConnectOptions) []ble.Filter {
	if len(opts.Filters) > 0 {
		return opts.Filters
	}
	filters := make([]ble.Filter, 0, len(DefaultNamePrefixes))
	for _, p := range DefaultNamePrefixes {
		filters = append(filters, ble.Filter{NamePrefix: p})
	}
	return filters
}

func defaultOptionalServices(opts ConnectOptions) []string {
	if len(opts.OptionalServices) > 0 {
		return opts.OptionalServices
	}
	return DefaultOptionalServices
}
