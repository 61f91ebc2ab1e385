// Package gatt maps a connected peripheral's discovered services and
// characteristics onto the three roles the orchestrator needs — write,
// notify, and an optional control-point — across the two supported
// dialects (spec §4.6).
package gatt

import (
	"context"
	"errors"
	"fmt"

	"github.com/walkingpad/padctl/internal/ble"
	"github.com/walkingpad/padctl/internal/uuidutil"
)

const (
	ftmsServiceUUID           = "1826"
	ftmsTreadmillDataUUID     = "2acd"
	ftmsControlPointUUID      = "2ad9"

	legacyServiceUUIDA  = "fe00"
	legacyWriteUUIDA    = "fe01"
	legacyNotifyUUIDA   = "fe02"
	legacyServiceUUIDB  = "fff0"
	legacyWriteUUIDB    = "fff2"
	legacyNotifyUUIDB   = "fff1"
)

// ErrDiscoveryFailed is returned when a session never finds both a
// write and a notify characteristic across every discovered service.
var ErrDiscoveryFailed = errors.New("gatt: could not assign write and notify characteristics")

// Roles is the result of a successful discovery pass.
type Roles struct {
	ServiceUUIDs       []string
	Write              ble.Characteristic
	Notify             ble.Characteristic
	ControlPoint       ble.Characteristic // nil if this dialect has none
	ControlPointNotify ble.Characteristic // set only if the control point also indicates
	Disconnect         func() error
}

// Discover scans every primary service on session, assigning roles per
// the FTMS-first, legacy-fallback rule in spec §4.6. Legacy services are
// only consulted for whichever of write/notify is still unassigned after
// the FTMS pass, so an FTMS peripheral that also exposes legacy-looking
// services is not double-claimed.
func Discover(ctx context.Context, session ble.Session) (*Roles, error) {
	services, err := session.PrimaryServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("gatt: list primary services: %w", err)
	}

	roles := &Roles{Disconnect: session.Disconnect}

	for _, svc := range services {
		roles.ServiceUUIDs = append(roles.ServiceUUIDs, svc.UUID())

		chars, err := svc.Characteristics(ctx)
		if err != nil {
			return nil, fmt.Errorf("gatt: list characteristics of %s: %w", svc.UUID(), err)
		}

		switch {
		case uuidutil.Matches(svc.UUID(), ftmsServiceUUID):
			assignFTMSRoles(roles, chars)
		case uuidutil.Matches(svc.UUID(), legacyServiceUUIDA):
			assignLegacyRoles(roles, chars, legacyWriteUUIDA, legacyNotifyUUIDA)
		case uuidutil.Matches(svc.UUID(), legacyServiceUUIDB):
			assignLegacyRoles(roles, chars, legacyWriteUUIDB, legacyNotifyUUIDB)
		}
	}

	if roles.Write == nil || roles.Notify == nil {
		_ = session.Disconnect()
		return nil, ErrDiscoveryFailed
	}
	return roles, nil
}

func assignFTMSRoles(roles *Roles, chars []ble.Characteristic) {
	for _, c := range chars {
		switch {
		case uuidutil.Matches(c.UUID(), ftmsTreadmillDataUUID):
			if c.CanNotify() {
				roles.Notify = c
			}
		case uuidutil.Matches(c.UUID(), ftmsControlPointUUID):
			if c.CanWrite() || c.CanWriteWithoutResponse() {
				roles.Write = c
				roles.ControlPoint = c
				if c.CanIndicate() {
					roles.ControlPointNotify = c
				}
			}
		}
	}
}

func assignLegacyRoles(roles *Roles, chars []ble.Characteristic, writeUUID, notifyUUID string) {
	for _, c := range chars {
		switch {
		case uuidutil.Matches(c.UUID(), writeUUID):
			if roles.Write == nil && (c.CanWrite() || c.CanWriteWithoutResponse()) {
				roles.Write = c
			}
		case uuidutil.Matches(c.UUID(), notifyUUID):
			if roles.Notify == nil && c.CanNotify() {
				roles.Notify = c
			}
		}
	}
}
